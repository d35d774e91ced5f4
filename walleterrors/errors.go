// Package walleterrors implements the error taxonomy of §7: every
// operation that crosses a component boundary returns an error carrying
// one of a fixed set of kinds, so callers (and, eventually, an RPC layer
// outside this module's scope) can branch on *why* something failed
// without parsing strings.
package walleterrors

import "fmt"

// Kind is one of the error kinds named in spec §7. It is not a type name —
// several Go error types may carry the same Kind.
type Kind int

// The error kinds from spec.md §7.
const (
	InputError Kind = iota
	BalanceError
	CryptoError
	NetworkError
	NodeProtocolError
	PersistenceError
	StateError
	ConsensusError
)

func (k Kind) String() string {
	switch k {
	case InputError:
		return "InputError"
	case BalanceError:
		return "BalanceError"
	case CryptoError:
		return "CryptoError"
	case NetworkError:
		return "NetworkError"
	case NodeProtocolError:
		return "NodeProtocolError"
	case PersistenceError:
		return "PersistenceError"
	case StateError:
		return "StateError"
	case ConsensusError:
		return "ConsensusError"
	default:
		return "UnknownError"
	}
}

// Error is the concrete error type returned across every component
// boundary named in spec §4. Op names the failing operation
// (e.g. "composer.SendBasic"), Kind classifies the failure per §7, and Err
// is the underlying cause, if any.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is(err, walleterrors.InputError) (etc.) to work against
// a Kind value directly, in addition to the usual sentinel-error form.
func (e *Error) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return e.Kind == k
	}
	return false
}

// Error makes a Kind usable directly as an errors.Is target.
func (k Kind) Error() string { return k.String() }

// New builds an *Error of the given kind.
func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Input(op string, err error) error           { return New(InputError, op, err) }
func Balance(op string, err error) error         { return New(BalanceError, op, err) }
func Crypto(op string, err error) error          { return New(CryptoError, op, err) }
func Network(op string, err error) error         { return New(NetworkError, op, err) }
func NodeProtocol(op string, err error) error    { return New(NodeProtocolError, op, err) }
func Persistence(op string, err error) error     { return New(PersistenceError, op, err) }
func State(op string, err error) error           { return New(StateError, op, err) }
func Consensus(op string, err error) error       { return New(ConsensusError, op, err) }

// KindOf reports the Kind of err if it (or something it wraps) is an
// *Error, and ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if asError(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
