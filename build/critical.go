package build

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
)

// Critical should be called if a sanity check has failed, indicating developer
// error. Critical is called with an error, the text of which aborts the
// program in a debug build, and otherwise is logged and swallowed so normal
// (defensive) operation can continue.
//
// Critical is grounded on the teacher's `build.Critical`/`build.Severe` split
// referenced throughout modules/wallet (e.g. update.go's
// `build.Critical("Block wherer ubs is used...")`); those call sites are
// reproduced with this package under the new domain.
func Critical(v ...interface{}) {
	critical(fmt.Sprintln(v...))
}

// Severe is the same as Critical but is always non-fatal. It is for
// assertions that should hold, but whose violation is recoverable and does
// not necessarily indicate memory corruption or an otherwise compromised
// process (e.g. "inserted a duplicate key image" during a replay).
func Severe(v ...interface{}) {
	severe(fmt.Sprintln(v...))
}

func critical(s string) {
	if DEBUG {
		panic("critical failure: " + s + "\n" + string(debug.Stack()))
	}
	severe(s)
}

func severe(s string) {
	fmt.Fprintln(os.Stderr, "[SEVERE]", strings.TrimSpace(s))
}

// JoinErrors combines multiple errors into a single one, separated by sep.
// A nil slice (or one containing only nil errors) returns nil.
func JoinErrors(errs []error, sep string) error {
	var nonNil []string
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err.Error())
		}
	}
	if len(nonNil) == 0 {
		return nil
	}
	return joinedError(strings.Join(nonNil, sep))
}

type joinedError string

func (e joinedError) Error() string { return string(e) }
