package composer

import (
	"bytes"
	"io"

	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
	"github.com/wrkzcoin/wrkzcoin-sub002/encoding"
)

// TxInput is one input of a transaction under construction: the ring of
// absolute global output indices (sorted ascending per spec §4.7) and
// matching public keys, the signer's position within that ring, and the
// key image the signature binds to. PrivateEphemeral is held only for
// signing and is never serialized.
type TxInput struct {
	Amount              uint64
	RingAbsoluteIndices []uint64
	RingPubKeys         []crypto.Point
	SignerIndex         int
	KeyImage            crypto.Point
	PrivateEphemeral    crypto.Scalar
}

// TxOutput is one stealth output: an amount and the one-time public key
// derived for it (spec §4.7's "stealth output derivation").
type TxOutput struct {
	Amount uint64
	Key    crypto.Point
}

// Transaction is this module's own wire representation. The spec does
// not mandate byte-for-byte compatibility with the original CryptoNote
// format beyond the sub-encodings it names explicitly (extra, relative
// ring indices, the LSAG math); this layout is a self-consistent
// internal scheme built from those named pieces.
type Transaction struct {
	Version    uint64
	UnlockTime uint64
	Inputs     []TxInput
	Outputs    []TxOutput
	Extra      []byte
	Signatures []crypto.RingSignature
}

// encodePrefix serializes everything that signatures commit to: version,
// unlock_time, inputs (amount, relative ring indices, key image), outputs
// (amount, key), and extra. Signatures themselves are excluded, since
// they are computed over this prefix's hash.
func encodePrefix(tx Transaction) []byte {
	var buf bytes.Buffer
	encoding.WriteVarint(&buf, tx.Version)
	encoding.WriteVarint(&buf, tx.UnlockTime)

	encoding.WriteVarint(&buf, uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		encoding.WriteVarint(&buf, in.Amount)
		encoding.WriteRelativeIndices(&buf, in.RingAbsoluteIndices)
		ki := in.KeyImage.Bytes()
		buf.Write(ki[:])
	}

	encoding.WriteVarint(&buf, uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		encoding.WriteVarint(&buf, out.Amount)
		k := out.Key.Bytes()
		buf.Write(k[:])
	}

	encoding.WriteVarint(&buf, uint64(len(tx.Extra)))
	buf.Write(tx.Extra)

	return buf.Bytes()
}

// PrefixHash returns sha3_256 of the signable prefix: the message every
// input's ring signature is computed over.
func PrefixHash(tx Transaction) [32]byte {
	return crypto.Sha3256(encodePrefix(tx))
}

// Encode serializes the full transaction, prefix followed by one ring
// signature per input, in input order.
func Encode(tx Transaction) []byte {
	buf := bytes.NewBuffer(encodePrefix(tx))
	for _, sig := range tx.Signatures {
		encoding.WriteVarint(buf, uint64(len(sig.C)))
		for i := range sig.C {
			cb := sig.C[i].Bytes()
			rb := sig.R[i].Bytes()
			buf.Write(cb[:])
			buf.Write(rb[:])
		}
	}
	return buf.Bytes()
}

// Hash returns the transaction's identifying hash: sha3_256 of its full
// encoded form, including signatures.
func Hash(tx Transaction) [32]byte {
	return crypto.Sha3256(Encode(tx))
}

// Size returns the byte length of the transaction's full encoded form,
// used against max_tx_size(height) and the per-byte fee floor.
func Size(tx Transaction) uint64 {
	return uint64(len(Encode(tx)))
}

func read32(r *bytes.Reader) ([32]byte, error) {
	var b [32]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return b, err
	}
	return b, nil
}

// Decode parses the wire form produced by Encode. RingPubKeys and
// SignerIndex are left zero: neither is part of the signable prefix or
// the signature bytes, so a resubmission path (recomputing Encode/Hash
// over the decoded Transaction) never needs them back. This is enough
// to let a saved PreparedTransaction be resubmitted via send_prepared
// after a wallet reopen without re-deriving a ring.
func Decode(raw []byte) (Transaction, error) {
	r := bytes.NewReader(raw)
	var tx Transaction
	var err error

	if tx.Version, err = encoding.ReadVarint(r); err != nil {
		return tx, err
	}
	if tx.UnlockTime, err = encoding.ReadVarint(r); err != nil {
		return tx, err
	}

	numInputs, err := encoding.ReadVarint(r)
	if err != nil {
		return tx, err
	}
	tx.Inputs = make([]TxInput, numInputs)
	for i := range tx.Inputs {
		if tx.Inputs[i].Amount, err = encoding.ReadVarint(r); err != nil {
			return tx, err
		}
		if tx.Inputs[i].RingAbsoluteIndices, err = encoding.ReadRelativeIndices(r); err != nil {
			return tx, err
		}
		kiBytes, err := read32(r)
		if err != nil {
			return tx, err
		}
		ki, err := crypto.PointFromBytes(kiBytes)
		if err != nil {
			return tx, err
		}
		tx.Inputs[i].KeyImage = ki
	}

	numOutputs, err := encoding.ReadVarint(r)
	if err != nil {
		return tx, err
	}
	tx.Outputs = make([]TxOutput, numOutputs)
	for i := range tx.Outputs {
		if tx.Outputs[i].Amount, err = encoding.ReadVarint(r); err != nil {
			return tx, err
		}
		keyBytes, err := read32(r)
		if err != nil {
			return tx, err
		}
		key, err := crypto.PointFromBytes(keyBytes)
		if err != nil {
			return tx, err
		}
		tx.Outputs[i].Key = key
	}

	extraLen, err := encoding.ReadVarint(r)
	if err != nil {
		return tx, err
	}
	tx.Extra = make([]byte, extraLen)
	if _, err := io.ReadFull(r, tx.Extra); err != nil {
		return tx, err
	}

	tx.Signatures = make([]crypto.RingSignature, numInputs)
	for i := range tx.Signatures {
		n, err := encoding.ReadVarint(r)
		if err != nil {
			return tx, err
		}
		sig := crypto.RingSignature{C: make([]crypto.Scalar, n), R: make([]crypto.Scalar, n)}
		for j := uint64(0); j < n; j++ {
			cb, err := read32(r)
			if err != nil {
				return tx, err
			}
			rb, err := read32(r)
			if err != nil {
				return tx, err
			}
			sig.C[j] = crypto.ScalarFromCanonicalBytes(cb)
			sig.R[j] = crypto.ScalarFromCanonicalBytes(rb)
		}
		tx.Signatures[i] = sig
	}

	return tx, nil
}
