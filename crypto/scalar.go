package crypto

import "math/big"

// groupOrder is ℓ = 2^252 + 27742317777372353535851937790883648493, the
// prime order of the Ed25519 base point's subgroup.
var groupOrder = mustBigFromDecimal("7237005577332262213973186563042994240857116359379907606001950938285454250989")

// Scalar is a residue modulo groupOrder, i.e. spec's Scalar.
type Scalar struct {
	v big.Int
}

func newScalar(v *big.Int) Scalar {
	var s Scalar
	s.v.Mod(v, groupOrder)
	return s
}

// ScalarZero and ScalarOne are the additive and multiplicative identities.
func ScalarZero() Scalar { return newScalar(big.NewInt(0)) }
func ScalarOne() Scalar  { return newScalar(big.NewInt(1)) }

// ScalarFromUint64 lifts a small integer into a Scalar; used for
// derivation indices and other protocol constants.
func ScalarFromUint64(x uint64) Scalar {
	return newScalar(new(big.Int).SetUint64(x))
}

// ScalarFromCanonicalBytes decodes a 32-byte little-endian value that is
// already known to be in [0, ℓ), as required by spec §3 for a stored
// Scalar. Values outside that range are reduced anyway, so the function
// never fails, but callers that need to detect non-canonical encodings
// should compare ScalarFromCanonicalBytes(b).Bytes() against b themselves.
func ScalarFromCanonicalBytes(b [32]byte) Scalar {
	return newScalar(new(big.Int).SetBytes(reverse32(b)))
}

// ScalarReduce reduces an arbitrary little-endian byte string modulo ℓ.
// Used by hash_to_scalar, which reduces a 32-byte Keccak/SHA-3 digest.
func ScalarReduce(b []byte) Scalar {
	be := make([]byte, len(b))
	for i, c := range b {
		be[len(b)-1-i] = c
	}
	return newScalar(new(big.Int).SetBytes(be))
}

// Bytes encodes the scalar to its canonical 32-byte little-endian form.
func (s Scalar) Bytes() [32]byte {
	reduced := new(big.Int).Mod(&s.v, groupOrder)
	raw := reduced.Bytes()
	var be [32]byte
	copy(be[32-len(raw):], raw)
	var le [32]byte
	for i := 0; i < 32; i++ {
		le[i] = be[31-i]
	}
	return le
}

// IsZero reports whether s is the zero scalar.
func (s Scalar) IsZero() bool {
	return new(big.Int).Mod(&s.v, groupOrder).Sign() == 0
}

// ScalarAdd, ScalarSub, ScalarMul, ScalarNeg implement ring operations
// modulo ℓ.
func ScalarAdd(a, b Scalar) Scalar { return newScalar(new(big.Int).Add(&a.v, &b.v)) }
func ScalarSub(a, b Scalar) Scalar { return newScalar(new(big.Int).Sub(&a.v, &b.v)) }
func ScalarMul(a, b Scalar) Scalar { return newScalar(new(big.Int).Mul(&a.v, &b.v)) }
func ScalarNeg(a Scalar) Scalar    { return newScalar(new(big.Int).Neg(&a.v)) }

// ScalarEqual reports whether a and b are the same residue mod ℓ.
func ScalarEqual(a, b Scalar) bool {
	return new(big.Int).Mod(&a.v, groupOrder).Cmp(new(big.Int).Mod(&b.v, groupOrder)) == 0
}

// bitAt returns bit i (0 = least significant) of the scalar's canonical
// representative, used by double-and-add scalar multiplication.
func (s Scalar) bitAt(i int) uint {
	reduced := new(big.Int).Mod(&s.v, groupOrder)
	return uint(reduced.Bit(i))
}

// bitLen returns the number of significant bits in the scalar's canonical
// representative (at most 253 for a reduced value mod ℓ).
func (s Scalar) bitLen() int {
	reduced := new(big.Int).Mod(&s.v, groupOrder)
	return reduced.BitLen()
}
