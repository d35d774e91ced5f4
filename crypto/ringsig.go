package crypto

import (
	"errors"

	"github.com/NebulousLabs/fastrand"
)

// RingSignature is the standard CryptoNote LSAG signature over an
// n-member ring: n pairs (c_i, r_i), one per ring member, sharing a single
// key image.
type RingSignature struct {
	C []Scalar
	R []Scalar
}

// ErrRingSignatureInvalid is returned by RingVerify when the aggregate
// challenge equation does not hold.
var ErrRingSignatureInvalid = errors.New("crypto: ring signature verification failed")

// ErrRingIndexOutOfRange is returned by RingSign when the signer index
// does not address a member of the ring.
var ErrRingIndexOutOfRange = errors.New("crypto: signer index out of range")

// RingSign produces an LSAG ring signature over message m for the ring
// {ring[0], ..., ring[n-1]}, knowing the private key x of ring[signerIndex]
// (so ring[signerIndex] = x*G), with key image keyImage = x*Hp(ring[signerIndex]).
//
// Implements spec §4.1's ring-signature contract: the signer picks a
// uniform α, sets L_s = α·G, R_s = α·Hp(P_s), draws uniform r_i, c_i for
// i != s, computes the running challenge hash, and closes with
// c_s = Σ_{i != s} c_i − c(m, ...) mod ℓ, r_s = α − c_s·x mod ℓ. All
// randomness is drawn from fastrand, matching the teacher's
// crypto/signatures.go convention.
func RingSign(message [32]byte, ring []Point, keyImage Point, signerIndex int, x Scalar) (RingSignature, error) {
	n := len(ring)
	if signerIndex < 0 || signerIndex >= n {
		return RingSignature{}, ErrRingIndexOutOfRange
	}

	c := make([]Scalar, n)
	r := make([]Scalar, n)
	l := make([]Point, n)
	rr := make([]Point, n)

	hp := make([]Point, n)
	for i, p := range ring {
		pb := p.Bytes()
		hp[i] = HashToPoint(pb[:])
	}

	alpha := randomScalar()
	l[signerIndex] = ScalarMulBase(alpha)
	rr[signerIndex] = PointScalarMul(hp[signerIndex], alpha)

	sum := ScalarZero()
	for i := 0; i < n; i++ {
		if i == signerIndex {
			continue
		}
		c[i] = randomScalar()
		r[i] = randomScalar()
		l[i] = PointAdd(ScalarMulBase(r[i]), PointScalarMul(ring[i], c[i]))
		rr[i] = PointAdd(PointScalarMul(hp[i], r[i]), PointScalarMul(keyImage, c[i]))
		sum = ScalarAdd(sum, c[i])
	}

	challenge := ringChallenge(message, l, rr)
	c[signerIndex] = ScalarSub(challenge, sum)
	r[signerIndex] = ScalarSub(alpha, ScalarMul(c[signerIndex], x))

	return RingSignature{C: c, R: r}, nil
}

// RingVerify checks the LSAG verification equation:
// Σ c_i ≡ c(m, L_0, R_0, ..., L_{n-1}, R_{n-1}) (mod ℓ), where
// L_i = r_i·G + c_i·P_i and R_i = r_i·Hp(P_i) + c_i·I.
func RingVerify(message [32]byte, ring []Point, keyImage Point, sig RingSignature) error {
	n := len(ring)
	if len(sig.C) != n || len(sig.R) != n {
		return ErrRingSignatureInvalid
	}

	l := make([]Point, n)
	rr := make([]Point, n)
	sum := ScalarZero()
	for i := 0; i < n; i++ {
		l[i] = DoubleScalarMulBaseVartime(sig.C[i], ring[i], sig.R[i])
		pb := ring[i].Bytes()
		hp := HashToPoint(pb[:])
		rr[i] = PointAdd(PointScalarMul(hp, sig.R[i]), PointScalarMul(keyImage, sig.C[i]))
		sum = ScalarAdd(sum, sig.C[i])
	}

	challenge := ringChallenge(message, l, rr)
	if !ScalarEqual(sum, challenge) {
		return ErrRingSignatureInvalid
	}
	return nil
}

// ringChallenge computes c(m, L_0, R_0, ..., L_{n-1}, R_{n-1}) as
// hash_to_scalar(m || L_0 || R_0 || ... ).
func ringChallenge(message [32]byte, l, rr []Point) Scalar {
	buf := make([]byte, 0, 32+64*len(l))
	buf = append(buf, message[:]...)
	for i := range l {
		lb := l[i].Bytes()
		rb := rr[i].Bytes()
		buf = append(buf, lb[:]...)
		buf = append(buf, rb[:]...)
	}
	return HashToScalar(buf)
}

func randomScalar() Scalar {
	var buf [64]byte
	fastrand.Read(buf[:])
	return ScalarReduce(buf[:])
}
