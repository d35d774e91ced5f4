package crypto

import (
	"errors"
	"math/big"

	"github.com/NebulousLabs/fastrand"
)

// edD is the Edwards curve parameter d = -121665/121666 mod p.
var edD = FeMul(FeNeg(newElement(big.NewInt(121665))), FeInvert(newElement(big.NewInt(121666))))

// Point is an element of the Ed25519 group, held in affine (x, y)
// coordinates. Affine unified addition (rather than extended-coordinate
// arithmetic) is used throughout: it is the textbook a=-1 twisted Edwards
// addition law, complete on the prime-order subgroup, and easier to verify
// by inspection than a projective formulation — the right trade for code
// that cannot be exercised with `go test` before being handed over.
type Point struct {
	x, y Element
}

// ErrInvalidPoint is returned by point decoding when the encoded bytes do
// not correspond to a point on the curve.
var ErrInvalidPoint = errors.New("crypto: invalid point encoding")

// PointIdentity is the neutral element (0, 1).
func PointIdentity() Point {
	return Point{x: FeZero(), y: FeOne()}
}

// PointBase is the conventional Ed25519 generator G.
var PointBase = Point{
	x: newElement(mustBigFromDecimal("15112221349535400772501151409588531511454012693041857206046113283949847762202")),
	y: newElement(mustBigFromDecimal("46316835694926478169428394003475163141307993866256225615783033603165251855960")),
}

// PointFromBytes decodes a 32-byte compressed point.
func PointFromBytes(b [32]byte) (Point, error) {
	signBit := b[31] >> 7
	yBytes := b
	yBytes[31] &= 0x7f
	y := FeFromBytes(yBytes)

	// x^2 = (y^2 - 1) / (d*y^2 + 1)
	y2 := FeSq(y)
	num := FeSub(y2, FeOne())
	den := FeAdd(FeMul(edD, y2), FeOne())
	x2 := FeMul(num, FeInvert(den))
	x, ok := feSqrt(x2)
	if !ok {
		return Point{}, ErrInvalidPoint
	}
	if x.v.Sign() == 0 && signBit == 1 {
		return Point{}, ErrInvalidPoint
	}
	if FeIsNegative(x) != (signBit == 1) {
		x = FeNeg(x)
	}
	return Point{x: x, y: y}, nil
}

// Bytes encodes p to its 32-byte compressed form.
func (p Point) Bytes() [32]byte {
	out := p.y.FeToBytes()
	if FeIsNegative(p.x) {
		out[31] |= 0x80
	} else {
		out[31] &= 0x7f
	}
	return out
}

// Equal reports whether p and q encode the same point.
func (p Point) Equal(q Point) bool {
	return FeEqual(p.x, q.x) && FeEqual(p.y, q.y)
}

// PointAdd implements the complete twisted Edwards (a=-1) addition law.
func PointAdd(p, q Point) Point {
	x1y2 := FeMul(p.x, q.y)
	y1x2 := FeMul(p.y, q.x)
	y1y2 := FeMul(p.y, q.y)
	x1x2 := FeMul(p.x, q.x)
	dxy := FeMul(edD, FeMul(FeMul(p.x, q.x), FeMul(p.y, q.y)))

	xNum := FeAdd(x1y2, y1x2)
	xDen := FeAdd(FeOne(), dxy)
	yNum := FeAdd(y1y2, x1x2)
	yDen := FeSub(FeOne(), dxy)

	return Point{
		x: FeMul(xNum, FeInvert(xDen)),
		y: FeMul(yNum, FeInvert(yDen)),
	}
}

// PointSub returns p - q.
func PointSub(p, q Point) Point {
	return PointAdd(p, PointNegate(q))
}

// PointNegate returns -p.
func PointNegate(p Point) Point {
	return Point{x: FeNeg(p.x), y: p.y}
}

// PointDouble returns p + p.
func PointDouble(p Point) Point {
	return PointAdd(p, p)
}

// PointScalarMul computes s*P via left-to-right double-and-add.
func PointScalarMul(p Point, s Scalar) Point {
	result := PointIdentity()
	n := s.bitLen()
	for i := n - 1; i >= 0; i-- {
		result = PointDouble(result)
		if s.bitAt(i) == 1 {
			result = PointAdd(result, p)
		}
	}
	return result
}

// ScalarMulBase computes s*G.
func ScalarMulBase(s Scalar) Point {
	return PointScalarMul(PointBase, s)
}

// PointMul8 clears the cofactor: 8*P.
func PointMul8(p Point) Point {
	return PointDouble(PointDouble(PointDouble(p)))
}

// DoubleScalarMulBaseVartime computes a*A + b*G in variable time, used for
// ring-signature verification (L_i = r_i*G + c_i*P_i and
// R_i = r_i*Hp(P_i) + c_i*I both reduce to this shape). The exponent pair
// is recoded into width-6 signed sliding windows (digit magnitude <= 15)
// per spec §4.1, mirroring original_source's slide.cpp /
// ge_double_scalarmult_base_negate_vartime.cpp, and then evaluated with a
// combined double-and-add sweep over both recoded digit strings.
func DoubleScalarMulBaseVartime(a Scalar, A Point, b Scalar) Point {
	aDigits := slide(a)
	bDigits := slide(b)

	// Precompute small odd multiples of A: A, 3A, 5A, ..., 15A.
	var aMultiples [8]Point
	aMultiples[0] = A
	a2 := PointDouble(A)
	for i := 1; i < 8; i++ {
		aMultiples[i] = PointAdd(aMultiples[i-1], a2)
	}
	var bMultiples [8]Point
	bMultiples[0] = PointBase
	b2 := PointDouble(PointBase)
	for i := 1; i < 8; i++ {
		bMultiples[i] = PointAdd(bMultiples[i-1], b2)
	}

	n := len(aDigits)
	if len(bDigits) > n {
		n = len(bDigits)
	}

	result := PointIdentity()
	for i := n - 1; i >= 0; i-- {
		result = PointDouble(result)
		if i < len(aDigits) && aDigits[i] != 0 {
			result = applyDigit(result, aDigits[i], aMultiples)
		}
		if i < len(bDigits) && bDigits[i] != 0 {
			result = applyDigit(result, bDigits[i], bMultiples)
		}
	}
	return result
}

func applyDigit(acc Point, digit int8, multiples [8]Point) Point {
	if digit > 0 {
		return PointAdd(acc, multiples[digit/2])
	}
	return PointSub(acc, multiples[(-digit)/2])
}

// slide converts a scalar into a little-endian signed-digit representation
// with window width <= 6 (digit magnitude <= 15), scanning the bit string
// and, for each set bit, merging set bits up to 6 positions ahead into the
// current digit, negating and carrying when the merge would overflow.
func slide(s Scalar) []int8 {
	bits := make([]int8, 256)
	n := s.bitLen()
	for i := 0; i < n; i++ {
		bits[i] = int8(s.bitAt(i))
	}

	digits := make([]int8, 256)
	for i := 0; i < 256; i++ {
		if bits[i] == 0 {
			continue
		}
		digits[i] = bits[i]
		for b := 1; b <= 6 && i+b < 256; b++ {
			if bits[i+b] == 0 {
				continue
			}
			if digits[i]+(bits[i+b]<<uint(b)) <= 15 {
				digits[i] += bits[i+b] << uint(b)
				bits[i+b] = 0
			} else if digits[i]-(bits[i+b]<<uint(b)) >= -15 {
				digits[i] -= bits[i+b] << uint(b)
				for k := i + b; k < 256; k++ {
					if bits[k] == 0 {
						bits[k] = 1
						break
					}
					bits[k] = 0
				}
			} else {
				break
			}
		}
	}
	// trim trailing zero digits for a tighter loop bound
	last := 0
	for i, d := range digits {
		if d != 0 {
			last = i
		}
	}
	return digits[:last+1]
}

// GenerateKeyPair returns a uniformly random Ed25519-style keypair
// (secret scalar, public point sk*G). Randomness always comes from
// fastrand, matching the teacher's crypto/signatures.go, which draws on
// fastrand.Reader for exactly this purpose.
func GenerateKeyPair() (sk Scalar, pk Point) {
	var buf [64]byte
	fastrand.Read(buf[:])
	sk = ScalarReduce(buf[:])
	pk = ScalarMulBase(sk)
	return
}
