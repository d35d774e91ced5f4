package address

import (
	"bytes"
	"errors"

	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
	"github.com/wrkzcoin/wrkzcoin-sub002/encoding"
)

// ErrChecksumMismatch is returned by Decode/DecodeIntegrated when the
// trailing 4-byte checksum does not match sha3_256 of the preceding bytes.
var ErrChecksumMismatch = errors.New("address: checksum mismatch")

// ErrBadLength is returned when a decoded address payload has an
// unexpected length for its kind.
var ErrBadLength = errors.New("address: unexpected payload length")

// checksumSize is the number of trailing bytes used for the address
// checksum: the first 4 bytes of sha3_256(prefix || keys...).
const checksumSize = 4

// Address is a decoded standard CryptoNote address: a network prefix and
// the recipient's public spend and view keys.
type Address struct {
	Prefix      uint64
	PublicSpend crypto.Point
	PublicView  crypto.Point
}

// IntegratedAddress additionally carries a 32-byte payment ID baked into
// the address itself.
type IntegratedAddress struct {
	Prefix      uint64
	PaymentID   [32]byte
	PublicSpend crypto.Point
	PublicView  crypto.Point
}

// Encode serializes prefix_varint || public_spend || public_view, appends
// a 4-byte sha3_256 checksum, and block-encodes the result as base58.
func Encode(prefix uint64, spend, view crypto.Point) string {
	payload := encodePrefix(prefix)
	payload = appendPoint(payload, spend)
	payload = appendPoint(payload, view)
	return EncodeBlockEncodedBase58(appendChecksum(payload))
}

// Decode reverses Encode, verifying the checksum.
func Decode(s string) (Address, error) {
	body, err := decodeAndVerify(s)
	if err != nil {
		return Address{}, err
	}

	prefix, rest, err := readPrefix(body)
	if err != nil {
		return Address{}, err
	}
	if len(rest) != 64 {
		return Address{}, ErrBadLength
	}
	spend, view, err := readTwoPoints(rest)
	if err != nil {
		return Address{}, err
	}
	return Address{Prefix: prefix, PublicSpend: spend, PublicView: view}, nil
}

// EncodeIntegrated serializes prefix_varint || payment_id[32] ||
// public_spend || public_view plus checksum, using a distinct prefix from
// the standard address.
func EncodeIntegrated(prefix uint64, paymentID [32]byte, spend, view crypto.Point) string {
	payload := encodePrefix(prefix)
	payload = append(payload, paymentID[:]...)
	payload = appendPoint(payload, spend)
	payload = appendPoint(payload, view)
	return EncodeBlockEncodedBase58(appendChecksum(payload))
}

// DecodeIntegrated reverses EncodeIntegrated.
func DecodeIntegrated(s string) (IntegratedAddress, error) {
	body, err := decodeAndVerify(s)
	if err != nil {
		return IntegratedAddress{}, err
	}

	prefix, rest, err := readPrefix(body)
	if err != nil {
		return IntegratedAddress{}, err
	}
	if len(rest) != 32+64 {
		return IntegratedAddress{}, ErrBadLength
	}
	var paymentID [32]byte
	copy(paymentID[:], rest[:32])

	spend, view, err := readTwoPoints(rest[32:])
	if err != nil {
		return IntegratedAddress{}, err
	}
	return IntegratedAddress{Prefix: prefix, PaymentID: paymentID, PublicSpend: spend, PublicView: view}, nil
}

func readTwoPoints(rest []byte) (crypto.Point, crypto.Point, error) {
	var spendBytes, viewBytes [32]byte
	copy(spendBytes[:], rest[:32])
	copy(viewBytes[:], rest[32:64])
	spend, err := crypto.PointFromBytes(spendBytes)
	if err != nil {
		return crypto.Point{}, crypto.Point{}, err
	}
	view, err := crypto.PointFromBytes(viewBytes)
	if err != nil {
		return crypto.Point{}, crypto.Point{}, err
	}
	return spend, view, nil
}

func appendPoint(payload []byte, p crypto.Point) []byte {
	b := p.Bytes()
	return append(payload, b[:]...)
}

func encodePrefix(prefix uint64) []byte {
	var buf bytes.Buffer
	_ = encoding.WriteVarint(&buf, prefix)
	return buf.Bytes()
}

func readPrefix(body []byte) (uint64, []byte, error) {
	r := bytes.NewReader(body)
	prefix, err := encoding.ReadVarint(r)
	if err != nil {
		return 0, nil, err
	}
	return prefix, body[len(body)-r.Len():], nil
}

func appendChecksum(payload []byte) []byte {
	sum := crypto.Sha3256(payload)
	return append(payload, sum[:checksumSize]...)
}

func decodeAndVerify(s string) ([]byte, error) {
	raw, err := DecodeBlockEncodedBase58(s)
	if err != nil {
		return nil, err
	}
	if len(raw) < checksumSize {
		return nil, ErrBadLength
	}
	body := raw[:len(raw)-checksumSize]
	want := raw[len(raw)-checksumSize:]
	sum := crypto.Sha3256(body)
	for i := 0; i < checksumSize; i++ {
		if sum[i] != want[i] {
			return nil, ErrChecksumMismatch
		}
	}
	return body, nil
}
