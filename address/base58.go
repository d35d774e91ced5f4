// Package address implements CryptoNote's block-encoded base58 address
// codec (spec §4.10): standard and payment-id-integrated addresses, plus
// atomic-unit display formatting. Grounded on original_source's
// configured decimal point (CryptoNoteConfig.h's
// CRYPTONOTE_DISPLAY_DECIMAL_POINT) since no pack example implements this
// block-chunked base58 variant directly.
package address

import (
	"errors"
	"math/big"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

const (
	fullBlockSize        = 8
	fullEncodedBlockSize = 11
)

// encodedBlockSizes[n] is the encoded character width of an n-byte data
// block, for n in [0, fullBlockSize].
var encodedBlockSizes = [fullBlockSize + 1]int{0, 2, 3, 5, 6, 7, 9, 10, 11}

var base58Index = buildBase58Index()

func buildBase58Index() map[byte]int64 {
	m := make(map[byte]int64, len(base58Alphabet))
	for i := 0; i < len(base58Alphabet); i++ {
		m[base58Alphabet[i]] = int64(i)
	}
	return m
}

// ErrInvalidBase58 is returned when decoding encounters a character
// outside the alphabet or a block of an unrecognized length.
var ErrInvalidBase58 = errors.New("address: invalid base58 encoding")

// EncodeBlockEncodedBase58 encodes data using CryptoNote's block-chunked
// base58 variant: data is split into 8-byte groups, each group encoded to
// a fixed-width base58 block (11 chars for a full group, a shorter width
// from encodedBlockSizes for the trailing partial group).
func EncodeBlockEncodedBase58(data []byte) string {
	out := make([]byte, 0, (len(data)/fullBlockSize+1)*fullEncodedBlockSize)
	fullBlocks := len(data) / fullBlockSize
	for i := 0; i < fullBlocks; i++ {
		out = append(out, encodeBlock(data[i*fullBlockSize:(i+1)*fullBlockSize], fullEncodedBlockSize)...)
	}
	if rem := len(data) % fullBlockSize; rem > 0 {
		out = append(out, encodeBlock(data[fullBlocks*fullBlockSize:], encodedBlockSizes[rem])...)
	}
	return string(out)
}

// DecodeBlockEncodedBase58 reverses EncodeBlockEncodedBase58.
func DecodeBlockEncodedBase58(s string) ([]byte, error) {
	fullBlocks := len(s) / fullEncodedBlockSize
	rem := len(s) % fullEncodedBlockSize

	lastDataSize := 0
	if rem > 0 {
		found := false
		for dataSize, encSize := range encodedBlockSizes {
			if encSize == rem {
				lastDataSize = dataSize
				found = true
				break
			}
		}
		if !found {
			return nil, ErrInvalidBase58
		}
	}

	out := make([]byte, 0, fullBlocks*fullBlockSize+lastDataSize)
	for i := 0; i < fullBlocks; i++ {
		block, err := decodeBlock(s[i*fullEncodedBlockSize:(i+1)*fullEncodedBlockSize], fullBlockSize)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	if rem > 0 {
		block, err := decodeBlock(s[fullBlocks*fullEncodedBlockSize:], lastDataSize)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
	return out, nil
}

func encodeBlock(data []byte, encodedSize int) []byte {
	num := new(big.Int).SetBytes(data)
	base := big.NewInt(58)
	mod := new(big.Int)

	digits := make([]byte, 0, encodedSize)
	for num.Sign() > 0 {
		num.DivMod(num, base, mod)
		digits = append(digits, base58Alphabet[mod.Int64()])
	}

	out := make([]byte, encodedSize)
	for i := range out {
		out[i] = base58Alphabet[0]
	}
	for i, d := range digits {
		out[encodedSize-1-i] = d
	}
	return out
}

func decodeBlock(s string, dataSize int) ([]byte, error) {
	num := new(big.Int)
	base := big.NewInt(58)
	digit := new(big.Int)
	for i := 0; i < len(s); i++ {
		idx, ok := base58Index[s[i]]
		if !ok {
			return nil, ErrInvalidBase58
		}
		num.Mul(num, base)
		digit.SetInt64(idx)
		num.Add(num, digit)
	}
	raw := num.Bytes()
	if len(raw) > dataSize {
		return nil, ErrInvalidBase58
	}
	out := make([]byte, dataSize)
	copy(out[dataSize-len(raw):], raw)
	return out, nil
}
