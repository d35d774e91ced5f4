// Package mnemonic implements the CryptoNote-style 25-word seed scheme:
// a 32-byte private spend key is encoded as 24 words (three words per 4-byte
// little-endian chunk, CryptoNote's classic chunked-remainder encoding) plus
// a 25th checksum word, computed as a CRC-32 over the first 24 words'
// dictionary indices. This is distinct from BIP39's 2048-word/checksum-bit
// layout; the shape of Phrase and the dictionary-index lookup below (a map
// built from wordList) is
// grounded on the teacher's own BIP39 implementation's Phrase/FromPhrase/
// ToPhrase/searchDic pattern, adapted to CryptoNote's chunk encoding instead
// of BIP39's entropy-plus-checksum-bits scheme.
package mnemonic

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"strings"
)

// WordCount is the number of words in a complete seed phrase: 24 data words
// plus one checksum word.
const WordCount = 25

var (
	// ErrWrongWordCount is returned when a phrase does not have exactly
	// WordCount words.
	ErrWrongWordCount = errors.New("mnemonic: phrase must have exactly 25 words")

	// ErrUnknownWord is returned when a phrase contains a word not present
	// in the dictionary.
	ErrUnknownWord = errors.New("mnemonic: word not found in dictionary")

	// ErrChecksumMismatch is returned when the 25th word does not match the
	// CRC-32 checksum computed over the first 24 words' indices.
	ErrChecksumMismatch = errors.New("mnemonic: checksum word does not match")
)

var wordIndex = buildWordIndex()

func buildWordIndex() map[string]int {
	m := make(map[string]int, WordListSize)
	for i, w := range wordList {
		m[w] = i
	}
	return m
}

// Phrase is the human-readable 25-word representation of a seed.
type Phrase []string

// String joins the phrase's words with single spaces.
func (p Phrase) String() string {
	return strings.Join(p, " ")
}

// Encode converts a 32-byte secret scalar into its 25-word phrase.
func Encode(seed [32]byte) Phrase {
	words := make([]string, 0, WordCount)
	indices := make([]int, 0, WordCount-1)

	for chunk := 0; chunk < 8; chunk++ {
		val := binary.LittleEndian.Uint32(seed[chunk*4 : chunk*4+4])
		w1 := int(val) % WordListSize
		w2 := (int(val)/WordListSize + w1) % WordListSize
		w3 := (int(val)/WordListSize/WordListSize + w2) % WordListSize
		words = append(words, wordList[w1], wordList[w2], wordList[w3])
		indices = append(indices, w1, w2, w3)
	}

	words = append(words, wordList[checksumIndex(indices)])
	return Phrase(words)
}

// Decode converts a 25-word phrase back into its 32-byte secret scalar,
// verifying the checksum word.
func Decode(p Phrase) ([32]byte, error) {
	var seed [32]byte
	if len(p) != WordCount {
		return seed, ErrWrongWordCount
	}

	indices := make([]int, WordCount-1)
	for i, w := range p[:WordCount-1] {
		idx, ok := wordIndex[w]
		if !ok {
			return seed, ErrUnknownWord
		}
		indices[i] = idx
	}

	checksumWordIdx, ok := wordIndex[p[WordCount-1]]
	if !ok {
		return seed, ErrUnknownWord
	}
	if checksumWordIdx != checksumIndex(indices) {
		return seed, ErrChecksumMismatch
	}

	const n = WordListSize
	for chunk := 0; chunk < 8; chunk++ {
		w1 := indices[chunk*3]
		w2 := indices[chunk*3+1]
		w3 := indices[chunk*3+2]

		val := w1 + n*mod(w2-w1, n) + n*n*mod(w3-w2, n)
		binary.LittleEndian.PutUint32(seed[chunk*4:chunk*4+4], uint32(val))
	}

	return seed, nil
}

// ParsePhrase splits a space-separated string into a Phrase and decodes it.
func ParsePhrase(s string) ([32]byte, error) {
	return Decode(Phrase(strings.Fields(s)))
}

// checksumIndex computes the dictionary index of the 25th word: a CRC-32
// over the first 24 words' indices, encoded as 24 little-endian uint32s,
// reduced modulo the dictionary size.
func checksumIndex(indices []int) int {
	buf := make([]byte, 4*len(indices))
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], uint32(idx))
	}
	sum := crc32.ChecksumIEEE(buf)
	return int(sum % WordListSize)
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
