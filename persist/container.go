// Package persist implements the wallet's encrypted on-disk container
// format: magic/version/salt/IV/HMAC header, AES-256-CBC ciphertext keyed
// by PBKDF2-SHA256, and an atomic tmp-file-plus-rename save path. The
// on-disk shape is new relative to the teacher (which persists through a
// bolt key-value store, deliberately not carried forward here — see
// DESIGN.md), but the atomic-rename save discipline and the
// Metadata-style version gate follow the teacher's persistence idiom.
package persist

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"os"

	"github.com/NebulousLabs/fastrand"
	"golang.org/x/crypto/pbkdf2"

	"github.com/wrkzcoin/wrkzcoin-sub002/walleterrors"
)

// Magic is the container's fixed 8-byte identification tag.
var Magic = [8]byte{'I', 's', 'C', 'o', 'r', 'r', 'e', 'c'}

// CurrentVersion is the wallet file format version this build writes.
const CurrentVersion = 1

const (
	saltSize = 16
	ivSize   = 16
	hmacSize = 32
	pbkdf2Iterations = 500
	aesKeySize = 32

	headerSize = 8 + 1 + saltSize + ivSize + hmacSize // offset at which ciphertext begins, per spec layout
)

var (
	// ErrBadMagic is returned when the file does not begin with Magic.
	ErrBadMagic = errors.New("persist: not a wallet container file")

	// ErrWrongPassword is returned when the HMAC tag does not verify,
	// which for this container format means either a wrong password or
	// file corruption.
	ErrWrongPassword = errors.New("persist: wrong password or corrupt file")

	// ErrUnsupportedVersion is returned when the file's version byte is
	// newer than any migration this build knows how to apply.
	ErrUnsupportedVersion = errors.New("persist: unsupported wallet file version")

	// ErrTruncated is returned when the file is shorter than the fixed
	// header.
	ErrTruncated = errors.New("persist: truncated wallet file")
)

// deriveKey runs PBKDF2-SHA256 with the fixed iteration count this format
// specifies.
func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, aesKeySize, sha256.New)
}

// Seal encrypts plaintext under password into the container's on-wire
// byte layout: magic, version, salt, IV, HMAC-SHA256 over
// [version..end-of-ciphertext], then the AES-256-CBC ciphertext.
func Seal(plaintext []byte, password string) ([]byte, error) {
	var salt [saltSize]byte
	var iv [ivSize]byte
	fastrand.Read(salt[:])
	fastrand.Read(iv[:])

	key := deriveKey(password, salt[:])
	padded := pkcs7Pad(plaintext, aes.BlockSize)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, walleterrors.Persistence("Seal", err)
	}
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(ciphertext, padded)

	var out bytes.Buffer
	out.Write(Magic[:])
	out.WriteByte(CurrentVersion)
	out.Write(salt[:])
	out.Write(iv[:])

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte{CurrentVersion})
	mac.Write(salt[:])
	mac.Write(iv[:])
	mac.Write(ciphertext)
	out.Write(mac.Sum(nil))

	out.Write(ciphertext)
	return out.Bytes(), nil
}

// Open decrypts and validates a container produced by Seal, migrating the
// plaintext forward if it was written by an older version (see migrate.go).
func Open(raw []byte, password string) ([]byte, error) {
	if len(raw) < headerSize {
		return nil, walleterrors.Persistence("Open", ErrTruncated)
	}
	if !bytes.Equal(raw[:8], Magic[:]) {
		return nil, walleterrors.Persistence("Open", ErrBadMagic)
	}
	version := raw[8]
	salt := raw[9 : 9+saltSize]
	iv := raw[9+saltSize : 9+saltSize+ivSize]
	tag := raw[9+saltSize+ivSize : headerSize]
	ciphertext := raw[headerSize:]

	key := deriveKey(password, salt)

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte{version})
	mac.Write(salt)
	mac.Write(iv)
	mac.Write(ciphertext)
	if !hmac.Equal(mac.Sum(nil), tag) {
		return nil, walleterrors.Persistence("Open", ErrWrongPassword)
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, walleterrors.Persistence("Open", ErrTruncated)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, walleterrors.Persistence("Open", err)
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = pkcs7Unpad(plaintext)
	if err != nil {
		return nil, walleterrors.Persistence("Open", ErrWrongPassword)
	}

	return migrate(version, plaintext)
}

// SaveFile atomically writes a sealed container to filename: the sealed
// bytes are written to filename+".tmp", fsynced, and renamed over
// filename.
func SaveFile(filename string, plaintext []byte, password string) error {
	sealed, err := Seal(plaintext, password)
	if err != nil {
		return err
	}

	tmpName := filename + ".tmp"
	f, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return walleterrors.Persistence("SaveFile", err)
	}
	if _, err := f.Write(sealed); err != nil {
		f.Close()
		return walleterrors.Persistence("SaveFile", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return walleterrors.Persistence("SaveFile", err)
	}
	if err := f.Close(); err != nil {
		return walleterrors.Persistence("SaveFile", err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return walleterrors.Persistence("SaveFile", err)
	}
	return nil
}

// OpenFile reads and decrypts a container previously written by SaveFile.
func OpenFile(filename string, password string) ([]byte, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, walleterrors.Persistence("OpenFile", err)
	}
	return Open(raw, password)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("persist: empty plaintext")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) || padLen > aes.BlockSize {
		return nil, errors.New("persist: invalid padding")
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, errors.New("persist: invalid padding")
		}
	}
	return data[:len(data)-padLen], nil
}
