package persist

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/wrkzcoin/wrkzcoin-sub002/walleterrors"
)

func TestSealOpenRoundTrip(t *testing.T) {
	plaintext := []byte(`{"subWallets":[],"isViewWallet":false}`)
	sealed, err := Seal(plaintext, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	decrypted, err := Open(sealed, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Fatalf("round-trip mismatch: got %s want %s", decrypted, plaintext)
	}
}

func TestOpenRejectsWrongPassword(t *testing.T) {
	sealed, err := Seal([]byte("secret data"), "correct password")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	_, err = Open(sealed, "wrong password")
	if err == nil {
		t.Fatalf("expected Open to reject the wrong password")
	}
	kind, ok := walleterrors.KindOf(err)
	if !ok || kind != walleterrors.PersistenceError {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}

func TestOpenRejectsBadMagic(t *testing.T) {
	raw := make([]byte, headerSize+16)
	_, err := Open(raw, "password")
	if err == nil {
		t.Fatalf("expected Open to reject a file with no magic tag")
	}
}

func TestOpenRejectsTruncatedFile(t *testing.T) {
	_, err := Open([]byte("too short"), "password")
	if err == nil {
		t.Fatalf("expected Open to reject a truncated file")
	}
}

func TestSaveFileOpenFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "wallet.dat")

	plaintext := []byte(`{"subWallets":[{"publicSpendKey":"stub"}]}`)
	if err := SaveFile(filename, plaintext, "hunter2"); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	if _, err := os.Stat(filename + ".tmp"); err == nil {
		t.Fatalf("tmp file was not renamed away")
	}

	decrypted, err := OpenFile(filename, "hunter2")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Fatalf("round-trip mismatch")
	}
}

func TestSealProducesDistinctSaltAndIVAcrossCalls(t *testing.T) {
	a, err := Seal([]byte("same plaintext"), "same password")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	b, err := Seal([]byte("same plaintext"), "same password")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("two seals of identical plaintext/password produced identical ciphertext")
	}
}
