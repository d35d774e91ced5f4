package subwallet

import (
	"testing"

	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
)

func TestAddTracksPrimary(t *testing.T) {
	s := NewSet()
	primary := newTestSubwallet(false)
	if err := s.Add(primary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Primary() != primary {
		t.Fatalf("expected primary subwallet to be tracked")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 subwallet in set, got %d", s.Len())
	}
}

func TestAddRejectsSecondPrimary(t *testing.T) {
	s := NewSet()
	first := newTestSubwallet(false)
	second := newTestSubwallet(false)
	second.PublicSpendKey = pointFor(77)

	if err := s.Add(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Add(second); err != ErrDuplicatePrimary {
		t.Fatalf("expected ErrDuplicatePrimary, got %v", err)
	}
}

func TestRemoveClearsPrimary(t *testing.T) {
	s := NewSet()
	primary := newTestSubwallet(false)
	s.Add(primary)
	s.Remove(primary.PublicSpendKey.Bytes())

	if s.Primary() != nil {
		t.Fatalf("expected primary to be cleared after removal")
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty set after removal")
	}
}

func TestPrivateViewKeyReadsFromPrimary(t *testing.T) {
	s := NewSet()
	if !s.PrivateViewKey().IsZero() {
		t.Fatalf("expected zero scalar before any primary is added")
	}

	primary := newTestSubwallet(false)
	s.Add(primary)
	if !crypto.ScalarEqual(s.PrivateViewKey(), primary.PrivateViewKey) {
		t.Fatalf("expected PrivateViewKey to return the primary's view key")
	}
}

func TestMinSyncStartAcrossSubwallets(t *testing.T) {
	s := NewSet()
	a := newTestSubwallet(false)
	a.SyncStartHeight = 500
	a.SyncStartTimestamp = 9000
	b := newTestSubwallet(false)
	b.PublicSpendKey = pointFor(88)
	b.IsPrimary = false
	b.SyncStartHeight = 100
	b.SyncStartTimestamp = 8000

	s.Add(a)
	s.Add(b)

	height, timestamp := s.MinSyncStart()
	if height != 100 || timestamp != 8000 {
		t.Fatalf("expected min (100, 8000), got (%d, %d)", height, timestamp)
	}
}

func TestGetReturnsStoredSubwallet(t *testing.T) {
	s := NewSet()
	primary := newTestSubwallet(false)
	s.Add(primary)

	got, ok := s.Get(primary.PublicSpendKey.Bytes())
	if !ok || got != primary {
		t.Fatalf("expected Get to return the stored subwallet")
	}

	var missing [32]byte
	missing[0] = 255
	if _, ok := s.Get(missing); ok {
		t.Fatalf("expected Get to report absence for unknown key")
	}
}
