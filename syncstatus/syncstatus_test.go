package syncstatus

import "testing"

func hashFor(b byte) [32]byte {
	var h [32]byte
	h[0] = b
	return h
}

func TestRecordCommitTracksRecentHashesNewestFirst(t *testing.T) {
	s := New()
	s.RecordCommit(hashFor(1), 1)
	s.RecordCommit(hashFor(2), 2)
	s.RecordCommit(hashFor(3), 3)

	got := s.RecentBlockHashes()
	want := [][32]byte{hashFor(3), hashFor(2), hashFor(1)}
	if len(got) != len(want) {
		t.Fatalf("expected %d recent hashes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("recent hash %d mismatch: got %x want %x", i, got[i], want[i])
		}
	}
	if s.LastKnownHeight() != 3 {
		t.Fatalf("expected last known height 3, got %d", s.LastKnownHeight())
	}
}

func TestRecentHashesTruncatesAtLimit(t *testing.T) {
	s := New()
	for i := uint64(1); i <= RecentHashesLimit+10; i++ {
		s.RecordCommit(hashFor(byte(i)), i)
	}
	got := s.RecentBlockHashes()
	if len(got) != RecentHashesLimit {
		t.Fatalf("expected exactly %d recent hashes, got %d", RecentHashesLimit, len(got))
	}
}

func TestCheckpointsRecordedOnInterval(t *testing.T) {
	s := New()
	for i := uint64(1); i <= CheckpointInterval*2; i++ {
		s.RecordCommit(hashFor(byte(i % 251)), i)
	}
	got := s.CheckpointHashes()
	if len(got) != 2 {
		t.Fatalf("expected 2 checkpoints after %d blocks, got %d", CheckpointInterval*2, len(got))
	}
}

func TestRollbackToForkDropsHashesAtOrPastFork(t *testing.T) {
	s := New()
	s.RecordCommit(hashFor(1), 10)
	s.RecordCommit(hashFor(2), 11)
	s.RecordCommit(hashFor(3), 12)

	s.RollbackToFork(11)

	got := s.RecentBlockHashes()
	if len(got) != 1 || got[0] != hashFor(1) {
		t.Fatalf("expected only the height-10 hash to survive rollback to fork height 11, got %v", got)
	}
	if s.LastKnownHeight() != 10 {
		t.Fatalf("expected last known height 10 after rollback, got %d", s.LastKnownHeight())
	}
}

func TestRollbackToForkZeroClearsEverything(t *testing.T) {
	s := New()
	s.RecordCommit(hashFor(1), 5)
	s.RollbackToFork(0)
	if s.LastKnownHeight() != 0 {
		t.Fatalf("expected last known height 0, got %d", s.LastKnownHeight())
	}
	if len(s.RecentBlockHashes()) != 0 {
		t.Fatalf("expected no recent hashes after rollback to genesis")
	}
}
