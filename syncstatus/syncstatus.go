// Package syncstatus implements the SynchronizationStatus ledger
// described in spec §3: the wallet's fork-detection memory. It is a
// thin, mutex-guarded struct shared between the block downloader (which
// reads it to build the checkpoint list for get_wallet_sync_data) and
// the sync coordinator (which mutates it on commit and on reorg
// rollback). Grounded on the teacher's general pattern of small
// RWMutex-guarded state structs with copy-out accessors (e.g.
// modules/wallet/wallet.go's own height/seed bookkeeping), since no pack
// repo carries an identical fork-checkpoint ledger.
package syncstatus

import "sync"

// RecentHashesLimit is N from spec §3: the number of trailing processed
// block hashes retained for short-range fork detection.
const RecentHashesLimit = 100

// CheckpointInterval is K from spec §4.4: a deep-history anchor hash is
// retained every this many blocks.
const CheckpointInterval = 5000

type hashAtHeight struct {
	hash   [32]byte
	height uint64
}

// Status is the SynchronizationStatus ledger: an ordered list of recent
// block hashes, an ordered list of deep-history checkpoint hashes, and
// the last committed height. All three are read together by the block
// downloader and mutated together by the sync coordinator's commit and
// reorg-rollback steps.
type Status struct {
	mu              sync.RWMutex
	recent          []hashAtHeight // newest first
	checkpoints     []hashAtHeight // newest first
	lastKnownHeight uint64
}

// New returns an empty status, as for a wallet with no committed blocks.
func New() *Status {
	return &Status{}
}

// LastKnownHeight returns the height of the most recently committed
// block, or 0 if none has been committed yet.
func (s *Status) LastKnownHeight() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastKnownHeight
}

// RecentBlockHashes returns a copy of the recent-hash list, newest
// first, suitable for inclusion in a get_wallet_sync_data checkpoint
// list.
func (s *Status) RecentBlockHashes() [][32]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return extractHashes(s.recent)
}

// CheckpointHashes returns a copy of the deep-history checkpoint list,
// newest first, as required by spec §4.3 ("the checkpoint list MUST be
// ordered from newest to oldest").
func (s *Status) CheckpointHashes() [][32]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return extractHashes(s.checkpoints)
}

func extractHashes(in []hashAtHeight) [][32]byte {
	out := make([][32]byte, len(in))
	for i, e := range in {
		out[i] = e.hash
	}
	return out
}

// RecordCommit pushes a newly-committed block's hash onto the front of the
// recent list (truncating past RecentHashesLimit), onto the front of the
// checkpoint list every CheckpointInterval blocks, and advances
// lastKnownHeight. Per
// spec §4.4, this runs as part of the commit step, after a block's
// outputs and inputs have been applied to subwallet state.
func (s *Status) RecordCommit(hash [32]byte, height uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := hashAtHeight{hash: hash, height: height}
	s.recent = append([]hashAtHeight{entry}, s.recent...)
	if len(s.recent) > RecentHashesLimit {
		s.recent = s.recent[:RecentHashesLimit]
	}

	if height > 0 && height%CheckpointInterval == 0 {
		s.checkpoints = append([]hashAtHeight{entry}, s.checkpoints...)
	}

	s.lastKnownHeight = height
}

// RollbackToFork implements the reorg rollback described in spec §4.4:
// recent-hash and checkpoint entries at or past forkHeight are dropped,
// and lastKnownHeight is set to forkHeight-1 (0 if forkHeight is 0).
// Subwallet-state and transaction-history rollback are the sync
// coordinator's responsibility; this method only updates the fork-
// detection memory itself.
func (s *Status) RollbackToFork(forkHeight uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = filterBelow(s.recent, forkHeight)
	s.checkpoints = filterBelow(s.checkpoints, forkHeight)

	if forkHeight == 0 {
		s.lastKnownHeight = 0
	} else {
		s.lastKnownHeight = forkHeight - 1
	}
}

// HashHeight pairs a block hash with its height, the exported form of
// the internal hashAtHeight used when persisting a Status (spec §4.9's
// synchronizationStatus object).
type HashHeight struct {
	Hash   [32]byte
	Height uint64
}

// Snapshot is an exported, serialization-friendly copy of a Status.
type Snapshot struct {
	RecentBlockHashes []HashHeight
	Checkpoints       []HashHeight
	LastKnownHeight   uint64
}

// Snapshot copies out the full fork-detection ledger for persistence.
func (s *Status) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		RecentBlockHashes: toHashHeights(s.recent),
		Checkpoints:       toHashHeights(s.checkpoints),
		LastKnownHeight:   s.lastKnownHeight,
	}
}

// Restore repopulates a Status from a Snapshot previously produced by
// Snapshot, used by the wallet container on open().
func (s *Status) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = fromHashHeights(snap.RecentBlockHashes)
	s.checkpoints = fromHashHeights(snap.Checkpoints)
	s.lastKnownHeight = snap.LastKnownHeight
}

func toHashHeights(in []hashAtHeight) []HashHeight {
	out := make([]HashHeight, len(in))
	for i, e := range in {
		out[i] = HashHeight{Hash: e.hash, Height: e.height}
	}
	return out
}

func fromHashHeights(in []HashHeight) []hashAtHeight {
	out := make([]hashAtHeight, len(in))
	for i, e := range in {
		out[i] = hashAtHeight{hash: e.Hash, height: e.Height}
	}
	return out
}

func filterBelow(in []hashAtHeight, forkHeight uint64) []hashAtHeight {
	out := in[:0:0]
	for _, e := range in {
		if e.height < forkHeight {
			out = append(out, e)
		}
	}
	return out
}
