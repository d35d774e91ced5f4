package subwallet

import (
	"errors"
	"sync"

	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
)

// ErrDuplicatePrimary is returned by Add when a second subwallet claims
// is_primary, violating spec §3's "at most one subwallet has this set".
var ErrDuplicatePrimary = errors.New("subwallet: a primary subwallet is already present")

// Set is the wallet-wide collection of subwallets, per spec §3's
// ownership summary: the wallet container exclusively owns it; the sync
// coordinator holds a shared handle and is the sole mutator of input
// sets during scanning; the composer borrows it immutably to select
// inputs and mutably (briefly) to record newly-sent outputs.
//
// Set intentionally does not lock itself: per spec §4.5, "callers hold
// a wallet-wide lock during each operation". Every exported method here
// assumes Mu is already held by the caller (RLock for read-only access,
// Lock for anything that adds, removes, or mutates a subwallet's input
// sets) — the same caller-manages-the-lock convention the teacher uses
// for its own wallet struct (modules/wallet/wallet.go's public API locks
// mu before calling unexported "managed*" helpers that assume it held).
type Set struct {
	Mu sync.RWMutex

	wallets map[[32]byte]*Subwallet
	primary *Subwallet
}

// NewSet returns an empty subwallet collection.
func NewSet() *Set {
	return &Set{wallets: make(map[[32]byte]*Subwallet)}
}

// Add inserts sw, keyed by its public spend key. Caller must hold Mu.
func (s *Set) Add(sw *Subwallet) error {
	if sw.IsPrimary && s.primary != nil && s.primary != sw {
		return ErrDuplicatePrimary
	}
	s.wallets[sw.PublicSpendKey.Bytes()] = sw
	if sw.IsPrimary {
		s.primary = sw
	}
	return nil
}

// Remove deletes the subwallet keyed by publicSpendKey, if present.
// Caller must hold Mu.
func (s *Set) Remove(publicSpendKey [32]byte) {
	if sw, ok := s.wallets[publicSpendKey]; ok && sw == s.primary {
		s.primary = nil
	}
	delete(s.wallets, publicSpendKey)
}

// Get returns the subwallet keyed by publicSpendKey, if present. Caller
// must hold Mu (at least RLock).
func (s *Set) Get(publicSpendKey [32]byte) (*Subwallet, bool) {
	sw, ok := s.wallets[publicSpendKey]
	return sw, ok
}

// All returns every subwallet in the set, in no particular order. Caller
// must hold Mu (at least RLock).
func (s *Set) All() []*Subwallet {
	out := make([]*Subwallet, 0, len(s.wallets))
	for _, sw := range s.wallets {
		out = append(out, sw)
	}
	return out
}

// Primary returns the subwallet with is_primary set, or nil if none has
// been added yet. Caller must hold Mu (at least RLock).
func (s *Set) Primary() *Subwallet {
	return s.primary
}

// PrivateViewKey returns the wallet-wide view key carried by the primary
// subwallet, or the zero scalar if there is no primary yet. Caller must
// hold Mu (at least RLock).
func (s *Set) PrivateViewKey() crypto.Scalar {
	if s.primary == nil {
		return crypto.Scalar{}
	}
	return s.primary.PrivateViewKey
}

// MinSyncStart returns the minimum sync_start_height/sync_start_timestamp
// across every subwallet in the set, per spec §4.3's use of this value
// to pick the block downloader's request range. An empty set returns
// (0, 0). Caller must hold Mu (at least RLock).
func (s *Set) MinSyncStart() (height uint64, timestamp uint64) {
	first := true
	for _, sw := range s.wallets {
		if first || sw.SyncStartHeight < height {
			height = sw.SyncStartHeight
		}
		if first || sw.SyncStartTimestamp < timestamp {
			timestamp = sw.SyncStartTimestamp
		}
		first = false
	}
	return height, timestamp
}

// Len returns the number of subwallets in the set. Caller must hold Mu
// (at least RLock).
func (s *Set) Len() int {
	return len(s.wallets)
}

// MinSyncStartHeight and MinSyncStartTimestamp are self-locking wrappers
// around MinSyncStart, suitable for use as
// blockdownloader.StartHeightFunc/StartTimestampFunc directly: the
// downloader calls these without holding Mu itself, unlike every other
// method on Set.
func (s *Set) MinSyncStartHeight() uint64 {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	height, _ := s.MinSyncStart()
	return height
}

func (s *Set) MinSyncStartTimestamp() int64 {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	_, timestamp := s.MinSyncStart()
	return int64(timestamp)
}
