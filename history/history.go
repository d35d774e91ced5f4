// Package history implements C6: the transaction history ledger from
// spec §4.6 — a hash-indexed map of Transaction entries plus an ordered
// set of unconfirmed hashes, queryable by hash, by height range, or
// restricted to the unconfirmed subset. Grounded on the teacher's
// map-plus-mutex bookkeeping idiom (modules/wallet/wallet.go's own
// in-memory indices), since no pack repo tracks an identical
// confirmed/unconfirmed transaction ledger.
package history

import (
	"sort"
	"sync"
)

// Transaction is one history entry, per spec §3. A positive Transfers
// value is a net credit to that subwallet (keyed by its public spend
// key's byte encoding); negative is a net debit.
type Transaction struct {
	Hash        [32]byte
	PaymentID   *[32]byte
	Transfers   map[[32]byte]int64
	Fee         uint64
	BlockHeight uint64
	Timestamp   int64
	UnlockTime  uint64
	IsCoinbase  bool

	arrivalIndex uint64
}

// Store holds the full transaction history for a wallet.
type Store struct {
	mu sync.RWMutex

	transactions map[[32]byte]Transaction

	unconfirmedOrder []([32]byte)
	unconfirmedSet   map[[32]byte]bool

	nextArrival uint64
}

// New returns an empty history store.
func New() *Store {
	return &Store{
		transactions:   make(map[[32]byte]Transaction),
		unconfirmedSet: make(map[[32]byte]bool),
	}
}

// AddUnconfirmed records a just-submitted outgoing transaction. Per spec
// §4.6, an unconfirmed entry always has BlockHeight == 0; callers set
// Timestamp to now_when_sent before calling this.
func (s *Store) AddUnconfirmed(tx Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.BlockHeight = 0
	tx.arrivalIndex = s.nextArrival
	s.nextArrival++

	s.transactions[tx.Hash] = tx
	if !s.unconfirmedSet[tx.Hash] {
		s.unconfirmedSet[tx.Hash] = true
		s.unconfirmedOrder = append(s.unconfirmedOrder, tx.Hash)
	}
}

// Confirm transitions an unconfirmed entry to confirmed: it overwrites
// BlockHeight and Timestamp with the true on-chain values, per spec
// §4.6's "transitions to confirmed ... on in_block status". If hash is
// not currently unconfirmed, Confirm is a no-op.
func (s *Store) Confirm(hash [32]byte, blockHeight uint64, timestamp int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unconfirmedSet[hash] {
		return
	}
	tx, ok := s.transactions[hash]
	if !ok {
		return
	}
	tx.BlockHeight = blockHeight
	tx.Timestamp = timestamp
	s.transactions[hash] = tx

	s.removeFromUnconfirmedLocked(hash)
}

// RemoveUnconfirmed deletes an unconfirmed entry entirely, used when the
// locked-transactions check (spec §4.4) decides the transaction was
// dropped by the network (cancelled).
func (s *Store) RemoveUnconfirmed(hash [32]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unconfirmedSet[hash] {
		return
	}
	delete(s.transactions, hash)
	s.removeFromUnconfirmedLocked(hash)
}

func (s *Store) removeFromUnconfirmedLocked(hash [32]byte) {
	delete(s.unconfirmedSet, hash)
	for i, h := range s.unconfirmedOrder {
		if h == hash {
			s.unconfirmedOrder = append(s.unconfirmedOrder[:i], s.unconfirmedOrder[i+1:]...)
			break
		}
	}
}

// AddConfirmed inserts a new confirmed entry discovered directly during
// block scanning (spec §4.4's "append a Transaction entry" commit-step
// rule). BlockHeight must be > 0.
func (s *Store) AddConfirmed(tx Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.arrivalIndex = s.nextArrival
	s.nextArrival++
	s.transactions[tx.Hash] = tx
}

// ByHash returns the entry for hash, if any.
func (s *Store) ByHash(hash [32]byte) (Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.transactions[hash]
	return tx, ok
}

// RangeByHeight returns confirmed entries with minHeight <= block_height
// <= maxHeight, ordered by block_height ascending, then by arrival order
// within a block (spec §4.6's ordering rule). Unconfirmed entries
// (block_height == 0) are excluded unless minHeight is also 0, matching
// the literal height range semantics.
func (s *Store) RangeByHeight(minHeight, maxHeight uint64) []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Transaction
	for _, tx := range s.transactions {
		if tx.BlockHeight < minHeight || tx.BlockHeight > maxHeight {
			continue
		}
		out = append(out, tx)
	}
	sortByHeightThenArrival(out)
	return out
}

// Unconfirmed returns the unconfirmed subset, in submission order.
func (s *Store) Unconfirmed() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Transaction, 0, len(s.unconfirmedOrder))
	for _, hash := range s.unconfirmedOrder {
		out = append(out, s.transactions[hash])
	}
	return out
}

// RemoveAtOrAboveHeight deletes every confirmed entry with
// block_height >= forkHeight, per spec §4.4's reorg rollback rule, and
// returns the hashes removed.
func (s *Store) RemoveAtOrAboveHeight(forkHeight uint64) [][32]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed [][32]byte
	for hash, tx := range s.transactions {
		if tx.BlockHeight != 0 && tx.BlockHeight >= forkHeight {
			delete(s.transactions, hash)
			removed = append(removed, hash)
		}
	}
	return removed
}

// All returns every entry (confirmed and unconfirmed), ordered by
// arrival, for persistence. Spec §4.9 persists `transactions` and
// `lockedTransactions` (the unconfirmed subset) separately; the wallet
// container derives both from this single ordered list by filtering on
// BlockHeight == 0.
func (s *Store) All() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].arrivalIndex < out[j].arrivalIndex })
	return out
}

// Restore repopulates a freshly-constructed Store from a list of entries
// previously returned by All, preserving arrival order and rebuilding
// the unconfirmed index for any entry with BlockHeight == 0.
func (s *Store) Restore(txs []Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tx := range txs {
		tx.arrivalIndex = uint64(i)
		s.transactions[tx.Hash] = tx
		if tx.BlockHeight == 0 {
			s.unconfirmedSet[tx.Hash] = true
			s.unconfirmedOrder = append(s.unconfirmedOrder, tx.Hash)
		}
	}
	s.nextArrival = uint64(len(txs))
}

func sortByHeightThenArrival(txs []Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].BlockHeight != txs[j].BlockHeight {
			return txs[i].BlockHeight < txs[j].BlockHeight
		}
		return txs[i].arrivalIndex < txs[j].arrivalIndex
	})
}
