// Package subwallet implements C5: the per-subwallet input ledger state
// machine from spec §4.5. A Subwallet's four input sets
// (unconfirmed_incoming, unspent, locked, spent) are plain fields;
// callers (the wallet container and the sync coordinator) hold a
// wallet-wide lock around every operation, per spec §4.5's explicit
// note, so nothing in this package takes its own lock. Grounded on the
// teacher's plain-struct-plus-caller-locking idiom seen in
// modules/wallet/wallet.go (the Wallet struct itself holds the
// sync.RWMutex; its helper types do not duplicate it).
package subwallet

import (
	"github.com/sirupsen/logrus"

	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
)

// MaxBlockNumber is the threshold below which unlock_time is interpreted
// as a block height, and at or above which it is a unix timestamp.
// Grounded on original_source/src/config/CryptoNoteConfig.h's
// CRYPTONOTE_MAX_BLOCK_NUMBER.
const MaxBlockNumber = 500000000

// HeightDelta and TimestampDelta are the slack windows is_unlocked
// allows past the exact unlock point, grounded on
// CRYPTONOTE_LOCKED_TX_ALLOWED_DELTA_BLOCKS/_SECONDS in
// original_source/src/config/CryptoNoteConfig.h (1 block; 60 seconds,
// matching DIFFICULTY_TARGET).
const (
	HeightDelta    = 1
	TimestampDelta = 60
)

// TransactionInput is one output the wallet has observed paying one of
// its subwallets, per spec §3.
type TransactionInput struct {
	KeyImage              crypto.Point
	Amount                uint64
	BlockHeight           uint64
	TransactionPublicKey  crypto.Point
	TransactionIndex      int
	GlobalOutputIndex     uint64
	Key                   crypto.Point
	UnlockTime            uint64
	ParentTransactionHash [32]byte
	PrivateEphemeral      crypto.Scalar
	SpendHeight           uint64
}

// identity returns the key that the four sets are kept disjoint by: the
// key image for a spend-capable subwallet, or the one-time output public
// key for a view-only one (which never learns a key image).
func (in TransactionInput) identity(viewOnly bool) [32]byte {
	if viewOnly {
		return in.Key.Bytes()
	}
	return in.KeyImage.Bytes()
}

// IsUnlocked implements is_unlocked(u, h) from spec §4.5: u==0 is always
// unlocked; u at or above MaxBlockNumber is a timestamp compared against
// now (with TimestampDelta slack); otherwise u is a height compared
// against h (with HeightDelta slack).
func IsUnlocked(unlockTime, currentHeight uint64, now int64) bool {
	if unlockTime == 0 {
		return true
	}
	if unlockTime >= MaxBlockNumber {
		return uint64(now)+TimestampDelta >= unlockTime
	}
	return currentHeight+HeightDelta >= unlockTime
}

// Subwallet is one address's input ledger: four disjoint sets of
// TransactionInput, keyed internally by identity() for O(1) lookup.
type Subwallet struct {
	PublicSpendKey  crypto.Point
	PrivateSpendKey crypto.Scalar // zero for view-only

	// PublicViewKey/PrivateViewKey are meaningful only on the primary
	// subwallet: per spec §3, is_primary "defines the wallet-wide
	// private_view_key" used by the sync coordinator's outputs scan
	// against every subwallet's outputs.
	PublicViewKey  crypto.Point
	PrivateViewKey crypto.Scalar

	Address            string
	IsPrimary          bool
	IsViewOnly         bool
	SyncStartHeight    uint64
	SyncStartTimestamp uint64
	WalletIndex        uint64

	unconfirmedIncoming []TransactionInput
	unspent             map[[32]byte]TransactionInput
	locked              map[[32]byte]TransactionInput
	spent               map[[32]byte]TransactionInput

	log *logrus.Entry
}

// New constructs an empty Subwallet ready for scanning.
func New(publicSpend crypto.Point, privateSpend crypto.Scalar, publicView crypto.Point, privateView crypto.Scalar, address string, isPrimary, isViewOnly bool, syncStartHeight, syncStartTimestamp, walletIndex uint64, log *logrus.Entry) *Subwallet {
	return &Subwallet{
		PublicSpendKey:     publicSpend,
		PrivateSpendKey:    privateSpend,
		PublicViewKey:      publicView,
		PrivateViewKey:     privateView,
		Address:            address,
		IsPrimary:          isPrimary,
		IsViewOnly:         isViewOnly,
		SyncStartHeight:    syncStartHeight,
		SyncStartTimestamp: syncStartTimestamp,
		WalletIndex:        walletIndex,
		unspent:            make(map[[32]byte]TransactionInput),
		locked:             make(map[[32]byte]TransactionInput),
		spent:              make(map[[32]byte]TransactionInput),
		log:                log,
	}
}

// StoreUnconfirmedIncoming appends a not-yet-on-chain incoming input
// (change returning from our own send, recorded optimistically before
// confirmation).
func (s *Subwallet) StoreUnconfirmedIncoming(input TransactionInput) {
	s.unconfirmedIncoming = append(s.unconfirmedIncoming, input)
}

// StoreTransactionInput implements store_transaction_input: clears any
// unconfirmed_incoming entry with the same one-time output key (our own
// change has now been confirmed on-chain), then inserts into unspent
// unless an entry with the same identity already exists (idempotent
// under reorg/resync replay).
func (s *Subwallet) StoreTransactionInput(input TransactionInput) {
	filtered := s.unconfirmedIncoming[:0:0]
	for _, u := range s.unconfirmedIncoming {
		if u.Key.Equal(input.Key) {
			continue
		}
		filtered = append(filtered, u)
	}
	s.unconfirmedIncoming = filtered

	id := input.identity(s.IsViewOnly)
	if _, exists := s.unspent[id]; exists {
		if s.log != nil {
			s.log.WithField("identity", id).Debug("dropping duplicate transaction input, already in unspent")
		}
		return
	}
	if _, exists := s.locked[id]; exists {
		if s.log != nil {
			s.log.WithField("identity", id).Debug("dropping duplicate transaction input, already in locked")
		}
		return
	}
	if _, exists := s.spent[id]; exists {
		if s.log != nil {
			s.log.WithField("identity", id).Debug("dropping duplicate transaction input, already in spent")
		}
		return
	}
	s.unspent[id] = input
}

// MarkInputAsSpent implements mark_input_as_spent: searches unspent then
// locked, sets spend_height, and moves the input to spent. Absent
// entries are logged and ignored (the input may have been scanned past
// before a fork rolled it back).
func (s *Subwallet) MarkInputAsSpent(identity [32]byte, spendHeight uint64) {
	if in, ok := s.unspent[identity]; ok {
		delete(s.unspent, identity)
		in.SpendHeight = spendHeight
		s.spent[identity] = in
		return
	}
	if in, ok := s.locked[identity]; ok {
		delete(s.locked, identity)
		in.SpendHeight = spendHeight
		s.spent[identity] = in
		return
	}
	if s.log != nil {
		s.log.WithField("identity", identity).Debug("mark_input_as_spent: no matching input in unspent or locked")
	}
}

// MarkInputAsLocked implements mark_input_as_locked: moves an input from
// unspent to locked without setting spend_height, called by the
// composer immediately before transmitting a transaction that spends it.
func (s *Subwallet) MarkInputAsLocked(identity [32]byte) {
	in, ok := s.unspent[identity]
	if !ok {
		if s.log != nil {
			s.log.WithField("identity", identity).Debug("mark_input_as_locked: no matching input in unspent")
		}
		return
	}
	delete(s.unspent, identity)
	s.locked[identity] = in
}

// RemoveForkedInputs implements remove_forked_inputs: inputs with
// block_height >= forkHeight are removed entirely; inputs with
// block_height < forkHeight but spend_height >= forkHeight have their
// spend_height cleared and move from spent back to unspent.
// unconfirmed_incoming is always cleared entirely. Returns the key
// images (or, for view-only, one-time keys) of every input removed
// entirely, so higher layers can purge pending-send references.
func (s *Subwallet) RemoveForkedInputs(forkHeight uint64) [][32]byte {
	var removed [][32]byte

	s.unconfirmedIncoming = nil

	for id, in := range s.unspent {
		if in.BlockHeight >= forkHeight {
			delete(s.unspent, id)
			removed = append(removed, id)
		}
	}
	for id, in := range s.locked {
		if in.BlockHeight >= forkHeight {
			delete(s.locked, id)
			removed = append(removed, id)
		}
	}
	for id, in := range s.spent {
		if in.BlockHeight >= forkHeight {
			delete(s.spent, id)
			removed = append(removed, id)
			continue
		}
		if in.SpendHeight >= forkHeight {
			delete(s.spent, id)
			in.SpendHeight = 0
			s.unspent[id] = in
		}
	}

	return removed
}

// RemoveCancelledTransactions implements remove_cancelled_transactions:
// for each locked input whose parent_transaction_hash is in hashes,
// spend_height is cleared and the input returns to unspent; matching
// unconfirmed_incoming entries are deleted.
func (s *Subwallet) RemoveCancelledTransactions(hashes map[[32]byte]bool) {
	for id, in := range s.locked {
		if hashes[in.ParentTransactionHash] {
			delete(s.locked, id)
			in.SpendHeight = 0
			s.unspent[id] = in
		}
	}

	filtered := s.unconfirmedIncoming[:0:0]
	for _, u := range s.unconfirmedIncoming {
		if hashes[u.ParentTransactionHash] {
			continue
		}
		filtered = append(filtered, u)
	}
	s.unconfirmedIncoming = filtered
}

// Balance implements balance(current_height): unlocked sums unspent
// inputs that are currently unlocked; locked sums everything else
// (locked-but-unspent, the locked set, and unconfirmed_incoming).
func (s *Subwallet) Balance(currentHeight uint64, now int64) (unlocked, locked uint64) {
	for _, in := range s.unspent {
		if IsUnlocked(in.UnlockTime, currentHeight, now) {
			unlocked += in.Amount
		} else {
			locked += in.Amount
		}
	}
	for _, in := range s.locked {
		locked += in.Amount
	}
	for _, in := range s.unconfirmedIncoming {
		locked += in.Amount
	}
	return unlocked, locked
}

// SpendableInput pairs a spendable unspent input with the key material
// the composer needs to sign with it.
type SpendableInput struct {
	Input           TransactionInput
	PublicSpendKey  crypto.Point
	PrivateSpendKey crypto.Scalar
}

// GetSpendableInputs implements get_spendable_inputs: every unspent
// input that is currently unlocked, paired with this subwallet's key
// material.
func (s *Subwallet) GetSpendableInputs(currentHeight uint64, now int64) []SpendableInput {
	var out []SpendableInput
	for _, in := range s.unspent {
		if !IsUnlocked(in.UnlockTime, currentHeight, now) {
			continue
		}
		out = append(out, SpendableInput{
			Input:           in,
			PublicSpendKey:  s.PublicSpendKey,
			PrivateSpendKey: s.PrivateSpendKey,
		})
	}
	return out
}

// Identity exposes the identity a given input would be stored/looked-up
// under in this subwallet's sets, honoring its view-only-ness.
func (s *Subwallet) Identity(in TransactionInput) [32]byte {
	return in.identity(s.IsViewOnly)
}

// UnspentCount, LockedCount, SpentCount and UnconfirmedIncomingCount
// expose set sizes for diagnostics and tests without leaking the
// underlying maps.
func (s *Subwallet) UnspentCount() int            { return len(s.unspent) }
func (s *Subwallet) LockedCount() int             { return len(s.locked) }
func (s *Subwallet) SpentCount() int              { return len(s.spent) }
func (s *Subwallet) UnconfirmedIncomingCount() int { return len(s.unconfirmedIncoming) }

// LookupUnspent returns the unspent input stored under identity, if any.
func (s *Subwallet) LookupUnspent(identity [32]byte) (TransactionInput, bool) {
	in, ok := s.unspent[identity]
	return in, ok
}

// LookupLocked returns the locked input stored under identity, if any.
func (s *Subwallet) LookupLocked(identity [32]byte) (TransactionInput, bool) {
	in, ok := s.locked[identity]
	return in, ok
}

// LookupSpent returns the spent input stored under identity, if any.
func (s *Subwallet) LookupSpent(identity [32]byte) (TransactionInput, bool) {
	in, ok := s.spent[identity]
	return in, ok
}

// FindByKeyImage searches unspent then locked for an input whose
// identity matches keyImage, used by the sync coordinator's input-spend
// detection step (spec §4.4).
func (s *Subwallet) FindByKeyImage(keyImage [32]byte) (identity [32]byte, found bool) {
	if _, ok := s.unspent[keyImage]; ok {
		return keyImage, true
	}
	if _, ok := s.locked[keyImage]; ok {
		return keyImage, true
	}
	return [32]byte{}, false
}

// InputSnapshot is an exported, order-independent copy of a Subwallet's
// four input sets, used by the wallet container (C8) to serialize a
// subwallet's state into its persisted JSON form and to restore it on
// load without exposing the internal maps.
type InputSnapshot struct {
	Unspent             []TransactionInput
	Locked              []TransactionInput
	Spent               []TransactionInput
	UnconfirmedIncoming []TransactionInput
}

// Snapshot copies out the four input sets for persistence.
func (s *Subwallet) Snapshot() InputSnapshot {
	snap := InputSnapshot{
		UnconfirmedIncoming: append([]TransactionInput(nil), s.unconfirmedIncoming...),
	}
	for _, in := range s.unspent {
		snap.Unspent = append(snap.Unspent, in)
	}
	for _, in := range s.locked {
		snap.Locked = append(snap.Locked, in)
	}
	for _, in := range s.spent {
		snap.Spent = append(snap.Spent, in)
	}
	return snap
}

// Restore repopulates a freshly-constructed Subwallet's input sets from
// a snapshot previously produced by Snapshot, re-deriving each entry's
// map key from its identity rather than persisting the key separately.
func (s *Subwallet) Restore(snap InputSnapshot) {
	s.unconfirmedIncoming = append([]TransactionInput(nil), snap.UnconfirmedIncoming...)
	for _, in := range snap.Unspent {
		s.unspent[in.identity(s.IsViewOnly)] = in
	}
	for _, in := range snap.Locked {
		s.locked[in.identity(s.IsViewOnly)] = in
	}
	for _, in := range snap.Spent {
		s.spent[in.identity(s.IsViewOnly)] = in
	}
}
