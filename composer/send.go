package composer

import (
	"context"
	"time"

	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
	"github.com/wrkzcoin/wrkzcoin-sub002/history"
	"github.com/wrkzcoin/wrkzcoin-sub002/subwallet"
	"github.com/wrkzcoin/wrkzcoin-sub002/walleterrors"
)

// SendBasic implements send_basic: a single destination, the library's
// default mixin and fee, drawing from every subwallet.
func (c *Composer) SendBasic(ctx context.Context, destinationAddress string, amount uint64, paymentID *[32]byte, sendAll bool) ([32]byte, error) {
	return c.SendAdvanced(ctx, AdvancedParams{
		Destinations: []Destination{{Address: destinationAddress, Amount: amount}},
		Mixin:        c.defaultMixin(),
		PaymentID:    paymentID,
		SendAll:      sendAll,
		SendNow:      true,
	})
}

func (c *Composer) defaultMixin() uint64 {
	_, _, def := MixinBounds(c.status.LastKnownHeight())
	return def
}

// SendAdvanced implements send_advanced, per spec §4.7.
func (c *Composer) SendAdvanced(ctx context.Context, p AdvancedParams) ([32]byte, error) {
	height := c.status.LastKnownHeight()
	now := time.Now().Unix()

	resolved := make([]resolvedAddress, len(p.Destinations))
	for i, d := range p.Destinations {
		r, err := resolveAddress(d.Address)
		if err != nil {
			return [32]byte{}, walleterrors.Input("composer.SendAdvanced", err)
		}
		resolved[i] = r
	}

	paymentID, err := preflight(p.Destinations, p.Mixin, height, p.PaymentID, resolved)
	if err != nil {
		return [32]byte{}, err
	}

	changeAddr, changeSw, err := c.resolveChangeAddress(p.ChangeAddress)
	if err != nil {
		return [32]byte{}, err
	}

	var nodeFeeAddr resolvedAddress
	var nodeFeeAmount uint64
	if info, err := c.client.GetFeeInfo(ctx); err == nil && info.Amount > 0 && info.Address != "" {
		if r, err := resolveAddress(info.Address); err == nil {
			nodeFeeAddr = r
			nodeFeeAmount = info.Amount
		}
	}

	var destinationTotal uint64
	for _, d := range p.Destinations {
		destinationTotal += d.Amount
	}

	candidates := c.gatherCandidates(p.SourceAddresses, height, now)

	outputCountGuess := len(p.Destinations) + 2
	extraLen := 33 + len(p.ExtraData)

	var selected []candidateInput
	var fee uint64
	var selectedSum uint64
	if p.SendAll {
		selected, selectedSum = selectAllInputs(candidates)
		size := estimatedSize(len(selected), p.Mixin+1, outputCountGuess, extraLen)
		fee = computeFee(height, p.Fee, size)
		if selectedSum < destinationTotal+nodeFeeAmount+fee {
			return [32]byte{}, walleterrors.Balance("composer.SendAdvanced", ErrInsufficientBalance)
		}
	} else {
		selected, fee, err = selectInputs(candidates, destinationTotal, nodeFeeAmount, p.Mixin, outputCountGuess, extraLen, height, p.Fee)
		if err != nil {
			return [32]byte{}, err
		}
		for _, s := range selected {
			selectedSum += s.input.Input.Amount
		}
	}

	change := selectedSum - destinationTotal - nodeFeeAmount - fee

	plans := planOutputs(p.Destinations, resolved, change, changeAddr)
	if nodeFeeAmount > 0 {
		for _, piece := range SplitBounded(nodeFeeAmount) {
			plans = append(plans, outputPlan{address: nodeFeeAddr, amount: piece})
		}
	}

	r, R, outputs := deriveOutputs(plans)

	inputs, err := buildInputs(ctx, c.client, selected, p.Mixin)
	if err != nil {
		return [32]byte{}, err
	}

	extra, err := encodeExtra(height, R, paymentID, p.ExtraData)
	if err != nil {
		return [32]byte{}, err
	}

	tx := Transaction{
		Version:    1,
		UnlockTime: p.UnlockTime,
		Inputs:     inputs,
		Outputs:    outputs,
		Extra:      extra,
	}

	if err := checkPostConstruction(tx, height, fee, p.Fee); err != nil {
		return [32]byte{}, err
	}

	tx, err = signTransaction(tx)
	if err != nil {
		return [32]byte{}, err
	}

	hash := Hash(tx)

	owners := make([]inputOwner, len(selected))
	for i, s := range selected {
		owners[i] = inputOwner{subwalletKey: s.owner.PublicSpendKey.Bytes(), identity: s.owner.Identity(s.input.Input)}
	}

	transfers := map[[32]byte]int64{}
	for i, d := range p.Destinations {
		transfers[resolved[i].spend.Bytes()] -= int64(d.Amount)
	}
	if change > 0 && changeSw != nil {
		transfers[changeSw.PublicSpendKey.Bytes()] += int64(change)
	}

	prepared := PreparedTransaction{
		Hash:         hash,
		Tx:           tx,
		TxSecretKey:  r,
		InputOwners:  owners,
		Fee:          fee,
		PaymentID:    paymentID,
		Transfers:    transfers,
		SubmitHeight: height,
	}

	if !p.SendNow {
		c.mu.Lock()
		c.prepared[hash] = prepared
		c.mu.Unlock()
		return hash, nil
	}

	return c.submit(ctx, prepared)
}

func (c *Composer) resolveChangeAddress(changeAddress string) (resolvedAddress, *subwallet.Subwallet, error) {
	c.subwallets.Mu.RLock()
	defer c.subwallets.Mu.RUnlock()

	if changeAddress == "" {
		primary := c.subwallets.Primary()
		if primary == nil {
			return resolvedAddress{}, nil, walleterrors.State("composer.resolveChangeAddress", ErrChangeAddressNotOurs)
		}
		return resolvedAddress{spend: primary.PublicSpendKey, view: primary.PublicViewKey}, primary, nil
	}

	for _, sw := range c.subwallets.All() {
		if sw.Address == changeAddress {
			return resolvedAddress{spend: sw.PublicSpendKey, view: sw.PublicViewKey}, sw, nil
		}
	}
	return resolvedAddress{}, nil, walleterrors.Input("composer.resolveChangeAddress", ErrChangeAddressNotOurs)
}

// checkPostConstruction implements spec §4.7's post-construction checks:
// size within max_tx_size(height), fee satisfies the minimum invariant,
// and every output amount is a pretty denomination.
func checkPostConstruction(tx Transaction, height uint64, fee uint64, mode FeeMode) error {
	size := Size(tx)
	if size > MaxTxSize(height) {
		return walleterrors.Balance("composer.checkPostConstruction", ErrTooManyInputsForBlock)
	}
	if fee < MinFeeForSize(height, size) {
		return walleterrors.Consensus("composer.checkPostConstruction", ErrInvalidFee)
	}
	for _, out := range tx.Outputs {
		if !IsPretty(out.Amount) {
			return walleterrors.Consensus("composer.checkPostConstruction", ErrInvalidFee)
		}
	}
	return nil
}

// submit locks the selected inputs (not before — spec §4.7's prepared-
// transaction rule), submits via C2, and records history.
func (c *Composer) submit(ctx context.Context, p PreparedTransaction) ([32]byte, error) {
	c.subwallets.Mu.Lock()
	for _, owner := range p.InputOwners {
		if sw, ok := c.subwallets.Get(owner.subwalletKey); ok {
			sw.MarkInputAsLocked(owner.identity)
		}
	}
	c.subwallets.Mu.Unlock()

	raw := Encode(p.Tx)
	accepted, reason, err := c.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return [32]byte{}, err
	}
	if !accepted {
		return [32]byte{}, walleterrors.Consensus("composer.submit", errString(reason))
	}

	c.history.AddUnconfirmed(history.Transaction{
		Hash:       p.Hash,
		PaymentID:  p.PaymentID,
		Transfers:  p.Transfers,
		Fee:        p.Fee,
		Timestamp:  time.Now().Unix(),
		UnlockTime: p.Tx.UnlockTime,
	})

	c.mu.Lock()
	c.txKeys[p.Hash] = p.TxSecretKey
	c.mu.Unlock()

	return p.Hash, nil
}

// TxSecretKeys copies out the transaction private key recorded for every
// transaction this composer has ever submitted, for persistence under
// spec §4.9's txPrivateKeys field (used to later prove a payment was
// made).
func (c *Composer) TxSecretKeys() map[[32]byte]crypto.Scalar {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[[32]byte]crypto.Scalar, len(c.txKeys))
	for k, v := range c.txKeys {
		out[k] = v
	}
	return out
}

// RestoreTxSecretKeys repopulates the transaction-private-key index from
// a map previously returned by TxSecretKeys, used by the wallet
// container on open().
func (c *Composer) RestoreTxSecretKeys(keys map[[32]byte]crypto.Scalar) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range keys {
		c.txKeys[k] = v
	}
}

// SendPrepared implements send_prepared(hash): submits a previously
// built and signed transaction, locking its inputs only now.
func (c *Composer) SendPrepared(ctx context.Context, hash [32]byte) ([32]byte, error) {
	c.mu.Lock()
	p, ok := c.prepared[hash]
	if ok {
		delete(c.prepared, hash)
	}
	c.mu.Unlock()
	if !ok {
		return [32]byte{}, walleterrors.Input("composer.SendPrepared", ErrUnknownPreparedTx)
	}
	return c.submit(ctx, p)
}

// RemovePrepared implements remove_prepared(hash): discards a prepared
// transaction without needing to unlock anything, since nothing was
// locked at preparation time.
func (c *Composer) RemovePrepared(hash [32]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.prepared[hash]; !ok {
		return walleterrors.Input("composer.RemovePrepared", ErrUnknownPreparedTx)
	}
	delete(c.prepared, hash)
	return nil
}

// PreparedSnapshot copies out every in-flight prepared transaction, for
// persistence under spec §4.9's preparedTransactions field.
func (c *Composer) PreparedSnapshot() []PreparedTransaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]PreparedTransaction, 0, len(c.prepared))
	for _, p := range c.prepared {
		out = append(out, p)
	}
	return out
}

// RebuildPrepared reconstructs a prepared transaction audited from a
// wallet file. InputOwners is re-derived here by matching each input's
// key image against the live subwallet set rather than being persisted
// directly, since PreparedTransaction.InputOwners carries an unexported
// element type by design (spec §9's borrowed-handle ownership rule: a
// prepared transaction's owner references are process-local). It
// reports false, doing nothing, if any input no longer resolves to a
// live input in the subwallet set — the most likely cause is that the
// wallet kept syncing after this entry was saved, in which case
// send_prepared could never have locked its inputs anyway.
func (c *Composer) RebuildPrepared(tx Transaction, txSecretKey crypto.Scalar, fee uint64, paymentID *[32]byte, transfers map[[32]byte]int64, submitHeight uint64) bool {
	c.subwallets.Mu.RLock()
	owners := make([]inputOwner, 0, len(tx.Inputs))
	for _, in := range tx.Inputs {
		keyImage := in.KeyImage.Bytes()
		var owner *inputOwner
		for _, sw := range c.subwallets.All() {
			if identity, ok := sw.FindByKeyImage(keyImage); ok {
				owner = &inputOwner{subwalletKey: sw.PublicSpendKey.Bytes(), identity: identity}
				break
			}
		}
		if owner == nil {
			c.subwallets.Mu.RUnlock()
			return false
		}
		owners = append(owners, *owner)
	}
	c.subwallets.Mu.RUnlock()

	hash := Hash(tx)
	c.mu.Lock()
	c.prepared[hash] = PreparedTransaction{
		Hash:         hash,
		Tx:           tx,
		TxSecretKey:  txSecretKey,
		InputOwners:  owners,
		Fee:          fee,
		PaymentID:    paymentID,
		Transfers:    transfers,
		SubmitHeight: submitHeight,
	}
	c.mu.Unlock()
	return true
}

type errString string

func (e errString) Error() string { return string(e) }
