package syncengine

import (
	"context"
	"time"

	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
	"github.com/wrkzcoin/wrkzcoin-sub002/history"
	"github.com/wrkzcoin/wrkzcoin-sub002/nodeclient"
	"github.com/wrkzcoin/wrkzcoin-sub002/subwallet"
	"github.com/wrkzcoin/wrkzcoin-sub002/walleterrors"
)

// netChange accumulates one subwallet's credits and debits within a
// single transaction, for the history entry's per-subwallet transfer.
type netChange struct {
	credit uint64
	debit  uint64
}

// commitBlock implements spec §4.4's single-threaded commit step: reorg
// detection, global-index lookup, key_image derivation, subwallet state
// mutation, transaction-history recording, and finally handing the block
// back to the downloader so it can drop it from the look-ahead queue and
// record it into sync status.
//
// Fee is best-effort: RawTransaction carries no per-input amounts for
// inputs we do not own, so "Σ inputs − Σ outputs" is only exact when
// every input of the transaction belongs to this wallet (true for a
// transaction this wallet itself composed and sent). For a transaction
// observed purely as an incoming payment, Fee is left at 0 — the
// receiving side never needs the sender's fee.
func (e *Engine) commitBlock(ctx context.Context, result blockScanResult) error {
	block := result.block

	e.subwallets.Mu.Lock()
	defer e.subwallets.Mu.Unlock()

	if len(e.status.RecentBlockHashes()) > 0 && block.Height <= e.status.LastKnownHeight() {
		e.rollbackLocked(block.Height)
	}

	globalIndexes := e.lookupGlobalIndexes(ctx, block)

	perTxChanges := make(map[[32]byte]map[[32]byte]*netChange)
	perTxUnlockTime := make(map[[32]byte]uint64)
	recordChange := func(txHash, subwalletKey [32]byte, credit, debit uint64) {
		byTx, ok := perTxChanges[txHash]
		if !ok {
			byTx = make(map[[32]byte]*netChange)
			perTxChanges[txHash] = byTx
		}
		nc, ok := byTx[subwalletKey]
		if !ok {
			nc = &netChange{}
			byTx[subwalletKey] = nc
		}
		nc.credit += credit
		nc.debit += debit
	}

	for _, cand := range result.candidates {
		sw, ok := e.subwallets.Get(cand.subwalletKey)
		if !ok {
			continue
		}
		perTxUnlockTime[cand.txHash] = cand.unlockTime

		globalIndex := block.GlobalIndexBase + uint64(cand.outputIndex)
		if indices, ok := globalIndexes[cand.txHash]; ok && cand.outputIndex < len(indices) {
			globalIndex = indices[cand.outputIndex]
		}

		input := subwallet.TransactionInput{
			Amount:                cand.amount,
			BlockHeight:           block.Height,
			TransactionPublicKey:  cand.txPublicKey,
			TransactionIndex:      cand.outputIndex,
			GlobalOutputIndex:     globalIndex,
			Key:                   cand.outputKey,
			UnlockTime:            cand.unlockTime,
			ParentTransactionHash: cand.txHash,
		}
		if !sw.IsViewOnly {
			secret := crypto.DeriveSecretKey(cand.derivation, uint64(cand.outputIndex), sw.PrivateSpendKey)
			input.KeyImage = crypto.GenerateKeyImage(cand.outputKey, secret)
			input.PrivateEphemeral = secret
		}
		sw.StoreTransactionInput(input)
		recordChange(cand.txHash, cand.subwalletKey, cand.amount, 0)
	}

	for _, ref := range result.inputs {
		for _, sw := range e.subwallets.All() {
			if sw.IsViewOnly {
				continue
			}
			if in, ok := sw.LookupUnspent(ref.keyImage); ok {
				sw.MarkInputAsSpent(ref.keyImage, block.Height)
				recordChange(ref.txHash, sw.PublicSpendKey.Bytes(), 0, in.Amount)
				continue
			}
			if in, ok := sw.LookupLocked(ref.keyImage); ok {
				sw.MarkInputAsSpent(ref.keyImage, block.Height)
				recordChange(ref.txHash, sw.PublicSpendKey.Bytes(), 0, in.Amount)
			}
		}
	}

	for txHash, changes := range perTxChanges {
		transfers := make(map[[32]byte]int64, len(changes))
		var totalCredit, totalDebit uint64
		for subKey, nc := range changes {
			net := int64(nc.credit) - int64(nc.debit)
			if net != 0 {
				transfers[subKey] = net
			}
			totalCredit += nc.credit
			totalDebit += nc.debit
		}
		if len(transfers) == 0 {
			continue
		}

		isCoinbase := txHash == block.CoinbaseTx.Hash
		var fee uint64
		if !isCoinbase && totalDebit > totalCredit {
			fee = totalDebit - totalCredit
		}

		if _, ok := e.history.ByHash(txHash); ok {
			e.history.Confirm(txHash, block.Height, block.Timestamp)
			continue
		}
		e.history.AddConfirmed(history.Transaction{
			Hash:        txHash,
			Transfers:   transfers,
			Fee:         fee,
			BlockHeight: block.Height,
			Timestamp:   block.Timestamp,
			UnlockTime:  perTxUnlockTime[txHash],
			IsCoinbase:  isCoinbase,
		})
	}

	return e.downloader.Drop(block.Hash, block.Height)
}

// rollbackLocked implements spec §4.4's reorg rollback. Caller must hold
// e.subwallets.Mu.
func (e *Engine) rollbackLocked(forkHeight uint64) {
	for _, sw := range e.subwallets.All() {
		sw.RemoveForkedInputs(forkHeight)
	}
	e.history.RemoveAtOrAboveHeight(forkHeight)
	e.status.RollbackToFork(forkHeight)
}

// lookupGlobalIndexes fetches the global output index map for a single
// block height, tolerating cache-API backends that do not support the
// call (the block's own GlobalIndexBase is used as a fallback per
// output). A NetworkError is retried a few times with backoff, matching
// spec §7's "the sync coordinator absorbs transient NetworkError
// silently with backoff".
func (e *Engine) lookupGlobalIndexes(ctx context.Context, block nodeclient.RawBlock) map[[32]byte][]uint64 {
	indexes, err := e.client.GetGlobalIndexesForRange(ctx, block.Height, block.Height)
	for attempt := 0; err != nil && attempt < 3; attempt++ {
		kind, ok := walleterrors.KindOf(err)
		if !ok || kind != walleterrors.NetworkError {
			break
		}
		time.Sleep(time.Duration(attempt+1) * time.Second)
		indexes, err = e.client.GetGlobalIndexesForRange(ctx, block.Height, block.Height)
	}
	if err != nil {
		return nil
	}
	return indexes
}
