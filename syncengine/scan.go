package syncengine

import (
	"container/heap"

	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
	"github.com/wrkzcoin/wrkzcoin-sub002/nodeclient"
)

// outputCandidate is one output a scan pass matched against a subwallet,
// per spec §4.4's outputs-scan step. Only the bare data needed by the
// commit step survives the scan: key_image derivation uses the private
// spend key and is deliberately deferred to the single-threaded commit
// step, not computed here.
type outputCandidate struct {
	subwalletKey [32]byte
	txHash       [32]byte
	isCoinbase   bool
	outputIndex  int
	derivation   crypto.Point
	outputKey    crypto.Point
	txPublicKey  crypto.Point
	amount       uint64
	unlockTime   uint64
}

// inputReference is one input (by key image) seen in a scanned
// transaction; checked at commit time against every subwallet's unspent
// and locked sets.
type inputReference struct {
	txHash   [32]byte
	keyImage [32]byte
}

// blockScanResult is one worker's output for one block: the candidate
// outputs and input key images found, keyed by the transaction they
// belong to so the commit step can build per-transaction history
// entries.
type blockScanResult struct {
	arrivalIndex uint64
	block        nodeclient.RawBlock
	candidates   []outputCandidate
	inputs       []inputReference
}

// subwalletScanTarget is the minimal, copied-out view of a subwallet the
// pure scan step needs: its public spend key, as bytes (to record the
// owner) and as a point (to derive P'). View-only-ness is not carried; it
// only matters for key_image derivation, which happens in the commit step.
type subwalletScanTarget struct {
	publicSpendKey [32]byte
	point          crypto.Point
}

// scanBlock implements spec §4.4's per-block outputs scan: pure,
// parallel-safe, and performs no wallet-state mutation. For every
// transaction (and the coinbase) it computes the shared derivation once,
// then for every output index and every subwallet checks whether the
// one-time address matches.
func scanBlock(block nodeclient.RawBlock, arrivalIndex uint64, viewKey crypto.Scalar, skipCoinbase bool, targets []subwalletScanTarget) blockScanResult {
	result := blockScanResult{arrivalIndex: arrivalIndex, block: block}

	scanTx := func(tx nodeclient.RawTransaction, isCoinbase bool) {
		txPub, err := crypto.PointFromBytes(tx.TxPublicKey)
		if err != nil {
			return
		}
		d := crypto.KeyDerivation(txPub, viewKey)
		for i, outBytes := range tx.Outputs {
			outKey, err := crypto.PointFromBytes(outBytes)
			if err != nil {
				continue
			}
			var amount uint64
			if i < len(tx.Amounts) {
				amount = tx.Amounts[i]
			}
			for _, target := range targets {
				derived := crypto.DerivePublicKey(d, uint64(i), target.point)
				if derived.Bytes() != outBytes {
					continue
				}
				result.candidates = append(result.candidates, outputCandidate{
					subwalletKey: target.publicSpendKey,
					txHash:       tx.Hash,
					isCoinbase:   isCoinbase,
					outputIndex:  i,
					derivation:   d,
					outputKey:    outKey,
					txPublicKey:  txPub,
					amount:       amount,
					unlockTime:   tx.UnlockTime,
				})
			}
		}
		for _, keyImage := range tx.Inputs {
			result.inputs = append(result.inputs, inputReference{txHash: tx.Hash, keyImage: keyImage})
		}
	}

	if !skipCoinbase {
		scanTx(block.CoinbaseTx, true)
	}
	for _, tx := range block.Transactions {
		scanTx(tx, false)
	}
	return result
}

// arrivalHeap is a container/heap min-heap of blockScanResult ordered by
// arrival_index, per spec §4.4's "priority queue ordered by
// arrival_index". No pack example repo imports a third-party priority
// queue library, and container/heap is the standard idiom for this
// shape in Go, so this is a deliberate standard-library choice (recorded
// in DESIGN.md).
type arrivalHeap []blockScanResult

func (h arrivalHeap) Len() int            { return len(h) }
func (h arrivalHeap) Less(i, j int) bool  { return h[i].arrivalIndex < h[j].arrivalIndex }
func (h arrivalHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *arrivalHeap) Push(x interface{}) { *h = append(*h, x.(blockScanResult)) }
func (h *arrivalHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

var _ heap.Interface = (*arrivalHeap)(nil)
