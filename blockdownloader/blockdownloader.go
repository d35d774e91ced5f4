// Package blockdownloader implements C3: a memory-bounded look-ahead
// queue of raw blocks, filled by a background loop that calls
// nodeclient.GetWalletSyncData and drained by the sync coordinator via
// Fetch/Drop. Grounded on
// original_source/src/walletbackend/BlockDownloader.cpp's fetchBlocks/
// dropBlock/downloaderThread trio: the same fetch-without-removing,
// drop-one-and-record-the-commit, and wait-for-either-stop-or-room-freed
// shapes, adapted to Go's sync.Cond instead of a condition_variable, and
// to this module's own RawBlock/Status types.
package blockdownloader

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wrkzcoin/wrkzcoin-sub002/nodeclient"
	"github.com/wrkzcoin/wrkzcoin-sub002/syncstatus"
)

const (
	// DefaultMemoryLimitBytes is the look-ahead queue's memory budget.
	DefaultMemoryLimitBytes = 50 * 1024 * 1024

	// MaxResponseSizeBytes bounds one get_wallet_sync_data response, used
	// as headroom when deciding whether there is room for another fetch.
	MaxResponseSizeBytes = 5 * 1024 * 1024

	emptyResponseBackoff = 5 * time.Second
)

// ErrDropMismatch is returned by Drop when the given hash/height do not
// match the queue's current head.
var ErrDropMismatch = errors.New("blockdownloader: drop target does not match queue head")

// StartHeightFunc and StartTimestampFunc let the wallet container supply
// the earliest height/timestamp of interest across all subwallets; both
// can change as subwallets are added, so they are resolved freshly on
// every fetch rather than fixed at construction.
type StartHeightFunc func() uint64
type StartTimestampFunc func() int64

// Downloader runs the C3 look-ahead loop against a single node client
// and synchronization status ledger.
type Downloader struct {
	mu         sync.Mutex
	cond       *sync.Cond
	queue      []nodeclient.RawBlock
	shouldStop bool
	stopped    chan struct{}
	started    bool

	memoryLimit int

	client             *nodeclient.Client
	status             *syncstatus.Status
	log                *logrus.Entry
	skipCoinbase       bool
	startHeightFn      StartHeightFunc
	startTimestampFn   StartTimestampFunc

	// pendingTopBlock holds a tip reported alongside a zero-block
	// response; the sync coordinator consumes it via TakePendingTopBlock
	// (see spec §4.2's "commit top_block as new tip" rule, which is the
	// coordinator's responsibility, not this package's).
	pendingTopBlock *nodeclient.TopBlock
}

// New constructs a Downloader. startHeightFn/startTimestampFn are
// consulted on every fetch so that adding a new subwallet with an older
// sync_start_height can widen the requested range without restarting the
// downloader.
func New(client *nodeclient.Client, status *syncstatus.Status, log *logrus.Entry, skipCoinbase bool, startHeightFn StartHeightFunc, startTimestampFn StartTimestampFunc) *Downloader {
	d := &Downloader{
		memoryLimit:      DefaultMemoryLimitBytes,
		stopped:          make(chan struct{}),
		client:           client,
		status:           status,
		log:              log,
		skipCoinbase:     skipCoinbase,
		startHeightFn:    startHeightFn,
		startTimestampFn: startTimestampFn,
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Run executes the download loop until Stop is called. It must be
// launched on its own goroutine and must not be called more than once.
func (d *Downloader) Run() {
	d.mu.Lock()
	d.started = true
	d.mu.Unlock()
	defer close(d.stopped)

	for {
		d.mu.Lock()
		for !d.shouldStop && d.approxMemoryUsageLocked()+MaxResponseSizeBytes >= d.memoryLimit {
			d.cond.Wait()
		}
		if d.shouldStop {
			d.mu.Unlock()
			return
		}
		queueHashesNewestFirst := d.queuedHashesNewestFirstLocked()
		d.mu.Unlock()

		result, err := d.fetchBatch(queueHashesNewestFirst)
		if err != nil {
			d.log.WithError(err).Debug("get_wallet_sync_data failed, retrying after backoff")
			if d.sleepOrStop(emptyResponseBackoff) {
				return
			}
			continue
		}

		d.mu.Lock()
		if d.shouldStop {
			d.mu.Unlock()
			return
		}

		if len(result.Items) == 0 {
			if result.TopBlock != nil {
				d.pendingTopBlock = result.TopBlock
			} else {
				d.client.DecreaseRequestedBlockCount()
			}
			d.mu.Unlock()
			if d.sleepOrStop(emptyResponseBackoff) {
				return
			}
			continue
		}

		d.client.ResetRequestedBlockCount()
		d.pendingTopBlock = nil
		d.queue = append(d.queue, result.Items...)
		d.mu.Unlock()
	}
}

// sleepOrStop sleeps for dur, returning true early if Stop was called
// during the sleep.
func (d *Downloader) sleepOrStop(dur time.Duration) bool {
	deadline := time.Now().Add(dur)
	for time.Now().Before(deadline) {
		d.mu.Lock()
		stop := d.shouldStop
		d.mu.Unlock()
		if stop {
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return false
}

// Fetch returns up to n blocks from the head of the queue without
// removing them.
func (d *Downloader) Fetch(n int) []nodeclient.RawBlock {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n > len(d.queue) {
		n = len(d.queue)
	}
	out := make([]nodeclient.RawBlock, n)
	copy(out, d.queue[:n])
	return out
}

// Drop pops exactly one block from the head of the queue, provided it
// matches hash/height, and records the commit in the synchronization
// status ledger (spec §4.4's recent_block_hashes/checkpoints/
// last_known_block_height bookkeeping).
func (d *Downloader) Drop(hash [32]byte, height uint64) error {
	d.mu.Lock()
	if len(d.queue) == 0 || d.queue[0].Hash != hash || d.queue[0].Height != height {
		d.mu.Unlock()
		return ErrDropMismatch
	}
	d.queue = d.queue[1:]
	d.cond.Broadcast()
	d.mu.Unlock()

	d.status.RecordCommit(hash, height)
	return nil
}

// TakePendingTopBlock returns and clears a tip reported alongside an
// empty sync-data batch, or nil if none is pending. The sync coordinator
// calls this to decide whether to commit the reported tip directly (only
// valid when the queue is otherwise empty, per spec §4.2).
func (d *Downloader) TakePendingTopBlock() *nodeclient.TopBlock {
	d.mu.Lock()
	defer d.mu.Unlock()
	top := d.pendingTopBlock
	d.pendingTopBlock = nil
	return top
}

// QueueLen returns the number of blocks currently held in the look-ahead
// queue.
func (d *Downloader) QueueLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Stop requests the download loop to exit, discarding its current
// iteration's in-flight work at the next safe point, and blocks until it
// has done so. Per spec §4.4's cancellation contract, any worker that
// has already started a unit of work finishes it before observing stop.
func (d *Downloader) Stop() {
	d.mu.Lock()
	if !d.started {
		d.shouldStop = true
		d.mu.Unlock()
		return
	}
	d.shouldStop = true
	d.cond.Broadcast()
	d.mu.Unlock()
	<-d.stopped
}

func (d *Downloader) fetchBatch(queueHashesNewestFirst [][32]byte) (nodeclient.SyncDataResult, error) {
	recent := d.status.RecentBlockHashes()
	checkpoints := d.status.CheckpointHashes()

	all := make([][32]byte, 0, len(queueHashesNewestFirst)+len(recent)+len(checkpoints))
	all = append(all, queueHashesNewestFirst...)
	all = append(all, recent...)
	all = append(all, checkpoints...)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return d.client.GetWalletSyncData(ctx, all, d.startHeightFn(), d.startTimestampFn(), d.skipCoinbase)
}

// queuedHashesNewestFirstLocked returns the hashes of all queued,
// not-yet-dropped blocks, newest first. The queue itself is stored
// oldest-first (new blocks are appended at the tail), so this reverses
// it.
func (d *Downloader) queuedHashesNewestFirstLocked() [][32]byte {
	out := make([][32]byte, len(d.queue))
	for i, b := range d.queue {
		out[len(d.queue)-1-i] = b.Hash
	}
	return out
}

func (d *Downloader) approxMemoryUsageLocked() int {
	total := 0
	for _, b := range d.queue {
		total += estimateBlockSize(b)
	}
	return total
}

func estimateBlockSize(b nodeclient.RawBlock) int {
	size := 64 // hash, height, timestamp, global index base
	size += estimateTransactionSize(b.CoinbaseTx)
	for _, tx := range b.Transactions {
		size += estimateTransactionSize(tx)
	}
	return size
}

func estimateTransactionSize(tx nodeclient.RawTransaction) int {
	size := 32 + 32 + 8 // hash, transaction public key, unlock time
	size += len(tx.Outputs) * 32
	size += len(tx.Amounts) * 8
	size += len(tx.Inputs) * 32
	return size
}
