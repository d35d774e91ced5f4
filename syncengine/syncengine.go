// Package syncengine implements C4: the sync coordinator described in
// spec §4.4. One dispatch thread pulls blocks from the block downloader
// (C3) in arrival order and tags each with a monotonic arrival_index; a
// worker pool performs the pure outputs-scan in parallel; a single
// commit thread drains a priority queue strictly in arrival order,
// mutating subwallet state, transaction history, and sync status.
//
// Grounded on the teacher's modules/consensus package for the general
// shape of a pipelined, threadgroup-managed subsystem (dispatch +
// worker pool + single commit point guarded by its own lock), and on
// modules/wallet/wallet.go for the threadgroup shutdown idiom
// (tg.Add/Done/Stop/StopChan/OnStop). The priority-queue-by-arrival-
// index structure itself has no teacher analogue and is built directly
// from spec §4.4's own description.
package syncengine

import (
	"container/heap"
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NebulousLabs/threadgroup"
	"github.com/sirupsen/logrus"

	"github.com/wrkzcoin/wrkzcoin-sub002/blockdownloader"
	"github.com/wrkzcoin/wrkzcoin-sub002/history"
	"github.com/wrkzcoin/wrkzcoin-sub002/nodeclient"
	"github.com/wrkzcoin/wrkzcoin-sub002/subwallet"
	"github.com/wrkzcoin/wrkzcoin-sub002/syncstatus"
)

// DefaultLockedCheckInterval and DefaultCancelledGrace are the spec
// §4.4 defaults for the locked-transactions check (~15s poll; 60s grace
// before an unknown hash is treated as cancelled).
const (
	DefaultLockedCheckInterval = 15 * time.Second
	DefaultCancelledGrace      = 60 * time.Second
)

// Config configures an Engine. WorkerCount<=0 defaults to the number of
// logical CPUs, matching spec §4.4's "size configurable, default =
// hardware threads".
type Config struct {
	WorkerCount         int
	SkipCoinbase        bool
	LockedCheckInterval time.Duration
	CancelledGrace      time.Duration
}

// dispatchedBlock is one block handed from the dispatch thread to the
// worker pool, tagged with its arrival_index.
type dispatchedBlock struct {
	arrivalIndex uint64
	block        nodeclient.RawBlock
}

// Engine is the sync coordinator, C4.
type Engine struct {
	client     *nodeclient.Client
	downloader *blockdownloader.Downloader
	subwallets *subwallet.Set
	history    *history.Store
	status     *syncstatus.Status
	log        *logrus.Entry

	workerCount         int
	skipCoinbase        bool
	lockedCheckInterval time.Duration
	cancelledGrace      time.Duration

	tg threadgroup.ThreadGroup

	scanJobs chan dispatchedBlock

	heapMu   sync.Mutex
	heapCond *sync.Cond
	pending  arrivalHeap
	stopping bool

	nextCommitIndex uint64 // read/written only by the commit goroutine
	committedCount  uint64 // atomic: number of blocks Drop()-ed so far
}

// New constructs an Engine wired to the given downloader, subwallet set,
// history store, and sync status ledger, all of which it expects to be
// the same instances the wallet container (C8) holds.
func New(client *nodeclient.Client, downloader *blockdownloader.Downloader, subwallets *subwallet.Set, hist *history.Store, status *syncstatus.Status, log *logrus.Entry, cfg Config) *Engine {
	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	lockedCheckInterval := cfg.LockedCheckInterval
	if lockedCheckInterval <= 0 {
		lockedCheckInterval = DefaultLockedCheckInterval
	}
	cancelledGrace := cfg.CancelledGrace
	if cancelledGrace <= 0 {
		cancelledGrace = DefaultCancelledGrace
	}

	e := &Engine{
		client:              client,
		downloader:          downloader,
		subwallets:          subwallets,
		history:             hist,
		status:              status,
		log:                 log,
		workerCount:         workerCount,
		skipCoinbase:        cfg.SkipCoinbase,
		lockedCheckInterval: lockedCheckInterval,
		cancelledGrace:      cancelledGrace,
		scanJobs:            make(chan dispatchedBlock, workerCount*4),
	}
	e.heapCond = sync.NewCond(&e.heapMu)
	e.tg.OnStop(func() {
		e.heapMu.Lock()
		e.stopping = true
		e.heapCond.Broadcast()
		e.heapMu.Unlock()
	})
	return e
}

// Start launches the downloader's fetch loop, the dispatch thread, the
// worker pool, the commit thread, and the locked-transactions check.
func (e *Engine) Start() {
	go e.downloader.Run()

	if err := e.tg.Add(); err == nil {
		go e.dispatchLoop()
	}
	for i := 0; i < e.workerCount; i++ {
		if err := e.tg.Add(); err == nil {
			go e.scanWorker()
		}
	}
	if err := e.tg.Add(); err == nil {
		go e.commitLoop()
	}
	if err := e.tg.Add(); err == nil {
		go e.lockedTransactionsLoop()
	}
}

// Stop implements spec §4.4's cancellation contract: every worker
// finishes its current block before exiting; the commit thread drains
// the priority queue only up to the next contiguous arrival_index gap,
// discarding anything past it (it will be re-fetched on resume since
// sync status was not updated past the last successful commit).
func (e *Engine) Stop() error {
	e.downloader.Stop()
	return e.tg.Stop()
}

// dispatchLoop pulls newly-arrived blocks from the downloader's
// look-ahead queue (without removing them — only a successful commit
// does that, via Downloader.Drop) and tags each with the next
// arrival_index.
func (e *Engine) dispatchLoop() {
	defer e.tg.Done()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var dispatchedUpTo uint64
	for {
		select {
		case <-e.tg.StopChan():
			return
		case <-ticker.C:
		}

		queueLen := e.downloader.QueueLen()
		if queueLen == 0 {
			continue
		}
		blocks := e.downloader.Fetch(queueLen)

		committed := atomic.LoadUint64(&e.committedCount)
		var localOffset uint64
		if dispatchedUpTo > committed {
			localOffset = dispatchedUpTo - committed
		}
		if localOffset > uint64(len(blocks)) {
			localOffset = uint64(len(blocks))
		}

		for _, b := range blocks[localOffset:] {
			job := dispatchedBlock{arrivalIndex: dispatchedUpTo, block: b}
			dispatchedUpTo++
			select {
			case e.scanJobs <- job:
			case <-e.tg.StopChan():
				return
			}
		}
	}
}

// scanWorker runs the pure outputs-scan (spec §4.4) for one block at a
// time and pushes the result onto the arrival-ordered priority queue.
func (e *Engine) scanWorker() {
	defer e.tg.Done()

	for {
		select {
		case job, ok := <-e.scanJobs:
			if !ok {
				return
			}
			result := e.scan(job)

			e.heapMu.Lock()
			heap.Push(&e.pending, result)
			e.heapCond.Broadcast()
			e.heapMu.Unlock()
		case <-e.tg.StopChan():
			return
		}
	}
}

func (e *Engine) scan(job dispatchedBlock) blockScanResult {
	e.subwallets.Mu.RLock()
	viewKey := e.subwallets.PrivateViewKey()
	all := e.subwallets.All()
	targets := make([]subwalletScanTarget, 0, len(all))
	for _, sw := range all {
		targets = append(targets, subwalletScanTarget{publicSpendKey: sw.PublicSpendKey.Bytes(), point: sw.PublicSpendKey})
	}
	e.subwallets.Mu.RUnlock()

	return scanBlock(job.block, job.arrivalIndex, viewKey, e.skipCoinbase, targets)
}

// commitLoop implements spec §4.4's single commit thread: it pops from
// the priority queue only when the head's arrival_index equals
// next_commit_index, guaranteeing commit order matches arrival order
// even though worker completion order does not.
func (e *Engine) commitLoop() {
	defer e.tg.Done()

	for {
		e.heapMu.Lock()
		for {
			if e.pending.Len() > 0 && e.pending[0].arrivalIndex == atomic.LoadUint64(&e.nextCommitIndex) {
				break
			}
			if e.stopping {
				e.heapMu.Unlock()
				return
			}
			e.heapCond.Wait()
		}
		result := heap.Pop(&e.pending).(blockScanResult)
		stopping := e.stopping
		e.heapMu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := e.commitBlock(ctx, result)
		cancel()
		if err != nil && stopping {
			return
		}
		if err != nil {
			e.log.WithError(err).WithField("height", result.block.Height).Error("commit failed, retrying")
			time.Sleep(time.Second)
			e.heapMu.Lock()
			heap.Push(&e.pending, result)
			e.heapMu.Unlock()
			continue
		}
		atomic.AddUint64(&e.committedCount, 1)
		atomic.AddUint64(&e.nextCommitIndex, 1)
	}
}
