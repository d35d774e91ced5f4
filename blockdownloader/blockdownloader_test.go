package blockdownloader

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wrkzcoin/wrkzcoin-sub002/nodeclient"
	"github.com/wrkzcoin/wrkzcoin-sub002/syncstatus"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func zeroStart() uint64  { return 0 }
func zeroStartTS() int64 { return 0 }

func TestFetchReturnsWithoutRemoving(t *testing.T) {
	status := syncstatus.New()
	client, _ := nodeclient.New("http://127.0.0.1:1", "test/1.0", testLogger())
	d := New(client, status, testLogger(), false, zeroStart, zeroStartTS)

	d.queue = []nodeclient.RawBlock{
		{Height: 1}, {Height: 2}, {Height: 3},
	}
	got := d.Fetch(2)
	if len(got) != 2 || got[0].Height != 1 || got[1].Height != 2 {
		t.Fatalf("unexpected fetch result: %+v", got)
	}
	if d.QueueLen() != 3 {
		t.Fatalf("expected Fetch to leave the queue untouched, got length %d", d.QueueLen())
	}
}

func TestDropRemovesHeadAndRecordsCommit(t *testing.T) {
	status := syncstatus.New()
	client, _ := nodeclient.New("http://127.0.0.1:1", "test/1.0", testLogger())
	d := New(client, status, testLogger(), false, zeroStart, zeroStartTS)

	var h1, h2 [32]byte
	h1[0], h2[0] = 1, 2
	d.queue = []nodeclient.RawBlock{
		{Hash: h1, Height: 10},
		{Hash: h2, Height: 11},
	}

	if err := d.Drop(h1, 10); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if d.QueueLen() != 1 {
		t.Fatalf("expected queue length 1 after drop, got %d", d.QueueLen())
	}
	if status.LastKnownHeight() != 10 {
		t.Fatalf("expected last known height 10, got %d", status.LastKnownHeight())
	}
}

func TestDropRejectsMismatchedHead(t *testing.T) {
	status := syncstatus.New()
	client, _ := nodeclient.New("http://127.0.0.1:1", "test/1.0", testLogger())
	d := New(client, status, testLogger(), false, zeroStart, zeroStartTS)

	var h1 [32]byte
	h1[0] = 1
	d.queue = []nodeclient.RawBlock{{Hash: h1, Height: 10}}

	var wrongHash [32]byte
	wrongHash[0] = 99
	if err := d.Drop(wrongHash, 10); err != ErrDropMismatch {
		t.Fatalf("expected ErrDropMismatch, got %v", err)
	}
}

func TestRunPushesFetchedBlocksOntoQueue(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			var h [32]byte
			h[0] = 7
			json.NewEncoder(w).Encode(nodeclient.SyncDataResult{
				Items: []nodeclient.RawBlock{{Hash: h, Height: 1}},
			})
			return
		}
		json.NewEncoder(w).Encode(nodeclient.SyncDataResult{})
	}))
	defer srv.Close()

	client, err := nodeclient.New(srv.URL, "test/1.0", testLogger())
	if err != nil {
		t.Fatalf("nodeclient.New: %v", err)
	}
	status := syncstatus.New()
	d := New(client, status, testLogger(), false, zeroStart, zeroStartTS)

	go d.Run()
	defer d.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if d.QueueLen() > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if d.QueueLen() == 0 {
		t.Fatalf("expected Run to push at least one fetched block onto the queue")
	}
}

func TestStopTerminatesRunPromptly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(nodeclient.SyncDataResult{})
	}))
	defer srv.Close()

	client, err := nodeclient.New(srv.URL, "test/1.0", testLogger())
	if err != nil {
		t.Fatalf("nodeclient.New: %v", err)
	}
	status := syncstatus.New()
	d := New(client, status, testLogger(), false, zeroStart, zeroStartTS)

	go d.Run()
	done := make(chan struct{})
	go func() {
		d.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatalf("Stop did not return in time")
	}
}

func TestTakePendingTopBlockClearsAfterRead(t *testing.T) {
	status := syncstatus.New()
	client, _ := nodeclient.New("http://127.0.0.1:1", "test/1.0", testLogger())
	d := New(client, status, testLogger(), false, zeroStart, zeroStartTS)

	var h [32]byte
	h[0] = 42
	d.pendingTopBlock = &nodeclient.TopBlock{Hash: h, Height: 99}

	top := d.TakePendingTopBlock()
	if top == nil || top.Height != 99 {
		t.Fatalf("expected pending top block with height 99, got %+v", top)
	}
	if d.TakePendingTopBlock() != nil {
		t.Fatalf("expected pending top block to be cleared after first read")
	}
}
