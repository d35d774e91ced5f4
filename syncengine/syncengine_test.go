package syncengine

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wrkzcoin/wrkzcoin-sub002/blockdownloader"
	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
	"github.com/wrkzcoin/wrkzcoin-sub002/history"
	"github.com/wrkzcoin/wrkzcoin-sub002/nodeclient"
	"github.com/wrkzcoin/wrkzcoin-sub002/subwallet"
	"github.com/wrkzcoin/wrkzcoin-sub002/syncstatus"
)

func TestEngineCommitsBlocksInArrivalOrder(t *testing.T) {
	viewSecret, viewPublic := crypto.GenerateKeyPair()
	spendSecret, spendPublic := crypto.GenerateKeyPair()
	sw := subwallet.New(spendPublic, spendSecret, viewPublic, viewSecret, "addr", true, false, 0, 0, 0, testLogger())

	set := subwallet.NewSet()
	set.Mu.Lock()
	set.Add(sw)
	set.Mu.Unlock()

	var h1, h2, h3 [32]byte
	h1[0], h2[0], h3[0] = 1, 2, 3
	blocks := []nodeclient.RawBlock{
		{Hash: h1, Height: 1, Timestamp: 10},
		{Hash: h2, Height: 2, Timestamp: 20},
		{Hash: h3, Height: 3, Timestamp: 30},
	}

	srv := syncDataServer(blocks)
	defer srv.Close()
	client, err := nodeclient.New(srv.URL, "test/1.0", testLogger())
	if err != nil {
		t.Fatalf("nodeclient.New: %v", err)
	}
	status := syncstatus.New()
	downloader := blockdownloader.New(client, status, testLogger(), true, zeroStart, zeroStartTS)
	hist := history.New()

	engine := New(client, downloader, set, hist, status, testLogger(), Config{WorkerCount: 2})
	engine.Start()
	defer engine.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if status.LastKnownHeight() == 3 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if status.LastKnownHeight() != 3 {
		t.Fatalf("expected all three blocks committed in order, last known height is %d", status.LastKnownHeight())
	}
}

func TestEngineStopReturnsPromptly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(nodeclient.SyncDataResult{Synced: true})
	}))
	defer srv.Close()

	client, err := nodeclient.New(srv.URL, "test/1.0", testLogger())
	if err != nil {
		t.Fatalf("nodeclient.New: %v", err)
	}
	status := syncstatus.New()
	downloader := blockdownloader.New(client, status, testLogger(), true, zeroStart, zeroStartTS)
	hist := history.New()
	set := subwallet.NewSet()

	engine := New(client, downloader, set, hist, status, testLogger(), Config{WorkerCount: 1})
	engine.Start()

	done := make(chan struct{})
	go func() {
		if err := engine.Stop(); err != nil {
			t.Errorf("Stop: %v", err)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Stop did not return in time")
	}
}
