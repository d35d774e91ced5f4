package syncengine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wrkzcoin/wrkzcoin-sub002/blockdownloader"
	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
	"github.com/wrkzcoin/wrkzcoin-sub002/history"
	"github.com/wrkzcoin/wrkzcoin-sub002/nodeclient"
	"github.com/wrkzcoin/wrkzcoin-sub002/subwallet"
	"github.com/wrkzcoin/wrkzcoin-sub002/syncstatus"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func zeroStart() uint64  { return 0 }
func zeroStartTS() int64 { return 0 }

// syncDataServer serves a fixed sequence of blocks once, then answers
// every subsequent request with an empty, synced batch, matching the
// shape the downloader's Run loop expects from a real node.
func syncDataServer(blocks []nodeclient.RawBlock) *httptest.Server {
	served := false
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !served {
			served = true
			json.NewEncoder(w).Encode(nodeclient.SyncDataResult{Items: blocks})
			return
		}
		json.NewEncoder(w).Encode(nodeclient.SyncDataResult{Synced: true})
	}))
}

// newTestEngine wires an Engine against a fresh node client/downloader
// pointed at srvURL, a single real subwallet, and empty history/status
// stores, mirroring the wiring the wallet container (C8) performs.
func newTestEngine(t *testing.T, srvURL string) (*Engine, *subwallet.Set, *subwallet.Subwallet) {
	t.Helper()
	client, err := nodeclient.New(srvURL, "test/1.0", testLogger())
	if err != nil {
		t.Fatalf("nodeclient.New: %v", err)
	}
	status := syncstatus.New()
	downloader := blockdownloader.New(client, status, testLogger(), true, zeroStart, zeroStartTS)
	hist := history.New()
	set := subwallet.NewSet()

	viewSecret, viewPublic := crypto.GenerateKeyPair()
	spendSecret, spendPublic := crypto.GenerateKeyPair()
	sw := subwallet.New(spendPublic, spendSecret, viewPublic, viewSecret, "addr", true, false, 0, 0, 0, testLogger())
	set.Mu.Lock()
	set.Add(sw)
	set.Mu.Unlock()

	engine := New(client, downloader, set, hist, status, testLogger(), Config{WorkerCount: 1})
	return engine, set, sw
}

// waitForQueue blocks until the downloader's look-ahead queue holds at
// least n blocks or the deadline passes.
func waitForQueue(t *testing.T, d *blockdownloader.Downloader, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if d.QueueLen() >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for queue length >= %d, got %d", n, d.QueueLen())
}

func TestCommitBlockStoresOwnedOutputAndHistory(t *testing.T) {
	placeholder, set, sw := newTestEngine(t, "")
	placeholder.downloader.Stop()

	set.Mu.RLock()
	viewSecret := set.PrivateViewKey()
	set.Mu.RUnlock()

	_, txPublic := crypto.GenerateKeyPair()
	d := crypto.KeyDerivation(txPublic, viewSecret)
	outputKey := crypto.DerivePublicKey(d, 0, sw.PublicSpendKey)

	var txHash [32]byte
	txHash[0] = 55
	var blockHash [32]byte
	blockHash[0] = 1

	block := nodeclient.RawBlock{
		Hash:      blockHash,
		Height:    1,
		Timestamp: 1000,
		Transactions: []nodeclient.RawTransaction{
			{
				Hash:        txHash,
				TxPublicKey: txPublic.Bytes(),
				Outputs:     [][32]byte{outputKey.Bytes()},
				Amounts:     []uint64{777},
			},
		},
	}

	srv := syncDataServer([]nodeclient.RawBlock{block})
	defer srv.Close()
	client, err := nodeclient.New(srv.URL, "test/1.0", testLogger())
	if err != nil {
		t.Fatalf("nodeclient.New: %v", err)
	}
	downloader := blockdownloader.New(client, placeholder.status, testLogger(), true, zeroStart, zeroStartTS)
	engine := New(client, downloader, placeholder.subwallets, placeholder.history, placeholder.status, testLogger(), Config{WorkerCount: 1})

	go downloader.Run()
	defer downloader.Stop()
	waitForQueue(t, downloader, 1)

	result := engine.scan(dispatchedBlock{arrivalIndex: 0, block: block})
	if len(result.candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(result.candidates))
	}

	if err := engine.commitBlock(context.Background(), result); err != nil {
		t.Fatalf("commitBlock: %v", err)
	}

	if sw.UnspentCount() != 1 {
		t.Fatalf("expected 1 unspent input recorded, got %d", sw.UnspentCount())
	}

	tx, ok := engine.history.ByHash(txHash)
	if !ok {
		t.Fatalf("expected a history entry for the owned transaction")
	}
	if tx.Transfers[sw.PublicSpendKey.Bytes()] != 777 {
		t.Fatalf("expected a net credit of 777, got %+v", tx.Transfers)
	}
	if engine.status.LastKnownHeight() != 1 {
		t.Fatalf("expected sync status to record height 1 after commit")
	}
}

func TestCommitBlockDetectsReorgAndRollsBack(t *testing.T) {
	var h10, h11, h10reorg [32]byte
	h10[0], h11[0], h10reorg[0] = 10, 11, 200
	blockAt10 := nodeclient.RawBlock{Hash: h10, Height: 10, Timestamp: 100}
	blockAt11 := nodeclient.RawBlock{Hash: h11, Height: 11, Timestamp: 110}
	reorgBlock := nodeclient.RawBlock{Hash: h10reorg, Height: 10, Timestamp: 105}

	placeholder, _, sw := newTestEngine(t, "")
	placeholder.downloader.Stop()

	srv := syncDataServer([]nodeclient.RawBlock{blockAt10, blockAt11})
	defer srv.Close()
	client, err := nodeclient.New(srv.URL, "test/1.0", testLogger())
	if err != nil {
		t.Fatalf("nodeclient.New: %v", err)
	}
	downloader := blockdownloader.New(client, placeholder.status, testLogger(), true, zeroStart, zeroStartTS)
	engine := New(client, downloader, placeholder.subwallets, placeholder.history, placeholder.status, testLogger(), Config{WorkerCount: 1})

	go downloader.Run()
	defer downloader.Stop()
	waitForQueue(t, downloader, 2)

	if err := engine.commitBlock(context.Background(), blockScanResult{block: blockAt10}); err != nil {
		t.Fatalf("commitBlock at height 10: %v", err)
	}
	if err := engine.commitBlock(context.Background(), blockScanResult{block: blockAt11}); err != nil {
		t.Fatalf("commitBlock at height 11: %v", err)
	}

	input := subwallet.TransactionInput{KeyImage: sw.PublicSpendKey, Amount: 5, BlockHeight: 10}
	sw.StoreTransactionInput(input)
	if sw.UnspentCount() != 1 {
		t.Fatalf("expected input seeded at height 10")
	}

	reorgSrv := syncDataServer([]nodeclient.RawBlock{reorgBlock})
	defer reorgSrv.Close()
	reorgClient, err := nodeclient.New(reorgSrv.URL, "test/1.0", testLogger())
	if err != nil {
		t.Fatalf("nodeclient.New: %v", err)
	}
	reorgDownloader := blockdownloader.New(reorgClient, placeholder.status, testLogger(), true, zeroStart, zeroStartTS)
	engine.client = reorgClient
	engine.downloader = reorgDownloader
	go reorgDownloader.Run()
	defer reorgDownloader.Stop()
	waitForQueue(t, reorgDownloader, 1)

	if err := engine.commitBlock(context.Background(), blockScanResult{block: reorgBlock}); err != nil {
		t.Fatalf("commitBlock reorg: %v", err)
	}

	if sw.UnspentCount() != 0 {
		t.Fatalf("expected the forked input to be removed on rollback, got %d unspent", sw.UnspentCount())
	}
	if engine.status.LastKnownHeight() != 10 {
		t.Fatalf("expected last known height 10 after reorg commit, got %d", engine.status.LastKnownHeight())
	}
}
