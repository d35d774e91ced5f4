package nodeclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func TestGetInfoDecrementsHeight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing Content-Type header")
		}
		if r.Header.Get("User-Agent") != "testwallet/1.0" {
			t.Errorf("missing User-Agent header")
		}
		json.NewEncoder(w).Encode(getInfoResponse{Height: 101, NetworkHeight: 105, PeerCount: 3})
	}))
	defer srv.Close()

	c, err := New(srv.URL, "testwallet/1.0", testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	st, err := c.GetInfo(context.Background())
	if err != nil {
		t.Fatalf("GetInfo: %v", err)
	}
	if st.LocalHeight != 100 {
		t.Fatalf("expected local height 100, got %d", st.LocalHeight)
	}
	if st.NetworkHeight != 105 {
		t.Fatalf("expected network height 105, got %d", st.NetworkHeight)
	}
}

func TestGetWalletSyncDataFallsBackToLegacyOnce(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		if r.URL.Path == "/getrawblocks" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(SyncDataResult{Items: nil})
	}))
	defer srv.Close()

	c, err := New(srv.URL, "testwallet/1.0", testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.GetWalletSyncData(context.Background(), nil, 0, 0, false)
	if err != nil {
		t.Fatalf("GetWalletSyncData: %v", err)
	}
	if len(calls) != 2 || calls[0] != "/getrawblocks" || calls[1] != "/getwalletsyncdata" {
		t.Fatalf("expected fallback from /getrawblocks to /getwalletsyncdata, got %v", calls)
	}

	calls = nil
	_, err = c.GetWalletSyncData(context.Background(), nil, 0, 0, false)
	if err != nil {
		t.Fatalf("GetWalletSyncData (second call): %v", err)
	}
	if len(calls) != 1 || calls[0] != "/getwalletsyncdata" {
		t.Fatalf("expected second call to go straight to legacy endpoint, got %v", calls)
	}
}

func TestSwapNodeResetsLegacyStickyFlag(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		if r.URL.Path == "/getrawblocks" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(SyncDataResult{})
	}))
	defer srv.Close()

	c, err := New(srv.URL, "testwallet/1.0", testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.GetWalletSyncData(context.Background(), nil, 0, 0, false); err != nil {
		t.Fatalf("GetWalletSyncData: %v", err)
	}

	c.SwapNode(srv.URL)
	calls = nil
	if _, err := c.GetWalletSyncData(context.Background(), nil, 0, 0, false); err != nil {
		t.Fatalf("GetWalletSyncData after swap: %v", err)
	}
	if len(calls) != 2 || calls[0] != "/getrawblocks" {
		t.Fatalf("expected SwapNode to reset the sticky legacy flag, got %v", calls)
	}
}

func TestGetGlobalIndexesForRangeCachesValidResponse(t *testing.T) {
	hits := 0
	hash := "00000000000000000000000000000000000000000000000000000000000001"
	// pad to exactly 64 hex chars
	for len(hash) < 64 {
		hash = "0" + hash
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		resp := map[string][]uint64{hash: {1, 2, 3}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "testwallet/1.0", testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first, err := c.GetGlobalIndexesForRange(context.Background(), 10, 20)
	if err != nil {
		t.Fatalf("GetGlobalIndexesForRange: %v", err)
	}
	second, err := c.GetGlobalIndexesForRange(context.Background(), 10, 20)
	if err != nil {
		t.Fatalf("GetGlobalIndexesForRange (cached): %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected exactly one HTTP call due to caching, got %d", hits)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("unexpected result shape: %v / %v", first, second)
	}
}

func TestSendRawTransactionDistinguishesRejectionFromTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sendRawTransactionResponse{Accepted: false, Error: "transaction too large"})
	}))
	defer srv.Close()

	c, err := New(srv.URL, "testwallet/1.0", testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	accepted, reason, err := c.SendRawTransaction(context.Background(), []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("expected no transport error, got %v", err)
	}
	if accepted {
		t.Fatalf("expected accepted=false")
	}
	if reason != "transaction too large" {
		t.Fatalf("expected rejection reason to be surfaced, got %q", reason)
	}
}

func TestCachedStatusNonBlockingBeforeFirstRefresh(t *testing.T) {
	c, err := New("http://127.0.0.1:1", "testwallet/1.0", testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	st := c.CachedStatus()
	if st.LocalHeight != 0 {
		t.Fatalf("expected zero-value status before first refresh, got %+v", st)
	}
}
