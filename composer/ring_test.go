package composer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
	"github.com/wrkzcoin/wrkzcoin-sub002/nodeclient"
)

func TestBuildRingZeroMixinReturnsOnlyTheRealOutput(t *testing.T) {
	_, realKey := crypto.GenerateKeyPair()
	indices, keys, signerIndex, err := buildRing(context.Background(), nil, 1000, 7, realKey, 0)
	if err != nil {
		t.Fatalf("buildRing: %v", err)
	}
	if len(indices) != 1 || indices[0] != 7 {
		t.Fatalf("expected the single real index 7, got %v", indices)
	}
	if len(keys) != 1 || signerIndex != 0 {
		t.Fatalf("expected a single-member ring with signerIndex 0, got keys=%v signerIndex=%d", keys, signerIndex)
	}
}

func TestBuildRingSortsAscendingAndLocatesSigner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[uint64][]nodeclient.RawOutput{
			1000: {
				{GlobalIndex: 50, PublicKey: mustKeyBytes()},
				{GlobalIndex: 10, PublicKey: mustKeyBytes()},
				{GlobalIndex: 30, PublicKey: mustKeyBytes()},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := nodeclient.New(srv.URL, "test/1.0", testLogger())
	if err != nil {
		t.Fatalf("nodeclient.New: %v", err)
	}

	_, realKey := crypto.GenerateKeyPair()
	indices, keys, signerIndex, err := buildRing(context.Background(), client, 1000, 20, realKey, 3)
	if err != nil {
		t.Fatalf("buildRing: %v", err)
	}
	if len(indices) != 4 || len(keys) != 4 {
		t.Fatalf("expected a 4-member ring, got %d indices / %d keys", len(indices), len(keys))
	}
	for i := 1; i < len(indices); i++ {
		if indices[i] <= indices[i-1] {
			t.Fatalf("expected strictly ascending global indices, got %v", indices)
		}
	}
	if indices[signerIndex] != 20 {
		t.Fatalf("expected signerIndex to point at the real output (20), got index %d at position %d", indices[signerIndex], signerIndex)
	}
}

func TestBuildRingErrorsWhenNotEnoughDecoys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[uint64][]nodeclient.RawOutput{
			1000: {{GlobalIndex: 50, PublicKey: mustKeyBytes()}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := nodeclient.New(srv.URL, "test/1.0", testLogger())
	if err != nil {
		t.Fatalf("nodeclient.New: %v", err)
	}

	_, realKey := crypto.GenerateKeyPair()
	_, _, _, err = buildRing(context.Background(), client, 1000, 20, realKey, 5)
	if err == nil {
		t.Fatalf("expected ErrNotEnoughOutputs when the node returns fewer decoys than requested")
	}
}

func mustKeyBytes() [32]byte {
	_, pub := crypto.GenerateKeyPair()
	return pub.Bytes()
}
