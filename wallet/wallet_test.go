package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wrkzcoin/wrkzcoin-sub002/address"
	"github.com/wrkzcoin/wrkzcoin-sub002/composer"
	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
	"github.com/wrkzcoin/wrkzcoin-sub002/history"
	"github.com/wrkzcoin/wrkzcoin-sub002/nodeclient"
	"github.com/wrkzcoin/wrkzcoin-sub002/subwallet"
)

const testPrefix = 0x5810

// nodeStub is a minimal node server: enough endpoints for composing and
// submitting a transaction, grounded on composer_test.go's own
// per-endpoint httptest.Server wiring.
func nodeStub(t *testing.T, mixinCount int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/getrandom_outs", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Amounts []uint64 `json:"amounts"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		resp := make(map[uint64][]nodeclient.RawOutput)
		for _, amt := range req.Amounts {
			var outs []nodeclient.RawOutput
			for i := 0; i < mixinCount; i++ {
				_, pub := crypto.GenerateKeyPair()
				outs = append(outs, nodeclient.RawOutput{GlobalIndex: uint64(1000 + i), PublicKey: pub.Bytes()})
			}
			resp[amt] = outs
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/fee", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(nodeclient.FeeInfo{})
	})
	mux.HandleFunc("/sendrawtransaction", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"accepted": true})
	})
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"height": 1})
	})
	mux.HandleFunc("/getrawblocks", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(nodeclient.SyncDataResult{Synced: true})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig() Config {
	return Config{AddressPrefix: testPrefix, UserAgent: "test/1.0"}
}

// fundPrimary stores one large, unlocked, spendable input directly on
// w's primary subwallet, bypassing the sync engine (whose scan loop
// these tests do not exercise).
func fundPrimary(t *testing.T, w *Wallet, amount uint64) {
	t.Helper()
	w.Subwallets().Mu.Lock()
	defer w.Subwallets().Mu.Unlock()
	primary := w.Subwallets().Primary()
	require.NotNil(t, primary)
	_, ephemeralPub := crypto.GenerateKeyPair()
	keyImage := crypto.GenerateKeyImage(ephemeralPub, primary.PrivateSpendKey)
	primary.StoreTransactionInput(subwallet.TransactionInput{
		KeyImage:          keyImage,
		Amount:            amount,
		BlockHeight:       1,
		GlobalOutputIndex: 7,
		Key:               ephemeralPub,
		PrivateEphemeral:  primary.PrivateSpendKey,
	})
}

func TestCreateNewAndOpenRoundTrip(t *testing.T) {
	srv := nodeStub(t, 5)
	file := filepath.Join(t.TempDir(), "wallet.bin")

	w, phrase, err := CreateNew(file, "hunter2", srv.URL, testConfig())
	require.NoError(t, err)
	require.Len(t, phrase, 25)
	require.False(t, w.IsViewOnly())

	fundPrimary(t, w, 1000000)
	w.SyncStatus().RecordCommit([32]byte{9}, 100)
	w.History().AddConfirmed(history.Transaction{Hash: [32]byte{1, 2, 3}, BlockHeight: 50, Fee: 10})

	require.NoError(t, w.Save())

	reopened, err := Open(file, "hunter2", srv.URL, testConfig())
	require.NoError(t, err)

	reopened.Subwallets().Mu.RLock()
	primary := reopened.Subwallets().Primary()
	require.NotNil(t, primary)
	require.Equal(t, 1, primary.UnspentCount())
	unlocked, locked := primary.Balance(100, time.Now().Unix())
	reopened.Subwallets().Mu.RUnlock()
	require.Equal(t, uint64(1000000), unlocked)
	require.Equal(t, uint64(0), locked)

	require.Equal(t, uint64(100), reopened.SyncStatus().LastKnownHeight())

	all := reopened.History().All()
	require.Len(t, all, 1)
	require.Equal(t, [32]byte{1, 2, 3}, all[0].Hash)
}

func TestOpenWrongPasswordFails(t *testing.T) {
	srv := nodeStub(t, 5)
	file := filepath.Join(t.TempDir(), "wallet.bin")

	_, _, err := CreateNew(file, "correct-horse", srv.URL, testConfig())
	require.NoError(t, err)

	_, err = Open(file, "wrong-password", srv.URL, testConfig())
	require.Error(t, err)
}

func TestAddAndDeleteSubwallet(t *testing.T) {
	srv := nodeStub(t, 5)
	file := filepath.Join(t.TempDir(), "wallet.bin")

	w, _, err := CreateNew(file, "hunter2", srv.URL, testConfig())
	require.NoError(t, err)

	sub, err := w.AddSubwallet()
	require.NoError(t, err)
	require.False(t, sub.IsPrimary)
	require.Equal(t, uint64(1), sub.WalletIndex)

	w.Subwallets().Mu.RLock()
	require.Equal(t, 2, w.Subwallets().Len())
	primaryAddr := w.Subwallets().Primary().Address
	w.Subwallets().Mu.RUnlock()

	err = w.DeleteSubwallet(primaryAddr)
	require.ErrorIs(t, err, ErrPrimaryHasOtherSubwallets)

	require.NoError(t, w.DeleteSubwallet(sub.Address))
	w.Subwallets().Mu.RLock()
	require.Equal(t, 1, w.Subwallets().Len())
	w.Subwallets().Mu.RUnlock()

	err = w.DeleteSubwallet("not-a-real-address")
	require.ErrorIs(t, err, ErrUnknownSubwallet)

	require.NoError(t, w.DeleteSubwallet(primaryAddr))
	w.Subwallets().Mu.RLock()
	require.Equal(t, 0, w.Subwallets().Len())
	w.Subwallets().Mu.RUnlock()
}

func TestViewOnlyWalletCannotAddSubwallet(t *testing.T) {
	srv := nodeStub(t, 5)
	file := filepath.Join(t.TempDir(), "wallet.bin")

	viewSecret, viewPublic := crypto.GenerateKeyPair()
	_, spendPublic := crypto.GenerateKeyPair()
	addr := address.Encode(testPrefix, spendPublic, viewPublic)

	w, err := ImportViewOnly(viewSecret, addr, file, "hunter2", 0, 0, srv.URL, testConfig())
	require.NoError(t, err)
	require.True(t, w.IsViewOnly())

	_, err = w.AddSubwallet()
	require.ErrorIs(t, err, ErrViewOnlyWallet)
}

func TestPreparedTransactionSurvivesReopenAndSends(t *testing.T) {
	srv := nodeStub(t, 5)
	file := filepath.Join(t.TempDir(), "wallet.bin")
	ctx := context.Background()

	w, _, err := CreateNew(file, "hunter2", srv.URL, testConfig())
	require.NoError(t, err)
	fundPrimary(t, w, 2000000)
	w.SyncStatus().RecordCommit([32]byte{1}, 100)

	_, destSpend := crypto.GenerateKeyPair()
	_, destView := crypto.GenerateKeyPair()
	destAddr := address.Encode(testPrefix, destSpend, destView)

	fixedFee := uint64(1000)
	hash, err := w.Composer().SendAdvanced(ctx, composer.AdvancedParams{
		Destinations: []composer.Destination{{Address: destAddr, Amount: 500000}},
		Mixin:        3,
		Fee:          composer.FeeMode{Fixed: &fixedFee},
		SendNow:      false,
	})
	require.NoError(t, err)
	require.NotZero(t, hash)

	require.NoError(t, w.Save())

	reopened, err := Open(file, "hunter2", srv.URL, testConfig())
	require.NoError(t, err)

	sentHash, err := reopened.Composer().SendPrepared(ctx, hash)
	require.NoError(t, err)
	require.Equal(t, hash, sentHash)
}
