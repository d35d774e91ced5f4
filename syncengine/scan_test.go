package syncengine

import (
	"testing"

	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
	"github.com/wrkzcoin/wrkzcoin-sub002/nodeclient"
)

func TestScanBlockMatchesOwnedOutput(t *testing.T) {
	viewSecret, _ := crypto.GenerateKeyPair()
	_, spendPublic := crypto.GenerateKeyPair()
	_, txPublic := crypto.GenerateKeyPair()

	d := crypto.KeyDerivation(txPublic, viewSecret)
	outputKey := crypto.DerivePublicKey(d, 0, spendPublic)

	_, otherSpendPublic := crypto.GenerateKeyPair()

	block := nodeclient.RawBlock{
		Height: 10,
		Transactions: []nodeclient.RawTransaction{
			{
				Hash:        [32]byte{1},
				TxPublicKey: txPublic.Bytes(),
				Outputs:     [][32]byte{outputKey.Bytes()},
				Amounts:     []uint64{500},
			},
		},
	}

	targets := []subwalletScanTarget{
		{publicSpendKey: spendPublic.Bytes(), point: spendPublic},
		{publicSpendKey: otherSpendPublic.Bytes(), point: otherSpendPublic},
	}

	result := scanBlock(block, 7, viewSecret, true, targets)

	if len(result.candidates) != 1 {
		t.Fatalf("expected exactly 1 matching candidate, got %d", len(result.candidates))
	}
	cand := result.candidates[0]
	if cand.subwalletKey != spendPublic.Bytes() {
		t.Fatalf("expected the owning subwallet's key to be recorded")
	}
	if cand.amount != 500 {
		t.Fatalf("expected amount 500, got %d", cand.amount)
	}
	if result.arrivalIndex != 7 {
		t.Fatalf("expected arrival index to be threaded through, got %d", result.arrivalIndex)
	}
}

func TestScanBlockSkipsCoinbaseWhenRequested(t *testing.T) {
	viewSecret, _ := crypto.GenerateKeyPair()
	_, spendPublic := crypto.GenerateKeyPair()
	_, txPublic := crypto.GenerateKeyPair()

	d := crypto.KeyDerivation(txPublic, viewSecret)
	outputKey := crypto.DerivePublicKey(d, 0, spendPublic)

	block := nodeclient.RawBlock{
		Height: 1,
		CoinbaseTx: nodeclient.RawTransaction{
			Hash:        [32]byte{9},
			TxPublicKey: txPublic.Bytes(),
			Outputs:     [][32]byte{outputKey.Bytes()},
			Amounts:     []uint64{100},
		},
	}
	targets := []subwalletScanTarget{{publicSpendKey: spendPublic.Bytes(), point: spendPublic}}

	result := scanBlock(block, 0, viewSecret, true, targets)
	if len(result.candidates) != 0 {
		t.Fatalf("expected coinbase to be skipped, got %d candidates", len(result.candidates))
	}
}

func TestArrivalHeapOrdersByArrivalIndex(t *testing.T) {
	h := arrivalHeap{
		{arrivalIndex: 5},
		{arrivalIndex: 1},
		{arrivalIndex: 3},
	}
	if !h.Less(1, 0) {
		t.Fatalf("expected index 1 (arrival 1) to sort before index 0 (arrival 5)")
	}
}
