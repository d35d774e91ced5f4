package composer

import (
	"testing"

	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
)

func sampleTransaction() Transaction {
	_, ringKey := crypto.GenerateKeyPair()
	_, keyImage := crypto.GenerateKeyPair()
	_, outKey := crypto.GenerateKeyPair()
	return Transaction{
		Version:    1,
		UnlockTime: 0,
		Inputs: []TxInput{
			{
				Amount:              1000,
				RingAbsoluteIndices: []uint64{5, 9, 20},
				RingPubKeys:         []crypto.Point{ringKey, ringKey, ringKey},
				SignerIndex:         1,
				KeyImage:            keyImage,
			},
		},
		Outputs: []TxOutput{{Amount: 500, Key: outKey}},
		Extra:   []byte{0x01},
	}
}

func TestPrefixHashExcludesSignatures(t *testing.T) {
	tx := sampleTransaction()
	before := PrefixHash(tx)

	tx.Signatures = []crypto.RingSignature{{
		C: []crypto.Scalar{crypto.ScalarZero()},
		R: []crypto.Scalar{crypto.ScalarZero()},
	}}
	after := PrefixHash(tx)

	if before != after {
		t.Fatalf("PrefixHash must not depend on signatures")
	}
}

func TestHashChangesWithSignatures(t *testing.T) {
	tx := sampleTransaction()
	hashNoSig := Hash(tx)

	tx.Signatures = []crypto.RingSignature{{
		C: []crypto.Scalar{crypto.ScalarZero()},
		R: []crypto.Scalar{crypto.ScalarZero()},
	}}
	hashWithSig := Hash(tx)

	if hashNoSig == hashWithSig {
		t.Fatalf("Hash should change once signatures are attached")
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	tx := sampleTransaction()
	a := Encode(tx)
	b := Encode(tx)
	if len(a) != len(b) {
		t.Fatalf("Encode should be deterministic for the same transaction")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Encode should be byte-for-byte deterministic, differed at %d", i)
		}
	}
	if Size(tx) != uint64(len(a)) {
		t.Fatalf("Size should match len(Encode(tx))")
	}
}
