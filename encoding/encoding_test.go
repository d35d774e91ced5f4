package encoding

import (
	"bytes"
	"testing"

	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
)

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 16384, 1 << 40, ^uint64(0)}
	for _, v := range values {
		var buf bytes.Buffer
		if err := WriteVarint(&buf, v); err != nil {
			t.Fatalf("WriteVarint(%d): %v", v, err)
		}
		if buf.Len() != VarintSize(v) {
			t.Fatalf("VarintSize(%d) = %d, actual encoded length %d", v, VarintSize(v), buf.Len())
		}
		got, err := ReadVarint(&buf)
		if err != nil {
			t.Fatalf("ReadVarint(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("varint round-trip: got %d, want %d", got, v)
		}
	}
}

func TestRelativeIndicesRoundTrip(t *testing.T) {
	absolute := []uint64{5, 5, 12, 12, 100, 9999}
	relative := EncodeRelativeIndices(absolute)
	if relative[0] != 5 || relative[1] != 0 || relative[2] != 7 {
		t.Fatalf("unexpected relative encoding: %v", relative)
	}
	back := DecodeRelativeIndices(relative)
	if len(back) != len(absolute) {
		t.Fatalf("length mismatch")
	}
	for i := range absolute {
		if back[i] != absolute[i] {
			t.Fatalf("index %d: got %d want %d", i, back[i], absolute[i])
		}
	}
}

func TestWriteReadRelativeIndices(t *testing.T) {
	absolute := []uint64{3, 10, 10, 4000}
	var buf bytes.Buffer
	if err := WriteRelativeIndices(&buf, absolute); err != nil {
		t.Fatalf("WriteRelativeIndices: %v", err)
	}
	r := bytes.NewReader(buf.Bytes())
	back, err := ReadRelativeIndices(r)
	if err != nil {
		t.Fatalf("ReadRelativeIndices: %v", err)
	}
	for i := range absolute {
		if back[i] != absolute[i] {
			t.Fatalf("index %d: got %d want %d", i, back[i], absolute[i])
		}
	}
}

func TestExtraEncodeDecodeRoundTrip(t *testing.T) {
	_, pk := crypto.GenerateKeyPair()
	e := Extra{
		TxPublicKey:  pk,
		HasPaymentID: true,
	}
	e.PaymentID[0] = 0xab

	raw, err := EncodeExtra(e, MaxExtraSizeV1)
	if err != nil {
		t.Fatalf("EncodeExtra: %v", err)
	}

	decoded, err := DecodeExtra(raw, MaxExtraSizeV1)
	if err != nil {
		t.Fatalf("DecodeExtra: %v", err)
	}
	if !decoded.TxPublicKey.Equal(pk) {
		t.Fatalf("decoded tx public key mismatch")
	}
	if !decoded.HasPaymentID || decoded.PaymentID != e.PaymentID {
		t.Fatalf("decoded payment id mismatch")
	}
}

func TestExtraRejectsOversize(t *testing.T) {
	_, pk := crypto.GenerateKeyPair()
	e := Extra{TxPublicKey: pk, Data: make([]byte, 2000)}
	_, err := EncodeExtra(e, MaxExtraSizeV2)
	if err != ErrExtraTooLarge {
		t.Fatalf("got err=%v, want ErrExtraTooLarge", err)
	}
}
