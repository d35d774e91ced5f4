package composer

import "testing"

func TestMinFeeStepsAtV1Height(t *testing.T) {
	if got := MinFee(feeV1Height - 1); got != feeV0 {
		t.Errorf("MinFee(before v1) = %d, want %d", got, feeV0)
	}
	if got := MinFee(feeV1Height); got != feeV1 {
		t.Errorf("MinFee(at v1) = %d, want %d", got, feeV1)
	}
}

func TestMinFeePerByteChunkStepsAtV1Height(t *testing.T) {
	chunk, perByte := MinFeePerByteChunk(feePerByteV1Height - 1)
	if chunk != feePerByteChunkV0 || perByte != feePerByteV0 {
		t.Errorf("MinFeePerByteChunk(before v1) = (%d,%v), want (%d,%v)", chunk, perByte, feePerByteChunkV0, feePerByteV0)
	}
	chunk, perByte = MinFeePerByteChunk(feePerByteV1Height)
	if chunk != feePerByteChunkV1 || perByte != feePerByteV1 {
		t.Errorf("MinFeePerByteChunk(at v1) = (%d,%v), want (%d,%v)", chunk, perByte, feePerByteChunkV1, feePerByteV1)
	}
}

func TestMinFeeForSizeIsFloorNotFlat(t *testing.T) {
	flat := MinFee(0)
	if got := MinFeeForSize(0, 1); got < flat {
		t.Errorf("MinFeeForSize never goes below the flat minimum, got %d < %d", got, flat)
	}
	small := MinFeeForSize(0, 1)
	large := MinFeeForSize(0, 10000)
	if large <= small {
		t.Errorf("MinFeeForSize should grow with size, got large=%d <= small=%d", large, small)
	}
}

func TestMaxTxSizeGrowsWithHeightAndIsCapped(t *testing.T) {
	early := MaxTxSize(0)
	later := MaxTxSize(1000000)
	capped := MaxTxSize(1000000000)

	if later <= early {
		t.Errorf("MaxTxSize should grow with height, got later=%d <= early=%d", later, early)
	}
	if capped != maxTxSizeCeiling-coinbaseBlobReservedSize {
		t.Errorf("MaxTxSize should saturate at the ceiling minus reserved coinbase space, got %d", capped)
	}
}

func TestMaxExtraSizeStepsAtV2Height(t *testing.T) {
	if got := MaxExtraSize(maxExtraSizeV2Height - 1); got != 140000 {
		t.Errorf("MaxExtraSize(before v2) = %d, want 140000", got)
	}
	if got := MaxExtraSize(maxExtraSizeV2Height); got != 1024 {
		t.Errorf("MaxExtraSize(at v2) = %d, want 1024", got)
	}
}
