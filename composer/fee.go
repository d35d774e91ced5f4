package composer

import "github.com/wrkzcoin/wrkzcoin-sub002/encoding"

// Fee and size parameters, extracted from
// original_source/src/config/CryptoNoteConfig.h. These gate both the
// node's minimum-fee consensus rule and the composer's own preflight
// check against invariant 9 (fee >= max(min_fee(h), ceil(S/chunk)*perByte(h))).
const (
	feeV0 = 5
	feeV1 = 50000

	feeV1Height = 678500

	feePerByteChunkV0 = 256
	feePerByteV0      = 500.0 / 256.0

	feePerByteChunkV1 = 128
	feePerByteV1      = 10.0 / 128.0
	feePerByteV1Height = 1500000

	maxBlockSizeInitial          = 100000
	maxBlockSizeGrowthSpeedNumer = 100 * 1024
	maxBlockSizeGrowthSpeedDenom = 365 * 24 * 60 * 60 / 60
	coinbaseBlobReservedSize     = 600
	maxTxSizeCeiling             = 125000

	// MaxOutputSizeClient bounds a single pretty-denomination output;
	// it is itself already a pretty denomination, which makes it a
	// convenient chunk size when an oversized piece must be split
	// further (spec §4.7 invariant 8).
	MaxOutputSizeClient = 500000000000

	// FusionTxMinInputCount, FusionTxMinInOutRatio and FusionTxMaxSize
	// gate what qualifies as a zero-fee fusion transaction (spec §4.7).
	FusionTxMinInputCount = 12
	FusionTxMinInOutRatio = 4
	FusionTxMaxSize        = 30000

	// maxExtraSizeV2Height is the height at or after which the tighter
	// MaxExtraSizeV2 bound applies to a transaction's extra field.
	maxExtraSizeV2Height = 543000
)

// MaxExtraSize returns the maximum encoded size of a transaction's extra
// field at the given height.
func MaxExtraSize(height uint64) int {
	if height >= maxExtraSizeV2Height {
		return encoding.MaxExtraSizeV2
	}
	return encoding.MaxExtraSizeV1
}

// MinFee returns the flat minimum fee enforced at the given height.
func MinFee(height uint64) uint64 {
	if height >= feeV1Height {
		return feeV1
	}
	return feeV0
}

// MinFeePerByteChunk returns the chunk size and per-byte fee rate in
// effect at the given height, used to compute the size-proportional
// minimum fee for transactions larger than a single chunk.
func MinFeePerByteChunk(height uint64) (chunkSize uint64, perByte float64) {
	if height >= feePerByteV1Height {
		return feePerByteChunkV1, feePerByteV1
	}
	return feePerByteChunkV0, feePerByteV0
}

// MinFeeForSize returns the minimum fee required for a transaction of
// byteSize bytes at the given height, satisfying invariant 9.
func MinFeeForSize(height uint64, byteSize uint64) uint64 {
	flat := MinFee(height)
	chunk, perByte := MinFeePerByteChunk(height)
	chunks := (byteSize + chunk - 1) / chunk
	sized := uint64(float64(chunks) * perByte * float64(chunk))
	if sized > flat {
		return sized
	}
	return flat
}

// MaxTxSize returns the largest transaction blob size permitted at the
// given height, per the GLOSSARY's max_tx_size(h) formula.
func MaxTxSize(height uint64) uint64 {
	grown := maxBlockSizeInitial + height*maxBlockSizeGrowthSpeedNumer/maxBlockSizeGrowthSpeedDenom
	limit := grown
	if limit > maxTxSizeCeiling {
		limit = maxTxSizeCeiling
	}
	if limit <= coinbaseBlobReservedSize {
		return 0
	}
	return limit - coinbaseBlobReservedSize
}
