package composer

// Mixin limits, per spec §4.7 invariant 3's min_mixin(height)/max_mixin(height),
// pinned to the historical step function in
// original_source/src/utilities/Mixins.cpp: the mixin bounds enforced by
// consensus tighten at successive fork heights, and a block formed under an
// older rule must still validate against the rule in force when it was
// mined, not the current one.
const (
	mixinLimitsV1Height = 10000
	mixinLimitsV2Height = 302400
	mixinLimitsV3Height = 430000
	mixinLimitsV4Height = 658500
	mixinLimitsV5Height = 1000000

	defaultMixinV0 = 3
)

// MixinBounds returns the (min, max, default) mixin allowed for a
// transaction formed at the given height, matching
// Utilities::getMixinAllowableRange in the original source bit-for-bit
// (down to evaluating the highest-height bucket first).
func MixinBounds(height uint64) (min, max, def uint64) {
	switch {
	case height >= mixinLimitsV5Height:
		return 1, 1, 1
	case height >= mixinLimitsV4Height:
		return 1, 3, 3
	case height >= mixinLimitsV3Height:
		return 0, 7, 3
	case height >= mixinLimitsV2Height:
		return 3, 7, 3
	case height >= mixinLimitsV1Height:
		return 0, 30, 3
	default:
		return 0, ^uint64(0), defaultMixinV0
	}
}
