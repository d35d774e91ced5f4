package composer

import "testing"

func TestMixinBoundsAcrossHeights(t *testing.T) {
	cases := []struct {
		height         uint64
		min, max, def uint64
	}{
		{0, 0, ^uint64(0), 3},
		{mixinLimitsV1Height, 0, 30, 3},
		{mixinLimitsV2Height, 3, 7, 3},
		{mixinLimitsV3Height, 0, 7, 3},
		{mixinLimitsV4Height, 1, 3, 3},
		{mixinLimitsV5Height, 1, 1, 1},
		{mixinLimitsV5Height + 1000000, 1, 1, 1},
	}
	for _, tc := range cases {
		min, max, def := MixinBounds(tc.height)
		if min != tc.min || max != tc.max || def != tc.def {
			t.Errorf("MixinBounds(%d) = (%d,%d,%d), want (%d,%d,%d)", tc.height, min, max, def, tc.min, tc.max, tc.def)
		}
	}
}
