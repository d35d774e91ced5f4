package composer

import (
	"context"
	"sort"

	"github.com/NebulousLabs/fastrand"

	"github.com/wrkzcoin/wrkzcoin-sub002/crypto"
	"github.com/wrkzcoin/wrkzcoin-sub002/nodeclient"
	"github.com/wrkzcoin/wrkzcoin-sub002/walleterrors"
)

// ringMember is one candidate output for a ring, before the real entry
// and decoys are merged and sorted.
type ringMember struct {
	globalIndex uint64
	key         crypto.Point
}

// buildRing fetches mixin decoys at the real output's amount, dedupes
// them against each other and against the real output, inserts the real
// output at a uniformly random position, and sorts the result ascending
// by global_output_index per spec §4.7.
func buildRing(ctx context.Context, client *nodeclient.Client, amount uint64, realIndex uint64, realKey crypto.Point, mixin uint64) (indices []uint64, keys []crypto.Point, signerIndex int, err error) {
	if mixin == 0 {
		return []uint64{realIndex}, []crypto.Point{realKey}, 0, nil
	}

	decoyResp, err := client.GetRandomOuts(ctx, []uint64{amount}, int(mixin))
	if err != nil {
		return nil, nil, 0, err
	}

	seen := map[uint64]bool{realIndex: true}
	var decoys []ringMember
	for _, out := range decoyResp[amount] {
		if seen[out.GlobalIndex] {
			continue
		}
		seen[out.GlobalIndex] = true
		decoys = append(decoys, ringMember{globalIndex: out.GlobalIndex, key: mustPoint(out.PublicKey)})
		if uint64(len(decoys)) == mixin {
			break
		}
	}
	if uint64(len(decoys)) < mixin {
		return nil, nil, 0, walleterrors.NodeProtocol("composer.buildRing", ErrNotEnoughOutputs)
	}

	members := make([]ringMember, 0, mixin+1)
	members = append(members, decoys...)
	pos := fastrand.Intn(len(members) + 1)
	members = append(members, ringMember{})
	copy(members[pos+1:], members[pos:])
	members[pos] = ringMember{globalIndex: realIndex, key: realKey}

	sort.Slice(members, func(i, j int) bool { return members[i].globalIndex < members[j].globalIndex })

	indices = make([]uint64, len(members))
	keys = make([]crypto.Point, len(members))
	for i, m := range members {
		indices[i] = m.globalIndex
		keys[i] = m.key
		if m.globalIndex == realIndex {
			signerIndex = i
		}
	}
	return indices, keys, signerIndex, nil
}

func mustPoint(b [32]byte) crypto.Point {
	p, err := crypto.PointFromBytes(b)
	if err != nil {
		return crypto.PointIdentity()
	}
	return p
}
