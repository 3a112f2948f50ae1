package detect

import (
	"sort"
	"time"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

// DuplicateGroup is one duplicate-transfer finding: the same content
// fingerprint arriving at the same destination device more than once.
type DuplicateGroup struct {
	Fingerprint uint64
	DestDevice  types.DeviceID
	Members     []*types.DataOp
	SubGroups   []DuplicateSubGroup
}

// DuplicateSubGroup is the presentation-layer histogram bucket over
// (src_device, code_loc) within a duplicate group, sorted by call count
// descending and truncated to sublistCap entries by Duplicates.
type DuplicateSubGroup struct {
	SrcDevice types.DeviceID
	CodeLoc   types.CodeLoc
	Calls     int
}

type duplicateKey struct {
	fingerprint uint64
	destDevice  types.DeviceID
}

// Duplicates finds groups of two or more transfers sharing a
// (fingerprint, dest_device) key. sublistCap bounds the number of
// sub-group rows kept per group for presentation.
func Duplicates(ops []*types.DataOp, sublistCap int) Ranked[*DuplicateGroup] {
	buckets := make(map[duplicateKey][]*types.DataOp)
	order := make([]duplicateKey, 0)

	for _, op := range ops {
		if !op.Kind.IsTransfer() {
			continue
		}
		key := duplicateKey{fingerprint: op.Fingerprint, destDevice: op.DestDevice}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], op)
	}

	var groups []*DuplicateGroup
	var totals []time.Duration
	for _, key := range order {
		members := buckets[key]
		if len(members) < 2 {
			continue
		}

		var total time.Duration
		sub := make(map[[2]uint64]int)
		subOrder := make([][2]uint64, 0)
		for _, m := range members {
			total += m.Duration()
			sk := [2]uint64{uint64(m.SrcDevice), uint64(m.CodeLoc)}
			if _, seen := sub[sk]; !seen {
				subOrder = append(subOrder, sk)
			}
			sub[sk]++
		}

		subGroups := make([]DuplicateSubGroup, 0, len(subOrder))
		for _, sk := range subOrder {
			subGroups = append(subGroups, DuplicateSubGroup{
				SrcDevice: types.DeviceID(sk[0]),
				CodeLoc:   types.CodeLoc(sk[1]),
				Calls:     sub[sk],
			})
		}
		sort.SliceStable(subGroups, func(i, j int) bool {
			return subGroups[i].Calls > subGroups[j].Calls
		})
		if sublistCap > 0 && len(subGroups) > sublistCap {
			subGroups = subGroups[:sublistCap]
		}

		groups = append(groups, &DuplicateGroup{
			Fingerprint: key.fingerprint,
			DestDevice:  key.destDevice,
			Members:     members,
			SubGroups:   subGroups,
		})
		totals = append(totals, total)
	}

	return NewRanked(totals, groups)
}
