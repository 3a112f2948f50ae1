package detect

import (
	"time"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

// UnusedTransferGroup is one unused-transfer finding: a transfer whose
// payload was never consumed by a subsequent device-execution region
// before another transfer to the same host address superseded it.
type UnusedTransferGroup struct {
	SrcAddr types.Addr
	Device  types.DeviceID
	Bytes   uint64
	Members []*types.DataOp
}

type unusedTransferKey struct {
	addr   types.Addr
	device types.DeviceID
	bytes  uint64
}

// UnusedTransfers walks, per device, that device's inbound transfers in
// chronological order against a cursor over its target-region log,
// applying the candidate-supersession rule: a transfer landing in a gap
// before any device use becomes a candidate; a later transfer to the same
// source address supersedes (and confirms unused) the prior candidate; a
// transfer landing inside or straddling a region clears all candidates as
// presumed consumed.
func UnusedTransfers(ops []*types.DataOp, regionsByDevice map[types.DeviceID][]types.TargetRegion) Ranked[*UnusedTransferGroup] {
	byDevice := make(map[types.DeviceID][]*types.DataOp)
	var deviceOrder []types.DeviceID
	for _, op := range ops {
		if !op.Kind.IsTransfer() {
			continue
		}
		d := op.DestDevice
		if _, seen := byDevice[d]; !seen {
			deviceOrder = append(deviceOrder, d)
		}
		byDevice[d] = append(byDevice[d], op)
	}

	buckets := make(map[unusedTransferKey][]*types.DataOp)
	var order []unusedTransferKey

	record := func(t *types.DataOp) {
		key := unusedTransferKey{addr: t.SrcAddr, device: t.DestDevice, bytes: t.Bytes}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], t)
	}

	for _, device := range deviceOrder {
		transfers := byDevice[device]
		regions := regionsByDevice[device]
		cursor := 0
		candidates := make(map[types.Addr]*types.DataOp)

		for _, t := range transfers {
			for cursor < len(regions) && regions[cursor].EndTime < t.StartTime {
				cursor++
			}

			switch {
			case cursor >= len(regions):
				record(t)

			case regions[cursor].StartTime > t.StartTime:
				if prior, ok := candidates[t.SrcAddr]; ok {
					record(prior)
				}
				candidates[t.SrcAddr] = t

			default:
				candidates = make(map[types.Addr]*types.DataOp)
			}
		}
	}

	var groups []*UnusedTransferGroup
	var totals []time.Duration
	for _, key := range order {
		members := buckets[key]
		var total time.Duration
		for _, m := range members {
			total += m.Duration()
		}
		groups = append(groups, &UnusedTransferGroup{
			SrcAddr: key.addr,
			Device:  key.device,
			Bytes:   key.bytes,
			Members: members,
		})
		totals = append(totals, total)
	}
	return NewRanked(totals, groups)
}
