package detect

import (
	"time"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

// RoundTripPair is one matched outbound/return leg.
type RoundTripPair struct {
	Outbound *types.DataOp // tx: content left device A for device B
	Return   *types.DataOp // rx: the same content came back to A
}

// RoundTripGroup is one round-trip-transfer finding: content that left
// device A for device B and was later transferred back from B to A.
type RoundTripGroup struct {
	Fingerprint uint64
	From        types.DeviceID // A
	To          types.DeviceID // B
	Pairs       []RoundTripPair
}

type destBucketKey struct {
	fingerprint uint64
	destDevice  types.DeviceID
}

type tripKey struct {
	fingerprint uint64
	from, to    types.DeviceID
}

// RoundTrips implements the front-of-deque matching algorithm: every
// transfer is indexed by (fingerprint, its own destination device); when a
// transfer tx (A -> B) is processed, the front of bucket (F, A) — transfers
// already destined for A — is its return leg, and tx is then removed from
// its own bucket (F, B) so it cannot be reused as the outbound leg of a
// different trip.
func RoundTrips(ops []*types.DataOp) Ranked[*RoundTripGroup] {
	buckets := make(map[destBucketKey][]*types.DataOp)
	for _, op := range ops {
		if !op.Kind.IsTransfer() {
			continue
		}
		key := destBucketKey{fingerprint: op.Fingerprint, destDevice: op.DestDevice}
		buckets[key] = append(buckets[key], op)
	}

	groupIndex := make(map[tripKey]*RoundTripGroup)
	var order []tripKey
	totalsByKey := make(map[tripKey]time.Duration)

	for _, tx := range ops {
		if !tx.Kind.IsTransfer() {
			continue
		}
		fromKey := destBucketKey{fingerprint: tx.Fingerprint, destDevice: tx.SrcDevice}
		front := buckets[fromKey]
		if len(front) == 0 {
			continue
		}
		rx := front[0]
		buckets[fromKey] = front[1:]

		ownKey := destBucketKey{fingerprint: tx.Fingerprint, destDevice: tx.DestDevice}
		removePointer(buckets, ownKey, tx)

		tk := tripKey{fingerprint: tx.Fingerprint, from: tx.SrcDevice, to: tx.DestDevice}
		g, ok := groupIndex[tk]
		if !ok {
			g = &RoundTripGroup{Fingerprint: tx.Fingerprint, From: tx.SrcDevice, To: tx.DestDevice}
			groupIndex[tk] = g
			order = append(order, tk)
		}
		g.Pairs = append(g.Pairs, RoundTripPair{Outbound: tx, Return: rx})
		totalsByKey[tk] += tx.Duration() + rx.Duration()
	}

	groups := make([]*RoundTripGroup, 0, len(order))
	totals := make([]time.Duration, 0, len(order))
	for _, tk := range order {
		groups = append(groups, groupIndex[tk])
		totals = append(totals, totalsByKey[tk])
	}
	return NewRanked(totals, groups)
}

func removePointer(buckets map[destBucketKey][]*types.DataOp, key destBucketKey, target *types.DataOp) {
	slice := buckets[key]
	for i, op := range slice {
		if op == target {
			buckets[key] = append(slice[:i], slice[i+1:]...)
			return
		}
	}
}
