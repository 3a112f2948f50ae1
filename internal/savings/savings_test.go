package savings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lmarzen/ompdataperf/internal/detect"
	"github.com/lmarzen/ompdataperf/pkg/types"
)

func transfer(fp uint64, dest types.DeviceID, bytes uint64, start, end time.Duration) *types.DataOp {
	return &types.DataOp{Kind: types.OpTransferToDevice, Fingerprint: fp, DestDevice: dest, Bytes: bytes, StartTime: start, EndTime: end}
}

// Scenario 1: of two duplicate transfers, savings credits only the
// second one (8ns, 4 bytes) as avoidable (§8 end-to-end scenario 1).
func TestAggregate_DuplicateCreditsAllButFirst(t *testing.T) {
	first := transfer(1, 0, 4, 0, 10)
	second := transfer(1, 0, 4, 20, 28)

	dup := detect.Duplicates([]*types.DataOp{first, second}, 8)
	empty := detect.Ranked[*detect.RoundTripGroup]{}
	emptyRA := detect.Ranked[*detect.RepeatedAllocGroup]{}
	emptyUA := detect.Ranked[*detect.UnusedAllocGroup]{}
	emptyUT := detect.Ranked[*detect.UnusedTransferGroup]{}

	result := Aggregate(dup, empty, emptyRA, emptyUA, emptyUT, 100)

	assert.Equal(t, 8*time.Nanosecond, result.TotalTime)
	assert.Equal(t, uint64(4), result.TransferBytes)
	assert.Equal(t, 1, result.TransferCalls)
}

// I4: the avoidable-op set contains each op identity at most once, even
// if the same op would be credited by more than one category.
func TestAggregate_DeduplicatesByIdentity(t *testing.T) {
	a := transfer(1, 0, 4, 0, 10)
	b := transfer(1, 0, 4, 20, 28)
	dup := detect.Duplicates([]*types.DataOp{a, b}, 8)

	empty := detect.Ranked[*detect.RoundTripGroup]{}
	emptyRA := detect.Ranked[*detect.RepeatedAllocGroup]{}
	emptyUA := detect.Ranked[*detect.UnusedAllocGroup]{}
	// With no device regions, b is also an unused transfer, so both the
	// duplicate and the unused-transfer categories credit it.
	ut := detect.UnusedTransfers([]*types.DataOp{b}, map[types.DeviceID][]types.TargetRegion{})

	result := Aggregate(dup, empty, emptyRA, emptyUA, ut, 100)
	assert.Equal(t, 1, result.TransferCalls)
}
