package eventlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

// I1: after normalization, adjacent entries are ordered lexicographically
// by (start_time, end_time).
func TestDataOpLog_NormalizeOrdersByStartThenEnd(t *testing.T) {
	var log DataOpLog
	log.Append(types.DataOp{StartTime: 10, EndTime: 12})
	log.Append(types.DataOp{StartTime: 5, EndTime: 9})
	log.Append(types.DataOp{StartTime: 5, EndTime: 6})

	log.Normalize()
	ops := log.Snapshot()
	require.Len(t, ops, 3)
	assert.Equal(t, [2]int64{5, 6}, [2]int64{int64(ops[0].StartTime), int64(ops[0].EndTime)})
	assert.Equal(t, [2]int64{5, 9}, [2]int64{int64(ops[1].StartTime), int64(ops[1].EndTime)})
	assert.Equal(t, [2]int64{10, 12}, [2]int64{int64(ops[2].StartTime), int64(ops[2].EndTime)})
}

// L1: sorting an already-sorted log is a no-op.
func TestDataOpLog_NormalizeIsIdempotent(t *testing.T) {
	var log DataOpLog
	log.Append(types.DataOp{StartTime: 1, EndTime: 2})
	log.Append(types.DataOp{StartTime: 3, EndTime: 4})

	log.Normalize()
	before := log.Snapshot()

	log.Normalize()
	after := log.Snapshot()

	assert.Equal(t, before, after)
}

func TestDataOpLog_NormalizeStableOnTies(t *testing.T) {
	var log DataOpLog
	log.Append(types.DataOp{StartTime: 1, EndTime: 1, Bytes: 1})
	log.Append(types.DataOp{StartTime: 1, EndTime: 1, Bytes: 2})

	log.Normalize()
	ops := log.Snapshot()
	require.Len(t, ops, 2)
	assert.Equal(t, uint64(1), ops[0].Bytes)
	assert.Equal(t, uint64(2), ops[1].Bytes)
}

func TestTargetRegionLog_ByDeviceBuckets(t *testing.T) {
	var log TargetRegionLog
	log.Append(types.TargetRegion{Device: 0, StartTime: 0, EndTime: 1})
	log.Append(types.TargetRegion{Device: 1, StartTime: 2, EndTime: 3})
	log.Append(types.TargetRegion{Device: 0, StartTime: 4, EndTime: 5})

	log.Normalize()
	byDevice := log.ByDevice()
	assert.Len(t, byDevice[0], 2)
	assert.Len(t, byDevice[1], 1)
}
