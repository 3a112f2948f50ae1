package codeloc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

func TestProfiler_GroupsByCodeLocAndKind(t *testing.T) {
	p := New()
	p.Update(&types.DataOp{Kind: types.OpAlloc, CodeLoc: 0x1, Bytes: 10, StartTime: 0, EndTime: 5})
	p.Update(&types.DataOp{Kind: types.OpAlloc, CodeLoc: 0x1, Bytes: 20, StartTime: 10, EndTime: 12})
	p.Update(&types.DataOp{Kind: types.OpDelete, CodeLoc: 0x1, Bytes: 10, StartTime: 20, EndTime: 21})

	groups := p.Flush(0)
	require.Len(t, groups, 2)

	var allocGroup Group
	for _, g := range groups {
		if g.Kind == types.OpAlloc {
			allocGroup = g
		}
	}
	assert.Equal(t, uint64(2), allocGroup.Calls)
	assert.Equal(t, 7*time.Nanosecond, allocGroup.Total)
	assert.Equal(t, 2*time.Nanosecond, allocGroup.Min)
	assert.Equal(t, 5*time.Nanosecond, allocGroup.Max)
	assert.Equal(t, uint64(30), allocGroup.Bytes)
}

func TestProfiler_RankedDescendingAndCapped(t *testing.T) {
	p := New()
	p.Update(&types.DataOp{Kind: types.OpAlloc, CodeLoc: 0x1, StartTime: 0, EndTime: 1})
	p.Update(&types.DataOp{Kind: types.OpAlloc, CodeLoc: 0x2, StartTime: 0, EndTime: 100})

	groups := p.Flush(1)
	require.Len(t, groups, 1)
	assert.Equal(t, types.CodeLoc(0x2), groups[0].CodeLoc)
}
