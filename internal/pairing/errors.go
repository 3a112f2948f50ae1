package pairing

import (
	"fmt"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

// UnmatchedDeleteError reports a delete op with no corresponding live
// allocation; recoverable, the op is skipped.
type UnmatchedDeleteError struct {
	Op *types.DataOp
}

func (e *UnmatchedDeleteError) Error() string {
	return fmt.Sprintf("pairing: delete at %v has no matching allocation (addr=%v device=%v)",
		e.Op.StartTime, e.Op.SrcAddr, e.Op.SrcDevice)
}

// UnmatchedAllocError reports an allocation still live at end-of-run;
// recoverable, the op is excluded from detectors requiring closed
// lifetimes.
type UnmatchedAllocError struct {
	Op *types.DataOp
}

func (e *UnmatchedAllocError) Error() string {
	return fmt.Sprintf("pairing: allocation at %v was never freed (addr=%v device=%v bytes=%d)",
		e.Op.StartTime, e.Op.DestAddr, e.Op.DestDevice, e.Op.Bytes)
}
