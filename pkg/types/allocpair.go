package types

import "time"

// AllocationPair links an alloc-kind DataOp with the delete-kind DataOp
// that later frees it. Both fields point into an event log's backing
// storage and must never be mutated through this type.
type AllocationPair struct {
	Alloc  *DataOp
	Delete *DataOp
}

// Duration returns the elapsed times of the alloc and delete legs, in that
// order.
func (p *AllocationPair) Duration() (time.Duration, time.Duration) {
	return p.Alloc.Duration(), p.Delete.Duration()
}
