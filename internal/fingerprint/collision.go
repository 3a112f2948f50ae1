package fingerprint

import (
	"bytes"
	"fmt"
	"sync"
)

// Auditor maintains, per Hash, the set of byte-exact distinct contents
// observed under that hash. It exists to detect and report fingerprint
// collisions; enabling it costs an owned copy of every inserted buffer.
type Auditor struct {
	mu      sync.Mutex
	entries map[Hash][][]byte
	total   int
}

// NewAuditor returns an empty collision auditor.
func NewAuditor() *Auditor {
	return &Auditor{entries: make(map[Hash][][]byte)}
}

// Insert records that data was observed under h. If data is a new byte
// pattern under h (not byte-equal to anything already recorded there), an
// owned copy is stored. Safe for concurrent use during capture.
func (a *Auditor) Insert(h Hash, data []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	for _, existing := range a.entries[h] {
		if bytes.Equal(existing, data) {
			return
		}
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	a.entries[h] = append(a.entries[h], cp)
}

// Summary reports the collision count (distinct contents minus hash
// buckets) and UniqueKeys, the total count of distinct byte-exact
// contents seen across every hash bucket (not the count of hash values,
// and not TotalInserts, which also counts repeat insertions of content
// already recorded under its hash).
type Summary struct {
	Collisions   int
	UniqueKeys   int
	TotalInserts int
}

// Summarize computes the audit summary and releases the owned buffer
// copies. Call once, at shutdown.
func (a *Auditor) Summarize() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	hashBuckets := len(a.entries)
	distinctContents := 0
	for _, variants := range a.entries {
		distinctContents += len(variants)
	}
	s := Summary{
		Collisions:   distinctContents - hashBuckets,
		UniqueKeys:   distinctContents,
		TotalInserts: a.total,
	}
	a.entries = make(map[Hash][][]byte)
	return s
}

// CollisionRatePercent renders the collision rate to two decimal places,
// matching the report's percent formatting convention.
func (s Summary) CollisionRatePercent() string {
	if s.UniqueKeys == 0 {
		return "0.00%"
	}
	rate := float64(s.Collisions) / float64(s.UniqueKeys) * 100
	return fmt.Sprintf("%.2f%%", rate)
}
