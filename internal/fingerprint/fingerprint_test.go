package fingerprint

import (
	"hash/maphash"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedSeedHasher_EqualContentEqualHash(t *testing.T) {
	seed := maphash.MakeSeed()
	h := NewFixedSeed(seed)

	a := h.Hash([]byte("hello"))
	b := h.Hash([]byte("hello"))
	assert.Equal(t, a, b)
}

func TestFixedSeedHasher_DifferentContentLikelyDifferentHash(t *testing.T) {
	seed := maphash.MakeSeed()
	h := NewFixedSeed(seed)

	a := h.Hash([]byte("hello"))
	b := h.Hash([]byte("world"))
	assert.NotEqual(t, a, b)
}

// B3: a zero-byte buffer is a valid input whose hash is computed over
// zero bytes, not treated specially.
func TestDefaultHasher_EmptyBuffer(t *testing.T) {
	h := NewDefault()
	assert.NotPanics(t, func() { h.Hash(nil) })
	assert.NotPanics(t, func() { h.Hash([]byte{}) })
}

func TestAuditor_NoCollisionForIdenticalContent(t *testing.T) {
	a := NewAuditor()
	a.Insert(Hash(1), []byte("same"))
	a.Insert(Hash(1), []byte("same"))

	summary := a.Summarize()
	assert.Equal(t, 0, summary.Collisions)
	assert.Equal(t, 1, summary.UniqueKeys)
	assert.Equal(t, 2, summary.TotalInserts)
}

func TestAuditor_CollisionForDifferentContentSameHash(t *testing.T) {
	a := NewAuditor()
	a.Insert(Hash(1), []byte("one"))
	a.Insert(Hash(1), []byte("two"))

	summary := a.Summarize()
	assert.Equal(t, 1, summary.Collisions)
	assert.Equal(t, "50.00%", summary.CollisionRatePercent())
}

// UniqueKeys and the rate denominator must come from the count of
// distinct byte contents seen, not TotalInserts: repeat insertion of
// content already recorded under its hash bumps TotalInserts without
// adding a new distinct content, and must not dilute the rate.
func TestAuditor_RateUsesDistinctContentsNotTotalInserts(t *testing.T) {
	a := NewAuditor()
	a.Insert(Hash(1), []byte("a"))
	a.Insert(Hash(1), []byte("a"))
	a.Insert(Hash(1), []byte("a"))
	a.Insert(Hash(1), []byte("b"))
	a.Insert(Hash(2), []byte("c"))

	summary := a.Summarize()
	assert.Equal(t, 5, summary.TotalInserts)
	assert.Equal(t, 3, summary.UniqueKeys)
	assert.Equal(t, 1, summary.Collisions)
	assert.Equal(t, "33.33%", summary.CollisionRatePercent())
}
