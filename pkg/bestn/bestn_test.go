package bestn

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferFillsUpToCapacity(t *testing.T) {
	r := New(3)
	r.Offer(0, 5.0)
	r.Offer(1, 1.0)
	r.Offer(2, 3.0)

	entries := r.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []Entry{{1, 1.0}, {2, 3.0}, {0, 5.0}}, entries)
}

func TestOfferRejectsWorseThanFullRegister(t *testing.T) {
	r := New(2)
	r.Offer(0, 1.0)
	r.Offer(1, 2.0)
	r.Offer(2, 5.0) // worse than both, rejected

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 1.0, entries[0].Error)
	assert.Equal(t, 2.0, entries[1].Error)
}

func TestOfferReplacesWorstWhenBetter(t *testing.T) {
	r := New(2)
	r.Offer(0, 1.0)
	r.Offer(1, 5.0)
	r.Offer(2, 2.0) // better than the current worst (5.0), bumps it out

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{0, 1.0}, entries[0])
	assert.Equal(t, Entry{2, 2.0}, entries[1])
}

func TestMergeCombinesTwoRegistersWithinCapacity(t *testing.T) {
	a := New(2)
	a.Offer(0, 1.0)
	a.Offer(1, 4.0)

	b := New(2)
	b.Offer(10, 2.0)
	b.Offer(11, 0.5)

	a.Merge(b)

	entries := a.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{11, 0.5}, entries[0])
	assert.Equal(t, Entry{0, 1.0}, entries[1])
}

func TestOfferIsSafeForConcurrentUse(t *testing.T) {
	r := New(5)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Offer(i, float64(i))
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, r.Len())
	entries := r.Entries()
	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, entries[i-1].Error, entries[i].Error)
	}
}
