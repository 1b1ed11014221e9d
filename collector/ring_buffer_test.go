package collector_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/networkteam/shopcheck/collector"
)

func TestRingBuffer_Basic(t *testing.T) {
	rb := collector.NewRingBuffer[string](3)

	assert.Equal(t, 0, rb.Len())
	assert.Equal(t, 3, rb.Cap())
	assert.Empty(t, rb.All())

	rb.Add("home")
	assert.Equal(t, 1, rb.Len())
	assert.Equal(t, []string{"home"}, rb.Last(1))

	rb.Add("search")
	rb.Add("cart")
	assert.Equal(t, []string{"home", "search", "cart"}, rb.All())
	assert.Equal(t, uint64(0), rb.Dropped())
}

func TestRingBuffer_Overwrite(t *testing.T) {
	rb := collector.NewRingBuffer[string](3)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		rb.Add(s)
	}

	assert.Equal(t, 3, rb.Len())
	assert.Equal(t, []string{"c", "d", "e"}, rb.All())
	assert.Equal(t, []string{"d", "e"}, rb.Last(2))
	assert.Equal(t, uint64(2), rb.Dropped())
}

func TestRingBuffer_LastBounds(t *testing.T) {
	rb := collector.NewRingBuffer[int](5)
	rb.Add(1)
	rb.Add(2)

	assert.Equal(t, []int{1, 2}, rb.Last(10))
	assert.Empty(t, rb.Last(0))
	assert.Empty(t, rb.Last(-1))
}

func TestRingBuffer_ZeroCapacity(t *testing.T) {
	assert.Panics(t, func() {
		collector.NewRingBuffer[string](0)
	})
}

func TestRingBuffer_ConcurrentAdd(t *testing.T) {
	rb := collector.NewRingBuffer[int](50)

	var wg sync.WaitGroup
	for g := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				rb.Add(g*100 + i)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, rb.Len())
	assert.Equal(t, uint64(950), rb.Dropped())
}

func TestRingBuffer_KeepsNewestInOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 20).Draw(t, "capacity")
		values := rapid.SliceOf(rapid.Int()).Draw(t, "values")

		rb := collector.NewRingBuffer[int](capacity)
		for _, v := range values {
			rb.Add(v)
		}

		want := values
		if len(want) > capacity {
			want = want[len(want)-capacity:]
		}
		got := rb.All()
		if len(want) == 0 {
			assert.Empty(t, got)
			return
		}
		assert.Equal(t, want, got)
	})
}
