package bench

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConcurrentHistogramPutGet(t *testing.T) {
	h := NewConcurrentHistogram[string]()
	h.Put("NEW_ORDER", 3)
	h.Put("NEW_ORDER", 2)
	h.Put("PAYMENT", 1)

	require.EqualValues(t, 5, h.Get("NEW_ORDER"))
	require.EqualValues(t, 1, h.Get("PAYMENT"))
	require.EqualValues(t, 0, h.Get("DELIVERY"))
	require.EqualValues(t, 6, h.Total())
}

func TestConcurrentHistogramZeroKeyIgnored(t *testing.T) {
	h := NewConcurrentHistogram[string]()
	h.Put("", 10)
	require.EqualValues(t, 0, h.Get(""))
	require.Empty(t, h.Keys())
}

// merge(H1, H2).Get(k) == H1.Get(k) + H2.Get(k), the histogram merge law.
func TestConcurrentHistogramMerge(t *testing.T) {
	h1 := NewConcurrentHistogram[string]()
	h1.Put("NEW_ORDER", 4)
	h1.Put("PAYMENT", 2)

	h2 := NewConcurrentHistogram[string]()
	h2.Put("NEW_ORDER", 6)
	h2.Put("DELIVERY", 9)

	h1.Merge(h2)

	require.EqualValues(t, 10, h1.Get("NEW_ORDER"))
	require.EqualValues(t, 2, h1.Get("PAYMENT"))
	require.EqualValues(t, 9, h1.Get("DELIVERY"))
}

func TestConcurrentHistogramConcurrentPut(t *testing.T) {
	h := NewConcurrentHistogram[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h.Put(1, 1)
			}
		}()
	}
	wg.Wait()
	require.EqualValues(t, 5000, h.Get(1))
}
