package window

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indices(w Window) []int {
	out := make([]int, len(w.Items))
	for i, it := range w.Items {
		out[i] = it.Index
	}
	return out
}

func TestCompute_UniformSizes(t *testing.T) {
	w := Compute(Options{
		Count:          1000,
		EstimateSize:   FixedSize(35),
		Overscan:       5,
		ViewportExtent: 350,
		ScrollOffset:   3500,
	})

	assert.Equal(t, 35000, w.TotalExtent)
	start, end := w.Range()
	assert.Equal(t, 95, start)
	assert.Equal(t, 115, end)
	for _, it := range w.Items {
		assert.Equal(t, it.Index*35, it.Offset)
		assert.Equal(t, 35, it.Size)
	}
}

func TestCompute_Empty(t *testing.T) {
	w := Compute(Options{Count: 0, EstimateSize: FixedSize(35), ViewportExtent: 100})
	assert.Equal(t, 0, w.TotalExtent)
	assert.Empty(t, w.Items)
	start, end := w.Range()
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestCompute_AtTopAndBottom(t *testing.T) {
	top := Compute(Options{Count: 100, EstimateSize: FixedSize(10), Overscan: 2, ViewportExtent: 50})
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, indices(top))

	bottom := Compute(Options{Count: 100, EstimateSize: FixedSize(10), Overscan: 2, ViewportExtent: 50, ScrollOffset: 950})
	assert.Equal(t, []int{93, 94, 95, 96, 97, 98, 99}, indices(bottom))
}

func TestCompute_NilEstimateDefaultsToOne(t *testing.T) {
	w := Compute(Options{Count: 10, ViewportExtent: 3, ScrollOffset: 4})
	assert.Equal(t, 10, w.TotalExtent)
	assert.Equal(t, []int{4, 5, 6}, indices(w))
}

func TestCompute_NonUniformSizes(t *testing.T) {
	sizes := []int{10, 50, 20, 5, 5, 40, 30}
	w := Compute(Options{
		Count:          len(sizes),
		EstimateSize:   func(i int) int { return sizes[i] },
		ViewportExtent: 30,
		ScrollOffset:   55,
	})

	assert.Equal(t, 160, w.TotalExtent)
	assert.Equal(t, []int{1, 2, 3}, indices(w), "item 4 starts exactly at the viewport end")
	assert.Equal(t, Item{Index: 1, Offset: 10, Size: 50}, w.Items[0])
	assert.Equal(t, Item{Index: 3, Offset: 80, Size: 5}, w.Items[2])
}

// Every unit in [scroll, scroll+V) must be covered by a contiguous window.
func TestCompute_CoversViewport(t *testing.T) {
	for _, n := range []int{1, 7, 100, 1000} {
		for _, viewport := range []int{0, 1, 34, 35, 200, 5000} {
			for _, overscan := range []int{0, 1, 5} {
				for scroll := 0; scroll <= n*35; scroll += 17 {
					name := fmt.Sprintf("n=%d/v=%d/o=%d/s=%d", n, viewport, overscan, scroll)
					w := Compute(Options{
						Count:          n,
						EstimateSize:   FixedSize(35),
						Overscan:       overscan,
						ViewportExtent: viewport,
						ScrollOffset:   scroll,
					})
					assertCovers(t, name, w, scroll, viewport, n*35)
				}
			}
		}
	}
}

func assertCovers(t *testing.T, name string, w Window, scroll, viewport, total int) {
	t.Helper()
	for i := 1; i < len(w.Items); i++ {
		require.Equal(t, w.Items[i-1].Index+1, w.Items[i].Index, "%s: gap in window", name)
		require.Equal(t, w.Items[i-1].End(), w.Items[i].Offset, "%s: offsets not contiguous", name)
	}
	lo, hi := scroll, scroll+viewport
	if hi > total {
		hi = total
	}
	if lo >= hi {
		return
	}
	require.NotEmpty(t, w.Items, name)
	require.LessOrEqual(t, w.Items[0].Offset, lo, "%s: top uncovered", name)
	require.GreaterOrEqual(t, w.Items[len(w.Items)-1].End(), hi, "%s: bottom uncovered", name)
}

func BenchmarkCompute_100k(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Compute(Options{
			Count:          100_000,
			EstimateSize:   FixedSize(35),
			Overscan:       DefaultOverscan,
			ViewportExtent: 700,
			ScrollOffset:   (i * 97) % 3_500_000,
		})
	}
}
