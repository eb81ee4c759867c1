// Package window computes which items of a long list intersect a viewport.
//
// Sizes and offsets are in abstract units: terminal lines for the TUI,
// pixels for anything else. Items may differ in size; only the skipped
// items' sizes are summed, never rendered.
package window

import "sort"

// DefaultOverscan is the number of average-sized items kept beyond each
// edge of the viewport.
const DefaultOverscan = 5

// Item is one visible item and its absolute position.
type Item struct {
	Index  int
	Offset int
	Size   int
}

// End returns the offset just past the item.
func (it Item) End() int { return it.Offset + it.Size }

// Window is the result of a window computation. Items are contiguous and
// ordered by index.
type Window struct {
	TotalExtent int
	Items       []Item
}

// Range returns the half-open index range [start, end) of the window.
func (w Window) Range() (start, end int) {
	if len(w.Items) == 0 {
		return 0, 0
	}
	return w.Items[0].Index, w.Items[len(w.Items)-1].Index + 1
}

// Len returns the number of items in the window.
func (w Window) Len() int { return len(w.Items) }

// SizeFunc estimates the size of the item at index.
type SizeFunc func(index int) int

// FixedSize returns a SizeFunc for items of uniform size.
func FixedSize(size int) SizeFunc {
	return func(int) int { return size }
}

// Options are the inputs of Compute.
type Options struct {
	Count          int
	EstimateSize   SizeFunc
	Overscan       int
	ViewportExtent int
	ScrollOffset   int
}

// Compute returns the total extent of all items and the items whose span
// intersects [ScrollOffset - Overscan*avg, ScrollOffset + ViewportExtent + Overscan*avg),
// where avg is the mean item size rounded up.
func Compute(o Options) Window {
	estimate := o.EstimateSize
	if estimate == nil {
		estimate = FixedSize(1)
	}
	return computeFrom(prefixSums(o.Count, estimate), o.Overscan, o.ViewportExtent, o.ScrollOffset)
}

// prefixSums returns n+1 offsets; offsets[i] is the start of item i and
// offsets[n] the total extent.
func prefixSums(n int, size SizeFunc) []int {
	if n < 0 {
		n = 0
	}
	offsets := make([]int, n+1)
	for i := 0; i < n; i++ {
		s := size(i)
		if s < 0 {
			s = 0
		}
		offsets[i+1] = offsets[i] + s
	}
	return offsets
}

func computeFrom(offsets []int, overscan, viewport, scroll int) Window {
	n := len(offsets) - 1
	total := offsets[n]
	w := Window{TotalExtent: total}
	if n == 0 {
		return w
	}

	if overscan < 0 {
		overscan = 0
	}
	if viewport < 0 {
		viewport = 0
	}
	avg := (total + n - 1) / n
	lo := scroll - overscan*avg
	hi := scroll + viewport + overscan*avg

	// first item whose end lies past lo
	start := sort.Search(n, func(i int) bool { return offsets[i+1] > lo })
	for i := start; i < n && offsets[i] < hi; i++ {
		w.Items = append(w.Items, Item{Index: i, Offset: offsets[i], Size: offsets[i+1] - offsets[i]})
	}
	return w
}
