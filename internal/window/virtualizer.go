package window

// Align selects where ScrollToIndex places the target item.
type Align int

const (
	// AlignAuto scrolls the least distance that makes the item fully visible.
	AlignAuto Align = iota
	AlignStart
	AlignCenter
	AlignEnd
)

// Config configures a Virtualizer.
type Config struct {
	Count          int
	EstimateSize   SizeFunc
	Overscan       int
	ViewportExtent int
}

// Virtualizer keeps scroll state for a list and recomputes its window when
// the item count, viewport or scroll offset change. Measured sizes override
// estimates. It is owned by one view and is not safe for concurrent use.
type Virtualizer struct {
	count    int
	estimate SizeFunc
	overscan int
	viewport int
	scroll   int

	measured map[int]int
	offsets  []int

	cached    Window
	cachedKey windowKey
	hasCached bool
}

type windowKey struct {
	count, viewport, scroll, overscan int
}

// New creates a virtualizer scrolled to the top.
func New(cfg Config) *Virtualizer {
	estimate := cfg.EstimateSize
	if estimate == nil {
		estimate = FixedSize(1)
	}
	overscan := cfg.Overscan
	if overscan < 0 {
		overscan = 0
	}
	v := &Virtualizer{
		estimate: estimate,
		overscan: overscan,
		measured: make(map[int]int),
	}
	v.SetViewport(cfg.ViewportExtent)
	v.SetCount(cfg.Count)
	return v
}

// Count returns the number of items.
func (v *Virtualizer) Count() int { return v.count }

// ScrollOffset returns the current scroll position.
func (v *Virtualizer) ScrollOffset() int { return v.scroll }

// ViewportExtent returns the viewport size.
func (v *Virtualizer) ViewportExtent() int { return v.viewport }

// SetCount changes the number of items. Measurements past the new end are
// dropped and the scroll offset is clamped.
func (v *Virtualizer) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	if n == v.count && v.offsets != nil {
		return
	}
	for i := range v.measured {
		if i >= n {
			delete(v.measured, i)
		}
	}
	v.count = n
	v.offsets = nil
	v.clamp()
}

// SetViewport changes the viewport extent and clamps the scroll offset.
func (v *Virtualizer) SetViewport(extent int) {
	if extent < 0 {
		extent = 0
	}
	v.viewport = extent
	v.clamp()
}

// SetOverscan changes the overscan item count.
func (v *Virtualizer) SetOverscan(n int) {
	if n < 0 {
		n = 0
	}
	v.overscan = n
}

// Measure records the real size of an item.
func (v *Virtualizer) Measure(index, size int) {
	if index < 0 || index >= v.count {
		return
	}
	if size < 0 {
		size = 0
	}
	if old, ok := v.measured[index]; ok && old == size {
		return
	}
	v.measured[index] = size
	v.offsets = nil
	v.hasCached = false
	v.clamp()
}

// ResetMeasurements discards every recorded size.
func (v *Virtualizer) ResetMeasurements() {
	if len(v.measured) == 0 {
		return
	}
	v.measured = make(map[int]int)
	v.offsets = nil
	v.hasCached = false
	v.clamp()
}

// TotalExtent returns the sum of all item sizes.
func (v *Virtualizer) TotalExtent() int {
	offsets := v.prefix()
	return offsets[len(offsets)-1]
}

// MaxScroll returns the largest valid scroll offset.
func (v *Virtualizer) MaxScroll() int {
	if m := v.TotalExtent() - v.viewport; m > 0 {
		return m
	}
	return 0
}

// ScrollTo sets the scroll offset, clamped to [0, MaxScroll].
func (v *Virtualizer) ScrollTo(offset int) {
	v.scroll = offset
	v.clamp()
}

// ScrollBy moves the scroll offset by delta.
func (v *Virtualizer) ScrollBy(delta int) {
	v.ScrollTo(v.scroll + delta)
}

// ItemOffset returns the start offset and size of item index.
func (v *Virtualizer) ItemOffset(index int) (offset, size int) {
	offsets := v.prefix()
	if index < 0 || index >= v.count {
		return 0, 0
	}
	return offsets[index], offsets[index+1] - offsets[index]
}

// ScrollToIndex scrolls so that item index is placed according to align.
func (v *Virtualizer) ScrollToIndex(index int, align Align) {
	if v.count == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= v.count {
		index = v.count - 1
	}
	start, size := v.ItemOffset(index)
	end := start + size

	switch align {
	case AlignStart:
		v.ScrollTo(start)
	case AlignEnd:
		v.ScrollTo(end - v.viewport)
	case AlignCenter:
		v.ScrollTo(start - (v.viewport-size)/2)
	default:
		switch {
		case start < v.scroll:
			v.ScrollTo(start)
		case end > v.scroll+v.viewport:
			v.ScrollTo(end - v.viewport)
		}
	}
}

// IndexAt returns the index of the item covering offset, or -1.
func (v *Virtualizer) IndexAt(offset int) int {
	offsets := v.prefix()
	for lo, hi := 0, v.count; lo < hi; {
		mid := int(uint(lo+hi) >> 1)
		switch {
		case offsets[mid+1] <= offset:
			lo = mid + 1
		case offsets[mid] > offset:
			hi = mid
		default:
			return mid
		}
	}
	return -1
}

// Window returns the visible items for the current state. The result is
// reused until the count, viewport, scroll offset, overscan or a
// measurement changes.
func (v *Virtualizer) Window() Window {
	key := windowKey{count: v.count, viewport: v.viewport, scroll: v.scroll, overscan: v.overscan}
	if v.hasCached && v.cachedKey == key {
		return v.cached
	}
	v.cached = computeFrom(v.prefix(), v.overscan, v.viewport, v.scroll)
	v.cachedKey = key
	v.hasCached = true
	return v.cached
}

func (v *Virtualizer) prefix() []int {
	if v.offsets == nil {
		v.offsets = prefixSums(v.count, v.sizeOf)
		v.hasCached = false
	}
	return v.offsets
}

func (v *Virtualizer) sizeOf(index int) int {
	if size, ok := v.measured[index]; ok {
		return size
	}
	return v.estimate(index)
}

func (v *Virtualizer) clamp() {
	if v.scroll < 0 {
		v.scroll = 0
	}
	if m := v.MaxScroll(); v.scroll > m {
		v.scroll = m
	}
}
