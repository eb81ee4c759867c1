// Package grid owns the view state of a document (dataset, filter, sort,
// collapse choices, scroll) and derives table and tree views from it.
//
// Every mutation bumps the inputs of the derivations it affects; derived
// values are recomputed lazily on the next read and reused otherwise.
// A Grid has a single writer and is not safe for concurrent use.
package grid

import (
	"log/slog"

	"github.com/mcncl/jsongrid/internal/analyzer"
	"github.com/mcncl/jsongrid/internal/models"
	"github.com/mcncl/jsongrid/internal/rows"
	"github.com/mcncl/jsongrid/internal/tree"
	"github.com/mcncl/jsongrid/internal/window"
)

// Mode is the kind of view currently shown.
type Mode int

const (
	ModePlaceholder Mode = iota
	ModeTable
	ModeTree
)

func (m Mode) String() string {
	switch m {
	case ModeTable:
		return "table"
	case ModeTree:
		return "tree"
	default:
		return "placeholder"
	}
}

// Options configures a Grid.
type Options struct {
	// RowHeight is the size of one table row or tree line.
	RowHeight int
	Overscan  int
	// Viewport is the visible extent in the same unit as RowHeight.
	Viewport int
	// CollapseDepth starts containers at this depth collapsed; 0 expands all.
	CollapseDepth int
	// ForceTree shows tabular data as a tree.
	ForceTree bool
	Logger    *slog.Logger
}

// Inspection is a nested value opened as a tree from a table cell.
type Inspection struct {
	Title    string
	Value    models.Value
	Collapse *tree.CollapseState
	// Position is the processed row the value came from.
	Position int
	Column   string
}

// Grid is the view state of one document.
type Grid struct {
	opts   Options
	logger *slog.Logger

	dataset    Dataset
	generation int
	processor  *rows.Processor

	columns     []string
	profiles    []analyzer.ColumnProfile
	columnsGen  int
	profilesGen int
	hasColumns  bool
	hasProfiles bool
	filter      string
	sort        rows.SortState
	collapse    *tree.CollapseState
	collapseRev int
	inspect     *Inspection
	inspectRev  int
	nodes       []tree.Node
	nodesKey    [3]int
	hasNodes    bool
	rowWindow   *window.Virtualizer
	treeWindow  *window.Virtualizer
	savedScroll int
}

// New creates an empty grid showing the placeholder.
func New(opts Options) *Grid {
	if opts.RowHeight <= 0 {
		opts.RowHeight = 1
	}
	if opts.Overscan < 0 {
		opts.Overscan = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	collapse := tree.NewCollapseState()
	collapse.CollapseFromDepth(opts.CollapseDepth)

	g := &Grid{
		opts:     opts,
		logger:   logger,
		collapse: collapse,
		rowWindow: window.New(window.Config{
			EstimateSize:   window.FixedSize(opts.RowHeight),
			Overscan:       opts.Overscan,
			ViewportExtent: opts.Viewport,
		}),
		treeWindow: window.New(window.Config{
			EstimateSize:   window.FixedSize(opts.RowHeight),
			Overscan:       opts.Overscan,
			ViewportExtent: opts.Viewport,
		}),
	}
	g.SetDataset(Failed(nil))
	return g
}

// SetText parses text and replaces the dataset. Filter, sort and collapse
// choices are kept; a parse failure shows the placeholder.
func (g *Grid) SetText(text string) {
	g.SetDataset(Load(text))
}

// SetValue replaces the dataset with a parsed value.
func (g *Grid) SetValue(v models.Value) {
	g.SetDataset(FromValue(v))
}

// SetDataset replaces the dataset.
func (g *Grid) SetDataset(d Dataset) {
	g.dataset = d
	g.generation++
	g.processor = rows.NewProcessor(d.Rows)
	g.inspect = nil
	g.inspectRev++
	g.logger.Debug("dataset replaced",
		"shape", d.Shape.String(),
		"rows", len(d.Rows),
		"generation", g.generation,
		"error", d.Err,
	)
}

// Dataset returns the current dataset.
func (g *Grid) Dataset() Dataset { return g.dataset }

// Valid reports whether the current input parsed.
func (g *Grid) Valid() bool { return g.dataset.Shape != ShapeNone }

// Mode returns which view the dataset is shown in.
func (g *Grid) Mode() Mode {
	if g.inspect != nil {
		return ModeTree
	}
	table := func(models.Value, []models.Value) Mode {
		if g.opts.ForceTree {
			return ModeTree
		}
		return ModeTable
	}
	return Match(g.dataset, Handlers[Mode]{
		None:   func(error) Mode { return ModePlaceholder },
		Array:  table,
		Object: table,
		Scalar: func(models.Value) Mode { return ModeTree },
	})
}

// SetForceTree switches tabular data between table and tree views.
func (g *Grid) SetForceTree(force bool) { g.opts.ForceTree = force }

// ForceTree reports whether tabular data is shown as a tree.
func (g *Grid) ForceTree() bool { return g.opts.ForceTree }

// Columns returns the inferred columns of the full dataset. The filter
// does not change the schema.
func (g *Grid) Columns() []string {
	if !g.hasColumns || g.columnsGen != g.generation {
		g.columns = analyzer.InferColumns(g.dataset.Rows)
		g.columnsGen = g.generation
		g.hasColumns = true
		g.logger.Debug("columns inferred", "count", len(g.columns))
	}
	return g.columns
}

// Profiles returns one profile per column.
func (g *Grid) Profiles() []analyzer.ColumnProfile {
	if !g.hasProfiles || g.profilesGen != g.generation {
		g.profiles = analyzer.NewAnalyzer().Profile(g.dataset.Rows, g.Columns())
		g.profilesGen = g.generation
		g.hasProfiles = true
	}
	return g.profiles
}

// Profile returns the profile of one column.
func (g *Grid) Profile(column string) (analyzer.ColumnProfile, bool) {
	for _, p := range g.Profiles() {
		if p.Key == column {
			return p, true
		}
	}
	return analyzer.ColumnProfile{}, false
}

// SetFilter changes the filter text.
func (g *Grid) SetFilter(text string) {
	if text == g.filter {
		return
	}
	g.filter = text
	g.logger.Debug("filter changed", "filter", text)
}

// Filter returns the filter text.
func (g *Grid) Filter() string { return g.filter }

// ToggleSort advances the sort of column and returns the new state.
func (g *Grid) ToggleSort(column string) rows.SortState {
	g.SetSort(g.sort.Toggle(column))
	return g.sort
}

// SetSort replaces the sort state.
func (g *Grid) SetSort(s rows.SortState) {
	g.sort = s
	g.logger.Debug("sort changed", "sort", s.String())
}

// Sort returns the sort state.
func (g *Grid) Sort() rows.SortState { return g.sort }

// Rows returns the filtered and sorted rows. The slice must not be modified.
func (g *Grid) Rows() []rows.Row {
	return g.processor.Process(g.filter, g.sort)
}

// Row returns the processed row at position.
func (g *Grid) Row(position int) (rows.Row, bool) {
	processed := g.Rows()
	if position < 0 || position >= len(processed) {
		return rows.Row{}, false
	}
	return processed[position], true
}

// Collapse returns the collapse state of the active tree.
func (g *Grid) Collapse() *tree.CollapseState {
	if g.inspect != nil {
		return g.inspect.Collapse
	}
	return g.collapse
}

// ToggleCollapse flips the node at path and returns its new state.
func (g *Grid) ToggleCollapse(path tree.Path) bool {
	collapsed := g.Collapse().Toggle(path)
	g.collapseRev++
	return collapsed
}

// ExpandAll expands every node of the active tree.
func (g *Grid) ExpandAll() {
	g.Collapse().ExpandAll()
	g.collapseRev++
}

// CollapseAll collapses every node of the active tree below its root.
func (g *Grid) CollapseAll() {
	g.Collapse().CollapseAll()
	g.collapseRev++
}

// TreeRoot returns the value shown in tree mode.
func (g *Grid) TreeRoot() models.Value {
	if g.inspect != nil {
		return g.inspect.Value
	}
	return g.dataset.Root
}

// Nodes returns the projected tree of the active tree root.
func (g *Grid) Nodes() []tree.Node {
	key := [3]int{g.generation, g.collapseRev, g.inspectRev}
	if g.hasNodes && g.nodesKey == key {
		return g.nodes
	}
	if g.dataset.Shape == ShapeNone && g.inspect == nil {
		g.nodes = nil
	} else {
		g.nodes = tree.ProjectRoot(g.TreeRoot(), g.Collapse())
	}
	g.nodesKey = key
	g.hasNodes = true
	g.logger.Debug("tree projected", "nodes", len(g.nodes))
	return g.nodes
}

// Inspect opens the cell at (position, column) as a tree. Only object and
// array cells can be inspected.
func (g *Grid) Inspect(position int, column string) bool {
	row, ok := g.Row(position)
	if !ok {
		return false
	}
	cell := row.Cell(column)
	if !cell.Present || !cell.Value.IsContainer() {
		return false
	}
	collapse := tree.NewCollapseState()
	collapse.CollapseFromDepth(g.opts.CollapseDepth)
	g.inspect = &Inspection{
		Title:    column,
		Value:    cell.Value,
		Collapse: collapse,
		Position: position,
		Column:   column,
	}
	g.inspectRev++
	g.savedScroll = g.treeWindow.ScrollOffset()
	g.treeWindow.ScrollTo(0)
	g.logger.Debug("inspecting cell", "row", position, "column", column)
	return true
}

// Inspecting returns the open inspection, if any.
func (g *Grid) Inspecting() *Inspection { return g.inspect }

// CloseInspect returns from an inspected cell to the table.
func (g *Grid) CloseInspect() {
	if g.inspect == nil {
		return
	}
	g.inspect = nil
	g.inspectRev++
	g.treeWindow.SetCount(len(g.Nodes()))
	g.treeWindow.ScrollTo(g.savedScroll)
}

func (g *Grid) activeWindow() *window.Virtualizer {
	if g.Mode() == ModeTree {
		return g.treeWindow
	}
	return g.rowWindow
}

// activeCount syncs the active virtualizer with the current item count.
func (g *Grid) activeCount() *window.Virtualizer {
	v := g.activeWindow()
	switch g.Mode() {
	case ModeTree:
		v.SetCount(len(g.Nodes()))
	case ModeTable:
		v.SetCount(len(g.Rows()))
	default:
		v.SetCount(0)
	}
	return v
}

// SetViewport changes the visible extent of both views.
func (g *Grid) SetViewport(extent int) {
	g.opts.Viewport = extent
	g.rowWindow.SetViewport(extent)
	g.treeWindow.SetViewport(extent)
}

// Viewport returns the visible extent.
func (g *Grid) Viewport() int { return g.opts.Viewport }

// RowHeight returns the size of one item.
func (g *Grid) RowHeight() int { return g.opts.RowHeight }

// ScrollBy scrolls the active view.
func (g *Grid) ScrollBy(delta int) { g.activeCount().ScrollBy(delta) }

// ScrollTo scrolls the active view to offset.
func (g *Grid) ScrollTo(offset int) { g.activeCount().ScrollTo(offset) }

// ScrollToIndex scrolls the active view so item index is visible.
func (g *Grid) ScrollToIndex(index int, align window.Align) {
	g.activeCount().ScrollToIndex(index, align)
}

// ScrollOffset returns the scroll offset of the active view.
func (g *Grid) ScrollOffset() int { return g.activeCount().ScrollOffset() }
