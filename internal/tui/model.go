// Package tui is the interactive viewer: a filterable, sortable table of
// the rows with a collapsible tree for nested values.
package tui

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mcncl/jsongrid/internal/config"
	"github.com/mcncl/jsongrid/internal/formatter"
	"github.com/mcncl/jsongrid/internal/grid"
	"github.com/mcncl/jsongrid/internal/render"
	"github.com/mcncl/jsongrid/internal/tree"
	"github.com/mcncl/jsongrid/internal/watch"
	"github.com/mcncl/jsongrid/internal/window"
)

const statusDuration = 2 * time.Second

// Options configures the viewer.
type Options struct {
	Config *config.Config
	Logger *slog.Logger
	// Source names the input in the title bar.
	Source string
	Color  bool
	// Watcher delivers reloads of the input file; nil disables live reload.
	Watcher *watch.Watcher
	// Clipboard receives copied text. Defaults to the system clipboard.
	Clipboard func(string) error
}

type (
	statusClearMsg struct{}
	reloadMsg      watch.Event
	copiedMsg      struct {
		what string
		err  error
	}
)

// Model is the bubbletea model of the viewer.
type Model struct {
	grid      *grid.Grid
	cfg       *config.Config
	logger    *slog.Logger
	formatter *formatter.Formatter
	styles    render.Styles
	help      help.Model
	filter    textinput.Model
	watcher   *watch.Watcher
	clip      func(string) error
	source    string

	filtering   bool
	tableCursor int
	treeCursor  int
	colCursor   int
	colOffset   int
	width       int
	height      int
	invalid     bool

	statusMsg   string
	statusUntil time.Time
}

// New creates the viewer model for g.
func New(g *grid.Grid, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter rows..."
	ti.CharLimit = 256
	ti.Width = 40
	ti.SetValue(g.Filter())

	return Model{
		grid:      g,
		cfg:       cfg,
		logger:    logger,
		formatter: formatter.NewFormatterWithConfig(cfg),
		styles:    render.NewStyles(os.Stdout, opts.Color),
		help:      help.New(),
		filter:    ti,
		watcher:   opts.Watcher,
		clip:      copyFn,
		source:    opts.Source,
		invalid:   !g.Valid(),
	}
}

// Grid returns the view state the model drives.
func (m Model) Grid() *grid.Grid { return m.grid }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitForReload()
}

func (m Model) waitForReload() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	w := m.watcher
	return func() tea.Msg {
		ev, ok := <-w.Events()
		if !ok {
			return nil
		}
		return reloadMsg(ev)
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case reloadMsg:
		cmd := m.reload(watch.Event(msg))
		return m, tea.Batch(cmd, m.waitForReload())

	case copiedMsg:
		if msg.err != nil {
			return m, m.setStatus(fmt.Sprintf("clipboard error: %s", msg.err))
		}
		return m, m.setStatus("Copied " + msg.what)

	case statusClearMsg:
		if !m.statusUntil.IsZero() && !time.Now().Before(m.statusUntil) {
			m.statusMsg = ""
			m.statusUntil = time.Time{}
		}
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := m.grid.Mode()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()

	case key.Matches(msg, keys.Filter):
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Back):
		switch {
		case m.grid.Inspecting() != nil:
			m.grid.CloseInspect()
		case m.grid.Filter() != "":
			m.setFilter("")
		}

	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, keys.PageUp):
		m.moveCursor(-m.bodyHeight())
	case key.Matches(msg, keys.PageDown):
		m.moveCursor(m.bodyHeight())
	case key.Matches(msg, keys.Home):
		m.setCursor(0)
	case key.Matches(msg, keys.End):
		m.setCursor(m.itemCount() - 1)

	case key.Matches(msg, keys.Left):
		if mode == grid.ModeTable && m.colCursor > 0 {
			m.colCursor--
			m.ensureColumnVisible()
		}
	case key.Matches(msg, keys.Right):
		if mode == grid.ModeTable && m.colCursor < len(m.visibleColumns())-1 {
			m.colCursor++
			m.ensureColumnVisible()
		}

	case mode == grid.ModeTable && key.Matches(msg, keys.Sort):
		if col, ok := m.selectedColumn(); ok {
			s := m.grid.ToggleSort(col)
			m.logger.Debug("sort toggled", "sort", s.String())
		}

	case mode == grid.ModeTree && key.Matches(msg, keys.Toggle):
		m.toggleNode()

	case key.Matches(msg, keys.Inspect):
		if mode == grid.ModeTable {
			if col, ok := m.selectedColumn(); ok && !m.grid.Inspect(m.tableCursor, col) {
				return m, m.setStatus("only objects and arrays can be inspected")
			}
			m.treeCursor = 0
		}

	case key.Matches(msg, keys.SwitchView):
		if m.grid.Inspecting() == nil && m.grid.Valid() {
			m.grid.SetForceTree(!m.grid.ForceTree())
			m.treeCursor = 0
			m.grid.ScrollTo(0)
		}

	case key.Matches(msg, keys.ExpandAll):
		if mode == grid.ModeTree {
			m.grid.ExpandAll()
		}
	case key.Matches(msg, keys.CollapseAll):
		if mode == grid.ModeTree {
			m.grid.CollapseAll()
			m.setCursor(0)
		}

	case key.Matches(msg, keys.CopyCell):
		return m, m.copyCell()
	case key.Matches(msg, keys.CopyRow):
		return m, m.copyRow()
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.setFilter("")
		return m, nil
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	// Live filter as user types
	if m.filter.Value() != m.grid.Filter() {
		m.grid.SetFilter(m.filter.Value())
		m.tableCursor = 0
		m.grid.ScrollTo(0)
	}
	return m, cmd
}

func (m *Model) setFilter(text string) {
	m.filter.SetValue(text)
	m.grid.SetFilter(text)
	m.tableCursor = 0
	m.grid.ScrollTo(0)
}

// reload applies a watcher event. A failed parse keeps every view choice
// and shows the placeholder until the next good save.
func (m *Model) reload(ev watch.Event) tea.Cmd {
	if ev.Err != nil {
		m.logger.Debug("reload failed", "error", ev.Err)
		return m.setStatus(fmt.Sprintf("reload failed: %s", ev.Err))
	}
	m.grid.SetText(string(ev.Data))
	m.invalid = !m.grid.Valid()
	m.clampCursors()
	m.logger.Debug("reloaded", "bytes", len(ev.Data), "valid", !m.invalid)
	if m.invalid {
		return nil
	}
	return m.setStatus("reloaded")
}

func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusUntil = time.Now().Add(statusDuration)
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

// chromeHeight is the number of lines around the body.
func (m Model) chromeHeight() int {
	lines := 3 // title, status, help
	if m.grid.Mode() == grid.ModeTable {
		lines += 2 // filter, header
	}
	if m.help.ShowAll {
		lines += len(keys.FullHelp()[0]) - 1
	}
	return lines
}

func (m Model) bodyHeight() int {
	h := m.height - m.chromeHeight()
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) resize() {
	m.grid.SetViewport(m.bodyHeight() * m.grid.RowHeight())
	m.ensureCursorVisible()
}

func (m Model) itemCount() int {
	switch m.grid.Mode() {
	case grid.ModeTable:
		return len(m.grid.Rows())
	case grid.ModeTree:
		return len(m.grid.Nodes())
	default:
		return 0
	}
}

func (m Model) cursor() int {
	if m.grid.Mode() == grid.ModeTree {
		return m.treeCursor
	}
	return m.tableCursor
}

func (m *Model) setCursor(c int) {
	if n := m.itemCount(); c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	if m.grid.Mode() == grid.ModeTree {
		m.treeCursor = c
	} else {
		m.tableCursor = c
	}
	m.ensureCursorVisible()
}

func (m *Model) moveCursor(delta int) { m.setCursor(m.cursor() + delta) }

func (m *Model) clampCursors() {
	if n := len(m.grid.Rows()); m.tableCursor >= n {
		m.tableCursor = max(n-1, 0)
	}
	if n := len(m.grid.Nodes()); m.treeCursor >= n {
		m.treeCursor = max(n-1, 0)
	}
	if n := len(m.visibleColumns()); m.colCursor >= n {
		m.colCursor = max(n-1, 0)
	}
}

func (m *Model) ensureCursorVisible() {
	if m.itemCount() == 0 {
		return
	}
	m.grid.ScrollToIndex(m.cursor(), window.AlignAuto)
}

// toggleNode flips the container under the cursor and keeps the cursor on
// its opening line.
func (m *Model) toggleNode() {
	nodes := m.grid.Nodes()
	if m.treeCursor >= len(nodes) {
		return
	}
	n := nodes[m.treeCursor]
	if !n.Toggleable() {
		return
	}
	m.grid.ToggleCollapse(n.Path)
	if n.Kind == tree.Close {
		for i, other := range m.grid.Nodes() {
			if other.Path == n.Path && other.Kind == tree.Open {
				m.setCursor(i)
				return
			}
		}
	}
	m.setCursor(m.treeCursor)
}

// visibleColumns returns the keys of the columns not hidden by config.
func (m Model) visibleColumns() []string {
	var out []string
	for _, col := range m.grid.Columns() {
		if !m.cfg.IsHidden(col) {
			out = append(out, col)
		}
	}
	return out
}

func (m Model) selectedColumn() (string, bool) {
	cols := m.visibleColumns()
	if m.colCursor < 0 || m.colCursor >= len(cols) {
		return "", false
	}
	return cols[m.colCursor], true
}

func (m *Model) ensureColumnVisible() {
	if m.colCursor < m.colOffset {
		m.colOffset = m.colCursor
		return
	}
	widths := m.columnWidths(m.grid.Table())
	for m.colOffset < m.colCursor {
		used := m.indexWidth()
		for i := m.colOffset; i <= m.colCursor; i++ {
			used += widths[i] + 2
		}
		if used <= m.width {
			return
		}
		m.colOffset++
	}
}

func (m Model) copyCell() tea.Cmd {
	switch m.grid.Mode() {
	case grid.ModeTable:
		row, ok := m.grid.Row(m.tableCursor)
		col, okCol := m.selectedColumn()
		if !ok || !okCol {
			return nil
		}
		cell := row.Cell(col)
		if !cell.Present {
			return m.copyText("", "empty cell")
		}
		return m.copyText(cell.Value.Canonical(), fmt.Sprintf("%s of row %d", col, m.tableCursor+1))
	case grid.ModeTree:
		nodes := m.grid.Nodes()
		if m.treeCursor >= len(nodes) {
			return nil
		}
		n := nodes[m.treeCursor]
		return m.copyText(m.formatter.PrettyValue(n.Value), n.Path.String())
	}
	return nil
}

func (m Model) copyRow() tea.Cmd {
	switch m.grid.Mode() {
	case grid.ModeTable:
		row, ok := m.grid.Row(m.tableCursor)
		if !ok {
			return nil
		}
		return m.copyText(row.Value.Canonical(), fmt.Sprintf("row %d", m.tableCursor+1))
	case grid.ModeTree:
		return m.copyText(m.formatter.PrettyValue(m.grid.TreeRoot()), "document")
	}
	return nil
}

// copyText writes to the clipboard off the update loop.
func (m Model) copyText(text, what string) tea.Cmd {
	write := m.clip
	return func() tea.Msg {
		return copiedMsg{what: what, err: write(text)}
	}
}

// Status returns the flash message currently shown.
func (m Model) Status() string { return m.statusMsg }

// Cursor returns the selected row or tree line.
func (m Model) Cursor() int { return m.cursor() }

// Filtering reports whether the filter box has focus.
func (m Model) Filtering() bool { return m.filtering }

// Invalid reports whether the last reload failed to parse.
func (m Model) Invalid() bool { return m.invalid }

func (m Model) sourceName() string {
	if m.source == "" {
		return "stdin"
	}
	return m.source
}

// joinLines pads the body so the footer stays at the bottom.
func joinLines(lines []string, height int) string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
