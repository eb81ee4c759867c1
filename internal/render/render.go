// Package render writes a grid to a non-interactive output in one of the
// configured formats.
package render

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mcncl/jsongrid/internal/config"
	"github.com/mcncl/jsongrid/internal/errors"
	"github.com/mcncl/jsongrid/internal/formatter"
	"github.com/mcncl/jsongrid/internal/grid"
	"github.com/mcncl/jsongrid/internal/models"
)

// IndexHeader titles the 1-based position column.
const IndexHeader = "#"

// Options configures a Renderer.
type Options struct {
	Config *config.Config
	Logger *slog.Logger
	Color  bool
	// Skip and Limit select a window of the processed rows; a Limit of 0
	// prints every remaining row.
	Skip  int
	Limit int
}

// Renderer prints grids.
type Renderer struct {
	cfg       *config.Config
	formatter *formatter.Formatter
	logger    *slog.Logger
	color     bool
	skip      int
	limit     int
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{
		cfg:       cfg,
		formatter: formatter.NewFormatterWithConfig(cfg),
		logger:    logger,
		color:     opts.Color,
		skip:      opts.Skip,
		limit:     opts.Limit,
	}
}

// Render writes g to w in the configured output format. When the input did
// not parse, the placeholder is written and the parse error returned.
func (r *Renderer) Render(w io.Writer, g *grid.Grid) error {
	format := r.cfg.Output.Format
	r.logger.Debug("rendering", "format", format, "mode", g.Mode().String())

	if g.Mode() == grid.ModePlaceholder {
		if _, err := fmt.Fprintln(w, grid.Placeholder); err != nil {
			return errors.NewOutputError("failed to write output", err)
		}
		if err := g.Dataset().Err; err != nil {
			return err
		}
		return errors.NewParsingError("no JSON value", errors.ErrEmptyInput)
	}

	var err error
	switch format {
	case "pretty":
		err = r.renderPretty(w, g.TreeRoot())
	case "minify":
		_, err = fmt.Fprintln(w, g.TreeRoot().Canonical())
	case "tree":
		err = r.renderTree(w, g)
	case "json":
		err = r.renderJSON(w, g)
	case "table", "csv", "markdown", "html":
		if g.Mode() == grid.ModeTree {
			err = r.renderTree(w, g)
		} else {
			err = r.renderTable(w, g, g.Page(r.skip, r.limit), format)
		}
	default:
		return errors.NewOutputError(fmt.Sprintf("unknown format %q", format), errors.ErrUnknownFormat)
	}
	if err != nil {
		return errors.NewRenderError(fmt.Sprintf("failed to render %s output", format), err)
	}
	return nil
}

// RowCount describes how many rows a view holds, such as "3 rows" or
// "1/3 rows" when a filter hides some.
func RowCount(view grid.TableView) string {
	if view.Filtered() {
		return fmt.Sprintf("%s/%s rows", humanize.Comma(int64(view.Total)), humanize.Comma(int64(view.SourceTotal)))
	}
	return fmt.Sprintf("%s rows", humanize.Comma(int64(view.Total)))
}

// HeaderText returns a column title with its sort indicator.
func HeaderText(cfg *config.Config, col grid.Column) string {
	title := cfg.ColumnTitle(col.Key)
	if ind := col.Direction.Indicator(); ind != "" {
		title += " " + ind
	}
	return title
}

// VisibleColumns returns the indices of the columns not hidden by config.
func VisibleColumns(cfg *config.Config, columns []grid.Column) []int {
	out := make([]int, 0, len(columns))
	for i, col := range columns {
		if !cfg.IsHidden(col.Key) {
			out = append(out, i)
		}
	}
	return out
}

// ColumnAlign returns the alignment of a column: a configured rule first,
// then right alignment for numeric columns.
func ColumnAlign(cfg *config.Config, g *grid.Grid, key string) text.Align {
	if align, ok := cfg.AlignFor(key); ok {
		switch align {
		case "right":
			return text.AlignRight
		case "center":
			return text.AlignCenter
		default:
			return text.AlignLeft
		}
	}
	if p, ok := g.Profile(key); ok && p.Numeric() {
		return text.AlignRight
	}
	return text.AlignLeft
}

func (r *Renderer) renderTable(w io.Writer, g *grid.Grid, view grid.TableView, format string) error {
	visible := VisibleColumns(r.cfg, view.Columns)
	showIndex := r.cfg.Table.ShowIndex && format != "csv"

	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := tableStyle(r.cfg.Table.Style)
	style.Format.Header = text.FormatDefault
	t.SetStyle(style)

	header := make(table.Row, 0, len(visible)+1)
	var configs []table.ColumnConfig
	if showIndex {
		header = append(header, IndexHeader)
		configs = append(configs, table.ColumnConfig{Number: 1, Align: text.AlignRight})
	}
	for _, i := range visible {
		col := view.Columns[i]
		if format == "csv" {
			header = append(header, r.cfg.ColumnTitle(col.Key))
		} else {
			header = append(header, HeaderText(r.cfg, col))
		}
		configs = append(configs, table.ColumnConfig{
			Number: len(header),
			Align:  ColumnAlign(r.cfg, g, col.Key),
		})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	for _, row := range view.Rows {
		out := make(table.Row, 0, len(header))
		if showIndex {
			out = append(out, strconv.Itoa(row.Position+1))
		}
		for _, i := range visible {
			if format == "table" {
				out = append(out, r.formatter.CellLine(row.Cells[i]))
			} else {
				out = append(out, r.formatter.CellText(row.Cells[i]))
			}
		}
		t.AppendRow(out)
	}

	switch format {
	case "csv":
		t.RenderCSV()
		return nil
	case "html":
		t.RenderHTML()
		return nil
	case "markdown":
		t.RenderMarkdown()
	default:
		t.Render()
	}
	_, err := fmt.Fprintf(w, "(%s)\n", RowCount(view))
	return err
}

func tableStyle(name string) table.Style {
	switch name {
	case "rounded":
		return table.StyleRounded
	case "double":
		return table.StyleDouble
	case "bold":
		return table.StyleBold
	case "ascii":
		return table.StyleDefault
	default:
		return table.StyleLight
	}
}

// renderJSON prints the processed rows as a JSON array, or the tree root
// when the data is not tabular.
func (r *Renderer) renderJSON(w io.Writer, g *grid.Grid) error {
	if g.Mode() != grid.ModeTable {
		return r.renderPretty(w, g.TreeRoot())
	}
	view := g.Page(r.skip, r.limit)
	items := make([]models.Value, len(view.Rows))
	for i, row := range view.Rows {
		items[i] = row.Value
	}
	return r.renderPretty(w, models.Array(items...))
}

func (r *Renderer) renderPretty(w io.Writer, v models.Value) error {
	pretty := r.formatter.PrettyValue(v)
	if r.color {
		if err := r.formatter.Highlight(w, pretty); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, pretty)
	return err
}

func (r *Renderer) renderTree(w io.Writer, g *grid.Grid) error {
	styles := NewStyles(w, r.color)
	view := g.FullTree()
	if view.Title != "" {
		if _, err := fmt.Fprintln(w, styles.Header.Render(view.Title)); err != nil {
			return err
		}
	}
	for _, line := range view.Lines {
		if _, err := fmt.Fprintln(w, styles.TreeLine(line.Node, r.cfg.Tree.Indent)); err != nil {
			return err
		}
	}
	return nil
}
