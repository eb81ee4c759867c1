package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsongrid/internal/config"
	apperrors "github.com/mcncl/jsongrid/internal/errors"
	"github.com/mcncl/jsongrid/internal/grid"
	"github.com/mcncl/jsongrid/internal/rows"
	"github.com/mcncl/jsongrid/internal/testutil"
	"github.com/mcncl/jsongrid/internal/tree"
)

const people = `[
	{"id": 2, "name": "Bob", "tags": ["x"]},
	{"id": 1, "name": "Alice", "meta": {"admin": true}},
	{"id": 3, "name": null}
]`

func newGrid(t *testing.T, input string) *grid.Grid {
	t.Helper()
	g := grid.New(grid.Options{Logger: testutil.NewTestLogger(t)})
	g.SetText(input)
	return g
}

func render(t *testing.T, cfg *config.Config, g *grid.Grid, opts Options) (string, error) {
	t.Helper()
	opts.Config = cfg
	opts.Logger = testutil.NewTestLogger(t)
	var buf bytes.Buffer
	err := New(opts).Render(&buf, g)
	return buf.String(), err
}

func withFormat(format string) *config.Config {
	cfg := config.NewConfig()
	cfg.Output.Format = format
	return cfg
}

func TestRender_Table(t *testing.T) {
	g := newGrid(t, people)
	g.SetSort(rows.SortBy("id", false))

	out, err := render(t, withFormat("table"), g, Options{})
	require.NoError(t, err)

	assert.Contains(t, out, "id ▲")
	assert.Contains(t, out, "[array(1)]")
	assert.Contains(t, out, "{object}")
	assert.Contains(t, out, "null")
	assert.True(t, strings.HasSuffix(out, "(3 rows)\n"), out)

	alice := strings.Index(out, "Alice")
	bob := strings.Index(out, "Bob")
	require.Positive(t, alice)
	assert.Less(t, alice, bob, "rows follow the sort")
}

func TestRender_TableFilteredCount(t *testing.T) {
	g := newGrid(t, people)
	g.SetFilter("ali")

	out, err := render(t, withFormat("table"), g, Options{})
	require.NoError(t, err)
	assert.Contains(t, out, "(1/3 rows)")
	assert.NotContains(t, out, "Bob")
}

func TestRender_CSV(t *testing.T) {
	g := newGrid(t, `[{"a":1,"b":"x"},{"a":2}]`)

	out, err := render(t, withFormat("csv"), g, Options{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"a,b", "1,x", "2,"}, lines)
}

func TestRender_MarkdownAndHTML(t *testing.T) {
	g := newGrid(t, people)

	out, err := render(t, withFormat("markdown"), g, Options{})
	require.NoError(t, err)
	assert.Contains(t, out, "| Alice |")
	assert.Contains(t, out, "(3 rows)")

	out, err = render(t, withFormat("html"), g, Options{})
	require.NoError(t, err)
	assert.Contains(t, out, "<table")
	assert.Contains(t, out, "Alice")
}

func TestRender_ConfigColumns(t *testing.T) {
	g := newGrid(t, `[{"user_id":1,"secret":"s","full_name":"A"}]`)

	cfg := withFormat("csv")
	cfg.Table.HeaderStyle = "title"
	cfg.Columns.Hide = []string{"^secret$"}
	cfg.Columns.Rename = map[string]string{"full_name": "Name"}
	require.NoError(t, cfg.Validate())

	out, err := render(t, cfg, g, Options{})
	require.NoError(t, err)
	assert.Equal(t, "User Id,Name", strings.Split(out, "\n")[0])
	assert.NotContains(t, out, "s,")
}

func TestRender_SkipAndLimit(t *testing.T) {
	g := newGrid(t, `[1,2,3,4,5]`)

	out, err := render(t, withFormat("json"), g, Options{Skip: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, "[\n  2,\n  3\n]\n", out)
}

func TestRender_JSONRowsFollowFilterAndSort(t *testing.T) {
	g := newGrid(t, `[{"n":"b"},{"n":"a"},{"n":"c"}]`)
	g.SetSort(rows.SortBy("n", true))
	g.SetFilter("a")

	out, err := render(t, withFormat("json"), g, Options{})
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"n\": \"a\"\n  }\n]\n", out)
}

func TestRender_ScalarFallsBackToTree(t *testing.T) {
	g := newGrid(t, `"hello"`)

	out, err := render(t, withFormat("table"), g, Options{})
	require.NoError(t, err)
	assert.Equal(t, "\"hello\"\n", out)
}

func TestRender_Tree(t *testing.T) {
	g := newGrid(t, `{"a":1,"b":[true,null]}`)
	g.ToggleCollapse(tree.Root.Child("b"))

	out, err := render(t, withFormat("tree"), g, Options{})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [...]\n}\n", out)
}

func TestRender_PrettyAndMinify(t *testing.T) {
	g := newGrid(t, `{"z": [1, 2], "a": {}}`)

	out, err := render(t, withFormat("pretty"), g, Options{})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"z\": [\n    1,\n    2\n  ],\n  \"a\": {}\n}\n", out)

	out, err = render(t, withFormat("minify"), g, Options{})
	require.NoError(t, err)
	assert.Equal(t, "{\"z\":[1,2],\"a\":{}}\n", out)
}

func TestRender_PrettyHighlighted(t *testing.T) {
	g := newGrid(t, `{"a": 1}`)

	out, err := render(t, withFormat("pretty"), g, Options{Color: true})
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
}

func TestRender_Placeholder(t *testing.T) {
	g := newGrid(t, `{"a":`)

	out, err := render(t, withFormat("table"), g, Options{})
	require.Error(t, err)
	assert.True(t, apperrors.IsParseFailure(err))
	assert.Equal(t, grid.Placeholder+"\n", out)
}

func TestRender_UnknownFormat(t *testing.T) {
	g := newGrid(t, `[1]`)

	_, err := render(t, withFormat("yaml"), g, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnknownFormat)
}

func TestColumnAlign(t *testing.T) {
	g := newGrid(t, `[{"n":1,"s":"x","c":"y"}]`)
	cfg := config.NewConfig()
	cfg.Columns.Align = []config.AlignRule{{Pattern: "^c$", Align: "center"}}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, text.AlignRight, ColumnAlign(cfg, g, "n"))
	assert.Equal(t, text.AlignLeft, ColumnAlign(cfg, g, "s"))
	assert.Equal(t, text.AlignCenter, ColumnAlign(cfg, g, "c"))
}

func TestRowCount(t *testing.T) {
	assert.Equal(t, "3 rows", RowCount(grid.TableView{Total: 3, SourceTotal: 3}))
	assert.Equal(t, "3 rows", RowCount(grid.TableView{Total: 3, SourceTotal: 3, Filter: "x"}))
	assert.Equal(t, "1/3 rows", RowCount(grid.TableView{Total: 1, SourceTotal: 3, Filter: "x"}))
	assert.Equal(t, "12,345 rows", RowCount(grid.TableView{Total: 12345, SourceTotal: 12345}))
	assert.Equal(t, "980/1,200 rows", RowCount(grid.TableView{Total: 980, SourceTotal: 1200, Filter: "a"}))
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, ColorEnabled("always", &buf))
	assert.False(t, ColorEnabled("never", &buf))
	assert.False(t, ColorEnabled("auto", &buf))
}

func TestTreeLine_PlainMatchesNodeLine(t *testing.T) {
	g := newGrid(t, `{"k":"v","n":[1,{}],"o":{"x":null}}`)
	styles := NewStyles(&bytes.Buffer{}, false)

	for _, n := range g.Nodes() {
		assert.Equal(t, n.Line(2), styles.TreeLine(n, 2))
	}
}
