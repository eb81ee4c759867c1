package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsongrid/internal/models"
	"github.com/mcncl/jsongrid/internal/parser"
)

func mustParse(t *testing.T, input string) models.Value {
	t.Helper()
	v, err := parser.ParseString(input)
	require.NoError(t, err)
	return v
}

type shape struct {
	kind   NodeKind
	text   string
	depth  int
	isLast bool
}

func shapes(nodes []Node) []shape {
	out := make([]shape, len(nodes))
	for i, n := range nodes {
		out[i] = shape{kind: n.Kind, text: n.Text(), depth: n.Depth, isLast: n.IsLast}
	}
	return out
}

func TestProjectRoot_Expanded(t *testing.T) {
	nodes := ProjectRoot(mustParse(t, `{"a":1,"b":[1,2]}`), nil)

	assert.Equal(t, []shape{
		{Open, `{`, 0, true},
		{Leaf, `"a": 1,`, 1, false},
		{Open, `"b": [`, 1, true},
		{Leaf, `1,`, 2, false},
		{Leaf, `2`, 2, true},
		{Close, `]`, 1, true},
		{Close, `}`, 0, true},
	}, shapes(nodes))
}

func TestProjectRoot_CloseCarriesComma(t *testing.T) {
	nodes := ProjectRoot(mustParse(t, `{"b":[1,2],"a":1}`), nil)
	texts := Lines(nodes, 2)
	assert.Equal(t, []string{
		`{`,
		`  "b": [`,
		`    1,`,
		`    2`,
		`  ],`,
		`  "a": 1`,
		`}`,
	}, texts)
}

func TestProject_ArrayChildrenHaveNoKey(t *testing.T) {
	nodes := ProjectRoot(mustParse(t, `[{"x":true},"s",null]`), nil)
	require.Len(t, nodes, 7)

	assert.False(t, nodes[1].HasKey)
	assert.Equal(t, 0, nodes[1].Index)
	assert.Equal(t, Path("/0"), nodes[1].Path)

	assert.Equal(t, `"x": true`, nodes[2].Text())
	assert.Equal(t, Path("/0/x"), nodes[2].Path)
	assert.Equal(t, -1, nodes[2].Index)

	assert.Equal(t, `},`, nodes[3].Text())
	assert.Equal(t, `"s",`, nodes[4].Text())
	assert.Equal(t, `null`, nodes[5].Text())
	assert.Equal(t, `]`, nodes[6].Text())
}

func TestProject_Scalars(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"quote \"me\""`, `"quote \"me\""`},
		{`12.50`, `12.50`},
		{`false`, `false`},
		{`null`, `null`},
		{`{}`, `{}`},
		{`[]`, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			nodes := ProjectRoot(mustParse(t, tt.input), nil)
			require.Len(t, nodes, 1)
			assert.Equal(t, tt.expected, nodes[0].Text())
			assert.False(t, nodes[0].Toggleable())
		})
	}
}

func TestProject_EmptyContainersInline(t *testing.T) {
	nodes := ProjectRoot(mustParse(t, `{"o":{},"a":[]}`), nil)
	assert.Equal(t, []shape{
		{Open, `{`, 0, true},
		{Empty, `"o": {},`, 1, false},
		{Empty, `"a": []`, 1, true},
		{Close, `}`, 0, true},
	}, shapes(nodes))
}

func TestProject_Collapsed(t *testing.T) {
	state := NewCollapseState()
	state.Set(Root.Child("b"), true)

	nodes := ProjectRoot(mustParse(t, `{"b":[1,2],"a":{"c":1}}`), state)
	assert.Equal(t, []shape{
		{Open, `{`, 0, true},
		{Open, `"b": [...],`, 1, false},
		{Open, `"a": {`, 1, true},
		{Leaf, `"c": 1`, 2, true},
		{Close, `}`, 1, true},
		{Close, `}`, 0, true},
	}, shapes(nodes))
	assert.True(t, nodes[1].Collapsed)
	assert.Equal(t, "2 items", nodes[1].Summary())
	assert.Equal(t, "1 key", nodes[2].Summary())
}

func TestProject_CollapseIsolation(t *testing.T) {
	doc := mustParse(t, `{"a":1,"b":[1,2],"c":{"d":[3]}}`)
	state := NewCollapseState()
	before := ProjectRoot(doc, state)

	state.Toggle(Root.Child("b"))
	after := ProjectRoot(doc, state)

	collapsedOf := func(nodes []Node) map[Path]bool {
		m := make(map[Path]bool)
		for _, n := range nodes {
			if n.Kind == Open {
				m[n.Path] = n.Collapsed
			}
		}
		return m
	}
	b, a := collapsedOf(before), collapsedOf(after)
	assert.True(t, a[Root.Child("b")])
	for path, collapsed := range b {
		if path == Root.Child("b") {
			continue
		}
		assert.Equal(t, collapsed, a[path], "node %s changed", path)
	}

	state.Toggle(Root.Child("b"))
	assert.Equal(t, shapes(before), shapes(ProjectRoot(doc, state)))
}

func TestProject_CollapsedRoot(t *testing.T) {
	state := NewCollapseState()
	state.Toggle(Root)
	nodes := ProjectRoot(mustParse(t, `[1,2,3]`), state)
	require.Len(t, nodes, 1)
	assert.Equal(t, `[...]`, nodes[0].Text())
}

func TestProject_PathsSurviveReparse(t *testing.T) {
	state := NewCollapseState()
	state.Set(Root.Child("list").Index(1), true)

	first := ProjectRoot(mustParse(t, `{"list":[{"a":1},{"b":2}]}`), state)
	second := ProjectRoot(mustParse(t, `{"list":[{"a":10},{"b":20,"c":30}]}`), state)

	assert.Len(t, first, 8)
	assert.Len(t, second, 8, "the collapsed element hides its new member too")
}
