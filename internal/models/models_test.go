package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{name: "null", value: Null(), expected: "null"},
		{name: "bool", value: Bool(true), expected: "true"},
		{name: "number literal kept", value: Number(json.Number("1.50")), expected: "1.50"},
		{name: "string escapes", value: String("a\"b\\c\n\u0001"), expected: `"a\"b\\c\n\u0001"`},
		{name: "html not escaped", value: String("<a&b>"), expected: `"<a&b>"`},
		{name: "unicode kept", value: String("héllo"), expected: `"héllo"`},
		{
			name: "object insertion order",
			value: ObjectOf(
				Member{Key: "z", Value: Int(1)},
				Member{Key: "a", Value: Array(Null(), Bool(false))},
			),
			expected: `{"z":1,"a":[null,false]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.Canonical())
		})
	}
}

func TestObjectOf_DuplicateKeys(t *testing.T) {
	v := ObjectOf(
		Member{Key: "a", Value: Int(1)},
		Member{Key: "b", Value: Int(2)},
		Member{Key: "a", Value: Int(3)},
	)
	assert.Equal(t, []string{"a", "b"}, v.Keys())
	a, ok := v.Get("a")
	require.True(t, ok)
	assert.Equal(t, "3", a.Canonical())
}

func TestValue_Accessors(t *testing.T) {
	v := MustFromAny(map[string]any{"n": 2.5, "s": "x", "list": []any{1, true}})

	assert.Equal(t, KindObject, v.Kind())
	assert.Equal(t, []string{"list", "n", "s"}, v.Keys(), "map keys are sorted")

	n, ok := v.Get("n")
	require.True(t, ok)
	f, ok := n.Float64()
	require.True(t, ok)
	assert.Equal(t, 2.5, f)

	_, ok = v.Get("missing")
	assert.False(t, ok)

	list, _ := v.Get("list")
	assert.Equal(t, 2, list.Len())
	assert.True(t, list.Index(1).BoolValue())
	assert.True(t, list.Index(7).IsNull())

	s, _ := v.Get("s")
	assert.Equal(t, "x", s.Str())
	assert.Equal(t, "", n.Str())
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, Number("1").Equal(Number("1.0")))
	assert.False(t, Number("1").Equal(String("1")))
	assert.True(t, MustFromAny([]any{1, "a"}).Equal(MustFromAny([]any{1, "a"})))
	assert.False(t, ObjectOf(Member{Key: "a", Value: Int(1)}).Equal(ObjectOf(Member{Key: "b", Value: Int(1)})))
	assert.True(t, Null().Equal(Value{}))
}

func TestFromAny_Unsupported(t *testing.T) {
	_, err := FromAny(struct{}{})
	assert.Error(t, err)
}

func TestMarshalJSON(t *testing.T) {
	v := ObjectOf(Member{Key: "b", Value: String("x")}, Member{Key: "a", Value: Int(1)})
	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":"x","a":1}`, string(out))
}

func TestCell(t *testing.T) {
	assert.False(t, Absent().Present)
	c := CellOf(Null())
	assert.True(t, c.Present)
	assert.True(t, c.Value.IsNull())
}
