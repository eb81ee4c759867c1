package grid

import (
	"fmt"

	"github.com/mcncl/jsongrid/internal/models"
	"github.com/mcncl/jsongrid/internal/parser"
)

// Placeholder is shown in place of a view when there is no data.
const Placeholder = "Invalid JSON or Empty"

// Shape classifies a top-level value for display.
type Shape int

const (
	// ShapeNone means the input could not be parsed.
	ShapeNone Shape = iota
	// ShapeArray shows one row per element.
	ShapeArray
	// ShapeObject shows one {key, value} row per member.
	ShapeObject
	// ShapeScalar shows the value as a tree.
	ShapeScalar
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeArray:
		return "array"
	case ShapeObject:
		return "object"
	case ShapeScalar:
		return "scalar"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Dataset is a classified document with its tabular rows.
type Dataset struct {
	Shape Shape
	Root  models.Value
	Rows  []models.Value
	// Err is the parse failure for ShapeNone.
	Err error
}

// Classify returns the shape of a parsed value.
func Classify(v models.Value) Shape {
	switch v.Kind() {
	case models.KindArray:
		return ShapeArray
	case models.KindObject:
		return ShapeObject
	default:
		return ShapeScalar
	}
}

// FromValue builds the dataset of a parsed value.
func FromValue(v models.Value) Dataset {
	d := Dataset{Shape: Classify(v), Root: v}
	switch d.Shape {
	case ShapeArray:
		d.Rows = v.Items()
	case ShapeObject:
		d.Rows = EntryRows(v)
	}
	return d
}

// Load parses text into a dataset. A parse failure yields ShapeNone and
// is kept on the dataset rather than returned.
func Load(text string) Dataset {
	v, err := parser.ParseString(text)
	if err != nil {
		return Failed(err)
	}
	return FromValue(v)
}

// Failed returns the dataset for a parse failure.
func Failed(err error) Dataset {
	return Dataset{Shape: ShapeNone, Err: err}
}

// EntryRows turns each member of an object into a {"key", "value"} row.
func EntryRows(obj models.Value) []models.Value {
	members := obj.Members()
	out := make([]models.Value, len(members))
	for i, m := range members {
		out[i] = models.ObjectOf(
			models.Member{Key: "key", Value: models.String(m.Key)},
			models.Member{Key: "value", Value: m.Value},
		)
	}
	return out
}

// Handlers holds one function per shape. Match calls exactly one of them.
type Handlers[T any] struct {
	None   func(err error) T
	Array  func(root models.Value, rows []models.Value) T
	Object func(root models.Value, rows []models.Value) T
	Scalar func(root models.Value) T
}

// Match dispatches d to the handler for its shape. Every handler must be set.
func Match[T any](d Dataset, h Handlers[T]) T {
	switch d.Shape {
	case ShapeArray:
		return h.Array(d.Root, d.Rows)
	case ShapeObject:
		return h.Object(d.Root, d.Rows)
	case ShapeScalar:
		return h.Scalar(d.Root)
	default:
		return h.None(d.Err)
	}
}
