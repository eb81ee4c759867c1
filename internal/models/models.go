package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant of a JSON value is held.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is an immutable JSON value. The zero Value is JSON null.
type Value struct {
	kind Kind
	b    bool
	s    string // string contents or number literal
	arr  []Value
	obj  *Object
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered JSON object. Member order is insertion order.
type Object struct {
	members []Member
	index   map[string]int
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a number literal. The literal text is kept as written.
func Number(n json.Number) Value { return Value{kind: KindNumber, s: n.String()} }

// Int is shorthand for an integral number.
func Int(n int64) Value { return Value{kind: KindNumber, s: strconv.FormatInt(n, 10)} }

// Float is shorthand for a floating point number.
func Float(f float64) Value {
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a sequence of values. The slice is copied.
func Array(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindArray, arr: cp}
}

// ObjectOf builds an object from members. A repeated key keeps the
// position of its first occurrence and the value of its last.
func ObjectOf(members ...Member) Value {
	obj := NewObject(len(members))
	for _, m := range members {
		obj.Set(m.Key, m.Value)
	}
	return obj.Value()
}

// NewObject returns an empty object with room for n members.
func NewObject(n int) *Object {
	return &Object{
		members: make([]Member, 0, n),
		index:   make(map[string]int, n),
	}
}

// Set adds or replaces a member. Replacing keeps the original position.
func (o *Object) Set(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.members) }

// Value freezes the object into a Value. The object must not be modified afterwards.
func (o *Object) Value() Value { return Value{kind: KindObject, obj: o} }

// FromAny converts decoded Go data into a Value. Map keys are sorted since
// Go maps carry no order.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case float64:
		return Float(t), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			conv, err := FromAny(item)
			if err != nil {
				return Null(), err
			}
			items[i] = conv
		}
		return Value{kind: KindArray, arr: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject(len(keys))
		for _, k := range keys {
			conv, err := FromAny(t[k])
			if err != nil {
				return Null(), err
			}
			obj.Set(k, conv)
		}
		return obj.Value(), nil
	default:
		return Null(), fmt.Errorf("unsupported type %T", v)
	}
}

// MustFromAny is FromAny that panics on unsupported input. Used by tests and literals.
func MustFromAny(v any) Value {
	out, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return out
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsObject() bool { return v.kind == KindObject }
func (v Value) IsArray() bool  { return v.kind == KindArray }

// IsContainer reports whether v is an array or an object.
func (v Value) IsContainer() bool { return v.kind == KindArray || v.kind == KindObject }

// BoolValue returns the boolean payload; false for other kinds.
func (v Value) BoolValue() bool { return v.kind == KindBool && v.b }

// Str returns the string payload; empty for other kinds.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// NumberLiteral returns the number as written in the source.
func (v Value) NumberLiteral() json.Number {
	if v.kind != KindNumber {
		return ""
	}
	return json.Number(v.s)
}

// Float64 returns the numeric value. Literals beyond the float64 range
// saturate to an infinity. ok is false for non-numbers.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// Len returns the number of elements or members; zero for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// Index returns the i-th array element.
func (v Value) Index(i int) Value {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Null()
	}
	return v.arr[i]
}

// Items returns the array elements. The returned slice must not be modified.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Members returns the object members in order. The returned slice must not be modified.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	return v.obj.members
}

// Keys returns the object keys in order.
func (v Value) Keys() []string {
	members := v.Members()
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = m.Key
	}
	return keys
}

// Get looks up an object member.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Null(), false
	}
	i, ok := v.obj.index[key]
	if !ok {
		return Null(), false
	}
	return v.obj.members[i].Value, true
}

// Equal reports deep equality. Numbers are equal when their numeric values are.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindNumber:
		if v.s == o.s {
			return true
		}
		a, aok := v.Float64()
		b, bok := o.Float64()
		return aok && bok && a == b
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != o.obj.Len() {
			return false
		}
		for i, m := range v.obj.members {
			om := o.obj.members[i]
			if m.Key != om.Key || !m.Value.Equal(om.Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Canonical returns the compact serialization of v with members in
// insertion order. The result is deterministic for a given value.
func (v Value) Canonical() string {
	var sb strings.Builder
	v.writeTo(&sb)
	return sb.String()
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.Canonical() }

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.Canonical()), nil
}

func (v Value) writeTo(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		sb.WriteString(v.s)
	case KindString:
		WriteQuoted(sb, v.s)
	case KindArray:
		sb.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.writeTo(sb)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, m := range v.obj.members {
			if i > 0 {
				sb.WriteByte(',')
			}
			WriteQuoted(sb, m.Key)
			sb.WriteByte(':')
			m.Value.writeTo(sb)
		}
		sb.WriteByte('}')
	}
}

const hexDigits = "0123456789abcdef"

// Quote returns s as a JSON string literal. HTML characters are not escaped.
func Quote(s string) string {
	var sb strings.Builder
	WriteQuoted(&sb, s)
	return sb.String()
}

// WriteQuoted writes s as a JSON string literal.
func WriteQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\u2028', '\u2029':
			sb.WriteString(`\u202`)
			sb.WriteByte(hexDigits[r&0xF])
		default:
			if r < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigits[r>>4])
				sb.WriteByte(hexDigits[r&0xF])
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}

// Cell is the content of a row at a column: a value, or absent when the
// row has no such key. Absent is distinct from a present null.
type Cell struct {
	Value   Value
	Present bool
}

// CellOf returns a present cell.
func CellOf(v Value) Cell { return Cell{Value: v, Present: true} }

// Absent returns the absent cell.
func Absent() Cell { return Cell{} }
