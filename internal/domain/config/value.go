// Package config models project configuration as an immutable tree of values
// addressed by dot paths, with the merge and validation rules used when
// phases are composed into a project.
package config

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// Kind identifies the variant held by a Value
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindMap
	KindSeq
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindSeq:
		return "sequence"
	default:
		return "null"
	}
}

// Value is a tagged union of scalar, mapping and sequence configuration nodes.
// Values are never mutated after construction; every update returns a new tree
// sharing untouched branches with the original.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	m    map[string]Value
	seq  []Value
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

func Int(i int) Value { return Value{kind: KindNumber, n: float64(i)} }

func String(s string) Value { return Value{kind: KindString, s: s} }

// Map builds a mapping node. The input map is copied.
func Map(entries map[string]Value) Value {
	m := make(map[string]Value, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return Value{kind: KindMap, m: m}
}

// EmptyMap returns a mapping node with no keys
func EmptyMap() Value { return Value{kind: KindMap, m: map[string]Value{}} }

// Seq builds a sequence node
func Seq(items ...Value) Value {
	return Value{kind: KindSeq, seq: append([]Value(nil), items...)}
}

// Strings builds a sequence of string nodes
func Strings(items ...string) Value {
	seq := make([]Value, len(items))
	for i, s := range items {
		seq[i] = String(s)
	}
	return Value{kind: KindSeq, seq: seq}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsMap() bool { return v.kind == KindMap }
func (v Value) IsSeq() bool { return v.kind == KindSeq }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsString() bool { return v.kind == KindString }

// AsFloat returns the numeric value. Numeric strings are accepted.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindString:
		f, err := strconv.ParseFloat(v.s, 64)
		return f, err == nil
	}
	return 0, false
}

// AsInt returns the value as an int when it is integral
func (v Value) AsInt() (int, bool) {
	f, ok := v.AsFloat()
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func (v Value) AsString() (string, bool) {
	if v.kind == KindString {
		return v.s, true
	}
	return "", false
}

func (v Value) AsBool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// Len is the number of keys or items; zero for scalars
func (v Value) Len() int {
	switch v.kind {
	case KindMap:
		return len(v.m)
	case KindSeq:
		return len(v.seq)
	}
	return 0
}

// Keys returns the mapping keys in sorted order
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Field returns the direct child for key
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	child, ok := v.m[key]
	if !ok || child.kind == KindNull {
		return Value{}, false
	}
	return child, true
}

// Items returns a copy of the sequence items
func (v Value) Items() []Value {
	if v.kind != KindSeq {
		return nil
	}
	return append([]Value(nil), v.seq...)
}

// Entries returns a copy of the mapping entries
func (v Value) Entries() map[string]Value {
	if v.kind != KindMap {
		return nil
	}
	out := make(map[string]Value, len(v.m))
	for k, child := range v.m {
		out[k] = child
	}
	return out
}

// With returns a copy of the mapping with key set to child. Non-map receivers
// are replaced by a fresh mapping.
func (v Value) With(key string, child Value) Value {
	m := make(map[string]Value, len(v.m)+1)
	if v.kind == KindMap {
		for k, c := range v.m {
			m[k] = c
		}
	}
	m[key] = child
	return Value{kind: KindMap, m: m}
}

// Without returns a copy of the mapping with key removed
func (v Value) Without(keys ...string) Value {
	if v.kind != KindMap {
		return v
	}
	m := make(map[string]Value, len(v.m))
	for k, c := range v.m {
		m[k] = c
	}
	for _, k := range keys {
		delete(m, k)
	}
	return Value{kind: KindMap, m: m}
}

// Equal reports deep equality
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindSeq:
		if len(v.seq) != len(other.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(other.seq[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, child := range v.m {
			o, ok := other.m[k]
			if !ok || !child.Equal(o) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case KindString:
		return v.s
	case KindSeq, KindMap:
		return fmt.Sprintf("%v", v.ToAny())
	}
	return "null"
}

// FromAny converts decoded YAML/JSON data into a Value
func FromAny(x interface{}) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float32:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case string:
		return String(t), nil
	case time.Time:
		return String(t.Format("01/02/2006 15:04")), nil
	case []string:
		return Strings(t...), nil
	case []float64:
		seq := make([]Value, len(t))
		for i, f := range t {
			seq[i] = Number(f)
		}
		return Value{kind: KindSeq, seq: seq}, nil
	case []interface{}:
		seq := make([]Value, len(t))
		for i, item := range t {
			child, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			seq[i] = child
		}
		return Value{kind: KindSeq, seq: seq}, nil
	case map[string]interface{}:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			child, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = child
		}
		return Value{kind: KindMap, m: m}, nil
	case map[interface{}]interface{}:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			child, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("%v: %w", k, err)
			}
			m[fmt.Sprint(k)] = child
		}
		return Value{kind: KindMap, m: m}, nil
	case map[string]float64:
		m := make(map[string]Value, len(t))
		for k, f := range t {
			m[k] = Number(f)
		}
		return Value{kind: KindMap, m: m}, nil
	case map[string]string:
		m := make(map[string]Value, len(t))
		for k, s := range t {
			m[k] = String(s)
		}
		return Value{kind: KindMap, m: m}, nil
	}
	return Value{}, fmt.Errorf("unsupported configuration value of type %T", x)
}

// MustFromAny is FromAny for literals known to be convertible
func MustFromAny(x interface{}) Value {
	v, err := FromAny(x)
	if err != nil {
		panic(err)
	}
	return v
}

// ToAny converts the tree back into plain Go values (map[string]interface{},
// []interface{}, float64, string, bool, nil). Integral numbers become int.
func (v Value) ToAny() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if v.n == math.Trunc(v.n) && math.Abs(v.n) < 1e15 {
			return int(v.n)
		}
		return v.n
	case KindString:
		return v.s
	case KindSeq:
		out := make([]interface{}, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.ToAny()
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.m))
		for k, item := range v.m {
			out[k] = item.ToAny()
		}
		return out
	}
	return nil
}
