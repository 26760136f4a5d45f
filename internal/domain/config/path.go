package config

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

// SplitPath splits a dot path into its keys
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// JoinPath joins keys into a dot path, skipping empty segments
func JoinPath(keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			parts = append(parts, k)
		}
	}
	return strings.Join(parts, ".")
}

// Get resolves a dot path. Null leaves count as absent.
func (v Value) Get(path string) (Value, bool) {
	current := v
	for _, key := range SplitPath(path) {
		child, ok := current.Field(key)
		if !ok {
			return Value{}, false
		}
		current = child
	}
	if current.kind == KindNull {
		return Value{}, false
	}
	return current, true
}

func (v Value) Has(path string) bool {
	_, ok := v.Get(path)
	return ok
}

// Set returns a copy of v with path set, creating intermediate mappings
func (v Value) Set(path string, child Value) Value {
	keys := SplitPath(path)
	if len(keys) == 0 {
		return child
	}
	return v.setKeys(keys, child)
}

func (v Value) setKeys(keys []string, child Value) Value {
	if len(keys) == 1 {
		return v.With(keys[0], child)
	}
	next, _ := v.Field(keys[0])
	return v.With(keys[0], next.setKeys(keys[1:], child))
}

// Delete returns a copy of v with path removed. Missing paths are a no-op.
func (v Value) Delete(path string) Value {
	keys := SplitPath(path)
	if len(keys) == 0 || !v.Has(path) {
		return v
	}
	return v.deleteKeys(keys)
}

func (v Value) deleteKeys(keys []string) Value {
	if len(keys) == 1 {
		return v.Without(keys[0])
	}
	next, ok := v.Field(keys[0])
	if !ok {
		return v
	}
	return v.With(keys[0], next.deleteKeys(keys[1:]))
}

// Float reads a numeric leaf
func (v Value) Float(path string) (float64, error) {
	leaf, ok := v.Get(path)
	if !ok {
		return 0, shared.NewMissingInputsError([]string{path})
	}
	f, ok := leaf.AsFloat()
	if !ok {
		return 0, shared.NewConfigurationError(path, fmt.Sprintf("expected a number, got %s", leaf.kind))
	}
	return f, nil
}

// FloatOr reads a numeric leaf, falling back to def when absent or not numeric
func (v Value) FloatOr(path string, def float64) float64 {
	f, err := v.Float(path)
	if err != nil {
		return def
	}
	return f
}

func (v Value) Int(path string) (int, error) {
	leaf, ok := v.Get(path)
	if !ok {
		return 0, shared.NewMissingInputsError([]string{path})
	}
	i, ok := leaf.AsInt()
	if !ok {
		return 0, shared.NewConfigurationError(path, fmt.Sprintf("expected an integer, got %s", leaf))
	}
	return i, nil
}

func (v Value) IntOr(path string, def int) int {
	i, err := v.Int(path)
	if err != nil {
		return def
	}
	return i
}

func (v Value) Str(path string) (string, error) {
	leaf, ok := v.Get(path)
	if !ok {
		return "", shared.NewMissingInputsError([]string{path})
	}
	s, ok := leaf.AsString()
	if !ok {
		return "", shared.NewConfigurationError(path, fmt.Sprintf("expected a string, got %s", leaf.kind))
	}
	return s, nil
}

func (v Value) StrOr(path string, def string) string {
	s, err := v.Str(path)
	if err != nil {
		return def
	}
	return s
}

func (v Value) BoolOr(path string, def bool) bool {
	leaf, ok := v.Get(path)
	if !ok {
		return def
	}
	b, ok := leaf.AsBool()
	if !ok {
		return def
	}
	return b
}

// MapAt reads a mapping node; absent paths yield an empty mapping
func (v Value) MapAt(path string) Value {
	leaf, ok := v.Get(path)
	if !ok || leaf.kind != KindMap {
		return EmptyMap()
	}
	return leaf
}

// Leaves returns the dot paths of every non-map node under v, sorted
func (v Value) Leaves() []string {
	var out []string
	var walk func(prefix string, node Value)
	walk = func(prefix string, node Value) {
		if node.kind != KindMap || len(node.m) == 0 {
			if prefix != "" {
				out = append(out, prefix)
			}
			return
		}
		for _, k := range node.Keys() {
			walk(JoinPath(prefix, k), node.m[k])
		}
	}
	walk("", v)
	return out
}
