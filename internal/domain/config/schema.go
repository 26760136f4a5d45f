package config

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

// Field describes one expected configuration leaf
type Field struct {
	Unit        string
	Optional    bool
	Default     *Value
	Description string
}

// Required is a shorthand for a required leaf with the given unit
func Required(unit string) Field {
	return Field{Unit: unit}
}

// Optional is a shorthand for an optional leaf with no default
func Optional(unit string) Field {
	return Field{Unit: unit, Optional: true}
}

// OptionalDefault is a shorthand for an optional leaf with a default value
func OptionalDefault(unit string, def Value) Field {
	return Field{Unit: unit, Optional: true, Default: &def}
}

// Label renders the field the way expected-config tables print it, e.g.
// "m", "int (optional)" or "USD/mo (optional, default: 2000000)".
func (f Field) Label() string {
	if !f.Optional {
		return f.Unit
	}
	if f.Default != nil {
		return fmt.Sprintf("%s (optional, default: %s)", f.Unit, f.Default.String())
	}
	return fmt.Sprintf("%s (optional)", f.Unit)
}

// Schema maps dot paths to expected leaves
type Schema map[string]Field

// Paths returns every path in sorted order
func (s Schema) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Required returns the sorted paths of required leaves
func (s Schema) Required() []string {
	var paths []string
	for p, f := range s {
		if !f.Optional {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// Copy returns a shallow copy of the schema
func (s Schema) Copy() Schema {
	out := make(Schema, len(s))
	for p, f := range s {
		out[p] = f
	}
	return out
}

// Union merges other into a copy of s. A leaf is optional only when optional
// in both; a later unit or default replaces an earlier one.
func (s Schema) Union(other Schema) Schema {
	out := s.Copy()
	for p, f := range other {
		existing, ok := out[p]
		if !ok {
			out[p] = f
			continue
		}
		merged := existing
		merged.Optional = existing.Optional && f.Optional
		if f.Unit != "" {
			merged.Unit = f.Unit
		}
		if f.Default != nil {
			merged.Default = f.Default
		}
		if f.Description != "" {
			merged.Description = f.Description
		}
		out[p] = merged
	}
	return out
}

// Without removes every path equal to or nested under a path of outputs
func (s Schema) Without(outputs Schema) Schema {
	out := make(Schema, len(s))
	for p, f := range s {
		if !coveredBy(p, outputs) {
			out[p] = f
		}
	}
	return out
}

func coveredBy(path string, outputs Schema) bool {
	for o := range outputs {
		if path == o || strings.HasPrefix(path, o+".") {
			return true
		}
	}
	return false
}

// Produces reports whether any output path provides path
func (s Schema) Produces(path string) bool {
	return coveredBy(path, s) || s.hasUnder(path)
}

func (s Schema) hasUnder(prefix string) bool {
	for p := range s {
		if strings.HasPrefix(p, prefix+".") {
			return true
		}
	}
	return false
}

// CompileSchema unions any number of schemas
func CompileSchema(schemas ...Schema) Schema {
	out := Schema{}
	for _, s := range schemas {
		out = out.Union(s)
	}
	return out
}

// Value renders the schema as a nested configuration tree of labels
func (s Schema) Value() Value {
	out := EmptyMap()
	for _, p := range s.Paths() {
		out = out.Set(p, String(s[p].Label()))
	}
	return out
}

var labelPattern = regexp.MustCompile(`^(.*?)\s*\(optional(?:,\s*default:\s*(.*))?\)\s*$`)

// ParseSchema reads a nested tree of labels back into a Schema
func ParseSchema(v Value) (Schema, error) {
	out := Schema{}
	for _, p := range v.Leaves() {
		leaf, _ := v.Get(p)
		label, ok := leaf.AsString()
		if !ok {
			return nil, shared.NewConfigurationError(p, "schema leaves must be strings")
		}
		out[p] = parseLabel(label)
	}
	return out, nil
}

func parseLabel(label string) Field {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return Field{Unit: strings.TrimSpace(label)}
	}
	f := Field{Unit: strings.TrimSpace(m[1]), Optional: true}
	if def := strings.TrimSpace(m[2]); def != "" {
		var dv Value
		if n, err := strconv.ParseFloat(def, 64); err == nil {
			dv = Number(n)
		} else if b, err := strconv.ParseBool(def); err == nil {
			dv = Bool(b)
		} else {
			dv = String(def)
		}
		f.Default = &dv
	}
	return f
}

// Validate checks every required path of schema against cfg and reports all
// absent paths in one MissingInputsError.
func Validate(cfg Value, schema Schema) error {
	return ValidatePaths(cfg, schema.Required())
}

// ValidatePaths reports every absent path in one MissingInputsError
func ValidatePaths(cfg Value, paths []string) error {
	var missing []string
	for _, p := range paths {
		if !cfg.Has(p) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return shared.NewMissingInputsError(missing)
	}
	return nil
}

// ApplyDefaults fills absent optional leaves that declare a default
func ApplyDefaults(cfg Value, schema Schema) Value {
	out := cfg
	for _, p := range schema.Paths() {
		f := schema[p]
		if f.Default != nil && !out.Has(p) {
			out = out.Set(p, *f.Default)
		}
	}
	return out
}
