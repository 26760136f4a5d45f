// Package defaults holds the built-in process times, common costs and the
// vessel and cable libraries phases fall back on when a project leaves a
// value unset.
package defaults

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

//go:embed library.yaml
var builtin []byte

// ProcessOverrideKey is the phase config key whose entries override process times
const ProcessOverrideKey = "processes"

// Library is an immutable set of defaults
type Library struct {
	processTimes map[string]float64
	commonCosts  map[string]float64
	vessels      map[string]config.Value
	cables       map[string]config.Value
}

type libraryFile struct {
	ProcessTimes map[string]float64     `yaml:"process_times"`
	CommonCosts  map[string]float64     `yaml:"common_costs"`
	Vessels      map[string]interface{} `yaml:"vessels"`
	Cables       map[string]interface{} `yaml:"cables"`
}

var (
	loadOnce sync.Once
	loaded   *Library
	loadErr  error
)

// Builtin returns the embedded library, parsing it on first use
func Builtin() (*Library, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(builtin)
	})
	return loaded, loadErr
}

// MustBuiltin is Builtin for callers that treat a broken embedded file as a bug
func MustBuiltin() *Library {
	lib, err := Builtin()
	if err != nil {
		panic(fmt.Sprintf("embedded defaults library: %v", err))
	}
	return lib
}

// Parse decodes a library document
func Parse(data []byte) (*Library, error) {
	var f libraryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse defaults library: %w", err)
	}

	lib := &Library{
		processTimes: f.ProcessTimes,
		commonCosts:  f.CommonCosts,
		vessels:      map[string]config.Value{},
		cables:       map[string]config.Value{},
	}
	if lib.processTimes == nil {
		lib.processTimes = map[string]float64{}
	}
	if lib.commonCosts == nil {
		lib.commonCosts = map[string]float64{}
	}

	for name, raw := range f.Vessels {
		v, err := config.FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("vessel %s: %w", name, err)
		}
		lib.vessels[name] = v
	}
	for name, raw := range f.Cables {
		v, err := config.FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("cable %s: %w", name, err)
		}
		lib.cables[name] = v
	}
	return lib, nil
}

// WithVessels returns a copy of the library with extra vessels added;
// entries with an existing name replace the library entry
func (l *Library) WithVessels(extra map[string]config.Value) *Library {
	out := l.clone()
	for name, v := range extra {
		out.vessels[name] = v
	}
	return out
}

// WithCables is WithVessels for the cable library
func (l *Library) WithCables(extra map[string]config.Value) *Library {
	out := l.clone()
	for name, v := range extra {
		out.cables[name] = v
	}
	return out
}

func (l *Library) clone() *Library {
	out := &Library{
		processTimes: make(map[string]float64, len(l.processTimes)),
		commonCosts:  make(map[string]float64, len(l.commonCosts)),
		vessels:      make(map[string]config.Value, len(l.vessels)),
		cables:       make(map[string]config.Value, len(l.cables)),
	}
	for k, v := range l.processTimes {
		out.processTimes[k] = v
	}
	for k, v := range l.commonCosts {
		out.commonCosts[k] = v
	}
	for k, v := range l.vessels {
		out.vessels[k] = v
	}
	for k, v := range l.cables {
		out.cables[k] = v
	}
	return out
}

// ProcessTime returns a default process time, 0 when unknown
func (l *Library) ProcessTime(key string) float64 {
	return l.processTimes[key]
}

// Process returns the process time for key, preferring a value set under
// processes.<key> in the phase config
func (l *Library) Process(cfg config.Value, key string) float64 {
	return cfg.FloatOr(config.JoinPath(ProcessOverrideKey, key), l.processTimes[key])
}

// CommonCost returns a default cost, 0 when unknown
func (l *Library) CommonCost(key string) float64 {
	return l.commonCosts[key]
}

// Cost returns cfg[path] when set, otherwise the common cost stored under key
func (l *Library) Cost(cfg config.Value, path, key string) float64 {
	return cfg.FloatOr(path, l.commonCosts[key])
}

// Vessel looks up a library vessel by name
func (l *Library) Vessel(name string) (config.Value, bool) {
	v, ok := l.vessels[name]
	return v, ok
}

// Vessels returns the library vessel names in sorted order
func (l *Library) Vessels() []string {
	return sortedKeys(l.vessels)
}

// Cable looks up a library cable by name
func (l *Library) Cable(name string) (config.Value, bool) {
	v, ok := l.cables[name]
	return v, ok
}

func (l *Library) Cables() []string {
	return sortedKeys(l.cables)
}

// ResolveVessel turns a vessel reference into specs. A string names a
// library vessel; a mapping is used as is. path is reported on failure.
func (l *Library) ResolveVessel(path string, ref config.Value) (config.Value, error) {
	return resolve(path, ref, l.vessels, "vessel")
}

// ResolveCable is ResolveVessel for cables
func (l *Library) ResolveCable(path string, ref config.Value) (config.Value, error) {
	return resolve(path, ref, l.cables, "cable")
}

func resolve(path string, ref config.Value, entries map[string]config.Value, kind string) (config.Value, error) {
	switch {
	case ref.IsMap():
		return ref, nil
	case ref.IsString():
		name, _ := ref.AsString()
		v, ok := entries[name]
		if !ok {
			return config.Value{}, shared.NewConfigurationError(path, fmt.Sprintf("%s %q not found in library", kind, name))
		}
		return v, nil
	case ref.IsNull():
		return config.Value{}, shared.NewMissingInputsError([]string{path})
	default:
		return config.Value{}, shared.NewConfigurationError(path, fmt.Sprintf("expected a %s name or mapping, got %s", kind, ref.Kind()))
	}
}

func sortedKeys(m map[string]config.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ProcessTimes resolves process times for one phase config
type ProcessTimes struct {
	lib *Library
	cfg config.Value
}

// Times binds the library to a phase config so processes.<key> overrides apply
func (l *Library) Times(cfg config.Value) ProcessTimes {
	return ProcessTimes{lib: l, cfg: cfg}
}

func (p ProcessTimes) Get(key string) float64 {
	return p.lib.Process(p.cfg, key)
}
