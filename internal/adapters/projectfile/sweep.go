package projectfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
)

// Sweep is a parametric study: a base project and the values to try for
// each dot path
type Sweep struct {
	Name        string
	Base        *Document
	Parameters  map[string][]config.Value
	Outputs     []string
	Concurrency int
}

type sweepFile struct {
	Name        string                   `mapstructure:"name"`
	Base        string                   `mapstructure:"base"`
	Parameters  map[string][]interface{} `mapstructure:"parameters"`
	Outputs     []string                 `mapstructure:"outputs"`
	Concurrency int                      `mapstructure:"concurrency"`
}

// LoadSweep reads a sweep definition. base is a project file path relative
// to the sweep file.
func LoadSweep(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sweep file: %w", err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var f sweepFile
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &f,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Base == "" {
		return nil, fmt.Errorf("%s: base project is required", path)
	}
	if len(f.Parameters) == 0 {
		return nil, fmt.Errorf("%s: at least one parameter is required", path)
	}

	basePath := f.Base
	if !filepath.IsAbs(basePath) {
		basePath = filepath.Join(filepath.Dir(path), basePath)
	}
	base, err := LoadDocument(basePath)
	if err != nil {
		return nil, err
	}

	s := &Sweep{
		Name:        f.Name,
		Base:        base,
		Parameters:  make(map[string][]config.Value, len(f.Parameters)),
		Outputs:     f.Outputs,
		Concurrency: f.Concurrency,
	}
	if s.Name == "" {
		s.Name = base.Name + "-sweep"
	}
	for p, values := range f.Parameters {
		if len(values) == 0 {
			return nil, fmt.Errorf("%s: parameter %s has no values", path, p)
		}
		for _, v := range values {
			cv, err := config.FromAny(v)
			if err != nil {
				return nil, fmt.Errorf("%s: parameter %s: %w", path, p, err)
			}
			s.Parameters[p] = append(s.Parameters[p], cv)
		}
	}
	return s, nil
}

// ParameterPaths returns the swept paths in sorted order
func (s *Sweep) ParameterPaths() []string {
	paths := make([]string, 0, len(s.Parameters))
	for p := range s.Parameters {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
