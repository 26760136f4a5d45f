package phase

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

// Registry maps phase names to registrations
type Registry struct {
	mu   sync.RWMutex
	regs map[string]Registration
}

func NewRegistry() *Registry {
	return &Registry{regs: make(map[string]Registration)}
}

// Register adds a registration; names are unique
func (r *Registry) Register(reg Registration) error {
	if reg.Name == "" {
		return fmt.Errorf("phase registration requires a name")
	}
	switch reg.Kind {
	case KindDesign:
		if reg.NewDesign == nil {
			return fmt.Errorf("design phase %s has no constructor", reg.Name)
		}
	case KindInstall:
		if reg.NewInstall == nil {
			return fmt.Errorf("install phase %s has no constructor", reg.Name)
		}
	default:
		return fmt.Errorf("phase %s has unknown kind %q", reg.Name, reg.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.regs[reg.Name]; exists {
		return fmt.Errorf("phase %s is already registered", reg.Name)
	}
	r.regs[reg.Name] = reg
	return nil
}

// MustRegister panics on registration errors
func (r *Registry) MustRegister(regs ...Registration) {
	for _, reg := range regs {
		if err := r.Register(reg); err != nil {
			panic(err)
		}
	}
}

// BaseName strips an instance suffix: "MonopileInstallation_2" and
// "MonopileInstallation 2" both resolve to "MonopileInstallation"
func BaseName(name string) string {
	if i := strings.IndexAny(name, "_ "); i > 0 {
		return name[:i]
	}
	return name
}

// Lookup resolves a phase name, falling back to its base name
func (r *Registry) Lookup(name string) (Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if reg, ok := r.regs[name]; ok {
		return reg, nil
	}
	if reg, ok := r.regs[BaseName(name)]; ok {
		return reg, nil
	}
	return Registration{}, shared.NewPhaseNotFoundError(name)
}

// Names returns registered names of the given kind, sorted; an empty kind
// returns all
func (r *Registry) Names(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name, reg := range r.regs {
		if kind == "" || reg.Kind == kind {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ExpectedConfig returns a phase's expected schema by name
func (r *Registry) ExpectedConfig(name string) (config.Schema, error) {
	reg, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return reg.Expected.Copy(), nil
}
