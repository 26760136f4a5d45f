// Package catalog assembles the registry of built-in phases
package catalog

import (
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/phase/design"
	"github.com/andrescamacho/orbit-go/internal/domain/phase/install"
)

// Register adds every built-in phase to r
func Register(r *phase.Registry) error {
	regs := append(design.Registrations(), install.Registrations()...)
	for _, reg := range regs {
		if err := r.Register(reg); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a fresh registry holding the built-in phases
func NewRegistry() *phase.Registry {
	r := phase.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}
