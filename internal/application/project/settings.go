// Package project holds the wiring shared by the project commands and
// queries.
package project

import (
	"log/slog"

	"github.com/andrescamacho/orbit-go/internal/domain/defaults"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	domainProject "github.com/andrescamacho/orbit-go/internal/domain/project"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

// RegistryFactory returns a registry for one project. Sweeps call it once
// per case.
type RegistryFactory func() *phase.Registry

// Settings are the run options fixed by the application config
type Settings struct {
	Library           *defaults.Library
	MaxHours          float64
	ContinueOnFailure bool
	MergePolicy       domainProject.MergePolicy
	Metrics           domainProject.MetricsRecorder
	Clock             shared.Clock
}

// Options builds the orchestrator options for one run
func (s Settings) Options(logger *slog.Logger, series *weather.Series) domainProject.Options {
	return domainProject.Options{
		Library:           s.Library,
		Weather:           series,
		MaxHours:          s.MaxHours,
		ContinueOnFailure: s.ContinueOnFailure,
		MergePolicy:       s.MergePolicy,
		Logger:            logger,
		Metrics:           s.Metrics,
		Clock:             s.Clock,
	}
}
