package project

import (
	"io"
	"log/slog"

	"github.com/andrescamacho/orbit-go/internal/domain/defaults"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

// MergePolicy decides which design phase wins when two produce the same path.
// Values given explicitly in the project config always win.
type MergePolicy string

const (
	FirstProducerWins MergePolicy = "first_producer_wins"
	LastProducerWins  MergePolicy = "last_producer_wins"
)

// ParseMergePolicy accepts the config spelling of a policy; empty means
// FirstProducerWins
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(s) {
	case "", FirstProducerWins:
		return FirstProducerWins, nil
	case LastProducerWins:
		return LastProducerWins, nil
	}
	return "", shared.NewConfigurationError("simulation.output_merge_policy", "must be first_producer_wins or last_producer_wins")
}

// MetricsRecorder receives phase and project outcomes
type MetricsRecorder interface {
	RecordPhase(name string, kind phase.Kind, hours, cost float64)
	RecordPhaseFailure(name string, kind phase.Kind)
	RecordProject(totalCapex float64, partial bool)
}

type noopMetrics struct{}

func (noopMetrics) RecordPhase(string, phase.Kind, float64, float64) {}
func (noopMetrics) RecordPhaseFailure(string, phase.Kind)            {}
func (noopMetrics) RecordProject(float64, bool)                      {}

// Options configures a project run
type Options struct {
	Library *defaults.Library
	// Weather is the full site series; nil runs without weather limits
	Weather  *weather.Series
	MaxHours float64
	// ContinueOnFailure records phase errors instead of aborting the run
	ContinueOnFailure bool
	MergePolicy       MergePolicy
	Logger            *slog.Logger
	Metrics           MetricsRecorder
	Clock             shared.Clock
}

func (o Options) withDefaults() Options {
	if o.Library == nil {
		o.Library = defaults.MustBuiltin()
	}
	if o.MergePolicy == "" {
		o.MergePolicy = FirstProducerWins
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Metrics == nil {
		o.Metrics = noopMetrics{}
	}
	if o.Clock == nil {
		o.Clock = shared.NewRealClock()
	}
	return o
}
