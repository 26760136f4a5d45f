package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/orbit-go/internal/domain/phase"
)

const simulationSubsystem = "simulation"

// SimulationMetricsCollector records phase and project outcomes of
// project runs. It satisfies project.MetricsRecorder.
type SimulationMetricsCollector struct {
	phaseHours    *prometheus.HistogramVec
	phaseCost     *prometheus.GaugeVec
	phaseFailures *prometheus.CounterVec
	projectCapex  prometheus.Gauge
	runsTotal     *prometheus.CounterVec
}

// NewSimulationMetricsCollector creates the collector; call Register before use
func NewSimulationMetricsCollector() *SimulationMetricsCollector {
	return &SimulationMetricsCollector{
		// Simulated hours, not wall time
		phaseHours: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: simulationSubsystem,
				Name:      "phase_duration_hours",
				Help:      "Simulated duration of installation phases",
				Buckets:   []float64{24, 168, 720, 2160, 4380, 8760, 17520},
			},
			[]string{"phase"},
		),

		phaseCost: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: simulationSubsystem,
				Name:      "phase_cost_usd",
				Help:      "Cost of the last run of each phase",
			},
			[]string{"phase", "kind"},
		),

		phaseFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: simulationSubsystem,
				Name:      "phase_failures_total",
				Help:      "Phases that failed during a run",
			},
			[]string{"phase", "kind"},
		),

		projectCapex: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: simulationSubsystem,
				Name:      "project_total_capex_usd",
				Help:      "Total capex of the last finished project",
			},
		),

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: simulationSubsystem,
				Name:      "project_runs_total",
				Help:      "Finished project runs by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// Register registers all simulation metrics with reg
func (c *SimulationMetricsCollector) Register(reg prometheus.Registerer) error {
	return registerAll(reg,
		c.phaseHours,
		c.phaseCost,
		c.phaseFailures,
		c.projectCapex,
		c.runsTotal,
	)
}

// RecordPhase records a finished phase. Design phases have no duration.
func (c *SimulationMetricsCollector) RecordPhase(name string, kind phase.Kind, hours, cost float64) {
	if kind == phase.KindInstall {
		c.phaseHours.WithLabelValues(name).Observe(hours)
	}
	c.phaseCost.WithLabelValues(name, string(kind)).Set(cost)
}

// RecordPhaseFailure counts a failed phase
func (c *SimulationMetricsCollector) RecordPhaseFailure(name string, kind phase.Kind) {
	c.phaseFailures.WithLabelValues(name, string(kind)).Inc()
}

// RecordProject records a finished project run
func (c *SimulationMetricsCollector) RecordProject(totalCapex float64, partial bool) {
	outcome := "complete"
	if partial {
		outcome = "partial"
	}
	c.projectCapex.Set(totalCapex)
	c.runsTotal.WithLabelValues(outcome).Inc()
}
