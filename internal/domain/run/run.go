// Package run records project runs so they can be listed and inspected
// after the process that produced them exits.
package run

import (
	"fmt"
	"sort"
	"time"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/project"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
)

// Status of a run
type Status string

const (
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusPartial   Status = "PARTIAL"
	StatusFailed    Status = "FAILED"
)

// PhaseResult is the per-phase summary of a run
type PhaseResult struct {
	Name             string
	Kind             phase.Kind
	Category         string
	Start            float64
	Duration         float64
	SystemCost       float64
	InstallationCost float64
	Error            string
}

func (p PhaseResult) Failed() bool { return p.Error != "" }

// Run is one execution of a project document
type Run struct {
	ID         RunID
	Name       string
	Status     Status
	Config     config.Value
	StartedAt  time.Time
	FinishedAt *time.Time
	Error      string

	TotalCapex       float64
	BOSCapex         float64
	InstallationTime float64
	ProjectTime      float64
	NPV              *float64

	Phases  []PhaseResult
	Actions []simulation.Action
	Outputs config.Value
}

// NewRun starts a run record for cfg
func NewRun(name string, cfg config.Value, clock shared.Clock) *Run {
	if clock == nil {
		clock = &shared.RealClock{}
	}
	return &Run{
		ID:        NewRunID(),
		Name:      name,
		Status:    StatusRunning,
		Config:    cfg,
		StartedAt: clock.Now(),
	}
}

// Complete copies the figures of res into the run
func (r *Run) Complete(res *project.Result, clock shared.Clock) error {
	if r.Status != StatusRunning {
		return fmt.Errorf("cannot complete run %s in status %s", r.ID.Short(), r.Status)
	}
	r.finish(clock)
	r.Status = StatusCompleted
	if res.Partial {
		r.Status = StatusPartial
	}

	r.TotalCapex = res.Capex.Total()
	r.BOSCapex = res.Capex.BOS()
	r.InstallationTime = res.InstallationTime
	r.ProjectTime = res.ProjectTime
	if res.Finance != nil {
		npv := res.Finance.NPV
		r.NPV = &npv
	}
	r.Actions = res.Actions
	r.Outputs = res.Outputs(false)
	r.Phases = phaseResults(res)
	return nil
}

// Fail marks the run failed with err
func (r *Run) Fail(err error, clock shared.Clock) error {
	if r.Status != StatusRunning {
		return fmt.Errorf("cannot fail run %s in status %s", r.ID.Short(), r.Status)
	}
	r.finish(clock)
	r.Status = StatusFailed
	r.Error = err.Error()
	return nil
}

func (r *Run) finish(clock shared.Clock) {
	if clock == nil {
		clock = &shared.RealClock{}
	}
	now := clock.Now()
	r.FinishedAt = &now
}

// Elapsed is the wall-clock duration of a finished run
func (r *Run) Elapsed() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func phaseResults(res *project.Result) []PhaseResult {
	names := map[string]bool{}
	for name := range res.Categories {
		names[name] = true
	}
	for _, f := range res.Failures {
		names[f.Phase] = true
	}

	out := make([]PhaseResult, 0, len(names))
	for name := range names {
		kind := phase.KindDesign
		if _, ok := res.PhaseTimes[name]; ok {
			kind = phase.KindInstall
		}
		p := PhaseResult{
			Name:             name,
			Kind:             kind,
			Category:         res.Categories[name],
			Start:            res.PhaseStarts[name],
			Duration:         res.PhaseTimes[name],
			SystemCost:       res.SystemCosts[name],
			InstallationCost: res.InstallationCosts[name],
		}
		for _, f := range res.Failures {
			if f.Phase == name {
				p.Kind = f.Kind
				p.Error = f.Err.Error()
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].Name < out[j].Name
	})
	return out
}
