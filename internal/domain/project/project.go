// Package project orchestrates design and installation phases into one
// project result: it resolves inputs, orders design phases by the outputs
// they consume, places installation phases on the weather timeline and
// aggregates their costs.
package project

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
)

// Project is a validated project configuration ready to run
type Project struct {
	registry   *phase.Registry
	cfg        config.Value
	opts       Options
	designs    []string
	schedule   Schedule
	regs       map[string]phase.Registration
	namespaces []string
}

// New resolves plant capacity and every phase name in cfg. Unknown phases
// are reported together as a PhaseNotFoundError.
func New(cfg config.Value, registry *phase.Registry, opts Options) (*Project, error) {
	cfg, err := ResolveCapacity(cfg)
	if err != nil {
		return nil, err
	}

	designs, err := designList(cfg)
	if err != nil {
		return nil, err
	}
	raw, _ := cfg.Get(KeyInstallPhases)
	schedule, err := ParseSchedule(raw)
	if err != nil {
		return nil, err
	}

	p := &Project{
		registry: registry,
		cfg:      cfg,
		opts:     opts.withDefaults(),
		designs:  designs,
		schedule: schedule,
		regs:     map[string]phase.Registration{},
	}

	var missing []string
	check := func(name string, kind phase.Kind) error {
		reg, err := registry.Lookup(name)
		if err != nil {
			missing = append(missing, name)
			return nil
		}
		if reg.Kind != kind {
			return shared.NewConfigurationError(name, fmt.Sprintf("is a %s phase", reg.Kind))
		}
		p.regs[name] = reg
		return nil
	}
	for _, name := range designs {
		if err := check(name, phase.KindDesign); err != nil {
			return nil, err
		}
	}
	for _, name := range schedule.Phases() {
		if err := check(name, phase.KindInstall); err != nil {
			return nil, err
		}
	}
	if len(missing) > 0 {
		return nil, phaseNotFound(missing)
	}

	seen := map[string]bool{}
	for _, name := range append(registry.Names(""), append(designs, schedule.Phases()...)...) {
		if !seen[name] {
			seen[name] = true
			p.namespaces = append(p.namespaces, name)
		}
	}
	return p, nil
}

func designList(cfg config.Value) ([]string, error) {
	raw, ok := cfg.Get(KeyDesignPhases)
	if !ok {
		return nil, nil
	}
	if s, ok := raw.AsString(); ok {
		return []string{s}, nil
	}
	if !raw.IsSeq() {
		return nil, shared.NewConfigurationError(KeyDesignPhases, "must be a list of phase names")
	}
	var names []string
	for _, item := range raw.Items() {
		s, ok := item.AsString()
		if !ok {
			return nil, shared.NewConfigurationError(KeyDesignPhases, "must be a list of phase names")
		}
		names = append(names, s)
	}
	return names, nil
}

func phaseNotFound(names []string) error {
	return shared.NewPhaseNotFoundError(strings.Join(names, ", "))
}

// Config returns the capacity-resolved project config
func (p *Project) Config() config.Value { return p.cfg }

// PhaseConfig returns the config a phase sees: general keys with the
// phase's own namespace merged on top
func (p *Project) PhaseConfig(name string) config.Value {
	return config.Namespace(p.cfg, name, p.namespaces)
}

// Validate checks everything Run checks before simulating: start specs,
// design order, financing parameters, and every phase's required inputs
// less the paths the listed design phases produce. Missing inputs of all
// phases are reported together, prefixed by phase name.
func (p *Project) Validate() error {
	if _, err := p.schedule.resolve(p.opts.Weather); err != nil {
		return err
	}
	if _, err := orderDesigns(p.designs, p.regs); err != nil {
		return err
	}
	if err := p.checkFinancing(); err != nil {
		return err
	}

	produced := config.Schema{}
	for _, name := range p.designs {
		produced = produced.Union(p.regs[name].Output)
	}
	var missing []string
	for _, name := range append(append([]string(nil), p.designs...), p.schedule.Phases()...) {
		err := config.Validate(p.PhaseConfig(name), p.regs[name].Expected.Without(produced))
		var inputs *shared.MissingInputsError
		if errors.As(err, &inputs) {
			for _, path := range inputs.Paths {
				missing = append(missing, name+": "+path)
			}
		}
	}
	if len(missing) > 0 {
		return shared.NewMissingInputsError(missing)
	}
	return nil
}

// Run executes design phases, then installation phases, and aggregates the
// result. Start specs, dependencies and project parameters are validated
// before any phase runs. Cancellation is observed between phases.
func (p *Project) Run(ctx context.Context) (*Result, error) {
	plan, err := p.schedule.resolve(p.opts.Weather)
	if err != nil {
		return nil, err
	}
	order, err := orderDesigns(p.designs, p.regs)
	if err != nil {
		return nil, err
	}
	if err := p.checkFinancing(); err != nil {
		return nil, err
	}

	r := &run{project: p, result: newResult(), cfg: p.cfg, designResults: config.EmptyMap(), ports: map[string]portRecord{}}
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.design(name); err != nil {
			return nil, err
		}
	}

	if plan.serial {
		err = r.installSerial(ctx, plan)
	} else {
		err = r.installPlanned(ctx, plan)
	}
	if err != nil {
		return nil, err
	}

	res, err := r.finish()
	if err != nil {
		return nil, err
	}
	p.opts.Metrics.RecordProject(res.Capex.Total(), res.Partial)
	p.opts.Logger.Info("project complete",
		"total_capex", res.Capex.Total(),
		"installation_time", res.InstallationTime,
		"failures", len(res.Failures))
	return res, nil
}

func (p *Project) checkFinancing() error {
	params := p.cfg.MapAt(KeyProjectParameters)
	if params.Has("construction_financing") || params.Has("construction_financing_factor") {
		return nil
	}
	_, err := ConstructionFinancingFactor(params)
	return err
}

// portRecord is one phase's port rental on the absolute timeline
type portRecord struct {
	phase string
	usage phase.PortUsage
	order int
}

// run is the mutable state of one Project.Run
type run struct {
	project       *Project
	result        *Result
	cfg           config.Value
	designResults config.Value
	designCosts   map[string]float64
	installed     map[string]bool
	starts        map[string]float64
	ports         map[string]portRecord
	zero          float64
}

func (r *run) opts() Options { return r.project.opts }

// fail records or returns a phase failure depending on ContinueOnFailure
func (r *run) fail(name string, kind phase.Kind, err error) error {
	var execErr *shared.PhaseExecutionError
	if !errors.As(err, &execErr) || execErr.Phase != name {
		execErr = shared.NewPhaseExecutionError(name, err)
	}
	r.opts().Logger.Error("phase failed", "phase", name, "kind", string(kind), "error", err)
	r.opts().Metrics.RecordPhaseFailure(name, kind)
	if !r.opts().ContinueOnFailure {
		return execErr
	}
	r.result.Failures = append(r.result.Failures, PhaseFailure{Phase: name, Kind: kind, Err: execErr})
	r.result.Partial = true
	return nil
}

func (r *run) design(name string) error {
	reg := r.project.regs[name]
	cfg := config.Namespace(r.cfg, name, r.project.namespaces)

	d, err := reg.NewDesign(cfg, phase.Options{Library: r.opts().Library, Clock: r.opts().Clock})
	if err != nil {
		return r.fail(name, phase.KindDesign, err)
	}
	if err := d.Run(); err != nil {
		return r.fail(name, phase.KindDesign, err)
	}
	result, err := d.DesignResult()
	if err != nil {
		return r.fail(name, phase.KindDesign, err)
	}
	cost, _ := d.TotalCost()
	detailed, _ := d.DetailedOutput()

	if r.opts().MergePolicy == LastProducerWins {
		r.designResults = config.Merge(r.designResults, result)
	} else {
		r.designResults = config.MergeMissing(r.designResults, result)
	}
	r.cfg = config.MergeMissing(r.project.cfg, r.designResults)
	if detailed.IsMap() {
		r.result.DetailedOutputs = config.Merge(r.result.DetailedOutputs, detailed)
	}
	if r.designCosts == nil {
		r.designCosts = map[string]float64{}
	}
	r.designCosts[name] = cost
	r.result.Categories[name] = reg.Category

	r.opts().Metrics.RecordPhase(name, phase.KindDesign, 0, cost)
	r.opts().Logger.Info("design phase complete",
		"phase", name,
		"cost", cost,
		"wall", wallTime(d))
	return nil
}

func (r *run) installSerial(ctx context.Context, plan *plan) error {
	cursor := 0.0
	for _, name := range plan.order {
		if err := ctx.Err(); err != nil {
			return err
		}
		elapsed, ok, err := r.install(ctx, name, cursor)
		if err != nil {
			return err
		}
		if ok {
			cursor += elapsed
		}
	}
	return nil
}

func (r *run) installPlanned(ctx context.Context, plan *plan) error {
	r.zero = plan.zero
	for _, name := range plan.order {
		if err := ctx.Err(); err != nil {
			return err
		}
		start, defined := plan.defined[name]
		if !defined {
			spec := plan.dependent[name]
			targetStart, ran := r.starts[spec.Target]
			if !ran {
				err := fmt.Errorf("depends on failed phase %s", spec.Target)
				if err := r.fail(name, phase.KindInstall, err); err != nil {
					return err
				}
				continue
			}
			start = dependentStart(spec, targetStart, r.result.PhaseTimes[spec.Target])
		}
		if _, _, err := r.install(ctx, name, start); err != nil {
			return err
		}
	}
	return nil
}

// install runs one installation phase starting at the absolute time start.
// ok is false when the phase failed and the failure was recorded.
func (r *run) install(ctx context.Context, name string, start float64) (elapsed float64, ok bool, err error) {
	reg := r.project.regs[name]
	cfg := config.Namespace(r.cfg, name, r.project.namespaces)
	opts := phase.Options{
		Library:  r.opts().Library,
		MaxHours: r.opts().MaxHours,
		Clock:    r.opts().Clock,
	}
	if series := r.opts().Weather; series != nil {
		// weather is hourly: the phase starts on the hour its window starts
		start = math.Round(start)
		opts.Weather = series.Slice(int(start))
	}

	inst, err := reg.NewInstall(cfg, opts)
	if err != nil {
		return 0, false, r.fail(name, phase.KindInstall, err)
	}
	if err := inst.Run(ctx); err != nil {
		return 0, false, r.fail(name, phase.KindInstall, err)
	}

	elapsed, _ = inst.TotalPhaseTime()
	system, _ := inst.SystemCapex()
	installation, _ := inst.InstallationCapex()
	detailed, _ := inst.DetailedOutput()

	shift := start - r.zero
	for _, a := range inst.Actions() {
		a.Phase = name
		a.Start += shift
		r.result.Actions = append(r.result.Actions, a)
	}
	for _, pt := range inst.Progress() {
		pt.Time += shift
		r.result.Progress = append(r.result.Progress, pt)
	}

	if r.starts == nil {
		r.starts = map[string]float64{}
		r.installed = map[string]bool{}
	}
	r.starts[name] = start
	r.installed[reg.Category] = true
	r.result.PhaseStarts[name] = shift
	r.result.PhaseTimes[name] = elapsed
	r.result.Categories[name] = reg.Category
	if system != 0 {
		r.result.SystemCosts[name] = system
	}
	if installation != 0 {
		r.result.InstallationCosts[name] = installation
	}
	if detailed.IsMap() {
		r.result.DetailedOutputs = config.Merge(r.result.DetailedOutputs, config.EmptyMap().With(name, detailed))
	}

	usage := inst.Port()
	usage.Start, usage.End = start, start+elapsed
	r.ports[name] = portRecord{phase: name, usage: usage, order: len(r.ports)}

	r.opts().Metrics.RecordPhase(name, phase.KindInstall, elapsed, installation+system)
	r.opts().Logger.Info("installation phase complete",
		"phase", name,
		"start", shift,
		"duration", elapsed,
		"installation_capex", installation,
		"system_capex", system,
		"wall", wallTime(inst))
	return elapsed, true, nil
}

// finish applies design costs and shared port rental, then aggregates
func (r *run) finish() (*Result, error) {
	res := r.result
	res.Config = r.cfg
	res.DesignResults = r.designResults

	for name, cost := range r.designCosts {
		if cost != 0 && !r.installed[r.project.regs[name].Category] {
			res.SystemCosts[name] = cost
		}
	}
	r.sharePorts()

	simulation.SortActions(res.Actions)
	sort.SliceStable(res.Progress, func(i, j int) bool { return res.Progress[i].Time < res.Progress[j].Time })
	for name, t := range res.PhaseTimes {
		res.TotalPhaseTime += t
		if end := res.PhaseStarts[name] + t; end > res.InstallationTime {
			res.InstallationTime = end
		}
	}
	res.ProjectTime = simulation.Span(res.Actions)
	res.PhaseDates = r.phaseDates()

	plant := plantSizeOf(r.cfg)
	params := r.cfg.MapAt(KeyProjectParameters)
	capex, err := computeCapex(capexInputs{
		systemCosts:       res.SystemCosts,
		installationCosts: res.InstallationCosts,
		categories:        res.Categories,
		plant:             plant,
		params:            params,
	})
	if err != nil {
		return nil, err
	}
	res.Capex = capex

	if finance, err := computeFinance(res.Actions, res.ProjectProgress(), capex, plant, params); err == nil {
		res.Finance = finance
	} else {
		r.opts().Logger.Debug("cash flow not computed", "reason", err)
	}
	return res, nil
}

// sharePorts charges port rental once over the span of every phase sharing
// a port by name. The difference to the individually charged rental is
// added to the earliest phase of the group.
func (r *run) sharePorts() {
	groups := map[string][]portRecord{}
	for _, rec := range r.ports {
		if rec.usage.Shared {
			groups[rec.usage.Name] = append(groups[rec.usage.Name], rec)
		}
	}
	for _, recs := range groups {
		if len(recs) < 2 {
			continue
		}
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].usage.Start != recs[j].usage.Start {
				return recs[i].usage.Start < recs[j].usage.Start
			}
			return recs[i].order < recs[j].order
		})
		first := recs[0]
		end, charged := first.usage.End, 0.0
		for _, rec := range recs {
			end = math.Max(end, rec.usage.End)
			charged += rec.usage.Cost
		}
		rental := phase.PortCost(end-first.usage.Start, first.usage.MonthlyRate)
		r.result.InstallationCosts[first.phase] += rental - charged
		r.opts().Logger.Debug("shared port rental",
			"port", first.usage.Name,
			"phases", len(recs),
			"cost", rental,
			"adjustment", rental-charged)
	}
}

func (r *run) phaseDates() map[string]PhaseDates {
	base := DefaultStartDate
	if series := r.opts().Weather; series != nil {
		base = series.TimeAt(0)
	}
	out := map[string]PhaseDates{}
	for name, start := range r.starts {
		s := base.Add(hours(start))
		out[name] = PhaseDates{Start: s, End: s.Add(hours(r.result.PhaseTimes[name]))}
	}
	return out
}

// runtimer is implemented by phases built on the phase bases
type runtimer interface {
	Runtime() time.Duration
}

func wallTime(p interface{}) time.Duration {
	if rt, ok := p.(runtimer); ok {
		return rt.Runtime()
	}
	return 0
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
