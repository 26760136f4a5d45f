package project

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

// DefaultStartDate anchors calendar starts when no weather is given
var DefaultStartDate = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)

type startKind int

const (
	startIndex startKind = iota + 1
	startDate
	startDependent
)

// StartSpec is the parsed start of one installation phase
type StartSpec struct {
	Phase  string
	kind   startKind
	Index  int
	Date   time.Time
	Target string
	// Fraction of the target's duration; used when HasOffset is false
	Fraction  float64
	Offset    float64
	HasOffset bool
}

// Defined reports whether the start is fixed rather than dependent
func (s StartSpec) Defined() bool { return s.kind != startDependent }

// Schedule is the parsed install_phases entry: a serial list, or a
// mapping of start specs
type Schedule struct {
	Serial []string
	Specs  map[string]StartSpec
}

// Phases returns every scheduled phase name: list order for a serial
// schedule, sorted for a mapping
func (s Schedule) Phases() []string {
	if s.Specs == nil {
		return append([]string(nil), s.Serial...)
	}
	names := make([]string, 0, len(s.Specs))
	for name := range s.Specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseSchedule reads install_phases. A string or sequence runs back to
// back; a mapping assigns each phase an index, a date, or a dependency
// [phase, fraction] / [phase, "weeks=1;days=2;hours=3"].
func ParseSchedule(v config.Value) (Schedule, error) {
	switch {
	case v.IsNull():
		return Schedule{}, nil
	case v.IsString():
		s, _ := v.AsString()
		return Schedule{Serial: []string{s}}, nil
	case v.IsSeq():
		var names []string
		for i, item := range v.Items() {
			s, ok := item.AsString()
			if !ok {
				return Schedule{}, shared.NewConfigurationError(fmt.Sprintf("%s[%d]", KeyInstallPhases, i), "phase names must be strings")
			}
			names = append(names, s)
		}
		return Schedule{Serial: names}, nil
	case v.IsMap():
		specs := map[string]StartSpec{}
		for _, name := range v.Keys() {
			raw, _ := v.Field(name)
			spec, err := parseStart(name, raw)
			if err != nil {
				return Schedule{}, err
			}
			specs[name] = spec
		}
		return Schedule{Specs: specs}, nil
	}
	return Schedule{}, shared.NewConfigurationError(KeyInstallPhases, "must be a list or a mapping of start specs")
}

func parseStart(name string, raw config.Value) (StartSpec, error) {
	path := KeyInstallPhases + "." + name
	spec := StartSpec{Phase: name}

	switch {
	case raw.IsNumber():
		f, _ := raw.AsFloat()
		if f != math.Trunc(f) {
			return spec, shared.NewConfigurationError(path, "start index must be an integer")
		}
		spec.kind = startIndex
		spec.Index = int(f)
		return spec, nil

	case raw.IsString():
		s, _ := raw.AsString()
		t, err := weather.ParseDate(s)
		if err != nil {
			return spec, shared.NewConfigurationError(path, err.Error())
		}
		spec.kind = startDate
		spec.Date = t
		return spec, nil

	case raw.IsSeq() && raw.Len() == 2:
		items := raw.Items()
		target, ok := items[0].AsString()
		if !ok {
			return spec, shared.NewConfigurationError(path, "dependency target must be a phase name")
		}
		spec.kind = startDependent
		spec.Target = target
		if f, ok := items[1].AsFloat(); ok {
			if f < 0 || f > 1 {
				return spec, shared.NewConfigurationError(path, "dependent phase fraction must be between 0 and 1")
			}
			spec.Fraction = f
			return spec, nil
		}
		if s, ok := items[1].AsString(); ok {
			hours, err := ParseOffset(s)
			if err != nil {
				return spec, shared.NewConfigurationError(path, err.Error())
			}
			spec.Offset = hours
			spec.HasOffset = true
			return spec, nil
		}
		return spec, shared.NewConfigurationError(path, "dependency amount must be a fraction or an offset such as 'weeks=1;hours=12'")
	}
	return spec, shared.NewConfigurationError(path, fmt.Sprintf("start %s not recognized", raw))
}

// ParseOffset converts "weeks=1;days=2;hours=3" into hours
func ParseOffset(raw string) (float64, error) {
	unitHours := map[string]float64{"weeks": 168, "days": 24, "hours": 1, "minutes": 1.0 / 60}
	total := 0.0
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return 0, fmt.Errorf("offset %q must look like 'weeks=1;days=0;hours=12'", raw)
		}
		mult, ok := unitHours[strings.TrimSpace(kv[0])]
		if !ok {
			return 0, fmt.Errorf("offset unit %q not recognized, expected weeks, days or hours", kv[0])
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			return 0, fmt.Errorf("offset amount %q is not a number", kv[1])
		}
		total += n * mult
	}
	return total, nil
}

// plan is a validated schedule: absolute starts (hours from the first
// weather row, or from DefaultStartDate) for defined phases, and the order
// in which dependent phases can be resolved
type plan struct {
	serial    bool
	order     []string
	defined   map[string]float64
	dependent map[string]StartSpec
	zero      float64
}

// resolve checks every start before any simulation runs
func (s Schedule) resolve(series *weather.Series) (*plan, error) {
	if s.Specs == nil {
		return &plan{serial: true, order: append([]string(nil), s.Serial...)}, nil
	}

	p := &plan{defined: map[string]float64{}, dependent: map[string]StartSpec{}}
	var kinds []startKind
	for _, name := range s.Phases() {
		spec := s.Specs[name]
		if !spec.Defined() {
			p.dependent[name] = spec
			continue
		}
		if !slices.Contains(kinds, spec.kind) {
			kinds = append(kinds, spec.kind)
		}
		start, err := definedStart(spec, series)
		if err != nil {
			return nil, err
		}
		p.defined[name] = start
	}
	if len(p.defined) == 0 {
		return nil, shared.NewConfigurationError(KeyInstallPhases, "no phases have a defined start index or date")
	}
	if len(kinds) > 1 {
		return nil, shared.NewConfigurationError(KeyInstallPhases, "defined starts cannot mix indices and dates")
	}

	var unknown []string
	for name, spec := range p.dependent {
		if _, ok := s.Specs[spec.Target]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, shared.NewPhaseDependenciesInvalidError(unknown)
	}

	order, err := topoOrder(s.Phases(), func(name string) []string {
		if spec, ok := p.dependent[name]; ok {
			return []string{spec.Target}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.order = order

	p.zero = math.Inf(1)
	for _, start := range p.defined {
		p.zero = math.Min(p.zero, start)
	}
	return p, nil
}

func definedStart(spec StartSpec, series *weather.Series) (float64, error) {
	switch spec.kind {
	case startIndex:
		if series != nil && (spec.Index < 0 || spec.Index >= series.Len()) {
			return 0, shared.NewWeatherProfileError(
				fmt.Sprintf("index %d", spec.Index), "index 0", fmt.Sprintf("index %d", series.Len()-1))
		}
		if spec.Index < 0 {
			return 0, shared.NewConfigurationError(KeyInstallPhases+"."+spec.Phase, "start index cannot be negative")
		}
		return float64(spec.Index), nil
	case startDate:
		if series != nil {
			i, err := series.IndexOf(spec.Date)
			if err != nil {
				return 0, err
			}
			return float64(i), nil
		}
		return spec.Date.Sub(DefaultStartDate).Hours(), nil
	}
	return 0, shared.NewConfigurationError(KeyInstallPhases+"."+spec.Phase, "start is not defined")
}

// dependentStart returns the start of a dependent phase from its target's
// absolute start and duration
func dependentStart(spec StartSpec, targetStart, targetTime float64) float64 {
	if spec.HasOffset {
		return targetStart + spec.Offset
	}
	return targetStart + targetTime*spec.Fraction
}
