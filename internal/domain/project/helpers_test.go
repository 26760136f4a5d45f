package project_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/project"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

// job is an installation phase with one barge working job.hours at 100 USD/h
type job struct {
	*phase.InstallBase
}

func jobSchema() config.Schema {
	return config.Schema{
		"job.hours":       config.Required("h"),
		"job.system_cost": config.OptionalDefault("USD", config.Number(0)),
		"job.broken":      config.OptionalDefault("bool", config.Bool(false)),
		"job.progress":    config.Optional("list"),
	}.Union(phase.PortSchema())
}

func newJob(cfg config.Value, opts phase.Options) (phase.Install, error) {
	base, err := phase.NewInstallBase("Job", cfg, jobSchema(), opts)
	if err != nil {
		return nil, err
	}
	return &job{InstallBase: base}, nil
}

func (j *job) Run(ctx context.Context) error {
	return j.Execute(ctx, func(env *simulation.Environment) error {
		cfg := j.Config()
		if cfg.BoolOr("job.broken", false) {
			return shared.NewMissingComponentError("Barge", "Crane")
		}
		barge := simulation.NewAgent("Barge", 2400)
		barge.Then(simulation.Task("Work", cfg.FloatOr("job.hours", 0)))
		if labels, ok := cfg.Get("job.progress"); ok {
			for _, l := range labels.Items() {
				s, _ := l.AsString()
				barge.Then(simulation.Progress(s))
			}
		}
		env.Register(barge)
		j.SetSystemCapex(cfg.FloatOr("job.system_cost", 0))
		return nil
	})
}

// sizing is a design phase producing out.path = site.depth + offset
type sizing struct {
	*phase.DesignBase
	out    string
	offset float64
}

func (s *sizing) Run() error {
	return s.Compute(func() (config.Value, float64, config.Value, error) {
		in := s.Config().FloatOr("site.depth", 0)
		if s.Config().Has("pile.length") && s.out != "pile.length" {
			in = s.Config().FloatOr("pile.length", 0)
		}
		return config.EmptyMap().Set(s.out, config.Number(in+s.offset)), 5, config.Value{}, nil
	})
}

func sizingRegistration(name, in, out string, offset float64) phase.Registration {
	expected := config.Schema{in: config.Required("m")}
	return phase.Registration{
		Name:     name,
		Kind:     phase.KindDesign,
		Category: "Lifting",
		Expected: expected,
		Output:   config.Schema{out: config.Required("m")},
		NewDesign: func(cfg config.Value, opts phase.Options) (phase.Design, error) {
			base, err := phase.NewDesignBase(name, cfg, expected, opts)
			if err != nil {
				return nil, err
			}
			return &sizing{DesignBase: base, out: out, offset: offset}, nil
		},
	}
}

// testRegistry registers Job plus a few sizing designs. constructed counts
// Job constructions.
func testRegistry(constructed *int) *phase.Registry {
	r := phase.NewRegistry()
	r.MustRegister(
		phase.Registration{
			Name:     "Job",
			Kind:     phase.KindInstall,
			Category: "Lifting",
			Expected: jobSchema(),
			NewInstall: func(cfg config.Value, opts phase.Options) (phase.Install, error) {
				if constructed != nil {
					*constructed++
				}
				return newJob(cfg, opts)
			},
		},
		sizingRegistration("Sizer", "site.depth", "pile.length", 30),
		sizingRegistration("Resizer", "site.depth", "pile.length", 50),
		sizingRegistration("Checker", "pile.length", "pile.checked", 1),
		sizingRegistration("LoopA", "loop.b", "loop.a", 1),
		sizingRegistration("LoopB", "loop.a", "loop.b", 1),
	)
	return r
}

func mustConfig(t *testing.T, raw map[string]interface{}) config.Value {
	t.Helper()
	v, err := config.FromAny(raw)
	require.NoError(t, err)
	return v
}

func hours(h float64) map[string]interface{} {
	return map[string]interface{}{"job": map[string]interface{}{"hours": h}}
}

func runProject(t *testing.T, registry *phase.Registry, cfg config.Value, opts project.Options) (*project.Result, error) {
	t.Helper()
	p, err := project.New(cfg, registry, opts)
	require.NoError(t, err)
	return p.Run(context.Background())
}

func calmSeries(t *testing.T, n int) *weather.Series {
	t.Helper()
	waves := make([]float64, n)
	for i := range waves {
		waves[i] = 1
		if i%50 >= 40 {
			waves[i] = 3
		}
	}
	s, err := weather.NewHourlySeries(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), map[string][]float64{
		"waveheight": waves,
		"windspeed":  make([]float64, n),
	})
	require.NoError(t, err)
	return s
}

func actionsOf(actions []simulation.Action, phaseName, name string) []simulation.Action {
	var out []simulation.Action
	for _, a := range actions {
		if a.Phase == phaseName && a.Action == name {
			out = append(out, a)
		}
	}
	return out
}
