package install

import (
	"fmt"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
	"github.com/andrescamacho/orbit-go/internal/domain/vessel"
)

const (
	locationPort = "Port"
	locationSite = "Site"
)

// vesselSchema is the schema entry for a vessel reference
func vesselSchema(optional bool) config.Field {
	if optional {
		return config.Optional("dict | str")
	}
	return config.Required("dict | str")
}

func siteOf(cfg config.Value) vessel.Site {
	return vessel.Site{
		Depth:     cfg.FloatOr("site.depth", 0),
		Distance:  cfg.FloatOr("site.distance", 0),
		Extension: cfg.FloatOr("site.jackup_extension", 0),
	}
}

// componentItem reads a cargo item from the mass and deck space under prefix
func componentItem(cfg config.Value, kind, prefix string) vessel.Item {
	return vessel.Item{
		Kind:      kind,
		Mass:      cfg.FloatOr(prefix+".mass", 0),
		DeckSpace: cfg.FloatOr(prefix+".deck_space", 0),
	}
}

// cargoSet is the group of items installed at one location, e.g. a
// monopile and its transition piece
type cargoSet struct {
	items   []vessel.Item
	actions []string
	hours   []float64 // loading time per item
}

// add appends an item sea-fastened at port for the given time
func (s cargoSet) add(item vessel.Item, fasten float64) cargoSet {
	return s.addLoaded(item, "Fasten "+item.Kind, fasten)
}

func (s cargoSet) addLoaded(item vessel.Item, action string, hours float64) cargoSet {
	s.items = append(s.items, item)
	s.actions = append(s.actions, action)
	s.hours = append(s.hours, hours)
	return s
}

// setsPerTrip is how many sets fit on the vessel, capped at remaining
func (s cargoSet) setsPerTrip(v *vessel.Vessel, remaining int) (int, error) {
	storage, err := v.Storage()
	if err != nil {
		return 0, err
	}
	n := storage.Sets(s.items...)
	if n == 0 {
		return 0, shared.NewVesselCapacityError(v.Name, fmt.Sprintf("one set of %s", s.kinds()))
	}
	if n < 0 || n > remaining {
		n = remaining
	}
	return n, nil
}

func (s cargoSet) kinds() string {
	out := ""
	for i, item := range s.items {
		if i > 0 {
			out += ", "
		}
		out += item.Kind
	}
	return out
}

// loadSteps loads n sets at port while holding a port crane
func (s cargoSet) loadSteps(v *vessel.Vessel, port *phase.Port, n int) []simulation.Step {
	var steps []simulation.Step
	for i := 0; i < n; i++ {
		for j, item := range s.items {
			item := item
			steps = append(steps,
				simulation.Task(s.actions[j], s.hours[j], simulation.At(locationPort)),
				simulation.Do(func(*simulation.Agent) error {
					storage, err := v.Storage()
					if err != nil {
						return err
					}
					return storage.Load(item)
				}),
			)
		}
	}
	return port.Cranes.Hold(steps...)
}

// take removes one item of kind from storage at the current step
func take(from func() (*vessel.Storage, error), kind string) simulation.Step {
	return simulation.Do(func(a *simulation.Agent) error {
		storage, err := from()
		if err != nil {
			return err
		}
		if _, ok := storage.Take(kind); !ok {
			return shared.NewDomainError(fmt.Sprintf("%s found no %s to install", a.Name, kind))
		}
		return nil
	})
}

// campaign delivers and installs total sets. Without feeders the installer
// shuttles its own cargo; with feeders it stays on site and installs from
// whichever feeder currently holds the active feeder slot.
type campaign struct {
	base      *phase.InstallBase
	installer *vessel.Vessel
	feeders   []*vessel.Vessel
	set       cargoSet
	total     int
	site      vessel.Site
	// install returns the steps for one set taken from the given storage
	install func(from func() (*vessel.Storage, error)) []simulation.Step
}

func (c *campaign) register(env *simulation.Environment) error {
	if len(c.feeders) == 0 {
		return c.registerSolo(env)
	}
	return c.registerWithFeeders(env)
}

func (c *campaign) registerSolo(env *simulation.Environment) error {
	v := c.installer
	perTrip, err := c.set.setsPerTrip(v, c.total)
	if err != nil {
		return err
	}
	port := c.base.Ports()
	remaining := c.total

	v.Location = locationPort
	v.Then(simulation.Mobilize())
	v.Then(simulation.While(
		func(*simulation.Agent) bool { return remaining > 0 },
		func(*simulation.Agent) []simulation.Step {
			n := perTrip
			if remaining < n {
				n = remaining
			}
			remaining -= n

			steps := c.set.loadSteps(v, port, n)
			steps = append(steps, v.RecordTrip())
			steps = append(steps, v.Transit(c.site.Distance, locationSite)...)
			steps = append(steps, simulation.Repeat(n, func(int) []simulation.Step {
				return c.install(v.Storage)
			}))
			return append(steps, v.Transit(c.site.Distance, locationPort)...)
		},
	))
	env.Register(v.Agent)
	return nil
}

func (c *campaign) registerWithFeeders(env *simulation.Environment) error {
	port := c.base.Ports()
	times := c.base.Times()
	slot := simulation.NewResource("Active Feeder", 1)
	arrived := simulation.NewSignal("Feeder Arrived")

	var (
		toShip       = c.total
		installed    = 0
		active       *vessel.Vessel
		activeCount  int
		activeSignal *simulation.Signal
	)

	for _, f := range c.feeders {
		f := f
		perTrip, err := c.set.setsPerTrip(f, c.total)
		if err != nil {
			return err
		}
		released := simulation.NewSignal(f.Name + " Released")

		f.Location = locationPort
		f.Then(simulation.Mobilize())
		f.Then(simulation.While(
			func(*simulation.Agent) bool { return toShip > 0 },
			func(*simulation.Agent) []simulation.Step {
				n := perTrip
				if toShip < n {
					n = toShip
				}
				toShip -= n

				steps := c.set.loadSteps(f, port, n)
				steps = append(steps, f.RecordTrip())
				steps = append(steps, f.Transit(c.site.Distance, locationSite)...)
				steps = append(steps,
					f.PositionOnsite(times),
					f.Stabilize(c.site),
					slot.Acquire(),
					simulation.Do(func(*simulation.Agent) error {
						active, activeCount, activeSignal = f, n, released
						return nil
					}),
					arrived.Trigger(),
					released.Wait(),
					slot.Release(),
					f.JackdownIfRequired(c.site),
				)
				return append(steps, f.Transit(c.site.Distance, locationPort)...)
			},
		))
		env.Register(f.Agent)
	}

	v := c.installer
	v.Location = locationPort
	v.Then(simulation.Mobilize())
	v.Then(v.Transit(c.site.Distance, locationSite)...)
	v.Then(simulation.While(
		func(*simulation.Agent) bool { return installed < c.total },
		func(*simulation.Agent) []simulation.Step {
			return []simulation.Step{
				arrived.Wait(),
				simulation.Do(func(a *simulation.Agent) error {
					feeder, n, done := active, activeCount, activeSignal
					a.Push(
						simulation.Repeat(n, func(int) []simulation.Step {
							return c.install(feeder.Storage)
						}),
						simulation.Do(func(*simulation.Agent) error {
							installed += n
							return nil
						}),
						done.Trigger(),
					)
					return nil
				}),
			}
		},
	))
	v.Then(v.Transit(c.site.Distance, locationPort)...)
	env.Register(v.Agent)
	return nil
}

// feedersFromConfig builds num_feeders feeders from the feeder reference
func feedersFromConfig(b *phase.InstallBase) ([]*vessel.Vessel, error) {
	cfg := b.Config()
	num := cfg.IntOr("num_feeders", 0)
	if num <= 0 || !cfg.Has("feeder") {
		return nil, nil
	}
	feeders := make([]*vessel.Vessel, 0, num)
	for i := 1; i <= num; i++ {
		f, err := vessel.FromConfig(fmt.Sprintf("Feeder %d", i), cfg, "feeder", b.Library())
		if err != nil {
			return nil, err
		}
		if err := f.Require(vessel.ComponentTransport, vessel.ComponentStorage); err != nil {
			return nil, err
		}
		feeders = append(feeders, f)
	}
	return feeders, nil
}

// utilization renders the trip statistics of the vessels that carried cargo
func utilization(vessels ...*vessel.Vessel) config.Value {
	out := config.EmptyMap()
	for _, v := range vessels {
		storage, err := v.Storage()
		if err != nil {
			continue
		}
		u := storage.Utilization()
		if u.Trips == 0 {
			continue
		}
		out = out.With(v.Name, config.Map(map[string]config.Value{
			"trips":                config.Int(u.Trips),
			"max_cargo_mass_util":  config.Number(u.MaxCargo),
			"mean_cargo_mass_util": config.Number(u.MeanCargo),
			"max_deck_space_util":  config.Number(u.MaxDeckSpace),
			"mean_deck_space_util": config.Number(u.MeanDeckSpace),
		}))
	}
	return out
}
