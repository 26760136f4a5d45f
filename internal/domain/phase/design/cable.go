package design

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/defaults"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

var validate = validator.New()

// Cable is one cable type from the cable library
type Cable struct {
	Name               string  `mapstructure:"name" validate:"required"`
	Voltage            float64 `mapstructure:"voltage" validate:"gt=0"`          // kV
	CurrentCapacity    float64 `mapstructure:"current_capacity" validate:"gt=0"` // A
	PowerFactor        float64 `mapstructure:"power_factor" validate:"gt=0,lte=1"`
	LinearDensity      float64 `mapstructure:"linear_density" validate:"gt=0"` // t/km
	CostPerKm          float64 `mapstructure:"cost_per_km" validate:"gte=0"`
	CompensationFactor float64 `mapstructure:"compensation_factor" validate:"gte=0"`
}

// Power is the cable's transmission capacity in MW
func (c Cable) Power() float64 {
	return math.Sqrt(3) * c.Voltage * c.CurrentCapacity * c.PowerFactor / 1000
}

// Value renders the cable for design results
func (c Cable) Value() config.Value {
	return config.Map(map[string]config.Value{
		"name":           config.String(c.Name),
		"linear_density": config.Number(c.LinearDensity),
		"cost_per_km":    config.Number(c.CostPerKm),
		"power":          config.Number(c.Power()),
	})
}

func decodeCable(path string, v config.Value) (Cable, error) {
	var c Cable
	if err := mapstructure.WeakDecode(v.ToAny(), &c); err != nil {
		return c, shared.NewConfigurationError(path, err.Error())
	}
	if err := validate.Struct(c); err != nil {
		return c, shared.NewValidationError(path, err.Error())
	}
	return c, nil
}

// CableSystem holds the cable selection and section layout shared by the
// array and export system designs
type CableSystem struct {
	Cable    Cable
	Sections [][]float64 // km, grouped by string or by export cable
	Crossing float64     // crossing cost
}

// newCableSystem resolves the cable referenced at path, falling back to def
func newCableSystem(cfg config.Value, path, def string, lib *defaults.Library) (*CableSystem, error) {
	ref, ok := cfg.Get(path)
	if !ok {
		ref = config.String(def)
	}
	if ref.IsSeq() {
		items := ref.Items()
		if len(items) == 0 {
			return nil, shared.NewConfigurationError(path, "no cable given")
		}
		// the first cable is used for every section
		ref = items[0]
	}
	raw, err := lib.ResolveCable(path, ref)
	if err != nil {
		return nil, err
	}
	cable, err := decodeCable(path, raw)
	if err != nil {
		return nil, err
	}
	return &CableSystem{Cable: cable}, nil
}

// TotalLength sums every section in km
func (cs *CableSystem) TotalLength() float64 {
	total := 0.0
	for _, group := range cs.Sections {
		for _, l := range group {
			total += l
		}
	}
	return total
}

// TotalMass is the cable mass in t
func (cs *CableSystem) TotalMass() float64 {
	return cs.TotalLength() * cs.Cable.LinearDensity
}

// TotalCost prices the cable length plus crossings
func (cs *CableSystem) TotalCost() float64 {
	return cs.TotalLength()*cs.Cable.CostPerKm + cs.Crossing
}

func (cs *CableSystem) sectionsValue() config.Value {
	groups := make([]config.Value, 0, len(cs.Sections))
	for _, group := range cs.Sections {
		items := make([]config.Value, 0, len(group))
		for _, l := range group {
			items = append(items, config.Number(l))
		}
		groups = append(groups, config.Seq(items...))
	}
	return config.Seq(groups...)
}

// result renders the system under prefix, e.g. "array_system"
func (cs *CableSystem) result(prefix string) config.Value {
	return config.EmptyMap().
		Set(prefix+".cable", cs.Cable.Value()).
		Set(prefix+".sections", cs.sectionsValue()).
		Set(prefix+".total_length", config.Number(cs.TotalLength())).
		Set(prefix+".total_mass", config.Number(cs.TotalMass())).
		Set(prefix+".system_cost", config.Number(cs.TotalCost()))
}

func (cs *CableSystem) detailed() config.Value {
	return config.Map(map[string]config.Value{
		"cable":        config.String(cs.Cable.Name),
		"num_sections": config.Int(cs.numSections()),
		"total_length": config.Number(cs.TotalLength()),
		"total_mass":   config.Number(cs.TotalMass()),
		"total_cost":   config.Number(cs.TotalCost()),
	})
}

func (cs *CableSystem) numSections() int {
	n := 0
	for _, group := range cs.Sections {
		n += len(group)
	}
	return n
}

func positive(path string, v float64) error {
	if v <= 0 {
		return shared.NewConfigurationError(path, fmt.Sprintf("must be positive, got %g", v))
	}
	return nil
}
