package project

import (
	"fmt"
	"math"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

// Plant size paths
const (
	PathCapacity      = "plant.capacity"
	PathNumTurbines   = "plant.num_turbines"
	PathTurbineRating = "turbine.turbine_rating"
)

// ResolveCapacity fills whichever of plant capacity, turbine count and
// turbine rating can be derived from the other two. When all three are
// given they must agree.
func ResolveCapacity(cfg config.Value) (config.Value, error) {
	capacity := cfg.FloatOr(PathCapacity, 0)
	rating := cfg.FloatOr(PathTurbineRating, 0)
	num := cfg.FloatOr(PathNumTurbines, 0)

	switch {
	case capacity > 0 && rating > 0 && num > 0:
		if expected := rating * num; math.Abs(capacity-expected) > 1e-9*math.Max(capacity, expected) {
			return cfg, shared.NewConfigurationError(PathCapacity,
				fmt.Sprintf("%g MW does not match %g turbines x %g MW", capacity, num, rating))
		}
	case capacity > 0 && rating > 0:
		cfg = cfg.Set(PathNumTurbines, config.Int(int(math.Ceil(capacity/rating))))
	case capacity > 0 && num > 0:
		cfg = cfg.Set(PathTurbineRating, config.Number(capacity/num))
	case num > 0 && rating > 0:
		cfg = cfg.Set(PathCapacity, config.Number(num*rating))
	}
	return cfg, nil
}

// plantSize is the resolved plant size; zero fields are unknown
type plantSize struct {
	Capacity      float64
	NumTurbines   int
	TurbineRating float64
}

func plantSizeOf(cfg config.Value) plantSize {
	return plantSize{
		Capacity:      cfg.FloatOr(PathCapacity, 0),
		NumTurbines:   cfg.IntOr(PathNumTurbines, 0),
		TurbineRating: cfg.FloatOr(PathTurbineRating, 0),
	}
}

// kW returns capacity in kW
func (p plantSize) kW() float64 {
	return p.Capacity * 1000
}
