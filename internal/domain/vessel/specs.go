package vessel

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

// TransportSpecs are the limits and speed the vessel sails with
type TransportSpecs struct {
	MaxWaveheight float64 `mapstructure:"max_waveheight" validate:"gte=0"`
	MaxWindspeed  float64 `mapstructure:"max_windspeed" validate:"gte=0"`
	TransitSpeed  float64 `mapstructure:"transit_speed" validate:"gt=0"` // km/h
}

// JackingSpecs describe a jack-up system; speeds are in m/min
type JackingSpecs struct {
	NumLegs         int     `mapstructure:"num_legs" validate:"gte=0"`
	LegLength       float64 `mapstructure:"leg_length" validate:"gte=0"`
	AirGap          float64 `mapstructure:"air_gap" validate:"gte=0"`
	LegPen          float64 `mapstructure:"leg_pen" validate:"gte=0"`
	MaxDepth        float64 `mapstructure:"max_depth" validate:"gte=0"`
	MaxExtension    float64 `mapstructure:"max_extension" validate:"gte=0"`
	SpeedAboveDepth float64 `mapstructure:"speed_above_depth" validate:"gt=0"`
	SpeedBelowDepth float64 `mapstructure:"speed_below_depth" validate:"gt=0"`
}

type CraneSpecs struct {
	MaxHookHeight float64 `mapstructure:"max_hook_height" validate:"gte=0"`
	MaxLift       float64 `mapstructure:"max_lift" validate:"gt=0"` // t
	MaxWindspeed  float64 `mapstructure:"max_windspeed" validate:"gte=0"`
	Radius        float64 `mapstructure:"radius" validate:"gte=0"`
}

type StorageSpecs struct {
	MaxCargo     float64 `mapstructure:"max_cargo" validate:"gte=0"` // t
	MaxDeckLoad  float64 `mapstructure:"max_deck_load" validate:"gte=0"`
	MaxDeckSpace float64 `mapstructure:"max_deck_space" validate:"gte=0"` // m2
}

type DynamicPositioningSpecs struct {
	Class int `mapstructure:"class" validate:"gte=0,lte=3"`
}

type CableLaySpecs struct {
	MaxMass float64 `mapstructure:"max_mass" validate:"gt=0"` // t
}

// RateSpecs carry the commercial terms of the charter
type RateSpecs struct {
	DayRate          float64 `mapstructure:"day_rate" validate:"gte=0"`
	MobilizationDays float64 `mapstructure:"mobilization_days" validate:"gte=0"`
	MobilizationMult float64 `mapstructure:"mobilization_mult" validate:"gte=0"`
}

// Specs is the full set of vessel capabilities. Optional components are nil
// when the vessel does not carry them.
type Specs struct {
	Name               string                   `mapstructure:"name"`
	Transport          *TransportSpecs          `mapstructure:"transport_specs" validate:"omitempty"`
	Jacking            *JackingSpecs            `mapstructure:"jacksys_specs" validate:"omitempty"`
	Crane              *CraneSpecs              `mapstructure:"crane_specs" validate:"omitempty"`
	Storage            *StorageSpecs            `mapstructure:"storage_specs" validate:"omitempty"`
	DynamicPositioning *DynamicPositioningSpecs `mapstructure:"dynamic_positioning_specs" validate:"omitempty"`
	CableLay           *CableLaySpecs           `mapstructure:"cable_lay_specs" validate:"omitempty"`
	Rates              RateSpecs                `mapstructure:"vessel_specs"`
}

var validate = validator.New()

// DecodeSpecs reads vessel specs from a config mapping and validates them
func DecodeSpecs(v config.Value) (Specs, error) {
	var specs Specs
	if !v.IsMap() {
		return specs, shared.NewValidationError("vessel", fmt.Sprintf("expected a mapping, got %s", v.Kind()))
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &specs,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return specs, err
	}
	if err := decoder.Decode(v.ToAny()); err != nil {
		return specs, shared.NewValidationError("vessel", err.Error())
	}

	if specs.Rates.MobilizationMult == 0 {
		specs.Rates.MobilizationMult = 1
	}
	if err := validate.Struct(specs); err != nil {
		return specs, formatValidationError(err)
	}
	return specs, nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var messages []string
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s failed %s (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
	}
	return shared.NewValidationError("vessel", strings.Join(messages, "; "))
}
