package phase

import (
	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/defaults"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
)

// HoursPerMonth converts simulated hours to rental months
const HoursPerMonth = 8760.0 / 12

const defaultPortName = "Port"

// PortSchema is the port configuration every installation phase accepts
func PortSchema() config.Schema {
	return config.Schema{
		"port.name":         config.Optional("str"),
		"port.num_cranes":   config.OptionalDefault("int", config.Int(1)),
		"port.monthly_rate": config.Optional("USD/mo"),
		"port.shared":       config.OptionalDefault("bool", config.Bool(false)),
	}
}

// Port is the staging port of one installation phase
type Port struct {
	Name        string
	Cranes      *simulation.Resource
	MonthlyRate float64
	Shared      bool
}

// NewPort reads the port section of a phase config
func NewPort(cfg config.Value, lib *defaults.Library) *Port {
	name := cfg.StrOr("port.name", defaultPortName)
	return &Port{
		Name:        name,
		Cranes:      simulation.NewResource(name+" cranes", cfg.IntOr("port.num_cranes", 1)),
		MonthlyRate: lib.Cost(cfg, "port.monthly_rate", "port_cost_per_month"),
		Shared:      cfg.BoolOr("port.shared", false),
	}
}

// PortCost is the rental for the given number of hours
func PortCost(hours, monthlyRate float64) float64 {
	return hours / HoursPerMonth * monthlyRate
}

// PortUsage describes one phase's port rental; Start and End are phase
// relative until the orchestrator shifts them
type PortUsage struct {
	Name        string
	Shared      bool
	MonthlyRate float64
	Start       float64
	End         float64
	Cost        float64
}
