package shared

import (
	"fmt"
	"sort"
	"strings"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Configuration errors

// MissingInputsError lists every required configuration path that was absent
type MissingInputsError struct {
	*DomainError
	Paths []string
}

func NewMissingInputsError(paths []string) *MissingInputsError {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)
	return &MissingInputsError{
		DomainError: NewDomainError(fmt.Sprintf("missing required inputs: %s", strings.Join(sorted, ", "))),
		Paths:       sorted,
	}
}

// ConfigurationError reports a structurally invalid configuration value
type ConfigurationError struct {
	*DomainError
	Path string
}

func NewConfigurationError(path, message string) *ConfigurationError {
	msg := message
	if path != "" {
		msg = fmt.Sprintf("%s: %s", path, message)
	}
	return &ConfigurationError{DomainError: NewDomainError(msg), Path: path}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Vessel errors

// MissingComponentError is raised when an agent is asked for a capability it was not configured with
type MissingComponentError struct {
	*DomainError
	Agent      string
	Components []string
}

func NewMissingComponentError(agent string, components ...string) *MissingComponentError {
	return &MissingComponentError{
		DomainError: NewDomainError(fmt.Sprintf("%s is missing required component(s): %s", agent, strings.Join(components, ", "))),
		Agent:       agent,
		Components:  components,
	}
}

// VesselCapacityError is raised when a single item does not fit on a vessel
type VesselCapacityError struct {
	*DomainError
	Agent string
	Item  string
}

func NewVesselCapacityError(agent, item string) *VesselCapacityError {
	return &VesselCapacityError{
		DomainError: NewDomainError(fmt.Sprintf("%s has no room for %s", agent, item)),
		Agent:       agent,
		Item:        item,
	}
}

// Weather errors

// WeatherProfileError is raised when a requested start lies outside the weather series
type WeatherProfileError struct {
	*DomainError
	Requested string
	First     string
	Last      string
}

func NewWeatherProfileError(requested, first, last string) *WeatherProfileError {
	return &WeatherProfileError{
		DomainError: NewDomainError(fmt.Sprintf("start %s is outside the weather profile range [%s, %s]", requested, first, last)),
		Requested:   requested,
		First:       first,
		Last:        last,
	}
}

// WeatherProfileExhaustedError is raised when a simulation needs weather beyond the end of the series
type WeatherProfileExhaustedError struct {
	*DomainError
	Length int
}

func NewWeatherProfileExhaustedError(length int) *WeatherProfileExhaustedError {
	return &WeatherProfileExhaustedError{
		DomainError: NewDomainError(fmt.Sprintf("weather profile exhausted after %d hours", length)),
		Length:      length,
	}
}

// Phase errors

// PhaseNotFoundError is raised for phase names that resolve to no registration
type PhaseNotFoundError struct {
	*DomainError
	Name string
}

func NewPhaseNotFoundError(name string) *PhaseNotFoundError {
	return &PhaseNotFoundError{
		DomainError: NewDomainError(fmt.Sprintf("phase %q not found", name)),
		Name:        name,
	}
}

// PhaseDependenciesInvalidError is raised when install start dependencies cannot be resolved
type PhaseDependenciesInvalidError struct {
	*DomainError
	Phases []string
}

func NewPhaseDependenciesInvalidError(phases []string) *PhaseDependenciesInvalidError {
	sorted := append([]string(nil), phases...)
	sort.Strings(sorted)
	return &PhaseDependenciesInvalidError{
		DomainError: NewDomainError(fmt.Sprintf("unable to resolve phase dependencies for: %s", strings.Join(sorted, ", "))),
		Phases:      sorted,
	}
}

// CircularDependencyError carries the cycle path, first element repeated at the end
type CircularDependencyError struct {
	*DomainError
	Cycle []string
}

func NewCircularDependencyError(cycle []string) *CircularDependencyError {
	return &CircularDependencyError{
		DomainError: NewDomainError(fmt.Sprintf("circular dependency detected: %s", strings.Join(cycle, " -> "))),
		Cycle:       cycle,
	}
}

// PhaseExecutionError wraps any failure raised while a phase runs
type PhaseExecutionError struct {
	*DomainError
	Phase string
	Err   error
}

func NewPhaseExecutionError(phase string, err error) *PhaseExecutionError {
	return &PhaseExecutionError{
		DomainError: NewDomainError(fmt.Sprintf("phase %s failed: %v", phase, err)),
		Phase:       phase,
		Err:         err,
	}
}

func (e *PhaseExecutionError) Unwrap() error {
	return e.Err
}

// Simulation errors

// SimulationTimeoutError is raised when a simulation runs past its time limit
type SimulationTimeoutError struct {
	*DomainError
	Limit float64
}

func NewSimulationTimeoutError(limit float64) *SimulationTimeoutError {
	return &SimulationTimeoutError{
		DomainError: NewDomainError(fmt.Sprintf("simulation exceeded %.1f hours", limit)),
		Limit:       limit,
	}
}

// ErrPhaseNotComplete is returned when results are read before a phase has run
var ErrPhaseNotComplete = NewDomainError("phase has not been run")
