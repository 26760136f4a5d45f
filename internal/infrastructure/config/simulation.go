package config

// SimulationConfig holds the defaults applied to every project run
type SimulationConfig struct {
	// Simulated hours after which a phase is aborted
	MaxHours float64 `mapstructure:"max_hours" validate:"gt=0"`

	// Record phase failures and keep running the other phases
	ContinueOnFailure bool `mapstructure:"continue_on_failure"`

	// Which design phase wins when two produce the same output
	OutputMergePolicy string `mapstructure:"output_merge_policy" validate:"oneof=first_producer_wins last_producer_wins"`

	// Wind shear exponent used to extrapolate wind speed to other heights
	WeatherAlpha float64 `mapstructure:"weather_alpha" validate:"gt=0,lt=1"`

	// Parallel projects in a sweep
	SweepConcurrency int `mapstructure:"sweep_concurrency" validate:"min=1"`
}
