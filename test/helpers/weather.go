package helpers

import (
	"testing"
	"time"

	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

// WeatherStart is the first timestamp of every series built here
var WeatherStart = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)

// WeatherBuilder assembles an hourly series for tests
type WeatherBuilder struct {
	hours int
	waves []float64
	wind  []float64
}

// NewWeather starts a calm series of n hours
func NewWeather(n int) *WeatherBuilder {
	return &WeatherBuilder{
		hours: n,
		waves: make([]float64, n),
		wind:  make([]float64, n),
	}
}

// Waves sets the wave height for hours [from, to)
func (b *WeatherBuilder) Waves(from, to int, height float64) *WeatherBuilder {
	for i := from; i < to && i < b.hours; i++ {
		b.waves[i] = height
	}
	return b
}

// Wind sets the 10 m wind speed for hours [from, to)
func (b *WeatherBuilder) Wind(from, to int, speed float64) *WeatherBuilder {
	for i := from; i < to && i < b.hours; i++ {
		b.wind[i] = speed
	}
	return b
}

// Build returns the series or fails the test
func (b *WeatherBuilder) Build(t testing.TB) *weather.Series {
	t.Helper()
	s, err := weather.NewHourlySeries(WeatherStart, map[string][]float64{
		"waveheight": b.waves,
		"windspeed":  b.wind,
	})
	if err != nil {
		t.Fatalf("failed to build weather: %v", err)
	}
	return s
}
