// Package weather holds hourly metocean series and answers the questions the
// simulation asks of them: does an hour satisfy a task's limits, when does the
// next workable window open, and how does a suspendable task split into work
// and standby periods.
package weather

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

// DefaultAlpha is the wind shear exponent used outside the measured heights
const DefaultAlpha = 0.1

// DateLayout is the accepted format for calendar start dates
const DateLayout = "01/02/2006"

const (
	columnWaveheight = "waveheight"
	columnWindspeed  = "windspeed"
)

// Series is an hourly weather record. Wind may be given as one plain
// "windspeed" column or as several "windspeed_<h>m" columns.
type Series struct {
	times      []time.Time
	waveheight []float64
	plainWind  []float64
	windByH    map[float64][]float64
	measured   []float64
	alpha      float64

	mu      sync.Mutex
	derived map[float64][]float64
}

// Option configures a Series
type Option func(*Series)

// WithAlpha sets the shear exponent used for extrapolation
func WithAlpha(alpha float64) Option {
	return func(s *Series) {
		if alpha > 0 {
			s.alpha = alpha
		}
	}
}

// NewSeries builds a series from hourly timestamps and named columns
func NewSeries(times []time.Time, columns map[string][]float64, opts ...Option) (*Series, error) {
	if len(times) == 0 {
		return nil, shared.NewValidationError("weather", "series is empty")
	}

	s := &Series{
		times:   append([]time.Time(nil), times...),
		windByH: map[float64][]float64{},
		alpha:   DefaultAlpha,
		derived: map[float64][]float64{},
	}
	for _, opt := range opts {
		opt(s)
	}

	for name, values := range columns {
		if len(values) != len(times) {
			return nil, shared.NewValidationError(name, fmt.Sprintf("has %d rows, expected %d", len(values), len(times)))
		}
		key := strings.ToLower(strings.TrimSpace(name))
		switch {
		case key == columnWaveheight:
			s.waveheight = append([]float64(nil), values...)
		case key == columnWindspeed:
			s.plainWind = append([]float64(nil), values...)
		case strings.HasPrefix(key, columnWindspeed+"_"):
			h, err := parseHeight(key)
			if err != nil {
				return nil, err
			}
			s.windByH[h] = append([]float64(nil), values...)
			s.measured = append(s.measured, h)
		}
	}
	sort.Float64s(s.measured)

	return s, nil
}

// NewHourlySeries is NewSeries with timestamps generated hourly from start
func NewHourlySeries(start time.Time, columns map[string][]float64, opts ...Option) (*Series, error) {
	n := 0
	for _, v := range columns {
		n = len(v)
		break
	}
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return NewSeries(times, columns, opts...)
}

func parseHeight(column string) (float64, error) {
	raw := strings.TrimSuffix(strings.TrimPrefix(column, columnWindspeed+"_"), "m")
	h, err := strconv.ParseFloat(raw, 64)
	if err != nil || h <= 0 {
		return 0, shared.NewValidationError(column, "windspeed column must be named windspeed_<height>m")
	}
	return h, nil
}

// Len is the number of hourly rows
func (s *Series) Len() int {
	return len(s.times)
}

func (s *Series) Alpha() float64 {
	return s.alpha
}

// Heights returns the measured wind heights in ascending order
func (s *Series) Heights() []float64 {
	return append([]float64(nil), s.measured...)
}

// TimeAt returns the timestamp of row i
func (s *Series) TimeAt(i int) time.Time {
	if i < 0 {
		return s.times[0]
	}
	if i >= len(s.times) {
		last := s.times[len(s.times)-1]
		return last.Add(time.Duration(i-len(s.times)+1) * time.Hour)
	}
	return s.times[i]
}

// IndexOf returns the first row at or after t. Dates outside the series are
// reported as a WeatherProfileError.
func (s *Series) IndexOf(t time.Time) (int, error) {
	first, last := s.times[0], s.times[len(s.times)-1]
	if t.Before(first) || t.After(last) {
		return 0, shared.NewWeatherProfileError(
			t.Format(DateLayout+" 15:04"),
			first.Format(DateLayout+" 15:04"),
			last.Format(DateLayout+" 15:04"),
		)
	}
	return sort.Search(len(s.times), func(i int) bool { return !s.times[i].Before(t) }), nil
}

// ParseDate parses "MM/DD/YYYY" or "MM/DD/YYYY HH:MM"
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{DateLayout + " 15:04", DateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected MM/DD/YYYY", raw)
}

// Waveheight returns the wave height at row i and whether the column exists
func (s *Series) Waveheight(i int) (float64, bool) {
	if s.waveheight == nil {
		return 0, false
	}
	return s.waveheight[i], true
}

// Windspeed returns the wind speed at row i for height h. A height of zero
// means the lowest measured height.
func (s *Series) Windspeed(i int, h float64) (float64, bool) {
	col := s.windColumn(h)
	if col == nil {
		return 0, false
	}
	return col[i], true
}

func (s *Series) windColumn(h float64) []float64 {
	if s.plainWind != nil {
		return s.plainWind
	}
	if len(s.measured) == 0 {
		return nil
	}
	if h <= 0 {
		h = s.measured[0]
	}
	if col, ok := s.windByH[h]; ok {
		return col
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if col, ok := s.derived[h]; ok {
		return col
	}
	col := s.resolveHeight(h)
	s.derived[h] = col
	return col
}

// resolveHeight interpolates between the bracketing heights with a power law
// fitted to the column means, or extrapolates from the nearest height with
// the fixed shear exponent. Columns without a positive mean cannot be fitted
// and use the fixed exponent too.
func (s *Series) resolveHeight(h float64) []float64 {
	loc := sort.Search(len(s.measured), func(i int) bool { return s.measured[i] > h })

	switch loc {
	case 0:
		return extrapolate(s.windByH[s.measured[0]], s.measured[0], h, s.alpha)
	case len(s.measured):
		top := s.measured[len(s.measured)-1]
		return extrapolate(s.windByH[top], top, h, s.alpha)
	}

	h1, h2 := s.measured[loc-1], s.measured[loc]
	ts1, ts2 := s.windByH[h1], s.windByH[h2]
	alpha := s.alpha
	if m1, m2 := mean(ts1), mean(ts2); m1 > 0 && m2 > 0 {
		alpha = math.Log(m2/m1) / math.Log(h2/h1)
	}
	out := make([]float64, len(ts1))
	factor := math.Pow(h/h1, alpha)
	for i, v := range ts1 {
		out[i] = v * factor
	}
	return out
}

func extrapolate(ts []float64, h1, h, alpha float64) []float64 {
	out := make([]float64, len(ts))
	for i, v := range ts {
		if h > h1 {
			out[i] = v * math.Pow(h/h1, alpha)
		} else {
			out[i] = v / math.Pow(h1/h, alpha)
		}
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
