package weather

import (
	"math"

	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

const epsilon = 1e-9

// Bound is an optional upper limit
type Bound struct {
	Set bool
	Max float64
}

// Max returns a Bound with the given limit
func Max(v float64) Bound {
	return Bound{Set: true, Max: v}
}

// Constraint holds the operating limits of a task. WindHeight selects the
// wind profile height the limit applies to; zero means the lowest measured height.
type Constraint struct {
	Windspeed  Bound
	WindHeight float64
	Waveheight Bound
}

// IsZero reports whether the constraint sets no limits
func (c Constraint) IsZero() bool {
	return !c.Windspeed.Set && !c.Waveheight.Set
}

// Window is a view of a Series starting at a fixed row; hour 0 of the window
// is the first row of the owning phase.
type Window struct {
	series *Series
	offset int
}

// Slice returns the window starting at row from
func (s *Series) Slice(from int) *Window {
	if from < 0 {
		from = 0
	}
	return &Window{series: s, offset: from}
}

// Len is the number of hours available in the window
func (w *Window) Len() int {
	if w == nil {
		return math.MaxInt32
	}
	n := w.series.Len() - w.offset
	if n < 0 {
		return 0
	}
	return n
}

func (w *Window) Offset() int {
	if w == nil {
		return 0
	}
	return w.offset
}

func (w *Window) Series() *Series {
	if w == nil {
		return nil
	}
	return w.series
}

// Complies reports whether hour h satisfies c. Limits on columns that are
// not present in the series are ignored.
func (w *Window) Complies(h int, c Constraint) bool {
	if w == nil || c.IsZero() {
		return true
	}
	row := w.offset + h
	if c.Waveheight.Set {
		if v, ok := w.series.Waveheight(row); ok && !(v <= c.Waveheight.Max) {
			return false
		}
	}
	if c.Windspeed.Set {
		if v, ok := w.series.Windspeed(row, c.WindHeight); ok && !(v <= c.Windspeed.Max) {
			return false
		}
	}
	return true
}

// FindStart returns the earliest time at or after t from which every hour
// covering [start, start+duration) complies with c.
func (w *Window) FindStart(t, duration float64, c Constraint) (float64, error) {
	if w == nil || c.IsZero() || duration <= 0 {
		return t, nil
	}

	n := w.Len()
	start := t
	for {
		first := int(math.Floor(start + epsilon))
		last := int(math.Ceil(start+duration-epsilon)) - 1
		if last < first {
			last = first
		}
		if last >= n {
			return 0, shared.NewWeatherProfileExhaustedError(w.series.Len())
		}

		bad := -1
		for h := last; h >= first; h-- {
			if !w.Complies(h, c) {
				bad = h
				break
			}
		}
		if bad < 0 {
			return start, nil
		}
		start = float64(bad + 1)
	}
}

// Segment is one stretch of a suspendable task
type Segment struct {
	Start  float64
	End    float64
	Active bool
}

func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Split lays a suspendable task of the given active duration onto the
// window starting at t. Work pauses through non-compliant hours and resumes
// when the limits are met again; consecutive stretches of the same kind are
// merged.
func (w *Window) Split(t, duration float64, c Constraint) ([]Segment, error) {
	if duration <= 0 {
		return nil, nil
	}
	if w == nil || c.IsZero() {
		return []Segment{{Start: t, End: t + duration, Active: true}}, nil
	}

	n := w.Len()
	var out []Segment
	push := func(seg Segment) {
		if seg.End-seg.Start <= epsilon {
			return
		}
		if len(out) > 0 && out[len(out)-1].Active == seg.Active && math.Abs(out[len(out)-1].End-seg.Start) <= epsilon {
			out[len(out)-1].End = seg.End
			return
		}
		out = append(out, seg)
	}

	cur, remaining := t, duration
	for remaining > epsilon {
		h := int(math.Floor(cur + epsilon))
		if h >= n {
			return nil, shared.NewWeatherProfileExhaustedError(w.series.Len())
		}
		if w.Complies(h, c) {
			end := math.Min(float64(h+1), cur+remaining)
			push(Segment{Start: cur, End: end, Active: true})
			remaining -= end - cur
			cur = end
			continue
		}

		next := h
		for next < n && !w.Complies(next, c) {
			next++
		}
		if next >= n {
			return nil, shared.NewWeatherProfileExhaustedError(w.series.Len())
		}
		push(Segment{Start: cur, End: float64(next), Active: false})
		cur = float64(next)
	}

	return out, nil
}
