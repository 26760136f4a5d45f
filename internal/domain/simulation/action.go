package simulation

import "sort"

// Level classifies action log entries
type Level string

const (
	// LevelAction is an atomic task or delay
	LevelAction Level = "ACTION"

	// LevelOperation wraps a whole operation such as a complete trip
	LevelOperation Level = "OPERATION"

	// LevelDebug entries are kept only in the debug log
	LevelDebug Level = "DEBUG"
)

// DelayAction is the action name used for weather and queue waits
const DelayAction = "Delay"

// Action is one entry of the action log. Times are hours relative to the
// start of the owning phase until the orchestrator shifts them.
type Action struct {
	Agent    string  `json:"agent"`
	Action   string  `json:"action"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Cost     float64 `json:"cost"`
	Level    Level   `json:"level"`
	Phase    string  `json:"phase,omitempty"`
	Location string  `json:"location,omitempty"`
}

// End returns Start + Duration
func (a Action) End() float64 {
	return a.Start + a.Duration
}

// LogEntry is a debug message
type LogEntry struct {
	Time    float64 `json:"time"`
	Agent   string  `json:"agent,omitempty"`
	Message string  `json:"message"`
}

// ProgressPoint marks the completion of a unit of installed work, such as
// one substructure or one array string
type ProgressPoint struct {
	Label string  `json:"label"`
	Time  float64 `json:"time"`
	Agent string  `json:"agent,omitempty"`
}

// SortActions orders actions by start time, keeping insertion order for ties
func SortActions(actions []Action) {
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Start < actions[j].Start
	})
}

// TotalCost sums the cost of the given actions
func TotalCost(actions []Action) float64 {
	total := 0.0
	for _, a := range actions {
		total += a.Cost
	}
	return total
}

// Span returns max(End) over the actions, or zero when empty
func Span(actions []Action) float64 {
	span := 0.0
	for _, a := range actions {
		if end := a.End(); end > span {
			span = end
		}
	}
	return span
}
