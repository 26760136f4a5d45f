package helpers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/andrescamacho/orbit-go/internal/domain/run"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
)

// MockRunRepository is an in-memory RunRepository
type MockRunRepository struct {
	mu      sync.RWMutex
	runs    map[string]*run.Run
	saves   int
	SaveErr error
}

// NewMockRunRepository creates an empty repository
func NewMockRunRepository() *MockRunRepository {
	return &MockRunRepository{runs: make(map[string]*run.Run)}
}

// Save stores a copy of r, replacing any run with the same ID
func (m *MockRunRepository) Save(ctx context.Context, r *run.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	stored := *r
	m.runs[r.ID.String()] = &stored
	m.saves++
	return nil
}

// FindByID returns the run without its action log
func (m *MockRunRepository) FindByID(ctx context.Context, id run.RunID) (*run.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.runs[id.String()]
	if !ok {
		return nil, shared.NewDomainError(fmt.Sprintf("run %s not found", id))
	}
	out := *r
	out.Actions = nil
	return &out, nil
}

// List applies the filter and returns runs newest first
func (m *MockRunRepository) List(ctx context.Context, filter run.ListFilter) ([]*run.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*run.Run
	for _, r := range m.runs {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Name != "" && !strings.HasPrefix(r.Name, filter.Name) {
			continue
		}
		c := *r
		c.Actions = nil
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Actions returns the stored action log
func (m *MockRunRepository) Actions(ctx context.Context, id run.RunID) ([]simulation.Action, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.runs[id.String()]
	if !ok {
		return nil, nil
	}
	return r.Actions, nil
}

// SaveCount returns how many times Save succeeded
func (m *MockRunRepository) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Count returns the number of stored runs
func (m *MockRunRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}
