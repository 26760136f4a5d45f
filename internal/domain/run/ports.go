package run

import (
	"context"

	"github.com/andrescamacho/orbit-go/internal/domain/simulation"
)

// ListFilter narrows RunRepository.List
type ListFilter struct {
	Status Status
	Name   string
	Limit  int
}

// RunRepository persists runs with their phase summaries and action logs
type RunRepository interface {
	Save(ctx context.Context, r *Run) error
	FindByID(ctx context.Context, id RunID) (*Run, error)
	// List returns runs newest first without their action logs
	List(ctx context.Context, filter ListFilter) ([]*Run, error)
	Actions(ctx context.Context, id RunID) ([]simulation.Action, error)
}
