package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	"github.com/andrescamacho/orbit-go/internal/domain/run"
)

// ListRunsQuery lists stored runs, newest first
type ListRunsQuery struct {
	Status run.Status // optional
	Name   string     // optional
	Limit  int
}

type ListRunsResponse struct {
	Runs []*run.Run
}

// ListRunsHandler handles the ListRuns query
type ListRunsHandler struct {
	runs run.RunRepository
}

func NewListRunsHandler(runs run.RunRepository) *ListRunsHandler {
	return &ListRunsHandler{runs: runs}
}

func (h *ListRunsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	q, ok := request.(*ListRunsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListRunsQuery")
	}

	runs, err := h.runs.List(ctx, run.ListFilter{Status: q.Status, Name: q.Name, Limit: q.Limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return &ListRunsResponse{Runs: runs}, nil
}
