package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	"github.com/andrescamacho/orbit-go/internal/domain/run"
)

// GetRunQuery fetches one stored run by id
type GetRunQuery struct {
	RunID          string
	IncludeActions bool
}

type GetRunResponse struct {
	Run *run.Run
}

// GetRunHandler handles the GetRun query
type GetRunHandler struct {
	runs run.RunRepository
}

func NewGetRunHandler(runs run.RunRepository) *GetRunHandler {
	return &GetRunHandler{runs: runs}
}

func (h *GetRunHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	q, ok := request.(*GetRunQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetRunQuery")
	}

	id, err := run.ParseRunID(q.RunID)
	if err != nil {
		return nil, err
	}
	r, err := h.runs.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find run: %w", err)
	}
	if q.IncludeActions {
		actions, err := h.runs.Actions(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load actions: %w", err)
		}
		r.Actions = actions
	}
	return &GetRunResponse{Run: r}, nil
}
