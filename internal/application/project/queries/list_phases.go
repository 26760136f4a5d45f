package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	appProject "github.com/andrescamacho/orbit-go/internal/application/project"
	"github.com/andrescamacho/orbit-go/internal/domain/phase"
)

// ListPhasesQuery lists registered phases; an empty Kind lists all
type ListPhasesQuery struct {
	Kind phase.Kind
}

// PhaseInfo describes one registered phase
type PhaseInfo struct {
	Name     string
	Kind     phase.Kind
	Category string
	Inputs   []string
	Outputs  []string
}

type ListPhasesResponse struct {
	Phases []PhaseInfo
}

// ListPhasesHandler handles the ListPhases query
type ListPhasesHandler struct {
	registries appProject.RegistryFactory
}

func NewListPhasesHandler(registries appProject.RegistryFactory) *ListPhasesHandler {
	return &ListPhasesHandler{registries: registries}
}

func (h *ListPhasesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	q, ok := request.(*ListPhasesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListPhasesQuery")
	}

	registry := h.registries()
	resp := &ListPhasesResponse{}
	for _, name := range registry.Names(q.Kind) {
		reg, err := registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		resp.Phases = append(resp.Phases, PhaseInfo{
			Name:     reg.Name,
			Kind:     reg.Kind,
			Category: reg.Category,
			Inputs:   reg.Expected.Paths(),
			Outputs:  reg.Output.Paths(),
		})
	}
	return resp, nil
}
