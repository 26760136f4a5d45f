package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	appProject "github.com/andrescamacho/orbit-go/internal/application/project"
	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/project"
)

// CompileSchemaQuery asks for the inputs a set of phases needs
type CompileSchemaQuery struct {
	Phases []string
}

// CompileSchemaResponse is the compiled input dictionary: every leaf is a
// unit label, with the design_phases and install_phases lists filled in
type CompileSchemaResponse struct {
	Inputs config.Value
}

// CompileSchemaHandler handles the CompileSchema query
type CompileSchemaHandler struct {
	registries appProject.RegistryFactory
}

// NewCompileSchemaHandler creates a new CompileSchemaHandler
func NewCompileSchemaHandler(registries appProject.RegistryFactory) *CompileSchemaHandler {
	return &CompileSchemaHandler{registries: registries}
}

// Handle executes the CompileSchema query
func (h *CompileSchemaHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	q, ok := request.(*CompileSchemaQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CompileSchemaQuery")
	}
	if len(q.Phases) == 0 {
		return nil, fmt.Errorf("at least one phase is required")
	}

	inputs, err := project.CompileInputDict(h.registries(), q.Phases)
	if err != nil {
		return nil, err
	}
	return &CompileSchemaResponse{Inputs: inputs}, nil
}
