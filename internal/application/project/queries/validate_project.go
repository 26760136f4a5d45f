package queries

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/orbit-go/internal/application/logging"
	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	appProject "github.com/andrescamacho/orbit-go/internal/application/project"
	"github.com/andrescamacho/orbit-go/internal/domain/config"
	"github.com/andrescamacho/orbit-go/internal/domain/project"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

// ValidateProjectQuery checks a project document without simulating it
type ValidateProjectQuery struct {
	Config  config.Value
	Weather *weather.Series
}

// ValidateProjectResponse reports the outcome. Missing lists "Phase: path"
// entries; Err holds any other validation error.
type ValidateProjectResponse struct {
	Valid   bool
	Missing []string
	Err     error
}

// ValidateProjectHandler handles the ValidateProject query
type ValidateProjectHandler struct {
	registries appProject.RegistryFactory
	settings   appProject.Settings
}

// NewValidateProjectHandler creates a new ValidateProjectHandler
func NewValidateProjectHandler(registries appProject.RegistryFactory, settings appProject.Settings) *ValidateProjectHandler {
	return &ValidateProjectHandler{registries: registries, settings: settings}
}

// Handle executes the ValidateProject query. An invalid project is a
// successful query with Valid false.
func (h *ValidateProjectHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	q, ok := request.(*ValidateProjectQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ValidateProjectQuery")
	}

	p, err := project.New(q.Config, h.registries(), h.settings.Options(logging.FromContext(ctx), q.Weather))
	if err == nil {
		err = p.Validate()
	}
	if err == nil {
		return &ValidateProjectResponse{Valid: true}, nil
	}

	resp := &ValidateProjectResponse{Err: err}
	var missing *shared.MissingInputsError
	if errors.As(err, &missing) {
		resp.Missing = missing.Paths
	}
	return resp, nil
}
