package setup

import (
	"reflect"

	"github.com/andrescamacho/orbit-go/internal/application/logging"
	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	appProject "github.com/andrescamacho/orbit-go/internal/application/project"
	projectCommands "github.com/andrescamacho/orbit-go/internal/application/project/commands"
	projectQueries "github.com/andrescamacho/orbit-go/internal/application/project/queries"
	"github.com/andrescamacho/orbit-go/internal/domain/run"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	registries appProject.RegistryFactory
	runs       run.RunRepository
	settings   appProject.Settings
}

// NewHandlerRegistry creates a new handler registry. runs may be nil, in
// which case the run queries are not registered.
func NewHandlerRegistry(
	registries appProject.RegistryFactory,
	runs run.RunRepository,
	settings appProject.Settings,
) *HandlerRegistry {
	if settings.Clock == nil {
		settings.Clock = shared.NewRealClock()
	}
	return &HandlerRegistry{
		registries: registries,
		runs:       runs,
		settings:   settings,
	}
}

// RegisterProjectHandlers registers:
//   - RunProjectCommand → RunProjectHandler
//   - RunSweepCommand → RunSweepHandler
//   - CompileSchemaQuery → CompileSchemaHandler
//   - ValidateProjectQuery → ValidateProjectHandler
//   - ListPhasesQuery → ListPhasesHandler
func (r *HandlerRegistry) RegisterProjectHandlers(m mediator.Mediator) error {
	handlers := []struct {
		request interface{}
		handler mediator.RequestHandler
	}{
		{&projectCommands.RunProjectCommand{}, projectCommands.NewRunProjectHandler(r.registries, r.runs, r.settings)},
		{&projectCommands.RunSweepCommand{}, projectCommands.NewRunSweepHandler(r.registries, r.runs, r.settings)},
		{&projectQueries.CompileSchemaQuery{}, projectQueries.NewCompileSchemaHandler(r.registries)},
		{&projectQueries.ValidateProjectQuery{}, projectQueries.NewValidateProjectHandler(r.registries, r.settings)},
		{&projectQueries.ListPhasesQuery{}, projectQueries.NewListPhasesHandler(r.registries)},
	}
	for _, h := range handlers {
		if err := m.Register(reflect.TypeOf(h.request), h.handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterRunHandlers registers ListRunsQuery and GetRunQuery
func (r *HandlerRegistry) RegisterRunHandlers(m mediator.Mediator) error {
	if err := m.Register(
		reflect.TypeOf(&projectQueries.ListRunsQuery{}),
		projectQueries.NewListRunsHandler(r.runs),
	); err != nil {
		return err
	}
	return m.Register(
		reflect.TypeOf(&projectQueries.GetRunQuery{}),
		projectQueries.NewGetRunHandler(r.runs),
	)
}

// CreateConfiguredMediator creates a mediator with the request logging
// middleware and every handler whose dependencies are available
func (r *HandlerRegistry) CreateConfiguredMediator() (mediator.Mediator, error) {
	m := mediator.NewMediator()
	m.Use(logging.Middleware)

	if err := r.RegisterProjectHandlers(m); err != nil {
		return nil, err
	}
	if r.runs != nil {
		if err := r.RegisterRunHandlers(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}
