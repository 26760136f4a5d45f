package grpc

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/orbit-go/internal/application/mediator"
	"github.com/andrescamacho/orbit-go/internal/application/project/commands"
	"github.com/andrescamacho/orbit-go/internal/application/project/queries"
	"github.com/andrescamacho/orbit-go/internal/domain/shared"
	"github.com/andrescamacho/orbit-go/internal/domain/weather"
)

// WeatherLoader resolves a weather file path on the daemon host
type WeatherLoader interface {
	Load(path string) (*weather.Series, error)
}

// projectService implements ProjectServiceServer on top of the mediator
type projectService struct {
	mediator mediator.Mediator
	weather  WeatherLoader
	runs     *semaphore.Weighted
}

// NewProjectService creates the service. At most maxRuns projects are
// simulated at once; further RunProject calls wait for a slot.
func NewProjectService(m mediator.Mediator, loader WeatherLoader, maxRuns int) ProjectServiceServer {
	if maxRuns <= 0 {
		maxRuns = 1
	}
	return &projectService{
		mediator: m,
		weather:  loader,
		runs:     semaphore.NewWeighted(int64(maxRuns)),
	}
}

// RunProject request fields: name, config, weather (path on the daemon
// host), persist, include_actions. The reply carries run_id, status and
// outputs.
func (s *projectService) RunProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	cmd, err := s.runCommand(req)
	if err != nil {
		return nil, err
	}

	if err := s.runs.Acquire(ctx, 1); err != nil {
		return nil, toStatus(err)
	}
	defer s.runs.Release(1)

	out, err := mediator.SendAs[*commands.RunProjectResponse](ctx, s.mediator, cmd)
	if err != nil {
		return nil, toStatus(err)
	}

	outputs, err := toStruct(out.Result.Outputs(boolField(req, "include_actions")))
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"run_id":  structpb.NewStringValue(out.Run.ID.String()),
		"status":  structpb.NewStringValue(string(out.Run.Status)),
		"outputs": structpb.NewStructValue(outputs),
	}}, nil
}

func (s *projectService) runCommand(req *structpb.Struct) (*commands.RunProjectCommand, error) {
	cfgStruct, ok := structField(req, "config")
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "config is required")
	}
	cfg, err := fromStruct(cfgStruct)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	series, err := s.loadWeather(stringField(req, "weather"))
	if err != nil {
		return nil, err
	}
	name := stringField(req, "name")
	if name == "" {
		name = "remote"
	}
	return &commands.RunProjectCommand{
		Name:    name,
		Config:  cfg,
		Weather: series,
		Persist: boolField(req, "persist"),
	}, nil
}

func (s *projectService) loadWeather(path string) (*weather.Series, error) {
	if path == "" {
		return nil, nil
	}
	if s.weather == nil {
		return nil, status.Error(codes.FailedPrecondition, "daemon has no weather loader")
	}
	series, err := s.weather.Load(path)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return series, nil
}

// CompileSchema request: phases (list of names). Reply: inputs.
func (s *projectService) CompileSchema(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	resp, err := mediator.SendAs[*queries.CompileSchemaResponse](ctx, s.mediator, &queries.CompileSchemaQuery{Phases: stringList(req, "phases")})
	if err != nil {
		return nil, toStatus(err)
	}
	inputs, err := toStruct(resp.Inputs)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"inputs": structpb.NewStructValue(inputs),
	}}, nil
}

// ValidateProject request: config, weather. Reply: valid, missing, error.
func (s *projectService) ValidateProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	cmd, err := s.runCommand(req)
	if err != nil {
		return nil, err
	}
	out, err := mediator.SendAs[*queries.ValidateProjectResponse](ctx, s.mediator, &queries.ValidateProjectQuery{Config: cmd.Config, Weather: cmd.Weather})
	if err != nil {
		return nil, toStatus(err)
	}

	missing := make([]interface{}, len(out.Missing))
	for i, m := range out.Missing {
		missing[i] = m
	}
	fields := map[string]interface{}{"valid": out.Valid, "missing": missing}
	if out.Err != nil {
		fields["error"] = out.Err.Error()
	}
	reply, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return reply, nil
}

// toStatus maps domain errors onto gRPC codes
func toStatus(err error) error {
	var (
		missing   *shared.MissingInputsError
		cfgErr    *shared.ConfigurationError
		notFound  *shared.PhaseNotFoundError
		deps      *shared.PhaseDependenciesInvalidError
		cycle     *shared.CircularDependencyError
		weatherEr *shared.WeatherProfileError
		execErr   *shared.PhaseExecutionError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.As(err, &execErr):
		return status.Error(codes.Aborted, err.Error())
	case errors.As(err, &missing), errors.As(err, &cfgErr), errors.As(err, &notFound),
		errors.As(err, &deps), errors.As(err, &cycle), errors.As(err, &weatherEr):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

