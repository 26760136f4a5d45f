package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
)

// RunReply is the decoded RunProject reply
type RunReply struct {
	RunID   string
	Status  string
	Outputs config.Value
}

// ProjectClient calls a remote orbit daemon
type ProjectClient struct {
	conn   *grpc.ClientConn
	invoke grpc.ClientConnInterface
}

// Dial connects to address (host:port or unix:<path>)
func Dial(address string) (*ProjectClient, error) {
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	return &ProjectClient{conn: conn, invoke: conn}, nil
}

// NewProjectClient wraps an existing connection
func NewProjectClient(cc grpc.ClientConnInterface) *ProjectClient {
	return &ProjectClient{invoke: cc}
}

// Close closes the connection opened by Dial
func (c *ProjectClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// RunProject runs cfg on the daemon. weather is a path on the daemon host.
func (c *ProjectClient) RunProject(ctx context.Context, name string, cfg config.Value, weather string, persist, includeActions bool) (*RunReply, error) {
	cfgStruct, err := toStruct(cfg)
	if err != nil {
		return nil, err
	}
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"name":            structpb.NewStringValue(name),
		"config":          structpb.NewStructValue(cfgStruct),
		"weather":         structpb.NewStringValue(weather),
		"persist":         structpb.NewBoolValue(persist),
		"include_actions": structpb.NewBoolValue(includeActions),
	}}

	out := new(structpb.Struct)
	if err := c.invoke.Invoke(ctx, RunProjectMethod, req, out); err != nil {
		return nil, err
	}
	reply := &RunReply{
		RunID:  stringField(out, "run_id"),
		Status: stringField(out, "status"),
	}
	outputs, _ := structField(out, "outputs")
	if reply.Outputs, err = fromStruct(outputs); err != nil {
		return nil, err
	}
	return reply, nil
}

// CompileSchema returns the compiled inputs of phases
func (c *ProjectClient) CompileSchema(ctx context.Context, phases []string) (config.Value, error) {
	items := make([]interface{}, len(phases))
	for i, p := range phases {
		items[i] = p
	}
	req, err := structpb.NewStruct(map[string]interface{}{"phases": items})
	if err != nil {
		return config.Value{}, err
	}
	out := new(structpb.Struct)
	if err := c.invoke.Invoke(ctx, CompileSchemaMethod, req, out); err != nil {
		return config.Value{}, err
	}
	inputs, _ := structField(out, "inputs")
	return fromStruct(inputs)
}

// ValidateProject checks cfg on the daemon and returns the missing inputs
func (c *ProjectClient) ValidateProject(ctx context.Context, cfg config.Value, weather string) (bool, []string, string, error) {
	cfgStruct, err := toStruct(cfg)
	if err != nil {
		return false, nil, "", err
	}
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"config":  structpb.NewStructValue(cfgStruct),
		"weather": structpb.NewStringValue(weather),
	}}
	out := new(structpb.Struct)
	if err := c.invoke.Invoke(ctx, ValidateProjectMethod, req, out); err != nil {
		return false, nil, "", err
	}
	return boolField(out, "valid"), stringList(out, "missing"), stringField(out, "error"), nil
}
