package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Full method names of the project service
const (
	ServiceName           = "orbit.v1.ProjectService"
	RunProjectMethod      = "/" + ServiceName + "/RunProject"
	CompileSchemaMethod   = "/" + ServiceName + "/CompileSchema"
	ValidateProjectMethod = "/" + ServiceName + "/ValidateProject"
)

// ProjectServiceServer is the server API of orbit.v1.ProjectService.
// Messages are google.protobuf.Struct documents.
type ProjectServiceServer interface {
	RunProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CompileSchema(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ValidateProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// RegisterProjectServiceServer registers srv on s
func RegisterProjectServiceServer(s grpc.ServiceRegistrar, srv ProjectServiceServer) {
	s.RegisterService(&ProjectServiceDesc, srv)
}

// ProjectServiceDesc describes orbit.v1.ProjectService
var ProjectServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProjectServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RunProject", Handler: unaryHandler(RunProjectMethod, ProjectServiceServer.RunProject)},
		{MethodName: "CompileSchema", Handler: unaryHandler(CompileSchemaMethod, ProjectServiceServer.CompileSchema)},
		{MethodName: "ValidateProject", Handler: unaryHandler(ValidateProjectMethod, ProjectServiceServer.ValidateProject)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "orbit/v1/project.proto",
}

type structMethod func(srv ProjectServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ProjectServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ProjectServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
