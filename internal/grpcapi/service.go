// Package grpcapi exposes the amount registry over gRPC. Messages are
// google.protobuf.Struct values so the service needs no generated code.
package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "moneta.registry.v1.AmountRegistry"

const (
	MethodGetFactory           = "GetFactory"
	MethodGetAmountTypes       = "GetAmountTypes"
	MethodGetDefaultAmountType = "GetDefaultAmountType"
	MethodQueryAmountType      = "QueryAmountType"
)

// RegistryServer is the server API of the AmountRegistry service.
type RegistryServer interface {
	GetFactory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAmountTypes(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDefaultAmountType(context.Context, *structpb.Struct) (*structpb.Struct, error)
	QueryAmountType(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the AmountRegistry service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RegistryServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodGetFactory, RegistryServer.GetFactory),
		unaryMethod(MethodGetAmountTypes, RegistryServer.GetAmountTypes),
		unaryMethod(MethodGetDefaultAmountType, RegistryServer.GetDefaultAmountType),
		unaryMethod(MethodQueryAmountType, RegistryServer.QueryAmountType),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "moneta/registry/v1/registry.proto",
}

// Register registers srv on s.
func Register(s grpc.ServiceRegistrar, srv RegistryServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type unaryCall func(RegistryServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RegistryServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(RegistryServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
