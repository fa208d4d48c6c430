package grpcserver

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "jobmate.availability.v1.AvailabilityService"

// AvailabilityServer is the server API for AvailabilityService. Every
// message is a google.protobuf.Struct carrying the same JSON shape as the
// HTTP API.
type AvailabilityServer interface {
	FetchJobs(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ApplyFilter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetView(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ToggleDay(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(AvailabilityServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, m unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return m(srv.(AvailabilityServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
		handler := func(ctx context.Context, req any) (any, error) {
			return m(srv.(AvailabilityServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AvailabilityServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FetchJobs", Handler: unaryHandler("FetchJobs", AvailabilityServer.FetchJobs)},
		{MethodName: "ApplyFilter", Handler: unaryHandler("ApplyFilter", AvailabilityServer.ApplyFilter)},
		{MethodName: "GetView", Handler: unaryHandler("GetView", AvailabilityServer.GetView)},
		{MethodName: "ToggleDay", Handler: unaryHandler("ToggleDay", AvailabilityServer.ToggleDay)},
		{MethodName: "SubmitJob", Handler: unaryHandler("SubmitJob", AvailabilityServer.SubmitJob)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jobmate/availability/v1/availability.proto",
}

// Register mounts srv and the standard health service on gs.
func Register(gs *grpc.Server, srv AvailabilityServer) *health.Server {
	gs.RegisterService(&serviceDesc, srv)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return hs
}

// LoggingInterceptor logs every unary call with its duration and status code.
func LoggingInterceptor(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Info().
			Str("method", info.FullMethod).
			Str("code", status.Code(err).String()).
			Dur("took", time.Since(start)).
			Msg("[grpc] call")
		return resp, err
	}
}
