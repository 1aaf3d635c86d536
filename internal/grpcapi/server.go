package grpcapi

import (
	"context"
	"errors"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/anvil-platform/moneta/internal/amount"
	"github.com/anvil-platform/moneta/internal/resolver"
)

// Server implements RegistryServer on top of a resolver.
type Server struct {
	resolver resolver.Resolver
	tracer   trace.Tracer
	logger   logr.Logger
}

var _ RegistryServer = (*Server)(nil)

// ServerOption configures a Server.
type ServerOption func(*Server)

func WithTracer(t trace.Tracer) ServerOption {
	return func(s *Server) { s.tracer = t }
}

func WithLogger(l logr.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

func NewServer(r resolver.Resolver, opts ...ServerOption) *Server {
	s := &Server{
		resolver: r,
		tracer:   noop.NewTracerProvider().Tracer("noop"),
		logger:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) GetFactory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	_, span := s.tracer.Start(ctx, "AmountRegistry.GetFactory")
	defer span.End()

	raw, err := stringField(fieldAmountType, req.GetFields()[fieldAmountType])
	if err != nil {
		return nil, s.fail(span, status.Error(codes.InvalidArgument, err.Error()))
	}
	t := amount.Type(raw)
	if t == "" {
		return nil, s.fail(span, status.Error(codes.InvalidArgument, "amountType is required"))
	}
	span.SetAttributes(attribute.String("moneta.amount_type", string(t)))

	f, err := s.resolver.Factory(t)
	if err != nil {
		return nil, s.fail(span, toStatus(err))
	}
	return s.reply(span, map[string]any{
		fieldAmountType:     string(f.AmountType()),
		fieldContext:        contextToMap(f.Context()),
		fieldMaximalContext: contextToMap(f.MaximalContext()),
	})
}

func (s *Server) GetAmountTypes(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	_, span := s.tracer.Start(ctx, "AmountRegistry.GetAmountTypes")
	defer span.End()

	types := s.resolver.AmountTypes()
	list := make([]any, 0, len(types))
	for _, t := range types {
		list = append(list, string(t))
	}
	span.SetAttributes(attribute.Int("moneta.amount_types", len(list)))
	return s.reply(span, map[string]any{fieldAmountTypes: list})
}

func (s *Server) GetDefaultAmountType(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	_, span := s.tracer.Start(ctx, "AmountRegistry.GetDefaultAmountType")
	defer span.End()

	t, err := s.resolver.DefaultAmountType()
	if err != nil {
		return nil, s.fail(span, toStatus(err))
	}
	return s.reply(span, map[string]any{fieldAmountType: string(t)})
}

func (s *Server) QueryAmountType(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	_, span := s.tracer.Start(ctx, "AmountRegistry.QueryAmountType")
	defer span.End()

	var required *amount.Context
	switch v := req.GetFields()[fieldContext].GetKind().(type) {
	case *structpb.Value_StructValue:
		c, err := DecodeContext(v.StructValue)
		if err != nil {
			return nil, s.fail(span, status.Error(codes.InvalidArgument, err.Error()))
		}
		required = &c
		span.SetAttributes(attribute.String("moneta.required", c.String()))
	case *structpb.Value_NullValue, nil:
	default:
		return nil, s.fail(span, status.Error(codes.InvalidArgument, "context must be an object"))
	}

	t, err := s.resolver.QueryAmountType(required)
	if err != nil {
		return nil, s.fail(span, toStatus(err))
	}
	span.SetAttributes(attribute.String("moneta.amount_type", string(t)))
	return s.reply(span, map[string]any{fieldAmountType: string(t)})
}

func (s *Server) reply(span trace.Span, m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, s.fail(span, status.Errorf(codes.Internal, "encode response: %v", err))
	}
	return out, nil
}

func (s *Server) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	if status.Code(err) == codes.Internal {
		s.logger.Error(err, "amount registry request failed")
	}
	return err
}

// toStatus maps resolver errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, resolver.ErrNotFound), errors.Is(err, resolver.ErrNoMatchingProvider):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, resolver.ErrNoProvidersRegistered):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, resolver.ErrIncompatibleContext):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Errorf(codes.Internal, "%v", err)
	}
}
