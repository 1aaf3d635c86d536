package grpcapi

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/anvil-platform/moneta/internal/amount"
	"github.com/anvil-platform/moneta/internal/catalog"
	"github.com/anvil-platform/moneta/internal/money"
	"github.com/anvil-platform/moneta/internal/resolver"
)

func startServer(t *testing.T, r resolver.Resolver, opts ...ServerOption) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ServeListener(ctx, lis, NewServer(r, opts...)) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		require.NoError(t, <-done)
	})
	return NewClient(conn)
}

func builtinResolver(t *testing.T) resolver.Resolver {
	t.Helper()
	cat, err := catalog.Build(money.Providers())
	require.NoError(t, err)
	return resolver.NewDefault(cat)
}

func TestServer_RoundTrip(t *testing.T) {
	client := startServer(t, builtinResolver(t))
	ctx := context.Background()

	types, err := client.AmountTypes(ctx)
	require.NoError(t, err)
	require.Equal(t, []amount.Type{money.MoneyType, money.FastMoneyType}, types)

	def, err := client.DefaultAmountType(ctx)
	require.NoError(t, err)
	require.Equal(t, money.MoneyType, def)

	got, err := client.QueryAmountType(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, money.MoneyType, got)

	got, err = client.QueryAmountType(ctx, &amount.Context{Precision: 10, MaxScale: 2, Flavor: amount.FlavorFixedScale})
	require.NoError(t, err)
	require.Equal(t, money.FastMoneyType, got)

	info, err := client.Factory(ctx, money.FastMoneyType)
	require.NoError(t, err)
	require.Equal(t, money.FastMoneyType, info.AmountType)
	require.Equal(t, money.FastMoneyContext(), info.Context)
	require.Equal(t, money.FastMoneyContext(), info.MaximalContext)
}

func TestServer_ErrorCodes(t *testing.T) {
	ctx := context.Background()
	client := startServer(t, builtinResolver(t))

	_, err := client.Factory(ctx, "acme.Missing")
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.Factory(ctx, "")
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.QueryAmountType(ctx, &amount.Context{AmountType: money.FastMoneyType, Precision: 30, MaxScale: 2})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	empty := startServer(t, resolver.NewDefault(nil))
	_, err = empty.DefaultAmountType(ctx)
	require.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = empty.QueryAmountType(ctx, &amount.Context{Precision: 10, MaxScale: 2})
	require.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_RejectsMalformedContext(t *testing.T) {
	srv := NewServer(builtinResolver(t))
	req, err := structpb.NewStruct(map[string]any{
		fieldContext: map[string]any{fieldPrecision: 2.5},
	})
	require.NoError(t, err)

	_, err = srv.QueryAmountType(context.Background(), req)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_RejectsNonStringAmountType(t *testing.T) {
	srv := NewServer(builtinResolver(t))
	ctx := context.Background()

	req, err := structpb.NewStruct(map[string]any{fieldAmountType: 7.0})
	require.NoError(t, err)
	_, err = srv.GetFactory(ctx, req)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.Contains(t, status.Convert(err).Message(), "amountType must be a string")

	req, err = structpb.NewStruct(map[string]any{
		fieldContext: map[string]any{fieldAmountType: false, fieldPrecision: 10.0},
	})
	require.NoError(t, err)
	_, err = srv.QueryAmountType(ctx, req)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	req, err = structpb.NewStruct(map[string]any{fieldContext: "moneta.Money"})
	require.NoError(t, err)
	_, err = srv.QueryAmountType(ctx, req)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	req, err = structpb.NewStruct(map[string]any{fieldContext: nil})
	require.NoError(t, err)
	got, err := srv.QueryAmountType(ctx, req)
	require.NoError(t, err)
	require.Equal(t, string(money.MoneyType), got.GetFields()[fieldAmountType].GetStringValue())
}

func TestServer_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	srv := NewServer(builtinResolver(t), WithTracer(tp.Tracer("test")))

	_, err := srv.GetDefaultAmountType(context.Background(), &structpb.Struct{})
	require.NoError(t, err)
	_, err = srv.GetFactory(context.Background(), &structpb.Struct{})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "AmountRegistry.GetDefaultAmountType", spans[0].Name())
	require.Equal(t, "AmountRegistry.GetFactory", spans[1].Name())
	require.NotEmpty(t, spans[1].Events(), "failed call records the error")
}
