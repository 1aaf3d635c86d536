package grpcapi

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
)

// Serve listens on addr and serves srv until ctx is done, then stops
// gracefully.
func Serve(ctx context.Context, addr string, srv RegistryServer, opts ...grpc.ServerOption) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return ServeListener(ctx, lis, srv, opts...)
}

// ServeListener serves srv on lis until ctx is done.
func ServeListener(ctx context.Context, lis net.Listener, srv RegistryServer, opts ...grpc.ServerOption) error {
	s := grpc.NewServer(opts...)
	Register(s, srv)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(lis) }()

	select {
	case <-ctx.Done():
		s.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
