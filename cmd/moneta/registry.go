package main

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/anvil-platform/moneta/internal/amount"
	"github.com/anvil-platform/moneta/internal/config"
	"github.com/anvil-platform/moneta/internal/discovery"
	"github.com/anvil-platform/moneta/internal/grpcapi"
	"github.com/anvil-platform/moneta/internal/money"
	"github.com/anvil-platform/moneta/internal/registry"
	"github.com/anvil-platform/moneta/internal/resolver"
)

// buildService wires the configured discovery sources into a registry.
// The returned service is empty until reloaded.
func buildService(cfg config.Config) *registry.Service {
	var sources discovery.Chain
	if cfg.Providers.Builtins {
		sources = append(sources, discovery.Static(money.Providers()))
	}
	if dir := cfg.Providers.Dir; dir != "" {
		var src discovery.Source = discovery.NewDir(os.DirFS(dir), logger.WithName("discovery"))
		if constraint, ok := cfg.VersionConstraint(); ok {
			src = discovery.VersionFilter{Source: src, Constraint: constraint, Logger: logger.WithName("discovery")}
		}
		sources = append(sources, src)
	}

	opts := []registry.Option{
		registry.WithLogger(logger.WithName("registry")),
		registry.WithDefaultAmountType(cfg.DefaultAmountType()),
	}
	if cfg.Cache.QueryTTL > 0 {
		opts = append(opts, registry.WithQueryCache(resolver.NewQueryCache(cfg.Cache.QueryTTL)))
	}
	return registry.New(sources, opts...)
}

// registryView is the part of the registry the inspection commands need,
// answered either in-process or by a remote server.
type registryView interface {
	Factory(ctx context.Context, t amount.Type) (grpcapi.FactoryInfo, error)
	AmountTypes(ctx context.Context) ([]amount.Type, error)
	DefaultAmountType(ctx context.Context) (amount.Type, error)
	QueryAmountType(ctx context.Context, required *amount.Context) (amount.Type, error)
}

type localView struct {
	r resolver.Resolver
}

func (v localView) Factory(_ context.Context, t amount.Type) (grpcapi.FactoryInfo, error) {
	f, err := v.r.Factory(t)
	if err != nil {
		return grpcapi.FactoryInfo{}, err
	}
	return grpcapi.FactoryInfo{AmountType: f.AmountType(), Context: f.Context(), MaximalContext: f.MaximalContext()}, nil
}

func (v localView) AmountTypes(context.Context) ([]amount.Type, error) {
	return v.r.AmountTypes(), nil
}

func (v localView) DefaultAmountType(context.Context) (amount.Type, error) {
	return v.r.DefaultAmountType()
}

func (v localView) QueryAmountType(_ context.Context, required *amount.Context) (amount.Type, error) {
	return v.r.QueryAmountType(required)
}

// openView returns a remote view when target is set, otherwise it loads the
// local catalog. The returned func releases the view.
func openView(ctx context.Context, target string) (registryView, func(), error) {
	if target != "" {
		cc, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, nil, fmt.Errorf("dial %s: %w", target, err)
		}
		return grpcapi.NewClient(cc), func() { _ = cc.Close() }, nil
	}

	svc := buildService(cfg)
	if _, err := svc.Reload(ctx); err != nil {
		return nil, nil, err
	}
	return localView{r: svc.Resolver()}, func() {}, nil
}
