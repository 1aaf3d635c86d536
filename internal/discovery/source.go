// Package discovery finds amount providers: built-in descriptors, manifest
// files on disk and AmountProvider objects in a cluster.
package discovery

import (
	"context"

	"github.com/anvil-platform/moneta/internal/amount"
)

// Source yields providers in a stable order. The order decides the inferred
// default amount type and the catalog iteration order.
type Source interface {
	Discover(ctx context.Context) ([]amount.Provider, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context) ([]amount.Provider, error)

func (f SourceFunc) Discover(ctx context.Context) ([]amount.Provider, error) { return f(ctx) }

// Static is a fixed list of providers.
type Static []amount.Provider

func (s Static) Discover(context.Context) ([]amount.Provider, error) {
	out := make([]amount.Provider, len(s))
	copy(out, s)
	return out, nil
}

// Chain concatenates the providers of each source in order.
type Chain []Source

func (c Chain) Discover(ctx context.Context) ([]amount.Provider, error) {
	var out []amount.Provider
	for _, src := range c {
		if src == nil {
			continue
		}
		providers, err := src.Discover(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, providers...)
	}
	return out, nil
}
