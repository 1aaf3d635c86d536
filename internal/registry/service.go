// Package registry owns the live amount provider catalog: it discovers
// providers, builds a catalog and swaps the resolver serving queries.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/anvil-platform/moneta/internal/catalog"
	"github.com/anvil-platform/moneta/internal/discovery"
	"github.com/anvil-platform/moneta/internal/metrics"
	"github.com/anvil-platform/moneta/internal/resolver"
)

// Service rebuilds the catalog from a discovery source. Reloads are
// serialised; queries keep running against the previous catalog until a new
// one is installed. A failed reload leaves the previous catalog live.
type Service struct {
	source   discovery.Source
	live     *resolver.Live
	logger   logr.Logger
	override string

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l logr.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithDefaultAmountType sets the configured default amount type.
func WithDefaultAmountType(id string) Option {
	return func(s *Service) { s.override = id }
}

// WithQueryCache memoises query results between reloads.
func WithQueryCache(c *resolver.QueryCache) Option {
	return func(s *Service) { s.live = resolver.NewLive(nil, c) }
}

// New returns a service serving an empty catalog until the first Reload.
func New(source discovery.Source, opts ...Option) *Service {
	s := &Service{source: source, logger: logr.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	if s.live == nil {
		s.live = resolver.NewLive(nil, nil)
	}
	return s
}

// Resolver returns the resolver that always reads the latest catalog.
func (s *Service) Resolver() *resolver.Live { return s.live }

// Catalog returns the live catalog.
func (s *Service) Catalog() *catalog.Catalog { return s.live.Current().Catalog() }

// Reload discovers providers and installs a new catalog.
func (s *Service) Reload(ctx context.Context) (*catalog.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() { metrics.ReloadDuration.Observe(time.Since(start).Seconds()) }()

	providers, err := s.source.Discover(ctx)
	if err != nil {
		metrics.ReloadsTotal.WithLabelValues(metrics.ReloadDiscoveryError).Inc()
		return nil, fmt.Errorf("discover amount providers: %w", err)
	}

	generation := uuid.NewString()
	logger := s.logger.WithValues("generation", generation)
	cat, err := catalog.Build(providers, catalog.WithLogger(logger), catalog.WithGeneration(generation))
	if err != nil {
		if errors.Is(err, catalog.ErrAmbiguousRegistration) {
			metrics.AmbiguousRegistrationsTotal.Inc()
			metrics.ReloadsTotal.WithLabelValues(metrics.ReloadAmbiguous).Inc()
		} else {
			metrics.ReloadsTotal.WithLabelValues(metrics.ReloadError).Inc()
		}
		return nil, fmt.Errorf("build amount provider catalog: %w", err)
	}

	next := resolver.NewDefault(cat,
		resolver.WithLogger(logger),
		resolver.WithDefaultAmountType(s.override),
	)
	s.live.Swap(next)

	metrics.ReloadsTotal.WithLabelValues(metrics.ReloadSuccess).Inc()
	metrics.CatalogProviders.Set(float64(cat.Len()))
	metrics.CatalogShadowedProviders.Set(float64(len(cat.Shadowed())))
	logger.Info("amount provider catalog loaded", "providers", cat.Len(), "shadowed", len(cat.Shadowed()))
	return cat, nil
}

// Run reloads on every signal from changes until ctx is done. Reload errors
// are logged and the previous catalog stays live.
func (s *Service) Run(ctx context.Context, changes <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if _, err := s.Reload(ctx); err != nil {
				s.logger.Error(err, "amount provider reload failed, keeping previous catalog")
			}
		}
	}
}
