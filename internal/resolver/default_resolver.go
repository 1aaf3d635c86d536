package resolver

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-logr/logr"

	"github.com/anvil-platform/moneta/internal/amount"
	"github.com/anvil-platform/moneta/internal/catalog"
	"github.com/anvil-platform/moneta/internal/metrics"
)

// DefaultResolver resolves amount types against one immutable catalog.
type DefaultResolver struct {
	catalog  *catalog.Catalog
	logger   logr.Logger
	override string

	defaultOnce sync.Once
	defaultType amount.Type
	defaultErr  error
}

var _ Resolver = (*DefaultResolver)(nil)

// NewDefault returns a resolver over cat. A nil catalog behaves as empty.
func NewDefault(cat *catalog.Catalog, opts ...Option) *DefaultResolver {
	if cat == nil {
		cat = catalog.Empty()
	}
	r := &DefaultResolver{catalog: cat, logger: logr.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the catalog the resolver reads.
func (r *DefaultResolver) Catalog() *catalog.Catalog { return r.catalog }

func (r *DefaultResolver) Factory(t amount.Type) (amount.Factory, error) {
	p, ok := r.catalog.Lookup(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, t)
	}
	return p.NewFactory(), nil
}

func (r *DefaultResolver) AmountTypes() []amount.Type {
	return r.catalog.Types()
}

func (r *DefaultResolver) DefaultAmountType() (amount.Type, error) {
	r.defaultOnce.Do(r.resolveDefault)
	return r.defaultType, r.defaultErr
}

func (r *DefaultResolver) resolveDefault() {
	if id := strings.TrimSpace(r.override); id != "" {
		if _, ok := r.catalog.Lookup(amount.Type(id)); ok {
			r.defaultType = amount.Type(id)
			return
		}
		r.logger.Error(ErrNotFound, "configured default amount type is not registered, inferring default", "amountType", id)
	}

	providers := r.catalog.Providers()
	if len(providers) == 0 {
		r.defaultErr = ErrNoProvidersRegistered
		return
	}
	r.defaultType = providers[0].AmountType()
	r.logger.V(1).Info("inferred default amount type", "amountType", r.defaultType)
}

func (r *DefaultResolver) QueryAmountType(required *amount.Context) (amount.Type, error) {
	if required == nil {
		t, err := r.DefaultAmountType()
		if err != nil {
			metrics.QueriesTotal.WithLabelValues(metrics.OutcomeError).Inc()
			return "", err
		}
		metrics.QueriesTotal.WithLabelValues(metrics.OutcomeDefault).Inc()
		return t, nil
	}

	t, outcome, err := r.query(*required)
	metrics.QueriesTotal.WithLabelValues(outcome).Inc()
	if err != nil {
		return "", err
	}
	r.logger.V(2).Info("resolved amount type", "required", required.String(), "amountType", t, "outcome", outcome)
	return t, nil
}

func (r *DefaultResolver) query(required amount.Context) (amount.Type, string, error) {
	providers := r.catalog.Providers()

	// Direct reference: the caller named the amount type.
	for _, p := range providers {
		if p.QueryInclusionPolicy() == amount.QueryNever || p.AmountType() != required.AmountType {
			continue
		}
		maximal := p.MaximalContext()
		if !amount.IsCompatible(required, maximal) {
			return "", metrics.OutcomeIncompatible, &IncompatibleContextError{Required: required, Maximal: maximal}
		}
		return p.AmountType(), metrics.OutcomeDirect, nil
	}

	outcome := metrics.OutcomeFlavor
	candidates := make([]amount.Provider, 0, len(providers))
	for _, p := range providers {
		policy := p.QueryInclusionPolicy()
		if policy == amount.QueryNever {
			continue
		}
		switch flavor := p.DefaultContext().Flavor; {
		case flavor == amount.FlavorUndefined:
			if policy == amount.QueryDirectReferenceOnly {
				continue
			}
		case flavor != required.Flavor:
			continue
		}
		if amount.IsCompatible(required, p.MaximalContext()) {
			candidates = append(candidates, p)
		}
	}

	if len(candidates) == 0 {
		outcome = metrics.OutcomeFallback
		for _, p := range providers {
			if p.QueryInclusionPolicy() != amount.QueryAlways {
				continue
			}
			if amount.IsCompatible(required, p.MaximalContext()) {
				candidates = append(candidates, p)
			}
		}
	}

	best, ok := selectCandidate(required, candidates)
	if !ok {
		return "", metrics.OutcomeNoMatch, fmt.Errorf("%w: required %s", ErrNoMatchingProvider, required)
	}
	return best.AmountType(), outcome, nil
}

func selectCandidate(required amount.Context, candidates []amount.Provider) (amount.Provider, bool) {
	switch len(candidates) {
	case 0:
		return nil, false
	case 1:
		return candidates[0], true
	}
	for _, p := range candidates {
		if p.DefaultContext().Flavor == required.Flavor {
			return p, true
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return CompareCandidates(candidates[i], candidates[j]) < 0
	})
	return candidates[0], true
}
