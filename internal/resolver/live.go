package resolver

import (
	"sync/atomic"

	"github.com/anvil-platform/moneta/internal/amount"
	"github.com/anvil-platform/moneta/internal/metrics"
)

// Live is a Resolver whose underlying DefaultResolver can be replaced while
// queries are in flight. Each call reads one resolver snapshot.
type Live struct {
	current atomic.Pointer[DefaultResolver]
	cache   *QueryCache
}

var _ Resolver = (*Live)(nil)

// NewLive returns a Live resolver serving initial. A nil initial serves an
// empty catalog. cache may be nil.
func NewLive(initial *DefaultResolver, cache *QueryCache) *Live {
	if initial == nil {
		initial = NewDefault(nil)
	}
	l := &Live{cache: cache}
	l.current.Store(initial)
	return l
}

// Current returns the resolver serving new calls.
func (l *Live) Current() *DefaultResolver { return l.current.Load() }

// Swap installs next and returns the previous resolver.
func (l *Live) Swap(next *DefaultResolver) *DefaultResolver {
	if next == nil {
		next = NewDefault(nil)
	}
	prev := l.current.Swap(next)
	if l.cache != nil {
		l.cache.Flush()
	}
	return prev
}

func (l *Live) Factory(t amount.Type) (amount.Factory, error) {
	return l.Current().Factory(t)
}

func (l *Live) AmountTypes() []amount.Type {
	return l.Current().AmountTypes()
}

func (l *Live) DefaultAmountType() (amount.Type, error) {
	return l.Current().DefaultAmountType()
}

func (l *Live) QueryAmountType(required *amount.Context) (amount.Type, error) {
	r := l.Current()
	if l.cache == nil || required == nil {
		return r.QueryAmountType(required)
	}

	generation := r.Catalog().Generation()
	if t, ok := l.cache.get(generation, *required); ok {
		metrics.QueryCacheHitsTotal.Inc()
		return t, nil
	}
	t, err := r.QueryAmountType(required)
	if err != nil {
		return "", err
	}
	l.cache.set(generation, *required, t)
	return t, nil
}
