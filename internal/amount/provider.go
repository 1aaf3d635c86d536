package amount

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// QueryInclusionPolicy controls whether a provider takes part in
// capability-based queries.
type QueryInclusionPolicy int

const (
	// QueryAlways includes the provider in every query stage.
	QueryAlways QueryInclusionPolicy = iota
	// QueryDirectReferenceOnly includes the provider only when a query names
	// its amount type or asks for its exact flavor.
	QueryDirectReferenceOnly
	// QueryNever excludes the provider from queries entirely. It remains
	// reachable through a factory lookup by type.
	QueryNever
)

func (p QueryInclusionPolicy) String() string {
	switch p {
	case QueryAlways:
		return "ALWAYS"
	case QueryDirectReferenceOnly:
		return "DIRECT_REFERENCE_ONLY"
	case QueryNever:
		return "NEVER"
	default:
		return fmt.Sprintf("QueryInclusionPolicy(%d)", int(p))
	}
}

// ParseQueryInclusionPolicy parses a policy name. An empty string is ALWAYS.
func ParseQueryInclusionPolicy(raw string) (QueryInclusionPolicy, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "ALWAYS":
		return QueryAlways, nil
	case "DIRECT_REFERENCE_ONLY":
		return QueryDirectReferenceOnly, nil
	case "NEVER":
		return QueryNever, nil
	default:
		return QueryAlways, fmt.Errorf("amount: unknown query inclusion policy %q", raw)
	}
}

// MinPriority is the priority assigned to an absent provider.
const MinPriority = math.MinInt32

// ErrContextExceedsMaximal is returned when a factory is asked to adopt a
// context its implementation cannot satisfy.
var ErrContextExceedsMaximal = errors.New("amount: context exceeds maximal context")

// Factory creates amounts of one implementation under a working context.
type Factory interface {
	AmountType() Type
	Context() Context
	MaximalContext() Context
	// WithContext returns a factory bound to ctx, or ErrContextExceedsMaximal.
	WithContext(ctx Context) (Factory, error)
}

// Provider supplies one amount implementation.
type Provider interface {
	AmountType() Type
	DefaultContext() Context
	MaximalContext() Context
	QueryInclusionPolicy() QueryInclusionPolicy
	NewFactory() Factory
}

// Prioritized is implemented by providers that declare a priority. Providers
// that do not implement it have priority 0.
type Prioritized interface {
	Priority() int
}

// Named is implemented by providers that carry a human readable identity.
type Named interface {
	Name() string
}

// PriorityOf returns the declared priority of p.
func PriorityOf(p Provider) int {
	if p == nil {
		return MinPriority
	}
	if pp, ok := p.(Prioritized); ok {
		return pp.Priority()
	}
	return 0
}

// NameOf returns a printable identity for p, used in logs and errors.
func NameOf(p Provider) string {
	if p == nil {
		return "<nil>"
	}
	if n, ok := p.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return fmt.Sprintf("%T(%s)", p, p.AmountType())
}
