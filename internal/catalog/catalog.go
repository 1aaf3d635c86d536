// Package catalog builds the immutable provider catalog: exactly one provider
// per amount type, chosen by registration priority.
package catalog

import (
	"github.com/go-logr/logr"

	"github.com/anvil-platform/moneta/internal/amount"
)

// Shadowing records a provider that lost registration of its amount type.
type Shadowing struct {
	AmountType amount.Type
	Winner     amount.Provider
	Loser      amount.Provider
}

// Catalog maps each amount type to its winning provider. A Catalog is never
// mutated after Build returns and is safe for concurrent readers.
type Catalog struct {
	generation string
	byType     map[amount.Type]amount.Provider
	order      []amount.Type
	shadowed   []Shadowing
}

// Option configures Build.
type Option func(*options)

type options struct {
	logger     logr.Logger
	priority   func(amount.Provider) int
	generation string
}

// WithLogger sets the logger used for registration warnings.
func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPriorityFunc replaces amount.PriorityOf as the priority lookup.
func WithPriorityFunc(f func(amount.Provider) int) Option {
	return func(o *options) {
		if f != nil {
			o.priority = f
		}
	}
}

// WithGeneration tags the catalog with an identifier for the build.
func WithGeneration(id string) Option {
	return func(o *options) { o.generation = id }
}

// Empty returns a catalog with no providers.
func Empty() *Catalog {
	return &Catalog{byType: map[amount.Type]amount.Provider{}}
}

// Build registers providers in the given order.
//
// For a repeated amount type the provider with the higher priority wins and
// takes over the position of the first registration. A lower priority
// newcomer is logged and dropped. Equal priorities fail the whole build with
// an *AmbiguousRegistrationError.
func Build(providers []amount.Provider, opts ...Option) (*Catalog, error) {
	o := options{logger: logr.Discard(), priority: amount.PriorityOf}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Catalog{
		generation: o.generation,
		byType:     make(map[amount.Type]amount.Provider, len(providers)),
		order:      make([]amount.Type, 0, len(providers)),
	}
	for i, p := range providers {
		if p == nil {
			o.logger.Info("skipping nil amount provider", "index", i)
			continue
		}
		t := p.AmountType()
		if t == "" {
			o.logger.Info("skipping amount provider without amount type", "provider", amount.NameOf(p))
			continue
		}

		existing, ok := c.byType[t]
		if !ok {
			c.byType[t] = p
			c.order = append(c.order, t)
			continue
		}

		incoming, current := o.priority(p), o.priority(existing)
		switch {
		case incoming < current:
			o.logger.Info("ignoring amount provider with lower priority",
				"severity", "warning",
				"amountType", t,
				"ignored", amount.NameOf(p), "ignoredPriority", incoming,
				"registered", amount.NameOf(existing), "registeredPriority", current)
			c.shadowed = append(c.shadowed, Shadowing{AmountType: t, Winner: existing, Loser: p})
		case incoming == current:
			return nil, &AmbiguousRegistrationError{
				AmountType: t,
				Priority:   incoming,
				Incoming:   amount.NameOf(p),
				Existing:   amount.NameOf(existing),
			}
		default:
			o.logger.V(1).Info("replacing amount provider with higher priority",
				"amountType", t,
				"replaced", amount.NameOf(existing), "replacedPriority", current,
				"registered", amount.NameOf(p), "registeredPriority", incoming)
			c.shadowed = append(c.shadowed, Shadowing{AmountType: t, Winner: p, Loser: existing})
			c.byType[t] = p
		}
	}

	// A loser recorded before its winner was itself replaced must point at
	// the final winner.
	for i := range c.shadowed {
		c.shadowed[i].Winner = c.byType[c.shadowed[i].AmountType]
	}
	return c, nil
}

// Generation returns the identifier passed through WithGeneration.
func (c *Catalog) Generation() string { return c.generation }

// Len returns the number of registered amount types.
func (c *Catalog) Len() int { return len(c.order) }

// Lookup returns the provider registered for t.
func (c *Catalog) Lookup(t amount.Type) (amount.Provider, bool) {
	p, ok := c.byType[t]
	return p, ok
}

// Types returns the registered amount types in first-registration order.
func (c *Catalog) Types() []amount.Type {
	out := make([]amount.Type, len(c.order))
	copy(out, c.order)
	return out
}

// Providers returns the registered providers in first-registration order.
func (c *Catalog) Providers() []amount.Provider {
	out := make([]amount.Provider, 0, len(c.order))
	for _, t := range c.order {
		out = append(out, c.byType[t])
	}
	return out
}

// Shadowed returns the providers that lost registration, in build order.
func (c *Catalog) Shadowed() []Shadowing {
	out := make([]Shadowing, len(c.shadowed))
	copy(out, c.shadowed)
	return out
}
