package resolver

import "github.com/anvil-platform/moneta/internal/amount"

// Resolver answers which amount implementation to use.
//
// Implementations are safe for concurrent use.
type Resolver interface {
	// Factory returns a new factory for the registered provider of t.
	Factory(t amount.Type) (amount.Factory, error)
	// AmountTypes lists the registered amount types.
	AmountTypes() []amount.Type
	// DefaultAmountType returns the configured or inferred default type.
	DefaultAmountType() (amount.Type, error)
	// QueryAmountType selects the amount type best suited to required.
	// A nil required selects the default type.
	QueryAmountType(required *amount.Context) (amount.Type, error)
}
