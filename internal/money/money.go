// Package money declares the built-in amount providers.
package money

import "github.com/anvil-platform/moneta/internal/amount"

const (
	// MoneyType is the arbitrary-precision decimal amount.
	MoneyType amount.Type = "moneta.Money"
	// FastMoneyType is the fixed-scale amount backed by a 64-bit integer with
	// five fractional digits.
	FastMoneyType amount.Type = "moneta.FastMoney"

	// Version is the version reported by the built-in providers.
	Version = "1.4.0"
)

// Namespace prefixes the names of the built-in providers. Manifests may not
// use it.
const Namespace = "builtin"

// MoneyDefaultContext returns the context Money reports by default.
func MoneyDefaultContext() amount.Context {
	return amount.Context{
		AmountType:   MoneyType,
		Precision:    64,
		MaxScale:     63,
		Flavor:       amount.FlavorPrecision,
		RoundingMode: amount.RoundHalfEven,
	}
}

// MoneyMaximalContext returns the widest context Money supports.
func MoneyMaximalContext() amount.Context {
	return amount.Context{
		AmountType:   MoneyType,
		Precision:    amount.UnboundedPrecision,
		MaxScale:     amount.UnboundedScale,
		Flavor:       amount.FlavorPrecision,
		RoundingMode: amount.RoundHalfEven,
	}
}

// FastMoneyContext returns the only context FastMoney supports.
func FastMoneyContext() amount.Context {
	return amount.Context{
		AmountType:   FastMoneyType,
		Precision:    19,
		MaxScale:     5,
		Flavor:       amount.FlavorFixedScale,
		RoundingMode: amount.RoundHalfEven,
	}
}

// Money returns the arbitrary-precision provider.
func Money() *amount.Descriptor {
	return amount.NewDescriptor(Namespace+"/money", MoneyType, MoneyDefaultContext(), MoneyMaximalContext(),
		amount.WithVersion(Version))
}

// FastMoney returns the fixed-scale provider. It takes part in queries only
// when asked for its type or its flavor.
func FastMoney() *amount.Descriptor {
	return amount.NewDescriptor(Namespace+"/fastmoney", FastMoneyType, FastMoneyContext(), FastMoneyContext(),
		amount.WithVersion(Version),
		amount.WithPolicy(amount.QueryDirectReferenceOnly))
}

// Providers returns the built-in providers, Money first.
func Providers() []amount.Provider {
	return []amount.Provider{Money(), FastMoney()}
}
