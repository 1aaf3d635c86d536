// Package amount holds the capability data model shared by amount providers,
// the provider catalog and the resolver.
package amount

import (
	"fmt"
	"strings"
)

// Type identifies a monetary amount implementation, e.g. "moneta.Money".
type Type string

const (
	// UnboundedPrecision marks a context that supports arbitrary precision.
	UnboundedPrecision = 0
	// UnboundedScale marks a context that supports any scale.
	UnboundedScale = -1
)

// Flavor classifies the numeric behaviour of an amount implementation.
type Flavor int

const (
	FlavorUndefined Flavor = iota
	FlavorPrecision
	FlavorFixedScale
	FlavorPerformance
)

func (f Flavor) String() string {
	switch f {
	case FlavorUndefined:
		return "UNDEFINED"
	case FlavorPrecision:
		return "PRECISION"
	case FlavorFixedScale:
		return "FIXED_SCALE"
	case FlavorPerformance:
		return "PERFORMANCE"
	default:
		return fmt.Sprintf("Flavor(%d)", int(f))
	}
}

// ParseFlavor parses the upper-case flavor name. An empty string is UNDEFINED.
func ParseFlavor(raw string) (Flavor, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "UNDEFINED":
		return FlavorUndefined, nil
	case "PRECISION":
		return FlavorPrecision, nil
	case "FIXED_SCALE":
		return FlavorFixedScale, nil
	case "PERFORMANCE":
		return FlavorPerformance, nil
	default:
		return FlavorUndefined, fmt.Errorf("amount: unknown flavor %q", raw)
	}
}

// RoundingMode names the rounding applied by an amount implementation.
type RoundingMode string

const (
	RoundHalfEven RoundingMode = "HALF_EVEN"
	RoundHalfUp   RoundingMode = "HALF_UP"
	RoundDown     RoundingMode = "DOWN"
)

// Context is the capability envelope of an amount implementation: the bounds
// it can satisfy and the numeric flavor it belongs to.
//
// A Precision of UnboundedPrecision satisfies any precision requirement and a
// MaxScale of UnboundedScale satisfies any scale requirement.
type Context struct {
	AmountType   Type
	Precision    int
	MaxScale     int
	Flavor       Flavor
	RoundingMode RoundingMode
}

// WithAmountType returns a copy of c bound to t.
func (c Context) WithAmountType(t Type) Context {
	c.AmountType = t
	return c
}

func (c Context) String() string {
	var b strings.Builder
	b.WriteString("Context{")
	if c.AmountType != "" {
		fmt.Fprintf(&b, "amountType=%s, ", c.AmountType)
	}
	fmt.Fprintf(&b, "precision=%d, maxScale=%d, flavor=%s", c.Precision, c.MaxScale, c.Flavor)
	if c.RoundingMode != "" {
		fmt.Fprintf(&b, ", roundingMode=%s", c.RoundingMode)
	}
	b.WriteString("}")
	return b.String()
}
