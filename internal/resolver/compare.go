package resolver

import "github.com/anvil-platform/moneta/internal/amount"

// CompareCandidates orders providers that are equally admissible for a query.
// It returns a negative number when a should be preferred over b.
//
// Ranking looks only at the maximal context: PRECISION flavor first, then
// unbounded precision, then the larger maximum scale.
func CompareCandidates(a, b amount.Provider) int {
	am, bm := a.MaximalContext(), b.MaximalContext()

	ap, bp := am.Flavor == amount.FlavorPrecision, bm.Flavor == amount.FlavorPrecision
	if ap != bp {
		if ap {
			return -1
		}
		return 1
	}

	au, bu := am.Precision == amount.UnboundedPrecision, bm.Precision == amount.UnboundedPrecision
	if au != bu {
		if au {
			return -1
		}
		return 1
	}

	switch {
	case am.MaxScale > bm.MaxScale:
		return -1
	case am.MaxScale < bm.MaxScale:
		return 1
	}
	return 0
}
