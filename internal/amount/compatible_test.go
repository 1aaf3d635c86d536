package amount

import (
	"testing"

	"pgregory.net/rapid"
)

func TestIsCompatible(t *testing.T) {
	cases := []struct {
		name     string
		required Context
		maximal  Context
		want     bool
	}{
		{
			name:     "unbounded maximal satisfies unbounded requirement",
			required: Context{Precision: 0, MaxScale: -1},
			maximal:  Context{Precision: 0, MaxScale: -1},
			want:     true,
		},
		{
			name:     "unbounded maximal precision ignores scale bound",
			required: Context{Precision: 10, MaxScale: 100},
			maximal:  Context{Precision: 0, MaxScale: 5},
			want:     true,
		},
		{
			name:     "unbounded requirement against bounded maximal",
			required: Context{Precision: 0, MaxScale: 2},
			maximal:  Context{Precision: 64, MaxScale: 63},
			want:     false,
		},
		{
			name:     "precision above maximal",
			required: Context{Precision: 10, MaxScale: 2},
			maximal:  Context{Precision: 5, MaxScale: 63},
			want:     false,
		},
		{
			name:     "scale above maximal",
			required: Context{Precision: 10, MaxScale: 6},
			maximal:  Context{Precision: 19, MaxScale: 5},
			want:     false,
		},
		{
			name:     "unbounded maximal scale",
			required: Context{Precision: 10, MaxScale: 500},
			maximal:  Context{Precision: 19, MaxScale: -1},
			want:     true,
		},
		{
			name:     "unbounded required scale against bounded maximal",
			required: Context{Precision: 10, MaxScale: -1},
			maximal:  Context{Precision: 19, MaxScale: 5},
			want:     true,
		},
		{
			name:     "equal bounds",
			required: Context{Precision: 19, MaxScale: 5},
			maximal:  Context{Precision: 19, MaxScale: 5},
			want:     true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCompatible(tc.required, tc.maximal); got != tc.want {
				t.Fatalf("IsCompatible(%s, %s) = %v, want %v", tc.required, tc.maximal, got, tc.want)
			}
		})
	}
}

func TestIsCompatible_IgnoresFlavorAndType(t *testing.T) {
	required := Context{AmountType: "a", Precision: 5, MaxScale: 2, Flavor: FlavorPrecision}
	maximal := Context{AmountType: "b", Precision: 10, MaxScale: 4, Flavor: FlavorPerformance}
	if !IsCompatible(required, maximal) {
		t.Fatalf("expected flavor and amount type to be ignored")
	}
}

func TestIsCompatible_UnboundedMaximalAcceptsAll(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		required := drawContext(t, "required")
		maximal := Context{Precision: 0, MaxScale: rapid.IntRange(-1, 100).Draw(t, "maxScale")}
		if !IsCompatible(required, maximal) {
			t.Fatalf("unbounded maximal rejected %s", required)
		}
	})
}

// A requirement that is no stricter than a compatible one stays compatible.
// Precision 0 is the strictest precision requirement.
func TestIsCompatible_Monotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		required := drawContext(t, "required")
		maximal := drawContext(t, "maximal")
		if !IsCompatible(required, maximal) {
			return
		}

		relaxed := required
		if required.Precision > 0 {
			relaxed.Precision = rapid.IntRange(1, required.Precision).Draw(t, "relaxedPrecision")
		} else {
			relaxed.Precision = rapid.IntRange(0, 64).Draw(t, "relaxedPrecision")
		}
		relaxed.MaxScale = rapid.IntRange(-1, required.MaxScale).Draw(t, "relaxedScale")

		if !IsCompatible(relaxed, maximal) {
			t.Fatalf("relaxed %s rejected by %s although %s was accepted", relaxed, maximal, required)
		}
	})
}

func drawContext(t *rapid.T, label string) Context {
	return Context{
		Precision: rapid.IntRange(0, 64).Draw(t, label+".precision"),
		MaxScale:  rapid.IntRange(-1, 64).Draw(t, label+".maxScale"),
		Flavor:    Flavor(rapid.IntRange(0, 3).Draw(t, label+".flavor")),
	}
}
