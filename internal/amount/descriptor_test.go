package amount

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescriptor_BindsContextsToType(t *testing.T) {
	d := NewDescriptor("decimal", "acme.Decimal",
		Context{Precision: 34, MaxScale: 10, Flavor: FlavorPrecision},
		Context{Precision: 34, MaxScale: 20, Flavor: FlavorPrecision},
		WithPriority(5), WithPolicy(QueryDirectReferenceOnly), WithVersion("1.2.0"),
	)

	require.Equal(t, Type("acme.Decimal"), d.AmountType())
	require.Equal(t, Type("acme.Decimal"), d.DefaultContext().AmountType)
	require.Equal(t, Type("acme.Decimal"), d.MaximalContext().AmountType)
	require.Equal(t, 5, PriorityOf(d))
	require.Equal(t, QueryDirectReferenceOnly, d.QueryInclusionPolicy())
	require.Equal(t, "1.2.0", d.Version())
	require.Equal(t, "decimal", NameOf(d))
}

func TestPriorityOf(t *testing.T) {
	require.Equal(t, MinPriority, PriorityOf(nil))
	require.Equal(t, 0, PriorityOf(plainProvider{}))
	require.Equal(t, 0, PriorityOf(NewDescriptor("d", "t", Context{}, Context{})))
	require.Equal(t, -3, PriorityOf(NewDescriptor("d", "t", Context{}, Context{}, WithPriority(-3))))
}

func TestNameOf_FallsBackToTypeName(t *testing.T) {
	require.Equal(t, "<nil>", NameOf(nil))
	require.Equal(t, "amount.plainProvider(plain)", NameOf(plainProvider{}))
}

func TestFactory_WithContext(t *testing.T) {
	d := NewDescriptor("fast", "acme.Fast",
		Context{Precision: 19, MaxScale: 5, Flavor: FlavorFixedScale},
		Context{Precision: 19, MaxScale: 5, Flavor: FlavorFixedScale},
	)
	f := d.NewFactory()
	require.Equal(t, d.DefaultContext(), f.Context())

	narrowed, err := f.WithContext(Context{Precision: 10, MaxScale: 2})
	require.NoError(t, err)
	require.Equal(t, Type("acme.Fast"), narrowed.Context().AmountType)
	require.Equal(t, 10, narrowed.Context().Precision)
	require.Equal(t, d.DefaultContext(), f.Context(), "original factory must not change")

	_, err = f.WithContext(Context{Precision: 19, MaxScale: 6})
	require.ErrorIs(t, err, ErrContextExceedsMaximal)

	_, err = f.WithContext(Context{Precision: 0, MaxScale: -1})
	require.ErrorIs(t, err, ErrContextExceedsMaximal)

	_, err = f.WithContext(Context{AmountType: "other", Precision: 5, MaxScale: 2})
	require.ErrorIs(t, err, ErrContextExceedsMaximal)
}

func TestParseFlavorAndPolicy(t *testing.T) {
	for _, f := range []Flavor{FlavorUndefined, FlavorPrecision, FlavorFixedScale, FlavorPerformance} {
		got, err := ParseFlavor(f.String())
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
	got, err := ParseFlavor("")
	require.NoError(t, err)
	require.Equal(t, FlavorUndefined, got)
	_, err = ParseFlavor("fuzzy")
	require.Error(t, err)

	for _, p := range []QueryInclusionPolicy{QueryAlways, QueryDirectReferenceOnly, QueryNever} {
		got, err := ParseQueryInclusionPolicy(p.String())
		require.NoError(t, err)
		require.Equal(t, p, got)
	}
	_, err = ParseQueryInclusionPolicy("sometimes")
	require.Error(t, err)
}

type plainProvider struct{}

func (plainProvider) AmountType() Type                           { return "plain" }
func (plainProvider) DefaultContext() Context                    { return Context{} }
func (plainProvider) MaximalContext() Context                    { return Context{} }
func (plainProvider) QueryInclusionPolicy() QueryInclusionPolicy { return QueryAlways }
func (plainProvider) NewFactory() Factory                        { return nil }
