package discovery

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"github.com/anvil-platform/moneta/internal/amount"
	"github.com/anvil-platform/moneta/internal/semver"
)

func manifest(name, amountType, version string) string {
	return "apiVersion: moneta.anvil.dev/v1alpha1\nkind: AmountProvider\nmetadata:\n  name: " + name +
		"\nspec:\n  amountType: " + amountType + "\n  version: " + version + "\n"
}

func TestDir_DiscoverInLexicalOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"b.yaml":        {Data: []byte(manifest("b", "type.B", "1.0.0"))},
		"a.yml":         {Data: []byte(manifest("a1", "type.A", "1.0.0") + "---\n" + manifest("a2", "type.A2", "1.0.0"))},
		"nested/c.yaml": {Data: []byte(manifest("c", "type.C", "1.0.0"))},
		"README.md":     {Data: []byte("# not a manifest")},
		".hidden.yaml":  {Data: []byte("garbage: [")},
	}

	providers, err := NewDir(fsys, logr.Discard()).Discover(context.Background())
	require.NoError(t, err)

	var names []string
	for _, p := range providers {
		names = append(names, amount.NameOf(p))
	}
	require.Equal(t, []string{"a1", "a2", "b", "c"}, names)
}

func TestDir_InvalidManifestFailsDiscovery(t *testing.T) {
	fsys := fstest.MapFS{
		"ok.yaml":  {Data: []byte(manifest("ok", "type.OK", "1.0.0"))},
		"bad.yaml": {Data: []byte(manifest("bad", "", "1.0.0"))},
	}

	_, err := NewDir(fsys, logr.Discard()).Discover(context.Background())
	require.ErrorIs(t, err, ErrInvalidManifest)
	require.Contains(t, err.Error(), "bad.yaml")
}

func TestDir_MalformedYAML(t *testing.T) {
	fsys := fstest.MapFS{"broken.yaml": {Data: []byte("kind: [unterminated")}}

	_, err := NewDir(fsys, logr.Discard()).Discover(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse broken.yaml")
}

func TestVersionFilter(t *testing.T) {
	src := Static{
		amount.NewDescriptor("old", "type.Old", amount.Context{}, amount.Context{}, amount.WithVersion("0.9.0")),
		amount.NewDescriptor("new", "type.New", amount.Context{}, amount.Context{}, amount.WithVersion("1.3.0")),
		amount.NewDescriptor("unversioned", "type.U", amount.Context{}, amount.Context{}),
	}
	filter := VersionFilter{Source: src, Constraint: semver.MustParseConstraint(">=1.0.0"), Logger: logr.Discard()}

	providers, err := filter.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 2)
	require.Equal(t, "new", amount.NameOf(providers[0]))
	require.Equal(t, "unversioned", amount.NameOf(providers[1]))
	require.Len(t, src, 3, "filter must not modify the static source")
}

func TestChain(t *testing.T) {
	a := amount.NewDescriptor("a", "type.A", amount.Context{}, amount.Context{})
	b := amount.NewDescriptor("b", "type.B", amount.Context{}, amount.Context{})
	failing := SourceFunc(func(context.Context) ([]amount.Provider, error) { return nil, context.Canceled })

	providers, err := Chain{Static{a}, nil, Static{b}}.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 2)

	_, err = Chain{Static{a}, failing}.Discover(context.Background())
	require.ErrorIs(t, err, context.Canceled)
}

func TestDir_ExampleManifests(t *testing.T) {
	providers, err := NewDir(os.DirFS("../../examples/providers"), logr.Discard()).Discover(context.Background())
	require.NoError(t, err)

	byType := map[amount.Type]amount.Provider{}
	for _, p := range providers {
		byType[p.AmountType()] = p
	}
	require.Len(t, byType, 3)
	require.Equal(t, amount.QueryDirectReferenceOnly, byType["acme.MinorUnits"].QueryInclusionPolicy())
	require.Equal(t, amount.QueryNever, byType["acme.LedgerAmount"].QueryInclusionPolicy())
	require.Equal(t, 5, amount.PriorityOf(byType["acme.Decimal128"]))
}
