package discovery

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/anvil-platform/moneta/internal/amount"
	"github.com/anvil-platform/moneta/internal/semver"
)

// Versioned is implemented by providers that report a semantic version.
type Versioned interface {
	Version() string
}

// VersionFilter drops providers whose version does not satisfy Constraint.
// Providers without a version pass.
type VersionFilter struct {
	Source     Source
	Constraint semver.Constraint
	Logger     logr.Logger
}

func (f VersionFilter) Discover(ctx context.Context) ([]amount.Provider, error) {
	providers, err := f.Source.Discover(ctx)
	if err != nil {
		return nil, err
	}

	out := providers[:0]
	for _, p := range providers {
		v, ok := p.(Versioned)
		if !ok || v.Version() == "" {
			out = append(out, p)
			continue
		}
		parsed, err := semver.ParseVersion(v.Version())
		if err != nil || !semver.Satisfies(parsed, f.Constraint) {
			f.Logger.Info("skipping amount provider outside version constraint",
				"provider", amount.NameOf(p), "version", v.Version(), "constraint", f.Constraint.String())
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
