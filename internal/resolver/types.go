package resolver

import "github.com/go-logr/logr"

// Option configures a DefaultResolver.
type Option func(*DefaultResolver)

// WithLogger sets the resolver logger.
func WithLogger(l logr.Logger) Option {
	return func(r *DefaultResolver) { r.logger = l }
}

// WithDefaultAmountType configures the default amount type. An identifier
// that is not registered is logged and ignored.
func WithDefaultAmountType(id string) Option {
	return func(r *DefaultResolver) { r.override = id }
}
