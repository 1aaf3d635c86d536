package resolver

import (
	"errors"
	"fmt"

	"github.com/anvil-platform/moneta/internal/amount"
)

var (
	// ErrNotFound indicates no provider is registered for the requested amount type.
	ErrNotFound = errors.New("resolver: amount type not found")
	// ErrNoProvidersRegistered indicates a default was requested from an empty catalog.
	ErrNoProvidersRegistered = errors.New("resolver: no amount providers registered")
	// ErrIncompatibleContext indicates a directly named provider cannot satisfy the required context.
	ErrIncompatibleContext = errors.New("resolver: incompatible context")
	// ErrNoMatchingProvider indicates no provider satisfies the required context.
	ErrNoMatchingProvider = errors.New("resolver: no matching amount provider")
)

// IncompatibleContextError carries the required context and the maximal
// context of the provider that was named directly.
type IncompatibleContextError struct {
	Required amount.Context
	Maximal  amount.Context
}

func (e *IncompatibleContextError) Error() string {
	return fmt.Sprintf("resolver: incompatible context: required %s exceeds maximal %s", e.Required, e.Maximal)
}

func (e *IncompatibleContextError) Unwrap() error { return ErrIncompatibleContext }
