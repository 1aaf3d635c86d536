package catalog

import (
	"errors"
	"fmt"

	"github.com/anvil-platform/moneta/internal/amount"
)

var (
	ErrAmbiguousRegistration = errors.New("catalog: ambiguous amount provider registration")
)

// AmbiguousRegistrationError reports two providers of one amount type with
// the same priority.
type AmbiguousRegistrationError struct {
	AmountType amount.Type
	Priority   int
	Incoming   string
	Existing   string
}

func (e *AmbiguousRegistrationError) Error() string {
	return fmt.Sprintf("catalog: ambiguous amount provider registration for %s: %s and %s both have priority %d",
		e.AmountType, e.Existing, e.Incoming, e.Priority)
}

func (e *AmbiguousRegistrationError) Unwrap() error { return ErrAmbiguousRegistration }
