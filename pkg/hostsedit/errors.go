package hostsedit

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Unblock when no managed line matches the domain.
// Callers treat it as a no-op.
var ErrNotFound = errors.New("domain is not blocked")

// InvalidDomainError reports a domain that cannot be turned into a rule.
type InvalidDomainError struct {
	Value  string
	Reason string
}

func (e *InvalidDomainError) Error() string {
	return fmt.Sprintf("invalid domain %q: %s", e.Value, e.Reason)
}

func invalid(value, reason string) error {
	return &InvalidDomainError{Value: value, Reason: reason}
}
