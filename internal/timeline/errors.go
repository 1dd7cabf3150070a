package timeline

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired means no principal was resolved for the
	// request.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrAuthorizationDenied means the principal's family does not own
	// the requested child. It is returned identically whether the child
	// exists or not, so callers cannot probe for other families'
	// children.
	ErrAuthorizationDenied = errors.New("authorization denied")
)

// ValidationError reports malformed caller input. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SourceFetchError reports a failed record source read. A single failing
// source fails the whole page; there is no partial-result fallback.
type SourceFetchError struct {
	Kind Kind
	Err  error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("%s source fetch: %v", e.Kind, e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}
