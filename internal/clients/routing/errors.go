package routing

import (
	"errors"
	"fmt"
)

// ErrRouteUnreachable is returned when the backend answers 400: no route exists
// between the requested points under the requested constraints. Callers must not
// mask it with a fallback route.
var ErrRouteUnreachable = errors.New("route unreachable")

// TransientFetchError describes any other failed fetch: transport errors, non-2xx
// statuses, unreadable or structurally invalid bodies. Callers may fall back.
type TransientFetchError struct {
	Op         string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransientFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("routing %s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("routing %s failed: %v", e.Op, e.Err)
}

func (e *TransientFetchError) Unwrap() error {
	return e.Err
}

// IsUnreachable reports whether err is or wraps ErrRouteUnreachable
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrRouteUnreachable)
}
