// Package geolocation resolves the device position used as a route origin.
package geolocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zack5769/saferide/internal/lib/geo"
)

// DefaultTimeout bounds a single position fix
const DefaultTimeout = 10 * time.Second

// ErrGeolocationUnavailable means no position fix could be obtained
var ErrGeolocationUnavailable = errors.New("geolocation unavailable")

// Locator provides the current device position
type Locator interface {
	CurrentPosition(ctx context.Context) (geo.Coordinate, error)
}

// LocatorFunc adapts a function to Locator
type LocatorFunc func(ctx context.Context) (geo.Coordinate, error)

func (f LocatorFunc) CurrentPosition(ctx context.Context) (geo.Coordinate, error) {
	return f(ctx)
}

// StaticLocator always reports the same position
type StaticLocator struct {
	Position geo.Coordinate
}

func (s StaticLocator) CurrentPosition(context.Context) (geo.Coordinate, error) {
	if !s.Position.Valid() {
		return geo.Coordinate{}, fmt.Errorf("%w: invalid static position %s", ErrGeolocationUnavailable, s.Position)
	}
	return s.Position, nil
}

// Resolve asks locator for a fix within DefaultTimeout. On failure it returns
// fallback together with a non-fatal error wrapping ErrGeolocationUnavailable,
// so callers can keep going and still tell the user why.
func Resolve(ctx context.Context, locator Locator, fallback geo.Coordinate) (geo.Coordinate, error) {
	return ResolveWithTimeout(ctx, locator, fallback, DefaultTimeout)
}

// ResolveWithTimeout is Resolve with an explicit fix timeout
func ResolveWithTimeout(ctx context.Context, locator Locator, fallback geo.Coordinate, timeout time.Duration) (geo.Coordinate, error) {
	if locator == nil {
		return fallback, fmt.Errorf("%w: no locator configured", ErrGeolocationUnavailable)
	}

	fixCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pos, err := locator.CurrentPosition(fixCtx)
	if err != nil {
		if errors.Is(err, ErrGeolocationUnavailable) {
			return fallback, err
		}
		return fallback, fmt.Errorf("%w: %v", ErrGeolocationUnavailable, err)
	}
	if !pos.Valid() {
		return fallback, fmt.Errorf("%w: locator returned %s", ErrGeolocationUnavailable, pos)
	}
	return pos, nil
}
