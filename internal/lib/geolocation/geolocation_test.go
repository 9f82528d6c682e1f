package geolocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zack5769/saferide/internal/lib/geo"
)

var fallback = geo.NewCoordinate(137.7, 34.7)

func TestResolve_UsesLocatorFix(t *testing.T) {
	fix := geo.NewCoordinate(139.767, 35.681)
	pos, err := Resolve(context.Background(), StaticLocator{Position: fix}, fallback)
	require.NoError(t, err)
	assert.Equal(t, fix, pos)
}

func TestResolve_NilLocator(t *testing.T) {
	pos, err := Resolve(context.Background(), nil, fallback)
	assert.ErrorIs(t, err, ErrGeolocationUnavailable)
	assert.Equal(t, fallback, pos)
}

func TestResolve_LocatorError(t *testing.T) {
	locator := LocatorFunc(func(context.Context) (geo.Coordinate, error) {
		return geo.Coordinate{}, errors.New("permission denied")
	})

	pos, err := Resolve(context.Background(), locator, fallback)
	assert.ErrorIs(t, err, ErrGeolocationUnavailable)
	assert.ErrorContains(t, err, "permission denied")
	assert.Equal(t, fallback, pos)
}

func TestResolve_Timeout(t *testing.T) {
	locator := LocatorFunc(func(ctx context.Context) (geo.Coordinate, error) {
		<-ctx.Done()
		return geo.Coordinate{}, ctx.Err()
	})

	start := time.Now()
	pos, err := ResolveWithTimeout(context.Background(), locator, fallback, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrGeolocationUnavailable)
	assert.Equal(t, fallback, pos)
	assert.Less(t, time.Since(start), time.Second)
}

func TestResolve_InvalidFix(t *testing.T) {
	pos, err := Resolve(context.Background(), StaticLocator{Position: geo.NewCoordinate(0, 95)}, fallback)
	assert.ErrorIs(t, err, ErrGeolocationUnavailable)
	assert.Equal(t, fallback, pos)
}
