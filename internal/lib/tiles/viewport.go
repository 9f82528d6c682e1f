package tiles

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/zack5769/saferide/internal/lib/geo"
)

// Viewport is a map camera position
type Viewport struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Zoom      int     `json:"zoom"`
	// BBox is [minLon, minLat, maxLon, maxLat] padded around both points
	BBox geojson.BBox `json:"bbox"`
}

// FitViewport frames two points: the camera centres between them, the zoom
// steps down as the larger of the two spans grows, and the bound is padded by
// 20% of each span with a 0.01 degree minimum.
func FitViewport(a, b geo.Coordinate) Viewport {
	lngDiff := math.Abs(b.Lon() - a.Lon())
	latDiff := math.Abs(b.Lat() - a.Lat())

	lngPad := math.Max(lngDiff*0.2, 0.01)
	latPad := math.Max(latDiff*0.2, 0.01)

	return Viewport{
		Longitude: (a.Lon() + b.Lon()) / 2,
		Latitude:  (a.Lat() + b.Lat()) / 2,
		Zoom:      zoomForSpan(math.Max(lngDiff, latDiff)),
		BBox: geojson.NewBBox(orb.Bound{
			Min: orb.Point{math.Min(a.Lon(), b.Lon()) - lngPad, math.Min(a.Lat(), b.Lat()) - latPad},
			Max: orb.Point{math.Max(a.Lon(), b.Lon()) + lngPad, math.Max(a.Lat(), b.Lat()) + latPad},
		}),
	}
}

func zoomForSpan(span float64) int {
	switch {
	case span < 0.01:
		return 16
	case span < 0.05:
		return 14
	case span < 0.1:
		return 12
	case span < 0.5:
		return 10
	default:
		return 8
	}
}
