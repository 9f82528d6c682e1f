package geo

import (
	"math"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_KnownPair(t *testing.T) {
	// Hamamatsu station area to a point ~2.9km north-east
	d := Distance(34.70, 137.70, 34.72, 137.72)

	assert.InDelta(t, 2900, d, 50, "Distance should be approximately 2.9km")
}

func TestDistance_ZeroForCoincidentPoints(t *testing.T) {
	points := []Coordinate{
		{137.7, 34.7},
		{0, 0},
		{-120.5436, 38.0675},
		{179.999, -89.5},
	}

	for _, p := range points {
		assert.Equal(t, 0.0, Distance(p.Lat(), p.Lon(), p.Lat(), p.Lon()))
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]Coordinate{
		{{137.70, 34.70}, {137.72, 34.72}},
		{{-120.5436, 38.0675}, {-120.4561, 38.1391}},
		{{139.6917, 35.6895}, {135.5023, 34.6937}},
		{{-179.9, 10}, {179.9, 10}},
	}

	for _, pair := range pairs {
		ab := Between(pair[0], pair[1])
		ba := Between(pair[1], pair[0])
		assert.InDelta(t, ab, ba, 1e-6)
	}
}

func TestDistance_MatchesS2Angle(t *testing.T) {
	// Independent oracle: s2 angular distance on the unit sphere scaled by the same radius
	pairs := [][2]Coordinate{
		{{137.70, 34.70}, {137.72, 34.72}},
		{{139.6917, 35.6895}, {135.5023, 34.6937}},
		{{-0.1276, 51.5072}, {2.3522, 48.8566}},
	}

	for _, pair := range pairs {
		a := s2.LatLngFromDegrees(pair[0].Lat(), pair[0].Lon())
		b := s2.LatLngFromDegrees(pair[1].Lat(), pair[1].Lon())
		expected := a.Distance(b).Radians() * EarthRadiusMeters

		assert.InDelta(t, expected, Between(pair[0], pair[1]), 0.01)
	}
}

func TestDistance_Antipodal(t *testing.T) {
	halfCircumference := math.Pi * EarthRadiusMeters

	for lat := -89.0; lat <= 89.0; lat += 1.0 {
		for lng := -180.0; lng < 0; lng += 7.5 {
			d := Distance(lat, lng, -lat, lng+180)
			require.False(t, math.IsNaN(d), "lat %v lng %v", lat, lng)
			assert.InDelta(t, halfCircumference, d, 1)
		}
	}
}

func TestDistance_TriangleInequality(t *testing.T) {
	route := []Coordinate{
		{137.7000, 34.7000},
		{137.7040, 34.7031},
		{137.7101, 34.7080},
		{137.7155, 34.7142},
		{137.7200, 34.7200},
	}

	for i := 0; i+2 < len(route); i++ {
		a, b, c := route[i], route[i+1], route[i+2]
		assert.GreaterOrEqual(t, Between(a, b)+Between(b, c), Between(a, c)-1e-9)
	}
}

func TestPathLength(t *testing.T) {
	route := []Coordinate{
		{137.70, 34.70},
		{137.71, 34.71},
		{137.72, 34.72},
	}

	full := Between(route[0], route[1]) + Between(route[1], route[2])
	assert.InDelta(t, full, PathLength(route, 0, 2), 1e-9)
	assert.InDelta(t, Between(route[1], route[2]), PathLength(route, 1, 2), 1e-9)

	// Clamped past the end
	assert.InDelta(t, full, PathLength(route, 0, 10), 1e-9)
	// Reversed or empty ranges
	assert.Equal(t, 0.0, PathLength(route, 2, 1))
	assert.Equal(t, 0.0, PathLength(route, 1, 1))
	assert.Equal(t, 0.0, PathLength(nil, 0, 3))
}

func TestMidpoint(t *testing.T) {
	mid := Midpoint(Coordinate{137.70, 34.70}, Coordinate{137.72, 34.72})

	assert.InDelta(t, 137.71, mid.Lon(), 1e-9)
	assert.InDelta(t, 34.71, mid.Lat(), 1e-9)
}

func TestDecodePolyline(t *testing.T) {
	// Canonical example from the polyline algorithm documentation
	points, err := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.InDelta(t, 38.5, points[0].Lat(), 1e-5)
	assert.InDelta(t, -120.2, points[0].Lon(), 1e-5)
	assert.InDelta(t, 40.7, points[1].Lat(), 1e-5)
	assert.InDelta(t, -120.95, points[1].Lon(), 1e-5)
	assert.InDelta(t, 43.252, points[2].Lat(), 1e-5)
	assert.InDelta(t, -126.453, points[2].Lon(), 1e-5)

	_, err = DecodePolyline("")
	assert.Error(t, err)
}

func TestEncodePolyline_RoundTrip(t *testing.T) {
	route := []Coordinate{{137.70, 34.70}, {137.71, 34.71}, {137.72, 34.72}}

	decoded, err := DecodePolyline(EncodePolyline(route))
	require.NoError(t, err)
	require.Len(t, decoded, len(route))
	for i := range route {
		assert.InDelta(t, route[i].Lon(), decoded[i].Lon(), 1e-5)
		assert.InDelta(t, route[i].Lat(), decoded[i].Lat(), 1e-5)
	}
}

func TestCoordinate(t *testing.T) {
	c := NewCoordinate(137.7, 34.7)

	assert.Equal(t, 137.7, c.Lon())
	assert.Equal(t, 34.7, c.Lat())
	assert.Equal(t, "34.7,137.7", c.String())
	assert.True(t, c.Valid())
	assert.False(t, NewCoordinate(-300, 200).Valid())
}

func TestBounds(t *testing.T) {
	b := Bounds([]Coordinate{{137.72, 34.70}, {137.70, 34.72}})

	assert.Equal(t, [4]float64{137.70, 34.70, 137.72, 34.72}, b)
	assert.Equal(t, [4]float64{}, Bounds(nil))
}
