package geo

import (
	"errors"
	"math"

	"github.com/twpayne/go-polyline"
)

// EarthRadiusMeters is the mean Earth radius used for every great-circle calculation.
const EarthRadiusMeters = 6371000

// Distance calculates great-circle distance in meters between two points using the Haversine formula
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	// If points are the same, distance is 0
	if lat1 == lat2 && lng1 == lng2 {
		return 0
	}

	// Convert degrees to radians
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	// Rounding can push a just past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Between is Distance for two Coordinates.
func Between(a, b Coordinate) float64 {
	return Distance(a.Lat(), a.Lon(), b.Lat(), b.Lon())
}

// PathLength walks the polyline from index from to index to and sums segment lengths.
// Indices are clamped to the polyline; a reversed or empty range has length 0.
func PathLength(coords []Coordinate, from, to int) float64 {
	if from < 0 {
		from = 0
	}
	if to > len(coords)-1 {
		to = len(coords) - 1
	}

	total := 0.0
	for i := from; i < to; i++ {
		total += Between(coords[i], coords[i+1])
	}
	return total
}

// Midpoint returns the arithmetic midpoint of two coordinates.
// Adequate for the short spans it is used on; not a great-circle midpoint.
func Midpoint(a, b Coordinate) Coordinate {
	return Coordinate{(a.Lon() + b.Lon()) / 2, (a.Lat() + b.Lat()) / 2}
}

// DecodePolyline decodes a Google encoded polyline (lat,lng order) into coordinates
func DecodePolyline(encoded string) ([]Coordinate, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	points := make([]Coordinate, len(coords))
	for i, coord := range coords {
		points[i] = Coordinate{coord[1], coord[0]}

		if !points[i].Valid() {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}

	return points, nil
}

// EncodePolyline is the inverse of DecodePolyline.
func EncodePolyline(coords []Coordinate) string {
	pairs := make([][]float64, len(coords))
	for i, c := range coords {
		pairs[i] = []float64{c.Lat(), c.Lon()}
	}
	return string(polyline.EncodeCoords(pairs))
}

// Bounds returns [minLon, minLat, maxLon, maxLat] for the given coordinates.
func Bounds(coords []Coordinate) [4]float64 {
	if len(coords) == 0 {
		return [4]float64{}
	}
	b := [4]float64{coords[0].Lon(), coords[0].Lat(), coords[0].Lon(), coords[0].Lat()}
	for _, c := range coords[1:] {
		b[0] = math.Min(b[0], c.Lon())
		b[1] = math.Min(b[1], c.Lat())
		b[2] = math.Max(b[2], c.Lon())
		b[3] = math.Max(b[3], c.Lat())
	}
	return b
}
