package geo

import "strconv"

// Coordinate is a WGS84 position stored as [longitude, latitude].
// The JSON form is the GeoJSON position array used by the routing backend.
type Coordinate [2]float64

// NewCoordinate builds a Coordinate from longitude and latitude.
func NewCoordinate(lon, lat float64) Coordinate {
	return Coordinate{lon, lat}
}

// Lon returns the longitude in degrees.
func (c Coordinate) Lon() float64 { return c[0] }

// Lat returns the latitude in degrees.
func (c Coordinate) Lat() float64 { return c[1] }

// Valid reports whether latitude is in [-90, 90] and longitude in [-180, 180].
func (c Coordinate) Valid() bool {
	return c.Lat() >= -90 && c.Lat() <= 90 &&
		c.Lon() >= -180 && c.Lon() <= 180
}

// String renders the coordinate in the "lat,lng" order used by the routing endpoints.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat(), 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon(), 'f', -1, 64)
}
