package tiles

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/zack5769/saferide/internal/lib/geo"
)

// Tile addresses a square in the standard Web-Mercator slippy tiling scheme.
// The backend flags rain hazard cells with these.
type Tile struct {
	X    int `json:"x"`
	Y    int `json:"y"`
	Zoom int `json:"zoom"`
}

// TileToLonLat returns the north-west corner of tile (x, y) at zoom z.
// Passing x+1 or y+1 yields the neighbouring corners, which is what keeps adjacent tiles gap free.
func TileToLonLat(x, y, z int) geo.Coordinate {
	n := math.Exp2(float64(z))
	lon := float64(x)/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*float64(y)/n)))
	lat := latRad * 180.0 / math.Pi
	return geo.Coordinate{lon, lat}
}

// TileBoundsPolygon returns the closed ring NW, NE, SE, SW, NW for a tile.
func TileBoundsPolygon(x, y, z int) [5]geo.Coordinate {
	nw := TileToLonLat(x, y, z)
	se := TileToLonLat(x+1, y+1, z)

	west, north := nw.Lon(), nw.Lat()
	east, south := se.Lon(), se.Lat()

	return [5]geo.Coordinate{
		{west, north},
		{east, north},
		{east, south},
		{west, south},
		{west, north},
	}
}

// Polygon returns the tile bounds as an orb polygon.
func (t Tile) Polygon() orb.Polygon {
	bounds := TileBoundsPolygon(t.X, t.Y, t.Zoom)
	ring := make(orb.Ring, len(bounds))
	for i, c := range bounds {
		ring[i] = orb.Point{c.Lon(), c.Lat()}
	}
	return orb.Polygon{ring}
}

// Overlay converts rain tiles into a GeoJSON FeatureCollection, one polygon per tile.
// Duplicates are kept and render as overlapping polygons.
func Overlay(rainTiles []Tile) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, tile := range rainTiles {
		feature := geojson.NewFeature(tile.Polygon())
		feature.ID = i
		feature.Properties["tileX"] = tile.X
		feature.Properties["tileY"] = tile.Y
		feature.Properties["zoom"] = tile.Zoom
		fc.Append(feature)
	}
	return fc
}

// Bound is the union of all tile bounds. The zero bound is returned for no tiles.
func Bound(rainTiles []Tile) orb.Bound {
	if len(rainTiles) == 0 {
		return orb.Bound{}
	}
	bound := rainTiles[0].Polygon().Bound()
	for _, tile := range rainTiles[1:] {
		bound = bound.Union(tile.Polygon().Bound())
	}
	return bound
}
