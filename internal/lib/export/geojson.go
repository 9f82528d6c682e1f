package export

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/zack5769/saferide/internal/lib/route"
	"github.com/zack5769/saferide/internal/lib/tiles"
)

// GeoJSON returns the route line followed by the rain tile polygons
func GeoJSON(path *route.RoutePath, rainTiles []tiles.Tile) *geojson.FeatureCollection {
	coords := path.Coordinates()
	line := make(orb.LineString, len(coords))
	for i, c := range coords {
		line[i] = orb.Point{c.Lon(), c.Lat()}
	}

	fc := geojson.NewFeatureCollection()
	routeFeature := geojson.NewFeature(line)
	routeFeature.Properties["kind"] = "route"
	routeFeature.Properties["distance"] = path.Distance
	routeFeature.Properties["time"] = path.Time
	fc.Append(routeFeature)

	for _, f := range tiles.Overlay(rainTiles).Features {
		f.Properties["kind"] = "rain"
		fc.Append(f)
	}

	fc.BBox = geojson.NewBBox(boundOf(line, rainTiles))
	return fc
}

func boundOf(line orb.LineString, rainTiles []tiles.Tile) orb.Bound {
	bound := line.Bound()
	if len(rainTiles) > 0 {
		bound = bound.Union(tiles.Bound(rainTiles))
	}
	return bound
}
