// Package export writes routes and rain overlays in map interchange formats.
package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/twpayne/go-kml"

	"github.com/zack5769/saferide/internal/lib/geo"
	"github.com/zack5769/saferide/internal/lib/route"
	"github.com/zack5769/saferide/internal/lib/tiles"
)

const (
	routeStyleID = "route"
	rainStyleID  = "rain"
)

var (
	routeColor = color.RGBA{R: 0x19, G: 0x76, B: 0xd2, A: 0xff}
	rainColor  = color.RGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0x66}
)

// KML builds a document holding the route line, a point per maneuver and a
// polygon per rain tile.
func KML(path *route.RoutePath, rainTiles []tiles.Tile, name string) *kml.CompoundElement {
	coords := path.Coordinates()

	doc := kml.Document(
		kml.Name(name),
		kml.SharedStyle(routeStyleID,
			kml.LineStyle(
				kml.Color(routeColor),
				kml.Width(5),
			),
		),
		kml.SharedStyle(rainStyleID,
			kml.LineStyle(kml.Color(rainColor)),
			kml.PolyStyle(kml.Color(rainColor)),
		),
		kml.Placemark(
			kml.Name(name),
			kml.Description(fmt.Sprintf("%.0f m, %d ms", path.Distance, path.Time)),
			kml.StyleURL("#"+routeStyleID),
			kml.LineString(
				kml.Tessellate(true),
				kml.Coordinates(toKML(coords)...),
			),
		),
	)

	for i, in := range path.Instructions {
		start := in.Interval.Start()
		if start >= len(coords) {
			start = len(coords) - 1
		}
		label := in.Text
		if label == "" {
			label = in.Sign.String()
		}
		doc.Add(kml.Placemark(
			kml.Name(fmt.Sprintf("%d. %s", i+1, label)),
			kml.Description(in.StreetName),
			kml.Point(kml.Coordinates(toKML(coords[start:start+1])...)),
		))
	}

	for _, tile := range rainTiles {
		ring := tiles.TileBoundsPolygon(tile.X, tile.Y, tile.Zoom)
		doc.Add(kml.Placemark(
			kml.Name(fmt.Sprintf("rain %d/%d/%d", tile.Zoom, tile.X, tile.Y)),
			kml.StyleURL("#"+rainStyleID),
			kml.Polygon(
				kml.OuterBoundaryIs(
					kml.LinearRing(kml.Coordinates(toKML(ring[:])...)),
				),
			),
		))
	}

	return kml.KML(doc)
}

// WriteKML encodes the document built by KML to w
func WriteKML(w io.Writer, path *route.RoutePath, rainTiles []tiles.Tile, name string) error {
	if err := KML(path, rainTiles, name).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write KML: %w", err)
	}
	return nil
}

func toKML(coords []geo.Coordinate) []kml.Coordinate {
	out := make([]kml.Coordinate, len(coords))
	for i, c := range coords {
		out[i] = kml.Coordinate{Lon: c.Lon(), Lat: c.Lat()}
	}
	return out
}
