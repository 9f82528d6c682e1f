package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/zack5769/saferide/internal/lib/format"
	"github.com/zack5769/saferide/internal/lib/geo"
	"github.com/zack5769/saferide/internal/lib/tiles"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "point-distance":
		handlePointDistance()
	case "path-length":
		handlePathLength()
	case "decode-polyline":
		handleDecodePolyline()
	case "tile-polygon":
		handleTilePolygon()
	case "rain-overlay":
		handleRainOverlay()
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func handlePointDistance() {
	fs := flag.NewFlagSet("point-distance", flag.ExitOnError)
	lat1 := fs.Float64("lat1", 0, "Latitude of first point")
	lng1 := fs.Float64("lng1", 0, "Longitude of first point")
	lat2 := fs.Float64("lat2", 0, "Latitude of second point")
	lng2 := fs.Float64("lng2", 0, "Longitude of second point")
	_ = fs.Parse(os.Args[2:])

	if *lat1 == 0 && *lng1 == 0 && *lat2 == 0 && *lng2 == 0 {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils point-distance --lat1 34.7038 --lng1 137.7350 --lat2 35.6812 --lng2 139.7671")
		fmt.Println("  (Hamamatsu Station to Tokyo Station)")
		os.Exit(1)
	}

	distance := geo.Distance(*lat1, *lng1, *lat2, *lng2)

	fmt.Printf("Haversine distance (R = %d m):\n", geo.EarthRadiusMeters)
	fmt.Printf("  Point 1: (%.6f, %.6f)\n", *lat1, *lng1)
	fmt.Printf("  Point 2: (%.6f, %.6f)\n", *lat2, *lng2)
	fmt.Printf("  Distance: %.2f meters (%s)\n", distance, format.Distance(distance))
}

func handlePathLength() {
	fs := flag.NewFlagSet("path-length", flag.ExitOnError)
	coordStr := fs.String("coords", "", "Semicolon separated lat,lng pairs")
	from := fs.Int("from", 0, "First index")
	to := fs.Int("to", -1, "Last index (-1 for the end)")
	_ = fs.Parse(os.Args[2:])

	if *coordStr == "" {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils path-length --coords \"34.7107,137.7034;34.7110,137.7063;34.7139,137.7067\"")
		os.Exit(1)
	}

	coords, err := parseCoordinatePairs(*coordStr)
	if err != nil {
		log.Fatalf("Error parsing coordinates: %v", err)
	}
	end := *to
	if end < 0 {
		end = len(coords) - 1
	}

	length := geo.PathLength(coords, *from, end)
	fmt.Printf("Polyline length:\n")
	fmt.Printf("  Points: %d\n", len(coords))
	fmt.Printf("  Span: %d -> %d\n", *from, end)
	fmt.Printf("  Length: %.2f meters (%s)\n", length, format.Distance(length))
	fmt.Printf("  Encoded: %s\n", geo.EncodePolyline(coords))
}

func handleDecodePolyline() {
	fs := flag.NewFlagSet("decode-polyline", flag.ExitOnError)
	polylineStr := fs.String("polyline", "", "Encoded polyline string to decode")
	verbose := fs.Bool("verbose", false, "Show all decoded points")
	_ = fs.Parse(os.Args[2:])

	if *polylineStr == "" {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils decode-polyline --polyline \"_p~iF~ps|U_ulLnnqC_mqNvxq`@\"")
		fmt.Println("  test-geo-utils decode-polyline --polyline \"encoded_string\" --verbose")
		os.Exit(1)
	}

	coords, err := geo.DecodePolyline(*polylineStr)
	if err != nil {
		log.Fatalf("Error decoding polyline: %v", err)
	}

	fmt.Printf("Polyline decoded successfully:\n")
	fmt.Printf("  Points: %d\n", len(coords))
	fmt.Printf("  Start: %s\n", coords[0])
	fmt.Printf("  End: %s\n", coords[len(coords)-1])
	fmt.Printf("  Length: %s\n", format.Distance(geo.PathLength(coords, 0, len(coords)-1)))

	if *verbose {
		fmt.Printf("  All points (lat,lng):\n")
		for i, c := range coords {
			fmt.Printf("    %d: %s\n", i+1, c)
		}
	}
}

func handleTilePolygon() {
	fs := flag.NewFlagSet("tile-polygon", flag.ExitOnError)
	x := fs.Int("x", -1, "Tile column")
	y := fs.Int("y", -1, "Tile row")
	z := fs.Int("z", 14, "Zoom level")
	_ = fs.Parse(os.Args[2:])

	if *x < 0 || *y < 0 {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils tile-polygon --x 14459 --y 6505 --z 14")
		os.Exit(1)
	}

	ring := tiles.TileBoundsPolygon(*x, *y, *z)
	labels := []string{"NW", "NE", "SE", "SW", "NW"}

	fmt.Printf("Tile %d/%d/%d:\n", *z, *x, *y)
	for i, c := range ring {
		fmt.Printf("  %s: lon %.6f, lat %.6f\n", labels[i], c.Lon(), c.Lat())
	}
	fmt.Printf("  Width: %s\n", format.Distance(geo.Between(ring[0], ring[1])))
	fmt.Printf("  Height: %s\n", format.Distance(geo.Between(ring[1], ring[2])))
}

func handleRainOverlay() {
	fs := flag.NewFlagSet("rain-overlay", flag.ExitOnError)
	tileStr := fs.String("tiles", "", "Semicolon separated x,y,zoom triples")
	_ = fs.Parse(os.Args[2:])

	if *tileStr == "" {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils rain-overlay --tiles \"14459,6505,14;14460,6505,14\"")
		os.Exit(1)
	}

	var rain []tiles.Tile
	for _, triple := range strings.Split(*tileStr, ";") {
		parts := strings.Split(strings.TrimSpace(triple), ",")
		if len(parts) != 3 {
			log.Fatalf("Invalid tile %q, expected x,y,zoom", triple)
		}
		var v [3]int
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				log.Fatalf("Invalid tile %q: %v", triple, err)
			}
			v[i] = n
		}
		rain = append(rain, tiles.Tile{X: v[0], Y: v[1], Zoom: v[2]})
	}

	out, err := json.MarshalIndent(tiles.Overlay(rain), "", "  ")
	if err != nil {
		log.Fatalf("Error encoding overlay: %v", err)
	}
	fmt.Println(string(out))
}

func printUsage() {
	fmt.Printf(`test-geo-utils - Geographic utility testing tool

USAGE:
    test-geo-utils <command> [options]

COMMANDS:
    point-distance      Haversine distance between two points
    path-length         Length of a polyline between two indices
    decode-polyline     Decode Google polyline string to coordinates
    tile-polygon        Corner ring of a slippy map tile
    rain-overlay        GeoJSON overlay for a list of rain tiles
    help                Show this help message

EXAMPLES:
    # Hamamatsu Station to Tokyo Station
    test-geo-utils point-distance --lat1 34.7038 --lng1 137.7350 --lat2 35.6812 --lng2 139.7671

    # Length of the bundled sample route's first leg
    test-geo-utils path-length --coords "34.7107,137.7034;34.7108,137.7049;34.7110,137.7063"

    # Decode polyline to see coordinates
    test-geo-utils decode-polyline --polyline "encoded_string" --verbose

    # Rain cell geometry
    test-geo-utils tile-polygon --x 14459 --y 6505 --z 14
    test-geo-utils rain-overlay --tiles "14459,6505,14;14460,6505,14"
`)
}

// parseCoordinatePairs parses "lat,lng;lat,lng" into coordinates
func parseCoordinatePairs(coordStr string) ([]geo.Coordinate, error) {
	pairs := strings.Split(coordStr, ";")
	coords := make([]geo.Coordinate, 0, len(pairs))

	for _, pair := range pairs {
		parts := strings.Split(strings.TrimSpace(pair), ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid coordinate pair: %s", pair)
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude: %s", parts[0])
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude: %s", parts[1])
		}

		c := geo.NewCoordinate(lng, lat)
		if !c.Valid() {
			return nil, fmt.Errorf("coordinate out of range: %s", pair)
		}
		coords = append(coords, c)
	}
	return coords, nil
}
