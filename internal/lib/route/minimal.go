package route

import (
	"math"
	"time"

	"github.com/zack5769/saferide/internal/lib/geo"
)

// DefaultFallbackSpeed is the constant speed assumed for synthesized routes, about 30 km/h.
const DefaultFallbackSpeed = 8.33 // m/s

// Share of the synthesized totals given to the first of the two travel instructions
const minimalLeadShare = 0.8

// Minimal synthesizes a structurally valid three-point route from start to end.
// It is the last tier of the fallback chain and cannot fail.
func Minimal(start, end geo.Coordinate, speed float64) *RouteResponse {
	if speed <= 0 {
		speed = DefaultFallbackSpeed
	}

	distance := geo.Between(start, end)
	timeMs := int64(math.Round(distance / speed * 1000))
	mid := geo.Midpoint(start, end)

	leadTime := int64(math.Round(float64(timeMs) * minimalLeadShare))
	tailTime := int64(math.Round(float64(timeMs) * (1 - minimalLeadShare)))

	path := RoutePath{
		Distance:      distance,
		Time:          timeMs,
		PointsEncoded: false,
		BBox:          geo.Bounds([]geo.Coordinate{start, end}),
		Points:        NewLineString(start, mid, end),
		Instructions: []Instruction{
			{
				Distance:   distance * minimalLeadShare,
				Sign:       ContinueOnStreet,
				Interval:   Interval{0, 1},
				Text:       "目的地方面へ進む",
				Time:       leadTime,
				StreetName: "メイン通り",
			},
			{
				Distance:   distance * (1 - minimalLeadShare),
				Sign:       TurnRight,
				Interval:   Interval{1, 2},
				Text:       "右折して目的地へ",
				Time:       tailTime,
				StreetName: "目的地通り",
			},
			{
				Distance: 0,
				Sign:     Finish,
				Interval: Interval{2, 2},
				Text:     "目的地に到着",
				Time:     0,
			},
		},
		Legs:             []any{},
		Details:          map[string]any{},
		SnappedWaypoints: NewLineString(start, end),
	}

	return &RouteResponse{
		Hints: map[string]float64{
			"visited_nodes.sum":     0,
			"visited_nodes.average": 0,
		},
		Info: &Info{
			Copyrights:        []string{"GraphHopper", "OpenStreetMap contributors"},
			RoadDataTimestamp: time.Now().UTC().Format(time.RFC3339),
		},
		Paths: []RoutePath{path},
	}
}
