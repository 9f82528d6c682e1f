package route

import (
	"github.com/zack5769/saferide/internal/lib/geo"
	"github.com/zack5769/saferide/internal/lib/tiles"
)

// Sign is a GraphHopper maneuver code
type Sign int

const (
	UTurnUnknown     Sign = -98
	UTurnLeft        Sign = -8
	KeepLeft         Sign = -7
	LeaveRoundabout  Sign = -6
	TurnSharpLeft    Sign = -3
	TurnLeft         Sign = -2
	TurnSlightLeft   Sign = -1
	ContinueOnStreet Sign = 0
	TurnSlightRight  Sign = 1
	TurnRight        Sign = 2
	TurnSharpRight   Sign = 3
	Finish           Sign = 4 // arrival; reserved for the last instruction
	ReachedVia       Sign = 5
	UseRoundabout    Sign = 6
	KeepRight        Sign = 7
	UTurnRight       Sign = 8
)

var signNames = map[Sign]string{
	UTurnUnknown:     "u_turn",
	UTurnLeft:        "u_turn_left",
	KeepLeft:         "keep_left",
	LeaveRoundabout:  "leave_roundabout",
	TurnSharpLeft:    "sharp_left",
	TurnLeft:         "left",
	TurnSlightLeft:   "slight_left",
	ContinueOnStreet: "continue",
	TurnSlightRight:  "slight_right",
	TurnRight:        "right",
	TurnSharpRight:   "sharp_right",
	Finish:           "arrive",
	ReachedVia:       "via_reached",
	UseRoundabout:    "roundabout",
	KeepRight:        "keep_right",
	UTurnRight:       "u_turn_right",
}

func (s Sign) String() string {
	if name, ok := signNames[s]; ok {
		return name
	}
	return "unknown"
}

// Interval is the [start, end] span of the polyline an instruction covers
type Interval [2]int

func (i Interval) Start() int { return i[0] }
func (i Interval) End() int   { return i[1] }

// Instruction represents one maneuver
type Instruction struct {
	Distance    float64  `json:"distance"` // meters
	Heading     *float64 `json:"heading,omitempty"`
	Sign        Sign     `json:"sign"`
	Interval    Interval `json:"interval"`
	Text        string   `json:"text"`
	Time        int64    `json:"time"` // milliseconds
	StreetName  string   `json:"street_name"`
	StreetRef   string   `json:"street_ref,omitempty"`
	LastHeading *float64 `json:"last_heading,omitempty"`
}

// LineString is a GeoJSON LineString geometry
type LineString struct {
	Type        string           `json:"type"`
	Coordinates []geo.Coordinate `json:"coordinates"`
}

// RoutePath is one computed route: polyline, instructions and totals
type RoutePath struct {
	Distance         float64       `json:"distance"` // meters
	Weight           float64       `json:"weight"`
	Time             int64         `json:"time"` // milliseconds
	Transfers        int           `json:"transfers"`
	PointsEncoded    bool          `json:"points_encoded"`
	BBox             [4]float64    `json:"bbox"`
	Points           Points        `json:"points"`
	Instructions     []Instruction `json:"instructions"`
	Legs             []any         `json:"legs"`
	Details          any           `json:"details"`
	Ascend           float64       `json:"ascend"`
	Descend          float64       `json:"descend"`
	SnappedWaypoints Points        `json:"snapped_waypoints"`
}

// Coordinates returns the decoded travel polyline
func (p *RoutePath) Coordinates() []geo.Coordinate {
	return p.Points.Coordinates
}

// RainTile is a slippy tile flagged as containing precipitation
type RainTile = tiles.Tile

// Info is the backend's response metadata
type Info struct {
	Copyrights        []string `json:"copyrights"`
	Took              int      `json:"took"`
	RoadDataTimestamp string   `json:"road_data_timestamp"`
}

// RouteResponse is the routing backend's response document
type RouteResponse struct {
	Response *struct {
		Paths []RoutePath `json:"paths"`
	} `json:"response,omitempty"`
	Hints     map[string]float64 `json:"hints,omitempty"`
	Info      *Info              `json:"info,omitempty"`
	Paths     []RoutePath        `json:"paths,omitempty"`
	RainTiles []RainTile         `json:"rain_tile_list,omitempty"`
}

// Path returns the primary route: paths[0], or response.paths[0] when the top-level list is absent
func (r *RouteResponse) Path() (*RoutePath, bool) {
	if len(r.Paths) > 0 {
		return &r.Paths[0], true
	}
	if r.Response != nil && len(r.Response.Paths) > 0 {
		return &r.Response.Paths[0], true
	}
	return nil, false
}
