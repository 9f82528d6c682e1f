package route

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zack5769/saferide/internal/lib/geo"
)

// Points holds a route polyline. On the wire it is either a GeoJSON LineString
// or, when points_encoded is set, a Google encoded polyline string.
type Points struct {
	Type        string
	Coordinates []geo.Coordinate
	// Encoded keeps the original encoded form so the document round-trips as received
	Encoded string
}

// NewLineString builds Points from plain coordinates
func NewLineString(coords ...geo.Coordinate) Points {
	return Points{Type: "LineString", Coordinates: coords}
}

func (p *Points) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return fmt.Errorf("failed to decode encoded points: %w", err)
		}
		coords, err := geo.DecodePolyline(encoded)
		if err != nil {
			return err
		}
		*p = Points{Type: "LineString", Coordinates: coords, Encoded: encoded}
		return nil
	}

	var ls LineString
	if err := json.Unmarshal(data, &ls); err != nil {
		return fmt.Errorf("failed to decode points: %w", err)
	}
	*p = Points{Type: ls.Type, Coordinates: ls.Coordinates}
	return nil
}

func (p Points) MarshalJSON() ([]byte, error) {
	if p.Encoded != "" {
		return json.Marshal(p.Encoded)
	}
	typ := p.Type
	if typ == "" {
		typ = "LineString"
	}
	coords := p.Coordinates
	if coords == nil {
		coords = []geo.Coordinate{}
	}
	return json.Marshal(LineString{Type: typ, Coordinates: coords})
}
