package route

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zack5769/saferide/internal/lib/geo"
)

const lineStringResponse = `{
  "paths": [{
    "distance": 1200.5,
    "time": 144000,
    "points_encoded": false,
    "bbox": [137.7, 34.7, 137.72, 34.72],
    "points": {"type": "LineString", "coordinates": [[137.7, 34.7], [137.71, 34.71], [137.72, 34.72]]},
    "instructions": [
      {"distance": 1200.5, "sign": 0, "interval": [0, 2], "text": "Continue", "time": 144000, "street_name": "Route 152"},
      {"distance": 0, "sign": 4, "interval": [2, 2], "text": "Arrive", "time": 0, "street_name": ""}
    ]
  }],
  "rain_tile_list": [{"x": 14552, "y": 6498, "zoom": 14}]
}`

func TestRouteResponse_DecodeLineString(t *testing.T) {
	var resp RouteResponse
	require.NoError(t, json.Unmarshal([]byte(lineStringResponse), &resp))
	require.NoError(t, resp.Validate())

	path, ok := resp.Path()
	require.True(t, ok)
	assert.Equal(t, 1200.5, path.Distance)
	assert.Equal(t, int64(144000), path.Time)
	require.Len(t, path.Coordinates(), 3)
	assert.Equal(t, geo.Coordinate{137.71, 34.71}, path.Coordinates()[1])
	require.Len(t, path.Instructions, 2)
	assert.Equal(t, Interval{0, 2}, path.Instructions[0].Interval)
	assert.Equal(t, "Route 152", path.Instructions[0].StreetName)
	assert.Equal(t, Finish, path.Instructions[1].Sign)

	require.Len(t, resp.RainTiles, 1)
	assert.Equal(t, RainTile{X: 14552, Y: 6498, Zoom: 14}, resp.RainTiles[0])
}

func TestRouteResponse_DecodeEncodedPoints(t *testing.T) {
	coords := []geo.Coordinate{{137.7, 34.7}, {137.71, 34.71}, {137.72, 34.72}}
	doc := map[string]any{
		"paths": []any{map[string]any{
			"distance":       1200.5,
			"time":           144000,
			"points_encoded": true,
			"points":         geo.EncodePolyline(coords),
			"instructions": []any{
				map[string]any{"distance": 1200.5, "sign": 0, "interval": []int{0, 2}, "time": 144000},
				map[string]any{"distance": 0, "sign": 4, "interval": []int{2, 2}, "time": 0},
			},
		}},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var resp RouteResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	require.NoError(t, resp.Validate())

	path, _ := resp.Path()
	require.Len(t, path.Coordinates(), 3)
	for i := range coords {
		assert.InDelta(t, coords[i].Lon(), path.Coordinates()[i].Lon(), 1e-5)
		assert.InDelta(t, coords[i].Lat(), path.Coordinates()[i].Lat(), 1e-5)
	}

	// Encoded documents round-trip in their received form
	out, err := json.Marshal(path.Points)
	require.NoError(t, err)
	assert.Equal(t, `"`+geo.EncodePolyline(coords)+`"`, string(out))
}

func TestRouteResponse_NestedPaths(t *testing.T) {
	var resp RouteResponse
	require.NoError(t, json.Unmarshal([]byte(`{"response": `+lineStringResponse+`}`), &resp))

	path, ok := resp.Path()
	require.True(t, ok)
	assert.Len(t, path.Coordinates(), 3)
}

func TestRouteResponse_ValidateRejects(t *testing.T) {
	valid := func() *RouteResponse {
		var resp RouteResponse
		require.NoError(t, json.Unmarshal([]byte(lineStringResponse), &resp))
		return &resp
	}

	t.Run("no paths", func(t *testing.T) {
		assert.ErrorIs(t, (&RouteResponse{}).Validate(), ErrNoPath)
	})

	t.Run("single coordinate", func(t *testing.T) {
		resp := valid()
		resp.Paths[0].Points = NewLineString(geo.Coordinate{137.7, 34.7})
		assert.ErrorContains(t, resp.Validate(), "need at least 2")
	})

	t.Run("no instructions", func(t *testing.T) {
		resp := valid()
		resp.Paths[0].Instructions = nil
		assert.ErrorContains(t, resp.Validate(), "no instructions")
	})

	t.Run("inverted interval", func(t *testing.T) {
		resp := valid()
		resp.Paths[0].Instructions[0].Interval = Interval{2, 1}
		assert.ErrorContains(t, resp.Validate(), "inverted")
	})

	t.Run("interval past end", func(t *testing.T) {
		resp := valid()
		resp.Paths[0].Instructions[0].Interval = Interval{0, 4}
		assert.ErrorContains(t, resp.Validate(), "outside")
	})

	t.Run("missing arrival", func(t *testing.T) {
		resp := valid()
		resp.Paths[0].Instructions[1].Sign = TurnLeft
		assert.ErrorContains(t, resp.Validate(), "arrival")
	})
}

func TestMinimal(t *testing.T) {
	start := geo.Coordinate{137.70, 34.70}
	end := geo.Coordinate{137.72, 34.72}

	resp := Minimal(start, end, DefaultFallbackSpeed)
	require.NoError(t, resp.Validate())

	path, _ := resp.Path()
	coords := path.Coordinates()
	require.Len(t, coords, 3)
	assert.Equal(t, start, coords[0])
	assert.InDelta(t, 137.71, coords[1].Lon(), 1e-9)
	assert.InDelta(t, 34.71, coords[1].Lat(), 1e-9)
	assert.Equal(t, end, coords[2])

	expectedDistance := geo.Between(start, end)
	assert.InDelta(t, expectedDistance, path.Distance, 1e-9)
	assert.InDelta(t, expectedDistance/8.33*1000, float64(path.Time), 1)

	require.Len(t, path.Instructions, 3)
	assert.InDelta(t, path.Distance*0.8, path.Instructions[0].Distance, 1e-9)
	assert.InDelta(t, path.Distance*0.2, path.Instructions[1].Distance, 1e-9)
	assert.Equal(t, int64(math.Round(float64(path.Time)*0.8)), path.Instructions[0].Time)
	assert.Equal(t, int64(math.Round(float64(path.Time)*0.2)), path.Instructions[1].Time)

	assert.Equal(t, "目的地方面へ進む", path.Instructions[0].Text)
	assert.Equal(t, "メイン通り", path.Instructions[0].StreetName)
	assert.Equal(t, "右折して目的地へ", path.Instructions[1].Text)
	assert.Equal(t, "目的地通り", path.Instructions[1].StreetName)

	arrival := path.Instructions[2]
	assert.Equal(t, 0.0, arrival.Distance)
	assert.Equal(t, "目的地に到着", arrival.Text)
	assert.Empty(t, arrival.StreetName)
	assert.Equal(t, Finish, arrival.Sign)
	assert.Equal(t, Interval{2, 2}, arrival.Interval)

	assert.Equal(t, [4]float64{137.70, 34.70, 137.72, 34.72}, path.BBox)
	assert.Len(t, path.SnappedWaypoints.Coordinates, 2)
}

func TestMinimal_AntipodalEndpoints(t *testing.T) {
	resp := Minimal(geo.Coordinate{-40, -20}, geo.Coordinate{140, 20}, DefaultFallbackSpeed)
	path, _ := resp.Path()

	assert.False(t, math.IsNaN(path.Distance))
	assert.InDelta(t, math.Pi*geo.EarthRadiusMeters, path.Distance, 1)
	assert.Positive(t, path.Time)
}

func TestMinimal_NonPositiveSpeedUsesDefault(t *testing.T) {
	a := Minimal(geo.Coordinate{137.70, 34.70}, geo.Coordinate{137.72, 34.72}, 0)
	b := Minimal(geo.Coordinate{137.70, 34.70}, geo.Coordinate{137.72, 34.72}, DefaultFallbackSpeed)

	assert.Equal(t, b.Paths[0].Time, a.Paths[0].Time)
}

func TestSign_String(t *testing.T) {
	assert.Equal(t, "arrive", Finish.String())
	assert.Equal(t, "keep_left", KeepLeft.String())
	assert.Equal(t, "unknown", Sign(42).String())
}
