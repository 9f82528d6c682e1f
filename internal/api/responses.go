package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zack5769/saferide/internal/lib/geo"
)

// unreachableMessage is shown when the backend finds no route
const unreachableMessage = "ルートを取得できませんでした。\n現在地または目的地が雨、経路が国外を通る、または到着地点までの道がありません。"

// ErrorResponse is the body of every non-2xx JSON answer
type ErrorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, _ *http.Request, status int, text string) {
	s.sendJSON(w, status, ErrorResponse{
		Code:        status,
		CurrentTime: time.Now().UnixMilli(),
		Text:        text,
	})
}

// currentLocation as the start segment asks the server to locate the origin
const currentLocation = "current"

// parseOrigin parses the start segment. It returns nil for "current".
func parseOrigin(raw string) (*geo.Coordinate, error) {
	if strings.EqualFold(strings.TrimSpace(raw), currentLocation) {
		return nil, nil
	}
	c, err := parseLatLng(raw)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// parseLatLng parses a "lat,lng" path segment
func parseLatLng(raw string) (geo.Coordinate, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, fmt.Errorf("expected lat,lng but got %q", raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("invalid latitude %q: %w", parts[0], err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("invalid longitude %q: %w", parts[1], err)
	}
	c := geo.NewCoordinate(lng, lat)
	if !c.Valid() {
		return geo.Coordinate{}, fmt.Errorf("coordinate %q is out of range", raw)
	}
	return c, nil
}

// parseBool reads an optional boolean query parameter
func parseBool(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}
