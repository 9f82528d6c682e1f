package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/zack5769/saferide/internal/clients/routing"
	"github.com/zack5769/saferide/internal/lib/export"
	"github.com/zack5769/saferide/internal/lib/format"
	"github.com/zack5769/saferide/internal/lib/geo"
	"github.com/zack5769/saferide/internal/lib/places"
	"github.com/zack5769/saferide/internal/lib/route"
	"github.com/zack5769/saferide/internal/lib/tiles"
	"github.com/zack5769/saferide/internal/services"
)

// RouteSummary holds display strings for the route totals
type RouteSummary struct {
	Distance string `json:"distance"`
	Time     string `json:"time"`
}

// RouteResponse is the body of GET /api/v1/route/:start/:end
type RouteResponse struct {
	Source      services.Source            `json:"source"`
	Degraded    bool                       `json:"degraded"`
	Destination places.Place               `json:"destination"`
	Route       *route.RouteResponse       `json:"route"`
	RainOverlay *geojson.FeatureCollection `json:"rain_overlay"`
	Viewport    tiles.Viewport             `json:"viewport"`
	Summary     RouteSummary               `json:"summary"`
	Origin      geo.Coordinate             `json:"origin"`

	// LocationWarning explains why a "current" origin fell back to the configured position
	LocationWarning string `json:"location_warning,omitempty"`
}

func (s *Server) routeHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	plan, ok := s.plan(w, r, ps)
	if !ok {
		return
	}

	s.sendJSON(w, http.StatusOK, newRouteResponse(plan))
}

func newRouteResponse(plan *services.Plan) *RouteResponse {
	resp := &RouteResponse{
		Source:      plan.Result.Source,
		Degraded:    plan.Result.Degraded(),
		Destination: plan.Place,
		Origin:      plan.Origin,
		Route:       plan.Result.Response,
		RainOverlay: plan.RainOverlay,
		Viewport:    tiles.FitViewport(plan.Origin, plan.Destination),
		Summary: RouteSummary{
			Distance: format.Distance(plan.Path.Distance),
			Time:     format.Duration(plan.Path.Time),
		},
	}
	if plan.LocationWarning != nil {
		resp.LocationWarning = plan.LocationWarning.Error()
	}
	return resp
}

func (s *Server) routeKMLHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	plan, ok := s.plan(w, r, ps)
	if !ok {
		return
	}

	name := fmt.Sprintf("%s → %s", plan.Origin, plan.Place.Name)
	var buf bytes.Buffer
	if err := export.WriteKML(&buf, plan.Path, plan.Result.Response.RainTiles, name); err != nil {
		s.logger.Error("kml export failed", zap.Error(err))
		s.errorResponse(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="route.kml"`)
	w.Header().Set("X-Route-Source", string(plan.Result.Source))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) routeGeoJSONHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	plan, ok := s.plan(w, r, ps)
	if !ok {
		return
	}

	w.Header().Set("X-Route-Source", string(plan.Result.Source))
	s.sendJSON(w, http.StatusOK, export.GeoJSON(plan.Path, plan.Result.Response.RainTiles))
}

// plan parses the request and acquires a route, writing the error response itself on failure
func (s *Server) plan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*services.Plan, bool) {
	origin, err := parseOrigin(ps.ByName("start"))
	if err != nil {
		s.errorResponse(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	}
	end, err := parseLatLng(ps.ByName("end"))
	if err != nil {
		s.errorResponse(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	}
	rain, err := parseBool(r, "rain_avoidance", false)
	if err != nil {
		s.errorResponse(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	}

	plan, err := s.navigation.Plan(r.Context(), services.PlanRequest{
		Origin:          origin,
		Destination:     end,
		RainAvoidance:   rain,
		DestinationName: r.URL.Query().Get("destination_name"),
	})
	if err != nil {
		if routing.IsUnreachable(err) {
			s.errorResponse(w, r, http.StatusUnprocessableEntity, unreachableMessage)
			return nil, false
		}
		s.logger.Error("route acquisition failed", zap.Error(err))
		s.errorResponse(w, r, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return plan, true
}
