package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/zack5769/saferide/internal/config"
	"github.com/zack5769/saferide/internal/lib/geo"
	"github.com/zack5769/saferide/internal/lib/geolocation"
	"github.com/zack5769/saferide/internal/lib/navigation"
	"github.com/zack5769/saferide/internal/lib/places"
	"github.com/zack5769/saferide/internal/lib/route"
	"github.com/zack5769/saferide/internal/lib/tiles"
)

// Plan is an acquired route ready for playback
type Plan struct {
	Origin      geo.Coordinate
	Destination geo.Coordinate
	Place       places.Place
	Result      *RouteResult
	Path        *route.RoutePath
	RainOverlay *geojson.FeatureCollection
	// LocationWarning is set when the origin had to fall back to the configured position
	LocationWarning error
}

// PlanRequest describes a navigation request. A nil Origin asks the locator.
type PlanRequest struct {
	Origin        *geo.Coordinate
	Destination   geo.Coordinate
	RainAvoidance bool

	// DestinationName is the search result label, e.g. "浜松駅, 砂山町, 中央区"
	DestinationName string
}

// Session is one playback of a plan. Sessions share no mutable state.
type Session struct {
	ID        string
	Plan      *Plan
	Simulator *navigation.Simulator

	svc *NavigationService
}

// Close stops playback and forgets the session
func (s *Session) Close() {
	s.Simulator.Stop()
	s.svc.forget(s.ID)
}

// NavigationService turns origin/destination requests into playback sessions
type NavigationService struct {
	routes  *RouteService
	locator geolocation.Locator
	config  config.NavigationConfig
	logger  *zap.Logger

	nextID   atomic.Uint64
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewNavigationService creates a navigation service. locator may be nil, in
// which case requests without an origin start from the configured fallback.
func NewNavigationService(routes *RouteService, locator geolocation.Locator, cfg config.NavigationConfig, logger *zap.Logger) *NavigationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NavigationService{
		routes:   routes,
		locator:  locator,
		config:   cfg,
		logger:   logger.Named("navigation"),
		sessions: make(map[string]*Session),
	}
}

// Plan resolves the origin, acquires a route and builds its rain overlay
func (n *NavigationService) Plan(ctx context.Context, req PlanRequest) (*Plan, error) {
	plan := &Plan{
		Destination: req.Destination,
		Place:       places.NewPlace(req.DestinationName, "", req.Destination.Lat(), req.Destination.Lon(), ""),
	}

	if req.Origin != nil {
		plan.Origin = *req.Origin
	} else {
		origin, err := geolocation.Resolve(ctx, n.locator, n.config.FallbackStart.Coordinate())
		if err != nil {
			n.logger.Warn("using fallback origin", zap.Error(err), zap.String("origin", origin.String()))
			plan.LocationWarning = err
		}
		plan.Origin = origin
	}

	result, err := n.routes.Acquire(ctx, RouteRequest{
		Start:         plan.Origin,
		End:           plan.Destination,
		RainAvoidance: req.RainAvoidance,
	})
	if err != nil {
		return nil, err
	}

	path, ok := result.Response.Path()
	if !ok {
		return nil, fmt.Errorf("failed to plan route: %w", route.ErrNoPath)
	}

	plan.Result = result
	plan.Path = path
	plan.RainOverlay = tiles.Overlay(result.Response.RainTiles)
	return plan, nil
}

// NewSession creates an idle simulator for plan and registers it
func (n *NavigationService) NewSession(plan *Plan, opts ...navigation.Option) (*Session, error) {
	opts = append([]navigation.Option{
		navigation.WithInterval(n.config.TickInterval),
		navigation.WithLogger(n.logger),
	}, opts...)

	sim, err := navigation.NewSimulator(plan.Path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulator: %w", err)
	}

	session := &Session{
		ID:        fmt.Sprintf("nav-%d", n.nextID.Add(1)),
		Plan:      plan,
		Simulator: sim,
		svc:       n,
	}

	n.mu.Lock()
	n.sessions[session.ID] = session
	n.mu.Unlock()

	n.logger.Info("navigation session created",
		zap.String("session", session.ID),
		zap.String("source", string(plan.Result.Source)),
		zap.Int("coordinates", len(plan.Path.Coordinates())),
		zap.Int("rain_tiles", len(plan.Result.Response.RainTiles)))
	return session, nil
}

// ActiveSessions returns the number of open sessions
func (n *NavigationService) ActiveSessions() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sessions)
}

// Shutdown stops every open session
func (n *NavigationService) Shutdown() {
	n.mu.Lock()
	open := make([]*Session, 0, len(n.sessions))
	for _, s := range n.sessions {
		open = append(open, s)
	}
	n.mu.Unlock()

	for _, s := range open {
		s.Close()
	}
	n.logger.Info("navigation sessions stopped", zap.Int("count", len(open)))
}

func (n *NavigationService) forget(id string) {
	n.mu.Lock()
	delete(n.sessions, id)
	n.mu.Unlock()
}
