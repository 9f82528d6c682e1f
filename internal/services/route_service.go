package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/zack5769/saferide/internal/assets"
	"github.com/zack5769/saferide/internal/cache"
	"github.com/zack5769/saferide/internal/clients/routing"
	"github.com/zack5769/saferide/internal/config"
	"github.com/zack5769/saferide/internal/lib/geo"
	"github.com/zack5769/saferide/internal/lib/route"
)

// Source identifies which tier of the fallback chain produced a route
type Source string

const (
	SourceNetwork Source = "network"
	SourceSample  Source = "sample"
	SourceMinimal Source = "minimal"
)

// RouteRequest is a single route acquisition request
type RouteRequest struct {
	Start         geo.Coordinate
	End           geo.Coordinate
	RainAvoidance bool
}

// RouteResult is an acquired route plus the tier that produced it
type RouteResult struct {
	Response *route.RouteResponse
	Source   Source
}

// Degraded reports whether the route came from a fallback tier
func (r *RouteResult) Degraded() bool {
	return r.Source != SourceNetwork
}

// RouteStrategy is one tier of the fallback chain
type RouteStrategy interface {
	Source() Source
	Fetch(ctx context.Context, req RouteRequest) (*route.RouteResponse, error)
}

// RouteFetcher is implemented by *routing.Client
type RouteFetcher interface {
	GetRoute(ctx context.Context, start, end geo.Coordinate, rainAvoidance bool) (*route.RouteResponse, error)
}

// RouteService acquires routes by walking its strategies in order.
// An unreachable answer stops the walk; any other failure moves on to the next tier.
type RouteService struct {
	strategies []RouteStrategy
	logger     *zap.Logger
}

// NewRouteService creates the standard network, sample, minimal chain
func NewRouteService(cfg config.RoutingConfig, fetcher RouteFetcher, logger *zap.Logger) *RouteService {
	return NewRouteServiceWithStrategies(logger,
		NewNetworkStrategy(fetcher),
		NewCachedSampleStrategy(cfg.SampleRoutePath, cache.NewCache(), cfg.SampleCacheTTL, logger),
		NewMinimalStrategy(cfg.FallbackSpeedMPS),
	)
}

// NewRouteServiceWithStrategies creates a service around a custom chain
func NewRouteServiceWithStrategies(logger *zap.Logger, strategies ...RouteStrategy) *RouteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RouteService{
		strategies: strategies,
		logger:     logger.Named("route_service"),
	}
}

// GetRoute returns a route between the two points. The only error callers see in
// the standard chain is one wrapping routing.ErrRouteUnreachable.
func (s *RouteService) GetRoute(ctx context.Context, startLng, startLat, endLng, endLat float64, rainAvoidance bool) (*RouteResult, error) {
	req := RouteRequest{
		Start:         geo.NewCoordinate(startLng, startLat),
		End:           geo.NewCoordinate(endLng, endLat),
		RainAvoidance: rainAvoidance,
	}
	return s.Acquire(ctx, req)
}

// Acquire runs the fallback chain for req
func (s *RouteService) Acquire(ctx context.Context, req RouteRequest) (*RouteResult, error) {
	if !req.Start.Valid() || !req.End.Valid() {
		return nil, fmt.Errorf("invalid route endpoints %s -> %s", req.Start, req.End)
	}

	var lastErr error
	for _, strategy := range s.strategies {
		resp, err := strategy.Fetch(ctx, req)
		if err == nil {
			if strategy.Source() != SourceNetwork {
				s.logger.Warn("serving fallback route",
					zap.String("source", string(strategy.Source())),
					zap.NamedError("cause", lastErr))
			} else {
				s.logger.Debug("route acquired", zap.String("source", string(strategy.Source())))
			}
			return &RouteResult{Response: resp, Source: strategy.Source()}, nil
		}

		if routing.IsUnreachable(err) {
			s.logger.Info("route unreachable",
				zap.String("start", req.Start.String()),
				zap.String("end", req.End.String()),
				zap.Bool("rain_avoidance", req.RainAvoidance))
			return nil, err
		}

		s.logger.Warn("route strategy failed",
			zap.String("source", string(strategy.Source())),
			zap.Error(err))
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("no route strategies configured")
	}
	return nil, fmt.Errorf("failed to acquire route: %w", lastErr)
}

type networkStrategy struct {
	fetcher RouteFetcher
}

// NewNetworkStrategy queries the routing backend once
func NewNetworkStrategy(fetcher RouteFetcher) RouteStrategy {
	return &networkStrategy{fetcher: fetcher}
}

func (n *networkStrategy) Source() Source { return SourceNetwork }

func (n *networkStrategy) Fetch(ctx context.Context, req RouteRequest) (*route.RouteResponse, error) {
	return n.fetcher.GetRoute(ctx, req.Start, req.End, req.RainAvoidance)
}

const embeddedSampleKey = "sample:embedded"

type sampleStrategy struct {
	path   string
	cache  *cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewSampleStrategy serves the reference route from path, or the embedded copy when path is empty.
// The document is returned as stored; it is not moved to the requested endpoints.
func NewSampleStrategy(path string) RouteStrategy {
	return &sampleStrategy{path: path, logger: zap.NewNop()}
}

// NewCachedSampleStrategy is NewSampleStrategy with the parsed document kept in c for ttl.
// Each Fetch still returns its own copy.
func NewCachedSampleStrategy(path string, c *cache.Cache, ttl time.Duration, logger *zap.Logger) RouteStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sampleStrategy{path: path, cache: c, ttl: ttl, logger: logger.Named("sample_route")}
}

func (s *sampleStrategy) Source() Source { return SourceSample }

func (s *sampleStrategy) Fetch(_ context.Context, _ RouteRequest) (*route.RouteResponse, error) {
	key := embeddedSampleKey
	if s.path != "" {
		key = "sample:" + s.path
	}

	if s.cache != nil {
		var cached route.RouteResponse
		if found, err := s.cache.Get(key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	resp, err := s.load()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		evicted := s.cache.CleanupStale()
		if err := s.cache.Set(key, resp, s.ttl, string(SourceSample)); err != nil {
			s.logger.Warn("failed to cache sample route", zap.Error(err))
		}
		stats := s.cache.Stats()
		s.logger.Debug("sample route loaded",
			zap.String("key", key),
			zap.Duration("ttl", s.ttl),
			zap.Int("evicted", evicted),
			zap.Int("entries", stats.TotalEntries),
			zap.Int("fresh", stats.FreshEntries))
	}
	return resp, nil
}

func (s *sampleStrategy) load() (*route.RouteResponse, error) {
	data := assets.RouteSample
	if s.path != "" {
		var err error
		data, err = os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read sample route: %w", err)
		}
	}

	var resp route.RouteResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode sample route: %w", err)
	}
	if err := resp.Validate(); err != nil {
		return nil, fmt.Errorf("sample route is unusable: %w", err)
	}
	return &resp, nil
}

type minimalStrategy struct {
	speed float64
}

// NewMinimalStrategy synthesizes a straight three-point route; it never fails
func NewMinimalStrategy(speed float64) RouteStrategy {
	return &minimalStrategy{speed: speed}
}

func (m *minimalStrategy) Source() Source { return SourceMinimal }

func (m *minimalStrategy) Fetch(_ context.Context, req RouteRequest) (*route.RouteResponse, error) {
	return route.Minimal(req.Start, req.End, m.speed), nil
}
