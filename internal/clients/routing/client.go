package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/zack5769/saferide/internal/config"
	"github.com/zack5769/saferide/internal/lib/geo"
	"github.com/zack5769/saferide/internal/lib/route"
)

// maxErrorBody bounds how much of a failed response body ends up in errors and logs
const maxErrorBody = 512

// HTTPDoer is the subset of *http.Client the routing client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches routes from the rain-aware routing backend.
// Each GetRoute call makes exactly one HTTP attempt.
type Client struct {
	baseURL        string
	avoidEndpoint  string
	directEndpoint string
	httpClient     HTTPDoer
	logger         *zap.Logger
}

// NewClient creates a routing client with a timeout taken from cfg
func NewClient(cfg config.RoutingConfig, logger *zap.Logger) *Client {
	return NewClientWithHTTPDoer(cfg, &http.Client{Timeout: cfg.Timeout}, logger)
}

// NewClientWithHTTPDoer creates a routing client around a custom HTTP implementation
func NewClientWithHTTPDoer(cfg config.RoutingConfig, doer HTTPDoer, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		avoidEndpoint:  cfg.AvoidEndpoint,
		directEndpoint: cfg.DirectEndpoint,
		httpClient:     doer,
		logger:         logger.Named("routing"),
	}
}

// Endpoint returns the backend endpoint for the given rain-avoidance mode
func (c *Client) Endpoint(rainAvoidance bool) string {
	if rainAvoidance {
		return c.avoidEndpoint
	}
	return c.directEndpoint
}

// RouteURL builds {base}/{endpoint}/{startLat},{startLng}/{endLat},{endLng}
func (c *Client) RouteURL(start, end geo.Coordinate, rainAvoidance bool) string {
	return fmt.Sprintf("%s/%s/%s/%s", c.baseURL, c.Endpoint(rainAvoidance), start, end)
}

// GetRoute requests a route between start and end. A 400 answer yields
// ErrRouteUnreachable; every other failure is a *TransientFetchError.
func (c *Client) GetRoute(ctx context.Context, start, end geo.Coordinate, rainAvoidance bool) (*route.RouteResponse, error) {
	requestURL := c.RouteURL(start, end, rainAvoidance)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &TransientFetchError{Op: "request", Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting route", zap.String("url", requestURL), zap.Bool("rain_avoidance", rainAvoidance))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientFetchError{Op: "request", Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		body := readErrorBody(resp.Body)
		c.logger.Info("backend reports no reachable route", zap.String("url", requestURL), zap.String("body", body))
		return nil, fmt.Errorf("%w: %s", ErrRouteUnreachable, body)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := readErrorBody(resp.Body)
		return nil, &TransientFetchError{
			Op:         "request",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("API error: %s", body),
		}
	}

	var response route.RouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, &TransientFetchError{Op: "decode", StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if err := response.Validate(); err != nil {
		return nil, &TransientFetchError{Op: "decode", StatusCode: resp.StatusCode, Err: err}
	}

	return &response, nil
}

func readErrorBody(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return strings.TrimSpace(string(body))
}
