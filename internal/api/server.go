// Package api exposes route acquisition and live navigation over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/zack5769/saferide/internal/config"
	"github.com/zack5769/saferide/internal/services"
)

// Server wires the HTTP routes to the navigation services
type Server struct {
	navigation *services.NavigationService
	config     config.ServerConfig
	logger     *zap.Logger
}

// NewServer creates the HTTP surface
func NewServer(navigation *services.NavigationService, cfg config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		navigation: navigation,
		config:     cfg,
		logger:     logger.Named("api"),
	}
}

// Handler returns the router for every endpoint
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.GET("/", s.homeHandler)
	router.GET("/api/v1/route/:start/:end", s.routeHandler)
	router.GET("/api/v1/route/:start/:end/kml", s.routeKMLHandler)
	router.GET("/api/v1/route/:start/:end/geojson", s.routeGeoJSONHandler)
	router.GET("/api/v1/navigate/:start/:end", s.navigateHandler)

	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		s.logger.Error("handler panic", zap.String("path", r.URL.Path), zap.Any("panic", v))
		s.errorResponse(w, r, http.StatusInternalServerError, "internal server error")
	}
	return s.logRequests(router)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.navigation.Shutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(`saferide navigator

Route API:
  GET /api/v1/route/{lat,lng}/{lat,lng}?rain_avoidance=true   - Route with rain overlay
  GET /api/v1/route/{lat,lng}/{lat,lng}/kml                   - Route as KML
  GET /api/v1/route/{lat,lng}/{lat,lng}/geojson               - Route and rain cells as GeoJSON

Navigation:
  GET /api/v1/navigate/{lat,lng}/{lat,lng}                    - WebSocket, send start/stop/resume

Use "current" as the start segment to route from the device position.
`))
}
