// Package api serves the dashboard, the read endpoints, and the authenticated
// trade trigger over gin.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"soltrader-go/internal/engine"
	"soltrader-go/internal/history"
	"soltrader-go/internal/metrics"
	"soltrader-go/internal/price"
	sig "soltrader-go/internal/signal"
	"soltrader-go/internal/status"
)

const (
	DefaultTimeout      = 30 * time.Second
	ServiceName         = "soltrader"
	ServiceVersion      = "1.0.0"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
)

// PriceReader returns the display price.
type PriceReader interface {
	Spot(ctx context.Context) price.Reading
}

// StatusReader returns the dashboard snapshot.
type StatusReader interface {
	Snapshot(ctx context.Context) status.Snapshot
}

// Ticker runs one decision tick.
type Ticker interface {
	Tick(ctx context.Context) (engine.TickResult, error)
}

// HistoryReader loads the persisted price history.
type HistoryReader interface {
	Load(ctx context.Context) (*history.Bounded[sig.PriceSample], error)
}

// Deps are the services behind the routes.
type Deps struct {
	Prices     PriceReader
	Status     StatusReader
	Engine     Ticker
	History    HistoryReader
	Hub        *Hub
	CronSecret string
}

// Server handles HTTP requests using gin.
type Server struct {
	deps Deps
	log  zerolog.Logger
}

// NewServer creates a server. A nil hub disables the stream route.
func NewServer(log zerolog.Logger, deps Deps) *Server {
	return &Server{deps: deps, log: log}
}

// Routes configures all routes.
func (s *Server) Routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(accessLogMiddleware(s.log))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/", s.Dashboard)
	router.GET("/health", s.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	api.GET("/price", s.GetPrice)
	api.GET("/status", s.GetStatus)
	api.GET("/history", s.GetHistory)
	api.GET("/trade", bearerAuth(s.deps.CronSecret), s.Trade)
	api.POST("/trade", bearerAuth(s.deps.CronSecret), s.Trade)
	if s.deps.Hub != nil {
		api.GET("/stream", s.deps.Hub.Serve)
	}
	return router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
