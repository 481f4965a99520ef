package api

import (
	"context"
	_ "embed"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	sig "soltrader-go/internal/signal"
)

//go:embed static/index.html
var dashboardHTML []byte

// Dashboard serves the single-page dashboard.
func (s *Server) Dashboard(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", dashboardHTML)
}

// GetPrice handles GET /api/price. Quote errors are reported in the body.
func (s *Server) GetPrice(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	c.JSON(http.StatusOK, s.deps.Prices.Spot(ctx))
}

// GetStatus handles GET /api/status.
func (s *Server) GetStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	c.JSON(http.StatusOK, s.deps.Status.Snapshot(ctx))
}

// GetHistory handles GET /api/history.
func (s *Server) GetHistory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	hist, err := s.deps.History.Load(ctx)
	if err != nil {
		s.handleError(c, err, http.StatusInternalServerError)
		return
	}
	samples := hist.Values()
	if samples == nil {
		samples = []sig.PriceSample{}
	}
	c.JSON(http.StatusOK, samples)
}

// Trade handles the authenticated tick trigger.
func (s *Server) Trade(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultTimeout)
	defer cancel()

	res, err := s.deps.Engine.Tick(ctx)
	if err != nil {
		s.handleError(c, err, http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, res)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   ServiceVersion,
	})
}

func (s *Server) handleError(c *gin.Context, err error, statusCode int) {
	s.log.Error().
		Err(err).
		Str("request_id", c.GetString(RequestIDContextKey)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("api error")
	c.JSON(statusCode, gin.H{"error": err.Error()})
}
