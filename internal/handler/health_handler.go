package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/warin-dev/sis-api/internal/service"
	"github.com/warin-dev/sis-api/pkg/response"
)

// HealthHandler exposes liveness, readiness, and metric snapshots.
type HealthHandler struct {
	db      *sqlx.DB
	cache   *redis.Client
	metrics *service.MetricsService
}

// NewHealthHandler constructs HealthHandler. cache may be nil.
func NewHealthHandler(db *sqlx.DB, cache *redis.Client, metrics *service.MetricsService) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, metrics: metrics}
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response.OK(c, gin.H{"status": "ok"})
}

// Ready godoc
// @Summary Readiness probe checking database and cache connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := gin.H{"database": "ok"}
	status := http.StatusOK

	if err := h.db.PingContext(c.Request.Context()); err != nil {
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}
	if h.cache != nil {
		checks["cache"] = "ok"
		if err := h.cache.Ping(c.Request.Context()).Err(); err != nil {
			checks["cache"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	response.JSON(c, status, checks, nil)
}

// Snapshot godoc
// @Summary Aggregated request and cache counters
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /health/metrics [get]
func (h *HealthHandler) Snapshot(c *gin.Context) {
	response.OK(c, h.metrics.Snapshot())
}

// Prometheus serves the Prometheus exposition endpoint.
func (h *HealthHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
