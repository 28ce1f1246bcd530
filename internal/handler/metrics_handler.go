package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soulbliss/soulbliss-api/internal/service"
	appErrors "github.com/soulbliss/soulbliss-api/pkg/errors"
	"github.com/soulbliss/soulbliss-api/pkg/response"
)

// Pinger checks that the backing store answers.
type Pinger func(ctx context.Context) error

const readyTimeout = 2 * time.Second

// MetricsHandler exposes observability and liveness endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	ping    Pinger
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, ping Pinger) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, ping: ping}
}

// Root answers the storefront's liveness probe.
func (h *MetricsHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "SoulBliss Server is running..")
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports ready only when the store answers a ping.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			response.Error(c, appErrors.Store(err, "store not ready"))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
