package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/presenter"
	"github.com/jwalitptl/booking-api/pkg/httputil"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type DriftLister interface {
	ListCapacityDrift(ctx context.Context) ([]*model.CapacityDrift, error)
}

// Handler serves the operational endpoints
type Handler struct {
	db          Pinger
	drift       DriftLister
	presenter   *presenter.Presenter
	gatherer    prometheus.Gatherer
	pingTimeout time.Duration
	started     time.Time
}

func NewHandler(db Pinger, drift DriftLister, p *presenter.Presenter, gatherer prometheus.Gatherer) *Handler {
	return &Handler{
		db:          db,
		drift:       drift,
		presenter:   p,
		gatherer:    gatherer,
		pingTimeout: 2 * time.Second,
		started:     time.Now(),
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.HealthCheck)
	r.GET("/health/ledger", h.LedgerCheck)
	r.GET("/test", h.SmokeTest)
	r.GET("/metrics", h.MetricsHandler)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success":  false,
			"status":   "unhealthy",
			"database": "down",
			"error":    "database unavailable",
		})
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  "up",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
	})
}

// LedgerCheck reports slots whose spot counter disagrees with their
// confirmed bookings
func (h *Handler) LedgerCheck(c *gin.Context) {
	drift, err := h.drift.ListCapacityDrift(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if drift == nil {
		drift = []*model.CapacityDrift{}
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"consistent": len(drift) == 0,
		"drift":      drift,
	})
}

func (h *Handler) SmokeTest(c *gin.Context) {
	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"message":   h.presenter.Message(presenter.MsgSmokeTest),
		"locale":    h.presenter.Locale(),
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) MetricsHandler(c *gin.Context) {
	promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}).ServeHTTP(c.Writer, c.Request)
}
