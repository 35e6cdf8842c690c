package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/sitegauge/sitegauge/internal/config"
	"github.com/sitegauge/sitegauge/internal/models"
	"github.com/sitegauge/sitegauge/pkg/fetcher"
)

// Auditor is the engine surface the server needs.
type Auditor interface {
	Audit(ctx context.Context, req models.AuditRequest) (*models.Analysis, error)
}

// Server exposes the audit engine over HTTP.
type Server struct {
	cfg     config.ServerConfig
	engine  Auditor
	log     *logrus.Logger
	router  *gin.Engine
	metrics *serverMetrics
}

type serverMetrics struct {
	audits   *prometheus.CounterVec
	duration prometheus.Histogram
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	m := &serverMetrics{
		audits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitegauge_audits_total",
			Help: "Audit requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sitegauge_audit_duration_seconds",
			Help:    "Wall time of complete audits.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.audits, m.duration)
	return m
}

// New builds the HTTP server around an engine. A fresh prometheus registry
// is created per server so tests can run several instances.
func New(cfg config.ServerConfig, engine Auditor, log *logrus.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	registry := prometheus.NewRegistry()
	s := &Server{
		cfg:     cfg,
		engine:  engine,
		log:     log,
		metrics: newServerMetrics(registry),
	}

	router := gin.New()
	router.Use(gin.Recovery())

	limiter := newClientLimiter(cfg.RequestsPerMin, cfg.Burst)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	api.Use(limiter.middleware())
	api.POST("/audit", s.handleAudit)

	s.router = router
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run blocks serving HTTP until the listener fails.
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	s.log.WithField("addr", addr).Info("server listening")
	return srv.ListenAndServe()
}

func (s *Server) handleAudit(c *gin.Context) {
	var req models.AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must include a url"})
		return
	}
	if req.Strategy != "" && req.Strategy != "mobile" && req.Strategy != "desktop" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "strategy must be mobile or desktop"})
		return
	}

	start := time.Now()
	analysis, err := s.engine.Audit(c.Request.Context(), req)
	if err != nil {
		s.metrics.audits.WithLabelValues("error").Inc()
		var fetchErr *fetcher.FetchError
		if errors.As(err, &fetchErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": fetchErr.Error()})
			return
		}
		s.log.WithError(err).Error("audit failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "audit failed"})
		return
	}

	s.metrics.audits.WithLabelValues("ok").Inc()
	s.metrics.duration.Observe(time.Since(start).Seconds())
	c.JSON(http.StatusOK, analysis)
}
