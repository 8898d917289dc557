package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/hydra-monitoring/common"
	"github.com/iulianpascalau/hydra-monitoring/storage"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var log = logger.GetOrCreate("api")

const (
	defaultQueryLimit = 100
	maxQueryLimit     = 1000
	trendsWindow      = 24 * time.Hour
)

// MetricPayload represents the incoming JSON body on POST /metrics. Numeric
// fields are pointers so legitimate zero readings pass the required binding.
type MetricPayload struct {
	Host        string    `json:"host" binding:"required"`
	CPUUsage    *float64  `json:"cpu_usage" binding:"required"`
	MemoryUsage *float64  `json:"memory_usage" binding:"required"`
	Latency     *float64  `json:"latency" binding:"required"`
	Timestamp   time.Time `json:"timestamp" binding:"required"`
}

// AlertPayload represents the incoming JSON body on POST /alerts
type AlertPayload struct {
	Host      string    `json:"host" binding:"required"`
	Type      string    `json:"type" binding:"required"`
	Value     *float64  `json:"value" binding:"required"`
	Timestamp time.Time `json:"timestamp" binding:"required"`
	Status    string    `json:"status"`
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ListenAddress     string
	Storage           Storage
	Pipeline          Pipeline
	DefaultQueryLimit int
	MaxQueryLimit     int
	GeneralHandler    func(http.Handler) http.Handler
}

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	storage        Storage
	pipeline       Pipeline
	listenAddr     string
	defaultLimit   int
	maxLimit       int
	generalHandler func(http.Handler) http.Handler
	wg             sync.WaitGroup
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Storage) {
		return nil, errors.New("storage is required")
	}
	if check.IfNil(args.Pipeline) {
		return nil, errors.New("pipeline is required")
	}
	if args.GeneralHandler == nil {
		return nil, errors.New("nil http handler")
	}
	if args.DefaultQueryLimit <= 0 {
		args.DefaultQueryLimit = defaultQueryLimit
	}
	if args.MaxQueryLimit < args.DefaultQueryLimit {
		args.MaxQueryLimit = maxQueryLimit
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery(), requestIDMiddleware(), metricsMiddleware())

	s := &server{
		router:         router,
		storage:        args.Storage,
		pipeline:       args.Pipeline,
		listenAddr:     args.ListenAddress,
		defaultLimit:   args.DefaultQueryLimit,
		maxLimit:       args.MaxQueryLimit,
		generalHandler: args.GeneralHandler,
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	metricsGroup := s.router.Group("/metrics")
	{
		metricsGroup.POST("", s.handleIngestMetric)
		metricsGroup.GET("", s.handleRecentMetrics)
	}

	alertsGroup := s.router.Group("/alerts")
	{
		alertsGroup.GET("", s.handleAlerts)
		alertsGroup.GET("/active", s.handleActiveAlerts)
		alertsGroup.POST("", s.handleCreateAlert)
		alertsGroup.PUT("/:id/resolve", s.handleResolveAlert)
	}

	s.router.GET("/analytics/trends", s.handleTrends)
	s.router.GET("/internal/prometheus", gin.WrapH(promhttp.Handler()))
}

// Start listens and serves connections
func (s *server) Start() {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: handler,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		errServe := s.httpServer.Serve(ln)
		if errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			log.Error("http server failed", "error", errServe)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()
	return nil
}

// --- Handlers ---

func (s *server) handleIngestMetric(c *gin.Context) {
	var payload MetricPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		ingestedMetricsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	metric := common.Metric{
		Host:        payload.Host,
		CPUUsage:    *payload.CPUUsage,
		MemoryUsage: *payload.MemoryUsage,
		Latency:     *payload.Latency,
		Timestamp:   payload.Timestamp.UTC(),
	}

	persisted, err := s.pipeline.Ingest(c.Request.Context(), metric)
	if err != nil {
		ingestedMetricsTotal.WithLabelValues("failed").Inc()
		log.Warn("failed to ingest metric", "host", metric.Host, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ingestedMetricsTotal.WithLabelValues("accepted").Inc()
	c.JSON(http.StatusOK, persisted)
}

func (s *server) handleRecentMetrics(c *gin.Context) {
	limit, err := s.parseLimit(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	metrics, err := s.storage.RecentMetrics(c.Request.Context(), c.Query("host"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, metrics)
}

// parseLimit applies the single documented query contract: default when absent,
// hard cap with no continuation token
func (s *server) parseLimit(c *gin.Context) (int, error) {
	limitStr := c.Query("limit")
	if len(limitStr) == 0 {
		return s.defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return 0, errors.New("invalid limit")
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	return limit, nil
}

func (s *server) handleActiveAlerts(c *gin.Context) {
	alerts, err := s.storage.ActiveAlerts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (s *server) handleAlerts(c *gin.Context) {
	limit, err := s.parseLimit(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	alerts, err := s.storage.Alerts(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (s *server) handleCreateAlert(c *gin.Context) {
	var payload AlertPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	status := common.AlertStatus(payload.Status)
	if len(payload.Status) == 0 {
		status = common.AlertStatusActive
	}
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	alert := common.Alert{
		Host:      payload.Host,
		Type:      payload.Type,
		Value:     *payload.Value,
		Timestamp: payload.Timestamp.UTC(),
		Status:    status,
	}

	persisted, err := s.storage.InsertAlert(c.Request.Context(), alert)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, persisted)
}

func (s *server) handleResolveAlert(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	err = s.storage.ResolveAlert(c.Request.Context(), id)
	if errors.Is(err, storage.ErrAlertNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) handleTrends(c *gin.Context) {
	report, err := s.storage.Trends(c.Request.Context(), time.Now().Add(-trendsWindow))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *server) handleHealth(c *gin.Context) {
	err := s.storage.Ping(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
