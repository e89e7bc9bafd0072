package web

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"openfx/internal/alert"
	"openfx/internal/history"
	"openfx/internal/model"
	"openfx/internal/monitor"
)

//go:embed index.html
var indexHTML []byte

// Server exposes the dashboard page, the JSON API and the websocket feed.
// It doubles as a cycle hook and a notifier so the engine can push live
// updates through the hub.
type Server struct {
	engine *monitor.Engine
	store  *history.Store
	ring   *alert.Ring
	hub    *Hub
	log    *zap.SugaredLogger
	router *gin.Engine
	http   *http.Server
}

func NewServer(eng *monitor.Engine, store *history.Store, ring *alert.Ring, env string, log *zap.SugaredLogger) *Server {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine: eng,
		store:  store,
		ring:   ring,
		hub:    NewHub(log),
		log:    log,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestLogger(log))

	router.GET("/", s.handleIndex)
	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api/v1")
	{
		api.GET("/pairs", s.handlePairs)
		api.GET("/pairs/:symbol/series", s.handleSeries)
		api.GET("/pairs/:symbol/chart.png", s.handleChart)
		api.GET("/alerts", s.handleAlerts)
	}

	router.GET("/ws", func(c *gin.Context) { s.hub.HandleWS(c.Writer, c.Request) })

	s.router = router
	return s
}

// Router returns the handler, mainly for tests.
func (s *Server) Router() http.Handler { return s.router }

// Run starts the hub and serves until Shutdown.
func (s *Server) Run(addr string) error {
	go s.hub.Run()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Infow("web server listening", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes websocket clients and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Shutdown()
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Name implements the notifier interface.
func (s *Server) Name() string { return "web" }

// Notify pushes a new alert to all websocket clients.
func (s *Server) Notify(_ context.Context, a model.Alert) error {
	s.hub.Broadcast("alert", a)
	return nil
}

// OnCycle pushes the completed cycle summary to all websocket clients.
func (s *Server) OnCycle(sum model.CycleSummary) {
	s.hub.Broadcast("cycle", sum)
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePairs(c *gin.Context) {
	sum := s.engine.LastSummary()
	if sum == nil {
		c.JSON(http.StatusOK, model.CycleSummary{Statuses: []model.PairStatus{}})
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) handleSeries(c *gin.Context) {
	pair, err := model.ParsePair(c.Param("symbol"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	points := s.store.Series(pair.Symbol)
	if points == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown pair"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": pair.Symbol, "points": points})
}

func (s *Server) handleChart(c *gin.Context) {
	pair, err := model.ParsePair(c.Param("symbol"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	points := s.store.Series(pair.Symbol)
	if points == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown pair"})
		return
	}

	png, err := RenderPairChart(pair.Display(), points, s.ring.ForPair(pair.Symbol))
	if errors.Is(err, ErrNotEnoughPoints) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		s.log.Errorw("render chart", "pair", pair.Symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chart render failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) handleAlerts(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, gin.H{"alerts": s.ring.Recent(limit)})
}

// corsMiddleware returns a CORS middleware handler.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestLogger returns a request logging middleware. Health checks are
// skipped and successful fast requests stay quiet.
func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/healthz" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		if c.Writer.Status() >= 400 || duration > time.Second {
			log.Infow("request", "method", c.Request.Method, "path", path,
				"status", c.Writer.Status(), "duration", duration)
		}
	}
}
