package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bankguard/internal/guardrail"
	"bankguard/internal/logging"
	"bankguard/internal/metrics"
)

// Server exposes the guardrail executor over HTTP.
type Server struct {
	executor   *guardrail.Executor
	engine     *gin.Engine
	httpServer *http.Server
	logger     *logging.Logger
	metrics    *metrics.Metrics
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string
	Debug        bool
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         ":8080",
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // requests block on the oracle call
	}
}

// NewServer builds the HTTP server around a guardrail executor.
func NewServer(executor *guardrail.Executor, cfg ServerConfig, logger *logging.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	if cfg.EnableCORS {
		engine.Use(cors.Default())
	}

	registry := prometheus.NewRegistry()

	s := &Server{
		executor: executor,
		engine:   engine,
		logger:   logging.OrNop(logger).With("component", "server"),
		metrics:  metrics.New(registry),
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}

	engine.POST("/v1/evaluate", s.handleEvaluate)
	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return s
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("guardrail server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("guardrail server stopping")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

type evaluateRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Context  string `json:"context"`
}

type evaluateResponse struct {
	Verdict string                `json:"verdict"`
	Message string                `json:"message"`
	Scores  guardrail.ScoreRecord `json:"scores"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	result, err := s.executor.Evaluate(c.Request.Context(), guardrail.EvaluationRequest{
		Question: req.Question,
		Answer:   req.Answer,
		Context:  req.Context,
	})
	elapsed := time.Since(start)

	if err != nil {
		var oracleErr *guardrail.OracleError
		if errors.As(err, &oracleErr) {
			s.metrics.ObserveFailure(string(oracleErr.Kind), elapsed)
			status := http.StatusBadGateway
			if oracleErr.Kind == guardrail.ParseFailure {
				status = http.StatusUnprocessableEntity
			}
			c.JSON(status, errorResponse{Error: oracleErr.Error(), Kind: string(oracleErr.Kind)})
			return
		}
		s.metrics.ObserveFailure("internal", elapsed)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	s.metrics.ObserveVerdict(string(result.Verdict), elapsed)
	c.JSON(http.StatusOK, evaluateResponse{
		Verdict: string(result.Verdict),
		Message: result.Verdict.Message(),
		Scores:  result.Record,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
