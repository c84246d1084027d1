package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/posekit/posestream/internal/api/middleware"
	"github.com/posekit/posestream/internal/broadcast"
	"github.com/posekit/posestream/internal/capture"
	"github.com/posekit/posestream/internal/http"
	"github.com/posekit/posestream/internal/infrastructure/config"
	"github.com/posekit/posestream/internal/infrastructure/logging"
	"github.com/posekit/posestream/internal/infrastructure/monitoring"
	"github.com/posekit/posestream/internal/lifecycle"
	"github.com/posekit/posestream/internal/pose"
	"github.com/posekit/posestream/internal/ws"
)

// Server owns the three loops of the pipeline (capture, broadcast,
// listener) and the shared state between them (mailbox, registry, stop
// signal). Nothing in the pipeline is reachable through package globals;
// everything is passed by reference from here.
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	router   *gin.Engine
	httpSrv  *stdhttp.Server
	mailbox  *pose.Mailbox
	registry *broadcast.Registry
	stop     *lifecycle.Stop

	captureLoop   *capture.Loop
	broadcastLoop *broadcast.Loop

	captureDone   chan error
	broadcastDone chan struct{}
}

// NewServer wires the pipeline. The frame source and estimator come from
// the caller; the core never constructs its own capture hardware.
func NewServer(cfg *config.Config, source capture.Source, estimator capture.Estimator) (*Server, error) {
	var logger *zap.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("initializing posestream server",
		zap.String("addr", cfg.Server.Host+":"+cfg.Server.Port),
		zap.Float64("capture_fps", cfg.Capture.TargetFPS),
		zap.Float64("broadcast_fps", cfg.Broadcast.TargetFPS),
	)

	metrics := monitoring.NewMetrics()

	stop := lifecycle.NewStop()
	mailbox := pose.NewMailbox()
	registry := broadcast.NewRegistry()

	captureLoop := capture.NewLoop(source, estimator, mailbox, stop, logger, cfg.Capture.TargetFPS).
		WithMetrics(metrics)
	broadcastLoop := broadcast.NewLoop(mailbox, registry, stop, logger, cfg.Broadcast.TargetFPS).
		WithMetrics(metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := http.NewHandlers(registry, mailbox)
	wsHandler := ws.NewHandler(registry, stop, logger, metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/stats", handlers.Stats)
	router.GET("/stream", wsHandler.HandleConnection)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       metrics,
		router:        router,
		mailbox:       mailbox,
		registry:      registry,
		stop:          stop,
		captureLoop:   captureLoop,
		broadcastLoop: broadcastLoop,
		captureDone:   make(chan error, 1),
		broadcastDone: make(chan struct{}),
	}, nil
}

// Stop exposes the shared stop signal so callers can observe a fatal
// capture failure in addition to OS signals.
func (s *Server) Stop() *lifecycle.Stop {
	return s.stop
}

// Run binds the listen address, starts the capture and broadcast loops,
// and serves HTTP until shutdown. A bind failure is returned before any
// loop starts.
func (s *Server) Run() error {
	addr := s.cfg.Server.Host + ":" + s.cfg.Server.Port
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}

	// Capture runs on its own goroutine: Produce may block on hardware
	// I/O and must not share a scheduler path with network handling.
	go func() {
		s.captureDone <- s.captureLoop.Run()
	}()
	go func() {
		defer close(s.broadcastDone)
		s.broadcastLoop.Run()
	}()

	s.httpSrv = &stdhttp.Server{Handler: s.router}
	s.logger.Info("listening", zap.String("addr", addr))

	if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Close drives graceful teardown: trip the stop signal, actively close
// every open subscriber, stop accepting, then wait out the loops. The
// capture loop gets a bounded wait; if its source read is wedged past the
// deadline the shutdown proceeds anyway.
func (s *Server) Close() error {
	s.logger.Info("shutting down")
	s.stop.Trip()

	for _, err := range s.registry.CloseAll() {
		s.logger.Warn("subscriber close failed", zap.Error(err))
	}

	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Warn("http shutdown incomplete", zap.Error(err))
		}
	}

	select {
	case <-s.broadcastDone:
	case <-time.After(s.cfg.Server.ShutdownTimeout):
		s.logger.Warn("broadcast loop did not stop in time")
	}

	select {
	case err := <-s.captureDone:
		if err != nil {
			s.logger.Error("capture loop exited with error", zap.Error(err))
		}
	case <-time.After(s.cfg.Server.ShutdownTimeout):
		s.logger.Warn("capture loop did not stop in time")
	}

	s.logger.Info("shutdown complete")
	s.logger.Sync()
	return nil
}
