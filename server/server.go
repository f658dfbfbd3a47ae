package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"gorm.io/gorm"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/laundryos/washstack/api"
	"github.com/laundryos/washstack/config"
	"github.com/laundryos/washstack/internal/cron"
	"github.com/laundryos/washstack/internal/logger"
	"github.com/laundryos/washstack/internal/repository"
	"github.com/laundryos/washstack/internal/tracing"
	"github.com/laundryos/washstack/services"
)

type Server struct {
	config       *config.Config
	log          logger.Logger
	httpServer   *http.Server
	router       *gin.Engine
	services     *services.Services
	repositories *repository.Repositories
	cronManager  *cron.CronManager
	tracerCloser io.Closer
}

func NewServer(cfg *config.Config, db *gorm.DB) (*Server, error) {
	// Initialize logger
	appLogger := logger.NewAppLogger(cfg.Logger)
	appLogger.InitLogger()

	// Initialize tracing
	tracer, closer, err := tracing.NewJaegerTracer(cfg.Tracing, appLogger)
	if err != nil {
		log.Fatalf("Could not initialize jaeger tracer: %s", err.Error())
	}
	opentracing.SetGlobalTracer(tracer)

	// Initialize repositories
	repos := repository.InitRepositories(db)

	// Initialize services
	svcs, err := services.InitServices(cfg, appLogger, repos)
	if err != nil {
		return nil, err
	}

	cronManager := cron.NewCronManager(cfg, appLogger, k8sClient(appLogger), repos.WebhookEventRepository, svcs.EventQueue)

	// Initialize Gin
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	return &Server{
		config:       cfg,
		log:          appLogger,
		router:       router,
		services:     svcs,
		repositories: repos,
		cronManager:  cronManager,
		tracerCloser: closer,
		httpServer: &http.Server{
			Addr:    ":" + cfg.AppConfig.APIPort,
			Handler: router,
		},
	}, nil
}

// k8sClient returns an in-cluster client when running under kubernetes and
// nil otherwise, which makes the cron manager fall back to local mode.
func k8sClient(log logger.Logger) kubernetes.Interface {
	k8sConfig, err := rest.InClusterConfig()
	if err != nil {
		log.Infof("Not running in kubernetes, cron leader election disabled")
		return nil
	}
	client, err := kubernetes.NewForConfig(k8sConfig)
	if err != nil {
		log.Warnf("Failed to build kubernetes client: %v", err)
		return nil
	}
	return client
}

func (s *Server) Initialize(ctx context.Context) error {
	// Start the event queue worker before anything can enqueue
	s.services.EventQueue.Start(ctx)

	// Requeue whatever was pending when the previous process died
	s.recoverPendingEvents(ctx)

	// Setup API routes
	api.RegisterRoutes(ctx, s.router, s.config, s.services, s.repositories)

	return nil
}

// recoverPendingEvents puts rows abandoned by a previous process back on the
// worker. The cron sweep covers the same ground periodically; doing it at
// boot just shortens the gap.
func (s *Server) recoverPendingEvents(ctx context.Context) {
	span, ctx := tracing.StartTracerSpan(ctx, "Server.recoverPendingEvents")
	defer span.Finish()
	tracing.TagComponentQueue(span)

	pending, err := s.repositories.WebhookEventRepository.ListPendingOlderThan(ctx, time.Now().UTC(), cron.RecoveryBatchSize)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Failed to list pending events on boot: %v", err)
		return
	}

	for _, event := range pending {
		if err := s.services.EventQueue.Requeue(ctx, event); err != nil {
			s.log.Errorf("Failed to requeue event %s on boot: %v", event.ID, err)
		}
	}

	if len(pending) > 0 {
		s.log.Infof("Requeued %d pending events on boot", len(pending))
	}
}

func (s *Server) recoverWithJaeger(name string) {
	if r := recover(); r != nil {
		span := opentracing.GlobalTracer().StartSpan(
			fmt.Sprintf("panic.%s", name),
		)
		defer span.Finish()

		ext.Error.Set(span, true)

		span.LogKV(
			"event", "panic",
			"process", name,
			"error", fmt.Sprintf("%v", r),
			"stack", string(debug.Stack()),
		)

		log.Printf("❌ Panic in %s: %v\n%s", name, r, debug.Stack())
	}
}

func (s *Server) wrapGoroutine(name string, fn func()) {
	defer s.recoverWithJaeger(name)
	fn()
}

func (s *Server) Run() error {
	// Create root context for the application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize server components
	if err := s.Initialize(ctx); err != nil {
		return err
	}

	// Start the cron manager
	podName := os.Getenv("POD_NAME")
	namespace := os.Getenv("POD_NAMESPACE")
	if namespace == "" {
		namespace = "default"
	}
	if err := s.cronManager.Start(podName, namespace); err != nil {
		return err
	}

	// Start HTTP server in a goroutine with panic recovery
	go s.wrapGoroutine("http_server", func() {
		s.log.Infof("Starting HTTP server on port %s", s.config.AppConfig.APIPort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("HTTP server error: %v", err)
		}
	})
	s.log.Infof("Washstack is now running. Press Ctrl+C to exit.")

	return s.waitForShutdown()
}

func (s *Server) waitForShutdown() error {
	defer s.recoverWithJaeger("shutdown")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	s.log.Infof("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	// Stop taking new work first
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("HTTP server shutdown error: %v", err)
	}

	s.cronManager.Stop()

	// Drain the queue worker
	if err := s.services.EventQueue.Stop(shutdownCtx); err != nil {
		s.log.Errorf("Event queue shutdown error: %v", err)
	}

	s.services.Close()

	if s.tracerCloser != nil {
		s.tracerCloser.Close()
	}

	s.log.Infof("Shutdown complete")
	return nil
}
