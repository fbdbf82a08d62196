package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/pricing-engine/api/openapi"
	"github.com/donaldgifford/pricing-engine/internal/api/handlers"
	"github.com/donaldgifford/pricing-engine/internal/api/middleware"
	"github.com/donaldgifford/pricing-engine/internal/config"
	"github.com/donaldgifford/pricing-engine/internal/engine"
	"github.com/donaldgifford/pricing-engine/internal/store"
	"github.com/donaldgifford/pricing-engine/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	var st store.Store
	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
		cancel()
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pg.Close()
		st = pg
	}

	eng := buildEngine(cfg, log, st)
	runner := engine.NewRunner(eng, cfg.Data.Dir)

	sched, err := engine.NewScheduler(
		runner,
		cfg.Schedule.RecommendInterval,
		cfg.Schedule.TrainInterval,
		log,
	)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Recovery(log))
	e.Use(middleware.Metrics())

	healthH := handlers.NewHealthHandler(st)
	e.GET("/healthz", healthH.Healthz)
	e.GET("/readyz", healthH.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("Pricing Engine API", Version))
	handlers.RegisterRecommendRoutes(api, handlers.NewRecommendHandler(runner))
	handlers.RegisterTrainRoutes(api, handlers.NewTrainHandler(runner))
	handlers.RegisterRunRoutes(api, handlers.NewRunsHandler(st))

	openapi.RegisterRoutes(e)

	sched.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Let in-flight scheduled passes finish before closing the store.
	select {
	case <-sched.Stop().Done():
	case <-ctx.Done():
	}

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
