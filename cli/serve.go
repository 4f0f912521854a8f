package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/IWTDPLZZZ/Habit-Tracker/handlers"
	"github.com/IWTDPLZZZ/Habit-Tracker/middleware"
	"github.com/IWTDPLZZZ/Habit-Tracker/routes"
	"github.com/IWTDPLZZZ/Habit-Tracker/services"
	"github.com/IWTDPLZZZ/Habit-Tracker/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts)
		},
	}
}

func runServe(ctx context.Context, opts *RootOptions) error {
	cfg, logger := opts.cfg, opts.logger
	utils.InitMetrics()
	logger.Info("starting_application", zap.String("driver", cfg.Storage.Driver))

	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.close(); err != nil {
			logger.Warn("store_close_failed", zap.Error(err))
		}
	}()

	tracker := services.NewTracker(b.store, logger)
	if cfg.Server.SeedHabits {
		if _, err := tracker.SeedDefaultHabits(ctx); err != nil {
			return fmt.Errorf("seed habits: %w", err)
		}
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	// порядок важен: recovery должен видеть request_id
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(r, handlers.New(tracker, logger), routes.Options{
		TokenSecret: cfg.Auth.TokenSecret,
		Limiter:     b.limiter,
		RateMax:     cfg.RateLimit.Max,
		RateWindow:  cfg.RateLimit.Window,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("http_server_failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting_down_server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_forced_shutdown", zap.Error(err))
		return err
	}
	logger.Info("server_stopped")
	return nil
}
