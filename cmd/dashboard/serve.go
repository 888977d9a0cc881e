package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/abdulachik/dashboard/internal/api/http"
	"github.com/abdulachik/dashboard/internal/app"
	"github.com/abdulachik/dashboard/internal/config"
	"github.com/abdulachik/dashboard/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Serve the dashboard web view and JSON API. When REFRESH_INTERVAL is set the
cached snapshot is refreshed in the background on that interval.`,
	RunE: runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig((*config.Config).ValidateForServe)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	warmer := scheduler.New(scheduler.Config{
		Refresher:  a.Service,
		Health:     a.Health,
		Category:   cfg.Category,
		Interval:   cfg.RefreshInterval,
		RunOnStart: true,
	})
	if err := warmer.Start(); err != nil {
		return err
	}
	defer warmer.Stop()

	server := newServer()
	httpapi.RegisterRoutes(server, httpapi.Deps{
		Snapshots:       a.Service,
		Health:          a.Health,
		Metrics:         promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}),
		DefaultCategory: cfg.Category,
	})

	addr := ":" + strconv.Itoa(cfg.Port)
	slog.Info("starting dashboard server",
		"addr", addr,
		"cache_backend", cfg.CacheBackend,
		"refresh_interval", cfg.RefreshInterval,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Listen(addr); err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newServer() *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:               "dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// A cache miss runs a full round, which can take minutes with a
		// rate-limited stock key.
		WriteTimeout: 5 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	server.Use(logger.New())
	server.Use(recover.New())

	return server
}
