package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/animeverse/animeverse/internal/client"
	"github.com/animeverse/animeverse/internal/config"
	"github.com/animeverse/animeverse/internal/controller"
	"github.com/animeverse/animeverse/internal/metrics"
	"github.com/animeverse/animeverse/internal/render"
	"github.com/animeverse/animeverse/internal/storage"
	"github.com/animeverse/animeverse/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web front-end",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("address", "a", "", "Listen address (overrides server.address)")
	cmd.Flags().IntP("port", "p", 0, "Listen port (overrides server.port)")
	cmd.Flags().Bool("secure-cookies", false, "Mark the visitor cookie Secure")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	if cmd.Flags().Changed("address") {
		cfg.Server.Address = lo.Must(cmd.Flags().GetString("address"))
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = lo.Must(cmd.Flags().GetInt("port"))
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, AttachStacktrace: true}); err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Sentry, continuing without error reporting")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	logger.Info().
		Str("jikan_base_url", cfg.JikanBaseURL).
		Str("storage_provider", cfg.Storage.Provider).
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Bool("metrics_enabled", cfg.Metrics.Enabled).
		Msg("Application started with configuration")

	store, err := storage.New(cfg.Storage.Provider, storage.ProviderConfig{
		Size:   cfg.Storage.Size,
		TTL:    config.Duration("storage.ttl", cfg.Storage.TTL, 0),
		Logger: storage.NewZerologLogger(logger),
		Redis: storage.RedisOptions{
			Address:  cfg.Storage.RedisAddress,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		},
		Group: "prefs",
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close preference store")
		}
	}()

	jikan := client.NewClient(cfg)
	defer func() { _ = jikan.Close() }()

	renderer, err := render.New()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	carousel := controller.NewCarousel(jikan, controller.RealClock(), cfg.Carousel.Slides,
		config.Duration("carousel.interval", cfg.Carousel.Interval, controller.DefaultAutoplay))
	defer carousel.Stop()
	go carousel.Load(ctx)

	debouncer := controller.NewDebouncer(controller.RealClock(),
		config.Duration("search.debounce", cfg.Search.Debounce, controller.DefaultDebounce))

	router, err := web.NewRouter(web.Deps{
		Client:        jikan,
		Store:         store,
		Renderer:      renderer,
		Carousel:      carousel,
		Search:        controller.NewSearch(jikan, debouncer),
		SecureCookies: lo.Must(cmd.Flags().GetBool("secure-cookies")),
	})
	if err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	srv := web.NewHTTPServer(cfg.Server.Address, cfg.Server.Port, router)
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("address", srv.Addr).Msg("Starting HTTP server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info().Msg("Received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		}
	}

	logger.Info().Msg("Server stopped gracefully")
	return nil
}
