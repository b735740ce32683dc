package cmd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/program-ledger/console/internal/backend"
	"github.com/program-ledger/console/internal/config"
	"github.com/program-ledger/console/internal/controllers"
	"github.com/program-ledger/console/internal/format"
	"github.com/program-ledger/console/internal/router"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagListenAddress  string
	flagBackendURL     string
	flagBackendTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web console",
	RunE:  runServe,
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

// addServeFlags adds the flags that override the environment.
func addServeFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagListenAddress, "listen", "", "HTTP listen address (LISTEN_ADDRESS)")
	c.Flags().StringVar(&flagBackendURL, "backend-url", "", "Base URL of the ledger backend (BACKEND_URL)")
	c.Flags().DurationVar(&flagBackendTimeout, "backend-timeout", 0, "Timeout for backend requests, 0 for none (BACKEND_TIMEOUT)")
}

func runServe(c *cobra.Command, _ []string) error {
	cfg := config.Load()

	if c.Flags().Changed("listen") {
		cfg.ListenAddress = flagListenAddress
	}
	if c.Flags().Changed("backend-url") {
		cfg.BackendURL = flagBackendURL
	}
	if c.Flags().Changed("backend-timeout") {
		cfg.SetBackendTimeout(flagBackendTimeout)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	setupLogging(cfg)

	f, err := formatter(cfg)
	if err != nil {
		return err
	}

	client, err := backend.New(cfg.BackendURL, backend.WithTimeout(cfg.BackendTimeout))
	if err != nil {
		return err
	}

	r, teardown, err := router.Config()
	if err != nil {
		return err
	}
	defer teardown()

	co := controllers.New(client, f)
	if err := router.AttachRoutes(co, r.Group("/")); err != nil {
		return err
	}
	r.NoRoute(co.NoRoute)

	srv := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown")
		}
	}()

	log.Info().Str("address", cfg.ListenAddress).Str("backend", client.BaseURL()).Msg("Starting console")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Info().Msg("Server stopped")
	return nil
}

// setupLogging configures gin and the global logger.
func setupLogging(cfg *config.Config) {
	gin.SetMode(cfg.GinMode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()
}

func formatter(cfg *config.Config) (*format.Formatter, error) {
	tag, err := cfg.Language()
	if err != nil {
		return nil, err
	}

	unit, err := cfg.CurrencyUnit()
	if err != nil {
		return nil, err
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	return format.New(tag, unit, location), nil
}
