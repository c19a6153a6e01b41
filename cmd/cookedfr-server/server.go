package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cookedfr/cookedfr/internal/api"
	"github.com/cookedfr/cookedfr/internal/config"
	"github.com/cookedfr/cookedfr/internal/upstream"
)

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := setupLogger(cfg.Logging)

	logger.Info().
		Str("listen", cfg.Server.Listen).
		Str("provider", cfg.Upstream.Provider).
		Str("model", cfg.Upstream.Model).
		Dur("upstream_timeout", cfg.Upstream.Timeout).
		Str("log_level", cfg.Logging.Level).
		Msg("Starting CookedFR server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	generator, err := upstream.NewGenerator(ctx, &cfg.Upstream)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to create upstream client: %w", err)
	}
	if checker, ok := generator.(upstream.HealthChecker); ok {
		if err := checker.Health(ctx); err != nil {
			logger.Warn().Err(err).Str("kind", string(upstream.KindOf(err))).
				Msg("Upstream health check failed - server will start but fortunes may fail")
		} else {
			logger.Info().Str("provider", cfg.Upstream.Provider).Msg("Upstream connection verified")
		}
	}
	cancel()

	metrics := api.NewMetrics()
	router := api.NewRouter(cfg, generator, metrics, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Listen).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	}

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info().Msg("Server stopped")
	return nil
}

// loadConfig layers defaults, the config file, COOKEDFR_* environment
// variables and explicitly set flags, in that order, then fills the
// credential from the provider's key variable when still unset.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.ApplyEnv(cfg)

	if cmd != nil {
		flags := cmd.Flags()
		if flag := flags.Lookup("listen"); flag != nil && flag.Changed {
			cfg.Server.Listen, _ = flags.GetString("listen")
		}
		if flag := flags.Lookup("read-timeout"); flag != nil && flag.Changed {
			cfg.Server.ReadTimeout, _ = flags.GetDuration("read-timeout")
		}
		if flag := flags.Lookup("write-timeout"); flag != nil && flag.Changed {
			cfg.Server.WriteTimeout, _ = flags.GetDuration("write-timeout")
		}
		if flag := flags.Lookup("provider"); flag != nil && flag.Changed {
			v, _ := flags.GetString("provider")
			config.SetProvider(cfg, v)
		}
		if flag := flags.Lookup("base-url"); flag != nil && flag.Changed {
			cfg.Upstream.BaseURL, _ = flags.GetString("base-url")
		}
		if flag := flags.Lookup("model"); flag != nil && flag.Changed {
			if v, err := flags.GetString("model"); err == nil && v != "" {
				cfg.Upstream.Model = v
			}
		}
		if flag := flags.Lookup("upstream-timeout"); flag != nil && flag.Changed {
			cfg.Upstream.Timeout, _ = flags.GetDuration("upstream-timeout")
		}
		if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
			cfg.Logging.Level, _ = flags.GetString("log-level")
		}
		if flag := flags.Lookup("log-format"); flag != nil && flag.Changed {
			cfg.Logging.Format, _ = flags.GetString("log-format")
		}
	}

	cfg.ResolveAPIKey()
	return cfg, nil
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
