package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/geobatch/internal/config"
	"github.com/UnknownOlympus/geobatch/internal/geocoding"
	"github.com/UnknownOlympus/geobatch/internal/metrics"
	"github.com/UnknownOlympus/geobatch/internal/output"
	"github.com/UnknownOlympus/geobatch/internal/repository"
	"github.com/UnknownOlympus/geobatch/internal/resolver"
	"github.com/UnknownOlympus/geobatch/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

var apiKeyFile string

var rootCmd = &cobra.Command{
	Use:   "geobatch",
	Short: "Geocode addresses read from stdin into CSV on stdout",
	Long: `Reads one address per line from stdin, looks each one up with the
geocode.maps.co search API and writes one CSV row per match to stdout.

Addresses without results are retried with their first word dropped until
only one word is left. Requests are paced to stay under one per second.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&apiKeyFile, "api-key-file", "a", "", "file holding the geocode.maps.co API key")
	_ = rootCmd.MarkFlagRequired("api-key-file")
}

// main is the entry point of the application.
func main() {
	// Cancel the context on interrupt so the batch stops at the next pause and flushes output.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment. Stdout is reserved for CSV.
	logger := setupLogger(cfg.Env, cmd.ErrOrStderr())

	apiKey, err := config.LoadAPIKey(apiKeyFile)
	if err != nil {
		return err
	}

	// Create a separate registry for metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		APIKey:    apiKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		RateLimit: geocoding.DefaultRateLimit,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create geocoding provider: %w", err)
	}

	var (
		store repository.Interface
		dtb   *pgxpool.Pool
	)
	if cfg.Database.Enabled() {
		dtb, err = repository.NewDatabase(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to DB: %w", err)
		}
		defer dtb.Close()

		repo := repository.NewRepository(dtb, logger)
		if err = repo.EnsureSchema(ctx); err != nil {
			return err
		}
		store = repo
		logger.InfoContext(ctx, "Mirroring records to database", "host", cfg.Database.Host, "db", cfg.Database.Name)
	}

	if cfg.MetricsPort > 0 {
		go startMonitoringServer(ctx, logger, reg, dtb, cfg.MetricsPort)
	}

	writer := output.NewCSVWriter(cmd.OutOrStdout())
	pacer := resolver.NewTimerPacer(cfg.Delay)
	batch := service.NewBatchService(logger, provider, pacer, writer, store, appMetrics)

	if cfg.Progress && isatty.IsTerminal(os.Stderr.Fd()) {
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Geocoding"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()
		batch.WithProgress(bar)
	}

	logger.DebugContext(ctx, "Batch started", "delay", pacer.Delay(), "endpoint", cfg.BaseURL)

	summary, err := batch.Run(ctx, cmd.InOrStdin())
	if err != nil {
		if service.IsInterrupted(err) {
			logger.WarnContext(ctx, "Interrupted, output flushed", "addresses", summary.Addresses)
			return nil
		}
		return err
	}

	logger.InfoContext(ctx, "Batch finished",
		"addresses", summary.Addresses,
		"matched", summary.Matched,
		"empty", summary.Empty,
		"failed", summary.Failed,
		"records", summary.Records,
	)

	return nil
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It stops when ctx is canceled. dtb may be nil when no database is configured.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb *pgxpool.Pool,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, req *http.Request) {
		status, body := http.StatusOK, "OK"
		if dtb != nil {
			if err := dtb.Ping(req.Context()); err != nil {
				status, body = http.StatusServiceUnavailable, "DB ping failed"
			}
		}
		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	const (
		readTimeout  = 5 * time.Second
		writeTimeout = 10 * time.Second
	)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}
