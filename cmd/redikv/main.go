package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"redikv/envs"
	"redikv/internal/redikv"
	"redikv/internal/server"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

// Build information, set via ldflags.
var Version = "dev"

func main() {
	if err := envs.LoadEnv(envFileFromArgs(os.Args[1:])); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	config, err := envs.Gets()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := App(config).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// App creates the CLI application. Flag defaults come from the environment.
func App(config envs.Envs) *cli.App {
	return &cli.App{
		Name:    "redikv",
		Usage:   "in-memory key-value server speaking a multi-bulk line protocol",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file loaded before reading the environment",
				Value: envs.DefaultEnvFile,
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "address to bind",
				Value: config.RedikvHost,
			},
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "TCP port to listen on",
				Value:   config.RedikvPort,
			},
			&cli.IntFlag{
				Name:  "shards",
				Usage: "store shards, 1 uses a single lock",
				Value: config.StoreShards,
			},
			&cli.DurationFlag{
				Name:  "sweep-interval",
				Usage: "active expiration interval, 0 keeps expiration lazy",
				Value: config.DataExpirationInterval,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "trace, debug, info, warn or error",
				Value: config.LogLevel,
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "emit JSON log lines",
				Value: config.LogJSON,
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "serve Prometheus metrics on this address",
				Value: config.MetricsAddr,
			},
		},
		Action: func(c *cli.Context) error {
			config.RedikvHost = c.String("host")
			config.RedikvPort = c.String("port")
			config.StoreShards = c.Int("shards")
			config.DataExpirationInterval = c.Duration("sweep-interval")
			config.LogLevel = c.String("log-level")
			config.LogJSON = c.Bool("log-json")
			config.MetricsAddr = c.String("metrics-addr")
			return run(c.Context, config)
		},
	}
}

func run(ctx context.Context, config envs.Envs) error {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "redikv",
		Level:      hclog.LevelFromString(config.LogLevel),
		JSONFormat: config.LogJSON,
		Output:     os.Stderr,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics, err := redikv.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	store := redikv.NewStore(config.StoreShards)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := redikv.NewSweeper(store, config.DataExpirationInterval, logger, metrics)
	go sweeper.Start(ctx)

	var metricsServer *http.Server
	if config.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: config.MetricsAddr, Handler: mux}

		go func() {
			logger.Info("metrics endpoint started", "addr", config.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics endpoint failed", "error", err)
			}
		}()
	}

	srv := server.New(store,
		server.WithLogger(logger.Named("server")),
		server.WithMetrics(metrics),
		server.WithIdleTimeout(config.IdleTimeout),
		server.WithReadBufferSize(config.ReadBufferSize),
		server.WithCloseOnError(config.CloseOnError),
	)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe(config.Address())
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("unable to start listener: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics endpoint shutdown", "error", err)
		}
	}
	return srv.Shutdown(shutdownCtx)
}

// The env file has to be known before flags are built, since the
// environment provides their defaults.
func envFileFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--env-file" || arg == "-env-file":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "--env-file="):
			return strings.TrimPrefix(arg, "--env-file=")
		}
	}
	return envs.DefaultEnvFile
}
