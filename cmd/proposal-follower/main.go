package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/app"
	"github.com/Tribo-Hackathon/Tribo/internal/metrics"
	"github.com/Tribo-Hackathon/Tribo/internal/notify"
	"github.com/Tribo-Hackathon/Tribo/internal/repository/clickhouse"
	"github.com/Tribo-Hackathon/Tribo/internal/service/follower"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type config struct {
	ClickhouseDSN  string        `long:"clickhouse-dsn" env:"PROPOSAL_FOLLOWER_CLICKHOUSE_DSN" description:"ClickHouse DSN"`
	Interval       time.Duration `long:"interval" env:"PROPOSAL_FOLLOWER_INTERVAL" description:"delay between follow cycles" default:"30s"`
	Workers        int           `long:"workers" env:"PROPOSAL_FOLLOWER_WORKERS" description:"communities followed concurrently" default:"4"`
	DiscordToken   string        `long:"discord-token" env:"PROPOSAL_FOLLOWER_DISCORD_TOKEN" description:"bot token; notifications are off when empty"`
	DiscordChannel string        `long:"discord-channel" env:"PROPOSAL_FOLLOWER_DISCORD_CHANNEL" description:"channel receiving proposal announcements"`
	MetricsAddr    string        `long:"metrics-addr" env:"PROPOSAL_FOLLOWER_METRICS_ADDR" description:"address for metrics server" default:":2112"`

	Chain app.ChainConfig `group:"Chain options"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if cfg.ClickhouseDSN == "" {
		logger.Fatal("ClickHouse DSN is required")
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("proposal follower failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	stack, err := app.Build(ctx, cfg.Chain, logger)
	if err != nil {
		return fmt.Errorf("build reader stack: %w", err)
	}
	defer stack.Close()

	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, stack.Network, metrics.NewClickhouseRepository(stack.Network))
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		_ = repo.Close()
	}()

	opts := []follower.Option{
		follower.WithInterval(cfg.Interval),
		follower.WithWorkers(cfg.Workers),
	}
	if cfg.DiscordToken != "" {
		discord, err := notify.NewDiscord(cfg.DiscordToken, cfg.DiscordChannel, stack.Network, logger)
		if err != nil {
			return fmt.Errorf("init discord notifier: %w", err)
		}
		opts = append(opts, follower.WithNotifier(discord))
	}

	svc, err := follower.New(
		stack.Registry,
		stack.Governance,
		repo,
		metrics.NewProposalFollower(stack.Network),
		stack.Network,
		logger,
		opts...,
	)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
