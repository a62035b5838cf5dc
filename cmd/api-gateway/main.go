package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/app"
	"github.com/Tribo-Hackathon/Tribo/internal/controller"
	"github.com/Tribo-Hackathon/Tribo/internal/metrics"
	"github.com/Tribo-Hackathon/Tribo/internal/repository/clickhouse"
	"github.com/Tribo-Hackathon/Tribo/internal/transport"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var config struct {
	Addr           string        `long:"addr" env:"API_GATEWAY_ADDR" description:"grpc health addr" default:":8000"`
	RestAddr       string        `long:"rest-addr" env:"API_GATEWAY_REST_ADDR" description:"rest addr" default:":8001"`
	ClickhouseDSN  string        `long:"clickhouse-dsn" env:"API_GATEWAY_CLICKHOUSE_DSN" description:"proposal history store; history routes are off when empty"`
	ErrorCooldown  time.Duration `long:"error-cooldown" env:"API_GATEWAY_ERROR_COOLDOWN" description:"delay before a failed read is retried" default:"5s"`
	HealthInterval time.Duration `long:"health-interval" env:"API_GATEWAY_HEALTH_INTERVAL" description:"upstream health check interval" default:"15s"`
	MaxTracked     int           `long:"max-tracked" env:"API_GATEWAY_MAX_TRACKED" description:"resources kept per route before the least recently used is dropped" default:"1024"`

	Chain app.ChainConfig `group:"Chain options"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)
	if _, err := flags.ParseArgs(&config, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("Failed to parse arguments", zap.Error(err))
	}

	stack, err := app.Build(ctx, config.Chain, logger)
	if err != nil {
		logger.Fatal("Build reader stack", zap.Error(err))
	}
	defer stack.Close()

	apiOpts := []transport.Option{}
	if stack.Wallet != nil {
		apiOpts = append(apiOpts, transport.WithWrites())
	}
	if config.ClickhouseDSN != "" {
		repo, err := clickhouse.NewRepository(config.ClickhouseDSN, stack.Network, metrics.NewClickhouseRepository(stack.Network))
		if err != nil {
			logger.Fatal("Open clickhouse repository", zap.Error(err))
		}
		defer func() {
			_ = repo.Close()
		}()
		apiOpts = append(apiOpts, transport.WithHistory(repo))
	}

	api, err := transport.NewAPI(
		stack.Registry,
		stack.Communities,
		stack.Governance,
		metrics.NewHTTPAPI(),
		logger,
		[]controller.Option{
			controller.WithCooldown(config.ErrorCooldown),
			controller.WithMaxKeys(config.MaxTracked),
		},
		apiOpts...,
	)
	if err != nil {
		logger.Fatal("Build http api", zap.Error(err))
	}

	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	grpcPrometheus.EnableHandlingTimeHistogram()

	healthHandler := transport.NewHealthHandler(stack.Pool, config.HealthInterval, logger)
	healthpb.RegisterHealthServer(grpcServer, healthHandler)
	grpcPrometheus.Register(grpcServer)
	go healthHandler.Run(ctx)

	socket, err := net.Listen("tcp", config.Addr)
	if err != nil {
		logger.Fatal("net.Listen error", zap.Error(err))
	}
	go func() {
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Fatal("Start GRPC server", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		grpcServer.GracefulStop()
	}()

	conn, err := grpc.NewClient(config.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatal("Dial gRPC health service", zap.Error(err))
	}
	defer func() {
		_ = conn.Close()
	}()

	gw := gwruntime.NewServeMux()
	if err := api.Register(gw); err != nil {
		logger.Fatal("Register api routes", zap.Error(err))
	}
	if err := transport.RegisterHealthRoute(gw, healthpb.NewHealthClient(conn)); err != nil {
		logger.Fatal("Register health route", zap.Error(err))
	}

	mux := http.NewServeMux()
	mux.Handle("/", gw)
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              config.RestAddr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server",
		zap.String("addr", config.RestAddr),
		zap.String("network", string(stack.Network)),
		zap.Bool("writes", stack.Wallet != nil),
		zap.Bool("history", config.ClickhouseDSN != ""),
	)
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to listen and serve", zap.Error(err))
	}
}
