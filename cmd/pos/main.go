package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Iceblockp/mini-shop-pos/config"
	"github.com/Iceblockp/mini-shop-pos/internal/app"
	"github.com/Iceblockp/mini-shop-pos/internal/database"
	"github.com/Iceblockp/mini-shop-pos/internal/logger"
	"github.com/Iceblockp/mini-shop-pos/internal/metrics"
	"github.com/Iceblockp/mini-shop-pos/internal/model"

	invListenerPkg "github.com/Iceblockp/mini-shop-pos/internal/inventory/listener"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const serviceName = "mini-shop-pos"

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.IsDevelopment() {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Open the embedded store; the schema is migrated before anything reads it
	db, err := database.Open(ctx, cfg.SQLite, appLogger)
	if err != nil {
		appLogger.Fatal("Could not open embedded store", zap.Error(err), zap.String("path", cfg.SQLite.Path))
	}
	defer db.Close()

	// 4. Initialize Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// 5. Initialize UseCases
	alerts := make(chan model.InventoryAlert, cfg.Inventory.AlertBuffer)
	application := app.New(db, cfg, alerts, appMetrics, appLogger)

	// 6. Initialize Listeners
	invListener := invListenerPkg.NewAlertListener(alerts, nil, appLogger)
	go invListener.Start(ctx)

	// Log a startup snapshot so an operator sees the store is readable.
	if summary, err := application.Reports.Summary(ctx); err != nil {
		appLogger.Warn("Could not build startup summary", zap.Error(err))
	} else {
		appLogger.Info("Store summary",
			zap.Int("products", summary.ProductCount),
			zap.Int("transactions", summary.TransactionCount),
			zap.Int("low_stock", len(summary.LowStock)),
		)
	}
	if tree, err := application.Categories.Tree(ctx); err == nil {
		appLogger.Debug("Category tree loaded", zap.Int("roots", len(tree)))
	}

	// 7. Start Metrics Endpoint
	var metricsServer *http.Server
	if cfg.Server.MetricsAddr != "" {
		router := mux.NewRouter()
		router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{
			Addr:              cfg.Server.MetricsAddr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			appLogger.Info("Starting metrics endpoint", zap.String("addr", cfg.Server.MetricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Metrics endpoint failed", zap.Error(err))
			}
		}()
	}

	// 8. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("Failed to listen", zap.Error(err), zap.String("port", port))
	}

	grpcServer := grpc.NewServer()

	// Register Services
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// Register Reflection
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("Failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	grpcServer.GracefulStop()
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Warn("Metrics endpoint shutdown", zap.Error(err))
		}
	}
	cancel()
	appLogger.Info("Server stopped")
}
