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

	"golang.org/x/sync/errgroup"

	"github.com/bibbank/cardiorisk/internal/application/usecase"
	"github.com/bibbank/cardiorisk/internal/domain/service"
	"github.com/bibbank/cardiorisk/internal/infrastructure/config"
	infrakafka "github.com/bibbank/cardiorisk/internal/infrastructure/kafka"
	"github.com/bibbank/cardiorisk/internal/infrastructure/postgres"
	"github.com/bibbank/cardiorisk/internal/infrastructure/spreadsheet"
	"github.com/bibbank/cardiorisk/internal/infrastructure/telemetry"
	grpcpresentation "github.com/bibbank/cardiorisk/internal/presentation/grpc"
	"github.com/bibbank/cardiorisk/internal/presentation/rest"
	"github.com/bibbank/cardiorisk/pkg/auth"
	pkgkafka "github.com/bibbank/cardiorisk/pkg/kafka"
	"github.com/bibbank/cardiorisk/pkg/observability"
	pkgpostgres "github.com/bibbank/cardiorisk/pkg/postgres"
	"github.com/bibbank/cardiorisk/pkg/tlsutil"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:       cfg.Telemetry.LogLevel,
		Format:      cfg.Telemetry.LogFormat,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("cardio-risk service failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting cardio-risk service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer meterProvider.Shutdown(context.Background()) //nolint:errcheck

	// Initialize tracing.
	if cfg.Telemetry.TracingEnabled {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Environment,
			Endpoint:    cfg.Telemetry.OTLPEndpoint,
			Insecure:    cfg.Telemetry.OTLPInsecure,
			SampleRatio: cfg.Telemetry.SampleRatio,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer shutdown(context.Background()) //nolint:errcheck
		}
	}

	// Database connection.
	if cfg.DB.MigrationsEnabled {
		if err := pkgpostgres.RunEmbeddedMigrations(cfg.DB.DSN(), postgres.Migrations, postgres.MigrationsPath); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, cfg.DB.Postgres())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Wire infrastructure adapters.
	kafkaCfg := pkgkafka.Config{
		Brokers:            cfg.Kafka.Brokers,
		ConsumerGroup:      cfg.Kafka.ConsumerGroup,
		TLS:                cfg.Kafka.TLS,
		SASLEnabled:        cfg.Kafka.SASLUsername != "",
		SASLMechanism:      cfg.Kafka.SASLMechanism,
		SASLUsername:       cfg.Kafka.SASLUsername,
		SASLPassword:       cfg.Kafka.SASLPassword,
		MaxHandlerAttempts: cfg.Kafka.MaxHandlerAttempts,
	}
	producer, err := pkgkafka.NewProducer(kafkaCfg)
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer producer.Close()

	assessmentRepo := postgres.NewAssessmentRepository(pool)
	eventPublisher := infrakafka.NewPublisher(producer, cfg.Kafka.EventsTopic, logger)

	recorder, err := telemetry.NewRecorder(meterProvider)
	if err != nil {
		return fmt.Errorf("create metrics recorder: %w", err)
	}

	// Wire domain services.
	engine := service.NewDecisionEngine()

	// Wire use cases.
	computeRiskUC := usecase.NewComputeRisk(engine, cfg.Engine.Locale)
	assessRiskUC := usecase.NewAssessRisk(assessmentRepo, eventPublisher, engine, recorder)
	getAssessmentUC := usecase.NewGetAssessment(assessmentRepo)
	listAssessmentsUC := usecase.NewListAssessments(assessmentRepo)
	importAssessmentsUC := usecase.NewImportAssessments(assessRiskUC, engine, cfg.Engine.ImportConcurrency, logger)
	exportAssessmentsUC := usecase.NewExportAssessments(listAssessmentsUC, spreadsheet.NewExporter(cfg.Engine.Locale))

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Secret:       cfg.Auth.JWTSecret,
		PublicKeyPEM: cfg.Auth.PublicKeyPEM,
		Issuer:       cfg.Auth.Issuer,
	})
	if err != nil {
		return fmt.Errorf("configure jwt: %w", err)
	}

	// gRPC server.
	grpcOpts := grpcpresentation.ServerOptions{
		Address:    cfg.GRPCAddr(),
		Reflection: cfg.GRPCReflection,
	}
	if cfg.TLS.Enabled() {
		grpcOpts.TLS, err = tlsutil.ServerConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			return fmt.Errorf("load tls certificate: %w", err)
		}
	}
	grpcHandler := grpcpresentation.NewCardioRiskHandler(computeRiskUC, assessRiskUC, getAssessmentUC, listAssessmentsUC, logger)
	grpcServer := grpcpresentation.NewServer(grpcHandler, grpcOpts, logger, jwtService)

	// HTTP server (health checks, metrics and REST API).
	httpMux := http.NewServeMux()
	rest.NewHealthHandler(logger, map[string]rest.Pinger{
		"database": rest.PingerFunc(func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) }),
	}).RegisterRoutes(httpMux)
	httpMux.Handle("GET /metrics", metricsHandler)
	rest.NewAssessmentHandler(rest.UseCases{
		ComputeRisk:       computeRiskUC,
		AssessRisk:        assessRiskUC,
		GetAssessment:     getAssessmentUC,
		ListAssessments:   listAssessmentsUC,
		ImportAssessments: importAssessmentsUC,
		ExportAssessments: exportAssessmentsUC,
	}, spreadsheet.ReadRows, logger).RegisterRoutes(httpMux)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      auth.HTTPMiddleware(jwtService, "/healthz", "/readyz", "/metrics")(httpMux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		TLSConfig:    grpcOpts.TLS,
	}

	// Start servers.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := grpcServer.Start(); err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddr())
		serve := httpServer.ListenAndServe
		if httpServer.TLSConfig != nil {
			serve = func() error { return httpServer.ListenAndServeTLS("", "") }
		}
		if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	if cfg.Kafka.ConsumerEnabled {
		measurements := infrakafka.NewMeasurementConsumer(assessRiskUC, logger)
		consumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.MeasurementsTopic, measurements.Handle, logger)
		if err != nil {
			return fmt.Errorf("create kafka consumer: %w", err)
		}
		defer consumer.Close()

		g.Go(func() error {
			if err := consumer.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("measurement consumer error: %w", err)
			}
			return nil
		})
	}

	logger.Info("cardio-risk service started",
		"grpc_address", cfg.GRPCAddr(),
		"http_address", cfg.HTTPAddr(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal or the first server failure.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down cardio-risk service")

		grpcServer.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		return nil
	})

	err = g.Wait()
	logger.Info("cardio-risk service stopped")
	return err
}
