package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/bibbank/cardiorisk/internal/application/usecase"
	"github.com/bibbank/cardiorisk/internal/domain/service"
	"github.com/bibbank/cardiorisk/internal/infrastructure/config"
	infrakafka "github.com/bibbank/cardiorisk/internal/infrastructure/kafka"
	"github.com/bibbank/cardiorisk/internal/infrastructure/postgres"
	pkgkafka "github.com/bibbank/cardiorisk/pkg/kafka"
	"github.com/bibbank/cardiorisk/pkg/observability"
	pkgpostgres "github.com/bibbank/cardiorisk/pkg/postgres"
)

// app carries what every subcommand shares. It is filled in before any
// subcommand runs.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var verbose bool

	root := &cobra.Command{
		Use:           "cardioctl",
		Short:         "Operate the cardiovascular risk service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := "warn"
			if verbose {
				level = "debug"
			}
			a.cfg = cfg
			a.logger = observability.InitLogger(observability.LogConfig{
				Output:      cmd.ErrOrStderr(),
				Level:       level,
				Format:      "text",
				ServiceName: "cardioctl",
				Environment: cfg.Environment,
			})
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newScoreCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newMigrateCmd(a),
		newTokenCmd(a),
		newCertsCmd(),
	)
	return root
}

// connect opens the database pool described by the configuration.
func (a *app) connect(ctx context.Context) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pkgpostgres.NewPool(ctx, a.cfg.DB.Postgres())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}

// services holds use cases backed by real storage. close releases them.
type services struct {
	assess *usecase.AssessRisk
	list   *usecase.ListAssessments
	close  func()
}

func (a *app) services(ctx context.Context) (*services, error) {
	pool, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:       a.cfg.Kafka.Brokers,
		TLS:           a.cfg.Kafka.TLS,
		SASLEnabled:   a.cfg.Kafka.SASLUsername != "",
		SASLMechanism: a.cfg.Kafka.SASLMechanism,
		SASLUsername:  a.cfg.Kafka.SASLUsername,
		SASLPassword:  a.cfg.Kafka.SASLPassword,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	repo := postgres.NewAssessmentRepository(pool)
	publisher := infrakafka.NewPublisher(producer, a.cfg.Kafka.EventsTopic, a.logger)
	return &services{
		assess: usecase.NewAssessRisk(repo, publisher, service.NewDecisionEngine(), nil),
		list:   usecase.NewListAssessments(repo),
		close: func() {
			_ = producer.Close()
			pool.Close()
		},
	}, nil
}

func parseTenant(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("--tenant must be a non-nil UUID")
	}
	return id, nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
