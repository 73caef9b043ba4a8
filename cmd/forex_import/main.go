package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/forex_import_job/internal/adapters/feed"
	"github.com/SscSPs/forex_import_job/internal/adapters/notification"
	portsrepo "github.com/SscSPs/forex_import_job/internal/core/ports/repositories"
	"github.com/SscSPs/forex_import_job/internal/core/services"
	"github.com/SscSPs/forex_import_job/internal/logging"
	"github.com/SscSPs/forex_import_job/internal/metrics"
	"github.com/SscSPs/forex_import_job/internal/platform/config"
	pgsqlrepo "github.com/SscSPs/forex_import_job/internal/repositories/database/pgsql"
	sqliterepo "github.com/SscSPs/forex_import_job/internal/repositories/database/sqlite"
	"github.com/SscSPs/forex_import_job/internal/utils/erpformat"
	"github.com/SscSPs/forex_import_job/pkg/database"
)

func main() {
	command := "run"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "encode":
		os.Exit(encodeCommand(os.Args[2:]))
	case "run", "migrate":
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", command)
		usage()
		os.Exit(2)
	}

	// Bootstrap logger until the configured level is known.
	logger := logging.NewLogger(os.Stdout, "info")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = logging.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if command == "migrate" {
		if err := migrate(cfg, logger); err != nil {
			logger.Error("Migration failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if err := runJob(ctx, cfg, logger); err != nil {
		stop()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: forex_import [command]")
	fmt.Fprintln(os.Stderr, "  run            fetch the feeds and load the ERP exchange-rate table (default)")
	fmt.Fprintln(os.Stderr, "  encode <rate>  print the ERP encodings of a rate")
	fmt.Fprintln(os.Stderr, "  migrate        apply the development schema (postgres only)")
}

func migrate(cfg *config.Config, logger *slog.Logger) error {
	if cfg.DBDriver != config.DriverPostgres {
		return fmt.Errorf("migrations are only available for %s, DB_DRIVER is %s", config.DriverPostgres, cfg.DBDriver)
	}
	return database.RunMigrations(cfg.DatabaseURL, logger)
}

func runJob(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	notifier := notification.NewNotifier(cfg, logger)

	if cfg.MigrateOnStart {
		if err := migrate(cfg, logger); err != nil {
			logger.Error("Migration failed", slog.String("error", err.Error()))
			_ = notifier.SendFailure(context.WithoutCancel(ctx), err.Error())
			return err
		}
	}

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open the ERP store", slog.String("error", err.Error()))
		_ = notifier.SendFailure(context.WithoutCancel(ctx), err.Error())
		return err
	}
	defer func() {
		if cerr := repos.Closer.Close(); cerr != nil {
			logger.Error("Error closing the ERP store", slog.String("error", cerr.Error()))
		}
	}()

	feedClient := feed.NewHTTPFeedClient(cfg.FeedURLs, cfg.FeedTimeout)
	container := services.NewServiceContainer(cfg, repos, feedClient, notifier, metrics.NewJobMetrics(), logger)

	_, err = container.Job.Execute(ctx)
	return err
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.DatabaseURL)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		repos, err := sqliterepo.NewRepositoryProvider(ctx, db, cfg.JDETable)
		if err != nil {
			_ = db.Close()
			return portsrepo.RepositoryProvider{}, err
		}
		logger.Info("Using SQLite store", slog.String("path", cfg.DatabaseURL))
		return repos, nil
	default:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		return pgsqlrepo.NewRepositoryProvider(pool, pgsqlrepo.TableConfig{
			Library:       cfg.JDELibrary,
			Table:         cfg.JDETable,
			ProcStatement: cfg.JDEProc,
		}), nil
	}
}

func encodeCommand(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: forex_import encode <rate>")
		return 2
	}

	encoded, err := erpformat.EncodeRateString(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	reciprocal, err := erpformat.EncodeReciprocal(encoded)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("rate:        %s\n", encoded)
	fmt.Printf("reciprocal:  %s\n", reciprocal)
	fmt.Printf("julian date: %d\n", erpformat.ToLegacyJulian(time.Now()))
	return 0
}
