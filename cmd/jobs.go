package cmd

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/edukasiku/ms-go-premium/app/repository"
	"github.com/edukasiku/ms-go-premium/app/service"
	"github.com/edukasiku/ms-go-premium/config"

	_ "github.com/go-sql-driver/mysql"
)

var stalePendingWorker bool

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Run operational ledger jobs",
}

var reportStalePendingCmd = &cobra.Command{
	Use:   "report-stale-pending",
	Short: "Report PENDING transactions that never reached a terminal state",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, reportService, cleanup := mustCreateReportService()
		defer cleanup()

		if stalePendingWorker {
			runWorker("report_stale_pending", cfg.Jobs.StaleReportInterval, func(ctx context.Context) error {
				return reportService.RunStalePendingReport(ctx)
			})
			return
		}

		runJob("report_stale_pending", func() error {
			return reportService.RunStalePendingReport(context.Background())
		})
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(reportStalePendingCmd)

	reportStalePendingCmd.Flags().BoolVar(&stalePendingWorker, "worker", false, "Run continuously using configured interval")
}

func mustCreateReportService() (*config.Config, *service.LedgerReportService, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	reportService := service.NewLedgerReportService(repository.NewTransactionRepository(db), cfg.Jobs)

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, reportService, cleanup
}

func runWorker(name string, interval time.Duration, fn func(ctx context.Context) error) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(ctx) })
		}
	}
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
