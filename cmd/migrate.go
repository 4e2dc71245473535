package cmd

import (
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/edukasiku/ms-go-premium/config"

	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

var migrationsPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|goto <version>|version]",
	Short: "Run database schema migrations",
	Args:  cobra.MinimumNArgs(1),
	Run:   runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&migrationsPath, "path", "migrations", "Path to the migration files")
}

func runMigrate(_ *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	m, err := migrate.New("file://"+migrationsPath, "mysql://"+cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize migrations")
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			logrus.WithFields(logrus.Fields{"source_err": sourceErr, "db_err": dbErr}).Warn("Failed to close migration resources")
		}
	}()

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			logrus.WithError(err).Fatal("Migration up failed")
		} else if err == migrate.ErrNoChange {
			logrus.Info("Database is already up to date")
		} else {
			logrus.Info("Migrations applied")
		}
	case "down":
		if err := m.Steps(-1); err != nil {
			logrus.WithError(err).Fatal("Migration down failed")
		}
		logrus.Info("Rolled back one migration")
	case "goto":
		if len(args) < 2 {
			logrus.Fatal("goto requires a version number")
		}
		version, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			logrus.WithError(err).Fatal("Invalid version number")
		}
		if err := m.Migrate(uint(version)); err != nil && err != migrate.ErrNoChange {
			logrus.WithError(err).Fatal("Migration goto failed")
		}
		logrus.WithField("version", version).Info("Migrated to version")
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			logrus.WithError(err).Fatal("Failed to read migration version")
		}
		logrus.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("Current migration version")
	default:
		logrus.WithField("command", args[0]).Fatal("Unknown migrate command")
	}
}
