package main

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/salesmanager/backend/internal/infrastructure/config"
	"github.com/salesmanager/backend/internal/infrastructure/logger"
	"github.com/salesmanager/backend/internal/infrastructure/migration"
	"github.com/salesmanager/backend/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrationsPath string
	logLevel       string
	log            *zap.Logger
)

// rootCmd is the migration tool entry point
var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "SalesManager database migration tool",
	Long: `Applies, rolls back and inspects the postgres schema migrations.

Migrations are read from the binary unless --path points to a directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(&logger.Config{
			Level:      logLevel,
			Format:     "console",
			Output:     "stdout",
			TimeFormat: "2006-01-02 15:04:05",
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		log = l
		return nil
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		return m.Up()
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		return m.Down()
	}),
}

var stepsCmd = &cobra.Command{
	Use:     "steps <n>",
	Aliases: []string{"step"},
	Short:   "Apply n migrations (positive = up, negative = down)",
	Args:    cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	}),
}

var gotoCmd = &cobra.Command{
	Use:   "goto <version>",
	Short: "Migrate up or down to a specific version",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.GoTo(uint(version))
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current migration version",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	}),
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the migration version without running migrations",
	Long:  "Repairs a dirty database after a failed migration. Use with caution.",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.Force(version)
	}),
}

var createCmd = &cobra.Command{
	Use:   "create <name> [description]",
	Short: "Create a new up/down migration file pair",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := migrationsPath
		if dir == "" {
			dir = "migrations"
		}
		var description string
		if len(args) > 1 {
			description = args[1]
		}

		mf, err := migration.CreateMigration(dir, args[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up", mf.UpPath),
			zap.String("down", mf.DownPath),
		)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var fsys fs.FS = migrations.FS
		if migrationsPath != "" {
			fsys = os.DirFS(migrationsPath)
		}
		list, err := migration.ListMigrations(fsys)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			log.Info("No migrations found")
			return nil
		}
		for _, m := range list {
			suffix := ""
			if !m.HasDown {
				suffix = " (no down migration)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s%s\n", m, suffix)
		}
		return nil
	},
}

// withMigrator opens the configured database and hands a migrator to run
func withMigrator(run func(m *migration.Migrator, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.Database.Driver != "postgres" {
			return fmt.Errorf("migrations run against postgres, database.driver is %q", cfg.Database.Driver)
		}

		src := migration.Source{FS: migrations.FS}
		if migrationsPath != "" {
			src = migration.Source{Path: migrationsPath}
		}

		m, err := migration.Open(cfg.Database.DSN(), cfg.Database.Schema, src, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				log.Warn("Failed to close migrator", zap.Error(err))
			}
		}()

		log.Info("Migration started",
			zap.String("command", cmd.Name()),
			zap.String("database", cfg.Database.DBName),
			zap.String("schema", cfg.Database.Schema),
			zap.String("source", sourceName(src)),
		)
		return run(m, args)
	}
}

func sourceName(src migration.Source) string {
	if src.Path != "" {
		return src.Path
	}
	return "embedded"
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "Migrations directory (default: migrations embedded in the binary)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(upCmd, downCmd, stepsCmd, gotoCmd, versionCmd, forceCmd, createCmd, listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
