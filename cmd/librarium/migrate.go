// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Librarium Contributors

package main

import (
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/librarium/librarium/internal/store"
)

// NewMigrateCmd creates the migrate command and its subcommands. Without a
// subcommand it applies all pending migrations.
func NewMigrateCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back and inspect the PostgreSQL schema migrations.`,
		RunE:  withMigrator(deps, runMigrateUp),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE:  withMigrator(deps, runMigrateUp),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(deps, func(cmd *cobra.Command, m Migrator, _ []string) error {
			if err := m.Down(); err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", "down").Wrap(err)
			}
			cmd.Println("All migrations rolled back")
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "steps N",
		Short: "Apply N migrations, or roll back when N is negative",
		Args:  cobra.ExactArgs(1),
		RunE: withMigrator(deps, func(cmd *cobra.Command, m Migrator, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return oops.Code("INVALID_ARGUMENT").With("steps", args[0]).Wrap(err)
			}
			if err := m.Steps(n); err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", "steps").With("steps", n).Wrap(err)
			}
			return printVersion(cmd, m)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current schema version",
		Args:  cobra.NoArgs,
		RunE: withMigrator(deps, func(cmd *cobra.Command, m Migrator, _ []string) error {
			return printVersion(cmd, m)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Set the schema version without running migrations, clearing the dirty flag",
		Args:  cobra.ExactArgs(1),
		RunE: withMigrator(deps, func(cmd *cobra.Command, m Migrator, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return oops.Code("INVALID_ARGUMENT").With("version", args[0]).Wrap(err)
			}
			if err := m.Force(v); err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", "force").With("version", v).Wrap(err)
			}
			cmd.Printf("Forced schema version to %d\n", v)
			return nil
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE:  withMigrator(deps, runMigrateStatus),
	})

	return cmd
}

type migratorRunE func(cmd *cobra.Command, m Migrator, args []string) error

// withMigrator loads the configuration, opens a migrator and closes it after fn.
func withMigrator(deps *Deps, fn migratorRunE) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		d := deps.withDefaults()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.ValidateDatabase(); err != nil {
			return err
		}

		m, err := d.MigratorFactory(cfg.Database.URL)
		if err != nil {
			return oops.Code("MIGRATION_INIT_FAILED").With("operation", "create migrator").Wrap(err)
		}
		defer func() {
			if closeErr := m.Close(); closeErr != nil && err == nil {
				err = oops.Code("MIGRATION_CLOSE_FAILED").Wrap(closeErr)
			}
		}()

		return fn(cmd, m, args)
	}
}

func runMigrateUp(cmd *cobra.Command, m Migrator, _ []string) error {
	pending, err := m.PendingMigrations()
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "list pending").Wrap(err)
	}
	if len(pending) == 0 {
		cmd.Println("No pending migrations")
		return nil
	}

	cmd.Printf("Applying %d migration(s)...\n", len(pending))
	if err := m.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "up").Wrap(err)
	}
	cmd.Println("Migrations completed successfully")
	return printVersion(cmd, m)
}

func runMigrateStatus(cmd *cobra.Command, m Migrator, _ []string) error {
	if err := printVersion(cmd, m); err != nil {
		return err
	}

	applied, err := m.AppliedMigrations()
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "list applied").Wrap(err)
	}
	pending, err := m.PendingMigrations()
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "list pending").Wrap(err)
	}

	for _, v := range applied {
		cmd.Printf("  [applied] %s\n", migrationLabel(v))
	}
	for _, v := range pending {
		cmd.Printf("  [pending] %s\n", migrationLabel(v))
	}
	return nil
}

func printVersion(cmd *cobra.Command, m Migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "version").Wrap(err)
	}
	if dirty {
		cmd.Printf("Schema version: %d (dirty)\n", v)
		return nil
	}
	cmd.Printf("Schema version: %d\n", v)
	return nil
}

func migrationLabel(v uint) string {
	name, err := store.MigrationName(v)
	if err != nil || name == "" {
		return strconv.FormatUint(uint64(v), 10)
	}
	return name
}
