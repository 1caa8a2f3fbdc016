package main

import (
	"fmt"
	"strings"

	auditmigrations "github.com/Black-And-White-Club/sportsday/app/modules/audit/infrastructure/repositories/migrations"
	registrymigrations "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

type moduleMigrator struct {
	name     string
	migrator *migrate.Migrator
}

// newMigrators returns one migrator per module in dependency order. Each
// module tracks its migrations in its own tables.
func newMigrators(db *bun.DB) []moduleMigrator {
	mk := func(name string, ms *migrate.Migrations) moduleMigrator {
		return moduleMigrator{
			name: name,
			migrator: migrate.NewMigrator(db, ms,
				migrate.WithTableName(name+"_migrations"),
				migrate.WithLocksTableName(name+"_migration_locks"),
			),
		}
	}
	return []moduleMigrator{
		mk("registry", registrymigrations.Migrations),
		mk("audit", auditmigrations.Migrations),
	}
}

func findMigrator(migrators []moduleMigrator, name string) (*migrate.Migrator, error) {
	for _, m := range migrators {
		if m.name == name {
			return m.migrator, nil
		}
	}
	return nil, fmt.Errorf("invalid module name: %q", name)
}

func newMigrateCommand() *cli.Command {
	each := func(fn func(c *cli.Context, m moduleMigrator) error, reverse bool) cli.ActionFunc {
		return func(c *cli.Context) error {
			return withDB(c, func(db *bun.DB) error {
				migrators := newMigrators(db)
				for i := range migrators {
					m := migrators[i]
					if reverse {
						m = migrators[len(migrators)-1-i]
					}
					if err := fn(c, m); err != nil {
						return fmt.Errorf("module %s: %w", m.name, err)
					}
				}
				return nil
			})
		}
	}

	create := func(fn func(c *cli.Context, m *migrate.Migrator, name string) ([]*migrate.MigrationFile, error)) cli.ActionFunc {
		return func(c *cli.Context) error {
			moduleName := c.Args().First()
			name := strings.Join(c.Args().Tail(), "_")
			if name == "" {
				return fmt.Errorf("usage: %s <module> <name>", c.Command.Name)
			}
			return withDB(c, func(db *bun.DB) error {
				migrator, err := findMigrator(newMigrators(db), moduleName)
				if err != nil {
					return err
				}
				files, err := fn(c, migrator, name)
				if err != nil {
					return err
				}
				for _, mf := range files {
					fmt.Fprintf(c.App.Writer, "Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
				}
				return nil
			})
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: each(func(c *cli.Context, m moduleMigrator) error {
					fmt.Fprintf(c.App.Writer, "Initializing migrations for module: %s\n", m.name)
					return m.migrator.Init(c.Context)
				}, false),
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: each(func(c *cli.Context, m moduleMigrator) error {
					if err := m.migrator.Lock(c.Context); err != nil {
						return err
					}
					defer m.migrator.Unlock(c.Context) //nolint:errcheck

					group, err := m.migrator.Migrate(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Fprintf(c.App.Writer, "No new migrations to run for module: %s\n", m.name)
					} else {
						fmt.Fprintf(c.App.Writer, "Migrated module: %s to %s\n", m.name, group)
					}
					return nil
				}, false),
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: each(func(c *cli.Context, m moduleMigrator) error {
					if err := m.migrator.Lock(c.Context); err != nil {
						return err
					}
					defer m.migrator.Unlock(c.Context) //nolint:errcheck

					group, err := m.migrator.Rollback(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Fprintf(c.App.Writer, "No groups to roll back for module: %s\n", m.name)
					} else {
						fmt.Fprintf(c.App.Writer, "Rolled back module: %s to %s\n", m.name, group)
					}
					return nil
				}, true),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: each(func(c *cli.Context, m moduleMigrator) error {
					ms, err := m.migrator.MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Migrations for module: %s\n", m.name)
					fmt.Fprintf(c.App.Writer, "  %s\n", ms)
					fmt.Fprintf(c.App.Writer, "  Applied: %s\n", ms.Applied())
					fmt.Fprintf(c.App.Writer, "  Unapplied: %s\n", ms.Unapplied())
					return nil
				}, false),
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name>",
				Action: create(func(c *cli.Context, m *migrate.Migrator, name string) ([]*migrate.MigrationFile, error) {
					mf, err := m.CreateGoMigration(c.Context, name)
					if err != nil {
						return nil, err
					}
					return []*migrate.MigrationFile{mf}, nil
				}),
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "<module> <name>",
				Action: create(func(c *cli.Context, m *migrate.Migrator, name string) ([]*migrate.MigrationFile, error) {
					return m.CreateSQLMigrations(c.Context, name)
				}),
			},
		},
	}
}
