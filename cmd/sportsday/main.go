package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/sportsday/app"
	"github.com/Black-And-White-Club/sportsday/app/database"
	auditservice "github.com/Black-And-White-Club/sportsday/app/modules/audit/application"
	"github.com/Black-And-White-Club/sportsday/app/shared/observability"
	"github.com/Black-And-White-Club/sportsday/config"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCLI(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCLI(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "sportsday",
		Usage:     "school sports day records",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"SPORTSDAY_CONFIG"},
			},
			&cli.Int64Flag{
				Name:  "actor",
				Usage: "teacher id recorded as the actor of audited changes",
			},
		},
		Commands: []*cli.Command{
			newServeCommand(),
			newMigrateCommand(),
			newSeedCommand(),
			newStandingsCommand(),
			newEventResultsCommand(),
			newExportCommand(),
			newChartCommand(),
			newRegisterCommand(),
			newRecordResultCommand(),
			newTokenCommand(),
		},
	}
}

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				return a.Run(ctx)
			})
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// withApp runs fn against a fully wired application. The --actor flag is
// attached to the context so audited changes name the operator.
func withApp(c *cli.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := observability.NewLogger(c.App.ErrWriter, cfg.Log.Level, cfg.Log.Format)

	a, err := app.NewApp(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := c.Context
	if actor := c.Int64("actor"); actor > 0 {
		ctx = auditservice.WithActor(ctx, actor)
	}
	return fn(ctx, a)
}

// withDB runs fn against a bare database handle.
func withDB(c *cli.Context, fn func(db *bun.DB) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	db, err := database.Open(c.Context, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}
