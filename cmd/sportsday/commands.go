package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/Black-And-White-Club/sportsday/app"
	entryservice "github.com/Black-And-White-Club/sportsday/app/modules/entry/application"
	registrydb "github.com/Black-And-White-Club/sportsday/app/modules/registry/infrastructure/repositories"
	"github.com/Black-And-White-Club/sportsday/app/shared/dateinput"
	"github.com/Black-And-White-Club/sportsday/app/shared/httpx"
	"github.com/urfave/cli/v2"
)

type tabular interface {
	Columns() []string
	Values() []any
}

func writeTable[R tabular](w io.Writer, rows []R) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	var zero R
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(zero.Columns(), "\t")))
	for _, row := range rows {
		vals := row.Values()
		cells := make([]string, len(vals))
		for i, v := range vals {
			cells[i] = formatCell(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func formatCell(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.2f", f)
	}
	return fmt.Sprint(v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var jsonFlag = &cli.BoolFlag{Name: "json", Usage: "print JSON instead of a table"}

func newStandingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print school standings",
		Flags: []cli.Flag{jsonFlag},
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				rows, err := a.Modules.Standings.Service.SchoolStandings(ctx)
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return writeJSON(c.App.Writer, rows)
				}
				return writeTable(c.App.Writer, rows)
			})
		},
	}
}

func newEventResultsCommand() *cli.Command {
	return &cli.Command{
		Name:  "event-results",
		Usage: "print every recorded result",
		Flags: []cli.Flag{jsonFlag},
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				rows, err := a.Modules.Standings.Service.EventResults(ctx)
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return writeJSON(c.App.Writer, rows)
				}
				return writeTable(c.App.Writer, rows)
			})
		},
	}
}

// writeFileAtomically renders into a temp file next to path and renames it
// into place once render succeeds.
func writeFileAtomically(path string, render func(w io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".sportsday-*")
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	tmp := f.Name()
	if err := render(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write output: %w", err)
	}
	return os.Rename(tmp, path)
}

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "export standings and results to an Excel workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "sportsday.xlsx", Usage: "output file"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				out := c.String("out")
				if err := writeFileAtomically(out, func(w io.Writer) error {
					return a.Modules.Standings.Service.ExportXLSX(ctx, w)
				}); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Wrote %s\n", out)
				return nil
			})
		},
	}
}

func newChartCommand() *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "render school points as a PNG bar chart",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "standings.png", Usage: "output file"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				out := c.String("out")
				if err := writeFileAtomically(out, func(w io.Writer) error {
					return a.Modules.Standings.Service.StandingsChart(ctx, w)
				}); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Wrote %s\n", out)
				return nil
			})
		},
	}
}

func newRegisterCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "register a participant for an event",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "event", Required: true},
			&cli.Int64Flag{Name: "participant", Required: true},
			&cli.StringFlag{
				Name:  "date",
				Usage: `registration date, e.g. "2024-05-01", "today" or "next monday" (default today)`,
			},
		},
		Action: func(c *cli.Context) error {
			var date registrydb.Date
			if s := c.String("date"); s != "" {
				t, err := dateinput.NewParser().Parse(s)
				if err != nil {
					return err
				}
				date = registrydb.DateOf(t)
			}
			return withApp(c, func(ctx context.Context, a *app.App) error {
				ep, err := a.Modules.Entry.Service.RegisterForEvent(ctx, c.Int64("event"), c.Int64("participant"), date)
				if err != nil {
					return err
				}
				return writeJSON(c.App.Writer, ep)
			})
		},
	}
}

func newRecordResultCommand() *cli.Command {
	return &cli.Command{
		Name:  "record-result",
		Usage: "record a result for a registered participant",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "event", Required: true},
			&cli.Int64Flag{Name: "participant", Required: true},
			&cli.Int64Flag{Name: "category", Required: true},
			&cli.StringFlag{Name: "time", Required: true, Usage: "H:MM:SS with optional fraction"},
			&cli.IntFlag{Name: "points"},
			&cli.IntFlag{Name: "place"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				res, err := a.Modules.Entry.Service.RecordResult(ctx, entryservice.ResultInput{
					EventID:       c.Int64("event"),
					ParticipantID: c.Int64("participant"),
					CategoryID:    c.Int64("category"),
					Time:          c.String("time"),
					Points:        c.Int("points"),
					Place:         c.Int("place"),
				})
				if err != nil {
					return err
				}
				return writeJSON(c.App.Writer, res)
			})
		},
	}
}

func newTokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue an API bearer token for a teacher",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "teacher", Required: true},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime (default from config)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("jwt secret is not configured (set jwt.secret or JWT_SECRET)")
			}
			ttl := c.Duration("ttl")
			if ttl <= 0 {
				ttl = cfg.JWT.DefaultTTL
			}
			token, err := httpx.NewTokens(cfg.JWT.Secret, cfg.JWT.Issuer).Issue(c.Int64("teacher"), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}

func newSeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "create the default schools when the store has none",
		Action: func(c *cli.Context) error {
			return withApp(c, func(ctx context.Context, a *app.App) error {
				created, err := a.Modules.Registry.Service.SeedSchools(ctx)
				if err != nil {
					return err
				}
				if len(created) == 0 {
					fmt.Fprintln(c.App.Writer, "Schools already present, nothing seeded")
					return nil
				}
				for _, s := range created {
					fmt.Fprintf(c.App.Writer, "Seeded school %d: %s\n", s.ID, s.Name)
				}
				return nil
			})
		},
	}
}
