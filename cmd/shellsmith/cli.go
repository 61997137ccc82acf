package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"shellsmith/internal/config"
	"shellsmith/internal/errors"
	"shellsmith/internal/export"
	"shellsmith/internal/journal"
	"shellsmith/internal/params"
	"shellsmith/internal/report"
	"shellsmith/internal/shell"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "shellsmith",
		Usage:   "Parametric two-piece tablet shell generator",
		Version: Version,
		Commands: []*cli.Command{
			generateCmd(db, cfg),
			validateCmd(),
			reportCmd(db),
			runsCmd(db),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// loadParams reads the parameter file when given, or falls back to the
// built-in defaults.
func loadParams(path string) (*params.Params, error) {
	if path == "" {
		p := params.Default()
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return p, nil
	}
	return params.Load(path)
}

// generateCmd creates the generate command.
func generateCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate both shell halves, journal the run, and optionally export STL files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "params", Aliases: []string{"p"}, Usage: "Parameter file (.json/.yaml), defaults applied underneath"},
			&cli.Float64Flag{Name: "resolution", Aliases: []string{"r"}, Usage: "Sampling grid spacing in mm (default: configured sample resolution)"},
			&cli.BoolFlag{Name: "export", Aliases: []string{"e"}, Usage: "Write both halves as binary STL files"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Export directory (default: ~/.shellsmith/exports)"},
		},
		Action: func(c *cli.Context) error {
			p, err := loadParams(c.String("params"))
			if err != nil {
				return outputError(err)
			}

			res := c.Float64("resolution")
			if res <= 0 && cfg != nil {
				res = cfg.SampleResolutionMM
			}

			started := time.Now()
			result, genErr := shell.Generate(c.Context, p, res)
			duration := time.Since(started).Milliseconds()

			runID := recordRun(c.Context, db, p, result, genErr, duration)
			if genErr != nil {
				return outputError(genErr)
			}

			summary := map[string]any{
				"run_id":      runID,
				"params_hash": result.ParamsHash,
				"left":        bodySummary(result.Left),
				"right":       bodySummary(result.Right),
				"duration_ms": duration,
			}
			if len(result.Warnings) > 0 {
				summary["warnings"] = result.Warnings
			}

			if c.Bool("export") {
				var exports []*export.Output
				for _, body := range []shell.Body{result.Left, result.Right} {
					path := ""
					if dir := c.String("out"); dir != "" {
						path = filepath.Join(dir, export.SanitizeForFilename(body.Name)+".stl")
					}
					out, err := export.Export(c.Context, cfg, export.Input{Path: path, Body: body})
					if err != nil {
						return outputError(err)
					}
					exports = append(exports, out)
				}
				summary["exports"] = exports
			}

			return outputJSON(summary)
		},
	}
}

func bodySummary(b shell.Body) map[string]any {
	size := b.Bounds.Size()
	return map[string]any{
		"name":       b.Name,
		"volume_mm3": b.VolumeMM3,
		"size_mm":    []float64{size.X, size.Y, size.Z},
	}
}

// recordRun journals the run, successful or not. A journal failure never
// fails the generation.
func recordRun(ctx context.Context, db *sql.DB, p *params.Params, result *shell.Result, genErr error, durationMS int64) string {
	if db == nil {
		return ""
	}

	paramsJSON, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	run := &journal.Run{
		ParamsHash: p.Hash(),
		ParamsJSON: string(paramsJSON),
		DurationMS: durationMS,
	}
	if genErr != nil {
		run.Status = journal.StatusError
		run.ErrorMessage = genErr.Error()
		if sErr, ok := genErr.(*errors.ShellError); ok {
			run.ErrorCode = string(sErr.Code)
			run.ErrorMessage = sErr.Message
		}
	} else {
		run.Status = journal.StatusOK
		lv, rv := result.Left.VolumeMM3, result.Right.VolumeMM3
		run.LeftVolumeMM3 = &lv
		run.RightVolumeMM3 = &rv
		run.Warnings = result.Warnings
	}

	if err := journal.Record(ctx, db, run); err != nil {
		return ""
	}
	return run.ID
}

// validateCmd creates the validate command.
func validateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Validate a parameter file without generating geometry",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "params", Aliases: []string{"p"}, Usage: "Parameter file (.json/.yaml)"},
		},
		Action: func(c *cli.Context) error {
			p, err := loadParams(c.String("params"))
			if err != nil {
				if sErr, ok := err.(*errors.ShellError); ok && sErr.Code == errors.ErrConfiguration {
					return outputJSON(map[string]any{"valid": false, "reason": sErr.Message})
				}
				return outputError(err)
			}

			return outputJSON(map[string]any{
				"valid":       true,
				"params_hash": p.Hash(),
				"outer_mm":    []float64{p.OuterWidth(), p.OuterHeight(), p.TotalHeight()},
			})
		},
	}
}

// reportCmd creates the report command.
func reportCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Render the build sheet for a parameter file or a journaled run",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "params", Aliases: []string{"p"}, Usage: "Parameter file (.json/.yaml)"},
			&cli.StringFlag{Name: "run", Usage: "Journaled run ID; uses that run's recorded parameters"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "markdown", Usage: "Output format: markdown|html"},
		},
		Action: func(c *cli.Context) error {
			var p *params.Params
			if id := c.String("run"); id != "" {
				run, err := journal.Get(c.Context, db, id)
				if err != nil {
					return outputError(err)
				}
				p = params.Default()
				if err := json.Unmarshal([]byte(run.ParamsJSON), p); err != nil {
					return outputError(errors.NewInternal(err))
				}
			} else {
				var err error
				p, err = loadParams(c.String("params"))
				if err != nil {
					return outputError(err)
				}
			}

			in := report.Input{Params: p, At: time.Now()}
			switch c.String("format") {
			case "markdown":
				fmt.Fprintln(c.App.Writer, report.Markdown(in))
			case "html":
				html, err := report.HTML(in)
				if err != nil {
					return outputError(err)
				}
				fmt.Fprintln(c.App.Writer, html)
			default:
				return outputError(errors.NewInvalidRequest("format must be markdown or html"))
			}
			return nil
		},
	}
}

// runsCmd creates the runs command group.
func runsCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "Inspect and prune the run journal",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List journaled runs, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum runs to return"},
					&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Runs to skip"},
					&cli.StringFlag{Name: "hash", Usage: "Only runs of this parameter set hash"},
				},
				Action: func(c *cli.Context) error {
					out, err := journal.List(c.Context, db, journal.ListInput{
						Limit:      c.Int("limit"),
						Offset:     c.Int("offset"),
						ParamsHash: c.String("hash"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(out)
				},
			},
			{
				Name:      "show",
				Usage:     "Show one journaled run",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return outputError(errors.NewInvalidRequest("run id is required"))
					}
					run, err := journal.Get(c.Context, db, c.Args().First())
					if err != nil {
						return outputError(err)
					}
					return outputJSON(run)
				},
			},
			{
				Name:  "purge",
				Usage: "Delete journaled runs",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "older-than", Usage: "Only purge runs older than N days (e.g., 30d)"},
					&cli.BoolFlag{Name: "all", Usage: "Delete all runs"},
				},
				Action: func(c *cli.Context) error {
					input := journal.PurgeInput{All: c.Bool("all")}
					if olderThan := c.String("older-than"); olderThan != "" {
						days, err := parseDuration(olderThan)
						if err != nil {
							return outputError(errors.NewInvalidRequest(err.Error()))
						}
						input.OlderThanDays = days
					}

					out, err := journal.Purge(c.Context, db, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(out)
				},
			},
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := err.(*errors.ShellError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseDuration parses "30d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 30d")
}
