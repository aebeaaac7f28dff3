package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/ayush/worklog/internal/models"
	"github.com/ayush/worklog/internal/stats"
)

// AddSeries starts a new active series.
func (r *Runner) AddSeries(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.backend(ctx)
	if err != nil {
		return err
	}
	series := models.Series{
		ID:          uuid.NewString(),
		Title:       cmd.String("title"),
		Description: cmd.String("description"),
		Status:      models.SeriesActive,
		CreatedAt:   r.now(),
	}
	if err := cache.SaveSeries(ctx, series); err != nil {
		return err
	}
	return r.writePlain("started series %s\n", series.ID)
}

// ListSeries prints every series with its item count.
func (r *Runner) ListSeries(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.backend(ctx)
	if err != nil {
		return err
	}
	all := cache.Series()
	if cmd.Bool("json") {
		return r.writeJSON(all)
	}
	items := cache.Items()
	for _, s := range all {
		r.writePlain("%-9s %s  (%d items, since %s)  [%s]\n",
			s.Status, s.Title, len(stats.BySeries(items, s.ID)), s.CreatedAt.In(r.loc).Format("2006-01-02"), s.ID)
	}
	return nil
}

// CompleteSeries marks a series completed and, with --conclude, asks the
// model for a summary article over its items.
func (r *Runner) CompleteSeries(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.backend(ctx)
	if err != nil {
		return err
	}
	series, err := cache.CompleteSeries(ctx, cmd.StringArg("id"), r.now())
	if err != nil {
		return err
	}
	r.writePlain("completed %s\n", series.Title)

	if !cmd.Bool("conclude") {
		return nil
	}
	return r.conclude(ctx, cmd, series)
}

// ReopenSeries sets a completed series back to active.
func (r *Runner) ReopenSeries(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.backend(ctx)
	if err != nil {
		return err
	}
	series, ok := cache.FindSeries(cmd.StringArg("id"))
	if !ok {
		return fmt.Errorf("series %s not found", cmd.StringArg("id"))
	}
	series.Status = models.SeriesActive
	series.CompletedAt = nil
	if err := cache.SaveSeries(ctx, series); err != nil {
		return err
	}
	return r.writePlain("reopened %s\n", series.Title)
}

// ConcludeSeries generates the summary article for a series.
func (r *Runner) ConcludeSeries(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.backend(ctx)
	if err != nil {
		return err
	}
	series, ok := cache.FindSeries(cmd.StringArg("id"))
	if !ok {
		return fmt.Errorf("series %s not found", cmd.StringArg("id"))
	}
	return r.conclude(ctx, cmd, series)
}

func (r *Runner) conclude(ctx context.Context, cmd *cli.Command, series models.Series) error {
	req, err := r.requester(cmd)
	if err != nil {
		return err
	}
	text, err := req.SeriesConclusion(ctx, series, stats.BySeries(r.cache.Items(), series.ID))
	if err != nil {
		return err
	}
	return r.emitReport(ctx, cmd, seriesReportName(series), text)
}

// seriesReportName leads with the id so that titles the archive cannot
// spell, or long ones cut at the length limit, still get their own report.
func seriesReportName(series models.Series) string {
	return "series-" + series.ID + "-" + series.Title
}

// DeleteSeries removes a series; its items keep their link.
func (r *Runner) DeleteSeries(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.backend(ctx)
	if err != nil {
		return err
	}
	id := cmd.StringArg("id")
	if err := cache.DeleteSeries(ctx, id); err != nil {
		return err
	}
	return r.writePlain("deleted series %s\n", id)
}

func seriesCommand(r *Runner) *cli.Command {
	idArg := []cli.Argument{&cli.StringArg{Name: "id"}}
	reportFlags := func() []cli.Flag {
		return []cli.Flag{
			modelFlag(),
			&cli.BoolFlag{Name: "archive", Usage: "Store the generated text on the server"},
		}
	}

	return &cli.Command{
		Name:  "series",
		Usage: "Group work items under long-running topics",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Start a series",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}},
				},
				Action: r.AddSeries,
			},
			{
				Name:   "list",
				Usage:  "List series, newest first",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output JSON"}},
				Action: r.ListSeries,
			},
			{
				Name:      "complete",
				Usage:     "Mark a series completed",
				Arguments: idArg,
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "conclude", Usage: "Generate a summary article"},
				}, reportFlags()...),
				Action: r.CompleteSeries,
			},
			{
				Name:      "reopen",
				Usage:     "Set a completed series back to active",
				Arguments: idArg,
				Action:    r.ReopenSeries,
			},
			{
				Name:      "conclude",
				Usage:     "Generate a summary article for a series",
				Arguments: idArg,
				Flags:     reportFlags(),
				Action:    r.ConcludeSeries,
			},
			{
				Name:      "rm",
				Usage:     "Delete a series (its items are kept)",
				Arguments: idArg,
				Action:    r.DeleteSeries,
			},
		},
	}
}
