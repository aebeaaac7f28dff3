package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/ayush/worklog/internal/models"
	"github.com/ayush/worklog/internal/stats"
)

// Stats prints the dashboard numbers for all items.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.backend(ctx)
	if err != nil {
		return err
	}
	st := cache.Stats(r.now(), r.loc)
	if cmd.Bool("json") {
		return r.writeJSON(st)
	}

	r.writePlain("Total: %d min\n\nBy category:\n", st.TotalMinutes)
	for _, c := range st.Categories {
		r.writePlain("  %-9s %5d min\n", c.Category, c.Minutes)
	}
	r.writePlain("\nBy weekday:\n")
	for _, d := range st.Weekdays {
		r.writePlain("  %-9s %5d min\n", d.Weekday, d.Minutes)
	}

	active := 0
	for _, d := range st.Activity {
		if d.Count > 0 {
			active++
		}
	}
	return r.writePlain("\nActive days in the last %d weeks: %d\n", len(st.Activity)/7, active)
}

// WeeklyReport generates a review of the week containing --date.
func (r *Runner) WeeklyReport(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.backend(ctx)
	if err != nil {
		return err
	}
	req, err := r.requester(cmd)
	if err != nil {
		return err
	}
	day, err := r.parseDate(cmd.String("date"))
	if err != nil {
		return err
	}

	start, end := stats.WeekBounds(day, r.loc)
	text, err := req.WeeklyReport(ctx, stats.InRange(cache.Items(), start, end), start, end)
	if err != nil {
		return err
	}
	return r.emitReport(ctx, cmd, "weekly-review-"+start.Format("2006-01-02"), text)
}

// emitReport prints text and archives it under name when --archive is set.
func (r *Runner) emitReport(ctx context.Context, cmd *cli.Command, name, text string) error {
	if err := r.writePlain("%s\n", text); err != nil {
		return err
	}
	if !cmd.Bool("archive") {
		return nil
	}
	remote, err := r.remoteClient()
	if err != nil {
		return err
	}
	stored, err := remote.ArchiveReport(ctx, name, text)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	r.logger.Info("report archived", "name", stored)
	return nil
}

// ListReports prints the archived reports.
func (r *Runner) ListReports(ctx context.Context, cmd *cli.Command) error {
	remote, err := r.remoteClient()
	if err != nil {
		return err
	}
	reports, err := remote.ListReports(ctx)
	if err != nil {
		return err
	}
	for _, rep := range reports {
		r.writePlain("%s  %6d B  %s\n", rep.LastModified.In(r.loc).Format(time.DateTime), rep.Size, rep.Name)
	}
	return nil
}

// ShowReport prints one archived report.
func (r *Runner) ShowReport(ctx context.Context, cmd *cli.Command) error {
	remote, err := r.remoteClient()
	if err != nil {
		return err
	}
	data, err := remote.DownloadReport(ctx, cmd.StringArg("name"))
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// DeleteReport removes an archived report.
func (r *Runner) DeleteReport(ctx context.Context, cmd *cli.Command) error {
	remote, err := r.remoteClient()
	if err != nil {
		return err
	}
	name := cmd.StringArg("name")
	if err := remote.DeleteReport(ctx, name); err != nil {
		return err
	}
	return r.writePlain("deleted report %s\n", name)
}

// Suggest prints the category the model picks for the given text.
func (r *Runner) Suggest(ctx context.Context, cmd *cli.Command) error {
	return r.writePlain("%s\n", r.suggest(ctx, cmd, cmd.StringArg("text")))
}

// suggest falls back to Other when no server is available.
func (r *Runner) suggest(ctx context.Context, cmd *cli.Command, text string) models.Category {
	req, err := r.requester(cmd)
	if err != nil {
		r.logger.Debug("no server for category suggestion", "err", err)
		return models.CategoryOther
	}
	return req.SuggestCategory(ctx, text)
}

func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show totals by category and weekday, and recent activity",
		Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output JSON"}},
		Action: r.Stats,
	}
}

func reportCommand(r *Runner) *cli.Command {
	nameArg := []cli.Argument{&cli.StringArg{Name: "name"}}
	return &cli.Command{
		Name:  "report",
		Usage: "Generate and browse AI reports",
		Commands: []*cli.Command{
			{
				Name:  "weekly",
				Usage: "Generate a weekly review",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Any day of the week to review (default today)"},
					&cli.BoolFlag{Name: "archive", Usage: "Store the review on the server"},
					modelFlag(),
				},
				Action: r.WeeklyReport,
			},
			{
				Name:   "list",
				Usage:  "List archived reports",
				Action: r.ListReports,
			},
			{
				Name:      "show",
				Usage:     "Print an archived report",
				Arguments: nameArg,
				Action:    r.ShowReport,
			},
			{
				Name:      "rm",
				Usage:     "Delete an archived report",
				Arguments: nameArg,
				Action:    r.DeleteReport,
			},
		},
	}
}

func suggestCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Suggest a category for a piece of text",
		Arguments: []cli.Argument{&cli.StringArg{Name: "text"}},
		Flags:     []cli.Flag{modelFlag()},
		Action:    r.Suggest,
	}
}
