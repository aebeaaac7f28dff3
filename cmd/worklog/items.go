package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/ayush/worklog/internal/models"
	"github.com/ayush/worklog/internal/stats"
)

// AddItem records a new work item. Without --category the server-side model
// suggests one.
func (r *Runner) AddItem(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.backend(ctx)
	if err != nil {
		return err
	}
	date, err := r.parseDate(cmd.String("date"))
	if err != nil {
		return err
	}

	item := models.WorkItem{
		ID:              uuid.NewString(),
		Title:           cmd.String("title"),
		Content:         cmd.String("content"),
		Category:        models.Category(cmd.String("category")),
		Date:            date,
		DurationMinutes: int(cmd.Int("minutes")),
		SeriesID:        cmd.String("series"),
	}
	if item.Category == "" {
		item.Category = r.suggest(ctx, cmd, item.Content)
	}

	if err := cache.SaveItem(ctx, item); err != nil {
		return err
	}
	return r.writePlain("saved %s [%s]\n", item.ID, item.Category.OrOther())
}

// EditItem overwrites the fields given on the command line.
func (r *Runner) EditItem(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.backend(ctx)
	if err != nil {
		return err
	}
	id := cmd.StringArg("id")
	var item *models.WorkItem
	for _, it := range cache.Items() {
		if it.ID == id {
			item = &it
			break
		}
	}
	if item == nil {
		return fmt.Errorf("item %s not found", id)
	}

	if cmd.IsSet("title") {
		item.Title = cmd.String("title")
	}
	if cmd.IsSet("content") {
		item.Content = cmd.String("content")
	}
	if cmd.IsSet("category") {
		item.Category = models.Category(cmd.String("category"))
	}
	if cmd.IsSet("minutes") {
		item.DurationMinutes = int(cmd.Int("minutes"))
	}
	if cmd.IsSet("series") {
		item.SeriesID = cmd.String("series")
	}
	if cmd.IsSet("date") {
		if item.Date, err = r.parseDate(cmd.String("date")); err != nil {
			return err
		}
	}

	if err := cache.SaveItem(ctx, *item); err != nil {
		return err
	}
	return r.writePlain("updated %s\n", id)
}

// ListItems prints items, optionally filtered.
func (r *Runner) ListItems(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.backend(ctx)
	if err != nil {
		return err
	}
	items := stats.Search(cache.Items(), cmd.String("search"))
	if id := cmd.String("series"); id != "" {
		items = stats.BySeries(items, id)
	}
	if cmd.Bool("json") {
		return r.writeJSON(items)
	}
	for _, it := range items {
		title := ""
		if it.Title != "" {
			title = it.Title + ": "
		}
		r.writePlain("%s  %-8s %s%s (%d min)  [%s]\n",
			it.Date.In(r.loc).Format("2006-01-02"), it.Category, title, oneLine(it.Content), it.DurationMinutes, it.ID)
	}
	return nil
}

// DeleteItem removes an item. Unknown ids are not an error.
func (r *Runner) DeleteItem(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.backend(ctx)
	if err != nil {
		return err
	}
	id := cmd.StringArg("id")
	if err := cache.DeleteItem(ctx, id); err != nil {
		return err
	}
	return r.writePlain("deleted %s\n", id)
}

func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) > 80 {
		return string([]rune(s)[:77]) + "..."
	}
	return s
}

func itemFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Entry text (Markdown)", Required: required},
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}},
		&cli.StringFlag{Name: "category", Usage: "Article, Note, Idea, Life, Work, Learning or Other"},
		&cli.IntFlag{Name: "minutes", Aliases: []string{"m"}, Usage: "Time spent"},
		&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "YYYY-MM-DD (default today)"},
		&cli.StringFlag{Name: "series", Aliases: []string{"s"}, Usage: "Series id to link"},
		modelFlag(),
	}
}

func itemCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "item",
		Aliases: []string{"items"},
		Usage:   "Record and browse work items",
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Record a work item",
				Flags:  itemFlags(true),
				Action: r.AddItem,
			},
			{
				Name:      "edit",
				Usage:     "Change fields of a work item",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     itemFlags(false),
				Action:    r.EditItem,
			},
			{
				Name:  "list",
				Usage: "List work items, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "Match content, title or category"},
					&cli.StringFlag{Name: "series", Aliases: []string{"s"}, Usage: "Only items in this series"},
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: r.ListItems,
			},
			{
				Name:      "rm",
				Usage:     "Delete a work item",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.DeleteItem,
			},
		},
	}
}
