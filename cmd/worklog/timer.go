package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/ayush/worklog/internal/models"
	"github.com/ayush/worklog/internal/timer"
)

// Timer runs the stopwatch in the foreground. Enter pauses and resumes,
// "s" followed by Enter stops. With --content the session is saved as a
// work item.
func (r *Runner) Timer(ctx context.Context, cmd *cli.Command) error {
	sw := timer.New(nil)
	sw.Start()
	defer sw.Stop()

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines := make(chan string)
	go readLines(readCtx, os.Stdin, lines)

	display := time.NewTicker(time.Second)
	defer display.Stop()

	r.writePlain("timer running: Enter pauses/resumes, s+Enter stops\n")
loop:
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-display.C:
			state := "running"
			if !sw.Running() {
				state = "paused "
			}
			r.writePlain("\r%s %s", state, timer.Format(sw.Elapsed()))
		case line, ok := <-lines:
			if !ok || line == "s" {
				break loop
			}
			sw.Toggle()
		}
	}
	sw.Stop()

	minutes := sw.Resolve(int(cmd.Int("minutes")))
	r.writePlain("\nelapsed %s, %d min\n", timer.Format(sw.Elapsed()), minutes)

	content := cmd.String("content")
	if content == "" {
		return nil
	}
	cache, err := r.backend(ctx)
	if err != nil {
		return err
	}
	item := models.WorkItem{
		ID:              uuid.NewString(),
		Title:           cmd.String("title"),
		Content:         content,
		Category:        models.Category(cmd.String("category")),
		Date:            r.now(),
		DurationMinutes: minutes,
		SeriesID:        cmd.String("series"),
	}
	if item.Category == "" {
		item.Category = r.suggest(ctx, cmd, content)
	}
	if err := cache.SaveItem(ctx, item); err != nil {
		return err
	}
	return r.writePlain("saved %s [%s]\n", item.ID, item.Category.OrOther())
}

// readLines forwards lines from in until it ends or ctx is done.
func readLines(ctx context.Context, in io.Reader, out chan<- string) {
	defer close(out)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		select {
		case out <- sc.Text():
		case <-ctx.Done():
			return
		}
	}
}

func timerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "timer",
		Usage: "Time a work session and optionally record it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "Save the session as an item with this text"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}},
			&cli.StringFlag{Name: "category"},
			&cli.StringFlag{Name: "series", Aliases: []string{"s"}},
			&cli.IntFlag{Name: "minutes", Aliases: []string{"m"}, Usage: "Duration to use if the timer never ran"},
			modelFlag(),
		},
		Action: r.Timer,
	}
}
