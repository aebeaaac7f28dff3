// Package summary turns journal entries into prompts for a language model
// and serves the generation proxy and report archive endpoints.
package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ayush/worklog/internal/apperr"
	"github.com/ayush/worklog/internal/models"
)

// DefaultModel is used when a caller does not name one.
const DefaultModel = "gemini-2.5-flash"

// Generator sends a prompt to a language model and returns its text.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Requester builds the fixed prompts and calls a Generator.
type Requester struct {
	gen   Generator
	model string
	loc   *time.Location
}

// NewRequester returns a Requester using model, or DefaultModel when empty.
// Dates in prompts are rendered in loc (time.Local when nil).
func NewRequester(gen Generator, model string, loc *time.Location) *Requester {
	if model == "" {
		model = DefaultModel
	}
	if loc == nil {
		loc = time.Local
	}
	return &Requester{gen: gen, model: model, loc: loc}
}

// WeeklyReport asks for a review of items recorded between start and end.
// An empty item list fails with ErrNoContent before anything is sent.
func (r *Requester) WeeklyReport(ctx context.Context, items []models.WorkItem, start, end time.Time) (string, error) {
	if len(items) == 0 {
		return "", apperr.ErrNoContent
	}
	return r.generate(ctx, weeklyPrompt(items, start, end, r.loc))
}

// SeriesConclusion asks for a summary article over the series' items,
// presented oldest first.
func (r *Requester) SeriesConclusion(ctx context.Context, series models.Series, items []models.WorkItem) (string, error) {
	if len(items) == 0 {
		return "", apperr.ErrNoContent
	}
	sorted := make([]models.WorkItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	return r.generate(ctx, seriesPrompt(series, sorted, r.loc))
}

// SuggestCategory asks the model to classify text. It never fails: any
// error or unrecognised answer yields CategoryOther.
func (r *Requester) SuggestCategory(ctx context.Context, text string) models.Category {
	answer, err := r.gen.Generate(ctx, r.model, suggestPrompt(text))
	if err != nil {
		return models.CategoryOther
	}
	answer = strings.Trim(strings.TrimSpace(answer), ".\"'`*")
	if c, ok := models.ParseCategory(answer); ok {
		return c
	}
	return models.CategoryOther
}

func (r *Requester) generate(ctx context.Context, prompt string) (string, error) {
	text, err := r.gen.Generate(ctx, r.model, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperr.ErrGenerationFailed, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", apperr.ErrGenerationFailed)
	}
	return text, nil
}
