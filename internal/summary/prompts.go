package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/ayush/worklog/internal/models"
)

const dateLayout = "2006-01-02"

const weeklyTemplate = `You are a personal knowledge-management and life assistant.
Write a weekly review in Markdown for the entries the user recorded between %s and %s.

Entries:
%s

Structure:
1. Highlights: one sentence on the overall state of the week.
2. Knowledge and output: articles, notes and learning. Call out progress on any series.
3. Ideas: the thoughts worth keeping.
4. Life: a short note on balance.
5. Next week: brief, concrete suggestions.
`

const seriesTemplate = `The user has finished a long-running series called "%s".
Description: %s

Below are all the notes they recorded along the way. Acting as an editor, weave
them into one in-depth summary article rather than a list.

Notes:
%s

Requirements:
1. A compelling title.
2. Coherent prose that links the notes together.
3. The core ideas and how the user's thinking evolved.
4. Introduction, key points, notable excerpts if any, and a conclusion.
5. Markdown.
`

const suggestTemplate = `Classify the following content into exactly one of these categories: %s.
Content: %q
Answer with the category name only.
`

// itemLine renders one entry for the weekly prompt:
// "- [Work] 2025-03-10: [Title: t] content (40 min)".
func itemLine(item models.WorkItem, loc *time.Location) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- [%s] %s: ", item.Category, item.Date.In(loc).Format(dateLayout))
	if item.Title != "" {
		fmt.Fprintf(&sb, "[Title: %s] ", item.Title)
	}
	fmt.Fprintf(&sb, "%s (%d min)", item.Content, item.DurationMinutes)
	return sb.String()
}

// noteLine renders one entry for the series prompt, without category or duration.
func noteLine(item models.WorkItem, loc *time.Location) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- %s: ", item.Date.In(loc).Format(dateLayout))
	if item.Title != "" {
		fmt.Fprintf(&sb, "[Title: %s] ", item.Title)
	}
	sb.WriteString(item.Content)
	return sb.String()
}

func weeklyPrompt(items []models.WorkItem, start, end time.Time, loc *time.Location) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = itemLine(item, loc)
	}
	return fmt.Sprintf(weeklyTemplate,
		start.In(loc).Format(dateLayout), end.In(loc).Format(dateLayout), strings.Join(lines, "\n"))
}

func seriesPrompt(series models.Series, items []models.WorkItem, loc *time.Location) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = noteLine(item, loc)
	}
	return fmt.Sprintf(seriesTemplate, series.Title, series.Description, strings.Join(lines, "\n"))
}

func suggestPrompt(text string) string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return fmt.Sprintf(suggestTemplate, strings.Join(names, ", "), text)
}
