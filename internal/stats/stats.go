// Package stats derives dashboard statistics from a user's work items.
// Every function is pure and recomputes from the slice it is given.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/ayush/worklog/internal/models"
)

// ActivityWindow is how far back the activity heatmap reaches.
const ActivityWindow = 112 * 24 * time.Hour

// DayCount is the number of items recorded on one calendar day.
type DayCount struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// CategoryTotal is the minutes spent in one category.
type CategoryTotal struct {
	Category models.Category `json:"category"`
	Minutes  int             `json:"minutes"`
}

// WeekdayTotal is the minutes recorded on one day of the week.
type WeekdayTotal struct {
	Weekday time.Weekday `json:"weekday"`
	Minutes int          `json:"minutes"`
}

// Stats bundles everything the dashboard shows.
type Stats struct {
	TotalMinutes int             `json:"totalMinutes"`
	Categories   []CategoryTotal `json:"categories"`
	Weekdays     []WeekdayTotal  `json:"weekdays"`
	Activity     []DayCount      `json:"activity"`
}

// Compute recomputes all statistics for items as of now.
func Compute(items []models.WorkItem, now time.Time, loc *time.Location) Stats {
	return Stats{
		TotalMinutes: TotalMinutes(items),
		Categories:   Categories(items),
		Weekdays:     Weekdays(items, loc),
		Activity:     Activity(items, now, loc),
	}
}

// TotalMinutes sums the duration of every item.
func TotalMinutes(items []models.WorkItem) int {
	total := 0
	for _, item := range items {
		total += item.DurationMinutes
	}
	return total
}

// Categories sums minutes per category. Categories with a zero total are
// left out. Known categories come first in their fixed order, followed by
// any unknown ones sorted by name.
func Categories(items []models.WorkItem) []CategoryTotal {
	sums := make(map[models.Category]int)
	for _, item := range items {
		sums[item.Category] += item.DurationMinutes
	}

	out := []CategoryTotal{}
	for _, c := range models.Categories {
		if sums[c] > 0 {
			out = append(out, CategoryTotal{Category: c, Minutes: sums[c]})
		}
		delete(sums, c)
	}

	var extra []models.Category
	for c, minutes := range sums {
		if minutes > 0 {
			extra = append(extra, c)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, c := range extra {
		out = append(out, CategoryTotal{Category: c, Minutes: sums[c]})
	}
	return out
}

// Weekdays sums minutes per day of the week, Sunday first. All seven
// buckets are always present.
func Weekdays(items []models.WorkItem, loc *time.Location) []WeekdayTotal {
	loc = orLocal(loc)
	out := make([]WeekdayTotal, 7)
	for i := range out {
		out[i].Weekday = time.Weekday(i)
	}
	for _, item := range items {
		out[item.Date.In(loc).Weekday()].Minutes += item.DurationMinutes
	}
	return out
}

// Activity counts items per calendar day from the Monday of the week that
// contains now-ActivityWindow through the Sunday of the current week.
// Every day in the window is present, oldest first.
func Activity(items []models.WorkItem, now time.Time, loc *time.Location) []DayCount {
	loc = orLocal(loc)
	first, _ := WeekBounds(now.Add(-ActivityWindow), loc)
	_, end := WeekBounds(now, loc)

	counts := make(map[string]int)
	for _, item := range items {
		counts[dayKey(item.Date, loc)]++
	}

	var out []DayCount
	for day := first; !day.After(end); day = day.AddDate(0, 0, 1) {
		out = append(out, DayCount{Day: day, Count: counts[dayKey(day, loc)]})
	}
	return out
}

// WeekBounds returns Monday 00:00 and Sunday 23:59:59.999999999 of the
// week containing t, in loc.
func WeekBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(orLocal(loc))
	offset := (int(t.Weekday()) + 6) % 7
	start := time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// InRange returns the items dated within [start, end].
func InRange(items []models.WorkItem, start, end time.Time) []models.WorkItem {
	out := []models.WorkItem{}
	for _, item := range items {
		if !item.Date.Before(start) && !item.Date.After(end) {
			out = append(out, item)
		}
	}
	return out
}

// BySeries returns the items linked to seriesID.
func BySeries(items []models.WorkItem, seriesID string) []models.WorkItem {
	out := []models.WorkItem{}
	for _, item := range items {
		if item.SeriesID == seriesID {
			out = append(out, item)
		}
	}
	return out
}

// Search matches query case-insensitively against content, title and
// category name. An empty query matches everything.
func Search(items []models.WorkItem, query string) []models.WorkItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	out := []models.WorkItem{}
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Content), query) ||
			strings.Contains(strings.ToLower(item.Title), query) ||
			strings.Contains(strings.ToLower(string(item.Category)), query) {
			out = append(out, item)
		}
	}
	return out
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
