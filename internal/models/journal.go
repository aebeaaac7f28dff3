package models

import (
	"strings"
	"time"
)

// Category classifies a work item.
type Category string

const (
	CategoryArticle  Category = "Article"
	CategoryNote     Category = "Note"
	CategoryIdea     Category = "Idea"
	CategoryLife     Category = "Life"
	CategoryWork     Category = "Work"
	CategoryLearning Category = "Learning"
	CategoryOther    Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryArticle,
	CategoryNote,
	CategoryIdea,
	CategoryLife,
	CategoryWork,
	CategoryLearning,
	CategoryOther,
}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// OrOther returns c when it is a known category and CategoryOther otherwise.
func (c Category) OrOther() Category {
	if parsed, ok := ParseCategory(string(c)); ok {
		return parsed
	}
	return CategoryOther
}

// WorkItem is a single dated journal entry. ID is assigned by the client
// before the first save and is unique per user only.
type WorkItem struct {
	ID              string    `json:"id"                 bson:"id"`
	UserID          string    `json:"-"                  bson:"user_id"`
	Title           string    `json:"title,omitempty"    bson:"title,omitempty"`
	Content         string    `json:"content"            bson:"content"`
	Category        Category  `json:"category"           bson:"category"`
	Date            time.Time `json:"date"               bson:"date"`
	DurationMinutes int       `json:"durationMinutes"    bson:"durationMinutes"`
	SeriesID        string    `json:"seriesId,omitempty" bson:"seriesId,omitempty"`
	CreatedAt       time.Time `json:"-"                  bson:"created_at"`
	UpdatedAt       time.Time `json:"-"                  bson:"updated_at"`
}

// SeriesStatus is the lifecycle state of a Series.
type SeriesStatus string

const (
	SeriesActive    SeriesStatus = "active"
	SeriesCompleted SeriesStatus = "completed"
)

// Series groups work items under a long-running topic. Work items reference
// a series through SeriesID without any referential integrity: deleting a
// series leaves its items untouched.
type Series struct {
	ID          string       `json:"id"                    bson:"id"`
	UserID      string       `json:"-"                     bson:"user_id"`
	Title       string       `json:"title"                 bson:"title"`
	Description string       `json:"description"           bson:"description"`
	Status      SeriesStatus `json:"status"                bson:"status"`
	CreatedAt   time.Time    `json:"createdAt"             bson:"startDate"`
	CompletedAt *time.Time   `json:"completedAt,omitempty" bson:"endDate,omitempty"`
	UpdatedAt   time.Time    `json:"-"                     bson:"updated_at"`
}

// Complete marks the series completed at now. Nothing prevents a caller
// from setting the status back to active afterwards.
func (s *Series) Complete(now time.Time) {
	s.Status = SeriesCompleted
	s.CompletedAt = &now
}

// GenerateRequest is the JSON body for POST /api/generate.
type GenerateRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
}

// GenerateResponse is returned by POST /api/generate.
type GenerateResponse struct {
	Text string `json:"text"`
}

// ArchiveRequest is the JSON body for POST /api/reports.
type ArchiveRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// ReportObject describes one archived report.
type ReportObject struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}
