package dates

import (
	"time"
)

// DateLayout is the wire format for scheduled dates.
const DateLayout = "2006-01-02"

// Entry is one day's routine log within a calendar.
type Entry struct {
	ID              int64     `json:"id"`
	CalendarID      int64     `json:"calendarId"`
	UserID          string    `json:"userId"`
	ScheduledDate   time.Time `json:"-"`
	CompletionRatio float64   `json:"completionRatio"`
	ScheduleDone    int       `json:"scheduleDone"`
	ScheduleTotal   int       `json:"scheduleTotal"`
	Notes           string    `json:"notes,omitempty"`
	TemplateID      *int64    `json:"templateId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`

	// ModelResultCount is the number of model results attached to the entry.
	ModelResultCount int `json:"modelResultCount"`
	// FeedbackSeverities holds the non-null severity scores of feedback attached to the entry.
	FeedbackSeverities []float64 `json:"-"`
}

// ModelResult is an output recorded by an analysis model for a date entry.
type ModelResult struct {
	ID         int64     `json:"id"`
	DateID     int64     `json:"dateId"`
	ResultType string    `json:"resultType"`
	Label      string    `json:"label,omitempty"`
	Score      *float64  `json:"score,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CompletionRatio returns done/total clamped to [0, 1], or 0 when total is not positive.
func CompletionRatio(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	ratio := float64(done) / float64(total)
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, raw, time.UTC)
}

// Day truncates t to UTC midnight of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
