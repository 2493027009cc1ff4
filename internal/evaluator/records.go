package evaluator

import (
	"context"
	"errors"
	"time"

	"acen-backend/internal/calendars"
	"acen-backend/internal/dates"
)

var (
	// ErrInvalidRange is returned when the query start is after its end.
	ErrInvalidRange = errors.New("start must not be after end")
	// ErrCalendarNotAccessible is returned when the calendar is missing or owned by someone else.
	ErrCalendarNotAccessible = errors.New("calendar not accessible")
)

// CalendarStore resolves calendars by id.
type CalendarStore interface {
	Get(ctx context.Context, id int64) (calendars.Calendar, error)
}

// EntryStore lists a calendar's date entries owned by a user, ascending by date.
type EntryStore interface {
	ListByRange(ctx context.Context, calendarID int64, start, end time.Time, userID string) ([]dates.Entry, error)
}

// LoadEntries checks calendar ownership and returns the entries in the query range.
// Store errors are returned unchanged.
func LoadEntries(ctx context.Context, cals CalendarStore, entries EntryStore, q Query) ([]dates.Entry, error) {
	if q.Start.After(q.End) {
		return nil, ErrInvalidRange
	}
	cal, err := cals.Get(ctx, q.CalendarID)
	if err != nil {
		if errors.Is(err, calendars.ErrNotFound) {
			return nil, ErrCalendarNotAccessible
		}
		return nil, err
	}
	if cal.UserID != q.UserID {
		return nil, ErrCalendarNotAccessible
	}
	return entries.ListByRange(ctx, q.CalendarID, q.Start, q.End, q.UserID)
}

// Records projects date entries into aggregator input.
func Records(entries []dates.Entry) []DailyRecord {
	out := make([]DailyRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, DailyRecord{
			ScheduledDate:   e.ScheduledDate,
			CompletionRatio: e.CompletionRatio,
			ModelCount:      e.ModelResultCount,
			SeverityScore:   mean(e.FeedbackSeverities),
		})
	}
	return out
}

func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return floatPtr(sum / float64(len(values)))
}
