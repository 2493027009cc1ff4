package dates

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("date entry not found")
	ErrInvalidInput = errors.New("invalid date entry input")
)

type Repo interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	Update(ctx context.Context, entry Entry) (Entry, error)
	Get(ctx context.Context, id int64) (Entry, error)
	// ListByRange returns the calendar's entries owned by userID with
	// start <= scheduled_date <= end, ascending by scheduled date.
	ListByRange(ctx context.Context, calendarID int64, start, end time.Time, userID string) ([]Entry, error)
	AddModelResult(ctx context.Context, result ModelResult) (ModelResult, error)
}
