package templates

import (
	"context"
	"errors"
)

var (
	ErrNotFound         = errors.New("template not found")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrInvalidInput     = errors.New("invalid template input")
)

// Repo stores templates and their schedules. Template reads include the
// schedules, sorted.
type Repo interface {
	List(ctx context.Context) ([]Template, error)
	Get(ctx context.Context, id int64) (Template, error)
	Create(ctx context.Context, t Template) (Template, error)
	Update(ctx context.Context, t Template) (Template, error)
	Delete(ctx context.Context, id int64) error

	GetSchedule(ctx context.Context, id int64) (Schedule, error)
	CreateSchedule(ctx context.Context, s Schedule) (Schedule, error)
	UpdateSchedule(ctx context.Context, s Schedule) (Schedule, error)
	DeleteSchedule(ctx context.Context, id int64) error
	// ClearSchedules removes every schedule of templateID.
	ClearSchedules(ctx context.Context, templateID int64) error
}
