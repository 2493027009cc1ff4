package calendars

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("calendar not found")
	ErrInvalidInput = errors.New("invalid calendar input")
)

type Repo interface {
	Create(ctx context.Context, cal Calendar) (Calendar, error)
	Get(ctx context.Context, id int64) (Calendar, error)
	ListByUser(ctx context.Context, userID string) ([]Calendar, error)
}
