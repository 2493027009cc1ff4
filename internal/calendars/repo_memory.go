package calendars

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu        sync.RWMutex
	nextID    int64
	calendars map[int64]Calendar
	now       func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{calendars: make(map[int64]Calendar), now: time.Now}
}

func (r *MemoryRepo) Create(ctx context.Context, cal Calendar) (Calendar, error) {
	if err := ctx.Err(); err != nil {
		return Calendar{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cal.ID = r.nextID
	cal.CreatedAt = r.now().UTC()
	r.calendars[cal.ID] = cal
	return cal, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id int64) (Calendar, error) {
	if err := ctx.Err(); err != nil {
		return Calendar{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cal, ok := r.calendars[id]
	if !ok {
		return Calendar{}, ErrNotFound
	}
	return cal, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Calendar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Calendar
	for id := int64(1); id <= r.nextID; id++ {
		if cal, ok := r.calendars[id]; ok && cal.UserID == userID {
			out = append(out, cal)
		}
	}
	return out, nil
}
