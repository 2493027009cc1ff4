package templates

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu             sync.RWMutex
	nextID         int64
	nextScheduleID int64
	templates      map[int64]Template
	schedules      map[int64]Schedule
	now            func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		templates: make(map[int64]Template),
		schedules: make(map[int64]Schedule),
		now:       time.Now,
	}
}

func (r *MemoryRepo) List(ctx context.Context) ([]Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, r.withSchedules(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id int64) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	if !ok {
		return Template{}, ErrNotFound
	}
	return r.withSchedules(t), nil
}

func (r *MemoryRepo) Create(ctx context.Context, t Template) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := r.now().UTC()
	t.ID = r.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Schedules = nil
	r.templates[t.ID] = t
	return r.withSchedules(t), nil
}

func (r *MemoryRepo) Update(ctx context.Context, t Template) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.templates[t.ID]
	if !ok {
		return Template{}, ErrNotFound
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = r.now().UTC()
	t.Schedules = nil
	r.templates[t.ID] = t
	return r.withSchedules(t), nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[id]; !ok {
		return ErrNotFound
	}
	delete(r.templates, id)
	r.clear(id)
	return nil
}

func (r *MemoryRepo) GetSchedule(ctx context.Context, id int64) (Schedule, error) {
	if err := ctx.Err(); err != nil {
		return Schedule{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schedules[id]
	if !ok {
		return Schedule{}, ErrScheduleNotFound
	}
	return s, nil
}

func (r *MemoryRepo) CreateSchedule(ctx context.Context, s Schedule) (Schedule, error) {
	if err := ctx.Err(); err != nil {
		return Schedule{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[s.TemplateID]; !ok {
		return Schedule{}, ErrNotFound
	}
	r.nextScheduleID++
	now := r.now().UTC()
	s.ID = r.nextScheduleID
	s.CreatedAt = now
	s.UpdatedAt = now
	r.schedules[s.ID] = s
	return s, nil
}

func (r *MemoryRepo) UpdateSchedule(ctx context.Context, s Schedule) (Schedule, error) {
	if err := ctx.Err(); err != nil {
		return Schedule{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.schedules[s.ID]
	if !ok {
		return Schedule{}, ErrScheduleNotFound
	}
	s.TemplateID = existing.TemplateID
	s.CreatedAt = existing.CreatedAt
	s.UpdatedAt = r.now().UTC()
	r.schedules[s.ID] = s
	return s, nil
}

func (r *MemoryRepo) DeleteSchedule(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schedules[id]; !ok {
		return ErrScheduleNotFound
	}
	delete(r.schedules, id)
	return nil
}

func (r *MemoryRepo) ClearSchedules(ctx context.Context, templateID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clear(templateID)
	return nil
}

func (r *MemoryRepo) clear(templateID int64) {
	for id, s := range r.schedules {
		if s.TemplateID == templateID {
			delete(r.schedules, id)
		}
	}
}

func (r *MemoryRepo) withSchedules(t Template) Template {
	t.Schedules = []Schedule{}
	for _, s := range r.schedules {
		if s.TemplateID == t.ID {
			t.Schedules = append(t.Schedules, s)
		}
	}
	sortSchedules(t.Schedules)
	return t
}
