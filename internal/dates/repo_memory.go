package dates

import (
	"context"
	"sort"
	"sync"
	"time"
)

// SeveritySource reports the feedback severities recorded for a date entry.
type SeveritySource interface {
	SeveritiesForDate(dateID int64) []float64
}

type MemoryRepo struct {
	mu           sync.RWMutex
	nextID       int64
	nextResultID int64
	entries      map[int64]Entry
	results      map[int64][]ModelResult
	now          func() time.Time

	// Severities supplies FeedbackSeverities for listed entries. Nil means none.
	Severities SeveritySource
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		entries: make(map[int64]Entry),
		results: make(map[int64][]ModelResult),
		now:     time.Now,
	}
}

func (r *MemoryRepo) Create(ctx context.Context, entry Entry) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entry.ID = r.nextID
	entry.ScheduledDate = Day(entry.ScheduledDate)
	entry.CreatedAt = r.now().UTC()
	entry.ModelResultCount = 0
	entry.FeedbackSeverities = nil
	r.entries[entry.ID] = entry
	return entry, nil
}

func (r *MemoryRepo) Update(ctx context.Context, entry Entry) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.entries[entry.ID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	existing.CompletionRatio = entry.CompletionRatio
	existing.ScheduleDone = entry.ScheduleDone
	existing.ScheduleTotal = entry.ScheduleTotal
	existing.Notes = entry.Notes
	existing.TemplateID = entry.TemplateID
	r.entries[entry.ID] = existing
	return r.hydrate(existing), nil
}

func (r *MemoryRepo) Get(ctx context.Context, id int64) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return r.hydrate(entry), nil
}

func (r *MemoryRepo) ListByRange(ctx context.Context, calendarID int64, start, end time.Time, userID string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start, end = Day(start), Day(end)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Entry
	for _, entry := range r.entries {
		if entry.CalendarID != calendarID || entry.UserID != userID {
			continue
		}
		if entry.ScheduledDate.Before(start) || entry.ScheduledDate.After(end) {
			continue
		}
		out = append(out, r.hydrate(entry))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledDate.Equal(out[j].ScheduledDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].ScheduledDate.Before(out[j].ScheduledDate)
	})
	return out, nil
}

func (r *MemoryRepo) AddModelResult(ctx context.Context, result ModelResult) (ModelResult, error) {
	if err := ctx.Err(); err != nil {
		return ModelResult{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[result.DateID]; !ok {
		return ModelResult{}, ErrNotFound
	}
	r.nextResultID++
	result.ID = r.nextResultID
	result.CreatedAt = r.now().UTC()
	r.results[result.DateID] = append(r.results[result.DateID], result)
	return result, nil
}

// DetachTemplate clears the template reference of every entry based on templateID.
func (r *MemoryRepo) DetachTemplate(ctx context.Context, templateID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, entry := range r.entries {
		if entry.TemplateID != nil && *entry.TemplateID == templateID {
			entry.TemplateID = nil
			r.entries[id] = entry
		}
	}
	return nil
}

func (r *MemoryRepo) hydrate(entry Entry) Entry {
	entry.ModelResultCount = len(r.results[entry.ID])
	if r.Severities != nil {
		entry.FeedbackSeverities = r.Severities.SeveritiesForDate(entry.ID)
	}
	return entry
}
