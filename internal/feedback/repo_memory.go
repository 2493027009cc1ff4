package feedback

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	state memoryState
	now   func() time.Time
}

type memoryState struct {
	nextFeedbackID   int64
	nextSuggestionID int64
	feedback         []Feedback
	suggestions      []Suggestion
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{now: time.Now}
}

func (r *MemoryRepo) CreateFeedback(ctx context.Context, fb Feedback) (Feedback, error) {
	if err := ctx.Err(); err != nil {
		return Feedback{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.nextFeedbackID++
	fb.ID = r.state.nextFeedbackID
	fb.CreatedAt = r.now().UTC()
	fb.Suggestions = nil
	r.state.feedback = append(r.state.feedback, fb)
	return fb, nil
}

func (r *MemoryRepo) CreateSuggestion(ctx context.Context, s Suggestion) (Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return Suggestion{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.findFeedback(s.FeedbackID); !ok {
		return Suggestion{}, ErrNotFound
	}
	r.state.nextSuggestionID++
	s.ID = r.state.nextSuggestionID
	s.CreatedAt = r.now().UTC()
	r.state.suggestions = append(r.state.suggestions, s)
	return s, nil
}

func (r *MemoryRepo) GetFeedback(ctx context.Context, id int64) (Feedback, error) {
	if err := ctx.Err(); err != nil {
		return Feedback{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fb, ok := r.findFeedback(id)
	if !ok {
		return Feedback{}, ErrNotFound
	}
	fb.Suggestions = r.suggestionsFor(id, 0)
	return fb, nil
}

func (r *MemoryRepo) ListByDate(ctx context.Context, dateID int64) ([]Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Feedback
	for _, fb := range r.state.feedback {
		if fb.DateID == dateID {
			fb.Suggestions = r.suggestionsFor(fb.ID, 0)
			out = append(out, fb)
		}
	}
	return out, nil
}

func (r *MemoryRepo) ListSuggestions(ctx context.Context, feedbackID int64, limit int) ([]Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.suggestionsFor(feedbackID, limit), nil
}

// SeveritiesForDate returns the non-null severity scores of a date's feedback, ascending by id.
func (r *MemoryRepo) SeveritiesForDate(dateID int64) []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []float64
	for _, fb := range r.state.feedback {
		if fb.DateID == dateID && fb.SeverityScore != nil {
			out = append(out, *fb.SeverityScore)
		}
	}
	return out
}

func (r *MemoryRepo) snapshot() memoryState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.state
	s.feedback = append([]Feedback(nil), r.state.feedback...)
	s.suggestions = append([]Suggestion(nil), r.state.suggestions...)
	return s
}

// stage returns a detached copy of r for a unit of work.
func (r *MemoryRepo) stage() *MemoryRepo {
	return &MemoryRepo{state: r.snapshot(), now: r.now}
}

func (r *MemoryRepo) restore(s memoryState) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *MemoryRepo) findFeedback(id int64) (Feedback, bool) {
	for _, fb := range r.state.feedback {
		if fb.ID == id {
			return fb, true
		}
	}
	return Feedback{}, false
}

func (r *MemoryRepo) suggestionsFor(feedbackID int64, limit int) []Suggestion {
	out := []Suggestion{}
	for _, s := range r.state.suggestions {
		if s.FeedbackID != feedbackID {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
