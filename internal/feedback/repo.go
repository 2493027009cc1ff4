package feedback

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("feedback not found")

type Repo interface {
	CreateFeedback(ctx context.Context, fb Feedback) (Feedback, error)
	CreateSuggestion(ctx context.Context, s Suggestion) (Suggestion, error)
	GetFeedback(ctx context.Context, id int64) (Feedback, error)
	// ListByDate returns the date's feedback ascending by id, suggestions attached.
	ListByDate(ctx context.Context, dateID int64) ([]Feedback, error)
	// ListSuggestions returns a feedback's suggestions ascending by id. A positive limit caps the result.
	ListSuggestions(ctx context.Context, feedbackID int64, limit int) ([]Suggestion, error)
}
