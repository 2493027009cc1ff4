package feedback

import (
	"time"

	"acen-backend/internal/evaluator"
)

// Category classifies generated feedback.
type Category string

const (
	CategoryRoutine   Category = "routine"
	CategoryAttention Category = "attention"
	CategoryMaintain  Category = "maintain"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryRoutine, CategoryAttention, CategoryMaintain:
		return true
	}
	return false
}

// Feedback is a persisted narrative attached to a date entry.
type Feedback struct {
	ID            int64        `json:"id"`
	DateID        int64        `json:"dateId"`
	Title         string       `json:"title"`
	Summary       string       `json:"summary,omitempty"`
	Category      Category     `json:"category,omitempty"`
	SeverityScore *float64     `json:"severityScore"`
	Advice        string       `json:"advice,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	Suggestions   []Suggestion `json:"suggestions"`
}

// Suggestion links feedback to a catalog product.
type Suggestion struct {
	ID         int64     `json:"id"`
	FeedbackID int64     `json:"feedbackId"`
	ProductID  int64     `json:"productId"`
	Reason     string    `json:"reason,omitempty"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Result is the outcome of one generation call.
type Result struct {
	Metrics       evaluator.Metrics `json:"metrics"`
	FeedbackID    int64             `json:"feedbackId"`
	SuggestionIDs []int64           `json:"suggestionIds"`
}
