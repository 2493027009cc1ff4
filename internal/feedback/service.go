package feedback

import (
	"context"
	"errors"
	"time"

	"acen-backend/internal/dates"
	"acen-backend/internal/evaluator"
	"acen-backend/internal/shared/metrics"
	"acen-backend/internal/shared/telemetry"
)

// DateLookup resolves date entries for ownership checks.
type DateLookup interface {
	Get(ctx context.Context, id int64) (dates.Entry, error)
}

type Service struct {
	Tx      TxRunner
	Engine  *Engine
	Options evaluator.Options
	Repo    Repo
	Dates   DateLookup
	now     func() time.Time
}

func NewService(tx TxRunner, engine *Engine, opts evaluator.Options, repo Repo, lookup DateLookup) *Service {
	return &Service{Tx: tx, Engine: engine, Options: opts, Repo: repo, Dates: lookup, now: time.Now}
}

// Generate evaluates the query range and persists one feedback row plus a
// suggestion per resolvable hint, atomically. It reports false with a nil
// error when the range holds no entries.
func (s *Service) Generate(ctx context.Context, q evaluator.Query) (Result, bool, error) {
	if s == nil || s.Tx == nil || s.Engine == nil {
		return Result{}, false, errors.New("feedback service not configured")
	}
	start := s.clock()()

	var (
		result     Result
		generated  bool
		category   Category
		unresolved []string
	)
	err := s.Tx.InTx(ctx, func(st Stores) error {
		entries, err := evaluator.LoadEntries(ctx, st.Calendars, st.Dates, q)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		m := evaluator.ComputeMetrics(evaluator.Records(entries), s.Options)
		plan := s.Engine.BuildPlan(m, lastEntry(entries).ID)

		severity := plan.Feedback.SeverityScore
		fb, err := st.Feedback.CreateFeedback(ctx, Feedback{
			DateID:        plan.Feedback.DateID,
			Title:         plan.Feedback.Title,
			Summary:       plan.Feedback.Summary,
			Category:      plan.Feedback.Category,
			SeverityScore: &severity,
			Advice:        plan.Feedback.Advice,
		})
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(plan.Hints))
		var missed []string
		for _, hint := range plan.Hints {
			matches, err := st.Products.SearchByTag(ctx, hint.Tag, 1)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				missed = append(missed, hint.Tag)
				continue
			}
			sug, err := st.Feedback.CreateSuggestion(ctx, Suggestion{
				FeedbackID: fb.ID,
				ProductID:  matches[0].ID,
				Reason:     hint.Reason,
				Score:      hint.Score,
			})
			if err != nil {
				return err
			}
			ids = append(ids, sug.ID)
		}

		result = Result{Metrics: m, FeedbackID: fb.ID, SuggestionIDs: ids}
		generated = true
		category = plan.Feedback.Category
		unresolved = missed
		return nil
	})
	elapsed := s.clock()().Sub(start)
	if err != nil {
		metrics.ObserveEvaluation("generate", elapsed, metrics.OutcomeError)
		return Result{}, false, err
	}
	if !generated {
		metrics.ObserveEvaluation("generate", elapsed, metrics.OutcomeNoData)
		return Result{}, false, nil
	}

	metrics.ObserveEvaluation("generate", elapsed, metrics.OutcomeSuccess)
	metrics.IncFeedbackGenerated(string(category))
	metrics.AddSuggestions(len(result.SuggestionIDs), len(unresolved))
	for _, tag := range unresolved {
		telemetry.Warn("feedback.hint_unresolved", map[string]any{
			"feedback_id": result.FeedbackID,
			"tag":         tag,
		})
	}
	telemetry.Info("feedback.generated", map[string]any{
		"calendar_id": q.CalendarID,
		"user_id":     q.UserID,
		"feedback_id": result.FeedbackID,
		"category":    string(category),
		"suggestions": len(result.SuggestionIDs),
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	})
	return result, true, nil
}

// ListForDate returns the feedback of a date entry owned by userID.
func (s *Service) ListForDate(ctx context.Context, dateID int64, userID string) ([]Feedback, error) {
	if err := s.checkDate(ctx, dateID, userID); err != nil {
		return nil, err
	}
	items, err := s.Repo.ListByDate(ctx, dateID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Feedback{}
	}
	return items, nil
}

// Suggestions returns up to top suggestions of a feedback row owned by userID.
func (s *Service) Suggestions(ctx context.Context, feedbackID int64, top int, userID string) ([]Suggestion, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("feedback service not configured")
	}
	fb, err := s.Repo.GetFeedback(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDate(ctx, fb.DateID, userID); err != nil {
		if errors.Is(err, dates.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Repo.ListSuggestions(ctx, feedbackID, top)
}

func (s *Service) checkDate(ctx context.Context, dateID int64, userID string) error {
	if s == nil || s.Repo == nil || s.Dates == nil {
		return errors.New("feedback service not configured")
	}
	entry, err := s.Dates.Get(ctx, dateID)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return dates.ErrNotFound
	}
	return nil
}

func (s *Service) clock() func() time.Time {
	if s.now == nil {
		return time.Now
	}
	return s.now
}

// lastEntry returns the chronologically last entry; later positions win ties.
func lastEntry(entries []dates.Entry) dates.Entry {
	last := entries[0]
	for _, e := range entries[1:] {
		if !e.ScheduledDate.Before(last.ScheduledDate) {
			last = e
		}
	}
	return last
}
