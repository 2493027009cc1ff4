package evaluator

import (
	"context"
	"errors"
	"time"

	"acen-backend/internal/shared/metrics"
	"acen-backend/internal/shared/telemetry"
)

type Service struct {
	Calendars CalendarStore
	Dates     EntryStore
	Options   Options
	now       func() time.Time
}

func NewService(cals CalendarStore, entries EntryStore, opts Options) *Service {
	return &Service{Calendars: cals, Dates: entries, Options: opts, now: time.Now}
}

// Evaluate loads the query range and computes its metrics. An empty range is
// not an error; the result carries NoDataNote.
func (s *Service) Evaluate(ctx context.Context, q Query) (Metrics, error) {
	if s == nil || s.Calendars == nil || s.Dates == nil {
		return Metrics{}, errors.New("evaluator service not configured")
	}
	start := s.clock()()

	entries, err := LoadEntries(ctx, s.Calendars, s.Dates, q)
	if err != nil {
		metrics.ObserveEvaluation("evaluate", s.clock()().Sub(start), metrics.OutcomeError)
		return Metrics{}, err
	}
	result := ComputeMetrics(Records(entries), s.Options)

	outcome := metrics.OutcomeSuccess
	if len(entries) == 0 {
		outcome = metrics.OutcomeNoData
	}
	elapsed := s.clock()().Sub(start)
	metrics.ObserveEvaluation("evaluate", elapsed, outcome)
	telemetry.Info("evaluation.complete", map[string]any{
		"calendar_id": q.CalendarID,
		"user_id":     q.UserID,
		"records":     len(entries),
		"outcome":     outcome,
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	})
	return result, nil
}

func (s *Service) clock() func() time.Time {
	if s.now == nil {
		return time.Now
	}
	return s.now
}
