package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acen-backend/internal/calendars"
	"acen-backend/internal/dates"
	"acen-backend/internal/evaluator"
	"acen-backend/internal/products"
)

type harness struct {
	cals     *calendars.MemoryRepo
	entries  *dates.MemoryRepo
	products *products.MemoryRepo
	feedback *MemoryRepo
	runner   *MemoryTxRunner
	svc      *Service
	cal      calendars.Calendar
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		cals:     calendars.NewMemoryRepo(),
		entries:  dates.NewMemoryRepo(),
		products: products.NewMemoryRepo(),
		feedback: NewMemoryRepo(),
	}
	h.entries.Severities = h.feedback
	h.runner = NewMemoryTxRunner(h.cals, h.entries, h.products, h.feedback)
	engine, err := NewEngine(DefaultEngineOptions())
	require.NoError(t, err)
	h.svc = NewService(h.runner, engine, evaluator.DefaultOptions(), h.feedback, h.entries)

	h.cal, err = h.cals.Create(context.Background(), calendars.Calendar{UserID: "u1", Name: "Morning"})
	require.NoError(t, err)
	return h
}

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func (h *harness) addEntry(t *testing.T, n int, ratio float64, models int) dates.Entry {
	t.Helper()
	ctx := context.Background()
	e, err := h.entries.Create(ctx, dates.Entry{CalendarID: h.cal.ID, UserID: "u1", ScheduledDate: day(n), CompletionRatio: ratio})
	require.NoError(t, err)
	for i := 0; i < models; i++ {
		_, err := h.entries.AddModelResult(ctx, dates.ModelResult{DateID: e.ID, ResultType: "detection"})
		require.NoError(t, err)
	}
	return e
}

func (h *harness) addProduct(t *testing.T, name, tags string) products.Product {
	t.Helper()
	p, err := h.products.Create(context.Background(), products.Product{Name: name, Tags: tags})
	require.NoError(t, err)
	return p
}

func (h *harness) query(from, to int) evaluator.Query {
	return evaluator.Query{CalendarID: h.cal.ID, Start: day(from), End: day(to), UserID: "u1"}
}

func TestGenerateRoutineScenario(t *testing.T) {
	h := newHarness(t)
	h.addEntry(t, 0, 0.25, 0)
	last := h.addEntry(t, 1, 0.5, 1)
	h.addProduct(t, "Hydra Cream", "moisturizing")
	gel := h.addProduct(t, "Calm Gel", "Soothing, gel")
	h.addProduct(t, "Cica Balm", "soothing")

	result, ok, err := h.svc.Generate(context.Background(), h.query(0, 1))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 0.5, result.Metrics.Adherence.Current)
	require.NotNil(t, result.Metrics.Adherence.Change)
	assert.InDelta(t, 1.0, *result.Metrics.Adherence.Change, 1e-9)
	require.Len(t, result.SuggestionIDs, 1)

	fb, err := h.feedback.GetFeedback(context.Background(), result.FeedbackID)
	require.NoError(t, err)
	assert.Equal(t, last.ID, fb.DateID)
	assert.Equal(t, CategoryRoutine, fb.Category)
	require.NotNil(t, fb.SeverityScore)
	assert.Equal(t, 0.0, *fb.SeverityScore)
	require.Len(t, fb.Suggestions, 1)
	assert.Equal(t, gel.ID, fb.Suggestions[0].ProductID, "lowest id match wins")
	assert.Equal(t, "improve routine adherence", fb.Suggestions[0].Reason)
	assert.Equal(t, 0.8, fb.Suggestions[0].Score)
}

func TestGenerateAttentionScenario(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 7; i++ {
		h.addEntry(t, i, 1, 1)
	}
	for i := 7; i < 14; i++ {
		h.addEntry(t, i, 1, 2)
	}
	cream := h.addProduct(t, "Hydra Cream", "MOISTURIZING")

	result, ok, err := h.svc.Generate(context.Background(), h.query(0, 13))
	require.NoError(t, err)
	require.True(t, ok)

	fb, err := h.feedback.GetFeedback(context.Background(), result.FeedbackID)
	require.NoError(t, err)
	assert.Equal(t, CategoryAttention, fb.Category)
	require.Len(t, fb.Suggestions, 1)
	assert.Equal(t, cream.ID, fb.Suggestions[0].ProductID)
}

func TestGenerateNoEntries(t *testing.T) {
	h := newHarness(t)
	result, ok, err := h.svc.Generate(context.Background(), h.query(0, 30))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, result.FeedbackID)

	items, err := h.feedback.ListByDate(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGenerateRejectsForeignCalendar(t *testing.T) {
	h := newHarness(t)
	h.addEntry(t, 0, 1, 0)

	q := h.query(0, 1)
	q.UserID = "u2"
	_, ok, err := h.svc.Generate(context.Background(), q)
	assert.ErrorIs(t, err, evaluator.ErrCalendarNotAccessible)
	assert.False(t, ok)
}

func TestGenerateKeepsFeedbackWhenNoProductMatches(t *testing.T) {
	h := newHarness(t)
	entry := h.addEntry(t, 0, 1, 0)
	h.addProduct(t, "Calm Gel", "soothing")

	result, ok, err := h.svc.Generate(context.Background(), h.query(0, 0))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, result.SuggestionIDs)
	assert.NotNil(t, result.SuggestionIDs)

	items, err := h.feedback.ListByDate(context.Background(), entry.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, CategoryMaintain, items[0].Category)
	assert.Empty(t, items[0].Suggestions)
}

func TestGenerateTwiceCreatesTwoFeedbackRows(t *testing.T) {
	h := newHarness(t)
	entry := h.addEntry(t, 0, 1, 0)

	first, _, err := h.svc.Generate(context.Background(), h.query(0, 0))
	require.NoError(t, err)
	second, _, err := h.svc.Generate(context.Background(), h.query(0, 0))
	require.NoError(t, err)
	assert.NotEqual(t, first.FeedbackID, second.FeedbackID)

	items, err := h.feedback.ListByDate(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestGeneratedSeverityFeedsLaterEvaluations(t *testing.T) {
	h := newHarness(t)
	entry := h.addEntry(t, 0, 0.2, 0)
	fbRepo := h.feedback
	_, err := fbRepo.CreateFeedback(context.Background(), Feedback{DateID: entry.ID, Title: "manual", SeverityScore: ptr(0.3)})
	require.NoError(t, err)
	_, err = fbRepo.CreateFeedback(context.Background(), Feedback{DateID: entry.ID, Title: "manual", SeverityScore: ptr(0.5)})
	require.NoError(t, err)

	result, ok, err := h.svc.Generate(context.Background(), h.query(0, 0))
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.4, result.Metrics.Severity.Current, 1e-9)

	fb, err := fbRepo.GetFeedback(context.Background(), result.FeedbackID)
	require.NoError(t, err)
	require.NotNil(t, fb.SeverityScore)
	assert.InDelta(t, 0.4, *fb.SeverityScore, 1e-9)
}

type failingSuggestions struct {
	*MemoryRepo
	err error
}

func (f failingSuggestions) CreateSuggestion(context.Context, Suggestion) (Suggestion, error) {
	return Suggestion{}, f.err
}

func TestGenerateRollsBackOnPersistenceFailure(t *testing.T) {
	h := newHarness(t)
	entry := h.addEntry(t, 0, 1, 0)
	h.addProduct(t, "Keep", "maintenance")

	boom := errors.New("disk full")
	h.runner.wrap = func(staged *MemoryRepo) Repo {
		return failingSuggestions{MemoryRepo: staged, err: boom}
	}

	_, ok, err := h.svc.Generate(context.Background(), h.query(0, 0))
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)

	items, err := h.feedback.ListByDate(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "feedback row must be rolled back")

	h.runner.wrap = nil
	result, ok, err := h.svc.Generate(context.Background(), h.query(0, 0))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), result.FeedbackID, "ids restart after rollback")
}

type observingSuggestions struct {
	*MemoryRepo
	observe func()
}

func (o observingSuggestions) CreateSuggestion(ctx context.Context, s Suggestion) (Suggestion, error) {
	o.observe()
	return o.MemoryRepo.CreateSuggestion(ctx, s)
}

func TestGenerateHidesUncommittedFeedback(t *testing.T) {
	h := newHarness(t)
	entry := h.addEntry(t, 0, 1, 0)
	h.addProduct(t, "Keep", "maintenance")
	ctx := context.Background()

	var during []Feedback
	var duringSeverities []float64
	h.runner.wrap = func(staged *MemoryRepo) Repo {
		return observingSuggestions{MemoryRepo: staged, observe: func() {
			var err error
			during, err = h.feedback.ListByDate(ctx, entry.ID)
			require.NoError(t, err)
			got, err := h.entries.Get(ctx, entry.ID)
			require.NoError(t, err)
			duringSeverities = got.FeedbackSeverities
		}}
	}

	_, ok, err := h.svc.Generate(ctx, h.query(0, 0))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, during, "feedback must not be visible before commit")
	assert.Empty(t, duringSeverities)

	after, err := h.feedback.ListByDate(ctx, entry.ID)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Len(t, after[0].Suggestions, 1)
}

func TestSuggestionsRespectTopAndOwnership(t *testing.T) {
	h := newHarness(t)
	entry := h.addEntry(t, 0, 1, 0)
	ctx := context.Background()
	fb, err := h.feedback.CreateFeedback(ctx, Feedback{DateID: entry.ID, Title: "t"})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		p := h.addProduct(t, "p", "x")
		_, err := h.feedback.CreateSuggestion(ctx, Suggestion{FeedbackID: fb.ID, ProductID: p.ID, Score: 0.5})
		require.NoError(t, err)
	}

	items, err := h.svc.Suggestions(ctx, fb.ID, 3, "u1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Less(t, items[0].ID, items[1].ID)

	_, err = h.svc.Suggestions(ctx, fb.ID, 3, "u2")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = h.svc.Suggestions(ctx, 999, 3, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForDateChecksOwnership(t *testing.T) {
	h := newHarness(t)
	entry := h.addEntry(t, 0, 1, 0)
	ctx := context.Background()

	items, err := h.svc.ListForDate(ctx, entry.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = h.svc.ListForDate(ctx, entry.ID, "u2")
	assert.ErrorIs(t, err, dates.ErrNotFound)
	_, err = h.svc.ListForDate(ctx, 404, "u1")
	assert.ErrorIs(t, err, dates.ErrNotFound)
}
