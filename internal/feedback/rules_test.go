package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acen-backend/internal/evaluator"
)

func ptr(v float64) *float64 { return &v }

func newDefaultEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultEngineOptions())
	require.NoError(t, err)
	return engine
}

func TestBuildPlanRoutineWhenAdherenceLow(t *testing.T) {
	m := evaluator.Metrics{
		Adherence: evaluator.MetricBreakdown{Current: 0.5, Previous: ptr(0.25), Change: ptr(1.0)},
		Severity:  evaluator.MetricBreakdown{Current: 0.4, Previous: ptr(0.2), Change: ptr(1.0)},
		Trend:     evaluator.MetricBreakdown{Current: 0.5},
	}
	plan := newDefaultEngine(t).BuildPlan(m, 42)

	assert.Equal(t, CategoryRoutine, plan.Feedback.Category)
	assert.Equal(t, int64(42), plan.Feedback.DateID)
	assert.Equal(t, DefaultTitle, plan.Feedback.Title)
	assert.Equal(t, 0.4, plan.Feedback.SeverityScore)
	assert.NotEmpty(t, plan.Feedback.Summary)
	require.Len(t, plan.Hints, 1)
	assert.Equal(t, SuggestionHint{Tag: "soothing", Reason: "improve routine adherence", Score: 0.8}, plan.Hints[0])
}

func TestBuildPlanAttentionWhenTrendRises(t *testing.T) {
	m := evaluator.Metrics{
		Adherence: evaluator.MetricBreakdown{Current: 0.9},
		Trend:     evaluator.MetricBreakdown{Current: 2, Previous: ptr(1), Change: ptr(1)},
	}
	plan := newDefaultEngine(t).BuildPlan(m, 1)
	assert.Equal(t, CategoryAttention, plan.Feedback.Category)
	require.Len(t, plan.Hints, 1)
	assert.Equal(t, "moisturizing", plan.Hints[0].Tag)
	assert.Equal(t, 0.7, plan.Hints[0].Score)
}

func TestBuildPlanAdherenceTakesPriorityOverTrend(t *testing.T) {
	m := evaluator.Metrics{
		Adherence: evaluator.MetricBreakdown{Current: 0.1},
		Trend:     evaluator.MetricBreakdown{Current: 2, Previous: ptr(1), Change: ptr(1)},
	}
	assert.Equal(t, CategoryRoutine, newDefaultEngine(t).BuildPlan(m, 1).Feedback.Category)
}

func TestBuildPlanMaintainByDefault(t *testing.T) {
	engine := newDefaultEngine(t)
	cases := []evaluator.Metrics{
		{Adherence: evaluator.MetricBreakdown{Current: 0.6}},
		{Adherence: evaluator.MetricBreakdown{Current: 1}, Trend: evaluator.MetricBreakdown{Change: ptr(0)}},
		{Adherence: evaluator.MetricBreakdown{Current: 1}, Trend: evaluator.MetricBreakdown{Change: ptr(-0.5)}},
	}
	for _, m := range cases {
		plan := engine.BuildPlan(m, 1)
		assert.Equal(t, CategoryMaintain, plan.Feedback.Category)
		require.Len(t, plan.Hints, 1)
		assert.Equal(t, "maintenance", plan.Hints[0].Tag)
		assert.Equal(t, 0.6, plan.Hints[0].Score)
	}
}

func TestBuildPlanNoDataMetricsFallIntoRoutine(t *testing.T) {
	m := evaluator.ComputeMetrics(nil, evaluator.DefaultOptions())
	plan := newDefaultEngine(t).BuildPlan(m, 1)
	assert.Equal(t, CategoryRoutine, plan.Feedback.Category)
	assert.Equal(t, 0.0, plan.Feedback.SeverityScore)
}

func TestBuildPlanIsTotalAndExclusive(t *testing.T) {
	engine := newDefaultEngine(t)
	changes := []*float64{nil, ptr(-1), ptr(0), ptr(0.5)}
	for _, adherence := range []float64{0, 0.59, 0.6, 1} {
		for _, change := range changes {
			m := evaluator.Metrics{
				Adherence: evaluator.MetricBreakdown{Current: adherence},
				Trend:     evaluator.MetricBreakdown{Change: change},
			}
			plan := engine.BuildPlan(m, 1)
			assert.True(t, plan.Feedback.Category.Valid())

			matched := 0
			for _, r := range engine.Rules()[:2] {
				if r.When(m) {
					matched++
				}
			}
			if matched == 0 {
				assert.Equal(t, CategoryMaintain, plan.Feedback.Category)
			}
		}
	}
}

func TestBuildPlanHintsAreCopied(t *testing.T) {
	engine := newDefaultEngine(t)
	plan := engine.BuildPlan(evaluator.Metrics{}, 1)
	plan.Hints[0].Tag = "mutated"
	assert.Equal(t, "soothing", engine.BuildPlan(evaluator.Metrics{}, 1).Hints[0].Tag)
}

func TestNewEngineCustomThreshold(t *testing.T) {
	engine, err := NewEngine(EngineOptions{AdherenceThreshold: 0.3})
	require.NoError(t, err)
	m := evaluator.Metrics{Adherence: evaluator.MetricBreakdown{Current: 0.5}}
	assert.Equal(t, CategoryMaintain, engine.BuildPlan(m, 1).Feedback.Category)

	_, err = NewEngine(EngineOptions{AdherenceThreshold: 1.5})
	assert.Error(t, err)
}

func TestNewEngineAppliesRulePack(t *testing.T) {
	pack := &RulePack{
		Title: "Routine check-in",
		Rules: map[Category]RuleOverride{
			CategoryMaintain: {
				Message: "Steady progress.",
				Advice:  "Reassess in two weeks.",
				Hints: []SuggestionHint{
					{Tag: "maintenance", Reason: "keep going", Score: 0.6},
					{Tag: "sunscreen", Reason: "daily protection", Score: 0.5},
				},
			},
		},
	}
	engine, err := NewEngine(EngineOptions{AdherenceThreshold: 0.6, Pack: pack})
	require.NoError(t, err)

	plan := engine.BuildPlan(evaluator.Metrics{Adherence: evaluator.MetricBreakdown{Current: 1}}, 9)
	assert.Equal(t, "Routine check-in", plan.Feedback.Title)
	assert.Equal(t, "Steady progress.", plan.Feedback.Summary)
	assert.Equal(t, "Reassess in two weeks.", plan.Feedback.Advice)
	require.Len(t, plan.Hints, 2)
	assert.Equal(t, "sunscreen", plan.Hints[1].Tag)

	routine := engine.BuildPlan(evaluator.Metrics{}, 9)
	assert.Equal(t, "soothing", routine.Hints[0].Tag)
}
