package feedback

import (
	"fmt"
	"strings"

	"acen-backend/internal/evaluator"
)

const (
	// DefaultAdherenceThreshold is the completion ratio below which the routine rule fires.
	DefaultAdherenceThreshold = 0.6
	// DefaultTitle is the title given to generated feedback.
	DefaultTitle = "Skincare feedback"
)

// SuggestionHint asks the resolver for a product carrying Tag.
type SuggestionHint struct {
	Tag    string  `yaml:"tag" json:"tag"`
	Reason string  `yaml:"reason" json:"reason"`
	Score  float64 `yaml:"score" json:"score"`
}

// Draft is the feedback payload produced by the engine, before persistence.
type Draft struct {
	DateID        int64
	Title         string
	Summary       string
	Category      Category
	SeverityScore float64
	Advice        string
}

// Plan pairs a feedback draft with its ordered suggestion hints.
type Plan struct {
	Feedback Draft
	Hints    []SuggestionHint
}

// Rule maps a metrics condition onto a category, message and hints.
type Rule struct {
	Category Category
	Message  string
	Advice   string
	Hints    []SuggestionHint
	When     func(evaluator.Metrics) bool
}

// EngineOptions configures NewEngine.
type EngineOptions struct {
	AdherenceThreshold float64
	// Pack overrides rule texts and hints. Nil keeps the built-in set.
	Pack *RulePack
}

func DefaultEngineOptions() EngineOptions {
	return EngineOptions{AdherenceThreshold: DefaultAdherenceThreshold}
}

// Engine evaluates an ordered rule table; the first matching rule wins.
type Engine struct {
	title string
	rules []Rule
}

// NewEngine builds the rule table. The last rule always matches.
func NewEngine(opts EngineOptions) (*Engine, error) {
	threshold := opts.AdherenceThreshold
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("adherence threshold %v outside [0, 1]", threshold)
	}

	rules := []Rule{
		{
			Category: CategoryRoutine,
			Message:  "Routine completion is low. Try to complete your routine more often.",
			Hints:    []SuggestionHint{{Tag: "soothing", Reason: "improve routine adherence", Score: 0.8}},
			When: func(m evaluator.Metrics) bool {
				return m.Adherence.Current < threshold
			},
		},
		{
			Category: CategoryAttention,
			Message:  "Detected issues are trending up. Check how your skin condition is changing.",
			Hints:    []SuggestionHint{{Tag: "moisturizing", Reason: "reinforce hydration while monitoring", Score: 0.7}},
			When: func(m evaluator.Metrics) bool {
				return m.Trend.Change != nil && *m.Trend.Change > 0
			},
		},
		{
			Category: CategoryMaintain,
			Message:  "Your routine is on track. Keep up the current routine.",
			Hints:    []SuggestionHint{{Tag: "maintenance", Reason: "maintain current product mix", Score: 0.6}},
			When:     func(evaluator.Metrics) bool { return true },
		},
	}

	title := DefaultTitle
	if opts.Pack != nil {
		if err := opts.Pack.Validate(); err != nil {
			return nil, err
		}
		if t := strings.TrimSpace(opts.Pack.Title); t != "" {
			title = t
		}
		for i := range rules {
			rules[i] = opts.Pack.apply(rules[i])
		}
	}
	return &Engine{title: title, rules: rules}, nil
}

// BuildPlan selects the first matching rule for m and drafts feedback for dateID.
func (e *Engine) BuildPlan(m evaluator.Metrics, dateID int64) Plan {
	rule := e.rules[len(e.rules)-1]
	for _, r := range e.rules {
		if r.When(m) {
			rule = r
			break
		}
	}

	hints := make([]SuggestionHint, len(rule.Hints))
	copy(hints, rule.Hints)

	return Plan{
		Feedback: Draft{
			DateID:        dateID,
			Title:         e.title,
			Summary:       rule.Message,
			Category:      rule.Category,
			SeverityScore: m.Severity.Current,
			Advice:        rule.Advice,
		},
		Hints: hints,
	}
}

// Rules returns a copy of the rule table in evaluation order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}
