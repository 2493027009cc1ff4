package evaluator

import "time"

// NoDataNote is set on Metrics computed from an empty record set.
const NoDataNote = "no data available"

// DailyRecord is the per-day input to ComputeMetrics.
type DailyRecord struct {
	ScheduledDate   time.Time
	CompletionRatio float64
	ModelCount      int
	// SeverityScore is the mean of the day's feedback severities; nil when none exist.
	SeverityScore *float64
}

// MetricBreakdown holds a current value and its comparison with the previous one.
type MetricBreakdown struct {
	Current  float64  `json:"current"`
	Previous *float64 `json:"previous"`
	Change   *float64 `json:"change"`
}

// Metrics bundles the adherence, severity and trend breakdowns of a range.
type Metrics struct {
	Adherence MetricBreakdown `json:"adherence"`
	Severity  MetricBreakdown `json:"severity"`
	Trend     MetricBreakdown `json:"trend"`
	Notes     string          `json:"notes,omitempty"`
}

// Query selects a calendar's entries over an inclusive date range on behalf of a user.
type Query struct {
	CalendarID int64
	Start      time.Time
	End        time.Time
	UserID     string
}
