package evaluator

import (
	"sort"
)

// DefaultTrendWindow is the number of trailing records averaged for the trend.
const DefaultTrendWindow = 7

// Options parameterizes ComputeMetrics.
type Options struct {
	TrendWindow int
}

func DefaultOptions() Options {
	return Options{TrendWindow: DefaultTrendWindow}
}

func (o Options) window() int {
	if o.TrendWindow <= 0 {
		return DefaultTrendWindow
	}
	return o.TrendWindow
}

// ComputeMetrics derives adherence, severity and trend from records.
// The input is not modified; a copy is stably sorted by date first.
func ComputeMetrics(records []DailyRecord, opts Options) Metrics {
	if len(records) == 0 {
		return Metrics{
			Adherence: MetricBreakdown{},
			Severity:  MetricBreakdown{},
			Trend:     MetricBreakdown{},
			Notes:     NoDataNote,
		}
	}

	sorted := make([]DailyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ScheduledDate.Before(sorted[j].ScheduledDate)
	})

	return Metrics{
		Adherence: adherence(sorted),
		Severity:  severity(sorted),
		Trend:     trend(sorted, opts.window()),
	}
}

func adherence(records []DailyRecord) MetricBreakdown {
	n := len(records)
	current := records[n-1].CompletionRatio
	if n < 2 {
		return MetricBreakdown{Current: current}
	}
	return breakdown(current, floatPtr(records[n-2].CompletionRatio))
}

// severity degrades to a zero current value when no record is scored.
func severity(records []DailyRecord) MetricBreakdown {
	var scored []float64
	for _, r := range records {
		if r.SeverityScore != nil {
			scored = append(scored, *r.SeverityScore)
		}
	}
	n := len(scored)
	switch n {
	case 0:
		return MetricBreakdown{}
	case 1:
		return MetricBreakdown{Current: scored[0]}
	}
	return breakdown(scored[n-1], floatPtr(scored[n-2]))
}

func trend(records []DailyRecord, window int) MetricBreakdown {
	n := len(records)
	split := max(0, n-window)
	current := records[split:]
	if len(current) == 0 {
		return MetricBreakdown{}
	}
	previous := records[max(0, n-2*window):split]

	out := MetricBreakdown{Current: meanModelCount(current)}
	if len(previous) == 0 {
		return out
	}
	return breakdown(out.Current, floatPtr(meanModelCount(previous)))
}

func meanModelCount(records []DailyRecord) float64 {
	total := 0
	for _, r := range records {
		total += r.ModelCount
	}
	return float64(total) / float64(len(records))
}

func breakdown(current float64, previous *float64) MetricBreakdown {
	return MetricBreakdown{
		Current:  current,
		Previous: previous,
		Change:   relativeChange(previous, current),
	}
}

// relativeChange is (current-previous)/previous, nil when previous is nil or zero.
func relativeChange(previous *float64, current float64) *float64 {
	if previous == nil || *previous == 0 {
		return nil
	}
	return floatPtr((current - *previous) / *previous)
}

func floatPtr(v float64) *float64 {
	return &v
}
