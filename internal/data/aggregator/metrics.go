package aggregator

import (
	"github.com/penwyp/go-research-monitor/internal/core/model"
)

// TokenSummary is the token view of the /metrics/research/{id} payload.
type TokenSummary struct {
	TotalTokens int                `json:"total_tokens"`
	TotalCalls  int                `json:"total_calls"`
	Models      []model.ModelUsage `json:"model_usage"`
}

// SummarizeMetrics copies and orders model usage by tokens descending. When the server omits
// the totals they are derived from the model usage rows.
func SummarizeMetrics(payload *model.MetricsResponse) TokenSummary {
	summary := TokenSummary{Models: []model.ModelUsage{}}
	if payload == nil {
		return summary
	}

	m := payload.Metrics
	summary.TotalTokens = m.TotalTokens
	summary.TotalCalls = m.TotalCalls
	summary.Models = append(summary.Models, m.ModelUsage...)
	sortModelUsage(summary.Models)

	if summary.TotalTokens == 0 && summary.TotalCalls == 0 {
		for _, usage := range summary.Models {
			summary.TotalTokens += usage.Tokens
			summary.TotalCalls += usage.Calls
		}
	}
	return summary
}

// TokensPerSecond is total tokens over a duration in seconds, 0 when the duration is unknown.
func TokensPerSecond(totalTokens int, durationSeconds float64) float64 {
	if durationSeconds <= 0 {
		return 0
	}
	return float64(totalTokens) / durationSeconds
}

// Report bundles every aggregate the metrics view needs.
type Report struct {
	Tokens   TokenSummary    `json:"tokens"`
	Timeline TimelineSummary `json:"timeline"`
	Search   SearchSummary   `json:"search"`
	Series   []SeriesPoint   `json:"series"`
}

// BuildReport aggregates all three metrics payloads. Nil payloads yield empty sections.
func BuildReport(metrics *model.MetricsResponse, timeline *model.TimelineResponse, search *model.SearchResponse) Report {
	report := Report{
		Tokens:   SummarizeMetrics(metrics),
		Timeline: SummarizeTimelinePayload(timeline),
		Search:   SummarizeSearch(search),
		Series:   []SeriesPoint{},
	}
	if timeline != nil {
		report.Series = CumulativeSeries(timeline.Metrics.Timeline)
	}
	if report.Tokens.TotalTokens == 0 {
		report.Tokens.TotalTokens = report.Timeline.TotalTokens
	}
	if report.Tokens.TotalCalls == 0 {
		report.Tokens.TotalCalls = report.Timeline.TotalCalls
	}
	if len(report.Tokens.Models) == 0 {
		report.Tokens.Models = append(report.Tokens.Models, report.Timeline.Models...)
	}
	return report
}
