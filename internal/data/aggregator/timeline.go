// Package aggregator turns raw timeline, search and token payloads into summary numbers.
// Every function here is pure: inputs are never modified, missing numbers count as zero and
// empty inputs produce zero-valued summaries instead of errors.
package aggregator

import (
	"sort"
	"time"

	"github.com/penwyp/go-research-monitor/internal/core/model"
	"github.com/penwyp/go-research-monitor/internal/util"
)

// TimelineSummary holds totals derived from a call timeline.
type TimelineSummary struct {
	TotalTokens           int                `json:"total_tokens"`
	TotalPromptTokens     int                `json:"total_prompt_tokens"`
	TotalCompletionTokens int                `json:"total_completion_tokens"`
	TotalCalls            int                `json:"total_calls"`
	SuccessfulCalls       int                `json:"successful_calls"`
	SuccessRate           float64            `json:"success_rate"` // percent, 0-100
	AvgResponseTimeMs     float64            `json:"avg_response_time_ms"`
	TotalResponseTimeMs   float64            `json:"total_response_time_ms"`
	Phases                []PhaseSummary     `json:"phases"`
	Models                []model.ModelUsage `json:"models"`
	FirstCall             time.Time          `json:"first_call"`
	LastCall              time.Time          `json:"last_call"`
}

// AvgResponseTimeSeconds is the normalized average used for rate displays.
func (s TimelineSummary) AvgResponseTimeSeconds() float64 {
	return util.MillisToSeconds(s.AvgResponseTimeMs)
}

// PhaseSummary is model.PhaseStat keyed by its phase name.
type PhaseSummary struct {
	Phase string `json:"phase"`
	model.PhaseStat
}

// SummarizeTimeline computes totals, success rate, average latency and the phase and model
// groupings of entries.
func SummarizeTimeline(entries []model.TimelineEntry) TimelineSummary {
	summary := TimelineSummary{
		Phases: []PhaseSummary{},
		Models: []model.ModelUsage{},
	}
	if len(entries) == 0 {
		return summary
	}

	models := make(map[string]*model.ModelUsage)
	for _, e := range entries {
		summary.TotalTokens += e.Tokens
		summary.TotalPromptTokens += e.PromptTokens
		summary.TotalCompletionTokens += e.CompletionTokens
		summary.TotalResponseTimeMs += e.ResponseTimeMs
		summary.TotalCalls++
		if e.Succeeded() {
			summary.SuccessfulCalls++
		}

		if ts, ok := util.ParseTimestamp(e.Timestamp); ok {
			if summary.FirstCall.IsZero() || ts.Before(summary.FirstCall) {
				summary.FirstCall = ts
			}
			if ts.After(summary.LastCall) {
				summary.LastCall = ts
			}
		}

		name := e.ModelName
		if name == "" {
			name = "unknown"
		}
		usage, ok := models[name]
		if !ok {
			usage = &model.ModelUsage{ModelName: name}
			models[name] = usage
		}
		usage.Tokens += e.Tokens
		usage.PromptTokens += e.PromptTokens
		usage.CompletionTokens += e.CompletionTokens
		usage.Calls++
	}

	summary.SuccessRate = percent(summary.SuccessfulCalls, summary.TotalCalls)
	summary.AvgResponseTimeMs = summary.TotalResponseTimeMs / float64(summary.TotalCalls)
	summary.Phases = PhaseBreakdown(entries)

	for _, usage := range models {
		summary.Models = append(summary.Models, *usage)
	}
	sortModelUsage(summary.Models)
	return summary
}

// PhaseStats groups entries by research phase. Entries without a phase go under "unknown".
func PhaseStats(entries []model.TimelineEntry) map[string]model.PhaseStat {
	type acc struct {
		tokens  int
		count   int
		totalMs float64
	}
	groups := make(map[string]*acc)
	for _, e := range entries {
		phase := e.ResearchPhase
		if phase == "" {
			phase = "unknown"
		}
		g, ok := groups[phase]
		if !ok {
			g = &acc{}
			groups[phase] = g
		}
		g.tokens += e.Tokens
		g.count++
		g.totalMs += e.ResponseTimeMs
	}

	stats := make(map[string]model.PhaseStat, len(groups))
	for phase, g := range groups {
		stats[phase] = model.PhaseStat{
			Tokens:          g.tokens,
			Count:           g.count,
			AvgResponseTime: g.totalMs / float64(g.count),
		}
	}
	return stats
}

// PhaseBreakdown returns PhaseStats ordered by tokens descending, then by phase name.
func PhaseBreakdown(entries []model.TimelineEntry) []PhaseSummary {
	return SortPhases(PhaseStats(entries))
}

// SortPhases orders a phase map by tokens descending, then by phase name.
func SortPhases(stats map[string]model.PhaseStat) []PhaseSummary {
	phases := make([]PhaseSummary, 0, len(stats))
	for phase, stat := range stats {
		phases = append(phases, PhaseSummary{Phase: phase, PhaseStat: stat})
	}
	sort.Slice(phases, func(i, j int) bool {
		if phases[i].Tokens != phases[j].Tokens {
			return phases[i].Tokens > phases[j].Tokens
		}
		return phases[i].Phase < phases[j].Phase
	})
	return phases
}

// SummarizeTimelinePayload prefers entry-level data and falls back to the server summary and
// phase stats when the timeline is empty.
func SummarizeTimelinePayload(payload *model.TimelineResponse) TimelineSummary {
	if payload == nil {
		return SummarizeTimeline(nil)
	}
	metrics := payload.Metrics
	if len(metrics.Timeline) > 0 {
		return SummarizeTimeline(metrics.Timeline)
	}

	summary := SummarizeTimeline(nil)
	summary.TotalTokens = metrics.Summary.TotalTokens
	summary.TotalCalls = metrics.Summary.TotalCalls
	summary.AvgResponseTimeMs = metrics.Summary.AvgResponseTime
	summary.SuccessRate = metrics.Summary.SuccessRate
	if len(metrics.PhaseStats) > 0 {
		summary.Phases = SortPhases(metrics.PhaseStats)
	}
	return summary
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func sortModelUsage(models []model.ModelUsage) {
	sort.Slice(models, func(i, j int) bool {
		if models[i].Tokens != models[j].Tokens {
			return models[i].Tokens > models[j].Tokens
		}
		return models[i].ModelName < models[j].ModelName
	})
}
