package aggregator

import (
	"sort"

	"github.com/penwyp/go-research-monitor/internal/core/model"
	"github.com/penwyp/go-research-monitor/internal/util"
)

// SearchSummary holds totals derived from search-engine calls.
type SearchSummary struct {
	TotalSearches     int                `json:"total_searches"`
	SuccessfulCalls   int                `json:"successful_calls"`
	TotalResults      int                `json:"total_results"`
	SuccessRate       float64            `json:"success_rate"` // percent, 0-100
	AvgResponseTimeMs float64            `json:"avg_response_time_ms"`
	Engines           []model.EngineStat `json:"engines"`
}

func (s SearchSummary) AvgResponseTimeSeconds() float64 {
	return util.MillisToSeconds(s.AvgResponseTimeMs)
}

// SummarizeSearchCalls computes totals and per-engine statistics from individual calls.
func SummarizeSearchCalls(calls []model.SearchCall) SearchSummary {
	summary := SearchSummary{Engines: []model.EngineStat{}}
	if len(calls) == 0 {
		return summary
	}

	type acc struct {
		count     int
		ok        int
		results   int
		totalTime float64
	}
	engines := make(map[string]*acc)

	var totalTime float64
	for _, c := range calls {
		summary.TotalSearches++
		summary.TotalResults += c.ResultsCount
		totalTime += c.ResponseTimeMs
		if c.Succeeded() {
			summary.SuccessfulCalls++
		}

		name := c.Engine
		if name == "" {
			name = "unknown"
		}
		e, ok := engines[name]
		if !ok {
			e = &acc{}
			engines[name] = e
		}
		e.count++
		e.results += c.ResultsCount
		e.totalTime += c.ResponseTimeMs
		if c.Succeeded() {
			e.ok++
		}
	}

	summary.SuccessRate = percent(summary.SuccessfulCalls, summary.TotalSearches)
	summary.AvgResponseTimeMs = totalTime / float64(summary.TotalSearches)

	for name, e := range engines {
		summary.Engines = append(summary.Engines, model.EngineStat{
			Engine:          name,
			CallCount:       e.count,
			AvgResponseTime: e.totalTime / float64(e.count),
			TotalResults:    e.results,
			AvgResults:      float64(e.results) / float64(e.count),
			SuccessRate:     percent(e.ok, e.count),
		})
	}
	sortEngines(summary.Engines)
	return summary
}

// SummarizeSearch prefers individual calls and falls back to the server-provided totals when
// the payload carries none.
func SummarizeSearch(payload *model.SearchResponse) SearchSummary {
	if payload == nil {
		return SummarizeSearchCalls(nil)
	}
	metrics := payload.Metrics
	if len(metrics.SearchCalls) > 0 {
		return SummarizeSearchCalls(metrics.SearchCalls)
	}

	engines := make([]model.EngineStat, len(metrics.EngineStats))
	copy(engines, metrics.EngineStats)
	sortEngines(engines)

	summary := SearchSummary{
		TotalSearches:     metrics.TotalSearches,
		SuccessRate:       metrics.SuccessRate,
		AvgResponseTimeMs: metrics.AvgResponseTime,
		Engines:           engines,
	}
	for _, e := range engines {
		summary.TotalResults += e.TotalResults
	}
	return summary
}

func sortEngines(engines []model.EngineStat) {
	sort.Slice(engines, func(i, j int) bool {
		if engines[i].CallCount != engines[j].CallCount {
			return engines[i].CallCount > engines[j].CallCount
		}
		return engines[i].Engine < engines[j].Engine
	})
}
