package aggregator

import (
	"strconv"

	"github.com/penwyp/go-research-monitor/internal/core/model"
	"github.com/penwyp/go-research-monitor/internal/util"
)

// SeriesPoint is one x-axis position of the cumulative token chart.
type SeriesPoint struct {
	Label            string `json:"label"`
	Tokens           int    `json:"tokens"`
	Cumulative       int    `json:"cumulative_tokens"`
	CumulativePrompt int    `json:"cumulative_prompt_tokens"`
	CumulativeOutput int    `json:"cumulative_completion_tokens"`
	Phase            string `json:"phase,omitempty"`
}

// CumulativeSeries builds the running token totals of a timeline. Server-provided cumulative
// values are used when present; otherwise a running sum is kept. Labels are the call time
// (HH:MM:SS) or the 1-based call index when the timestamp is unusable.
func CumulativeSeries(entries []model.TimelineEntry) []SeriesPoint {
	points := make([]SeriesPoint, 0, len(entries))
	var total, prompt, output int
	for i, e := range entries {
		total += e.Tokens
		prompt += e.PromptTokens
		output += e.CompletionTokens

		point := SeriesPoint{
			Label:            strconv.Itoa(i + 1),
			Tokens:           e.Tokens,
			Cumulative:       total,
			CumulativePrompt: prompt,
			CumulativeOutput: output,
			Phase:            e.ResearchPhase,
		}
		if e.CumulativeTokens > 0 {
			point.Cumulative = e.CumulativeTokens
		}
		if e.CumulativePromptTokens > 0 {
			point.CumulativePrompt = e.CumulativePromptTokens
		}
		if e.CumulativeCompletionTokens > 0 {
			point.CumulativeOutput = e.CumulativeCompletionTokens
		}
		if ts, ok := util.ParseTimestamp(e.Timestamp); ok {
			point.Label = util.GetTimeProvider().Format(ts, "15:04:05")
		}
		points = append(points, point)
	}
	return points
}
