package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/penwyp/go-research-monitor/internal/core/model"
	"github.com/penwyp/go-research-monitor/internal/data/aggregator"
	"github.com/penwyp/go-research-monitor/internal/data/client"
	"github.com/penwyp/go-research-monitor/internal/util"
)

// CostPlaceholder is what the cost slot always shows; cost tracking is not wired up.
const CostPlaceholder = "-"

// Renderer maps records and aggregates onto a Target. It never modifies its inputs.
type Renderer struct {
	barWidth   int
	tableWidth int
}

// NewRenderer creates a renderer sized for the given output width in columns.
func NewRenderer(width int) *Renderer {
	if width < 40 {
		width = 40
	}
	bar := width / 3
	if bar > 40 {
		bar = 40
	}
	return &Renderer{barWidth: bar, tableWidth: width}
}

// RenderSummary fills the summary slots that each poll tick refreshes.
func (r *Renderer) RenderSummary(t Target, rec *model.ResearchRecord) {
	if rec == nil {
		return
	}
	pct := rec.Percent()

	set(t, SlotQuery, util.OrPlaceholder(rec.Query))
	set(t, SlotStatus, util.FormatStatus(string(rec.Status)))
	set(t, SlotMode, util.FormatMode(rec.Mode))
	set(t, SlotProgressBar, util.CreateProgressBar(pct, r.barWidth))
	set(t, SlotProgressPct, fmt.Sprintf("%.0f%%", pct))
	set(t, SlotCreated, util.FormatDate(rec.CreatedTime()))
	set(t, SlotCompleted, util.FormatDate(rec.CompletedTime()))
	set(t, SlotDuration, util.FormatSeconds(rec.Duration()))
}

// RenderMessage shows a transient user-visible message; an empty string clears it.
func (r *Renderer) RenderMessage(t Target, msg string) {
	set(t, SlotMessage, msg)
}

// RenderError turns an operation error into a short user-facing message.
func (r *Renderer) RenderError(t Target, op string, err error) {
	if err == nil {
		return
	}
	r.RenderMessage(t, ErrorMessage(op, err))
}

// ErrorMessage describes err for display, distinguishing network and payload problems.
func ErrorMessage(op string, err error) string {
	switch {
	case errors.Is(err, client.ErrDataShape):
		return fmt.Sprintf("Failed to %s: unexpected response from server", op)
	case client.StatusCode(err) != 0:
		return fmt.Sprintf("Failed to %s: server returned HTTP %d", op, client.StatusCode(err))
	case errors.Is(err, client.ErrNetwork):
		return fmt.Sprintf("Failed to %s: server unreachable", op)
	default:
		return fmt.Sprintf("Failed to %s: %v", op, err)
	}
}

// RenderMetrics fills every metrics slot from an aggregated report. durationSeconds feeds
// the tokens-per-second rate.
func (r *Renderer) RenderMetrics(t Target, report aggregator.Report, durationSeconds float64) {
	tl := report.Timeline
	set(t, SlotTotalTokens, util.FormatThousands(report.Tokens.TotalTokens))
	set(t, SlotPromptTokens, util.FormatThousands(tl.TotalPromptTokens))
	set(t, SlotCompletionTokens, util.FormatThousands(tl.TotalCompletionTokens))
	set(t, SlotTotalCalls, util.FormatThousands(report.Tokens.TotalCalls))
	set(t, SlotAvgResponseTime, util.FormatResponseTime(tl.AvgResponseTimeMs))
	set(t, SlotSuccessRate, util.FormatPercent(tl.SuccessRate))
	set(t, SlotTokenRate, util.FormatTokenRate(aggregator.TokensPerSecond(report.Tokens.TotalTokens, durationSeconds)))
	set(t, SlotTotalCost, CostPlaceholder)

	s := report.Search
	set(t, SlotTotalSearches, util.FormatThousands(s.TotalSearches))
	set(t, SlotSearchSuccessRate, util.FormatPercent(s.SuccessRate))
	set(t, SlotSearchAvgTime, util.FormatResponseTime(s.AvgResponseTimeMs))

	set(t, SlotModelUsage, r.modelTable(report.Tokens.Models))
	set(t, SlotPhases, r.phaseTable(tl.Phases))
	set(t, SlotEngines, r.engineTable(s.Engines))

	r.RenderChart(t, BuildTokenChart(report.Series))
}

func (r *Renderer) modelTable(models []model.ModelUsage) string {
	if len(models) == 0 {
		return NoDataPlaceholder
	}
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		rows = append(rows, []string{
			util.ShortModelName(m.ModelName),
			util.OrPlaceholder(m.ModelProvider),
			util.FormatThousands(m.Tokens),
			util.FormatThousands(m.Calls),
		})
	}
	return textTable([]string{"Model", "Provider", "Tokens", "Calls"}, rows)
}

func (r *Renderer) phaseTable(phases []aggregator.PhaseSummary) string {
	if len(phases) == 0 {
		return NoDataPlaceholder
	}
	maxTokens := 0
	for _, p := range phases {
		if p.Tokens > maxTokens {
			maxTokens = p.Tokens
		}
	}
	rows := make([][]string, 0, len(phases))
	for _, p := range phases {
		rows = append(rows, []string{
			util.FormatPhase(p.Phase),
			util.FormatThousands(p.Tokens),
			util.FormatThousands(p.Count),
			util.FormatResponseTime(p.AvgResponseTime),
			hbar(p.Tokens, maxTokens, r.barWidth/2),
		})
	}
	return textTable([]string{"Phase", "Tokens", "Calls", "Avg Time", ""}, rows)
}

func (r *Renderer) engineTable(engines []model.EngineStat) string {
	if len(engines) == 0 {
		return NoDataPlaceholder
	}
	rows := make([][]string, 0, len(engines))
	for _, e := range engines {
		rows = append(rows, []string{
			util.OrPlaceholder(e.Engine),
			util.FormatThousands(e.CallCount),
			fmt.Sprintf("%.1f", e.AvgResults),
			util.FormatResponseTime(e.AvgResponseTime),
			util.FormatPercent(e.SuccessRate),
		})
	}
	return textTable([]string{"Engine", "Calls", "Avg Results", "Avg Time", "Success"}, rows)
}

// textTable aligns columns by display width. The first column is left-aligned, the rest right.
func textTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = util.GetDisplayWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := util.GetDisplayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if i == 0 || i == len(cells)-1 && headers[i] == "" {
				parts[i] = util.PadRight(cell, widths[i])
			} else {
				parts[i] = util.PadLeft(cell, widths[i])
			}
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
		b.WriteByte('\n')
	}
	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return strings.TrimRight(b.String(), "\n")
}

func hbar(value, max, width int) string {
	if max <= 0 || width <= 0 {
		return ""
	}
	n := value * width / max
	if n == 0 && value > 0 {
		n = 1
	}
	return strings.Repeat("▇", n)
}
