package render

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-research-monitor/internal/data/aggregator"
	"github.com/penwyp/go-research-monitor/internal/util"
)

// NoDataPlaceholder replaces charts and tables that have nothing to show.
const NoDataPlaceholder = "No data available"

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Dataset is one line of a chart.
type Dataset struct {
	Label  string
	Values []float64
}

// ChartConfig describes a chart independently of how it is drawn.
type ChartConfig struct {
	Title       string
	Labels      []string
	Datasets    []Dataset
	Empty       bool
	Placeholder string
}

// BuildTokenChart turns a cumulative series into the token usage chart.
func BuildTokenChart(series []aggregator.SeriesPoint) ChartConfig {
	if len(series) == 0 {
		return ChartConfig{Title: "Token Usage", Empty: true, Placeholder: NoDataPlaceholder}
	}

	labels := make([]string, len(series))
	total := make([]float64, len(series))
	prompt := make([]float64, len(series))
	output := make([]float64, len(series))
	for i, p := range series {
		labels[i] = p.Label
		total[i] = float64(p.Cumulative)
		prompt[i] = float64(p.CumulativePrompt)
		output[i] = float64(p.CumulativeOutput)
	}

	return ChartConfig{
		Title:  "Token Usage",
		Labels: labels,
		Datasets: []Dataset{
			{Label: "Cumulative Tokens", Values: total},
			{Label: "Input Tokens", Values: prompt},
			{Label: "Output Tokens", Values: output},
		},
	}
}

// RenderChart draws chart into the chart slot.
func (r *Renderer) RenderChart(t Target, chart ChartConfig) {
	set(t, SlotChart, r.ChartText(chart))
}

// ChartText draws one sparkline per dataset, followed by the first and last label.
func (r *Renderer) ChartText(chart ChartConfig) string {
	if chart.Empty || len(chart.Datasets) == 0 {
		if chart.Placeholder != "" {
			return chart.Placeholder
		}
		return NoDataPlaceholder
	}

	width := r.tableWidth - 24
	if width < 10 {
		width = 10
	}

	labelWidth := 0
	for _, ds := range chart.Datasets {
		if w := util.GetDisplayWidth(ds.Label); w > labelWidth {
			labelWidth = w
		}
	}

	var b strings.Builder
	for _, ds := range chart.Datasets {
		last := 0.0
		if len(ds.Values) > 0 {
			last = ds.Values[len(ds.Values)-1]
		}
		fmt.Fprintf(&b, "%s  %s %s\n",
			util.PadRight(ds.Label, labelWidth),
			Sparkline(ds.Values, width),
			util.FormatThousands(int(last)))
	}
	if n := len(chart.Labels); n > 0 {
		fmt.Fprintf(&b, "%s  %s .. %s", strings.Repeat(" ", labelWidth), chart.Labels[0], chart.Labels[n-1])
	}
	return strings.TrimRight(b.String(), "\n")
}

// Sparkline scales values to block characters, sampling down to at most width columns.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	sampled := values
	if len(values) > width {
		sampled = make([]float64, width)
		for i := range sampled {
			sampled[i] = values[i*len(values)/width]
		}
		sampled[width-1] = values[len(values)-1]
	}

	lo, hi := sampled[0], sampled[0]
	for _, v := range sampled {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	out := make([]rune, len(sampled))
	for i, v := range sampled {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		out[i] = sparkBlocks[idx]
	}
	return string(out)
}
