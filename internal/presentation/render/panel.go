package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/penwyp/go-research-monitor/internal/core/model"
)

type panelRow struct {
	slot  Slot
	label string
}

type panelSection struct {
	title string
	rows  []panelRow
	// block sections show a single multi-line slot without a label
	block Slot
}

var panelLayout = []panelSection{
	{
		title: "Research",
		rows: []panelRow{
			{SlotQuery, "Query"},
			{SlotStatus, "Status"},
			{SlotMode, "Mode"},
			{SlotProgressBar, "Progress"},
			{SlotCreated, "Created"},
			{SlotCompleted, "Completed"},
			{SlotDuration, "Duration"},
		},
	},
	{
		title: "Tokens",
		rows: []panelRow{
			{SlotTotalTokens, "Total"},
			{SlotPromptTokens, "Input"},
			{SlotCompletionTokens, "Output"},
			{SlotTotalCalls, "Calls"},
			{SlotAvgResponseTime, "Avg Response"},
			{SlotSuccessRate, "Success Rate"},
			{SlotTokenRate, "Rate"},
			{SlotTotalCost, "Cost"},
		},
	},
	{
		title: "Search",
		rows: []panelRow{
			{SlotTotalSearches, "Searches"},
			{SlotSearchSuccessRate, "Success Rate"},
			{SlotSearchAvgTime, "Avg Response"},
		},
	},
	{title: "Models", block: SlotModelUsage},
	{title: "Phases", block: SlotPhases},
	{title: "Engines", block: SlotEngines},
	{title: "Token Usage", block: SlotChart},
}

// PanelTarget lays slots out as a styled terminal panel. Sections whose slots were never
// set are left out of the view.
type PanelTarget struct {
	mu     sync.RWMutex
	title  string
	width  int
	values map[Slot]string
	known  map[Slot]bool
}

// NewPanelTarget exposes the given slots, or every slot of the panel layout when none
// are passed.
func NewPanelTarget(title string, width int, slots ...Slot) *PanelTarget {
	known := make(map[Slot]bool)
	if len(slots) == 0 {
		for _, s := range SummarySlots {
			known[s] = true
		}
		for _, s := range MetricsSlots {
			known[s] = true
		}
	}
	for _, s := range slots {
		known[s] = true
	}
	return &PanelTarget{
		title:  title,
		width:  width,
		values: make(map[Slot]string),
		known:  known,
	}
}

func (p *PanelTarget) Has(slot Slot) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.known[slot]
}

func (p *PanelTarget) SetText(slot Slot, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.known[slot] {
		p.values[slot] = text
	}
}

// Text returns the plain text last set on slot.
func (p *PanelTarget) Text(slot Slot) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.values[slot]
}

// View renders the current panel.
func (p *PanelTarget) View() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	labelWidth := 0
	for _, sec := range panelLayout {
		for _, row := range sec.rows {
			if w := lipgloss.Width(row.label); w > labelWidth {
				labelWidth = w
			}
		}
	}
	label := labelStyle.Width(labelWidth + 2)

	var parts []string
	parts = append(parts, titleStyle.Render(p.title))

	for _, sec := range panelLayout {
		var body []string
		if sec.block != "" {
			if text, ok := p.values[sec.block]; ok {
				body = append(body, text)
			}
		}
		for _, row := range sec.rows {
			text, ok := p.values[row.slot]
			if !ok {
				continue
			}
			switch row.slot {
			case SlotStatus:
				text = StatusStyle(statusFromLabel(text)).Render(text)
			case SlotProgressBar:
				if pct, ok := p.values[SlotProgressPct]; ok {
					text += " " + pct
				}
			}
			body = append(body, lipgloss.JoinHorizontal(lipgloss.Top, label.Render(row.label), text))
		}
		if len(body) == 0 {
			continue
		}
		parts = append(parts, "", sectionStyle.Render(sec.title))
		parts = append(parts, body...)
	}

	if msg := p.values[SlotMessage]; msg != "" {
		parts = append(parts, "", messageStyle.Render(msg))
	}

	style := panelStyle
	if p.width > 4 {
		style = style.Width(p.width - 2)
	}
	return style.Render(strings.Join(parts, "\n"))
}

// statusFromLabel maps a display label back to its status so the panel can color it.
func statusFromLabel(label string) model.Status {
	switch label {
	case "Completed":
		return model.StatusCompleted
	case "Failed":
		return model.StatusFailed
	case "In Progress":
		return model.StatusInProgress
	case "Suspended":
		return model.StatusSuspended
	case "Pending":
		return model.StatusPending
	default:
		return model.Status("")
	}
}
