package render

import (
	"sort"
	"sync"
)

// Slot names a place in the output that a renderer can fill.
type Slot string

const (
	SlotQuery       Slot = "research-query"
	SlotStatus      Slot = "research-status"
	SlotMode        Slot = "research-mode"
	SlotProgressBar Slot = "progress-bar"
	SlotProgressPct Slot = "progress-percentage"
	SlotCreated     Slot = "research-created"
	SlotCompleted   Slot = "research-completed"
	SlotDuration    Slot = "research-duration"
	SlotMessage     Slot = "message"

	SlotTotalTokens      Slot = "total-tokens"
	SlotPromptTokens     Slot = "prompt-tokens"
	SlotCompletionTokens Slot = "completion-tokens"
	SlotTotalCalls       Slot = "total-calls"
	SlotAvgResponseTime  Slot = "avg-response-time"
	SlotSuccessRate      Slot = "success-rate"
	SlotTokenRate        Slot = "tokens-per-second"
	SlotTotalCost        Slot = "total-cost"

	SlotTotalSearches     Slot = "total-searches"
	SlotSearchSuccessRate Slot = "search-success-rate"
	SlotSearchAvgTime     Slot = "search-avg-response-time"

	SlotModelUsage Slot = "model-usage"
	SlotPhases     Slot = "phase-breakdown"
	SlotEngines    Slot = "engine-breakdown"
	SlotChart      Slot = "token-chart"
)

// SummarySlots are refreshed by every poll tick.
var SummarySlots = []Slot{
	SlotQuery, SlotStatus, SlotMode, SlotProgressBar, SlotProgressPct,
	SlotCreated, SlotCompleted, SlotDuration, SlotMessage,
}

// MetricsSlots are filled once when the full metrics are loaded.
var MetricsSlots = []Slot{
	SlotTotalTokens, SlotPromptTokens, SlotCompletionTokens, SlotTotalCalls, SlotAvgResponseTime,
	SlotSuccessRate, SlotTokenRate, SlotTotalCost, SlotTotalSearches, SlotSearchSuccessRate,
	SlotSearchAvgTime, SlotModelUsage, SlotPhases, SlotEngines, SlotChart,
}

// Target is a rendering destination. Renderers check Has before writing, so a target that
// lacks a slot simply never receives it.
type Target interface {
	Has(slot Slot) bool
	SetText(slot Slot, text string)
}

func set(t Target, slot Slot, text string) {
	if t == nil || !t.Has(slot) {
		return
	}
	t.SetText(slot, text)
}

// MapTarget keeps slot text in memory. Only the slots it was created with exist.
type MapTarget struct {
	mu    sync.RWMutex
	slots map[Slot]string
	known map[Slot]bool
}

// NewMapTarget creates a target exposing exactly the given slots.
func NewMapTarget(slots ...Slot) *MapTarget {
	known := make(map[Slot]bool, len(slots))
	for _, s := range slots {
		known[s] = true
	}
	return &MapTarget{slots: make(map[Slot]string), known: known}
}

func (m *MapTarget) Has(slot Slot) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.known[slot]
}

func (m *MapTarget) SetText(slot Slot, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.known[slot] {
		m.slots[slot] = text
	}
}

// Text returns the current text of slot.
func (m *MapTarget) Text(slot Slot) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[slot]
}

// Filled lists the slots that have received text, sorted.
func (m *MapTarget) Filled() []Slot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Slot, 0, len(m.slots))
	for s := range m.slots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
