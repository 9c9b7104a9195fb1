// Package history keeps the research list shown by the history view.
package history

import (
	"strings"
	"sync"

	"github.com/penwyp/go-research-monitor/internal/core/model"
	"github.com/penwyp/go-research-monitor/internal/presentation/interaction"
)

// List holds every loaded record and the subset matching the current search term.
// Both slices keep the same order.
type List struct {
	mu       sync.RWMutex
	all      []model.ResearchRecord
	filtered []model.ResearchRecord
	term     string
}

// NewList copies items and orders them newest first.
func NewList(items []model.ResearchRecord) *List {
	return NewSortedList(items, interaction.NewRecordSorter())
}

// NewSortedList copies items and orders them with sorter.
func NewSortedList(items []model.ResearchRecord, sorter *interaction.RecordSorter) *List {
	all := make([]model.ResearchRecord, len(items))
	copy(all, items)
	sorter.Sort(all)

	l := &List{all: all}
	l.filtered = l.match("")
	return l
}

// Filter keeps the records whose query contains term, ignoring case. An empty or blank
// term shows everything again. It returns the number of visible records.
func (l *List) Filter(term string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.term = strings.ToLower(strings.TrimSpace(term))
	l.filtered = l.match(l.term)
	return len(l.filtered)
}

// Remove deletes the record with id from both lists and reports whether it was present.
func (l *List) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	var found bool
	l.all, found = without(l.all, id)
	l.filtered, _ = without(l.filtered, id)
	return found
}

// Clear empties the list.
func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.all = []model.ResearchRecord{}
	l.filtered = []model.ResearchRecord{}
}

// All returns a copy of every record.
func (l *List) All() []model.ResearchRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clone(l.all)
}

// Visible returns a copy of the records matching the current filter.
func (l *List) Visible() []model.ResearchRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clone(l.filtered)
}

// Term is the active search term, lower-cased.
func (l *List) Term() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.term
}

func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.all)
}

func (l *List) match(term string) []model.ResearchRecord {
	out := make([]model.ResearchRecord, 0, len(l.all))
	for _, rec := range l.all {
		if term == "" || strings.Contains(strings.ToLower(rec.Query), term) {
			out = append(out, rec)
		}
	}
	return out
}

func without(records []model.ResearchRecord, id string) ([]model.ResearchRecord, bool) {
	out := make([]model.ResearchRecord, 0, len(records))
	found := false
	for _, rec := range records {
		if rec.ID.String() == id {
			found = true
			continue
		}
		out = append(out, rec)
	}
	return out, found
}

func clone(records []model.ResearchRecord) []model.ResearchRecord {
	out := make([]model.ResearchRecord, len(records))
	copy(out, records)
	return out
}
