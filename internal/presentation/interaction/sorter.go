package interaction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/penwyp/go-research-monitor/internal/core/model"
)

// SortField represents the field to sort research records by
type SortField int

const (
	SortByCreated SortField = iota
	SortByStatus
	SortByDuration
	SortByQuery
)

// SortOrder represents the sort order
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// ParseSortField maps a --sort value to a field.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(s) {
	case "", "created", "time":
		return SortByCreated, nil
	case "status":
		return SortByStatus, nil
	case "duration":
		return SortByDuration, nil
	case "query":
		return SortByQuery, nil
	default:
		return SortByCreated, fmt.Errorf("unsupported sort field: %s", s)
	}
}

// RecordSorter handles sorting of research records
type RecordSorter struct {
	field SortField
	order SortOrder
}

// NewRecordSorter sorts newest first by default
func NewRecordSorter() *RecordSorter {
	return &RecordSorter{
		field: SortByCreated,
		order: SortDescending,
	}
}

func (s *RecordSorter) SetField(field SortField) { s.field = field }

func (s *RecordSorter) SetOrder(order SortOrder) { s.order = order }

// Sort sorts records in place. Ties keep their original relative order.
func (s *RecordSorter) Sort(records []model.ResearchRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if s.order == SortDescending {
			a, b = b, a
		}

		switch s.field {
		case SortByStatus:
			return a.Status < b.Status
		case SortByDuration:
			return a.Duration() < b.Duration()
		case SortByQuery:
			return strings.ToLower(a.Query) < strings.ToLower(b.Query)
		default:
			return a.CreatedTime().Before(b.CreatedTime())
		}
	})
}
