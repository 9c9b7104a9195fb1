package formatter

import (
	"fmt"
	"io"

	"github.com/penwyp/go-research-monitor/internal/core/model"
)

// HistoryRow is one research record as the history formatters print it.
type HistoryRow struct {
	ID              string  `json:"id"`
	Query           string  `json:"query"`
	Status          string  `json:"status"`
	Mode            string  `json:"mode"`
	Progress        float64 `json:"progress_percentage"`
	CreatedAt       string  `json:"created_at"`
	CompletedAt     string  `json:"completed_at,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`

	record model.ResearchRecord
}

// Formatter writes history rows in one output format.
type Formatter interface {
	Format(w io.Writer, rows []HistoryRow) error
}

// RowsFromRecords converts records without changing their order.
func RowsFromRecords(records []model.ResearchRecord) []HistoryRow {
	rows := make([]HistoryRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, HistoryRow{
			ID:              rec.ID.String(),
			Query:           rec.Query,
			Status:          string(rec.Status),
			Mode:            rec.Mode,
			Progress:        rec.Percent(),
			CreatedAt:       rec.CreatedAt,
			CompletedAt:     rec.CompletedAt,
			DurationSeconds: rec.Duration(),
			record:          rec,
		})
	}
	return rows
}

// New returns the formatter for an --output value.
func New(output string) (Formatter, error) {
	switch output {
	case "", "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", output)
	}
}
