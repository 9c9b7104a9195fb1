package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, rows []HistoryRow) error {
	cw := csv.NewWriter(w)

	headers := []string{"ID", "Query", "Status", "Mode", "Progress", "Created At", "Completed At", "Duration (s)"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.ID,
			row.Query,
			row.Status,
			row.Mode,
			fmt.Sprintf("%.0f", row.Progress),
			row.CreatedAt,
			row.CompletedAt,
			fmt.Sprintf("%.0f", row.DurationSeconds),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
