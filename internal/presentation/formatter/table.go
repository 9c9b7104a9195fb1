package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-research-monitor/internal/util"
)

const maxQueryWidth = 48

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"ID", "Query", "Status", "Mode", "Progress", "Created", "Duration"},
	}
}

func (f *TableFormatter) Format(w io.Writer, rows []HistoryRow) error {
	values := make([][]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, f.rowValues(row))
	}

	widths := f.calculateColumnWidths(values)

	f.printBorder(w, widths, "top")
	f.printRow(w, f.headers, widths)
	f.printBorder(w, widths, "middle")
	for _, v := range values {
		f.printRow(w, v, widths)
	}
	if len(values) == 0 {
		f.printRow(w, f.emptyRow(), widths)
	}
	f.printBorder(w, widths, "bottom")

	_, err := fmt.Fprintf(w, "%d research item(s)\n", len(rows))
	return err
}

func (f *TableFormatter) rowValues(row HistoryRow) []string {
	return []string{
		util.OrPlaceholder(row.ID),
		util.Truncate(util.OrPlaceholder(row.Query), maxQueryWidth),
		util.FormatStatus(row.Status),
		util.FormatMode(row.Mode),
		fmt.Sprintf("%.0f%%", row.Progress),
		util.FormatDate(row.record.CreatedTime()),
		util.FormatSeconds(row.DurationSeconds),
	}
}

func (f *TableFormatter) emptyRow() []string {
	row := make([]string, len(f.headers))
	row[1] = "No research history"
	return row
}

// calculateColumnWidths sizes each column to its widest cell, by display width
func (f *TableFormatter) calculateColumnWidths(values [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	rows := append(values, f.emptyRow())
	for _, row := range rows {
		for i, cell := range row {
			if w := util.GetDisplayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(w io.Writer, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var b strings.Builder
	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	fmt.Fprintln(w, b.String())
}

// printRow left-aligns text columns and right-aligns the numeric ones
func (f *TableFormatter) printRow(w io.Writer, values []string, widths []int) {
	var b strings.Builder
	b.WriteString("│")
	for i, value := range values {
		b.WriteString(" ")
		if f.headers[i] == "Progress" || f.headers[i] == "Duration" {
			b.WriteString(util.PadLeft(value, widths[i]))
		} else {
			b.WriteString(util.PadRight(value, widths[i]))
		}
		b.WriteString(" │")
	}
	fmt.Fprintln(w, b.String())
}
