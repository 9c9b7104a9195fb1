package formatter

import (
	"fmt"
	"io"
	"sort"

	"github.com/penwyp/go-research-monitor/internal/util"
)

// SummaryFormatter prints counts per status and mode instead of the individual rows.
type SummaryFormatter struct{}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

func (f *SummaryFormatter) Format(w io.Writer, rows []HistoryRow) error {
	byStatus := make(map[string]int)
	byMode := make(map[string]int)
	var totalDuration float64
	var finished int

	for _, row := range rows {
		byStatus[util.FormatStatus(row.Status)]++
		byMode[util.FormatMode(row.Mode)]++
		if row.DurationSeconds > 0 {
			totalDuration += row.DurationSeconds
			finished++
		}
	}

	fmt.Fprintf(w, "Total research: %d\n", len(rows))
	f.printCounts(w, "By status", byStatus)
	f.printCounts(w, "By mode", byMode)

	avg := util.Placeholder
	if finished > 0 {
		avg = util.FormatSeconds(totalDuration / float64(finished))
	}
	_, err := fmt.Fprintf(w, "Average duration: %s\n", avg)
	return err
}

func (f *SummaryFormatter) printCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	width := 0
	for k := range counts {
		keys = append(keys, k)
		if dw := util.GetDisplayWidth(k); dw > width {
			width = dw
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s  %d\n", util.PadRight(k, width), counts[k])
	}
}
