package commands

import (
	"fmt"

	"github.com/penwyp/go-research-monitor/internal/application/history"
	"github.com/penwyp/go-research-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-research-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-research-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	historySearch string
	historyOutput string
	historyLimit  int
	historySort   string
	historyAsc    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List research history",
	Long: `Lists every research known to the service, newest first.

A search term keeps only the research whose query contains it, ignoring case.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVarP(&historySearch, "search", "s", "",
		"Only show research whose query contains this term")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "",
		"Output format (table, json, csv, summary)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0,
		"Limit result count (0 = unlimited)")
	historyCmd.Flags().StringVar(&historySort, "sort", "",
		"Sort field (created, status, duration, query)")
	historyCmd.Flags().BoolVar(&historyAsc, "asc", false,
		"Sort ascending instead of descending")
}

func runHistory(cmd *cobra.Command, args []string) error {
	output := historyOutput
	if output == "" {
		output = cfg.HistoryOutput
	}
	f, err := formatter.New(output)
	if err != nil {
		return err
	}

	sortBy := historySort
	if sortBy == "" {
		sortBy = cfg.HistorySort
	}
	field, err := interaction.ParseSortField(sortBy)
	if err != nil {
		return err
	}
	sorter := interaction.NewRecordSorter()
	sorter.SetField(field)
	if historyAsc {
		sorter.SetOrder(interaction.SortAscending)
	}

	items, err := newClient().History(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load research history: %w", err)
	}

	list := history.NewSortedList(items, sorter)
	visible := list.Filter(historySearch)
	util.LogDebug("History loaded",
		util.F("total", list.Len()),
		util.F("visible", visible),
		util.F("search", list.Term()))

	records := list.Visible()
	if historyLimit > 0 && len(records) > historyLimit {
		records = records[:historyLimit]
	}
	return f.Format(cmd.OutOrStdout(), formatter.RowsFromRecords(records))
}
