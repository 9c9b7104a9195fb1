package commands

import (
	"fmt"

	"github.com/penwyp/go-research-monitor/internal/application/details"
	"github.com/penwyp/go-research-monitor/internal/core/model"
	"github.com/penwyp/go-research-monitor/internal/data/aggregator"
	"github.com/penwyp/go-research-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-research-monitor/internal/presentation/render"
	"github.com/penwyp/go-research-monitor/internal/util"
	"github.com/spf13/cobra"
)

var metricsOutput string

var metricsCmd = &cobra.Command{
	Use:   "metrics <id>",
	Short: "Show token and search metrics of a research",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)

	metricsCmd.Flags().StringVarP(&metricsOutput, "output", "o", "text",
		"Output format (text, json)")
}

// metricsDocument is the JSON form of the metrics view.
type metricsDocument struct {
	Research     *model.ResearchRecord `json:"research,omitempty"`
	TokensPerSec float64               `json:"tokens_per_second"`
	Report       *aggregator.Report    `json:"report"`
}

func runMetrics(cmd *cobra.Command, args []string) error {
	if metricsOutput != "text" && metricsOutput != "json" {
		return fmt.Errorf("unsupported output format: %s", metricsOutput)
	}

	id := args[0]
	width := util.TerminalWidth(80)
	target := render.NewPanelTarget(fmt.Sprintf("Research #%s", id), width)
	session := details.NewSession(id, newClient(), render.NewRenderer(width), target, details.Options{})

	// The record only provides the duration for the token rate
	if err := session.Load(cmd.Context()); err != nil {
		util.LogWarn("Research details unavailable", util.F("id", id), util.F("error", err))
	}
	if err := session.LoadMetrics(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load metrics for research %s: %w", id, err)
	}

	if metricsOutput == "json" {
		doc := metricsDocument{Research: session.Record(), Report: session.Report()}
		if doc.Research != nil {
			doc.TokensPerSec = aggregator.TokensPerSecond(doc.Report.Tokens.TotalTokens, doc.Research.Duration())
		}
		return formatter.WriteJSON(cmd.OutOrStdout(), doc)
	}

	fmt.Fprintln(cmd.OutOrStdout(), target.View())
	return nil
}
