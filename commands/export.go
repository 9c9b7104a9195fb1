package commands

import (
	"fmt"
	"path/filepath"

	"github.com/penwyp/go-research-monitor/internal/config"
	"github.com/penwyp/go-research-monitor/internal/presentation/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
	exportStdout bool
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export the report of a research",
	Long: `Writes the report of a finished research as Markdown, HTML or PDF.

Without --out the file is named research_<id>.<ext> and placed in the configured export
directory, or the current directory when none is configured.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "",
		"Export format (md, html, pdf)")
	exportCmd.Flags().StringVar(&exportOut, "out", "",
		"Output file path")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false,
		"Write the report to stdout instead of a file")
}

func runExport(cmd *cobra.Command, args []string) error {
	id := args[0]

	name := exportFormat
	if name == "" {
		name = cfg.ExportFormat
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	exporter := export.NewExporter(newClient())
	if exportStdout {
		return exporter.Export(cmd.Context(), id, format, cmd.OutOrStdout())
	}

	path := exportOut
	if path == "" && cfg.ExportDir != "" {
		path = filepath.Join(config.ExpandPath(cfg.ExportDir), export.DefaultFileName(id, format))
	}
	written, err := exporter.ExportToFile(cmd.Context(), id, format, path)
	if err != nil {
		return fmt.Errorf("failed to export research %s: %w", id, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", written)
	return nil
}
