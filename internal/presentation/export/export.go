// Package export writes research reports to Markdown, HTML and PDF files.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-research-monitor/internal/core/model"
	"github.com/penwyp/go-research-monitor/internal/data/aggregator"
	"github.com/penwyp/go-research-monitor/internal/presentation/render"
	"github.com/penwyp/go-research-monitor/internal/util"
)

type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

// ParseFormat accepts the --format values, including the long "markdown" spelling.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// DefaultFileName is research_<id>.<ext>.
func DefaultFileName(id string, format Format) string {
	return fmt.Sprintf("research_%s.%s", id, format)
}

// Source is the subset of the API client the exporter reads from.
type Source interface {
	Details(ctx context.Context, id string) (*model.ResearchRecord, error)
	Markdown(ctx context.Context, id string) (string, error)
	Metrics(ctx context.Context, id string) (*model.MetricsResponse, error)
	Timeline(ctx context.Context, id string) (*model.TimelineResponse, error)
	SearchMetrics(ctx context.Context, id string) (*model.SearchResponse, error)
}

type Exporter struct {
	src Source
}

func NewExporter(src Source) *Exporter {
	return &Exporter{src: src}
}

// Export writes the report of research id to w.
func (e *Exporter) Export(ctx context.Context, id string, format Format, w io.Writer) error {
	content, err := e.src.Markdown(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}

	switch format {
	case FormatMarkdown:
		_, err = io.WriteString(w, content)
		return err

	case FormatHTML:
		rec, err := e.src.Details(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load research details: %w", err)
		}
		report := e.loadReport(ctx, id)
		return render.RenderReportHTML(w, render.ReportPage{
			Record:   rec,
			Report:   &report,
			Markdown: content,
		})

	case FormatPDF:
		title := "Research Report"
		if rec, err := e.src.Details(ctx, id); err == nil && rec.Query != "" {
			title = rec.Query
		} else if err != nil {
			util.LogWarn("Failed to load research details for PDF title", util.F("id", id), util.F("error", err))
		}
		data, err := MarkdownToPDF(content, title)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err

	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportToFile writes the report to path, or to the default file name in the current
// directory when path is empty. It returns the path written.
func (e *Exporter) ExportToFile(ctx context.Context, id string, format Format, path string) (string, error) {
	if path == "" {
		path = DefaultFileName(id, format)
	}

	var buf bytes.Buffer
	if err := e.Export(ctx, id, format, &buf); err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	util.LogInfo("Exported research report", util.F("id", id), util.F("format", string(format)), util.F("path", path), util.F("bytes", buf.Len()))
	return path, nil
}

// loadReport fetches the three metrics payloads. A failed payload only leaves its section
// empty in the report.
func (e *Exporter) loadReport(ctx context.Context, id string) aggregator.Report {
	metrics, err := e.src.Metrics(ctx, id)
	if err != nil {
		util.LogWarn("Failed to load token metrics", util.F("id", id), util.F("error", err))
	}
	timeline, err := e.src.Timeline(ctx, id)
	if err != nil {
		util.LogWarn("Failed to load timeline metrics", util.F("id", id), util.F("error", err))
	}
	search, err := e.src.SearchMetrics(ctx, id)
	if err != nil {
		util.LogWarn("Failed to load search metrics", util.F("id", id), util.F("error", err))
	}
	return aggregator.BuildReport(metrics, timeline, search)
}
