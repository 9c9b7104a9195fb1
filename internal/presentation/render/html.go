package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/penwyp/go-research-monitor/internal/core/model"
	"github.com/penwyp/go-research-monitor/internal/data/aggregator"
	"github.com/penwyp/go-research-monitor/internal/util"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ReportPage is everything a standalone HTML report shows.
type ReportPage struct {
	Record      *model.ResearchRecord
	Report      *aggregator.Report
	Markdown    string
	GeneratedAt time.Time
}

type reportView struct {
	Title       string
	Query       string
	Status      string
	Mode        string
	Created     string
	Completed   string
	Duration    string
	Stats       [][2]string
	Phases      []aggregator.PhaseSummary
	Engines     []model.EngineStat
	Models      []model.ModelUsage
	Body        template.HTML
	Generated   string
	Placeholder string
}

var reportFuncs = template.FuncMap{
	"thousands":    util.FormatThousands,
	"responseTime": util.FormatResponseTime,
	"percent":      util.FormatPercent,
	"phase":        util.FormatPhase,
	"model":        util.ShortModelName,
}

var reportTemplate = template.Must(template.New("report").Funcs(reportFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; margin: 2rem auto; max-width: 960px; color: #1a202c; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #cbd5e0; padding: 4px 10px; text-align: left; }
.meta td:first-child { font-weight: bold; color: #4a5568; }
.muted { color: #718096; }
</style>
</head>
<body>
<h1>{{.Query}}</h1>
<table class="meta">
<tr><td>Status</td><td>{{.Status}}</td></tr>
<tr><td>Mode</td><td>{{.Mode}}</td></tr>
<tr><td>Created</td><td>{{.Created}}</td></tr>
<tr><td>Completed</td><td>{{.Completed}}</td></tr>
<tr><td>Duration</td><td>{{.Duration}}</td></tr>
</table>
{{if .Stats}}
<h2>Metrics</h2>
<table class="meta">
{{range .Stats}}<tr><td>{{index . 0}}</td><td>{{index . 1}}</td></tr>
{{end}}</table>
{{end}}
{{if .Models}}
<h2>Model Usage</h2>
<table>
<tr><th>Model</th><th>Provider</th><th>Tokens</th><th>Calls</th></tr>
{{range .Models}}<tr><td>{{model .ModelName}}</td><td>{{.ModelProvider}}</td><td>{{thousands .Tokens}}</td><td>{{thousands .Calls}}</td></tr>
{{end}}</table>
{{end}}
{{if .Phases}}
<h2>Phases</h2>
<table>
<tr><th>Phase</th><th>Tokens</th><th>Calls</th><th>Avg Time</th></tr>
{{range .Phases}}<tr><td>{{phase .Phase}}</td><td>{{thousands .Tokens}}</td><td>{{thousands .Count}}</td><td>{{responseTime .AvgResponseTime}}</td></tr>
{{end}}</table>
{{end}}
{{if .Engines}}
<h2>Search Engines</h2>
<table>
<tr><th>Engine</th><th>Calls</th><th>Results</th><th>Avg Time</th><th>Success</th></tr>
{{range .Engines}}<tr><td>{{.Engine}}</td><td>{{thousands .CallCount}}</td><td>{{thousands .TotalResults}}</td><td>{{responseTime .AvgResponseTime}}</td><td>{{percent .SuccessRate}}</td></tr>
{{end}}</table>
{{end}}
<h2>Report</h2>
{{if .Body}}<article>{{.Body}}</article>{{else}}<p class="muted">{{.Placeholder}}</p>{{end}}
<p class="muted">Generated {{.Generated}}</p>
</body>
</html>
`))

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithXHTML()),
)

// MarkdownToHTML converts report markdown. Raw HTML in the source is dropped and unsafe
// link schemes are removed, so the result can be embedded without further escaping.
func MarkdownToHTML(source string) (template.HTML, error) {
	if source == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// RenderReportHTML writes a self-contained HTML report. Every record and metrics field is
// escaped by html/template.
func RenderReportHTML(w io.Writer, page ReportPage) error {
	view := reportView{
		Title:       "Research Report",
		Query:       util.Placeholder,
		Status:      util.FormatStatus(""),
		Mode:        util.Placeholder,
		Created:     util.Placeholder,
		Completed:   util.Placeholder,
		Duration:    util.Placeholder,
		Placeholder: NoDataPlaceholder,
	}

	if rec := page.Record; rec != nil {
		view.Title = "Research Report: " + util.Truncate(rec.Query, 80)
		view.Query = util.OrPlaceholder(rec.Query)
		view.Status = util.FormatStatus(string(rec.Status))
		view.Mode = util.FormatMode(rec.Mode)
		view.Created = util.FormatDate(rec.CreatedTime())
		view.Completed = util.FormatDate(rec.CompletedTime())
		view.Duration = util.FormatSeconds(rec.Duration())
	}

	if rep := page.Report; rep != nil {
		view.Stats = [][2]string{
			{"Total Tokens", util.FormatThousands(rep.Tokens.TotalTokens)},
			{"Total Calls", util.FormatThousands(rep.Tokens.TotalCalls)},
			{"Avg Response Time", util.FormatResponseTime(rep.Timeline.AvgResponseTimeMs)},
			{"Success Rate", util.FormatPercent(rep.Timeline.SuccessRate)},
			{"Total Searches", util.FormatThousands(rep.Search.TotalSearches)},
			{"Total Cost", CostPlaceholder},
		}
		view.Models = rep.Tokens.Models
		view.Phases = rep.Timeline.Phases
		view.Engines = rep.Search.Engines
	}

	body, err := MarkdownToHTML(page.Markdown)
	if err != nil {
		return err
	}
	view.Body = body

	generated := page.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	view.Generated = util.GetTimeProvider().Format(generated, "2006-01-02 15:04")

	if err := reportTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
