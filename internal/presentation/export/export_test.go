package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/penwyp/go-research-monitor/internal/core/model"
	"github.com/penwyp/go-research-monitor/internal/data/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	record      *model.ResearchRecord
	markdown    string
	markdownErr error
	metricsErr  error
	calls       []string
}

func (f *fakeSource) Details(ctx context.Context, id string) (*model.ResearchRecord, error) {
	f.calls = append(f.calls, "details")
	if f.record == nil {
		return nil, &client.FetchError{Method: "GET", URL: "/research/details/" + id, StatusCode: 404}
	}
	return f.record, nil
}

func (f *fakeSource) Markdown(ctx context.Context, id string) (string, error) {
	f.calls = append(f.calls, "markdown")
	return f.markdown, f.markdownErr
}

func (f *fakeSource) Metrics(ctx context.Context, id string) (*model.MetricsResponse, error) {
	f.calls = append(f.calls, "metrics")
	if f.metricsErr != nil {
		return nil, f.metricsErr
	}
	return &model.MetricsResponse{Metrics: model.TokenMetrics{TotalTokens: 4321, TotalCalls: 3}}, nil
}

func (f *fakeSource) Timeline(ctx context.Context, id string) (*model.TimelineResponse, error) {
	f.calls = append(f.calls, "timeline")
	if f.metricsErr != nil {
		return nil, f.metricsErr
	}
	return &model.TimelineResponse{}, nil
}

func (f *fakeSource) SearchMetrics(ctx context.Context, id string) (*model.SearchResponse, error) {
	f.calls = append(f.calls, "search")
	if f.metricsErr != nil {
		return nil, f.metricsErr
	}
	return &model.SearchResponse{}, nil
}

const sampleMarkdown = `# Apple Pie

Some **bold** and *italic* text with ` + "`code`" + `.

- first
- second
  1. nested

| Source | Results |
|--------|---------|
| searxng | 12 |

---

` + "```\nfenced code\n```\n"

func newSource() *fakeSource {
	return &fakeSource{
		record:   &model.ResearchRecord{ID: "12", Query: "apple pie <b>", Status: model.StatusCompleted},
		markdown: sampleMarkdown,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"Markdown", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{" PDF ", FormatPDF, false},
		{"docx", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "research_12.md", DefaultFileName("12", FormatMarkdown))
	assert.Equal(t, "research_abc.pdf", DefaultFileName("abc", FormatPDF))
}

func TestExportMarkdown(t *testing.T) {
	src := newSource()
	var buf bytes.Buffer
	require.NoError(t, NewExporter(src).Export(context.Background(), "12", FormatMarkdown, &buf))

	assert.Equal(t, sampleMarkdown, buf.String())
	assert.Equal(t, []string{"markdown"}, src.calls)
}

func TestExportMissingContent(t *testing.T) {
	src := newSource()
	src.markdownErr = &client.DataShapeError{URL: "/research/api/markdown/12", Reason: "missing content"}

	var buf bytes.Buffer
	err := NewExporter(src).Export(context.Background(), "12", FormatHTML, &buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrDataShape))
	assert.Zero(t, buf.Len())
}

func TestExportHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter(newSource()).Export(context.Background(), "12", FormatHTML, &buf))

	out := buf.String()
	assert.Contains(t, out, "apple pie &lt;b&gt;")
	assert.Contains(t, out, "<h1>Apple Pie</h1>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "4,321")
}

func TestExportHTMLWithoutMetrics(t *testing.T) {
	src := newSource()
	src.metricsErr = &client.FetchError{Method: "GET", URL: "/metrics/research/12", StatusCode: 500}

	var buf bytes.Buffer
	require.NoError(t, NewExporter(src).Export(context.Background(), "12", FormatHTML, &buf))
	assert.Contains(t, buf.String(), "<h1>Apple Pie</h1>")
	assert.NotContains(t, buf.String(), "4,321")
}

func TestExportPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExporter(newSource()).Export(context.Background(), "12", FormatPDF, &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestExportPDFWithoutDetails(t *testing.T) {
	src := newSource()
	src.record = nil

	var buf bytes.Buffer
	require.NoError(t, NewExporter(src).Export(context.Background(), "12", FormatPDF, &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestMarkdownToPDFHandlesUnicodeAndEmpty(t *testing.T) {
	data, err := MarkdownToPDF("# Café — naïve\n\n量子 text", "Café")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	data, err = MarkdownToPDF("", "empty")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(newSource())

	path, err := exporter.ExportToFile(context.Background(), "12", FormatMarkdown, filepath.Join(dir, "nested", "out.md"))
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleMarkdown, string(data))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	path, err = exporter.ExportToFile(context.Background(), "12", FormatHTML, "")
	require.NoError(t, err)
	assert.Equal(t, "research_12.html", path)
	_, err = os.Stat(filepath.Join(dir, "research_12.html"))
	assert.NoError(t, err)
}

func TestExportToFileDoesNotWriteOnError(t *testing.T) {
	dir := t.TempDir()
	src := newSource()
	src.markdownErr = errors.New("boom")

	target := filepath.Join(dir, "out.md")
	_, err := NewExporter(src).ExportToFile(context.Background(), "12", FormatMarkdown, target)
	require.Error(t, err)
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))
}
