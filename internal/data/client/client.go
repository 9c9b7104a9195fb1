package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/penwyp/go-research-monitor/internal/core/model"
	"github.com/penwyp/go-research-monitor/internal/util"
)

const (
	historyPath      = "/research/api/history"
	detailsPath      = "/research/details/%s"
	metricsPath      = "/metrics/research/%s"
	timelinePath     = "/metrics/research/%s/timeline"
	searchPath       = "/metrics/research/%s/search"
	deletePath       = "/research/api/delete/%s"
	clearHistoryPath = "/research/api/clear_history"
	markdownPath     = "/research/api/markdown/%s"

	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 512
)

// Client issues single-attempt requests against the research service. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL. A zero timeout leaves the platform default in place.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient creates a client using a caller-supplied http.Client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// History lists all research records.
func (c *Client) History(ctx context.Context) ([]model.ResearchRecord, error) {
	var resp model.HistoryResponse
	if err := c.getJSON(ctx, historyPath, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Details fetches the latest state of one research record.
func (c *Client) Details(ctx context.Context, id string) (*model.ResearchRecord, error) {
	var rec model.ResearchRecord
	if err := c.getJSON(ctx, fmt.Sprintf(detailsPath, url.PathEscape(id)), &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		rec.ID = model.FlexibleID(id)
	}
	return &rec, nil
}

// Metrics fetches token totals and model usage.
func (c *Client) Metrics(ctx context.Context, id string) (*model.MetricsResponse, error) {
	var resp model.MetricsResponse
	path := fmt.Sprintf(metricsPath, url.PathEscape(id))
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(c.baseURL+path, resp.Status, resp.Message); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Timeline fetches the ordered call timeline.
func (c *Client) Timeline(ctx context.Context, id string) (*model.TimelineResponse, error) {
	var resp model.TimelineResponse
	path := fmt.Sprintf(timelinePath, url.PathEscape(id))
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(c.baseURL+path, resp.Status, resp.Message); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchMetrics fetches search-engine call statistics.
func (c *Client) SearchMetrics(ctx context.Context, id string) (*model.SearchResponse, error) {
	var resp model.SearchResponse
	path := fmt.Sprintf(searchPath, url.PathEscape(id))
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	if err := checkEnvelope(c.baseURL+path, resp.Status, resp.Message); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Markdown fetches the rendered report. A response without content is a DataShapeError.
func (c *Client) Markdown(ctx context.Context, id string) (string, error) {
	var resp model.MarkdownResponse
	path := fmt.Sprintf(markdownPath, url.PathEscape(id))
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return "", err
	}
	if resp.Content == nil {
		return "", &DataShapeError{URL: c.baseURL + path, Reason: "missing content"}
	}
	return *resp.Content, nil
}

// Delete removes a research record.
func (c *Client) Delete(ctx context.Context, id string) (*model.Ack, error) {
	var ack model.Ack
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf(deletePath, url.PathEscape(id)), &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// ClearHistory removes every research record.
func (c *Client) ClearHistory(ctx context.Context) (*model.Ack, error) {
	var ack model.Ack
	if err := c.do(ctx, http.MethodPost, clearHistoryPath, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, out)
}

func (c *Client) do(ctx context.Context, method, path string, out interface{}) error {
	fullURL := c.baseURL + path
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return &FetchError{Method: method, URL: fullURL, RequestID: requestID, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		util.LogDebug("request failed", util.F("method", method), util.F("url", fullURL),
			util.F("request_id", requestID), util.F("error", err.Error()))
		return &FetchError{Method: method, URL: fullURL, RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	util.LogDebug("request completed", util.F("method", method), util.F("url", fullURL),
		util.F("request_id", requestID), util.F("status", resp.StatusCode),
		util.F("elapsed_ms", time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{
			Method:     method,
			URL:        fullURL,
			StatusCode: resp.StatusCode,
			RequestID:  requestID,
			Err:        fmt.Errorf("%s", snippet(body)),
		}
	}
	if err != nil {
		return &FetchError{Method: method, URL: fullURL, RequestID: requestID, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if out == nil || len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return &DataShapeError{URL: fullURL, Reason: "failed to decode JSON", Err: err}
	}
	return nil
}

func checkEnvelope(fullURL, status, message string) error {
	if status != model.EnvelopeError {
		return nil
	}
	return &DataShapeError{URL: fullURL, Reason: "service reported error: " + util.OrPlaceholder(message)}
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	if s == "" {
		return "empty response body"
	}
	return s
}
