package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/penwyp/go-research-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 0)
}

func TestHistory(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/research/api/history", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`{"items":[{"id":1,"query":"apple pie","status":"completed"},{"id":"2","query":"banana"}]}`))
	})

	items, err := c.History(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, model.FlexibleID("1"), items[0].ID)
	assert.Equal(t, model.StatusCompleted, items[0].Status)
	assert.Equal(t, "banana", items[1].Query)
}

func TestDetailsFillsMissingID(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/research/details/abc%20def", r.URL.EscapedPath())
		w.Write([]byte(`{"status":"in_progress","progress_percentage":35}`))
	})

	rec, err := c.Details(context.Background(), "abc def")
	require.NoError(t, err)
	assert.Equal(t, model.FlexibleID("abc def"), rec.ID)
	assert.Equal(t, 35.0, rec.Percent())
}

func TestFetchErrorCarriesStatus(t *testing.T) {
	var calls int32
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := c.Details(context.Background(), "missing")
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Equal(t, http.MethodGet, fe.Method)
	assert.NotEmpty(t, fe.RequestID)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.False(t, errors.Is(err, ErrDataShape))
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "single attempt, no retry")
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := New(base, 0).History(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.Equal(t, 0, StatusCode(err))
}

func TestMalformedJSONIsDataShapeError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [`))
	})

	_, err := c.History(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataShape))
	assert.False(t, errors.Is(err, ErrNetwork))
}

func TestEnvelopeErrorIsDataShapeError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"research not found"}`))
	})

	_, err := c.Timeline(context.Background(), "9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataShape))
	assert.Contains(t, err.Error(), "research not found")
}

func TestMetricsEndpoints(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/metrics/research/5":
			w.Write([]byte(`{"status":"success","metrics":{"total_tokens":300,"total_calls":2,"model_usage":[{"model_name":"gpt-4o","tokens":300,"calls":2}]}}`))
		case "/metrics/research/5/timeline":
			w.Write([]byte(`{"status":"success","metrics":{"timeline":[{"tokens":100},{"tokens":200}],"phase_stats":{"init":{"tokens":300,"count":2}}}}`))
		case "/metrics/research/5/search":
			w.Write([]byte(`{"status":"success","metrics":{"total_searches":1,"search_calls":[{"engine":"searxng","results_count":10,"success_status":"success"}]}}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	metrics, err := c.Metrics(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, 300, metrics.Metrics.TotalTokens)
	require.Len(t, metrics.Metrics.ModelUsage, 1)

	timeline, err := c.Timeline(ctx, "5")
	require.NoError(t, err)
	assert.Len(t, timeline.Metrics.Timeline, 2)
	assert.Equal(t, 2, timeline.Metrics.PhaseStats["init"].Count)

	search, err := c.SearchMetrics(ctx, "5")
	require.NoError(t, err)
	require.Len(t, search.Metrics.SearchCalls, 1)
	assert.Equal(t, "searxng", search.Metrics.SearchCalls[0].Engine)
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		want      string
		wantShape bool
	}{
		{name: "content present", body: `{"status":"success","content":"# Report"}`, want: "# Report"},
		{name: "empty content allowed", body: `{"content":""}`, want: ""},
		{name: "missing content", body: `{"status":"success"}`, wantShape: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/research/api/markdown/3", r.URL.Path)
				w.Write([]byte(tt.body))
			})

			content, err := c.Markdown(context.Background(), "3")
			if tt.wantShape {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrDataShape))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, content)
		})
	}
}

func TestDeleteAndClear(t *testing.T) {
	var seen []string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.URL.Path == "/research/api/clear_history" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.Write([]byte(`{"status":"success","message":"deleted"}`))
	})
	ctx := context.Background()

	ack, err := c.Delete(ctx, "12")
	require.NoError(t, err)
	assert.Equal(t, "deleted", ack.Message)

	ack, err = c.ClearHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", ack.Status)

	assert.Equal(t, []string{
		"DELETE /research/api/delete/12",
		"POST /research/api/clear_history",
	}, seen)
}
