package details

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/penwyp/go-research-monitor/internal/data/client"
	"github.com/penwyp/go-research-monitor/internal/presentation/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

type fakeServer struct {
	*httptest.Server
	mu             sync.Mutex
	statuses       []string
	detailsCalls   atomic.Int32
	metricsFailing bool
}

func newFakeServer(t *testing.T, statuses ...string) *fakeServer {
	fs := &fakeServer{statuses: statuses}
	mux := http.NewServeMux()
	mux.HandleFunc("/research/details/7", func(w http.ResponseWriter, r *http.Request) {
		fs.detailsCalls.Add(1)
		fs.mu.Lock()
		status := fs.statuses[0]
		if len(fs.statuses) > 1 {
			fs.statuses = fs.statuses[1:]
		}
		fs.mu.Unlock()
		w.Write([]byte(`{"id": 7, "query": "apple pie", "mode": "quick", "status": "` + status + `", "progress_percentage": 40, "duration_seconds": 20}`))
	})
	mux.HandleFunc("/metrics/research/7", func(w http.ResponseWriter, r *http.Request) {
		if fs.metricsFailing {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"status": "success", "metrics": {"total_tokens": 3000, "total_calls": 4, "model_usage": [{"model_name": "gpt-4o", "tokens": 3000, "calls": 4}]}}`))
	})
	mux.HandleFunc("/metrics/research/7/timeline", func(w http.ResponseWriter, r *http.Request) {
		if fs.metricsFailing {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"status": "success", "metrics": {"timeline": [
			{"timestamp": "2024-01-15T10:00:00", "tokens": 1000, "prompt_tokens": 800, "completion_tokens": 200, "research_phase": "init", "response_time_ms": 1000, "success_status": "success"},
			{"timestamp": "2024-01-15T10:00:05", "tokens": 2000, "prompt_tokens": 1500, "completion_tokens": 500, "research_phase": "report", "response_time_ms": 3000, "success_status": "success"}
		]}}`))
	})
	mux.HandleFunc("/metrics/research/7/search", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "search metrics unavailable", http.StatusServiceUnavailable)
	})
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func newSession(fs *fakeServer, id string, target render.Target) *Session {
	api := client.New(fs.URL, time.Second)
	return NewSession(id, api, render.NewRenderer(80), target, Options{Interval: 5 * time.Millisecond})
}

func allSlots() []render.Slot {
	return append(append([]render.Slot{}, render.SummarySlots...), render.MetricsSlots...)
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(waitFor):
		t.Fatal("polling did not stop")
	}
}

func TestOpenTerminalRecordDoesNotPoll(t *testing.T) {
	fs := newFakeServer(t, "completed")
	target := render.NewMapTarget(allSlots()...)
	s := newSession(fs, "7", target)

	require.NoError(t, s.Open(context.Background()))
	waitDone(t, s)

	assert.False(t, s.Polling())
	assert.Equal(t, "Completed", target.Text(render.SlotStatus))
	assert.Equal(t, "100%", target.Text(render.SlotProgressPct))
	assert.Equal(t, "apple pie", target.Text(render.SlotQuery))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fs.detailsCalls.Load())
}

func TestOpenPollsUntilTerminal(t *testing.T) {
	fs := newFakeServer(t, "pending", "in_progress", "in_progress", "failed", "in_progress")
	target := render.NewMapTarget(allSlots()...)

	var changes atomic.Int32
	s := NewSession("7", client.New(fs.URL, time.Second), render.NewRenderer(80), target, Options{
		Interval: 5 * time.Millisecond,
		OnChange: func() { changes.Add(1) },
	})

	require.NoError(t, s.Open(context.Background()))
	assert.Equal(t, "Pending", target.Text(render.SlotStatus))
	waitDone(t, s)

	assert.Equal(t, "Failed", target.Text(render.SlotStatus))
	assert.Equal(t, "failed", string(s.Record().Status))
	assert.Equal(t, int32(4), fs.detailsCalls.Load())
	assert.GreaterOrEqual(t, changes.Load(), int32(4))

	// The summary is frozen once the record is terminal
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(4), fs.detailsCalls.Load())
	assert.Equal(t, "Failed", target.Text(render.SlotStatus))
}

func TestOpenNotFound(t *testing.T) {
	fs := newFakeServer(t, "completed")
	target := render.NewMapTarget(allSlots()...)
	s := newSession(fs, "404", target)

	err := s.Open(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, client.StatusCode(err))
	assert.Contains(t, target.Text(render.SlotMessage), "HTTP 404")
	assert.Nil(t, s.Record())

	s.Close()
	waitDone(t, s)
}

func TestLoadMetrics(t *testing.T) {
	fs := newFakeServer(t, "completed")
	target := render.NewMapTarget(allSlots()...)
	s := newSession(fs, "7", target)
	require.NoError(t, s.Open(context.Background()))

	require.NoError(t, s.LoadMetrics(context.Background()))

	report := s.Report()
	require.NotNil(t, report)
	assert.Equal(t, 3000, report.Tokens.TotalTokens)
	assert.Equal(t, 4, report.Tokens.TotalCalls)
	assert.Len(t, report.Series, 2)
	assert.False(t, s.Chart().Empty)

	assert.Equal(t, "3,000", target.Text(render.SlotTotalTokens))
	assert.Equal(t, "150.0 tokens/s", target.Text(render.SlotTokenRate))
	assert.Equal(t, "2.00s", target.Text(render.SlotAvgResponseTime))
	assert.Equal(t, "-", target.Text(render.SlotTotalCost))
	assert.Equal(t, "0", target.Text(render.SlotTotalSearches), "failed search metrics keep zero values")
	assert.Contains(t, target.Text(render.SlotMessage), "HTTP 503")
}

func TestLoadMetricsAllFailing(t *testing.T) {
	fs := newFakeServer(t, "completed")
	fs.metricsFailing = true
	target := render.NewMapTarget(allSlots()...)
	s := newSession(fs, "7", target)
	require.NoError(t, s.Open(context.Background()))

	err := s.LoadMetrics(context.Background())
	require.Error(t, err)
	assert.Nil(t, s.Report())
	assert.Empty(t, target.Text(render.SlotTotalTokens))
	assert.Contains(t, target.Text(render.SlotMessage), "Failed to load metrics")
}

func TestLoadDoesNotPoll(t *testing.T) {
	fs := newFakeServer(t, "in_progress")
	target := render.NewMapTarget(allSlots()...)
	s := newSession(fs, "7", target)

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, "In Progress", target.Text(render.SlotStatus))
	assert.False(t, s.Polling())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fs.detailsCalls.Load())
}

func TestCloseStopsPolling(t *testing.T) {
	fs := newFakeServer(t, "in_progress")
	s := newSession(fs, "7", render.NewMapTarget(render.SlotStatus))
	require.NoError(t, s.Open(context.Background()))
	assert.True(t, s.Polling())
	assert.True(t, s.RefreshNow())

	s.Close()
	s.Close()
	waitDone(t, s)
	assert.False(t, s.Polling())
	assert.False(t, s.RefreshNow())

	calls := fs.detailsCalls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, fs.detailsCalls.Load())
}

func TestDoneBeforeOpen(t *testing.T) {
	s := NewSession("7", nil, render.NewRenderer(80), nil, Options{})
	select {
	case <-s.Done():
	default:
		t.Fatal("done should be closed when polling never started")
	}
	assert.False(t, s.RefreshNow())
	s.Close()
}
