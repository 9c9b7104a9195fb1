// Package details holds the state of one research details view: the record, its metrics
// and the poller that keeps the summary current.
package details

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/penwyp/go-research-monitor/internal/application/poll"
	"github.com/penwyp/go-research-monitor/internal/core/model"
	"github.com/penwyp/go-research-monitor/internal/data/aggregator"
	"github.com/penwyp/go-research-monitor/internal/presentation/render"
	"github.com/penwyp/go-research-monitor/internal/util"
)

// API is the part of the client a details view needs.
type API interface {
	Details(ctx context.Context, id string) (*model.ResearchRecord, error)
	Metrics(ctx context.Context, id string) (*model.MetricsResponse, error)
	Timeline(ctx context.Context, id string) (*model.TimelineResponse, error)
	SearchMetrics(ctx context.Context, id string) (*model.SearchResponse, error)
}

type Options struct {
	Interval time.Duration
	// OnChange runs after anything was rendered to the target, on the goroutine that
	// rendered it.
	OnChange func()
}

// Session replaces page-level globals with one value per opened research.
type Session struct {
	ID string

	api      API
	renderer *render.Renderer
	target   render.Target
	opts     Options

	mu     sync.RWMutex
	record *model.ResearchRecord
	report *aggregator.Report
	chart  render.ChartConfig
	poller *poll.Poller
}

func NewSession(id string, api API, renderer *render.Renderer, target render.Target, opts Options) *Session {
	return &Session{
		ID:       id,
		api:      api,
		renderer: renderer,
		target:   target,
		opts:     opts,
	}
}

// Open loads the record, renders its summary and starts polling unless the record is
// already terminal.
func (s *Session) Open(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	rec := s.Record()

	p := poll.New(poll.Config{
		ID:       s.ID,
		Interval: s.opts.Interval,
		Fetch: func(ctx context.Context) (*model.ResearchRecord, error) {
			return s.api.Details(ctx, s.ID)
		},
		OnUpdate: s.setRecord,
		OnError: func(err error) {
			s.renderer.RenderError(s.target, "refresh status", err)
			s.changed()
		},
	})

	s.mu.Lock()
	s.poller = p
	s.mu.Unlock()

	p.Init(rec)
	if p.State() == poll.StateStopped {
		return nil
	}
	return p.Start(ctx)
}

// Load fetches and renders the record once, without polling.
func (s *Session) Load(ctx context.Context) error {
	rec, err := s.api.Details(ctx, s.ID)
	if err != nil {
		s.renderer.RenderError(s.target, "load research details", err)
		s.changed()
		return err
	}
	s.setRecord(rec)
	return nil
}

// LoadMetrics fetches the three metrics payloads, aggregates and renders them. A payload
// that fails to load leaves its slots at their placeholders; the error is only returned
// when nothing could be loaded.
func (s *Session) LoadMetrics(ctx context.Context) error {
	var errs []error

	metrics, err := s.api.Metrics(ctx, s.ID)
	if err != nil {
		util.LogWarn("Failed to load token metrics", util.F("id", s.ID), util.F("error", err))
		errs = append(errs, err)
	}
	timeline, err := s.api.Timeline(ctx, s.ID)
	if err != nil {
		util.LogWarn("Failed to load timeline metrics", util.F("id", s.ID), util.F("error", err))
		errs = append(errs, err)
	}
	search, err := s.api.SearchMetrics(ctx, s.ID)
	if err != nil {
		util.LogWarn("Failed to load search metrics", util.F("id", s.ID), util.F("error", err))
		errs = append(errs, err)
	}

	if len(errs) == 3 {
		err := errors.Join(errs...)
		s.renderer.RenderError(s.target, "load metrics", errs[0])
		s.changed()
		return err
	}

	report := aggregator.BuildReport(metrics, timeline, search)
	chart := render.BuildTokenChart(report.Series)

	var duration float64
	if rec := s.Record(); rec != nil {
		duration = rec.Duration()
	}
	s.renderer.RenderMetrics(s.target, report, duration)
	if len(errs) > 0 {
		s.renderer.RenderError(s.target, "load metrics", errs[0])
	}

	s.mu.Lock()
	s.report = &report
	s.chart = chart
	s.mu.Unlock()

	s.changed()
	return nil
}

// RefreshNow triggers an immediate status refresh while polling.
func (s *Session) RefreshNow() bool {
	if p := s.currentPoller(); p != nil {
		return p.RefreshNow()
	}
	return false
}

// Done is closed when polling has ended, or immediately when it never started.
func (s *Session) Done() <-chan struct{} {
	if p := s.currentPoller(); p != nil {
		return p.Done()
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// Polling reports whether the summary is still being refreshed.
func (s *Session) Polling() bool {
	p := s.currentPoller()
	return p != nil && p.State() == poll.StatePolling
}

// Close stops polling. Safe to call more than once.
func (s *Session) Close() {
	if p := s.currentPoller(); p != nil {
		p.Stop()
	}
}

// Record is the most recently loaded record.
func (s *Session) Record() *model.ResearchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record
}

// Report is the last aggregated metrics report, nil before LoadMetrics succeeds.
func (s *Session) Report() *aggregator.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// Chart is the last built token chart.
func (s *Session) Chart() render.ChartConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chart
}

func (s *Session) setRecord(rec *model.ResearchRecord) {
	if rec == nil {
		return
	}
	if rec.ID == "" {
		rec.ID = model.FlexibleID(s.ID)
	}

	s.mu.Lock()
	s.record = rec
	s.mu.Unlock()

	s.renderer.RenderMessage(s.target, "")
	s.renderer.RenderSummary(s.target, rec)
	s.changed()
}

func (s *Session) currentPoller() *poll.Poller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.poller
}

func (s *Session) changed() {
	if s.opts.OnChange != nil {
		s.opts.OnChange()
	}
}
