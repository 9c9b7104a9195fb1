// Package poll follows a running research until it reaches a terminal status.
package poll

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/penwyp/go-research-monitor/internal/core/model"
	"github.com/penwyp/go-research-monitor/internal/util"
)

// DefaultInterval is the refresh period when none is configured.
const DefaultInterval = 10 * time.Second

// ErrStopped is returned when starting a poller that has already stopped.
var ErrStopped = errors.New("poller already stopped")

type State int32

const (
	StateIdle State = iota
	StatePolling
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config wires a poller to its data source and its view.
type Config struct {
	// ID is only used for logging
	ID       string
	Interval time.Duration

	// Fetch loads the latest record. Required.
	Fetch func(ctx context.Context) (*model.ResearchRecord, error)
	// OnUpdate renders a freshly fetched record.
	OnUpdate func(rec *model.ResearchRecord)
	// OnError is told about failed fetches. Polling continues regardless.
	OnError func(err error)
	// IsTerminal defaults to Status.IsTerminal.
	IsTerminal func(rec *model.ResearchRecord) bool
}

// Poller runs Fetch every Interval on a single goroutine. It moves Idle -> Polling -> Stopped
// and never leaves Stopped.
type Poller struct {
	cfg Config

	mu    sync.Mutex
	state State

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	doneOnce sync.Once
	refresh  chan struct{}

	fetches atomic.Int64
}

func New(cfg Config) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.IsTerminal == nil {
		cfg.IsTerminal = func(rec *model.ResearchRecord) bool {
			return rec != nil && rec.Status.IsTerminal()
		}
	}
	return &Poller{
		cfg:     cfg,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		refresh: make(chan struct{}, 1),
	}
}

// Init looks at the record loaded before polling. A terminal record stops the poller
// without it ever fetching.
func (p *Poller) Init(rec *model.ResearchRecord) {
	if p.cfg.IsTerminal(rec) {
		util.LogDebug("Research already finished, not polling", util.F("id", p.cfg.ID))
		p.Stop()
	}
}

// Start begins polling. Starting a polling poller is a no-op.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateStopped:
		return ErrStopped
	case StatePolling:
		return nil
	}
	p.state = StatePolling
	util.LogDebug("Polling started", util.F("id", p.cfg.ID), util.F("interval", p.cfg.Interval.String()))

	go p.run(ctx)
	return nil
}

// Stop ends polling. It is safe to call any number of times, from any goroutine, including
// from inside OnUpdate. A fetch already in flight finishes but its result is dropped.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateIdle {
		p.state = StateStopped
		p.doneOnce.Do(func() { close(p.done) })
	}
}

// RefreshNow asks for an immediate refresh. It reports false, and does nothing, unless the
// poller is polling.
func (p *Poller) RefreshNow() bool {
	if p.State() != StatePolling {
		return false
	}
	select {
	case p.refresh <- struct{}{}:
	default:
	}
	return true
}

// Done is closed once the poller has stopped.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Fetches counts the fetches issued so far.
func (p *Poller) Fetches() int64 {
	return p.fetches.Load()
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()
	defer p.finish()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
		case <-p.refresh:
		}

		if p.tick(ctx) {
			return
		}
	}
}

// tick fetches once and reports whether polling should end.
func (p *Poller) tick(ctx context.Context) bool {
	if p.stopped() {
		return true
	}

	p.fetches.Add(1)
	rec, err := p.cfg.Fetch(ctx)

	if p.stopped() || ctx.Err() != nil {
		return true
	}
	if err != nil {
		util.LogWarn("Failed to refresh research status", util.F("id", p.cfg.ID), util.F("error", err))
		if p.cfg.OnError != nil {
			p.cfg.OnError(err)
		}
		return false
	}

	if p.cfg.OnUpdate != nil {
		p.cfg.OnUpdate(rec)
	}
	if p.cfg.IsTerminal(rec) {
		util.LogInfo("Research reached terminal status", util.F("id", p.cfg.ID), util.F("status", string(rec.Status)))
		return true
	}
	return false
}

func (p *Poller) stopped() bool {
	select {
	case <-p.stop:
		return true
	default:
		return false
	}
}

func (p *Poller) finish() {
	p.mu.Lock()
	p.state = StateStopped
	p.mu.Unlock()
	p.doneOnce.Do(func() { close(p.done) })
	util.LogDebug("Polling stopped", util.F("id", p.cfg.ID), util.F("fetches", p.fetches.Load()))
}
