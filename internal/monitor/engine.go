package monitor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"openfx/internal/alert"
	"openfx/internal/collector"
	"openfx/internal/history"
	"openfx/internal/model"
	"openfx/internal/notifier"
)

// CycleHook receives each completed cycle summary.
type CycleHook interface {
	OnCycle(sum model.CycleSummary)
}

// Engine drives the poll cycle: every interval it checks all watched
// pairs, records alerts, and fans the summary out to hooks.
type Engine struct {
	cron      *cron.Cron
	collector *collector.Collector
	store     *history.Store
	ring      *alert.Ring
	pairs     []model.CurrencyPair
	interval  time.Duration
	notifiers []notifier.Notifier
	hooks     []CycleHook
	log       *zap.SugaredLogger
	ctx       context.Context

	running atomic.Bool // guards against overlapping cycles

	mu     sync.RWMutex
	last   *model.CycleSummary
	cycles int
}

// NewEngine creates an engine watching pairs on the given interval.
func NewEngine(ctx context.Context, col *collector.Collector, store *history.Store, ring *alert.Ring, pairs []model.CurrencyPair, interval time.Duration, log *zap.SugaredLogger) *Engine {
	return &Engine{
		cron:      cron.New(),
		collector: col,
		store:     store,
		ring:      ring,
		pairs:     pairs,
		interval:  interval,
		log:       log,
		ctx:       ctx,
	}
}

// AddNotifier registers an alert destination.
func (e *Engine) AddNotifier(n notifier.Notifier) { e.notifiers = append(e.notifiers, n) }

// AddHook registers a cycle observer.
func (e *Engine) AddHook(h CycleHook) { e.hooks = append(e.hooks, h) }

// Start schedules the cycle task and starts the cron runner.
func (e *Engine) Start() error {
	spec := fmt.Sprintf("@every %ds", int(e.interval.Seconds()))
	if _, err := e.cron.AddFunc(spec, e.runCycle); err != nil {
		return fmt.Errorf("register cycle task: %w", err)
	}
	e.cron.Start()
	e.log.Infow("engine started", "pairs", len(e.pairs), "interval", e.interval.String())
	return nil
}

// Stop halts scheduling and waits for an in-flight cycle to finish.
func (e *Engine) Stop() {
	<-e.cron.Stop().Done()
	e.log.Infow("engine stopped", "cycles", e.Cycles())
}

// RunCycleNow executes one cycle immediately (for run-on-start and manual
// trigger).
func (e *Engine) RunCycleNow() { e.runCycle() }

// Cycles reports how many cycles have completed.
func (e *Engine) Cycles() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cycles
}

// LastSummary returns a copy of the most recent cycle summary, or nil if
// no cycle has run yet.
func (e *Engine) LastSummary() *model.CycleSummary {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.last == nil {
		return nil
	}
	sum := *e.last
	sum.Statuses = append([]model.PairStatus(nil), e.last.Statuses...)
	return &sum
}

// Pairs returns the watch list in configured order.
func (e *Engine) Pairs() []model.CurrencyPair {
	return append([]model.CurrencyPair(nil), e.pairs...)
}

// Interval reports the poll interval.
func (e *Engine) Interval() time.Duration { return e.interval }

func (e *Engine) runCycle() {
	if !e.running.CompareAndSwap(false, true) {
		e.log.Warnw("previous cycle still running, skipping")
		return
	}
	defer e.running.Store(false)

	e.mu.Lock()
	e.cycles++
	n := e.cycles
	e.mu.Unlock()

	sum := model.CycleSummary{Cycle: n, At: time.Now()}

	for _, pair := range e.pairs {
		st, err := e.collector.CheckPair(pair)
		if err != nil {
			e.log.Errorw("check pair", "pair", pair.Display(), "error", err)
			sum.Failed++
			continue
		}
		if st == nil {
			sum.Failed++
			continue
		}
		sum.Statuses = append(sum.Statuses, *st)
		sum.Checked++

		if !st.Alerted {
			continue
		}
		sum.Alerts++
		at := st.CheckedAt
		if p, ok := e.store.Latest(pair.Symbol); ok {
			at = p.Time
		}
		if a, ok := alert.New(pair, st.Price, st.PctChange, e.collector.Lookback(), at); ok {
			e.ring.Add(a)
			e.dispatch(a)
		}
	}

	e.mu.Lock()
	e.last = &sum
	e.mu.Unlock()

	for _, h := range e.hooks {
		h.OnCycle(sum)
	}
	e.log.Infow("cycle complete", "cycle", n, "checked", sum.Checked, "failed", sum.Failed, "alerts", sum.Alerts)
}

func (e *Engine) dispatch(a model.Alert) {
	for _, n := range e.notifiers {
		if err := n.Notify(e.ctx, a); err != nil {
			e.log.Errorw("notify", "notifier", n.Name(), "pair", a.Pair.Display(), "error", err)
		}
	}
}

// HandleCommand processes a chat command and returns a reply.
func (e *Engine) HandleCommand(command string) string {
	switch command {
	case "/status":
		return notifier.FormatStatusReport(e.LastSummary())
	case "/alerts":
		return notifier.FormatRecentAlerts(e.ring.Recent(10))
	case "/pairs":
		return notifier.FormatPairList(e.pairs)
	default:
		return "Available commands:\n/status - latest cycle\n/alerts - recent alerts\n/pairs - watched pairs"
	}
}
