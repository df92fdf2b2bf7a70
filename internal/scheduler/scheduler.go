package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/memory"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/strategy"
	"SignalSentinel/pkg/logger"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

const helpText = "Available commands:\n• /status - last signal per pair\n• /check - evaluate all pairs now"

// Deps are the collaborators of a Scheduler.
type Deps struct {
	Collector *collector.Collector
	Evaluator *strategy.Evaluator
	Tracker   *memory.Tracker
	Notifier  notifier.Notifier
	Metrics   *metrics.Metrics
	Pairs     []string
	Periods   calculator.Periods
}

// Scheduler runs evaluation cycles on a fixed interval.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Evaluator *strategy.Evaluator
	Tracker   *memory.Tracker
	Notifier  notifier.Notifier
	Metrics   *metrics.Metrics
	Pairs     []string
	Periods   calculator.Periods
	Ctx       context.Context

	running sync.Mutex
	now     func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, d Deps) *Scheduler {
	cl := newCronLogger(logger.L())
	m := d.Metrics
	if m == nil {
		m = metrics.New()
	}
	return &Scheduler{
		Cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Collector: d.Collector,
		Evaluator: d.Evaluator,
		Tracker:   d.Tracker,
		Notifier:  d.Notifier,
		Metrics:   m,
		Pairs:     d.Pairs,
		Periods:   d.Periods,
		Ctx:       ctx,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register schedules a cycle every interval.
func (s *Scheduler) Register(interval time.Duration) error {
	expr := fmt.Sprintf("@every %s", interval)
	if _, err := s.Cron.AddFunc(expr, func() { s.RunCycle(s.Ctx) }); err != nil {
		return errors.Wrapf(err, "register cycle %q", expr)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.running.Lock()
	s.running.Unlock()
	logger.Info("scheduler stopped")
}

// RunCycle evaluates every pair once. It returns false without doing anything
// when another cycle is still running.
func (s *Scheduler) RunCycle(ctx context.Context) bool {
	if !s.running.TryLock() {
		logger.Warn("cycle already running, skipped")
		return false
	}
	defer s.running.Unlock()

	start := time.Now()
	logger.Info("running cycle over %d pairs", len(s.Pairs))
	for _, pair := range s.Pairs {
		if ctx.Err() != nil {
			logger.Warn("cycle cancelled: %v", ctx.Err())
			break
		}
		sig := s.evaluatePair(ctx, pair)
		s.handleSignal(ctx, sig)
	}

	// Shutdown cancels ctx mid-cycle; what was observed must still be saved.
	if err := s.Tracker.Flush(context.WithoutCancel(ctx)); err != nil {
		logger.Error("save signal memory: %v", err)
	}
	finished := time.Now()
	s.Metrics.ObserveCycle(finished, finished.Sub(start))
	logger.Info("cycle finished in %s", finished.Sub(start).Round(time.Millisecond))
	return true
}

// evaluatePair never fails: every error or panic becomes NO_DATA.
func (s *Scheduler) evaluatePair(ctx context.Context, pair string) (sig *model.Signal) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("evaluate %s panicked: %v", pair, r)
			s.Metrics.ObserveFetchError(pair, "internal")
			sig = &model.Signal{Pair: pair, Kind: model.SignalNoData, At: s.now(), Reason: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	snap, err := s.Collector.Collect(ctx, pair)
	if err != nil {
		kind := errorKind(err)
		logger.Warn("%s: %v", pair, err)
		s.Metrics.ObserveFetchError(pair, kind)
		return &model.Signal{Pair: pair, Kind: model.SignalNoData, At: s.now(), Reason: err.Error()}
	}

	kind := s.Evaluator.EvaluateSnapshot(snap)
	logger.Debug("%s conditions: %+v", pair, s.Evaluator.Conditions(&snap.Execution, &snap.Confirmation))
	return &model.Signal{Pair: pair, Kind: kind, At: snap.EvaluatedAt, Snapshot: snap}
}

func (s *Scheduler) handleSignal(ctx context.Context, sig *model.Signal) {
	logger.Info("%s", notifier.FormatConsoleLine(sig))
	s.Metrics.ObserveSignal(sig.Pair, sig.Kind)

	if !s.Tracker.Observe(sig.Pair, sig.Kind) {
		return
	}
	text := notifier.FormatLong(sig, s.Periods.VolumeMA, s.Periods.EMA)
	err := s.Notifier.Notify(ctx, sig.Pair, text)
	s.Metrics.ObserveNotification(err)
	if err != nil {
		logger.Error("notify %s via %s: %v", sig.Pair, s.Notifier.Name(), err)
	}
}

func errorKind(err error) string {
	var te *model.TransportError
	if errors.As(err, &te) {
		return "transport"
	}
	var de *model.DataInsufficientError
	if errors.As(err, &de) {
		return "insufficient"
	}
	return "internal"
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/status":
		return notifier.FormatStatus(s.Tracker.Snapshot(), s.Pairs)
	case "/check":
		if !s.RunCycle(s.Ctx) {
			return "⏳ A check is already running"
		}
		return notifier.FormatStatus(s.Tracker.Snapshot(), s.Pairs)
	default:
		return helpText
	}
}
