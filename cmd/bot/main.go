package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/config"
	"SignalSentinel/internal/memory"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/scheduler"
	"SignalSentinel/internal/strategy"
	"SignalSentinel/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	zl, err := logger.Init(cfg.Log.Level, "signal-sentinel")
	if err != nil {
		log.Fatalf("[FATAL] init logger: %v", err)
	}
	defer zl.Sync()
	if err := tgbotapi.SetLogger(zap.NewStdLog(zl.Named("telegram"))); err != nil {
		logger.Warn("set telegram logger: %v", err)
	}
	logger.Info("SignalSentinel starting with pairs %v (%s/%s)", cfg.Pairs, cfg.Timeframes.Execution, cfg.Timeframes.Confirmation)

	app := fx.New(
		fx.Supply(cfg, zl),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Provide(
			newAppContext,
			newFetcher,
			newCalculator,
			newCollector,
			newEvaluator,
			newStore,
			newTracker,
			newNotifier,
			metrics.New,
			newScheduler,
		),
		fx.Invoke(
			runScheduler,
			runCommandPolling,
			runMetricsServer,
		),
	)
	app.Run()
	logger.Info("SignalSentinel stopped")
}

// newAppContext returns the context of all background work. runScheduler
// cancels it on stop.
func newAppContext() (context.Context, context.CancelFunc) {
	return context.WithCancel(context.Background())
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	var f collector.Fetcher
	if cfg.Exchange.Source == "mock" {
		f = &collector.MockFetcher{Price: 100}
	} else {
		f = collector.NewBinanceFetcher(cfg.Exchange.BaseURL, cfg.Proxy, time.Duration(cfg.Exchange.TimeoutSeconds)*time.Second)
	}
	logger.Info("data source: %s", f.Name())
	return f
}

func newCalculator(cfg *config.Config) (calculator.Calculator, error) {
	calc, err := calculator.New(cfg.Indicators.Backend, cfg.Periods())
	if err != nil {
		return nil, err
	}
	logger.Info("indicator backend: %s", calc.Name())
	return calc, nil
}

func newCollector(cfg *config.Config, f collector.Fetcher, calc calculator.Calculator) *collector.Collector {
	return collector.NewCollector(f, calc, collector.Timeframes{
		Execution:    cfg.Timeframes.Execution,
		Confirmation: cfg.Timeframes.Confirmation,
		Window:       cfg.Timeframes.Window,
	})
}

func newEvaluator(cfg *config.Config) *strategy.Evaluator {
	return strategy.NewEvaluator(cfg.StrategyThresholds())
}

func newStore(ctx context.Context, cfg *config.Config) (memory.Store, error) {
	switch cfg.State.Backend {
	case "sqlite":
		return memory.NewSQLiteStore(cfg.State.SQLitePath)
	case "redis":
		return memory.NewRedisStore(ctx, cfg.State.RedisAddr, cfg.State.RedisKey)
	case "memory":
		return memory.NewInMemoryStore(nil), nil
	default:
		return memory.NewFileStore(cfg.State.File), nil
	}
}

func newTracker(ctx context.Context, lc fx.Lifecycle, store memory.Store) *memory.Tracker {
	t := memory.NewTracker(ctx, store)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return t.Close()
		},
	})
	return t
}

// newNotifier falls back to stdout when Telegram is not configured or unreachable.
func newNotifier(cfg *config.Config) notifier.Notifier {
	if cfg.TelegramEnabled() {
		tg, err := notifier.NewTelegramNotifier(notifier.TelegramOptions{
			BotToken: cfg.Telegram.BotToken,
			ChatID:   cfg.Telegram.ChatID,
			Proxy:    cfg.Proxy,
		})
		if err == nil {
			return tg
		}
		logger.Warn("telegram unavailable, printing notifications to stdout: %v", err)
	}
	return notifier.NewStdoutNotifier(nil)
}

type schedulerParams struct {
	fx.In

	Ctx       context.Context
	Cfg       *config.Config
	Collector *collector.Collector
	Evaluator *strategy.Evaluator
	Tracker   *memory.Tracker
	Notifier  notifier.Notifier
	Metrics   *metrics.Metrics
}

func newScheduler(p schedulerParams) *scheduler.Scheduler {
	return scheduler.NewScheduler(p.Ctx, scheduler.Deps{
		Collector: p.Collector,
		Evaluator: p.Evaluator,
		Tracker:   p.Tracker,
		Notifier:  p.Notifier,
		Metrics:   p.Metrics,
		Pairs:     p.Cfg.Pairs,
		Periods:   p.Cfg.Periods(),
	})
}

func runScheduler(lc fx.Lifecycle, cfg *config.Config, sched *scheduler.Scheduler, cancel context.CancelFunc) error {
	interval := time.Duration(cfg.PollIntervalSeconds) * time.Second
	if err := sched.Register(interval); err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			sched.Start()
			if *cfg.RunOnStart {
				logger.Info("run_on_start enabled, executing first cycle now")
				go sched.RunCycle(sched.Ctx)
			}
			logger.Info("SignalSentinel is running every %s. Press Ctrl+C to stop.", interval)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			sched.Stop()
			return nil
		},
	})
	return nil
}

func runCommandPolling(ctx context.Context, lc fx.Lifecycle, cfg *config.Config, n notifier.Notifier, sched *scheduler.Scheduler) {
	tg, ok := n.(*notifier.TelegramNotifier)
	if !ok || !*cfg.Telegram.Commands {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go tg.StartPolling(ctx, sched.HandleCommand)
			logger.Info("telegram polling started")
			return nil
		},
	})
}

func runMetricsServer(lc fx.Lifecycle, cfg *config.Config, m *metrics.Metrics) {
	if cfg.Metrics.Addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", cfg.Metrics.Addr)
			if err != nil {
				return err
			}
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Error("metrics server: %v", err)
				}
			}()
			logger.Info("metrics listening on %s", cfg.Metrics.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
