package metrics

import (
	"net/http"
	"sync"
	"time"

	"SignalSentinel/internal/model"

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics of the signal loop. Each instance owns
// its registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	CyclesTotal       prometheus.Counter
	CycleDuration     prometheus.Histogram
	SignalsTotal      *prometheus.CounterVec // labels: pair, signal
	FetchErrorsTotal  *prometheus.CounterVec // labels: pair, kind=transport|insufficient|internal
	NotificationsSent *prometheus.CounterVec // labels: result=ok|error
	LastCycle         prometheus.Gauge

	health *HealthStatus
}

// New creates and registers all metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_cycles_total",
			Help: "Completed evaluation cycles",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_cycle_duration_seconds",
			Help:    "Wall time of one evaluation cycle over all pairs",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_signals_total",
			Help: "Signals evaluated per pair and kind",
		}, []string{"pair", "signal"}),
		FetchErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_fetch_errors_total",
			Help: "Pairs that evaluated to NO_DATA, by cause",
		}, []string{"pair", "kind"}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_notifications_total",
			Help: "Notification attempts by result",
		}, []string{"result"}),
		LastCycle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_last_cycle_timestamp_seconds",
			Help: "Unix time the last cycle finished",
		}),
		health: &HealthStatus{StartedAt: time.Now()},
	}

	m.registry.MustRegister(
		m.CyclesTotal,
		m.CycleDuration,
		m.SignalsTotal,
		m.FetchErrorsTotal,
		m.NotificationsSent,
		m.LastCycle,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveCycle records a finished cycle.
func (m *Metrics) ObserveCycle(finished time.Time, d time.Duration) {
	m.CyclesTotal.Inc()
	m.CycleDuration.Observe(d.Seconds())
	m.LastCycle.Set(float64(finished.Unix()))
	m.health.cycleDone(finished)
}

// ObserveSignal counts one evaluated signal.
func (m *Metrics) ObserveSignal(pair string, kind model.SignalKind) {
	m.SignalsTotal.WithLabelValues(pair, string(kind)).Inc()
}

// ObserveFetchError counts one pair that had no usable data.
func (m *Metrics) ObserveFetchError(pair, kind string) {
	m.FetchErrorsTotal.WithLabelValues(pair, kind).Inc()
}

// ObserveNotification counts one notification attempt.
func (m *Metrics) ObserveNotification(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.NotificationsSent.WithLabelValues(result).Inc()
}

// HealthStatus tracks liveness data reported on /healthz.
type HealthStatus struct {
	mu          sync.RWMutex
	StartedAt   time.Time
	lastCycleAt time.Time
	cycles      int64
}

func (h *HealthStatus) cycleDone(t time.Time) {
	h.mu.Lock()
	h.lastCycleAt = t
	h.cycles++
	h.mu.Unlock()
}

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSec     int64  `json:"uptime_sec"`
	LastCycleUnix int64  `json:"last_cycle_unix"`
	Cycles        int64  `json:"cycles"`
}

func (h *HealthStatus) snapshot() healthResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()
	resp := healthResponse{
		Status:    "ok",
		UptimeSec: int64(time.Since(h.StartedAt).Seconds()),
		Cycles:    h.cycles,
	}
	if !h.lastCycleAt.IsZero() {
		resp.LastCycleUnix = h.lastCycleAt.Unix()
	}
	return resp
}

// Handler serves /metrics, /healthz and /livez.
func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		body, err := sonic.Marshal(m.health.snapshot())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})
	return mux
}
