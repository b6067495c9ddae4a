package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "talentscout"

	resultLabel = "result"
	formatLabel = "format"
)

// Metrics counts workflow events. The snapshot fields back /status replies and
// the same events feed Prometheus counters. A nil *Metrics ignores every call.
type Metrics struct {
	mu                   sync.RWMutex
	SessionsStarted      int64
	SessionsCompleted    int64
	GenerationsSucceeded int64
	GenerationsFailed    int64
	RecordsPersisted     int64
	APICallsTotal        int64
	APICallsSuccessful   int64
	LastUpdateTime       time.Time

	sessions    *prometheus.CounterVec
	generations *prometheus.CounterVec
	apiCalls    *prometheus.CounterVec
	persisted   prometheus.Counter
	exports     *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LastUpdateTime: time.Now(),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "number of intake sessions by stage reached",
		}, []string{"stage"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "question_generations_total",
			Help:      "number of question generation attempts",
		}, []string{resultLabel}),
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_calls_total",
			Help:      "number of model boundary calls",
		}, []string{resultLabel}),
		persisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_persisted_total",
			Help:      "number of redacted candidate records written",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "number of rendered answer exports",
		}, []string{formatLabel}),
	}
	reg.MustRegister(m.sessions, m.generations, m.apiCalls, m.persisted, m.exports)
	return m
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func (m *Metrics) IncrementSessionsStarted() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsStarted++
	m.LastUpdateTime = time.Now()
	m.sessions.WithLabelValues("started").Inc()
}

func (m *Metrics) IncrementSessionsCompleted() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsCompleted++
	m.LastUpdateTime = time.Now()
	m.sessions.WithLabelValues("completed").Inc()
}

func (m *Metrics) IncrementGeneration(success bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.GenerationsSucceeded++
	} else {
		m.GenerationsFailed++
	}
	m.LastUpdateTime = time.Now()
	m.generations.WithLabelValues(result(success)).Inc()
}

func (m *Metrics) IncrementRecordsPersisted() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordsPersisted++
	m.LastUpdateTime = time.Now()
	m.persisted.Inc()
}

func (m *Metrics) IncrementAPICall(success bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.APICallsTotal++
	if success {
		m.APICallsSuccessful++
	}
	m.LastUpdateTime = time.Now()
	m.apiCalls.WithLabelValues(result(success)).Inc()
}

func (m *Metrics) IncrementExport(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	SessionsStarted      int64
	SessionsCompleted    int64
	GenerationsSucceeded int64
	GenerationsFailed    int64
	RecordsPersisted     int64
	APICallsTotal        int64
	APICallsSuccessful   int64
	LastUpdateTime       time.Time
}

func (m *Metrics) GetSnapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		SessionsStarted:      m.SessionsStarted,
		SessionsCompleted:    m.SessionsCompleted,
		GenerationsSucceeded: m.GenerationsSucceeded,
		GenerationsFailed:    m.GenerationsFailed,
		RecordsPersisted:     m.RecordsPersisted,
		APICallsTotal:        m.APICallsTotal,
		APICallsSuccessful:   m.APICallsSuccessful,
		LastUpdateTime:       m.LastUpdateTime,
	}
}
