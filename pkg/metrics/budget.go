package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BudgetMetrics tracks budget save traffic: the replace-all write path is the
// hottest and most failure-sensitive operation in the service.
type BudgetMetrics struct {
	saveDuration *prometheus.HistogramVec
	saves        *prometheus.CounterVec
	lockRejects  prometheus.Counter
}

// NewBudgetMetrics registers the budget metrics on the provided registerer.
func NewBudgetMetrics(reg prometheus.Registerer) *BudgetMetrics {
	if reg == nil {
		return &BudgetMetrics{}
	}
	saveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "budget_save_duration_seconds",
		Help:    "Duration of budget replace-all saves in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	saves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "budget_saves_total",
		Help: "Budget replace-all saves by outcome.",
	}, []string{"outcome"})
	lockRejects := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "budget_save_lock_rejections_total",
		Help: "Saves rejected because another save held the project lock.",
	})
	reg.MustRegister(saveDuration, saves, lockRejects)
	return &BudgetMetrics{
		saveDuration: saveDuration,
		saves:        saves,
		lockRejects:  lockRejects,
	}
}

// ObserveSave records a completed save attempt with its outcome label.
func (b *BudgetMetrics) ObserveSave(outcome string, elapsed time.Duration) {
	if b == nil || b.saveDuration == nil {
		return
	}
	b.saveDuration.WithLabelValues(normalizeLabel(outcome)).Observe(elapsed.Seconds())
	b.saves.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncLockRejection counts a save turned away by the single-flight lock.
func (b *BudgetMetrics) IncLockRejection() {
	if b == nil || b.lockRejects == nil {
		return
	}
	b.lockRejects.Inc()
}
