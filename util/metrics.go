package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	handsDealtCounter        prometheus.Counter
	actionsAppliedCounter    *prometheus.CounterVec
	actionsRejectedCounter   prometheus.Counter
	handsCompletedCounter    *prometheus.CounterVec
	successorFailuresCounter prometheus.Counter
	eventsDroppedCounter     prometheus.Counter
	activeHandLocksGauge     prometheus.Gauge
}

func (m *metrics) HandDealt() {
	m.handsDealtCounter.Inc()
}

func (m *metrics) ActionApplied(action string) {
	m.actionsAppliedCounter.WithLabelValues(action).Inc()
}

func (m *metrics) ActionRejected() {
	m.actionsRejectedCounter.Inc()
}

func (m *metrics) HandCompleted(showdown bool) {
	label := "fold"
	if showdown {
		label = "showdown"
	}
	m.handsCompletedCounter.WithLabelValues(label).Inc()
}

func (m *metrics) SuccessorFailed() {
	m.successorFailuresCounter.Inc()
}

func (m *metrics) EventDropped() {
	m.eventsDroppedCounter.Inc()
}

func (m *metrics) SetActiveHandLocks(count int) {
	m.activeHandLocksGauge.Set(float64(count))
}

var Metrics = &metrics{
	handsDealtCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hands_dealt_total",
		Help: "Total number of hands created from a deal",
	}),
	actionsAppliedCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "player_actions_applied_total",
		Help: "Total number of player actions applied to a hand",
	}, []string{"action"}),
	actionsRejectedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "player_actions_rejected_total",
		Help: "Total number of player actions rejected by the engine",
	}),
	handsCompletedCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hands_completed_total",
		Help: "Total number of hands that resolved a winner",
	}, []string{"ending"}),
	successorFailuresCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "successor_hand_failures_total",
		Help: "Closed hands whose next hand could not be created",
	}),
	eventsDroppedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "pubsub_events_dropped_total",
		Help: "Events dropped because a subscriber buffer was full",
	}),
	activeHandLocksGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_hand_locks_count",
		Help: "Hands with an action currently in flight",
	}),
}
