package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rotationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hearth_rotations_total",
		Help: "Completed responsibility rotations, by kind.",
	}, []string{"kind"})

	paymentEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hearth_payment_events_total",
		Help: "Appended payment log events, by action.",
	}, []string{"action"})

	rotationConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hearth_rotation_conflicts_total",
		Help: "Optimistic-concurrency conflicts during rotation, by kind.",
	}, []string{"kind"})
)
