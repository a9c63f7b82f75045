package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkoutsStartedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_started_total",
		Help: "Number of crypto checkout sessions started.",
	})
	checkoutsSettledCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_settled_total",
		Help: "Number of crypto checkout sessions settled on-chain.",
	})
	checkoutsFailedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_sessions_failed_total",
		Help: "Number of crypto checkout sessions terminally failed.",
	}, []string{"reason"})
)
