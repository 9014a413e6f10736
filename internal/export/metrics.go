package export

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "course_helper_poll_ticks_total",
		Help: "Task status checks performed by the poller.",
	})
	pollErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "course_helper_poll_errors_total",
		Help: "Transient task status check failures.",
	})
	taskOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "course_helper_task_outcomes_total",
		Help: "Terminal task outcomes by kind and status.",
	}, []string{"kind", "status"})
)
