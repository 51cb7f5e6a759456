package scheduler

import "github.com/prometheus/client_golang/prometheus"

var (
	jobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ttsd",
			Subsystem: "scheduler",
			Name:      "jobs_total",
			Help:      "Total number of finished jobs by outcome",
		},
		[]string{"outcome"},
	)

	jobDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ttsd",
			Subsystem: "scheduler",
			Name:      "job_duration_seconds",
			Help:      "Execution time of finished jobs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ttsd",
			Subsystem: "scheduler",
			Name:      "queue_depth",
			Help:      "Jobs admitted but not yet running",
		},
	)

	inflightJobs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ttsd",
			Subsystem: "scheduler",
			Name:      "inflight_jobs",
			Help:      "Jobs currently executing (0 or 1)",
		},
	)
)

func init() {
	prometheus.MustRegister(jobsTotal, jobDuration, queueDepth, inflightJobs)
}
