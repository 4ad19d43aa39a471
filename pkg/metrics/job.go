package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// JobMetrics records runs of background jobs such as session housekeeping.
type JobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	removed  *prometheus.CounterVec
}

func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return &JobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "job_duration_seconds",
		Help:    "Duration of background jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_success",
		Help: "Successful background job runs.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_failure",
		Help: "Failed background job runs.",
	}, []string{"job"})
	removed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_rows_removed_total",
		Help: "Rows deleted by background jobs.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure, removed)
	return &JobMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		removed:  removed,
	}
}

// Observe records one run of job. removed is ignored when err is non-nil.
func (j *JobMetrics) Observe(job string, took time.Duration, removed int64, err error) {
	if j == nil || j.duration == nil {
		return
	}
	job = normalizeLabel(job)
	j.duration.WithLabelValues(job).Observe(took.Seconds())
	if err != nil {
		j.failure.WithLabelValues(job).Inc()
		return
	}
	j.success.WithLabelValues(job).Inc()
	j.removed.WithLabelValues(job).Add(float64(removed))
}
