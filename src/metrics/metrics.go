// Package metrics exposes poll samples and maintenance activity to Prometheus.
package metrics

import (
	"github.com/clarechu/sys-assistant/src/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sys_assistant"

// Result label values of the operations counter.
const (
	ResultSucceeded        = "succeeded"
	ResultFailed           = "failed"
	ResultPermissionDenied = "permission_denied"
)

// Recorder owns a private registry so several instances never collide.
type Recorder struct {
	registry *prometheus.Registry

	cpuUsage    prometheus.Gauge
	memoryUsage prometheus.Gauge
	pollErrors  prometheus.Counter
	operations  *prometheus.CounterVec
	inProgress  prometheus.Gauge
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		cpuUsage: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cpu_usage_percent",
			Help:      "CPU utilization of the latest poll sample.",
		}),
		memoryUsage: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_usage_percent",
			Help:      "Memory utilization of the latest poll sample.",
		}),
		pollErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_errors_total",
			Help:      "Poll ticks that failed to produce a sample.",
		}),
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maintenance_operations_total",
			Help:      "Finished maintenance operations by operation and result.",
		}, []string{"operation", "result"}),
		inProgress: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "maintenance_in_progress",
			Help:      "1 while a maintenance operation is running.",
		}),
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveSample(s models.Sample) {
	r.cpuUsage.Set(s.CPUPercent)
	r.memoryUsage.Set(s.MemoryPercent)
}

func (r *Recorder) ObservePollError(error) {
	r.pollErrors.Inc()
}

func (r *Recorder) OperationStarted(string) {
	r.inProgress.Set(1)
}

func (r *Recorder) OperationFinished(result models.MaintenanceResult) {
	r.inProgress.Set(0)
	r.operations.WithLabelValues(result.Operation, ResultOf(result)).Inc()
}

// ResultOf maps a result to its counter label.
func ResultOf(result models.MaintenanceResult) string {
	switch {
	case result.Succeeded:
		return ResultSucceeded
	case result.PermissionDenied:
		return ResultPermissionDenied
	default:
		return ResultFailed
	}
}
