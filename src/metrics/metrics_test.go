package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clarechu/sys-assistant/src/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Sample(t *testing.T) {
	r := NewRecorder()
	r.ObserveSample(models.Sample{CPUPercent: 42.5, MemoryPercent: 61})
	assert.Equal(t, 42.5, testutil.ToFloat64(r.cpuUsage))
	assert.Equal(t, 61.0, testutil.ToFloat64(r.memoryUsage))

	r.ObservePollError(nil)
	r.ObservePollError(nil)
	assert.Equal(t, 2.0, testutil.ToFloat64(r.pollErrors))
}

func TestRecorder_Operations(t *testing.T) {
	r := NewRecorder()

	r.OperationStarted("update")
	assert.Equal(t, 1.0, testutil.ToFloat64(r.inProgress))
	r.OperationFinished(models.MaintenanceResult{Operation: "update", Succeeded: true})
	assert.Equal(t, 0.0, testutil.ToFloat64(r.inProgress))

	r.OperationStarted("cleanup")
	r.OperationFinished(models.MaintenanceResult{Operation: "cleanup", FailedStep: "remove-unused-packages", ExitCode: 2})
	r.OperationStarted("cleanup")
	r.OperationFinished(models.MaintenanceResult{Operation: "cleanup", PermissionDenied: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("update", ResultSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("cleanup", ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.operations.WithLabelValues("cleanup", ResultPermissionDenied)))
}

func TestRecorder_Gather(t *testing.T) {
	r := NewRecorder()
	r.ObserveSample(models.Sample{CPUPercent: 10, MemoryPercent: 20})

	families, err := r.Registry().Gather()
	require.NoError(t, err)

	byName := map[string]*dto.MetricFamily{}
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	cpu, ok := byName["sys_assistant_cpu_usage_percent"]
	require.True(t, ok)
	assert.Equal(t, dto.MetricType_GAUGE, cpu.GetType())
	assert.Equal(t, 10.0, cpu.GetMetric()[0].GetGauge().GetValue())
	assert.Contains(t, byName, "sys_assistant_poll_errors_total")
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name        string
		runtime     bool
		wantRuntime bool
	}{
		{name: "recorder only", runtime: false, wantRuntime: false},
		{name: "with runtime metrics", runtime: true, wantRuntime: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecorder()
			r.ObserveSample(models.Sample{CPUPercent: 33})

			rec := httptest.NewRecorder()
			NewHandler(r, tt.runtime, 4).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			require.Equal(t, http.StatusOK, rec.Code)

			body, err := io.ReadAll(rec.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), "sys_assistant_cpu_usage_percent 33")
			assert.Equal(t, tt.wantRuntime, strings.Contains(string(body), "go_goroutines"))
		})
	}
}
