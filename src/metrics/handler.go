package metrics

import (
	"github.com/emicklei/go-restful/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"
	"net/http"
)

// Handler serves a Recorder's registry, optionally joined with the Go
// runtime and process collectors.
type Handler struct {
	handler http.Handler
}

// NewHandler limits concurrent scrapes to maxRequests; zero or less means
// no limit.
func NewHandler(recorder *Recorder, includeRuntimeMetrics bool, maxRequests int) *Handler {
	var gatherer prometheus.Gatherer = recorder.Registry()
	if includeRuntimeMetrics {
		runtime := prometheus.NewRegistry()
		runtime.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		gatherer = prometheus.Gatherers{recorder.Registry(), runtime}
	}
	return &Handler{
		handler: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
			ErrorLog:            errorLogger{},
			ErrorHandling:       promhttp.ContinueOnError,
			MaxRequestsInFlight: maxRequests,
		}),
	}
}

// Metrics 监控信息查询
func (h *Handler) Metrics(req *restful.Request, resp *restful.Response) {
	h.handler.ServeHTTP(resp.ResponseWriter, req.Request)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

type errorLogger struct{}

func (errorLogger) Println(v ...interface{}) {
	klog.Error(v...)
}
