package v1

import (
	"github.com/clarechu/sys-assistant/src/metrics"
	"github.com/emicklei/go-restful/v3"
)

func MetricsHandler(handler *metrics.Handler) *restful.WebService {
	ws := new(restful.WebService)
	ws.Path("/metrics")
	ws.Route(ws.GET("").
		To(handler.Metrics).
		Doc("监控信息查询").
		Operation("metrics"))
	return ws
}
