package router

import (
	"github.com/clarechu/sys-assistant/src/metrics"
	v1 "github.com/clarechu/sys-assistant/src/server/router/v1"
	"github.com/emicklei/go-restful/v3"
)

type Server struct {
	RestfulCont *restful.Container
}

// NewServer registers the API, metrics and health routes on a fresh container.
func NewServer(router v1.RouteInterface, handler *metrics.Handler) Server {
	server := Server{
		RestfulCont: restful.NewContainer(),
	}
	server.RestfulCont.Add(v1.SystemHandler(router))
	server.RestfulCont.Add(v1.HistoryHandler(router))
	server.RestfulCont.Add(v1.MaintenanceHandler(router))
	server.RestfulCont.Add(v1.MetricsHandler(handler))

	server.RestfulCont.Add(DefaultHandlers())
	return server
}

// DefaultHandlers registers the default set of supported HTTP request
// patterns with the restful Container.
func DefaultHandlers() *restful.WebService {
	ws := new(restful.WebService)
	ws.Route(
		ws.GET("/healthz").To(v1.Health).
			Doc("健康检查").
			Operation("health"))
	return ws
}
