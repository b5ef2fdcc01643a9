package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/clarechu/sys-assistant/src/maintenance"
	"github.com/clarechu/sys-assistant/src/models"
	"github.com/clarechu/sys-assistant/src/poller"
	"github.com/emicklei/go-restful/v3"
	"k8s.io/klog/v2"
)

const (
	APIVersion = "/apis/v1alpha1"
)

// SystemInfo is satisfied by *sysinfo.Provider.
type SystemInfo interface {
	HostInfo(ctx context.Context) (*models.HostInfo, error)
	CPUInfo(ctx context.Context) (*models.CPUInfo, error)
	MemoryInfo(ctx context.Context) (*models.MemoryInfo, error)
	DiskPartitions(ctx context.Context) ([]*models.DiskPartitionInfo, error)
}

// HistorySource is satisfied by *poller.Poller.
type HistorySource interface {
	Latest() (poller.Snapshot, bool)
}

// Maintenance is satisfied by *maintenance.Orchestrator.
type Maintenance interface {
	Busy() bool
	Operations() []maintenance.Operation
	Start(ctx context.Context, name string) error
}

// Journal records what maintenance operations printed and returned.
type Journal interface {
	Status() models.MaintenanceStatus
}

type RouteInterface interface {
	Host(req *restful.Request, resp *restful.Response)
	CPU(req *restful.Request, resp *restful.Response)
	Memory(req *restful.Request, resp *restful.Response)
	Disks(req *restful.Request, resp *restful.Response)
	History(req *restful.Request, resp *restful.Response)
	MaintenanceStatus(req *restful.Request, resp *restful.Response)
	StartMaintenance(req *restful.Request, resp *restful.Response)
}

type RouteServer struct {
	// ctx outlives single requests; operations started over HTTP run on it.
	ctx         context.Context
	system      SystemInfo
	history     HistorySource
	maintenance Maintenance
	journal     Journal
}

func NewRouteServer(ctx context.Context, system SystemInfo, history HistorySource, m Maintenance, journal Journal) RouteInterface {
	return &RouteServer{
		ctx:         ctx,
		system:      system,
		history:     history,
		maintenance: m,
		journal:     journal,
	}
}

// SystemHandler 主机信息查询
func SystemHandler(router RouteInterface) *restful.WebService {
	ws := new(restful.WebService)
	ws.Path(APIVersion + "/system").Produces(restful.MIME_JSON)
	ws.Route(ws.GET("/host").To(router.Host).
		Doc("主机基本信息").
		Operation("host"))
	ws.Route(ws.GET("/cpu").To(router.CPU).
		Doc("CPU 信息").
		Operation("cpu"))
	ws.Route(ws.GET("/memory").To(router.Memory).
		Doc("内存信息").
		Operation("memory"))
	ws.Route(ws.GET("/disks").To(router.Disks).
		Doc("磁盘分区信息").
		Operation("disks"))
	return ws
}

// HistoryHandler 最近的采样窗口
func HistoryHandler(router RouteInterface) *restful.WebService {
	ws := new(restful.WebService)
	ws.Path(APIVersion + "/history").Produces(restful.MIME_JSON)
	ws.Route(ws.GET("").To(router.History).
		Doc("CPU 与内存的采样历史").
		Operation("history"))
	return ws
}

// MaintenanceHandler 系统维护
func MaintenanceHandler(router RouteInterface) *restful.WebService {
	ws := new(restful.WebService)
	ws.Path(APIVersion + "/maintenance").Produces(restful.MIME_JSON)
	ws.Route(ws.GET("").To(router.MaintenanceStatus).
		Doc("维护状态与日志").
		Operation("maintenanceStatus"))
	ws.Route(ws.POST("/{operation}").To(router.StartMaintenance).
		Doc("启动维护操作 update cleanup").
		Param(ws.PathParameter("operation", "update or cleanup").DataType("string")).
		Operation("startMaintenance"))
	return ws
}

func (r *RouteServer) Host(req *restful.Request, resp *restful.Response) {
	info, err := r.system.HostInfo(req.Request.Context())
	writeResult(resp, info, err)
}

func (r *RouteServer) CPU(req *restful.Request, resp *restful.Response) {
	info, err := r.system.CPUInfo(req.Request.Context())
	writeResult(resp, info, err)
}

func (r *RouteServer) Memory(req *restful.Request, resp *restful.Response) {
	info, err := r.system.MemoryInfo(req.Request.Context())
	writeResult(resp, info, err)
}

func (r *RouteServer) Disks(req *restful.Request, resp *restful.Response) {
	disks, err := r.system.DiskPartitions(req.Request.Context())
	if disks == nil {
		disks = []*models.DiskPartitionInfo{}
	}
	writeResult(resp, disks, err)
}

func (r *RouteServer) History(req *restful.Request, resp *restful.Response) {
	snapshot, ok := r.history.Latest()
	if !ok {
		_ = resp.WriteErrorString(http.StatusServiceUnavailable, "no sample collected yet")
		return
	}
	_ = resp.WriteAsJson(snapshot)
}

func (r *RouteServer) MaintenanceStatus(req *restful.Request, resp *restful.Response) {
	status := r.journal.Status()
	// The orchestrator turns busy before its first event reaches the journal.
	status.Busy = status.Busy || r.maintenance.Busy()
	for _, op := range r.maintenance.Operations() {
		status.Operations = append(status.Operations, op.Name)
	}
	_ = resp.WriteAsJson(status)
}

func (r *RouteServer) StartMaintenance(req *restful.Request, resp *restful.Response) {
	name := req.PathParameter("operation")
	err := r.maintenance.Start(r.ctx, name)
	switch {
	case err == nil:
		klog.Infof("maintenance %s started from %s", name, req.Request.RemoteAddr)
		_ = resp.WriteHeaderAndJson(http.StatusAccepted, map[string]string{"operation": name}, restful.MIME_JSON)
	case errors.Is(err, maintenance.ErrUnknownOperation):
		_ = resp.WriteErrorString(http.StatusNotFound, err.Error())
	case errors.Is(err, maintenance.ErrBusy):
		_ = resp.WriteErrorString(http.StatusConflict, err.Error())
	default:
		klog.Errorf("start maintenance %s: %s", name, err)
		_ = resp.WriteErrorString(http.StatusInternalServerError, err.Error())
	}
}

func Health(req *restful.Request, resp *restful.Response) {
	_, _ = resp.Write([]byte("ok"))
}

func writeResult(resp *restful.Response, value interface{}, err error) {
	if err != nil {
		klog.Errorf("query system info: %s", err)
		_ = resp.WriteErrorString(http.StatusInternalServerError, err.Error())
		return
	}
	_ = resp.WriteAsJson(value)
}
