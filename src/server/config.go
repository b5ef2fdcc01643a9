package server

import (
	"context"

	"github.com/clarechu/sys-assistant/src/config"
	"github.com/clarechu/sys-assistant/src/maintenance"
	"github.com/clarechu/sys-assistant/src/metrics"
	"github.com/clarechu/sys-assistant/src/poller"
	"github.com/clarechu/sys-assistant/src/server/router"
	routerv1 "github.com/clarechu/sys-assistant/src/server/router/v1"
	"k8s.io/klog/v2"
)

// SystemProvider is satisfied by *sysinfo.Provider.
type SystemProvider interface {
	routerv1.SystemInfo
	poller.MetricsSource
}

// maxScrapes bounds concurrent /metrics requests.
const maxScrapes = 40

func NewAssistant(cfg *config.Config, provider SystemProvider, orchestrator *maintenance.Orchestrator) (Bootstrap, error) {
	recorder := metrics.NewRecorder()
	p, err := poller.New(provider, func(s poller.Snapshot) {
		recorder.ObserveSample(s.Sample)
	}, poller.Config{
		Interval:    cfg.Poll.Interval,
		HistorySize: cfg.Poll.HistorySize,
		OnError:     recorder.ObservePollError,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	journal := NewJournal(orchestrator.Events(), recorder, cfg.Server.LogLines)
	// a running package manager is never killed by shutdown
	opCtx := context.WithoutCancel(ctx)
	routeServer := routerv1.NewRouteServer(opCtx, provider, p, orchestrator, journal)
	klog.V(2).Infof("api server on %s, poll interval %s", cfg.Server.Address, cfg.Poll.Interval)
	return &Assistant{
		address: cfg.Server.Address,
		server:  router.NewServer(routeServer, metrics.NewHandler(recorder, true, maxScrapes)),
		poller:  p,
		journal: journal,
		ctx:     ctx,
		cancel:  cancel,
		ready:   make(chan struct{}),
	}, nil
}
