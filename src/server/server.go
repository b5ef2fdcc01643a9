package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/clarechu/sys-assistant/src/poller"
	"github.com/clarechu/sys-assistant/src/server/router"
	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

const shutdownTimeout = 5 * time.Second

type Bootstrap interface {
	// Run serves until ctx is done or Stop is called.
	Run(ctx context.Context) error
	Stop()
}

// Assistant runs the poller, the maintenance journal and the HTTP API
// together; the first to fail stops the others.
type Assistant struct {
	address string
	server  router.Server
	poller  *poller.Poller
	journal *Journal
	ctx     context.Context
	cancel  context.CancelFunc

	// ready is closed once the listener is bound.
	ready    chan struct{}
	listener net.Listener
}

// Addr is the bound listen address, valid after Ready is closed.
func (a *Assistant) Addr() string {
	return a.listener.Addr().String()
}

func (a *Assistant) Ready() <-chan struct{} {
	return a.ready
}

func (a *Assistant) Stop() {
	a.cancel()
}

func (a *Assistant) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, a.cancel)
	defer stop()
	defer a.cancel()

	ln, err := net.Listen("tcp", a.address)
	if err != nil {
		return err
	}
	a.listener = ln
	close(a.ready)

	httpServer := &http.Server{
		Handler:           a.server.RestfulCont,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.poller.Start()
	defer a.poller.Stop()

	g, gctx := errgroup.WithContext(a.ctx)
	g.Go(func() error {
		return a.journal.Run(gctx)
	})
	g.Go(func() error {
		klog.Infof("listening on %s", ln.Addr())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sdNotify(daemon.SdNotifyStopping)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	sdNotify(daemon.SdNotifyReady)
	return g.Wait()
}
