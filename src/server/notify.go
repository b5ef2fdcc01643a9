package server

import (
	"github.com/coreos/go-systemd/v22/daemon"
	"k8s.io/klog/v2"
)

// sdNotify tells systemd about state changes when running as a
// Type=notify unit. Outside systemd it does nothing.
func sdNotify(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		klog.Warningf("sd_notify %q: %s", state, err)
		return
	}
	if sent {
		klog.V(2).Infof("sd_notify %q sent", state)
	}
}
