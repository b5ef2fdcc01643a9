//go:build linux
// +build linux

package sysinfo

import (
	"context"
	"encoding/json"
	"testing"
)

// These run against the real host and only log what they find.

func TestProvider_HostInfoLive(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{
			name: "host",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewProvider().HostInfo(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("HostInfo() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			marshal, _ := json.Marshal(got)
			t.Logf("HostInfo() got = %s", string(marshal))
		})
	}
}

func TestProvider_CPUInfoLive(t *testing.T) {
	got, err := NewProvider().CPUInfo(context.Background())
	if err != nil {
		t.Errorf("CPUInfo() error = %v", err)
		return
	}
	if got.Percent < 0 || got.Percent > 100 {
		t.Errorf("CPUInfo() percent = %v, want [0,100]", got.Percent)
	}
	t.Logf("CPUInfo() got = %+v", got)
}

func TestProvider_DiskPartitionsLive(t *testing.T) {
	got, err := NewProvider().DiskPartitions(context.Background())
	if err != nil {
		t.Errorf("DiskPartitions() error = %v", err)
		return
	}
	for _, d := range got {
		t.Logf("%s on %s (%s) %.1f%%", d.Device, d.Mountpoint, d.Fstype, d.Percent)
	}
}
