package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostInfo_UptimeString(t *testing.T) {
	tests := []struct {
		uptime time.Duration
		want   string
	}{
		{uptime: 0, want: "0d 0h 0m"},
		{uptime: 59 * time.Second, want: "0d 0h 0m"},
		{uptime: 3*time.Hour + 7*time.Minute, want: "0d 3h 7m"},
		{uptime: 50*time.Hour + 30*time.Minute + 20*time.Second, want: "2d 2h 30m"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			h := &HostInfo{Uptime: tt.uptime}
			assert.Equal(t, tt.want, h.UptimeString())
		})
	}
}

func TestHostInfo_BootTimeString(t *testing.T) {
	h := &HostInfo{BootTime: time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC)}
	assert.Equal(t, "2024-03-09 07:05:01", h.BootTimeString())
}

func TestFrequency(t *testing.T) {
	assert.False(t, FrequencyUnknown.Known())
	assert.Equal(t, Unknown, FrequencyUnknown.String())
	assert.False(t, Frequency(0).Known())
	assert.Equal(t, "2400.50 MHz", Frequency(2400.5).String())

	data, err := json.Marshal(CPUInfo{MaxFreq: FrequencyUnknown, CurrentFreq: 1800})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"maxFreq":"Unknown"`)
	assert.Contains(t, string(data), `"currentFreq":"1800.00 MHz"`)

	var got CPUInfo
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, FrequencyUnknown, got.MaxFreq)
	assert.Equal(t, Frequency(1800), got.CurrentFreq)

	var f Frequency
	assert.Error(t, f.UnmarshalText([]byte("fast")))
}
