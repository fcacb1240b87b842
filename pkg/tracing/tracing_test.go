package tracing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModeFor(t *testing.T) {
	tests := []struct {
		name   string
		vendor bool
		xray   bool
		want   Mode
	}{
		{"both off", false, false, ModeNone},
		{"vendor only", true, false, ModeVendor},
		{"xray only", false, true, ModeXray},
		{"both on", true, true, ModeHybrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ModeFor(tt.vendor, tt.xray))
		})
	}
}

func TestEnv(t *testing.T) {
	assert.Equal(t, map[string]string{
		EnvTraceEnabled:    "true",
		EnvXrayEnabled:     "false",
		EnvMergeXrayTraces: "false",
	}, Env(ModeVendor))

	assert.Equal(t, map[string]string{
		EnvTraceEnabled:    "true",
		EnvXrayEnabled:     "true",
		EnvMergeXrayTraces: "true",
	}, Env(ModeHybrid))

	assert.Equal(t, map[string]string{
		EnvTraceEnabled:    "false",
		EnvXrayEnabled:     "false",
		EnvMergeXrayTraces: "false",
	}, Env(ModeNone))
}
