package tracing

import "strconv"

// Mode is the resolved combination of tracing backends active for a
// function.
type Mode string

const (
	ModeNone   Mode = "none"
	ModeVendor Mode = "vendor"
	ModeXray   Mode = "xray"
	ModeHybrid Mode = "hybrid"
)

// ModeFor derives the tracing mode from the two resolved flags. Hybrid
// dominates when both are set.
func ModeFor(vendor, xray bool) Mode {
	switch {
	case vendor && xray:
		return ModeHybrid
	case vendor:
		return ModeVendor
	case xray:
		return ModeXray
	default:
		return ModeNone
	}
}

// VendorEnabled reports whether vendor tracing is part of the mode.
func (m Mode) VendorEnabled() bool {
	return m == ModeVendor || m == ModeHybrid
}

// XrayEnabled reports whether X-Ray tracing is part of the mode.
func (m Mode) XrayEnabled() bool {
	return m == ModeXray || m == ModeHybrid
}

// Environment variable names observed by the wrapper at invocation
// time. The tracing pass injects these so runtime code sees the same
// decisions the pipeline made.
const (
	EnvTraceEnabled    = "TRACEWIRE_TRACE_ENABLED"
	EnvXrayEnabled     = "TRACEWIRE_XRAY_ENABLED"
	EnvMergeXrayTraces = "TRACEWIRE_MERGE_XRAY_TRACES"
)

// Env returns the environment variables to set for a mode. The mapping
// is total: every variable gets a concrete value so re-running the
// injection replaces rather than accumulates.
func Env(m Mode) map[string]string {
	return map[string]string{
		EnvTraceEnabled:    strconv.FormatBool(m.VendorEnabled()),
		EnvXrayEnabled:     strconv.FormatBool(m.XrayEnabled()),
		EnvMergeXrayTraces: strconv.FormatBool(m == ModeHybrid),
	}
}
