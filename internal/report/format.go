// Package report renders the engine's findings to the diagnostic stream:
// fixed-column tables per §6, with duration/percent/byte formatting
// helpers mirroring the original analyze.cc's format_* functions.
package report

import (
	"fmt"
	"time"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

// FormatDuration renders d with the largest unit that keeps the integer
// part readable: s, ms, µs, ns.
func FormatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	case d >= time.Microsecond:
		return fmt.Sprintf("%.2fµs", float64(d)/float64(time.Microsecond))
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}

// FormatPercent renders a percentage with two decimals and a trailing %.
func FormatPercent(percent float64) string {
	return fmt.Sprintf("%.2f%%", percent)
}

// FormatDeviceNum renders a device id, using the word "host" for the
// convention sentinel id (numDevices).
func FormatDeviceNum(numDevices int, device types.DeviceID) string {
	if int(device) == numDevices {
		return "host"
	}
	return fmt.Sprintf("%d", device)
}

// FormatOpKind renders an OpKind for the optype column.
func FormatOpKind(k types.OpKind) string {
	return k.String()
}

// FormatSymbol renders a resolved symbol/file/line, or the §7 placeholders
// when the oracle failed or the location has no debug info.
func FormatSymbol(function, file string, line int, oracleErr error) string {
	if oracleErr != nil {
		return "<symbolizer error>"
	}
	if function == "" {
		return "<optimized out>"
	}
	if file == "" {
		return function
	}
	return fmt.Sprintf("%s (%s:%d)", function, file, line)
}

// TimeShare computes the percentage of execTime that d represents, 0 if
// execTime is zero.
func TimeShare(d time.Duration, execTime time.Duration) float64 {
	if execTime <= 0 {
		return 0
	}
	return float64(d) / float64(execTime) * 100
}
