package types

import "time"

// Addr is an opaque address: a host pointer or a device handle, carried as
// a plain integer so the engine never dereferences it. Zero means "not
// applicable" for op kinds that don't use one side of the pair.
type Addr uint64

// DeviceID identifies a device. By convention, devices are numbered 0..N-1
// and N denotes the host; see HostDeviceID.
type DeviceID int

// CodeLoc is a raw instruction pointer, or zero if the producer didn't
// attach one. It is opaque to the engine and only meaningful to a
// Symbolizer.
type CodeLoc uint64

// DataOp is an immutable record of one data operation captured during the
// profiled run. Once appended to a log it is never mutated.
type DataOp struct {
	Kind       OpKind
	SrcAddr    Addr
	DestAddr   Addr
	SrcDevice  DeviceID
	DestDevice DeviceID
	Bytes      uint64
	CodeLoc    CodeLoc
	StartTime  time.Duration // monotonic nanosecond timestamp since capture start
	EndTime    time.Duration
	Fingerprint uint64 // defined only for transfer ops; zero otherwise
}

// Duration returns the op's elapsed wall-clock time.
func (d *DataOp) Duration() time.Duration {
	return d.EndTime - d.StartTime
}
