// Package types holds the data model shared across the analysis engine:
// the operation-kind enum and the predicate helpers the detectors use to
// classify the events the engine ingests.
package types

// OpKind tags the kind of data operation a DataOp record describes.
type OpKind uint8

const (
	OpAlloc OpKind = iota
	OpAllocAsync
	OpDelete
	OpDeleteAsync
	OpTransferToDevice
	OpTransferToDeviceAsync
	OpTransferFromDevice
	OpTransferFromDeviceAsync
	OpAssociate
	OpDisassociate
)

func (k OpKind) String() string {
	switch k {
	case OpAlloc:
		return "alloc"
	case OpAllocAsync:
		return "alloc (async)"
	case OpDelete:
		return "delete"
	case OpDeleteAsync:
		return "delete (async)"
	case OpTransferToDevice:
		return "to device"
	case OpTransferToDeviceAsync:
		return "to device (async)"
	case OpTransferFromDevice:
		return "from device"
	case OpTransferFromDeviceAsync:
		return "from device (async)"
	case OpAssociate:
		return "associate"
	case OpDisassociate:
		return "disassociate"
	default:
		return "unknown"
	}
}

// IsAlloc reports whether k is a (possibly async) allocation.
func (k OpKind) IsAlloc() bool {
	return k == OpAlloc || k == OpAllocAsync
}

// IsDelete reports whether k is a (possibly async) deletion.
func (k OpKind) IsDelete() bool {
	return k == OpDelete || k == OpDeleteAsync
}

// IsTransferTo reports whether k moves data from host to device.
func (k OpKind) IsTransferTo() bool {
	return k == OpTransferToDevice || k == OpTransferToDeviceAsync
}

// IsTransferFrom reports whether k moves data from device to host.
func (k OpKind) IsTransferFrom() bool {
	return k == OpTransferFromDevice || k == OpTransferFromDeviceAsync
}

// IsTransfer reports whether k is any directed transfer, in either direction.
func (k OpKind) IsTransfer() bool {
	return k.IsTransferTo() || k.IsTransferFrom()
}

// IsAsync reports whether k is the asynchronous variant of its op.
func (k OpKind) IsAsync() bool {
	switch k {
	case OpAllocAsync, OpDeleteAsync, OpTransferToDeviceAsync, OpTransferFromDeviceAsync:
		return true
	default:
		return false
	}
}

// Valid reports whether k is one of the ten recognized op kinds. A producer
// record carrying any other value is an ingest anomaly and must be skipped
// with a warning rather than processed.
func (k OpKind) Valid() bool {
	return k <= OpDisassociate
}

// HostDeviceID returns the device id that by convention refers to the host,
// given the number of non-host (target) devices seen in the run: host opcodes
// that don't have a real target device (associate/disassociate on the host
// side, for example) are numbered one past the highest target device id.
func HostDeviceID(numDevices int) int {
	return numDevices
}
