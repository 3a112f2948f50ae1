// Package ingest decodes a capture-adapter-produced JSON-lines event
// stream into the engine's append API, applying the producer-contract
// validation and warning rules: unrecognized kinds or missing required
// addresses are skipped with a warning rather than aborting the decode.
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/multierr"

	"github.com/lmarzen/ompdataperf/pkg/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Appender is the subset of the Engine facade ingest needs: the
// mutex-guarded append API and the fingerprint capability. Decoupled from
// the concrete engine type so this package has no import-cycle risk.
type Appender interface {
	AppendDataOp(op types.DataOp)
	AppendTargetRegion(r types.TargetRegion)
	FingerprintPayload(data []byte) uint64
}

// Observer receives per-record ingest telemetry as Decode runs. Structural
// typing lets *metrics.Registry satisfy this without ingest importing the
// metrics package. Observer may be nil.
type Observer interface {
	RecordIngested(kind types.OpKind)
	RecordSkipped()
}

// wireRecord is the on-the-wire shape of one capture-stream line. Only one
// of the two record shapes is populated per line, selected by RecordType.
type wireRecord struct {
	RecordType string `json:"record_type"`

	// data_op fields
	Kind        string `json:"kind"`
	SrcAddr     string `json:"src_addr"`
	DestAddr    string `json:"dest_addr"`
	SrcDevice   int    `json:"src_device"`
	DestDevice  int    `json:"dest_device"`
	Bytes       uint64 `json:"bytes"`
	CodeLoc     string `json:"code_loc"`
	StartNs     int64  `json:"start_ns"`
	EndNs       int64  `json:"end_ns"`
	Fingerprint *uint64 `json:"fingerprint,omitempty"`
	Payload     string `json:"payload,omitempty"` // base16 payload bytes, only when auditing

	// target_region fields
	Device int `json:"device"`
}

var kindByName = map[string]types.OpKind{
	"alloc":                      types.OpAlloc,
	"alloc_async":                types.OpAllocAsync,
	"delete":                     types.OpDelete,
	"delete_async":               types.OpDeleteAsync,
	"transfer_to_device":        types.OpTransferToDevice,
	"transfer_to_device_async":   types.OpTransferToDeviceAsync,
	"transfer_from_device":       types.OpTransferFromDevice,
	"transfer_from_device_async": types.OpTransferFromDeviceAsync,
	"associate":                  types.OpAssociate,
	"disassociate":               types.OpDisassociate,
}

func parseAddr(s string) (types.Addr, bool) {
	if s == "" {
		return 0, true // null addresses are valid for some kinds
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
	if err != nil {
		return 0, false
	}
	return types.Addr(v), true
}

// Decode reads newline-delimited JSON records from r and feeds them into
// eng via its append API, one record at a time. It never aborts on a bad
// individual record: anomalies are accumulated and returned together as a
// single combined warning via multierr, so a caller can log every
// anomaly from one pass instead of only the first. obs, if non-nil, is
// notified of every ingested or skipped record for live metrics export;
// pass nil when running a one-shot CLI analysis with no metrics sink.
func Decode(ctx context.Context, r io.Reader, eng Appender, obs Observer) (ingested, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var warnings error

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ingested, skipped, ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var rec wireRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			warnings = multierr.Append(warnings, fmt.Errorf("ingest: malformed record: %w", err))
			skipped++
			if obs != nil {
				obs.RecordSkipped()
			}
			continue
		}

		kind, err := apply(&rec, eng)
		if err != nil {
			warnings = multierr.Append(warnings, err)
			skipped++
			if obs != nil {
				obs.RecordSkipped()
			}
			continue
		}
		ingested++
		if obs != nil && rec.RecordType == "data_op" {
			obs.RecordIngested(kind)
		}
	}
	if err := scanner.Err(); err != nil {
		warnings = multierr.Append(warnings, fmt.Errorf("ingest: reading stream: %w", err))
	}

	return ingested, skipped, warnings
}

func apply(rec *wireRecord, eng Appender) (types.OpKind, error) {
	switch rec.RecordType {
	case "target_region":
		eng.AppendTargetRegion(types.TargetRegion{
			Device:    types.DeviceID(rec.Device),
			StartTime: time.Duration(rec.StartNs),
			EndTime:   time.Duration(rec.EndNs),
		})
		return 0, nil

	case "data_op":
		kind, ok := kindByName[rec.Kind]
		if !ok {
			return 0, fmt.Errorf("ingest: unrecognized op kind %q", rec.Kind)
		}

		src, ok := parseAddr(rec.SrcAddr)
		if !ok {
			return 0, fmt.Errorf("ingest: malformed src_addr %q", rec.SrcAddr)
		}
		dest, ok := parseAddr(rec.DestAddr)
		if !ok {
			return 0, fmt.Errorf("ingest: malformed dest_addr %q", rec.DestAddr)
		}
		if kind.IsAlloc() && dest == 0 {
			return 0, fmt.Errorf("ingest: %s record missing required dest_addr", rec.Kind)
		}
		if kind.IsDelete() && src == 0 {
			return 0, fmt.Errorf("ingest: %s record missing required src_addr", rec.Kind)
		}

		codeLoc, _ := parseAddr(rec.CodeLoc)

		var fp uint64
		switch {
		case rec.Fingerprint != nil:
			fp = *rec.Fingerprint
		case kind.IsTransfer() && rec.Payload != "":
			payload, err := decodeHex(rec.Payload)
			if err != nil {
				return 0, fmt.Errorf("ingest: malformed payload for %s record: %w", rec.Kind, err)
			}
			fp = eng.FingerprintPayload(payload)
		}

		eng.AppendDataOp(types.DataOp{
			Kind:        kind,
			SrcAddr:     src,
			DestAddr:    dest,
			SrcDevice:   types.DeviceID(rec.SrcDevice),
			DestDevice:  types.DeviceID(rec.DestDevice),
			Bytes:       rec.Bytes,
			CodeLoc:     types.CodeLoc(codeLoc),
			StartTime:   time.Duration(rec.StartNs),
			EndTime:     time.Duration(rec.EndNs),
			Fingerprint: fp,
		})
		return kind, nil

	default:
		return 0, fmt.Errorf("ingest: unrecognized record_type %q", rec.RecordType)
	}
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s)%2 != 0 {
		s = "0" + s
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}
