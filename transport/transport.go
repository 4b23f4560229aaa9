// Package transport moves framed direct commands between the host and a
// brick.
//
// A Transport is any io.ReadWriteCloser that accepts one whole frame per
// Write and yields reply bytes on Read. Device talks to a hidraw node,
// Loopback answers frames in memory, and Recorder captures the traffic of
// another transport to a CBOR file.
package transport

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/ev3dc/errors"
)

// USB identification of the brick
const (
	VendorID  uint16 = 0x0694
	ProductID uint16 = 0x0005
)

// ReportSize is the size of one HID report exchanged with the brick.
const ReportSize = 1024

// Transport carries frames to a brick and replies back.
type Transport interface {
	io.ReadWriteCloser
}

// Device is a brick attached through a hidraw device node.
//
// Each Write is sent as one report prefixed with report id 0. Reads are
// served from the last report received, trimmed to the reply length so the
// zero padding of the report never reaches the caller.
type Device struct {
	f       *os.File
	path    string
	mu      sync.Mutex
	pending []byte
	report  []byte
}

// OpenDevice opens the hidraw node at path.
func OpenDevice(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTransport, errors.KindRemote, err, "open "+path)
	}
	Logger().Debug("device opened", zap.String("path", path))
	return &Device{f: f, path: path, report: make([]byte, ReportSize)}, nil
}

// Path returns the device node path.
func (d *Device) Path() string {
	return d.path
}

func (d *Device) Write(p []byte) (int, error) {
	if len(p) >= ReportSize {
		return 0, errors.InvalidRange(errors.PhaseTransport, []string{"frame"}, len(p), 0, ReportSize-1)
	}
	buf := make([]byte, 1+len(p))
	copy(buf[1:], p)
	if _, err := d.f.Write(buf); err != nil {
		return 0, errors.Wrap(errors.PhaseTransport, errors.KindRemote, err, "write report")
	}
	return len(p), nil
}

func (d *Device) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.pending) == 0 {
		n, err := d.f.Read(d.report)
		if err != nil {
			return 0, errors.Wrap(errors.PhaseTransport, errors.KindRemote, err, "read report")
		}
		d.pending = trimReport(d.report[:n])
	}
	n := copy(p, d.pending)
	d.pending = d.pending[n:]
	return n, nil
}

func (d *Device) Close() error {
	Logger().Debug("device closed", zap.String("path", d.path))
	return d.f.Close()
}

// trimReport cuts a report to the length declared by its header.
func trimReport(r []byte) []byte {
	if len(r) < 2 {
		return r
	}
	n := 2 + int(binary.LittleEndian.Uint16(r))
	if n > len(r) {
		return r
	}
	return r[:n]
}

func (d *Device) String() string {
	return fmt.Sprintf("hidraw(%s)", d.path)
}
