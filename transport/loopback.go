package transport

import (
	"bytes"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/ev3dc/errors"
	"github.com/wippyai/ev3dc/internal/wire"
)

// Frame header constants mirrored from the brick protocol.
const (
	frameHeader   = 7 // length, id, flag, allocation
	flagNoReply   = 0x80
	statusOK      = 0x02
	globalMask    = 1<<10 - 1
	replyOverhead = 3 // id and status, counted by the length field
)

// Handler fills the global memory of a reply and returns its status byte.
type Handler func(id uint16, bytecode []byte, memory []byte) byte

// Loopback is an in-memory brick. Every frame written with the reply flag
// is answered with the same id, status OK and zeroed global memory sized
// from the frame's allocation word. Frames with the no-reply flag are
// swallowed.
type Loopback struct {
	// Handler optionally fills reply memory and picks the status.
	Handler Handler

	mu     sync.Mutex
	out    bytes.Buffer
	frames int
	closed bool
}

// NewLoopback returns an empty loopback transport.
func NewLoopback() *Loopback {
	return &Loopback{}
}

func (l *Loopback) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, errors.New(errors.PhaseTransport, errors.KindRemote).Detail("loopback closed").Build()
	}

	r := wire.NewReader(p)
	length, err := r.ReadU16LE()
	if err != nil {
		return 0, errors.Wrap(errors.PhaseTransport, errors.KindDimensionMismatch, err, "frame length")
	}
	if int(length)+2 != len(p) || len(p) < frameHeader {
		return 0, errors.DimensionMismatch(errors.PhaseTransport, len(p), int(length)+2)
	}
	id, _ := r.ReadU16LE()
	flag, _ := r.ReadByte()
	word, _ := r.ReadU16LE()
	bytecode, _ := r.ReadRemaining()
	l.frames++

	if flag&flagNoReply != 0 {
		Logger().Debug("loopback swallowed frame", zap.Uint16("id", id))
		return len(p), nil
	}

	mem := make([]byte, word&globalMask)
	status := byte(statusOK)
	if l.Handler != nil {
		status = l.Handler(id, bytecode, mem)
	}

	w := wire.NewWriterSize(2 + replyOverhead + len(mem))
	w.WriteU16LE(uint16(replyOverhead + len(mem)))
	w.WriteU16LE(id)
	w.Byte(status)
	w.WriteBytes(mem)
	l.out.Write(w.Bytes())

	Logger().Debug("loopback replied",
		zap.Uint16("id", id),
		zap.Int("memory", len(mem)),
		zap.Uint8("status", status))
	return len(p), nil
}

func (l *Loopback) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out.Len() == 0 {
		return 0, errors.New(errors.PhaseTransport, errors.KindRemote).Detail("no reply pending").Build()
	}
	return l.out.Read(p)
}

func (l *Loopback) Close() error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	return nil
}

// Frames returns how many frames were written.
func (l *Loopback) Frames() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}
