package transport

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wippyai/ev3dc/errors"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("transport: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Direction of a captured record
type Direction string

const (
	DirSent     Direction = "tx"
	DirReceived Direction = "rx"
)

// Record is one captured chunk of traffic.
type Record struct {
	Session string    `cbor:"1,keyasint"`
	Seq     uint64    `cbor:"2,keyasint"`
	Dir     Direction `cbor:"3,keyasint"`
	Time    int64     `cbor:"4,keyasint"` // unix nanoseconds
	Data    []byte    `cbor:"5,keyasint"`
}

// Recorder wraps a transport and writes every frame sent and every chunk
// received to a capture stream as a sequence of CBOR records.
type Recorder struct {
	t       Transport
	enc     *cbor.Encoder
	session string
	now     func() time.Time

	mu  sync.Mutex
	seq uint64
}

// NewRecorder records the traffic of t to w under a fresh session id.
func NewRecorder(t Transport, w io.Writer) *Recorder {
	r := &Recorder{
		t:       t,
		enc:     cborEncMode.NewEncoder(w),
		session: uuid.New().String(),
		now:     time.Now,
	}
	Logger().Debug("capture started", zap.String("session", r.session))
	return r
}

// Session returns the capture session id.
func (r *Recorder) Session() string {
	return r.session
}

func (r *Recorder) Write(p []byte) (int, error) {
	n, err := r.t.Write(p)
	if n > 0 {
		if rerr := r.record(DirSent, p[:n]); rerr != nil {
			return n, rerr
		}
	}
	return n, err
}

func (r *Recorder) Read(p []byte) (int, error) {
	n, err := r.t.Read(p)
	if n > 0 {
		if rerr := r.record(DirReceived, p[:n]); rerr != nil {
			return n, rerr
		}
	}
	return n, err
}

func (r *Recorder) Close() error {
	return r.t.Close()
}

func (r *Recorder) record(dir Direction, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := Record{
		Session: r.session,
		Seq:     r.seq,
		Dir:     dir,
		Time:    r.now().UnixNano(),
		Data:    append([]byte(nil), data...),
	}
	if err := r.enc.Encode(rec); err != nil {
		return errors.Wrap(errors.PhaseTransport, errors.KindInvalidValue, err, "write capture record")
	}
	r.seq++
	return nil
}

// ReadCapture decodes every record of a capture stream.
func ReadCapture(rd io.Reader) ([]Record, error) {
	dec := cbor.NewDecoder(rd)
	var out []Record
	for {
		var rec Record
		err := dec.Decode(&rec)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("transport: decode capture record %d: %w", len(out), err)
		}
		out = append(out, rec)
	}
}
