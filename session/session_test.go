package session_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/wippyai/ev3dc/command"
	"github.com/wippyai/ev3dc/display"
	ev3errors "github.com/wippyai/ev3dc/errors"
	"github.com/wippyai/ev3dc/ops"
	"github.com/wippyai/ev3dc/reply"
	"github.com/wippyai/ev3dc/session"
	"github.com/wippyai/ev3dc/transport"
)

func TestExchange(t *testing.T) {
	lb := transport.NewLoopback()
	lb.Handler = func(id uint16, bytecode, mem []byte) byte {
		if bytes.Equal(bytecode[:2], []byte{0x81, 0x12}) {
			mem[0] = 76
		}
		return reply.StatusOK
	}
	c := session.New(lb)

	cmd := command.New()
	code, layout, err := ops.BatteryPercentage(cmd)
	if err != nil {
		t.Fatal(err)
	}
	cmd.Bytecode = code

	rep, err := c.Exchange(context.Background(), cmd)
	if err != nil {
		t.Fatal(err)
	}
	fields, err := reply.Split(rep.Memory(), layout...)
	if err != nil {
		t.Fatal(err)
	}
	if fields[0][0] != 76 {
		t.Errorf("battery = %d, want 76", fields[0][0])
	}
}

func TestExchange_ErrorFlag(t *testing.T) {
	lb := transport.NewLoopback()
	lb.Handler = func(uint16, []byte, []byte) byte { return reply.StatusError }
	c := session.New(lb)

	cmd := command.New()
	cmd.Bytecode = []byte{0x01}
	rep, err := c.Exchange(context.Background(), cmd)
	if !errors.Is(err, &ev3errors.Error{Phase: ev3errors.PhaseTransport, Kind: ev3errors.KindRemote}) {
		t.Fatalf("got %v, want remote error", err)
	}
	if rep == nil || !rep.Error() {
		t.Error("reply should be returned with its error flag")
	}
}

// mismatched answers every frame with a fixed id.
type mismatched struct {
	bytes.Buffer
}

func (m *mismatched) Write(p []byte) (int, error) {
	m.Buffer.Write([]byte{0x03, 0x00, 0x01, 0x00, reply.StatusOK})
	return len(p), nil
}

func (m *mismatched) Close() error { return nil }

func TestExchange_IDMismatch(t *testing.T) {
	c := session.New(&mismatched{})
	cmd := command.New()
	cmd.Bytecode = []byte{0x01}

	_, err := c.Exchange(context.Background(), cmd)
	if !errors.Is(err, &ev3errors.Error{Kind: ev3errors.KindReplyMismatch}) {
		t.Errorf("got %v, want reply mismatch", err)
	}
}

func TestExchange_NoReplyCommand(t *testing.T) {
	c := session.New(transport.NewLoopback())
	cmd := command.New()
	cmd.Reply = false
	if _, err := c.Exchange(context.Background(), cmd); err == nil {
		t.Error("expected error for no-reply command")
	}
}

func TestExchange_Canceled(t *testing.T) {
	lb := transport.NewLoopback()
	c := session.New(lb)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := command.New()
	if _, err := c.Exchange(ctx, cmd); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if lb.Frames() != 0 {
		t.Errorf("frame written after cancel")
	}
}

func TestSend(t *testing.T) {
	lb := transport.NewLoopback()
	c := session.New(lb)

	cmd := command.New()
	cmd.Bytecode = ops.UpdateScreen()
	if err := c.Send(context.Background(), cmd); err != nil {
		t.Fatal(err)
	}
	if !cmd.Reply {
		t.Error("Send should restore the reply flag")
	}
	if lb.Frames() != 1 {
		t.Errorf("Frames = %d, want 1", lb.Frames())
	}
	if _, err := lb.Read(make([]byte, 8)); err == nil {
		t.Error("no-reply frame should not be answered")
	}
}

func TestStream(t *testing.T) {
	lb := transport.NewLoopback()
	c := session.New(lb)

	cmd := command.New()
	if _, err := cmd.Allocate(command.Data32{}, true); err != nil {
		t.Fatal(err)
	}
	packets := [][]byte{{0x01}, {0x01, 0x01}, {0x01}}
	if err := c.Stream(context.Background(), cmd, packets); err != nil {
		t.Fatal(err)
	}
	if lb.Frames() != 3 {
		t.Errorf("Frames = %d, want 3", lb.Frames())
	}
	if cmd.ReservedBytes() != 0 {
		t.Errorf("allocation not freed: %d", cmd.ReservedBytes())
	}
}

func TestDraw(t *testing.T) {
	lb := transport.NewLoopback()
	var sent [][]byte
	lb.Handler = func(_ uint16, bytecode, _ []byte) byte {
		sent = append(sent, append([]byte(nil), bytecode...))
		return reply.StatusOK
	}
	c := session.New(lb, session.WithMaxPacket(100))

	bm := display.NewBitmap()
	for y := 0; y < 40; y++ {
		bm.Set(y, y, 1)
	}
	segs, err := display.RunLength(bm)
	if err != nil {
		t.Fatal(err)
	}
	frags, err := display.Printer(segs)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Draw(context.Background(), command.New(), frags, ops.UpdateScreen()); err != nil {
		t.Fatal(err)
	}
	if len(sent) < 2 {
		t.Fatalf("got %d packets, want several", len(sent))
	}
	for i, p := range sent {
		if len(p) > c.MaxPacket() {
			t.Errorf("packet %d has %d bytes", i, len(p))
		}
	}
	if !bytes.HasSuffix(sent[len(sent)-1], ops.UpdateScreen()) {
		t.Error("last packet should end with a screen update")
	}
}
