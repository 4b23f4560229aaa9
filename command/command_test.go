package command_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/wippyai/ev3dc/command"
	ev3errors "github.com/wippyai/ev3dc/errors"
	"github.com/wippyai/ev3dc/param"
)

func TestNewDefaults(t *testing.T) {
	cmd := command.New()
	if cmd.ID != 170 {
		t.Errorf("ID = %d, want 170", cmd.ID)
	}
	if !cmd.Reply {
		t.Error("Reply = false, want true")
	}
	if cmd.Allocation() != (command.Allocation{}) {
		t.Errorf("Allocation = %+v, want zero", cmd.Allocation())
	}
	if cmd.ReservedBytes() != 0 || cmd.ReplySize() != 5 {
		t.Errorf("ReservedBytes = %d, ReplySize = %d", cmd.ReservedBytes(), cmd.ReplySize())
	}
}

func TestDataTypeSizes(t *testing.T) {
	tests := []struct {
		dt   command.DataType
		size int
		name string
	}{
		{command.Data8{}, 1, "DATA8"},
		{command.Data16{}, 2, "DATA16"},
		{command.Data32{}, 4, "DATA32"},
		{command.DataF{}, 4, "DATAF"},
		{command.DataN{N: 32}, 32, "DATAN(32)"},
		{command.DataS{N: 12}, 13, "DATAS(12)"},
	}

	for _, tt := range tests {
		if got := tt.dt.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.name, got, tt.size)
		}
		if got := tt.dt.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}

	if got := command.Layout(command.DataN{N: 32}, command.Data8{}); got != 33 {
		t.Errorf("Layout = %d, want 33", got)
	}
}

func TestAllocateGlobalAddresses(t *testing.T) {
	cmd := command.New()

	for i := 0; i < 300; i++ {
		got, err := cmd.Allocate(command.Data8{}, true)
		if err != nil {
			t.Fatalf("allocation %d: %v", i, err)
		}

		var want []byte
		switch {
		case i < 32:
			want, _ = param.Encode(param.GV0(i))
		case i < 255:
			want, _ = param.Encode(param.GV1(i))
		default:
			want, _ = param.Encode(param.GV2(i))
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("allocation %d: got % X, want % X", i, got, want)
		}
	}

	if a := cmd.Allocation(); a.Global != 300 || a.Local != 0 {
		t.Errorf("Allocation = %+v, want Global 300", a)
	}
	if cmd.ReservedBytes() != 300 {
		t.Errorf("ReservedBytes = %d, want 300", cmd.ReservedBytes())
	}
}

func TestAllocateLocalAddresses(t *testing.T) {
	cmd := command.New()

	first, err := cmd.Allocate(command.DataN{N: 32}, false)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if !bytes.Equal(first, []byte{0x40}) {
		t.Errorf("first local: got % X, want 40", first)
	}

	second, err := cmd.Allocate(command.Data32{}, false)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if !bytes.Equal(second, []byte{0xC1, 0x20}) {
		t.Errorf("second local: got % X, want C1 20", second)
	}

	// the global axis is independent
	g, err := cmd.Allocate(command.Data16{}, true)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if !bytes.Equal(g, []byte{0x60}) {
		t.Errorf("global: got % X, want 60", g)
	}

	a := cmd.Allocation()
	if a.Local != 36 || a.Global != 2 {
		t.Errorf("Allocation = %+v, want Local 36 Global 2", a)
	}
	if cmd.ReservedBytes() != 38 {
		t.Errorf("ReservedBytes = %d, want 38", cmd.ReservedBytes())
	}
}

func TestAllocateOverflowLeavesCounters(t *testing.T) {
	tests := []struct {
		name   string
		fill   command.DataType
		next   command.DataType
		global bool
		axis   ev3errors.Axis
		limit  int
	}{
		{"global", command.DataN{N: 1020}, command.Data32{}, true, ev3errors.AxisGlobal, command.GlobalLimit},
		{"local", command.DataN{N: 60}, command.Data32{}, false, ev3errors.AxisLocal, command.LocalLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := command.New()
			if _, err := cmd.Allocate(tt.fill, tt.global); err != nil {
				t.Fatalf("fill: %v", err)
			}
			before := cmd.Allocation()

			_, err := cmd.Allocate(tt.next, tt.global)
			var ae *ev3errors.AllocationError
			if !errors.As(err, &ae) {
				t.Fatalf("got %v, want AllocationError", err)
			}
			if ae.Axis != tt.axis || ae.Requested != 4 || ae.Limit != tt.limit {
				t.Errorf("got %+v", ae)
			}
			if cmd.Allocation() != before {
				t.Errorf("counters changed: %+v -> %+v", before, cmd.Allocation())
			}
		})
	}
}

func TestAllocateExactLimit(t *testing.T) {
	cmd := command.New()
	if _, err := cmd.Allocate(command.DataN{N: command.GlobalLimit}, true); err != nil {
		t.Fatalf("fill to limit: %v", err)
	}
	if _, err := cmd.Allocate(command.Data8{}, true); err == nil {
		t.Error("expected overflow past the limit")
	}
	if _, err := cmd.Allocate(command.DataN{N: command.LocalLimit}, false); err != nil {
		t.Fatalf("local fill to limit: %v", err)
	}
}

func TestAllocateRejectsOversizedType(t *testing.T) {
	cmd := command.New()
	_, err := cmd.Allocate(command.DataS{N: 4096}, true)
	if !errors.Is(err, &ev3errors.Error{Phase: ev3errors.PhaseAllocate, Kind: ev3errors.KindInvalidRange}) {
		t.Errorf("got %v, want invalid range", err)
	}
	for _, dt := range []command.DataType{command.DataN{N: -1}, command.DataS{N: -1}, command.DataS{N: -2}} {
		addr, err := cmd.Allocate(dt, true)
		if !errors.Is(err, &ev3errors.Error{Phase: ev3errors.PhaseAllocate, Kind: ev3errors.KindInvalidRange}) {
			t.Errorf("%s: got %X, %v, want invalid range", dt, addr, err)
		}
	}
	if cmd.Allocation() != (command.Allocation{}) {
		t.Errorf("counters moved on rejected allocation: %+v", cmd.Allocation())
	}
}

func TestFree(t *testing.T) {
	cmd := command.New()
	if _, err := cmd.Allocate(command.DataS{N: 12}, true); err != nil {
		t.Fatal(err)
	}
	if _, err := cmd.Allocate(command.Data32{}, false); err != nil {
		t.Fatal(err)
	}

	cmd.Free()
	if cmd.Allocation() != (command.Allocation{}) {
		t.Errorf("Allocation after Free = %+v", cmd.Allocation())
	}

	addr, err := cmd.Allocate(command.Data8{}, true)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(addr, []byte{0x60}) {
		t.Errorf("address after Free: got % X, want 60", addr)
	}
}

func TestAllocationWord(t *testing.T) {
	a := command.Allocation{Local: 5, Global: 300}
	w := a.Word()
	if w != 5<<10|300 {
		t.Errorf("Word = 0x%04X", w)
	}
	if back := command.AllocationFromWord(w); back != a {
		t.Errorf("AllocationFromWord = %+v, want %+v", back, a)
	}
}

func TestBytes(t *testing.T) {
	for _, n := range []int{0, 1, 7, 1000} {
		cmd := command.New()
		cmd.Bytecode = bytes.Repeat([]byte{0x84}, n)

		pkt, err := cmd.Bytes()
		if err != nil {
			t.Fatalf("Bytes(%d): %v", n, err)
		}
		if len(pkt) != 2+5+n {
			t.Errorf("len = %d, want %d", len(pkt), 2+5+n)
		}
		if got := binary.LittleEndian.Uint16(pkt[0:2]); int(got) != 5+n {
			t.Errorf("length field = %d, want %d", got, 5+n)
		}
	}
}

func TestBytesLayout(t *testing.T) {
	cmd := command.New()
	addr, err := cmd.Allocate(command.Data8{}, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cmd.Allocate(command.Data32{}, false); err != nil {
		t.Fatal(err)
	}
	cmd.Bytecode = append([]byte{0x81, 0x12}, addr...)

	pkt, err := cmd.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x08, 0x00, // length
		0xAA, 0x00, // id 170
		0x00,       // reply expected
		0x01, 0x10, // local 4 << 10 | global 1
		0x81, 0x12, 0x60,
	}
	if !bytes.Equal(pkt, want) {
		t.Errorf("got % X, want % X", pkt, want)
	}

	cmd.Reply = false
	cmd.ID = 0x0102
	pkt, _ = cmd.Bytes()
	if pkt[4] != 0x80 || pkt[2] != 0x02 || pkt[3] != 0x01 {
		t.Errorf("no-reply header: got % X", pkt[:5])
	}
}

func TestBytesTooLong(t *testing.T) {
	cmd := command.New()
	cmd.Bytecode = make([]byte, command.MaxBytecode+1)
	if _, err := cmd.Bytes(); err == nil {
		t.Error("expected error for oversized bytecode")
	}
}
