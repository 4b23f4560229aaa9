// Package session runs direct commands against a transport.
//
// A Client frames a Command, writes it, reads the matching reply and
// checks it. It is synchronous: one command is in flight at a time.
//
//	c := session.New(transport.NewLoopback())
//	cmd := command.New()
//	cmd.Bytecode, layout, _ = ops.BatteryPercentage(cmd)
//	rep, err := c.Exchange(ctx, cmd)
package session

import (
	"context"
	"encoding/hex"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/ev3dc/command"
	"github.com/wippyai/ev3dc/errors"
	"github.com/wippyai/ev3dc/packet"
	"github.com/wippyai/ev3dc/reply"
	"github.com/wippyai/ev3dc/transport"
)

// Option configures a Client.
type Option func(*Client)

// WithMaxPacket sets the bytecode budget used by Draw.
func WithMaxPacket(n int) Option {
	return func(c *Client) { c.maxPacket = n }
}

// Client exchanges commands over one transport.
type Client struct {
	t         transport.Transport
	maxPacket int
}

// New returns a client for t.
func New(t transport.Transport, opts ...Option) *Client {
	c := &Client{t: t, maxPacket: packet.DefaultMaxSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxPacket returns the bytecode budget per packet.
func (c *Client) MaxPacket() int {
	return c.maxPacket
}

// Close closes the transport.
func (c *Client) Close() error {
	return c.t.Close()
}

// Exchange sends cmd and waits for its reply. The reply is returned even
// when the brick reports an error, together with a KindRemote error.
func (c *Client) Exchange(ctx context.Context, cmd *command.Command) (*reply.Reply, error) {
	if !cmd.Reply {
		return nil, errors.New(errors.PhaseTransport, errors.KindInvalidValue).
			Detail("command %d does not expect a reply", cmd.ID).
			Build()
	}
	if err := c.write(ctx, cmd); err != nil {
		return nil, err
	}

	raw, err := c.readFrame(ctx)
	if err != nil {
		return nil, err
	}
	rep, err := reply.Parse(raw)
	if err != nil {
		return nil, err
	}
	Logger().Debug("reply received",
		zap.Uint16("id", rep.ID()),
		zap.Uint8("status", rep.Status()),
		zap.Int("memory", len(rep.Memory())))

	if rep.ID() != cmd.ID {
		return rep, errors.New(errors.PhaseTransport, errors.KindReplyMismatch).
			Value(rep.ID()).
			Detail("reply id %d does not match command id %d", rep.ID(), cmd.ID).
			Build()
	}
	if rep.Error() {
		return rep, errors.New(errors.PhaseTransport, errors.KindRemote).
			Value(rep.Status()).
			Detail("brick rejected command %d", cmd.ID).
			Build()
	}
	return rep, nil
}

// Send writes cmd with the no-reply flag and returns without waiting.
func (c *Client) Send(ctx context.Context, cmd *command.Command) error {
	want := cmd.Reply
	cmd.Reply = false
	defer func() { cmd.Reply = want }()
	return c.write(ctx, cmd)
}

// Stream sends each packet as the bytecode of cmd. The allocation is freed
// before every packet, so packets must not carry variable addresses.
// Packets are exchanged when cmd expects a reply and sent otherwise.
func (c *Client) Stream(ctx context.Context, cmd *command.Command, packets [][]byte) error {
	for i, p := range packets {
		cmd.Free()
		cmd.Bytecode = p
		var err error
		if cmd.Reply {
			_, err = c.Exchange(ctx, cmd)
		} else {
			err = c.Send(ctx, cmd)
		}
		if err != nil {
			return errors.New(errors.PhaseTransport, errors.KindRemote).
				Cause(err).
				Detail("packet %d of %d", i+1, len(packets)).
				Build()
		}
	}
	Logger().Debug("stream complete", zap.Int("packets", len(packets)))
	return nil
}

// Draw packs fragments into packets, appends a screen update to the last
// one and streams them with cmd.
func (c *Client) Draw(ctx context.Context, cmd *command.Command, fragments [][]byte, update []byte) error {
	packets := packet.Pack(fragments, c.maxPacket)
	last := len(packets) - 1
	if len(packets[last])+len(update) > c.maxPacket && len(packets[last]) > 0 {
		packets = append(packets, nil)
		last++
	}
	packets[last] = append(packets[last], update...)
	return c.Stream(ctx, cmd, packets)
}

func (c *Client) write(ctx context.Context, cmd *command.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := cmd.Bytes()
	if err != nil {
		return err
	}
	if ce := Logger().Check(zap.DebugLevel, "sending command"); ce != nil {
		ce.Write(zap.Uint16("id", cmd.ID), zap.Bool("reply", cmd.Reply), zap.String("frame", hex.EncodeToString(b)))
	}
	if _, err := c.t.Write(b); err != nil {
		return errors.Wrap(errors.PhaseTransport, errors.KindRemote, err, "write frame")
	}
	return nil
}

// readFrame reads one length-prefixed reply.
func (c *Client) readFrame(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	head := make([]byte, 2)
	if _, err := io.ReadFull(c.t, head); err != nil {
		return nil, errors.Wrap(errors.PhaseTransport, errors.KindRemote, err, "read reply length")
	}
	n := int(head[0]) | int(head[1])<<8
	if n < reply.HeaderSize-2 {
		return nil, errors.DimensionMismatch(errors.PhaseDecode, n+2, reply.HeaderSize)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, 2+n)
	copy(buf, head)
	if _, err := io.ReadFull(c.t, buf[2:]); err != nil {
		return nil, errors.Wrap(errors.PhaseTransport, errors.KindRemote, err, "read reply body")
	}
	return buf, nil
}
