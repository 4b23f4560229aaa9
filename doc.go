// Package ev3dc provides a Go implementation of the EV3 direct command
// protocol.
//
// Direct commands are small bytecode programs sent to the brick over USB,
// executed at once and answered with the contents of their global memory.
// This module encodes the parameters, frames the packets, parses replies and
// turns monochrome images into draw commands.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	ev3dc/
//	├── param/           Parameter codec: constants, variable addresses, strings
//	├── command/         Command builder, memory allocator and packet framer
//	├── reply/           Reply header parser and memory cursor
//	├── display/         Bitmap run-length and delta transcoder, draw printer
//	├── packet/          Greedy packer of bytecode fragments
//	├── ops/             Builders for common operations (motors, LED, sound, info)
//	├── transport/       hidraw device, in-memory loopback, CBOR traffic capture
//	├── session/         Synchronous command/reply exchange
//	├── errors/          Structured error types for debugging
//	└── cmd/ev3dc/       Command line client with an interactive builder
//
// # Quick Start
//
// Read the battery level:
//
//	dev, err := transport.OpenDevice("/dev/hidraw0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := session.New(dev)
//	defer client.Close()
//
//	cmd := command.New()
//	code, layout, err := ops.BatteryPercentage(cmd)
//	cmd.Bytecode = code
//
//	rep, err := client.Exchange(ctx, cmd)
//	fields, err := reply.Split(rep.Memory(), layout...)
//	fmt.Println(fields[0][0]) // 0-100
//
// # Memory Model
//
// Every command carries a header word with the size of its local and global
// memory: 6 bits of local bytes and 10 bits of global bytes. Command.Allocate
// hands out addresses on either stack and fails once a stack is exhausted.
// Only global memory is returned in the reply.
//
// # Thread Safety
//
// Command and Client are NOT thread-safe and should be used by a single
// goroutine. The parameter codec and the transcoder are pure functions.
package ev3dc
