// Package packet packs bytecode fragments into command-sized packets.
package packet

// DefaultMaxSize is the bytecode budget of one packet, well under the
// brick's 1024 byte frame limit.
const DefaultMaxSize = 1000

// Pack concatenates fragments in order into packets of at most maxSize
// bytes. A fragment is never split: one that does not fit starts a new
// packet, and one larger than maxSize travels alone. The final packet is
// always emitted, so no fragments yields one empty packet. An empty buffer
// is never flushed mid-stream, so an oversized first fragment does not
// produce a leading empty packet.
func Pack(fragments [][]byte, maxSize int) [][]byte {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	var packets [][]byte
	prealloc := min(maxSize, DefaultMaxSize)
	buf := make([]byte, 0, prealloc)
	for _, frag := range fragments {
		if len(buf) > 0 && len(buf)+len(frag) > maxSize {
			packets = append(packets, buf)
			buf = make([]byte, 0, prealloc)
		}
		buf = append(buf, frag...)
	}
	return append(packets, buf)
}

// Size returns the total bytes across packets.
func Size(packets [][]byte) int {
	n := 0
	for _, p := range packets {
		n += len(p)
	}
	return n
}
