// Package rcon implements the client side of the Source-derived RCON
// protocol used by the Minecraft server's remote console. Packets are
// length-prefixed binary frames with little-endian int32 fields:
//
//	[size:4][id:4][kind:4][payload bytes...][0x00][0x00]
//
// where size counts every byte after the size field itself: id, kind,
// payload, and the two terminating NUL bytes (the payload's string
// terminator plus the empty second string the protocol requires).
package rcon

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// Packet kinds for client requests. Server responses mirror these or use a
// dedicated response code; the client treats the kind as informational and
// correlates replies strictly by id.
const (
	KindExecCommand  int32 = 2
	KindAuthenticate int32 = 3
)

const (
	// MinPacketSize is the smallest declared size a valid frame can carry:
	// id (4) + kind (4) + the two NUL terminators.
	MinPacketSize = 10

	// MaxPacketSize is the largest declared size allowed by the protocol.
	MaxPacketSize = 4096

	headerSize = 8 // id + kind
)

// Packet is a single RCON frame, either a client request or a server
// response.
type Packet struct {
	ID      int32
	Kind    int32
	Payload string
}

// WritePacket encodes p and writes it to w as one frame. The frame is
// assembled in memory first so it reaches the socket in a single write.
func WritePacket(w io.Writer, p Packet) error {
	size := int32(headerSize + len(p.Payload) + 2)
	if size > MaxPacketSize {
		return &FramingError{Size: size, Reason: "payload too large"}
	}

	buf := make([]byte, 4+size)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(size))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(p.ID))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(p.Kind))
	copy(buf[12:], p.Payload)
	// The two NUL terminators are already zero in the buffer.

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write packet: %w", err)
	}
	return nil
}

// ReadPacket reads exactly one frame from r. A declared size outside
// [MinPacketSize, MaxPacketSize] is a *FramingError. The payload is decoded
// as UTF-8 with invalid sequences replaced rather than rejected, so a
// malformed server reply never turns into a decode failure.
func ReadPacket(r io.Reader) (Packet, error) {
	var size int32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return Packet{}, fmt.Errorf("read packet size: %w", err)
	}

	if size < MinPacketSize || size > MaxPacketSize {
		return Packet{}, &FramingError{Size: size, Reason: "declared size out of range"}
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return Packet{}, fmt.Errorf("read packet body (%d bytes): %w", size, err)
	}

	p := Packet{
		ID:   int32(binary.LittleEndian.Uint32(body[0:4])),
		Kind: int32(binary.LittleEndian.Uint32(body[4:8])),
	}
	// Everything between the header and the two trailing NUL bytes.
	p.Payload = strings.ToValidUTF8(string(body[headerSize:size-2]), "�")

	return p, nil
}
