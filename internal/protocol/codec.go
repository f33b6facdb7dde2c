package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// headerLen is the byte length of the three leading int32 fields
// (size + id + type).
const headerLen = 12

// maxWireSize caps the size field a peer may declare: MaxBodySize plus the
// 10-byte overhead. Anything larger is rejected before allocation.
const maxWireSize = MaxBodySize + bodyOverhead

// ErrMalformedPacket is returned by Decode when a frame violates the wire
// format: an out-of-range size field, non-zero terminator bytes, or a body
// that is not valid UTF-8.
var ErrMalformedPacket = errors.New("malformed packet")

// Encode serializes a Packet onto w: size, id and type as little-endian
// signed 32-bit integers, the raw body bytes, a null ending the body string
// and a second null ending the packet. The total wire length is Size()+4.
func Encode(w io.Writer, pkt *Packet) error {
	buf := make([]byte, 4+pkt.Size())
	binary.LittleEndian.PutUint32(buf[0:4], uint32(pkt.Size()))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(pkt.id))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(pkt.typ))
	copy(buf[headerLen:], pkt.body)
	// The final two bytes are already zero from make.

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write packet: %w", err)
	}
	return nil
}

// Decode reads one Packet from r. The declared size is peer-controlled and
// is bounds-checked before any body allocation. A stream that ends before
// the declared length is satisfied fails as an I/O error; non-zero
// terminator bytes and non-UTF-8 bodies fail as ErrMalformedPacket.
func Decode(r io.Reader) (*Packet, error) {
	var header [headerLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read packet header: %w", err)
	}

	size := int32(binary.LittleEndian.Uint32(header[0:4]))
	id := int32(binary.LittleEndian.Uint32(header[4:8]))
	typ := int32(binary.LittleEndian.Uint32(header[8:12]))

	if size < bodyOverhead || size > maxWireSize {
		return nil, fmt.Errorf("%w: declared size %d outside [%d, %d]",
			ErrMalformedPacket, size, bodyOverhead, maxWireSize)
	}

	bodyLen := int(size) - bodyOverhead
	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read packet body: %w", err)
	}

	var term [2]byte
	if _, err := io.ReadFull(r, term[:]); err != nil {
		return nil, fmt.Errorf("read packet terminators: %w", err)
	}
	if term[0] != 0 || term[1] != 0 {
		return nil, fmt.Errorf("%w: non-zero terminator bytes %02x %02x",
			ErrMalformedPacket, term[0], term[1])
	}

	if !utf8.Valid(body) {
		return nil, fmt.Errorf("%w: body is not valid UTF-8", ErrMalformedPacket)
	}

	pkt, err := New(id, typ, string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}
	return pkt, nil
}
