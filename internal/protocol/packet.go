// Package protocol defines the packet format and types for the console
// control protocol (RCON).
package protocol

import "errors"

// Packet type codes as transmitted on the wire. The numeric values are not
// self-describing: 2 means an exec request when sent and an auth response
// when received. Always classify with RequestKind or ResponseKind.
const (
	TypeValueResponse int32 = 0 // command output fragment (response only)
	TypeExecRequest   int32 = 2 // execute a console command (request)
	TypeAuthResponse  int32 = 2 // authentication verdict (response)
	TypeAuthRequest   int32 = 3 // password submission (request only)
)

// MaxBodySize is the protocol's hard cap on the body of a single packet.
const MaxBodySize = 4086

// bodyOverhead is the part of the size field not occupied by the body:
// id (4) + type (4) + body null (1) + packet null (1).
const bodyOverhead = 10

// ErrBodyTooLarge is returned by the packet constructors when the body
// exceeds MaxBodySize bytes.
var ErrBodyTooLarge = errors.New("packet body exceeds 4086 bytes")

// Packet represents one framed unit of the protocol. It is immutable once
// constructed; the size field is derived and never set directly.
type Packet struct {
	id   int32
	typ  int32
	body string
}

// New creates a packet with an explicit raw type code. The type is allowed
// to be any number; only the body length is checked.
func New(id, typ int32, body string) (*Packet, error) {
	if len(body) > MaxBodySize {
		return nil, ErrBodyTooLarge
	}
	return &Packet{id: id, typ: typ, body: body}, nil
}

// NewAuth creates an authentication request carrying the password.
func NewAuth(id int32, password string) (*Packet, error) {
	return New(id, TypeAuthRequest, password)
}

// NewExec creates a command execution request.
func NewExec(id int32, command string) (*Packet, error) {
	return New(id, TypeExecRequest, command)
}

// NewValueResponse creates a value-response packet. Clients send an empty
// one as an end-of-response probe when no safe command is available.
func NewValueResponse(id int32, value string) (*Packet, error) {
	return New(id, TypeValueResponse, value)
}

// ID returns the packet id assigned by the caller or the protocol.
func (p *Packet) ID() int32 { return p.id }

// Type returns the raw type code. Its meaning depends on direction.
func (p *Packet) Type() int32 { return p.typ }

// Body returns the packet's text payload.
func (p *Packet) Body() string { return p.body }

// Size returns the value of the wire size field: body length plus the
// 10-byte overhead. The size field itself is not included.
func (p *Packet) Size() int32 { return int32(len(p.body)) + bodyOverhead }

// RequestKind classifies the packet's type code as an outbound request.
func (p *Packet) RequestKind() Kind { return RequestKind(p.typ) }

// ResponseKind classifies the packet's type code as an inbound response.
func (p *Packet) ResponseKind() Kind { return ResponseKind(p.typ) }
