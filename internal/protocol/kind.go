package protocol

// Kind is the logical classification of a packet's type code. Because the
// same code is reused across directions, a Kind can only be derived by
// stating whether the packet is being interpreted as a request or as a
// response; there is no direction-agnostic classification.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthRequest
	KindExecRequest
	KindAuthResponse
	KindValueResponse
)

// String returns a human-readable name for the Kind.
func (k Kind) String() string {
	switch k {
	case KindAuthRequest:
		return "AuthRequest"
	case KindExecRequest:
		return "ExecRequest"
	case KindAuthResponse:
		return "AuthResponse"
	case KindValueResponse:
		return "ValueResponse"
	default:
		return "Unknown"
	}
}

// ResponseKind classifies a raw type code as seen on a packet received from
// the server.
func ResponseKind(code int32) Kind {
	switch code {
	case TypeValueResponse:
		return KindValueResponse
	case TypeAuthResponse:
		return KindAuthResponse
	default:
		return KindUnknown
	}
}

// RequestKind classifies a raw type code as seen on a packet sent to the
// server.
func RequestKind(code int32) Kind {
	switch code {
	case TypeExecRequest:
		return KindExecRequest
	case TypeAuthRequest:
		return KindAuthRequest
	default:
		return KindUnknown
	}
}
