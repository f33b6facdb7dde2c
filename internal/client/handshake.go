package client

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/1ureka/rcon/internal/protocol"
)

// The protocol nominally answers an auth request with an empty value
// response followed by an auth response, but some servers send the auth
// response alone. The handshake accepts both orderings. A second packet is
// read only when the first was not an auth response, so a compliant server
// never blocks the client here.

// authVerdict is the outcome of inspecting one received packet during the
// handshake.
type authVerdict int

const (
	authMissing authVerdict = iota // not an auth response at all
	authValid                      // auth response with the login id
	authInvalid                    // auth response with a foreign id
)

// checkAuth classifies one received packet against the login id.
func checkAuth(loginID int32, pkt *protocol.Packet) authVerdict {
	if pkt.ResponseKind() != protocol.KindAuthResponse {
		return authMissing
	}
	if pkt.ID() == loginID {
		return authValid
	}
	return authInvalid
}

// recvAuth reads the server's reaction to an auth request. It returns nil
// when authenticated, ErrAuthRejected on a mismatched auth response and
// ErrAuthProtocol when neither of the first two packets is an auth
// response.
func recvAuth(r io.Reader, loginID int32) error {
	pkt, err := protocol.Decode(r)
	if err != nil {
		return err
	}

	switch checkAuth(loginID, pkt) {
	case authValid:
		return nil
	case authInvalid:
		return ErrAuthRejected
	}

	// First packet was the empty acknowledgement dialect — the verdict has
	// to be in the next one.
	pkt, err = protocol.Decode(r)
	if err != nil {
		return err
	}

	switch checkAuth(loginID, pkt) {
	case authValid:
		return nil
	case authInvalid:
		return ErrAuthRejected
	default:
		return ErrAuthProtocol
	}
}

// authenticate sends the auth packet and waits for the verdict, bounded by
// ctx like every other network operation.
func authenticate(ctx context.Context, conn net.Conn, authPkt *protocol.Packet) error {
	return withConn(ctx, conn, func() error {
		if err := protocol.Encode(conn, authPkt); err != nil {
			return fmt.Errorf("send auth request: %w", err)
		}
		return recvAuth(conn, authPkt.ID())
	})
}
