// Package client implements the high-level console control protocol client.
// Given a reachable server address and a password, it opens an authenticated
// session and exposes a single execute operation that sends one command and
// returns its fully reassembled multi-packet response.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/1ureka/rcon/internal/protocol"
	"github.com/1ureka/rcon/internal/util"
)

// Default reserved packet ids. The command id tags every command request;
// the control id tags the end-of-response control packet. They occupy
// separate namespaces and must never collide.
const (
	DefaultCommandID int32 = 0
	DefaultControlID int32 = -1
)

var (
	// ErrAuthRejected means the handshake completed but the server refused
	// the credentials.
	ErrAuthRejected = errors.New("authentication rejected by server")

	// ErrAuthProtocol means the server never produced a recognizable
	// authentication response in either supported ordering.
	ErrAuthProtocol = errors.New("no valid authentication response from server")
)

// Options configures a session. The zero value (or a nil pointer) selects
// the defaults.
type Options struct {
	// SafeCommand is a server command guaranteed to elicit exactly one
	// response packet, used to build the control packet. When empty, an
	// empty value-response packet is used as the probe instead.
	SafeCommand string

	// DialTimeout bounds connection establishment. Zero means no bound
	// beyond the caller's context.
	DialTimeout time.Duration

	// CommandID is the packet id used for every command request.
	CommandID int32

	// ControlID is the packet id reserved for the control packet. Nil
	// selects DefaultControlID; any explicit value is honored, including 0.
	// It must differ from CommandID.
	ControlID *int32
}

// settings is an Options with all defaults resolved.
type settings struct {
	safeCommand string
	dialTimeout time.Duration
	commandID   int32
	controlID   int32
}

// normalized fills in defaults and rejects colliding reserved ids.
func (o *Options) normalized() (settings, error) {
	s := settings{controlID: DefaultControlID}
	if o != nil {
		s.safeCommand = o.SafeCommand
		s.dialTimeout = o.DialTimeout
		s.commandID = o.CommandID
		if o.ControlID != nil {
			s.controlID = *o.ControlID
		}
	}
	if s.controlID == s.commandID {
		return settings{}, fmt.Errorf("control id %d collides with command id", s.controlID)
	}
	return s, nil
}

// Client is one authenticated session on the console control protocol. It
// exclusively owns the underlying connection and the session's control
// packet; Close releases the connection.
//
// Exec calls are serialized internally — the protocol allows only one
// command in flight per session.
type Client struct {
	mu   sync.Mutex
	conn net.Conn

	control   *protocol.Packet
	commandID int32
}

// Open connects to addr (host:port), authenticates with password and
// returns a ready session. A deadline on ctx bounds the whole sequence;
// opts.DialTimeout additionally bounds the connect alone.
func Open(ctx context.Context, addr, password string, opts *Options) (*Client, error) {
	cfg, err := opts.normalized()
	if err != nil {
		return nil, err
	}

	if _, _, err := net.SplitHostPort(addr); err != nil {
		return nil, fmt.Errorf("parse server address: %w", err)
	}

	// Build both session packets up front so a bad password length or safe
	// command fails before any connection is made.
	authPkt, err := protocol.NewAuth(cfg.commandID, password)
	if err != nil {
		return nil, fmt.Errorf("build auth packet: %w", err)
	}

	var control *protocol.Packet
	if cfg.safeCommand != "" {
		control, err = protocol.NewExec(cfg.controlID, cfg.safeCommand)
	} else {
		control, err = protocol.NewValueResponse(cfg.controlID, "")
	}
	if err != nil {
		return nil, fmt.Errorf("build control packet: %w", err)
	}

	dialer := net.Dialer{Timeout: cfg.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}

	if err := authenticate(ctx, conn, authPkt); err != nil {
		conn.Close()
		return nil, err
	}

	return &Client{
		conn:      conn,
		control:   control,
		commandID: cfg.commandID,
	}, nil
}

// Exec submits a command and blocks until its complete response has been
// reassembled. It sends the command packet followed by the session's
// control packet, then concatenates the bodies of all response fragments
// until the control packet's reply arrives. A deadline on ctx bounds every
// read and write; on any failure the partial response is discarded.
func (c *Client) Exec(ctx context.Context, command string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pkt, err := protocol.NewExec(c.commandID, command)
	if err != nil {
		return "", fmt.Errorf("build command packet: %w", err)
	}

	var response strings.Builder
	err = withConn(ctx, c.conn, func() error {
		if err := protocol.Encode(c.conn, pkt); err != nil {
			return err
		}
		util.Stats.AddSent(int(pkt.Size()) + 4)

		if err := protocol.Encode(c.conn, c.control); err != nil {
			return err
		}
		util.Stats.AddSent(int(c.control.Size()) + 4)

		// Fragments keep arriving until the control packet's reply marks
		// the end of the response. Its own body carries nothing useful.
		for {
			resp, err := protocol.Decode(c.conn)
			if err != nil {
				return err
			}
			util.Stats.AddRecv(int(resp.Size()) + 4)
			util.Stats.AddPacket()

			if resp.ID() == c.control.ID() {
				return nil
			}
			response.WriteString(resp.Body())
		}
	})
	if err != nil {
		return "", err
	}

	util.Stats.AddCommand()
	return response.String(), nil
}

// Close tears down the session's connection. The Client must not be used
// afterwards.
func (c *Client) Close() error {
	return c.conn.Close()
}

// withConn runs fn against conn under ctx: a ctx deadline is applied to the
// connection for the duration of the call, and cancellation interrupts any
// blocked read or write by forcing an immediate deadline. A background ctx
// leaves the connection unbounded while fn runs.
//
// The deadline is always cleared before returning, even when the watcher
// fired, so a later call on the same connection starts unbounded again. A
// cancelled ctx always surfaces as its error: fn may have raced completion
// with the forced deadline and left the stream desynced.
func withConn(ctx context.Context, conn net.Conn, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if d, ok := ctx.Deadline(); ok {
		conn.SetDeadline(d)
	}
	defer conn.SetDeadline(time.Time{})

	done := make(chan struct{})
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		select {
		case <-ctx.Done():
			conn.SetDeadline(time.Unix(1, 0))
		case <-done:
		}
	}()

	err := fn()
	close(done)
	<-watched

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
