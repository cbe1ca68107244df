package rcon

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/craftctl-project/craftctl/internal/util"
)

// clientID is the fixed correlation id stamped on every request packet. The
// protocol only needs it to be distinguishable from -1, which is reserved to
// signal an authentication failure.
const clientID int32 = 0x0BADC0DE

// authFailedID is the reserved response id the server uses to reject
// credentials. It must never be treated as a legitimate correlation id.
const authFailedID int32 = -1

// Options configures a Session.
type Options struct {
	// Timeout bounds each request/response round trip, including the
	// authentication exchange. Zero means no deadline: a silent peer blocks
	// the caller indefinitely, matching the upstream client behavior.
	Timeout time.Duration
}

// Session owns a single RCON connection and its authentication state. The
// protocol has no multiplexing, so a session permits exactly one in-flight
// request at a time; concurrent callers are serialized by a mutex.
type Session struct {
	mu      sync.Mutex
	conn    net.Conn
	state   atomic.Int32
	timeout time.Duration
	logger  zerolog.Logger
}

// Connect dials host:port, authenticates with password, and returns a
// session in the Ready state. A dial failure is reported as *ConnectError; a
// rejected password as ErrAuthFailed. On any failure the connection is
// closed before returning.
func Connect(ctx context.Context, host string, port uint16, password string, opts Options) (*Session, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &ConnectError{Addr: addr, Err: err}
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}

	s := NewSession(conn, opts)
	if err := s.Authenticate(password); err != nil {
		conn.Close()
		return nil, err
	}

	s.logger.Debug().Str("addr", addr).Msg("session ready")
	return s, nil
}

// NewSession wraps an established connection without authenticating. The
// session starts in the Authenticating state; call Authenticate to bring it
// to Ready. Useful for tests and for transports other than plain TCP.
func NewSession(conn net.Conn, opts Options) *Session {
	s := &Session{
		conn:    conn,
		timeout: opts.Timeout,
		logger:  util.ComponentLogger("rcon"),
	}
	s.state.Store(int32(StateAuthenticating))
	return s
}

// State reports the session's current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
}

// Authenticate sends the password and reads the server's verdict. Only the
// reserved id -1 is authoritative for failure; servers are inconsistent
// about echoing the request id on success, so any other id is accepted.
func (s *Session) Authenticate(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() != StateAuthenticating {
		return ErrNotReady
	}

	resp, err := s.roundTrip(Packet{ID: clientID, Kind: KindAuthenticate, Payload: password})
	if err != nil {
		s.setState(StateFailed)
		return fmt.Errorf("authenticate: %w", err)
	}

	if resp.ID == authFailedID {
		s.setState(StateFailed)
		return ErrAuthFailed
	}

	s.setState(StateReady)
	return nil
}

// Execute sends command to the server and returns its textual reply, which
// may be empty. The call blocks until a full response frame arrives or the
// connection errors. A response carrying an unexpected id is reported as
// *CorrelationError; the session stays usable, since a later response may
// correlate correctly.
func (s *Session) Execute(command string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() != StateReady {
		return "", ErrNotReady
	}

	resp, err := s.roundTrip(Packet{ID: clientID, Kind: KindExecCommand, Payload: command})
	if err != nil {
		return "", fmt.Errorf("execute command: %w", err)
	}

	if resp.ID != clientID {
		s.logger.Warn().
			Int32("got_id", resp.ID).
			Int32("want_id", clientID).
			Msg("response id mismatch, stream may be desynchronized")
		return "", &CorrelationError{Want: clientID, Got: resp.ID}
	}

	return resp.Payload, nil
}

// Close closes the underlying connection and moves the session to Closed.
// Safe to call more than once.
func (s *Session) Close() error {
	if s.State() == StateClosed {
		return nil
	}
	s.setState(StateClosed)
	return s.conn.Close()
}

// roundTrip writes one request frame and reads exactly one response frame.
// Callers must hold s.mu.
func (s *Session) roundTrip(req Packet) (Packet, error) {
	if s.timeout > 0 {
		s.conn.SetDeadline(time.Now().Add(s.timeout))
		defer s.conn.SetDeadline(time.Time{})
	}

	if err := WritePacket(s.conn, req); err != nil {
		return Packet{}, err
	}
	return ReadPacket(s.conn)
}
