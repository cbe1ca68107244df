package rcon_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/craftctl-project/craftctl/internal/rcon"
)

// respondOnce reads one request frame from conn and answers it with the
// packet produced by reply. Test failures inside the goroutine are reported
// through t.Error so the main goroutine still unblocks.
func respondOnce(t *testing.T, conn net.Conn, reply func(req rcon.Packet) rcon.Packet) {
	t.Helper()

	req, err := rcon.ReadPacket(conn)
	if err != nil {
		t.Errorf("stub server failed to read request: %s", err)
		return
	}
	if err := rcon.WritePacket(conn, reply(req)); err != nil {
		t.Errorf("stub server failed to write response: %s", err)
	}
}

func echoID(req rcon.Packet) rcon.Packet {
	return rcon.Packet{ID: req.ID, Kind: rcon.KindExecCommand}
}

func TestSessionAuthenticate(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		cc, sc := net.Pipe()
		defer cc.Close()
		defer sc.Close()

		s := rcon.NewSession(cc, rcon.Options{})
		go respondOnce(t, sc, echoID)

		if err := s.Authenticate("password goes here"); err != nil {
			t.Fatalf("Authenticate failed: %s", err)
		}
		if got := s.State(); got != rcon.StateReady {
			t.Fatalf("state after auth = %s, want %s", got, rcon.StateReady)
		}
	})

	t.Run("rejected by id -1", func(t *testing.T) {
		cc, sc := net.Pipe()
		defer cc.Close()
		defer sc.Close()

		s := rcon.NewSession(cc, rcon.Options{})
		go respondOnce(t, sc, func(rcon.Packet) rcon.Packet {
			return rcon.Packet{ID: -1, Kind: rcon.KindExecCommand}
		})

		err := s.Authenticate("wrong")
		if !errors.Is(err, rcon.ErrAuthFailed) {
			t.Fatalf("Authenticate = %v, want ErrAuthFailed", err)
		}
		if got := s.State(); got != rcon.StateFailed {
			t.Fatalf("state after rejected auth = %s, want %s", got, rcon.StateFailed)
		}

		if _, err := s.Execute("list"); !errors.Is(err, rcon.ErrNotReady) {
			t.Fatalf("Execute on failed session = %v, want ErrNotReady", err)
		}
	})

	t.Run("non-matching id still accepted", func(t *testing.T) {
		// Servers are inconsistent about echoing the request id on auth;
		// only the -1 sentinel is authoritative.
		cc, sc := net.Pipe()
		defer cc.Close()
		defer sc.Close()

		s := rcon.NewSession(cc, rcon.Options{})
		go respondOnce(t, sc, func(rcon.Packet) rcon.Packet {
			return rcon.Packet{ID: 999, Kind: rcon.KindExecCommand}
		})

		if err := s.Authenticate("pw"); err != nil {
			t.Fatalf("Authenticate with non-matching id failed: %s", err)
		}
	})
}

func TestSessionExecute(t *testing.T) {
	t.Run("reply payload returned", func(t *testing.T) {
		cc, sc := net.Pipe()
		defer cc.Close()
		defer sc.Close()

		s := rcon.NewSession(cc, rcon.Options{})
		go func() {
			respondOnce(t, sc, echoID)
			respondOnce(t, sc, func(req rcon.Packet) rcon.Packet {
				return rcon.Packet{ID: req.ID, Kind: rcon.KindExecCommand, Payload: "OK:" + req.Payload}
			})
		}()

		if err := s.Authenticate("pw"); err != nil {
			t.Fatalf("Authenticate failed: %s", err)
		}
		reply, err := s.Execute("list")
		if err != nil {
			t.Fatalf("Execute failed: %s", err)
		}
		if reply != "OK:list" {
			t.Fatalf("Execute reply = %q, want %q", reply, "OK:list")
		}
	})

	t.Run("correlation mismatch leaves session usable", func(t *testing.T) {
		cc, sc := net.Pipe()
		defer cc.Close()
		defer sc.Close()

		s := rcon.NewSession(cc, rcon.Options{})
		go func() {
			respondOnce(t, sc, echoID)
			respondOnce(t, sc, func(req rcon.Packet) rcon.Packet {
				return rcon.Packet{ID: req.ID + 1, Kind: rcon.KindExecCommand, Payload: "stray"}
			})
			respondOnce(t, sc, func(req rcon.Packet) rcon.Packet {
				return rcon.Packet{ID: req.ID, Kind: rcon.KindExecCommand, Payload: "pong"}
			})
		}()

		if err := s.Authenticate("pw"); err != nil {
			t.Fatalf("Authenticate failed: %s", err)
		}

		_, err := s.Execute("ping")
		var ce *rcon.CorrelationError
		if !errors.As(err, &ce) {
			t.Fatalf("Execute with mismatched id = %v, want *CorrelationError", err)
		}
		if got := s.State(); got != rcon.StateReady {
			t.Fatalf("state after correlation error = %s, want %s", got, rcon.StateReady)
		}

		reply, err := s.Execute("ping")
		if err != nil {
			t.Fatalf("Execute after correlation error failed: %s", err)
		}
		if reply != "pong" {
			t.Fatalf("Execute reply = %q, want %q", reply, "pong")
		}
	})

	t.Run("closed session refuses commands", func(t *testing.T) {
		cc, sc := net.Pipe()
		defer sc.Close()

		s := rcon.NewSession(cc, rcon.Options{})
		if err := s.Close(); err != nil {
			t.Fatalf("Close failed: %s", err)
		}

		if _, err := s.Execute("list"); !errors.Is(err, rcon.ErrNotReady) {
			t.Fatalf("Execute on closed session = %v, want ErrNotReady", err)
		}
	})

	t.Run("round trip deadline", func(t *testing.T) {
		cc, sc := net.Pipe()
		defer cc.Close()
		defer sc.Close()

		s := rcon.NewSession(cc, rcon.Options{Timeout: 20 * time.Millisecond})
		// No responder: the write blocks until the deadline expires.
		if err := s.Authenticate("pw"); err == nil {
			t.Fatal("Authenticate did not time out against a silent peer")
		}
	})
}

// startStubServer runs a single-connection RCON server that authenticates
// according to acceptAuth and answers every exec command with "OK:" plus the
// command payload.
func startStubServer(t *testing.T, acceptAuth bool) (host string, port uint16) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start stub server: %s", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			req, err := rcon.ReadPacket(conn)
			if err != nil {
				return
			}

			var resp rcon.Packet
			switch req.Kind {
			case rcon.KindAuthenticate:
				if acceptAuth {
					resp = rcon.Packet{ID: req.ID, Kind: rcon.KindExecCommand}
				} else {
					resp = rcon.Packet{ID: -1, Kind: rcon.KindExecCommand}
				}
			case rcon.KindExecCommand:
				resp = rcon.Packet{ID: req.ID, Kind: rcon.KindExecCommand, Payload: "OK:" + req.Payload}
			default:
				return
			}

			if err := rcon.WritePacket(conn, resp); err != nil {
				return
			}
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", uint16(addr.Port)
}

func TestConnectEndToEnd(t *testing.T) {
	host, port := startStubServer(t, true)

	s, err := rcon.Connect(context.Background(), host, port, "any password", rcon.Options{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Connect failed: %s", err)
	}
	defer s.Close()

	reply, err := s.Execute("list")
	if err != nil {
		t.Fatalf("Execute failed: %s", err)
	}
	if reply != "OK:list" {
		t.Fatalf("Execute reply = %q, want %q", reply, "OK:list")
	}
}

func TestConnectAuthFailureEndToEnd(t *testing.T) {
	host, port := startStubServer(t, false)

	_, err := rcon.Connect(context.Background(), host, port, "whatever", rcon.Options{Timeout: 5 * time.Second})
	if !errors.Is(err, rcon.ErrAuthFailed) {
		t.Fatalf("Connect against rejecting server = %v, want ErrAuthFailed", err)
	}
}

func TestConnectDialFailure(t *testing.T) {
	// Grab a port that is guaranteed to be closed by the time we dial it.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := uint16(ln.Addr().(*net.TCPAddr).Port)
	ln.Close()

	_, err = rcon.Connect(context.Background(), "127.0.0.1", port, "pw", rcon.Options{Timeout: time.Second})
	var ce *rcon.ConnectError
	if !errors.As(err, &ce) {
		t.Fatalf("Connect to closed port = %v, want *ConnectError", err)
	}
}
