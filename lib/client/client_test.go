// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/sasd/lib/codec"
	"github.com/bureau-foundation/sasd/lib/rpc"
	v1 "github.com/bureau-foundation/sasd/lib/rpc/v1"
	"github.com/bureau-foundation/sasd/lib/testutil"
)

// tcpPair returns both ends of a loopback TCP connection. Unlike
// net.Pipe, writes are buffered, so the peer can reply while the
// client is still sending.
func tcpPair(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer listener.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- conn
	}()
	clientEnd, err := net.Dial("tcp", listener.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	serverEnd := testutil.RequireReceive(t, accepted, 5*time.Second, "accepting")
	return clientEnd, serverEnd
}

// peer is the server end of a connection. Each script entry sees the next
// message the client sent and returns the reply to write, or nil for
// none.
type peer struct {
	received chan rpc.Message
}

func newPeer(t *testing.T, script ...func(rpc.Message) *rpc.Message) (*Client, *peer) {
	t.Helper()
	clientEnd, serverEnd := tcpPair(t)
	t.Cleanup(func() {
		clientEnd.Close()
		serverEnd.Close()
	})

	p := &peer{received: make(chan rpc.Message, len(script))}
	go func() {
		decoder := codec.NewDecoder(serverEnd)
		encoder := codec.NewEncoder(serverEnd)
		for _, step := range script {
			var message rpc.Message
			if err := decoder.Decode(&message); err != nil {
				return
			}
			p.received <- message
			if reply := step(message); reply != nil {
				if err := encoder.Encode(*reply); err != nil {
					return
				}
			}
		}
	}()

	connection := New(clientEnd)
	connection.timeout = 5 * time.Second
	return connection, p
}

func silent(rpc.Message) *rpc.Message { return nil }

func respond(code v1.SessionError, result any) func(rpc.Message) *rpc.Message {
	return func(message rpc.Message) *rpc.Message {
		request, err := rpc.RequestFrom[v1.SessionMethod](message)
		if err != nil {
			return nil
		}
		reply := rpc.NewResponse(request.ID(), code, result).Message()
		return &reply
	}
}

func (p *peer) next(t *testing.T) rpc.Message {
	t.Helper()
	return testutil.RequireReceive(t, p.received, 5*time.Second, "peer receiving")
}

func TestAttach_Issued(t *testing.T) {
	connection, p := newPeer(t, silent, respond(v1.Nil, []any{"client", "/tmp/.token"}))

	if err := connection.Negotiate(1); err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	attachment, err := connection.Attach()
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if attachment.Skipped {
		t.Error("Skipped = true")
	}
	if len(attachment.Tokens) != 1 || attachment.Tokens[0] != "client" {
		t.Errorf("Tokens = %v", attachment.Tokens)
	}
	if attachment.Path != "/tmp/.token" {
		t.Errorf("Path = %q", attachment.Path)
	}

	version, err := rpc.RequestFrom[rpc.RequestMethod](p.next(t))
	if err != nil {
		t.Fatalf("version request: %v", err)
	}
	if version.ID() != 1 || len(version.Args()) != 1 {
		t.Errorf("version request = id %d args %v", version.ID(), version.Args())
	}
	attach, err := rpc.RequestFrom[v1.SessionMethod](p.next(t))
	if err != nil {
		t.Fatalf("attach request: %v", err)
	}
	if attach.ID() != 2 || attach.Method() != v1.Attach || len(attach.Args()) != 0 {
		t.Errorf("attach request = id %d method %s args %v", attach.ID(), attach.Method(), attach.Args())
	}
}

func TestAttach_Skipped(t *testing.T) {
	connection, p := newPeer(t, respond(v1.Nil, nil))
	attachment, err := connection.Attach("a", "b")
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if !attachment.Skipped {
		t.Errorf("attachment = %+v, want skipped", attachment)
	}
	request, _ := rpc.RequestFrom[v1.SessionMethod](p.next(t))
	if len(request.Args()) != 2 {
		t.Errorf("args = %v", request.Args())
	}
}

func TestAttach_MalformedResult(t *testing.T) {
	for name, result := range map[string]any{
		"not an array": "path",
		"empty":        []any{},
		"non-string":   []any{"a", uint64(1)},
	} {
		t.Run(name, func(t *testing.T) {
			connection, _ := newPeer(t, respond(v1.Nil, result))
			if _, err := connection.Attach(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCall_UnsupportedVersion(t *testing.T) {
	connection, _ := newPeer(t, rejectVersion)

	if err := connection.Negotiate(7); err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if _, err := connection.Attach(); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("err = %v, want ErrUnsupportedVersion", err)
	}
}

func TestCall_ResponseError(t *testing.T) {
	connection, _ := newPeer(t, respond(v1.InvalidAttach, "auth token doesn't match"))
	err := connection.AuthAttach("a", "b")

	var responseError *ResponseError
	if !errors.As(err, &responseError) {
		t.Fatalf("err = %v, want *ResponseError", err)
	}
	if responseError.Method != v1.AuthAttach || responseError.Code != v1.InvalidAttach {
		t.Errorf("ResponseError = %+v", responseError)
	}
	if got := responseError.Error(); got != "auth-attach: invalid attach: auth token doesn't match" {
		t.Errorf("Error() = %q", got)
	}
}

func TestCall_MismatchedID(t *testing.T) {
	wrongID := func(rpc.Message) *rpc.Message {
		reply := rpc.NewResponse(99, v1.Nil, nil).Message()
		return &reply
	}
	connection, _ := newPeer(t, wrongID)
	if _, err := connection.Call(v1.KeyList); err == nil {
		t.Fatal("expected error for mismatched reply id")
	}
}

func TestAuthenticate(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".token")
	if err := os.WriteFile(path, []byte("auth\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	connection, p := newPeer(t, respond(v1.Nil, []any{"client", path}), respond(v1.Nil, nil))

	tokens, err := connection.Authenticate()
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if len(tokens) != 2 || tokens[0] != "client" || tokens[1] != "auth" {
		t.Errorf("tokens = %v", tokens)
	}
	p.next(t)
	authAttach, err := rpc.RequestFrom[v1.SessionMethod](p.next(t))
	if err != nil {
		t.Fatalf("auth-attach request: %v", err)
	}
	if args := authAttach.Args(); authAttach.Method() != v1.AuthAttach || len(args) != 2 || args[1] != "auth" {
		t.Errorf("auth-attach = %s %v", authAttach.Method(), args)
	}
}

func TestDone(t *testing.T) {
	connection, p := newPeer(t, silent)
	if err := connection.Done(); err != nil {
		t.Fatalf("Done: %v", err)
	}
	notification, err := rpc.NotificationFrom[rpc.Notice](p.next(t))
	if err != nil {
		t.Fatalf("NotificationFrom: %v", err)
	}
	if notification.Code() != rpc.NoticeDone {
		t.Errorf("code = %v", notification.Code())
	}
}

func rejectVersion(message rpc.Message) *rpc.Message {
	request, err := rpc.RequestFrom[rpc.RequestMethod](message)
	if err != nil {
		return nil
	}
	reply := rpc.NewResponse(request.ID(), rpc.ErrorUnsupportedVersion, nil).Message()
	return &reply
}

func TestSync(t *testing.T) {
	connection, p := newPeer(t, silent, rejectVersion)
	if err := connection.Negotiate(1); err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if err := connection.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	p.next(t)
	request, err := rpc.RequestFrom[rpc.RequestMethod](p.next(t))
	if err != nil {
		t.Fatalf("sync request: %v", err)
	}
	if request.ID() != 2 || len(request.Args()) != 1 {
		t.Errorf("sync request = id %d args %v", request.ID(), request.Args())
	}
	if version, _ := rpc.AsUint64(request.Args()[0]); version != 0 {
		t.Errorf("sync requested version %v, want 0", request.Args()[0])
	}
}

func TestSync_EarlierRejection(t *testing.T) {
	connection, _ := newPeer(t, rejectVersion, rejectVersion)
	if err := connection.Negotiate(9); err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if err := connection.Sync(); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("err = %v, want ErrUnsupportedVersion", err)
	}
}
