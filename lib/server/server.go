// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-limiter"
	"github.com/sethvargo/go-limiter/memorystore"

	"github.com/bureau-foundation/sasd/lib/codec"
	"github.com/bureau-foundation/sasd/lib/netutil"
	"github.com/bureau-foundation/sasd/lib/protocol"
	"github.com/bureau-foundation/sasd/lib/rpc"
	v1 "github.com/bureau-foundation/sasd/lib/rpc/v1"
	"github.com/bureau-foundation/sasd/lib/settings"
)

// Config configures a Server.
type Config struct {
	// Settings supplies the port and token directory. Required.
	Settings *settings.Settings

	// Profile selects the handshake every connection performs.
	Profile protocol.Profile

	// Handlers are the methods available once a connection reaches
	// Session state.
	Handlers map[v1.SessionMethod]protocol.Handler

	// Address overrides the listen address, which otherwise is
	// 127.0.0.1 on the configured port. Tests listen on port 0.
	Address string

	// ConnectionsPerSecond is the number of new connections accepted
	// per peer host per second. Zero disables the limit.
	ConnectionsPerSecond uint64

	// IdleTimeout closes a connection that sends nothing for this
	// long. Defaults to DefaultIdleTimeout.
	IdleTimeout time.Duration

	// Random overrides the token source. Nil means crypto/rand.
	Random io.Reader

	Logger *slog.Logger
}

// DefaultIdleTimeout is how long a client may stay silent mid-handshake.
const DefaultIdleTimeout = 2 * time.Minute

// writeTimeout is how long we wait for a reply to be written.
const writeTimeout = 10 * time.Second

// Server serves the sasd protocol on a TCP listener.
type Server struct {
	config  Config
	address string
	logger  *slog.Logger
	limiter limiter.Store

	ready    chan struct{}
	listener net.Listener

	// activeConnections tracks connection handlers for graceful
	// shutdown. Serve waits for all of them before returning.
	activeConnections sync.WaitGroup
}

// New validates config and returns a server. Nothing listens until
// Serve.
func New(config Config) (*Server, error) {
	if config.Settings == nil {
		return nil, errors.New("server: settings are required")
	}
	if config.Profile.SideChannel() {
		if _, err := config.Settings.TokenDataDir(); err != nil {
			return nil, fmt.Errorf("server: %s profile: %w", config.Profile, err)
		}
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	address := config.Address
	if address == "" {
		address = net.JoinHostPort("127.0.0.1", strconv.Itoa(int(config.Settings.Port())))
	}

	server := &Server{
		config:  config,
		address: address,
		logger:  logger,
		ready:   make(chan struct{}),
	}
	if config.ConnectionsPerSecond > 0 {
		store, err := memorystore.New(&memorystore.Config{
			Tokens:   config.ConnectionsPerSecond,
			Interval: time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("server: creating rate limiter: %w", err)
		}
		server.limiter = store
	}
	return server, nil
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address. Valid after Ready is closed.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve accepts connections until ctx is cancelled, then closes the
// listener and every open connection and waits for their handlers to
// release their token files.
func (s *Server) Serve(ctx context.Context) error {
	if s.limiter != nil {
		defer s.limiter.Close(context.Background())
	}
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.address, err)
	}
	s.listener = listener
	defer listener.Close()

	// Unblock Accept when the context is cancelled.
	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()

	s.logger.Info("sasd listening",
		"address", listener.Addr().String(),
		"profile", s.config.Profile.String(),
	)
	close(s.ready)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}

		if !s.allow(ctx, conn) {
			conn.Close()
			continue
		}

		s.activeConnections.Add(1)
		go func() {
			defer s.activeConnections.Done()
			s.handleConnection(ctx, conn)
		}()
	}

	s.activeConnections.Wait()
	return nil
}

// allow applies the per-host connection limit.
func (s *Server) allow(ctx context.Context, conn net.Conn) bool {
	if s.limiter == nil {
		return true
	}
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		host = conn.RemoteAddr().String()
	}
	_, _, _, ok, err := s.limiter.Take(ctx, host)
	if err != nil {
		s.logger.Warn("rate limiter failed", "peer", host, "error", err)
		return false
	}
	if !ok {
		s.logger.Warn("connection rate limited", "peer", host)
	}
	return ok
}

// handleConnection runs one connection's machine until the client
// finishes, a fatal error occurs, or ctx is cancelled.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	logger := s.logger.With(
		"connection", uuid.NewString(),
		"peer", conn.RemoteAddr().String(),
	)

	protocolContext, err := protocol.NewContext(protocol.ContextConfig{
		Settings: s.config.Settings,
		Profile:  s.config.Profile,
		Random:   s.config.Random,
		Logger:   logger,
		Handlers: s.config.Handlers,
	})
	if err != nil {
		logger.Error("creating connection context", "error", err)
		return
	}
	machine := protocol.NewMachine(protocolContext)
	defer func() {
		if err := machine.Close(); err != nil {
			logger.Warn("releasing connection", "error", err)
		}
	}()

	logger.Debug("connection accepted")
	decoder := codec.NewDecoder(conn)
	encoder := codec.NewEncoder(conn)

	for {
		conn.SetReadDeadline(time.Now().Add(s.config.IdleTimeout))

		var raw codec.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			switch {
			case ctx.Err() != nil, netutil.IsExpectedCloseError(err):
			case netutil.IsTimeout(err):
				logger.Info("closing idle connection", "state", machine.State().Kind())
			default:
				logger.Warn("reading message", "error", err)
			}
			return
		}

		var message rpc.Message
		if err := codec.Unmarshal(raw, &message); err != nil {
			logger.Info("message rejected", "state", machine.State().Kind(), "error", err)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Debug("rejected message contents", "cbor", describeRejected(raw))
			}
			continue
		}

		reply, err := machine.Handle(message)
		if err != nil {
			logger.Info("message rejected", "state", machine.State().Kind(), "error", err)
			if errors.Is(err, protocol.ErrInvalidMessage) {
				continue
			}
			return
		}

		if reply != nil {
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := encoder.Encode(reply); err != nil {
				logger.Debug("writing reply", "error", err)
				return
			}
		}
		if machine.Closed() {
			logger.Debug("connection finished")
			return
		}
	}
}

// cborStringPattern matches text strings and hex byte strings in CBOR
// diagnostic notation.
var cborStringPattern = regexp.MustCompile(`"(?:[^"\\]|\\.)*"|h'[0-9a-fA-F ]*'`)

// describeRejected renders raw in diagnostic notation with every text
// and byte string replaced, so a malformed envelope carrying a token
// never reaches the log.
func describeRejected(raw codec.RawMessage) string {
	notation, err := codec.Diagnose(raw)
	if err != nil {
		return "undecodable: " + err.Error()
	}
	return cborStringPattern.ReplaceAllStringFunc(notation, func(match string) string {
		if match[0] == 'h' {
			return "h'<redacted>'"
		}
		return `"<redacted>"`
	})
}
