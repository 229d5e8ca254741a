// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package client speaks the client side of the sasd handshake. It is
// used by `sasd probe` and by tests that exercise a running server.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/bureau-foundation/sasd/lib/codec"
	"github.com/bureau-foundation/sasd/lib/rpc"
	v1 "github.com/bureau-foundation/sasd/lib/rpc/v1"
	"github.com/bureau-foundation/sasd/lib/secret"
)

// ErrUnsupportedVersion is returned when the server rejected the
// requested protocol version.
var ErrUnsupportedVersion = errors.New("server does not support the requested protocol version")

// ResponseError is a response with a non-nil error code.
type ResponseError struct {
	Method v1.SessionMethod
	Code   v1.SessionError
	Result any
}

func (e *ResponseError) Error() string {
	if message, ok := e.Result.(string); ok {
		return fmt.Sprintf("%s: %s: %s", e.Method, e.Code, message)
	}
	return fmt.Sprintf("%s: %s", e.Method, e.Code)
}

// Client is one connection to the daemon. Calls are sequential; a
// Client is not safe for concurrent use.
type Client struct {
	conn    net.Conn
	encoder *codec.Encoder
	decoder *codec.Decoder
	timeout time.Duration
	nextID  uint32

	// versionID is the id of a version request whose outcome is not
	// known yet. The server answers a supported version with silence,
	// so the rejection, if any, arrives in place of the next reply.
	versionID    uint32
	versionInFly bool
}

// DefaultTimeout bounds each request/reply exchange.
const DefaultTimeout = 10 * time.Second

// Dial connects to the daemon at address.
func Dial(ctx context.Context, address string) (*Client, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", address, err)
	}
	return New(conn), nil
}

// New wraps an established connection.
func New(conn net.Conn) *Client {
	return &Client{
		conn:    conn,
		encoder: codec.NewEncoder(conn),
		decoder: codec.NewDecoder(conn),
		timeout: DefaultTimeout,
	}
}

// Close closes the connection without sending done.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) send(message rpc.Message) error {
	c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := c.encoder.Encode(message); err != nil {
		return fmt.Errorf("sending %s: %w", message.Type(), err)
	}
	return nil
}

func (c *Client) receive() (rpc.Response[v1.SessionError], error) {
	c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	var message rpc.Message
	if err := c.decoder.Decode(&message); err != nil {
		return rpc.Response[v1.SessionError]{}, fmt.Errorf("reading reply: %w", err)
	}
	response, err := rpc.ResponseFrom[v1.SessionError](message)
	if err != nil {
		return rpc.Response[v1.SessionError]{}, fmt.Errorf("reading reply: %w", err)
	}
	return response, nil
}

// Negotiate asks for protocol version. A supported version produces
// no reply, so a rejection surfaces as ErrUnsupportedVersion from the
// next call.
func (c *Client) Negotiate(version uint64) error {
	c.nextID++
	if err := c.send(rpc.NewRequest(c.nextID, rpc.RequestVersion, []any{version}).Message()); err != nil {
		return err
	}
	c.versionID = c.nextID
	c.versionInFly = true
	return nil
}

// Sync makes a round trip that leaves the server's state unchanged. It
// requests version 0, which no server supports, and waits for the
// rejection. A pending rejection of an earlier Negotiate surfaces here
// as ErrUnsupportedVersion.
func (c *Client) Sync() error {
	c.nextID++
	id := c.nextID
	if err := c.send(rpc.NewRequest(id, rpc.RequestVersion, []any{uint64(0)}).Message()); err != nil {
		return err
	}
	response, err := c.receive()
	if err != nil {
		return err
	}
	if c.versionInFly {
		c.versionInFly = false
		if response.ID() == c.versionID {
			return ErrUnsupportedVersion
		}
	}
	if response.ID() != id || response.ErrorCode() != v1.UnsupportedVersion {
		return fmt.Errorf("sync: unexpected reply to request %d: %v", id, response.Message())
	}
	return nil
}

// Call sends a version 1 request and waits for its response. A
// non-nil error code is returned as *ResponseError along with the
// response.
func (c *Client) Call(method v1.SessionMethod, args ...any) (rpc.Response[v1.SessionError], error) {
	c.nextID++
	id := c.nextID
	if err := c.send(rpc.NewRequest(id, method, args).Message()); err != nil {
		return rpc.Response[v1.SessionError]{}, err
	}

	response, err := c.receive()
	if err != nil {
		return response, err
	}
	if c.versionInFly {
		c.versionInFly = false
		if response.ID() == c.versionID && response.ErrorCode() == v1.UnsupportedVersion {
			return response, ErrUnsupportedVersion
		}
	}
	if response.ID() != id {
		return response, fmt.Errorf("%s: reply id %d does not match request %d", method, response.ID(), id)
	}
	if response.ErrorCode() != v1.Nil {
		return response, &ResponseError{Method: method, Code: response.ErrorCode(), Result: response.Result()}
	}
	return response, nil
}

// Attachment is the outcome of Attach.
type Attachment struct {
	// Skipped is set when the server accepted the presented tokens
	// and the session is already authenticated.
	Skipped bool

	// Tokens are the non-auth tokens issued, in order.
	Tokens []string

	// Path is the token file holding the auth token.
	Path string
}

// Attach starts the token handshake. With no tokens a fresh set is
// issued; with previously issued tokens the server may skip straight
// to an authenticated session.
func (c *Client) Attach(tokens ...string) (Attachment, error) {
	args := make([]any, len(tokens))
	for index, value := range tokens {
		args[index] = value
	}
	response, err := c.Call(v1.Attach, args...)
	if err != nil {
		return Attachment{}, err
	}
	if response.Result() == nil {
		return Attachment{Skipped: true}, nil
	}

	result, ok := rpc.AsArray(response.Result())
	if !ok || len(result) == 0 {
		return Attachment{}, fmt.Errorf("attach: malformed result %v", response.Result())
	}
	values := make([]string, len(result))
	for index, item := range result {
		value, ok := rpc.AsString(item)
		if !ok {
			return Attachment{}, fmt.Errorf("attach: result element %d is %T, want string", index, item)
		}
		values[index] = value
	}
	return Attachment{Tokens: values[:len(values)-1], Path: values[len(values)-1]}, nil
}

// AuthAttach presents the tokens, the auth token last.
func (c *Client) AuthAttach(tokens ...string) error {
	args := make([]any, len(tokens))
	for index, value := range tokens {
		args[index] = value
	}
	_, err := c.Call(v1.AuthAttach, args...)
	return err
}

// Authenticate performs attach and auth-attach, reading the auth token
// from the token file. It returns every token in issue order, for a
// later skip.
func (c *Client) Authenticate() ([]string, error) {
	attachment, err := c.Attach()
	if err != nil {
		return nil, err
	}
	authToken, err := secret.ReadFile(attachment.Path)
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	defer authToken.Close()

	tokens := append(attachment.Tokens, authToken.String())
	if err := c.AuthAttach(tokens...); err != nil {
		return nil, err
	}
	return tokens, nil
}

// Done tells the server the client is finished. The server closes the
// connection without replying.
func (c *Client) Done() error {
	return c.send(rpc.NewNotification(rpc.NoticeDone, nil).Message())
}
