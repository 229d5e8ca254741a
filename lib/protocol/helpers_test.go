// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"errors"
	"io"
	"testing"

	"github.com/bureau-foundation/sasd/lib/rpc"
	v1 "github.com/bureau-foundation/sasd/lib/rpc/v1"
	"github.com/bureau-foundation/sasd/lib/settings"
	"github.com/bureau-foundation/sasd/lib/testutil"
)

// testSettings builds settings with both sections, the token data
// directory being tokenDir.
func testSettings(t *testing.T, tokenDir string) *settings.Settings {
	t.Helper()
	built, err := settings.NewBuilderFor(settings.PlatformUnix).
		Port(7123).
		Unix().SocketDir(t.TempDir()).Done().
		Windows().TokenDataDir(tokenDir).Done().
		Build()
	if err != nil {
		t.Fatalf("building settings: %v", err)
	}
	return built
}

type contextOptions struct {
	random   io.Reader
	handlers map[v1.SessionMethod]Handler
}

// newTestContext returns a Context whose token directory must be empty
// again when the test ends.
func newTestContext(t *testing.T, profile Profile, options ...func(*contextOptions)) *Context {
	t.Helper()
	var opts contextOptions
	for _, option := range options {
		option(&opts)
	}
	ctx, err := NewContext(ContextConfig{
		Settings: testSettings(t, testutil.TokenDir(t)),
		Profile:  profile,
		Random:   opts.random,
		Handlers: opts.handlers,
	})
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	t.Cleanup(func() { ctx.Close() })
	return ctx
}

func withRandom(random io.Reader) func(*contextOptions) {
	return func(o *contextOptions) { o.random = random }
}

func withHandler(method v1.SessionMethod, handler Handler) func(*contextOptions) {
	return func(o *contextOptions) {
		if o.handlers == nil {
			o.handlers = make(map[v1.SessionMethod]Handler)
		}
		o.handlers[method] = handler
	}
}

func sideChannel(t *testing.T, secrets int) Profile {
	t.Helper()
	profile, err := SideChannelProfile(secrets)
	if err != nil {
		t.Fatalf("SideChannelProfile(%d): %v", secrets, err)
	}
	return profile
}

func versionRequest(id uint32, args ...any) rpc.Message {
	return rpc.NewRequest(id, rpc.RequestVersion, args).Message()
}

func sessionRequest(id uint32, method v1.SessionMethod, args ...any) rpc.Message {
	return rpc.NewRequest(id, method, args).Message()
}

func requireError(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
}

// requireResponse checks that step carries a v1 response with the
// given id and error code, and returns its result.
func requireResponse(t *testing.T, step Step, id uint32, code v1.SessionError) any {
	t.Helper()
	if step.Reply == nil {
		t.Fatal("expected a reply, got none")
	}
	response, err := rpc.ResponseFrom[v1.SessionError](*step.Reply)
	if err != nil {
		t.Fatalf("reply is not a v1 response: %v", err)
	}
	if response.ID() != id {
		t.Errorf("response id = %d, want %d", response.ID(), id)
	}
	if response.ErrorCode() != code {
		t.Errorf("response error = %s, want %s", response.ErrorCode(), code)
	}
	return response.Result()
}

func requireNext(t *testing.T, step Step, want Kind) {
	t.Helper()
	if step.Next == nil {
		t.Fatalf("expected next state %s, got none", want)
	}
	if step.Next.Kind() != want {
		t.Fatalf("next state = %s, want %s", step.Next.Kind(), want)
	}
}

// attached runs version negotiation and a fresh attach, returning the
// AuthSession state and the attach result.
func attached(t *testing.T, ctx *Context) (StateValue, []any) {
	t.Helper()
	step, err := Change(ctx, NewStart(), versionRequest(1, uint64(V1)))
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireNext(t, step, KindInitSession)

	step, err = Change(ctx, step.Next, sessionRequest(2, v1.Attach))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	requireNext(t, step, KindAuthSession)
	result, ok := requireResponse(t, step, 2, v1.Nil).([]any)
	if !ok {
		t.Fatalf("attach result is not a list")
	}
	return step.Next, result
}

// allStates returns one value of every variant.
func allStates() []StateValue {
	return []StateValue{NewStart(), &InitSession{}, &AuthSession{}, &Session{}}
}
