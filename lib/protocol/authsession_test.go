// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"errors"
	"os"
	"testing"
	"testing/quick"

	v1 "github.com/bureau-foundation/sasd/lib/rpc/v1"
)

// issuedTokens attaches and returns the AuthSession state, the tokens
// in issue order and the token file path.
func issuedTokens(t *testing.T, ctx *Context) (StateValue, []string, string) {
	t.Helper()
	state, result := attached(t, ctx)
	path := result[len(result)-1].(string)
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading token file: %v", err)
	}
	tokens := make([]string, 0, len(result))
	for _, value := range result[:len(result)-1] {
		tokens = append(tokens, value.(string))
	}
	return state, append(tokens, string(contents)), path
}

func toArgs(values []string) []any {
	args := make([]any, len(values))
	for index, value := range values {
		args[index] = value
	}
	return args
}

func TestAuthSession_Success(t *testing.T) {
	for _, secrets := range []int{1, 2} {
		ctx := newTestContext(t, sideChannel(t, secrets))
		state, tokens, path := issuedTokens(t, ctx)

		step, err := Change(ctx, state, sessionRequest(11, v1.AuthAttach, toArgs(tokens)...))
		if err != nil {
			t.Fatalf("auth-attach: %v", err)
		}
		requireNext(t, step, KindSession)
		if result := requireResponse(t, step, 11, v1.Nil); result != nil {
			t.Errorf("result = %v, want nil", result)
		}
		if ctx.Store().HasAuthFile() {
			t.Error("token file still held after authentication")
		}
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("token file survived authentication: %v", err)
		}
	}
}

func TestAuthSession_Mismatch(t *testing.T) {
	tests := []struct {
		name    string
		secrets int
		modify  func(tokens []string) []string
		message string
	}{
		{
			name:    "client token",
			secrets: 2,
			modify:  func(tokens []string) []string { return []string{corrupt(tokens[0]), tokens[1]} },
			message: "client token doesn't match",
		},
		{
			name:    "auth token",
			secrets: 2,
			modify:  func(tokens []string) []string { return []string{tokens[0], corrupt(tokens[1])} },
			message: "auth token doesn't match",
		},
		{
			name:    "both tokens",
			secrets: 2,
			modify:  func(tokens []string) []string { return []string{tokens[1], tokens[0]} },
			message: "client token doesn't match",
		},
		{
			name:    "single auth token",
			secrets: 1,
			modify:  func(tokens []string) []string { return []string{corrupt(tokens[0])} },
			message: "auth token doesn't match",
		},
		{
			name:    "truncated auth token",
			secrets: 1,
			modify:  func(tokens []string) []string { return []string{tokens[0][:63]} },
			message: "auth token doesn't match",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx := newTestContext(t, sideChannel(t, test.secrets))
			state, tokens, path := issuedTokens(t, ctx)

			step, err := Change(ctx, state, sessionRequest(12, v1.AuthAttach, toArgs(test.modify(tokens))...))
			if err != nil {
				t.Fatalf("auth-attach: %v", err)
			}
			if step.Next != nil {
				t.Fatalf("mismatch changed state to %s", step.Next.Kind())
			}
			if result := requireResponse(t, step, 12, v1.InvalidAttach); result != test.message {
				t.Errorf("result = %#v, want %q", result, test.message)
			}
			if !ctx.Store().HasAuthFile() {
				t.Error("token file released after failed auth-attach")
			}
			if _, err := os.Stat(path); err != nil {
				t.Errorf("token file gone after failed auth-attach: %v", err)
			}

			// The client may retry with the right tokens.
			step, err = Change(ctx, state, sessionRequest(13, v1.AuthAttach, toArgs(tokens)...))
			if err != nil {
				t.Fatalf("retry: %v", err)
			}
			requireNext(t, step, KindSession)
		})
	}
}

func TestAuthSession_ArgumentCount(t *testing.T) {
	ctx := newTestContext(t, sideChannel(t, 2))
	state, tokens, _ := issuedTokens(t, ctx)
	property := func(count uint8) bool {
		count %= 16
		if count == 2 {
			return true
		}
		args := make([]any, count)
		for index := range args {
			args[index] = tokens[index%2]
		}
		_, err := Change(ctx, state, sessionRequest(1, v1.AuthAttach, args...))
		return errors.Is(err, ErrInvalidMessage)
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestAuthSession_NonStringArgument(t *testing.T) {
	ctx := newTestContext(t, sideChannel(t, 2))
	state, tokens, _ := issuedTokens(t, ctx)
	_, err := Change(ctx, state, sessionRequest(1, v1.AuthAttach, tokens[0], []byte(tokens[1])))
	requireError(t, err, ErrInvalidMessage)
}

func TestAuthSession_OtherMethods(t *testing.T) {
	ctx := newTestContext(t, sideChannel(t, 2))
	state, _, _ := issuedTokens(t, ctx)
	for _, method := range []v1.SessionMethod{v1.Attach, v1.KeyList, v1.CreateKey, v1.ProtocolStart} {
		_, err := Change(ctx, state, sessionRequest(1, method))
		requireError(t, err, ErrUnexpectedMessage)
	}
}
