// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/bureau-foundation/sasd/lib/rpc"
	v1 "github.com/bureau-foundation/sasd/lib/rpc/v1"
	"github.com/bureau-foundation/sasd/lib/token"
)

// checkMessage converts message into a SessionRequest and applies the
// state's method check. Notifications reaching a state are unexpected;
// a request that does not convert is invalid.
func checkMessage(state StateValue, message rpc.Message, checkMethod func(SessionRequest) error) (SessionRequest, error) {
	if message.Type() != rpc.TypeRequest {
		return SessionRequest{}, unexpectedMessagef("%s received in state %s", message.Type(), state.Kind())
	}
	request, err := rpc.RequestFrom[v1.SessionMethod](message)
	if err != nil {
		return SessionRequest{}, invalidMessage(err)
	}
	if err := checkMethod(request); err != nil {
		return SessionRequest{}, err
	}
	return request, nil
}

// stringArguments returns args as strings, or ok=false if any is not a
// string.
func stringArguments(args []any) (values []string, ok bool) {
	values = make([]string, len(args))
	for index, arg := range args {
		value, isString := rpc.AsString(arg)
		if !isString {
			return nil, false
		}
		values[index] = value
	}
	return values, true
}

// InitSession issues tokens to a client that has negotiated version 1
// with a side-channel profile. It accepts only attach.
type InitSession struct{}

func (*InitSession) Kind() Kind  { return KindInitSession }
func (*InitSession) stateValue() {}

func (s *InitSession) dispatch(ctx *Context, message rpc.Message) (Step, error) {
	request, err := checkMessage(s, message, func(request SessionRequest) error {
		return s.checkMethod(ctx.profile, request)
	})
	if err != nil {
		return Step{}, err
	}

	if s.canSkipAuth(ctx.store, ctx.profile, request) {
		if err := ctx.store.ReleaseAuthFile(); err != nil {
			ctx.logger.Warn("releasing token file", "error", err)
		}
		ctx.logger.Info("attach skipped, tokens already held")
		return Step{
			Next:  &Session{},
			Reply: reply(rpc.NewResponse(request.ID(), v1.Nil, nil).Message()),
		}, nil
	}
	return s.attach(ctx, request)
}

// checkMethod accepts attach with no arguments (fresh handshake) or
// with exactly the profile's token count (skip attempt).
func (s *InitSession) checkMethod(profile Profile, request SessionRequest) error {
	if request.Method() != v1.Attach {
		return unexpectedMessagef("%s in state %s", request.Method(), s.Kind())
	}
	count := len(request.Args())
	if count != 0 && count != profile.Secrets() {
		return invalidMessagef("%s: expected 0 or %d arguments, got %d", request.Method(), profile.Secrets(), count)
	}
	return nil
}

// canSkipAuth reports whether the request presents every stored token,
// in order.
func (s *InitSession) canSkipAuth(store *Store, profile Profile, request SessionRequest) bool {
	args := request.Args()
	if len(args) != profile.Secrets() || store.TokenCount() != profile.Secrets() {
		return false
	}
	values, ok := stringArguments(args)
	if !ok {
		return false
	}
	return store.matches(values)
}

// attach issues fresh tokens, writes the auth token to a new token
// file and answers with the non-auth tokens followed by the file path.
func (s *InitSession) attach(ctx *Context, request SessionRequest) (Step, error) {
	secrets := ctx.profile.Secrets()
	values := make([]string, secrets)
	for index := range values {
		value, err := token.Generate(ctx.random, token.Bytes)
		if err != nil {
			return Step{}, internalError(fmt.Errorf("generating %s: %w", ctx.profile.tokenName(index), err))
		}
		values[index] = value
	}
	if err := ctx.store.setTokens(values); err != nil {
		return Step{}, internalError(err)
	}

	directory, err := ctx.settings.TokenDataDir()
	if err != nil {
		ctx.store.clearTokens()
		return Step{}, internalError(err)
	}
	file, err := token.CreateFile(directory, ctx.random, []byte(values[secrets-1]))
	if err != nil {
		ctx.store.clearTokens()
		return Step{}, internalError(err)
	}
	if err := ctx.store.setAuthFile(file); err != nil {
		ctx.logger.Warn("releasing previous token file", "error", err)
	}

	result := make([]any, 0, secrets)
	for _, value := range values[:secrets-1] {
		result = append(result, value)
	}
	result = append(result, file.Path())

	ctx.logger.Info("tokens issued",
		"path", file.Path(),
		"tokens", ctx.store.Fingerprints(),
		"memory_locked", ctx.store.MemoryLocked(),
	)
	return Step{
		Next:  &AuthSession{},
		Reply: reply(rpc.NewResponse(request.ID(), v1.Nil, result).Message()),
	}, nil
}
