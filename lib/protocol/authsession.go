// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"github.com/bureau-foundation/sasd/lib/rpc"
	v1 "github.com/bureau-foundation/sasd/lib/rpc/v1"
)

// AuthSession waits for the client to present the tokens issued by
// attach, the auth token read from the token file last.
type AuthSession struct{}

func (*AuthSession) Kind() Kind  { return KindAuthSession }
func (*AuthSession) stateValue() {}

func (s *AuthSession) dispatch(ctx *Context, message rpc.Message) (Step, error) {
	var values []string
	request, err := checkMessage(s, message, func(request SessionRequest) error {
		var checkError error
		values, checkError = s.checkMethod(ctx.profile, request)
		return checkError
	})
	if err != nil {
		return Step{}, err
	}
	return s.authAttach(ctx, request, values)
}

// checkMethod accepts auth-attach carrying exactly the profile's token
// count, all strings.
func (s *AuthSession) checkMethod(profile Profile, request SessionRequest) ([]string, error) {
	if request.Method() != v1.AuthAttach {
		return nil, unexpectedMessagef("%s in state %s", request.Method(), s.Kind())
	}
	args := request.Args()
	if len(args) != profile.Secrets() {
		return nil, invalidMessagef("%s: expected %d arguments, got %d", request.Method(), profile.Secrets(), len(args))
	}
	values, ok := stringArguments(args)
	if !ok {
		return nil, invalidMessagef("%s: arguments must be strings", request.Method())
	}
	return values, nil
}

// authAttach moves to Session when every token matches. On a mismatch
// the state is kept and the reply names the first token that failed.
func (s *AuthSession) authAttach(ctx *Context, request SessionRequest, values []string) (Step, error) {
	if mismatch := ctx.store.firstMismatch(values); mismatch >= 0 {
		name := ctx.profile.tokenName(mismatch)
		ctx.logger.Warn("auth-attach rejected", "token", name)
		return Step{
			Reply: reply(rpc.NewResponse(request.ID(), v1.InvalidAttach, name+" doesn't match").Message()),
		}, nil
	}

	if err := ctx.store.ReleaseAuthFile(); err != nil {
		ctx.logger.Warn("releasing token file", "error", err)
	}
	ctx.logger.Info("session authenticated")
	return Step{
		Next:  &Session{},
		Reply: reply(rpc.NewResponse(request.ID(), v1.Nil, nil).Message()),
	}, nil
}
