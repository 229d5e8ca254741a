// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/bureau-foundation/sasd/lib/rpc"
)

// Session is an authenticated connection. Requests go to the handlers
// registered in ContextConfig.Handlers.
type Session struct{}

func (*Session) Kind() Kind  { return KindSession }
func (*Session) stateValue() {}

func (s *Session) dispatch(ctx *Context, message rpc.Message) (Step, error) {
	var handler Handler
	request, err := checkMessage(s, message, func(request SessionRequest) error {
		var ok bool
		handler, ok = ctx.handlers[request.Method()]
		if !ok {
			return unexpectedMessagef("%s in state %s", request.Method(), s.Kind())
		}
		return nil
	})
	if err != nil {
		return Step{}, err
	}

	response, err := handler(ctx, request)
	if err != nil {
		return Step{}, err
	}
	if response.ID() != request.ID() {
		return Step{}, internalError(fmt.Errorf("%s handler answered id %d to request %d", request.Method(), response.ID(), request.ID()))
	}
	return Step{Reply: reply(response.Message())}, nil
}
