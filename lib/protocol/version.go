// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import "github.com/bureau-foundation/sasd/lib/rpc"

// VersionRequest is a request carrying a protocol-independent method.
type VersionRequest = rpc.Request[rpc.RequestMethod]

// negotiateVersion handles a version request. An unknown version is
// answered with ErrorUnsupportedVersion and leaves the state alone; a
// known one moves to the profile's first state without a reply.
func negotiateVersion(ctx *Context, request VersionRequest) (Step, error) {
	args := request.Args()
	if len(args) != 1 {
		return Step{}, invalidMessagef("version request: expected 1 argument, got %d", len(args))
	}
	number, ok := rpc.AsUint64(args[0])
	if !ok {
		return Step{}, invalidMessage(&rpc.FieldError{Field: "protocol version", Want: "unsigned integer", Value: args[0]})
	}

	protocol, ok := ParseProtocol(number)
	if !ok {
		ctx.logger.Info("unsupported protocol version requested", "version", number)
		return Step{Reply: reply(rpc.NewResponse(request.ID(), rpc.ErrorUnsupportedVersion, nil).Message())}, nil
	}

	ctx.protocol = protocol
	next := ctx.profile.firstState()
	ctx.logger.Debug("protocol negotiated", "version", protocol, "state", next.Kind())
	return Step{Next: next}, nil
}
