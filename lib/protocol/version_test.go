// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"errors"
	"math"
	"testing"
	"testing/quick"

	"github.com/bureau-foundation/sasd/lib/rpc"
)

func TestVersion_BadArgumentCount(t *testing.T) {
	ctx := newTestContext(t, DirectProfile())
	property := func(count uint8) bool {
		if count == 1 {
			return true
		}
		args := make([]any, count)
		for index := range args {
			args[index] = uint64(1)
		}
		_, err := Change(ctx, NewStart(), versionRequest(42, args...))
		return errors.Is(err, ErrInvalidMessage)
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestVersion_BadArgumentType(t *testing.T) {
	ctx := newTestContext(t, DirectProfile())
	for _, arg := range []any{"1", int64(-1), 1.5, []any{uint64(1)}, nil} {
		_, err := Change(ctx, NewStart(), versionRequest(42, arg))
		requireError(t, err, ErrInvalidMessage)
	}
}

func TestVersion_UnsupportedVersion(t *testing.T) {
	ctx := newTestContext(t, sideChannel(t, 2))
	property := func(value uint64, id uint32) bool {
		if value <= uint64(MaxProtocol) {
			value += uint64(MaxProtocol) + 1
		}
		step, err := Change(ctx, NewStart(), versionRequest(id, value))
		if err != nil || step.Next != nil || step.Reply == nil {
			return false
		}
		response, err := rpc.ResponseFrom[rpc.ResponseError](*step.Reply)
		return err == nil &&
			response.ID() == id &&
			response.ErrorCode() == rpc.ErrorUnsupportedVersion &&
			response.Result() == nil
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

func TestVersion_ZeroIsUnsupported(t *testing.T) {
	ctx := newTestContext(t, DirectProfile())
	step, err := Change(ctx, NewStart(), versionRequest(7, uint64(0)))
	if err != nil {
		t.Fatalf("Change: %v", err)
	}
	if step.Next != nil || step.Reply == nil {
		t.Fatalf("step = %+v, want unsupported-version reply", step)
	}
}

func TestVersion_Supported(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    Kind
	}{
		{"direct", DirectProfile(), KindSession},
		{"side channel one secret", Profile{secrets: 1}, KindInitSession},
		{"side channel two secrets", Profile{secrets: 2}, KindInitSession},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx := newTestContext(t, test.profile)
			// Accept the version however the integer was built.
			for _, version := range []any{uint64(V1), uint8(1), int64(1)} {
				step, err := Change(ctx, NewStart(), versionRequest(42, version))
				if err != nil {
					t.Fatalf("Change(%T): %v", version, err)
				}
				requireNext(t, step, test.want)
				if step.Reply != nil {
					t.Errorf("unexpected reply %v", step.Reply)
				}
			}
			if ctx.Protocol() != V1 {
				t.Errorf("negotiated protocol = %v, want v1", ctx.Protocol())
			}
		})
	}
}

func TestVersion_RenegotiateFromAnyState(t *testing.T) {
	ctx := newTestContext(t, sideChannel(t, 2))
	for _, state := range allStates() {
		step, err := Change(ctx, state, versionRequest(1, uint64(V1)))
		if err != nil {
			t.Fatalf("%s: %v", state.Kind(), err)
		}
		requireNext(t, step, KindInitSession)
	}
}

func TestParseProtocol(t *testing.T) {
	if protocol, ok := ParseProtocol(1); !ok || protocol != V1 {
		t.Errorf("ParseProtocol(1) = %v, %v", protocol, ok)
	}
	for _, number := range []uint64{0, 2, math.MaxUint64} {
		if _, ok := ParseProtocol(number); ok {
			t.Errorf("ParseProtocol(%d) succeeded", number)
		}
	}
}
