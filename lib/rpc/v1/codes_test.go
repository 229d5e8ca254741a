// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package v1

import (
	"testing"

	"github.com/bureau-foundation/sasd/lib/rpc"
)

func TestSessionMethodsAvoidGenericCodes(t *testing.T) {
	for method := range sessionMethodNames {
		if rpc.RequestMethod(method).Valid() {
			t.Errorf("%s (%d) collides with a protocol-independent method", method, uint64(method))
		}
	}
}

func TestSessionMethodNumbering(t *testing.T) {
	tests := []struct {
		method SessionMethod
		value  uint64
	}{
		{Attach, 3},
		{AuthAttach, 4},
		{KeyList, 5},
		{DeleteKey, 7},
		{ProtocolAuthInfo, 14},
	}
	for _, test := range tests {
		if uint64(test.method) != test.value {
			t.Errorf("%s = %d, want %d", test.method, uint64(test.method), test.value)
		}
	}
	if SessionMethod(15).Valid() || SessionMethod(2).Valid() {
		t.Error("codes outside the method range report Valid")
	}
	if got := SessionMethod(99).String(); got != "session-method-99" {
		t.Errorf("String() of unknown method = %q", got)
	}
}

func TestSessionErrorMatchesGenericUnsupportedVersion(t *testing.T) {
	if uint64(UnsupportedVersion) != uint64(rpc.ErrorUnsupportedVersion) {
		t.Fatalf("UnsupportedVersion = %d, rpc.ErrorUnsupportedVersion = %d",
			uint64(UnsupportedVersion), uint64(rpc.ErrorUnsupportedVersion))
	}
	code, err := rpc.ParseCode[SessionError](uint64(rpc.ErrorUnsupportedVersion))
	if err != nil || code != UnsupportedVersion {
		t.Errorf("ParseCode = %v, %v", code, err)
	}
}

func TestSessionErrorNumbering(t *testing.T) {
	if Nil != 0 || InvalidAttach != 4 || InvalidProtocolAuth != 12 {
		t.Errorf("Nil=%d InvalidAttach=%d InvalidProtocolAuth=%d",
			uint64(Nil), uint64(InvalidAttach), uint64(InvalidProtocolAuth))
	}
	if ProtocolNeedsKey != 10 || ProtocolNeedsKey.String() != "protocol needs key" {
		t.Errorf("ProtocolNeedsKey = %d %q", uint64(ProtocolNeedsKey), ProtocolNeedsKey)
	}
	if ProtocolNeedKey.String() != "protocol-need-key" {
		t.Errorf("ProtocolNeedKey method = %q", ProtocolNeedKey)
	}
	if SessionError(1).Valid() || SessionError(2).Valid() || SessionError(13).Valid() {
		t.Error("unassigned error codes report Valid")
	}
}

func TestNotice(t *testing.T) {
	if uint64(Done) != uint64(rpc.NoticeDone) {
		t.Errorf("Done = %d, want %d", uint64(Done), uint64(rpc.NoticeDone))
	}
	if Notice(2).Valid() || Notice(2).String() != "notice-2" {
		t.Errorf("Notice(2): Valid=%v String=%q", Notice(2).Valid(), Notice(2).String())
	}
}
