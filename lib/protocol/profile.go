// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"
	"runtime"
)

// Profile selects the handshake a connection performs after version
// negotiation. The zero value is the direct profile.
//
// The direct profile enters Session immediately. The side-channel
// profile issues Secrets tokens on attach, writes the last one (the
// auth token) to a token file, and enters Session only after the
// client presents all of them in an auth-attach.
type Profile struct {
	secrets int
}

// DirectProfile enters Session right after version negotiation.
func DirectProfile() Profile {
	return Profile{}
}

// SideChannelProfile issues secrets tokens per attach. With one secret
// only the auth token is issued; with two a session token precedes it.
func SideChannelProfile(secrets int) (Profile, error) {
	if secrets < 1 || secrets > 2 {
		return Profile{}, fmt.Errorf("side-channel profile supports 1 or 2 secrets, got %d", secrets)
	}
	return Profile{secrets: secrets}, nil
}

// DefaultProfile is the handshake for the platform the binary was
// built for: the two-token side channel on windows and the direct
// profile elsewhere.
func DefaultProfile() Profile {
	if runtime.GOOS == "windows" {
		return Profile{secrets: 2}
	}
	return Profile{}
}

// ProfileByName parses "direct", "side-channel-1" or "side-channel-2".
// The empty string selects DefaultProfile.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "":
		return DefaultProfile(), nil
	case "direct":
		return DirectProfile(), nil
	case "side-channel-1":
		return SideChannelProfile(1)
	case "side-channel-2":
		return SideChannelProfile(2)
	default:
		return Profile{}, fmt.Errorf("unknown handshake profile %q", name)
	}
}

// SideChannel reports whether the profile uses a token file.
func (p Profile) SideChannel() bool {
	return p.secrets > 0
}

// Secrets returns the number of tokens issued per attach and expected
// per auth-attach. Zero for the direct profile.
func (p Profile) Secrets() int {
	return p.secrets
}

func (p Profile) String() string {
	if !p.SideChannel() {
		return "direct"
	}
	return fmt.Sprintf("side-channel-%d", p.secrets)
}

func (p Profile) firstState() StateValue {
	if p.SideChannel() {
		return &InitSession{}
	}
	return &Session{}
}

// tokenName names the token at index for diagnostics. The auth token
// is always last.
func (p Profile) tokenName(index int) string {
	if index == p.secrets-1 {
		return "auth token"
	}
	return "client token"
}
