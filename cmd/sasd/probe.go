// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bureau-foundation/sasd/lib/client"
	"github.com/bureau-foundation/sasd/lib/protocol"
	"github.com/bureau-foundation/sasd/lib/token"
)

// probe performs the whole client handshake against a running daemon
// and reports what it saw. The profile must match the daemon's.
func probe(ctx context.Context, opts *options, stdout io.Writer) error {
	profile, err := resolveProfile(opts)
	if err != nil {
		return usageError("--profile: %w", err)
	}
	target := opts.address
	if target == "" {
		config, err := loadSettings(opts)
		if err != nil {
			return err
		}
		target = address(opts, config)
	}

	connection, err := client.Dial(ctx, target)
	if err != nil {
		return err
	}
	defer connection.Close()

	if err := connection.Negotiate(uint64(protocol.MaxProtocol)); err != nil {
		return err
	}

	var fingerprints []string
	if profile.SideChannel() {
		tokens, err := connection.Authenticate()
		if err != nil {
			return fmt.Errorf("authenticating: %w", err)
		}
		for _, value := range tokens {
			fingerprints = append(fingerprints, token.Fingerprint([]byte(value)))
		}
	}
	if err := connection.Sync(); err != nil {
		return fmt.Errorf("confirming session: %w", err)
	}
	if err := connection.Done(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "sasd at %s: protocol %s, profile %s, session established\n",
		target, protocol.MaxProtocol, profile)
	if len(fingerprints) > 0 {
		fmt.Fprintf(stdout, "  tokens: %s\n", strings.Join(fingerprints, " "))
	}
	return nil
}
