// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"

	v1 "github.com/bureau-foundation/sasd/lib/rpc/v1"
	"github.com/bureau-foundation/sasd/lib/settings"
)

// Handler executes a version 1 method in Session state. The returned
// response must echo request.ID(). A returned error is handled like
// any other dispatch error.
type Handler func(ctx *Context, request SessionRequest) (SessionResponse, error)

// ContextConfig configures a Context.
type ContextConfig struct {
	// Settings is shared with every other connection and never
	// modified. Required.
	Settings *settings.Settings

	// Profile selects the handshake. The zero value is the direct
	// profile.
	Profile Profile

	// Random is the source for tokens and token file names. Defaults
	// to crypto/rand.Reader.
	Random io.Reader

	// Logger receives connection events. Defaults to a logger that
	// discards everything.
	Logger *slog.Logger

	// Handlers are the methods available in Session state. Methods
	// without a handler are rejected with ErrUnexpectedMessage.
	Handlers map[v1.SessionMethod]Handler
}

// Context is the per-connection environment handed to every state: the
// shared settings, the connection's own Store, and the handshake
// profile.
type Context struct {
	settings *settings.Settings
	store    *Store
	profile  Profile
	random   io.Reader
	logger   *slog.Logger
	handlers map[v1.SessionMethod]Handler

	// protocol is set by version negotiation.
	protocol Protocol
}

// NewContext validates config and returns a Context with an empty
// Store. A side-channel profile requires a token data directory in the
// settings.
func NewContext(config ContextConfig) (*Context, error) {
	if config.Settings == nil {
		return nil, errors.New("protocol: settings are required")
	}
	if config.Profile.SideChannel() {
		if _, err := config.Settings.TokenDataDir(); err != nil {
			return nil, fmt.Errorf("protocol: %s profile: %w", config.Profile, err)
		}
	}

	random := config.Random
	if random == nil {
		random = rand.Reader
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Context{
		settings: config.Settings,
		store:    newStore(),
		profile:  config.Profile,
		random:   random,
		logger:   logger,
		handlers: maps.Clone(config.Handlers),
	}, nil
}

// Settings returns the shared, read-only settings.
func (c *Context) Settings() *settings.Settings { return c.settings }

// Store returns the connection's token store.
func (c *Context) Store() *Store { return c.store }

// Profile returns the handshake profile.
func (c *Context) Profile() Profile { return c.profile }

// Logger returns the connection logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Protocol returns the negotiated protocol version, or zero before
// negotiation.
func (c *Context) Protocol() Protocol { return c.protocol }

// Close releases the token file and zeroes the tokens.
func (c *Context) Close() error {
	return c.store.Close()
}
