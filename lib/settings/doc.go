// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package settings provides the validated, immutable configuration of
// the sasd daemon.
//
// Configuration is loaded from a single file specified by:
//   - SASD_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. Files ending in .json
// or .jsonc are parsed as JSON with comments; anything else is YAML.
// ${VAR} and ${VAR:-default} in directory values are expanded from the
// environment.
//
// A [Settings] value is produced only by [Builder.Build] (directly, or
// through [FromConfig] and [LoadFile]) and has no setters: one value is
// built at startup and shared by pointer with every connection.
//
// Which sections are required depends on the [Platform]: unix needs
// unix.socket_dir, windows needs windows.token_data_dir. The other
// section is optional and validated when present. Every configured
// directory must exist and be a directory when the settings are built.
package settings
