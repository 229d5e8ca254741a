// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the sasd entrypoint's last-resort error
// reporting, used before the structured logger exists or after it can
// no longer be trusted.
package process
