// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration shared by
// every sasd package that touches the wire.
//
// RPC envelopes travel between client and daemon as CBOR arrays (see
// lib/rpc). The encoder uses Core Deterministic Encoding: smallest
// integer encoding, sorted map keys, no indefinite-length items. The
// decoder bounds nesting depth and container sizes so a hostile client
// cannot make the daemon allocate without limit.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (connections):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// This package depends on no other sasd packages.
package codec
