// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestSequence(t *testing.T) {
	var first, second Sequence
	a := make([]byte, 12)
	b := make([]byte, 12)
	first.Read(a)
	second.Read(b)
	if !bytes.Equal(a, b) {
		t.Fatalf("fresh sequences differ: %x vs %x", a, b)
	}
	want := []byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0}
	if !bytes.Equal(a, want) {
		t.Errorf("first read = %x, want %x", a, want)
	}

	// The next read continues the second block.
	rest := make([]byte, 4)
	first.Read(rest)
	if !bytes.Equal(rest, []byte{0, 0, 0, 0}) {
		t.Errorf("continuation = %x", rest)
	}
	next := make([]byte, 1)
	first.Read(next)
	if next[0] != 3 {
		t.Errorf("third block starts with %d, want 3", next[0])
	}
}

func TestFailingReader(t *testing.T) {
	if _, err := (FailingReader{}).Read(make([]byte, 1)); !errors.Is(err, ErrEntropy) {
		t.Errorf("err = %v, want ErrEntropy", err)
	}
}

// recorder captures Fatalf without stopping the test.
type recorder struct {
	failed  bool
	message string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("got %d", got)
	}
}

func TestRequireClosed_Timeout(t *testing.T) {
	var r recorder
	RequireClosed(&r, make(chan struct{}), time.Millisecond, "ready %d", 3)
	if !r.failed || r.message != "timed out after 1ms waiting for ready 3" {
		t.Errorf("recorder = %+v", r)
	}
}
