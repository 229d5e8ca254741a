// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ExitError carries a specific exit status out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps err to a process exit status: 0 for nil, the carried
// code for *ExitError, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitError *ExitError
	if errors.As(err, &exitError) {
		return exitError.Code
	}
	return 1
}

// Report writes "sasd: err" to w unless err is nil or an *ExitError
// with no cause, and returns the exit status.
func Report(w io.Writer, err error) int {
	code := ExitCode(err)
	if err == nil {
		return code
	}
	var exitError *ExitError
	if errors.As(err, &exitError) && exitError.Err == nil {
		return code
	}
	fmt.Fprintf(w, "sasd: %v\n", err)
	return code
}

// Fatal reports err on stderr and exits with its status.
func Fatal(err error) {
	os.Exit(Report(os.Stderr, err))
}
