// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shared

import (
	"fmt"
	"os"

	pkgerrors "github.com/tombee/linkpost/pkg/errors"
)

// Exit codes for the linkpost CLI
const (
	ExitSuccess       = 0
	ExitFailure       = 1
	ExitConfigError   = 2
	ExitAuthError     = 3
	ExitVersionError  = 4
	ExitUserCancelled = 5
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates an error for configuration problems
func NewConfigError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitConfigError, Message: msg, Cause: cause}
}

// NewAuthError creates an error for credential problems
func NewAuthError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitAuthError, Message: msg, Cause: cause}
}

// NewCancelledError creates an error for a user aborting at a prompt
func NewCancelledError(msg string) *ExitError {
	return &ExitError{Code: ExitUserCancelled, Message: msg}
}

// ClassifyError maps library errors to exit-coded errors so every command
// fails the same way for the same class of problem.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if pkgerrors.As(err, &exitErr) {
		return err
	}

	var cfgErr *pkgerrors.ConfigError
	if pkgerrors.As(err, &cfgErr) {
		return &ExitError{Code: ExitConfigError, Message: "configuration error", Cause: err}
	}

	var authErr *pkgerrors.AuthExpiredError
	if pkgerrors.As(err, &authErr) {
		return &ExitError{
			Code:    ExitAuthError,
			Message: "access token expired; run 'linkpost auth set-token' with a fresh token",
			Cause:   err,
		}
	}

	var exhausted *pkgerrors.VersionExhaustedError
	if pkgerrors.As(err, &exhausted) {
		return &ExitError{Code: ExitVersionError, Message: "no accepted API version", Cause: err}
	}

	return &ExitError{Code: ExitFailure, Message: "command failed", Cause: err}
}

// HandleExitError checks if an error is an ExitError and exits with the appropriate code
func HandleExitError(err error) {
	if err == nil {
		return
	}

	var exitErr *ExitError
	if pkgerrors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", exitErr.Error())
		os.Exit(exitErr.Code)
	}

	fmt.Fprintln(os.Stderr, "Error:", err.Error())
	os.Exit(ExitFailure)
}
