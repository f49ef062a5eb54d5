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

package errors

import (
	"fmt"
	"strings"
)

// ConfigError represents configuration problems.
// Use this for missing credentials, malformed settings, or invalid config values.
type ConfigError struct {
	// Key is the configuration key that has the problem (e.g., "access_token")
	Key string

	// Reason explains what's wrong with the configuration
	Reason string

	// Cause is the underlying error (e.g., file read error, parse error)
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// AuthExpiredError indicates the bearer token has expired.
// This is terminal for the call: no amount of version probing can recover,
// so callers should surface it distinctly and trigger re-authentication.
type AuthExpiredError struct {
	// Detail is a fragment of the remote error body, for diagnosis
	Detail string
}

// Error implements the error interface.
func (e *AuthExpiredError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("access token expired: %s", e.Detail)
	}
	return "access token expired"
}

// VersionRejectedError records a single version candidate being refused by
// the remote API. It is accumulated inside the probe loop and only escapes
// as the LastErr of a VersionExhaustedError.
type VersionRejectedError struct {
	// Token is the YYYYMM version candidate that was rejected
	Token string

	// StatusCode is the HTTP status the rejection arrived with (400, 404, 426)
	StatusCode int

	// Detail is a fragment of the response body
	Detail string
}

// Error implements the error interface.
func (e *VersionRejectedError) Error() string {
	return fmt.Sprintf("version %s rejected [HTTP %d]: %s", e.Token, e.StatusCode, e.Detail)
}

// VersionExhaustedError indicates every version candidate was rejected or
// unreachable. It carries the full attempt list and the last recorded cause
// so operators can see exactly which months were probed.
type VersionExhaustedError struct {
	// Attempted lists every version token tried, in probe order
	Attempted []string

	// LastErr is the most recent per-candidate failure (rejection or transport)
	LastErr error
}

// Error implements the error interface.
func (e *VersionExhaustedError) Error() string {
	msg := fmt.Sprintf("all version candidates failed: %s", strings.Join(e.Attempted, ", "))
	if e.LastErr != nil {
		msg = fmt.Sprintf("%s (last error: %v)", msg, e.LastErr)
	}
	return msg
}

// Unwrap returns the last per-candidate failure for errors.Is/As support.
func (e *VersionExhaustedError) Unwrap() error {
	return e.LastErr
}

// RemoteAPIError represents a non-2xx response that is neither a version
// rejection nor an auth expiry. The executor does not retry these; they are
// surfaced with status and body for the caller to act on.
type RemoteAPIError struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// Endpoint is the URL path the request was sent to
	Endpoint string

	// Body is a fragment of the response body
	Body string

	// RequestID correlates this error with client logs
	RequestID string
}

// Error implements the error interface.
func (e *RemoteAPIError) Error() string {
	msg := fmt.Sprintf("linkedin api error [HTTP %d]", e.StatusCode)
	if e.Endpoint != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Endpoint)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("%s (request-id: %s)", msg, e.RequestID)
	}
	return msg
}

// TransportError represents a network-level failure (connection, DNS,
// timeout) on a single probe. The probe loop absorbs these and moves to the
// next candidate; one only escapes as the LastErr of VersionExhaustedError.
type TransportError struct {
	// URL is the request URL that failed
	URL string

	// Cause is the underlying network error
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}
