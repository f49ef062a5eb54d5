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

package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/linkpost/pkg/errors"
	"github.com/tombee/linkpost/pkg/httpclient"
)

// maxResponseBytes caps how much of a response body is read. LinkedIn error
// bodies and post listings are small; this is protection against a
// misbehaving intermediary.
const maxResponseBytes = 10 << 20

// bodySnippetLen limits how much response body is carried inside errors.
const bodySnippetLen = 200

// requestOptions carries the per-call knobs for execute.
//
// Header presence and absence are first class: headers sets or overrides a
// header, omitHeaders suppresses a default entirely (the feed read drops
// Content-Type this way). There is no magic sentinel value.
type requestOptions struct {
	query       url.Values
	body        []byte
	headers     map[string]string
	omitHeaders []string
}

// Response is the raw outcome of a successful probe: the executor only
// classifies version and auth signals, every other status is handed to the
// caller to interpret.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	requestID string
	endpoint  string
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err converts a non-2xx response into a *errors.RemoteAPIError.
// Returns nil for 2xx.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return &errors.RemoteAPIError{
		StatusCode: r.StatusCode,
		Endpoint:   r.endpoint,
		Body:       snippet(r.Body),
		RequestID:  r.requestID,
	}
}

// JSON unmarshals the response body.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// execute performs one logical API call, probing version candidates in order
// until one succeeds or all are exhausted.
//
// Classification per attempt:
//   - transport failure: recorded, next candidate (probes are independent
//     calls, a network blip on one must not doom the rest)
//   - 401 with the expired-token marker: *errors.AuthExpiredError, fatal,
//     remaining candidates are not tried
//   - 400/404/426 with "version" in the body: rejection recorded, next
//     candidate
//   - anything else: returned to the caller as a Response; 2xx additionally
//     pins the candidate and updates the shared cache
//
// Exhaustion yields *errors.VersionExhaustedError with every attempted token.
func (c *Client) execute(ctx context.Context, method, rawURL string, opts requestOptions) (*Response, error) {
	requestID := uuid.New().String()
	ctx = httpclient.WithRequestID(ctx, requestID)

	target := rawURL
	if len(opts.query) > 0 {
		target = rawURL + "?" + opts.query.Encode()
	}

	candidates := c.candidateOrder()
	var lastErr error

	for _, ver := range candidates {
		resp, err := c.attempt(ctx, method, target, ver, opts)
		if err != nil {
			lastErr = err
			c.logger.Debug("probe transport failure",
				"method", method, "version", ver, "request_id", requestID, "error", err)
			continue
		}

		if resp.StatusCode == http.StatusUnauthorized && bytes.Contains(resp.Body, []byte(expiredTokenMarker)) {
			return nil, &errors.AuthExpiredError{Detail: snippet(resp.Body)}
		}

		if isVersionRejection(resp.StatusCode, resp.Body) {
			lastErr = &errors.VersionRejectedError{
				Token:      ver,
				StatusCode: resp.StatusCode,
				Detail:     snippet(resp.Body),
			}
			c.logger.Debug("version rejected",
				"version", ver, "status", resp.StatusCode, "request_id", requestID)
			continue
		}

		if resp.OK() {
			c.pin(ver)
		}
		resp.requestID = requestID
		resp.endpoint = rawURL
		return resp, nil
	}

	return nil, &errors.VersionExhaustedError{
		Attempted: candidates,
		LastErr:   lastErr,
	}
}

// attempt sends a single probe under one version candidate and reads back
// the body. Each attempt gets its own span so a probe sequence is visible in
// traces; without a tracer provider the span calls are no-ops.
func (c *Client) attempt(ctx context.Context, method, target, version string, opts requestOptions) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "linkedin.http",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("url", target),
			attribute.String("linkedin.version", version),
		),
	)
	defer span.End()

	var bodyReader io.Reader
	if opts.body != nil {
		bodyReader = bytes.NewReader(opts.body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrap(err, "building request")
	}

	c.applyHeaders(req, version, opts)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &errors.TransportError{URL: target, Cause: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &errors.TransportError{URL: target, Cause: err}
	}

	span.SetAttributes(attribute.Int("http.status_code", httpResp.StatusCode))

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}, nil
}

// applyHeaders composes the attempt's headers: caller headers first, then
// defaults only where the caller has not set the header and has not asked
// for it to be omitted.
func (c *Client) applyHeaders(req *http.Request, version string, opts requestOptions) {
	for k, v := range opts.headers {
		req.Header.Set(k, v)
	}

	omitted := make(map[string]struct{}, len(opts.omitHeaders))
	for _, k := range opts.omitHeaders {
		omitted[http.CanonicalHeaderKey(k)] = struct{}{}
		req.Header.Del(k)
	}

	setDefault := func(key, value string) {
		if _, skip := omitted[http.CanonicalHeaderKey(key)]; skip {
			return
		}
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	setDefault("Authorization", "Bearer "+c.token)
	setDefault(versionHeader, version)
	setDefault(restliProtocolHeader, restliProtocolVersion)
	if opts.body != nil {
		setDefault("Content-Type", "application/json")
	}
}

// isVersionRejection reports whether a response is the API refusing the
// probed LinkedIn-Version value: one of the known status codes with a body
// that mentions "version" (case-insensitive). A 400 about a malformed
// payload does not mention the version and is not treated as a rejection.
func isVersionRejection(status int, body []byte) bool {
	switch status {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUpgradeRequired:
		return strings.Contains(strings.ToLower(string(body)), "version")
	default:
		return false
	}
}

// snippet trims a response body for inclusion in errors and logs.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > bodySnippetLen {
		return s[:bodySnippetLen] + "..."
	}
	return s
}
