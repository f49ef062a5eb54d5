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
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/linkpost/pkg/errors"
	"github.com/tombee/linkpost/pkg/httpclient"
)

const (
	// defaultPostsURL is the Posts API endpoint (publish and feed read).
	defaultPostsURL = "https://api.linkedin.com/rest/posts"

	// defaultUserinfoURL is the OpenID userinfo endpoint used to resolve
	// the authenticated member's identity at construction time.
	defaultUserinfoURL = "https://api.linkedin.com/v2/userinfo"

	// versionHeader carries the YYYYMM candidate being probed.
	versionHeader = "LinkedIn-Version"

	// restliProtocolHeader and restliProtocolVersion form a fixed contract
	// with the Rest.li gateway; the value never varies per call.
	restliProtocolHeader  = "X-Restli-Protocol-Version"
	restliProtocolVersion = "2.0.0"

	// expiredTokenMarker appears in 401 bodies when the bearer token has
	// expired, as opposed to 401s for malformed or insufficient credentials.
	expiredTokenMarker = "LX401_Expired_Token"

	// DefaultVisibility is applied when a post does not specify one.
	DefaultVisibility = "PUBLIC"

	// requestTimeout bounds every individual probe attempt.
	requestTimeout = 30 * time.Second
)

// Config configures a LinkedIn client.
type Config struct {
	// AccessToken is the OAuth bearer token. Required. Scope management
	// (w_member_social, openid, profile) is the caller's responsibility.
	AccessToken string

	// VersionLock pins a single YYYYMM version header and disables probing.
	VersionLock string

	// StartMonth overrides the probe starting month (YYYYMM).
	// Default: current UTC calendar month.
	StartMonth string

	// Lookback is how many months below the starting month to probe.
	// Default: DefaultLookback.
	Lookback int

	// Cache is the shared version cache consulted at construction and
	// updated on success. Default: SharedVersionCache().
	Cache *VersionCache

	// HTTPClient overrides the underlying transport. Default: a client from
	// pkg/httpclient with retries disabled (the version probe loop owns
	// cross-attempt behavior) and a 30s timeout.
	HTTPClient *http.Client

	// Logger receives structured client logs. Default: slog.Default().
	Logger *slog.Logger

	// PostsURL and UserinfoURL override the API endpoints, for tests.
	PostsURL    string
	UserinfoURL string
}

// Client is a long-lived session against the LinkedIn Posts API for a single
// member identity. It is safe for concurrent use; the pinned version and the
// shared cache tolerate concurrent writers with last-write-wins semantics.
type Client struct {
	token       string
	postsURL    string
	userinfoURL string

	httpClient *http.Client
	cache      *VersionCache
	logger     *slog.Logger
	tracer     trace.Tracer

	// candidates is immutable after construction; pinned is the first
	// candidate that succeeded and leads all subsequent probe orders.
	candidates []string
	mu         sync.RWMutex
	pinned     string

	profile Profile
}

// New constructs a client and resolves the member profile. Construction
// fails with *errors.ConfigError when no token is supplied and with the
// executor's own classification (auth expiry, version exhaustion, remote
// error) when profile resolution fails — the client is unusable without a
// resolved identity, so no partially constructed client is ever returned.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, &errors.ConfigError{
			Key:    "access_token",
			Reason: "LinkedIn access token is required",
		}
	}

	cache := cfg.Cache
	if cache == nil {
		cache = SharedVersionCache()
	}

	candidates, err := buildCandidates(cfg.VersionLock, cfg.StartMonth, cfg.Lookback, cache.Get())
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		hc := httpclient.DefaultConfig()
		hc.Timeout = requestTimeout
		hc.UserAgent = "linkpost/1.0"
		// Transport-level retries would interleave with version probing;
		// the candidate loop is the retry policy for this client.
		hc.RetryAttempts = 0

		httpClient, err = httpclient.New(hc)
		if err != nil {
			return nil, errors.Wrap(err, "creating HTTP client")
		}
	}

	c := &Client{
		token:       cfg.AccessToken,
		postsURL:    defaultString(cfg.PostsURL, defaultPostsURL),
		userinfoURL: defaultString(cfg.UserinfoURL, defaultUserinfoURL),
		httpClient:  httpClient,
		cache:       cache,
		logger:      logger,
		tracer:      otel.Tracer("github.com/tombee/linkpost/pkg/linkedin"),
		candidates:  candidates,
	}

	if err := c.resolveProfile(ctx); err != nil {
		return nil, err
	}

	c.logger.Info("linkedin client ready",
		"author_urn", c.profile.AuthorURN(),
		"given_name", c.profile.GivenName,
		"family_name", c.profile.FamilyName,
		"version", c.Version(),
	)

	return c, nil
}

// Profile returns the identity resolved at construction.
func (c *Client) Profile() Profile {
	return c.profile
}

// Version returns the pinned version token, or "" before the first success.
func (c *Client) Version() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pinned
}

// pin records a token the server just accepted. Concurrent calls race
// benignly: last write wins and a stale pin is just the next call's first
// candidate.
func (c *Client) pin(token string) {
	c.mu.Lock()
	c.pinned = token
	c.mu.Unlock()
	c.cache.Put(token)
}

// candidateOrder returns the probe order for one call: the pinned token
// first when present, then the constructed candidates minus duplicates.
func (c *Client) candidateOrder() []string {
	pinned := c.Version()
	if pinned == "" {
		return c.candidates
	}

	order := make([]string, 0, len(c.candidates)+1)
	order = append(order, pinned)
	order = append(order, c.candidates...)
	return dedupe(order)
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
