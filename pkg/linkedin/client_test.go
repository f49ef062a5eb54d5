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
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/tombee/linkpost/pkg/errors"
)

// okUserinfo serves a valid userinfo response for any version header.
func okUserinfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"sub":         "AbC123",
		"given_name":  "Ada",
		"family_name": "Lovelace",
	})
}

// quietLogger discards client log output in tests.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig returns a deterministic Config pointed at the given server.
// The starting month is fixed so candidate lists are stable regardless of
// when the test runs: [202501, 202412, 202411, 202410].
func testConfig(srv *httptest.Server) Config {
	return Config{
		AccessToken: "test-token",
		StartMonth:  "202501",
		Cache:       NewVersionCache(),
		Logger:      quietLogger(),
		PostsURL:    srv.URL + "/rest/posts",
		UserinfoURL: srv.URL + "/v2/userinfo",
	}
}

// testClient constructs a client against a server whose posts endpoint is
// driven by the given handler; userinfo always succeeds.
func testClient(t *testing.T, posts http.HandlerFunc) (*Client, Config) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/userinfo", okUserinfo)
	if posts != nil {
		mux.HandleFunc("/rest/posts", posts)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := testConfig(srv)
	c, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to construct client: %v", err)
	}
	return c, cfg
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New(context.Background(), Config{})

	var cfgErr *errors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *errors.ConfigError, got %T: %v", err, err)
	}
	if cfgErr.Key != "access_token" {
		t.Errorf("expected access_token key, got %q", cfgErr.Key)
	}
}

func TestNew_ResolvesProfile(t *testing.T) {
	c, _ := testClient(t, nil)

	p := c.Profile()
	if p.Sub != "AbC123" {
		t.Errorf("expected subject AbC123, got %q", p.Sub)
	}
	if p.AuthorURN() != "urn:li:person:AbC123" {
		t.Errorf("unexpected author urn %q", p.AuthorURN())
	}
	if p.DisplayName() != "Ada Lovelace" {
		t.Errorf("unexpected display name %q", p.DisplayName())
	}
}

func TestNew_PinsAndCachesFirstAcceptedVersion(t *testing.T) {
	var versions []string
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		ver := r.Header.Get(versionHeader)
		versions = append(versions, ver)
		if ver != "202411" {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"message":"Requested version is not active"}`)
			return
		}
		okUserinfo(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := testConfig(srv)
	c, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("expected fallback to succeed, got %v", err)
	}

	want := []string{"202501", "202412", "202411"}
	if !reflect.DeepEqual(versions, want) {
		t.Errorf("expected probes %v, got %v", want, versions)
	}
	if c.Version() != "202411" {
		t.Errorf("expected pinned version 202411, got %q", c.Version())
	}
	if cfg.Cache.Get() != "202411" {
		t.Errorf("expected cache updated to 202411, got %q", cfg.Cache.Get())
	}
}

func TestNew_StopsAtFirstSuccess(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		calls++
		okUserinfo(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	if _, err := New(context.Background(), testConfig(srv)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 probe after immediate success, got %d", calls)
	}
}

func TestNew_AuthExpiredStopsProbing(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"serviceErrorCode":65601,"message":"LX401_Expired_Token: The token used in the request has expired"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := New(context.Background(), testConfig(srv))

	var authErr *errors.AuthExpiredError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *errors.AuthExpiredError, got %T: %v", err, err)
	}
	if calls != 1 {
		t.Errorf("expected zero probes after auth expiry, got %d total calls", calls)
	}
}

func TestNew_TransportErrorsExhaustAllCandidates(t *testing.T) {
	// A server that is already closed produces a connection error per probe.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	cfg := testConfig(srv)
	srv.Close()

	_, err := New(context.Background(), cfg)

	var exhausted *errors.VersionExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *errors.VersionExhaustedError, got %T: %v", err, err)
	}

	want := []string{"202501", "202412", "202411", "202410"}
	if !reflect.DeepEqual(exhausted.Attempted, want) {
		t.Errorf("expected attempted %v, got %v", want, exhausted.Attempted)
	}

	var transport *errors.TransportError
	if !errors.As(exhausted.LastErr, &transport) {
		t.Errorf("expected last cause to be a TransportError, got %T", exhausted.LastErr)
	}
}

func TestNew_AllCandidatesRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUpgradeRequired)
		io.WriteString(w, "upgrade required: unsupported version "+r.Header.Get(versionHeader))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := New(context.Background(), testConfig(srv))

	var exhausted *errors.VersionExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *errors.VersionExhaustedError, got %T: %v", err, err)
	}
	if len(exhausted.Attempted) != 4 {
		t.Errorf("expected 4 attempted tokens, got %v", exhausted.Attempted)
	}

	var rejected *errors.VersionRejectedError
	if !errors.As(exhausted.LastErr, &rejected) {
		t.Fatalf("expected last cause to be a VersionRejectedError, got %T", exhausted.LastErr)
	}
	if rejected.Token != "202410" {
		t.Errorf("expected last rejection for 202410, got %q", rejected.Token)
	}
}

func TestNew_GenericFailureIsFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		// A 500 is neither a version rejection nor auth expiry; profile
		// resolution must surface it rather than probing further.
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "internal error")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := New(context.Background(), testConfig(srv))

	var remote *errors.RemoteAPIError
	if !errors.As(err, &remote) {
		t.Fatalf("expected *errors.RemoteAPIError, got %T: %v", err, err)
	}
	if remote.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", remote.StatusCode)
	}
}

func TestNew_CachedVersionProbedFirst(t *testing.T) {
	var first string
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if first == "" {
			first = r.Header.Get(versionHeader)
		}
		okUserinfo(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := testConfig(srv)
	cfg.Cache.Put("202409") // as if an earlier client in the process succeeded

	if _, err := New(context.Background(), cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != "202409" {
		t.Errorf("expected cached token probed first, got %q", first)
	}
}

func TestNew_VersionLockSingleCandidate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, "invalid version header")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := testConfig(srv)
	cfg.VersionLock = "202312"

	_, err := New(context.Background(), cfg)

	var exhausted *errors.VersionExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *errors.VersionExhaustedError, got %T: %v", err, err)
	}
	if !reflect.DeepEqual(exhausted.Attempted, []string{"202312"}) {
		t.Errorf("expected only the locked token attempted, got %v", exhausted.Attempted)
	}
}

func TestExecute_PinnedVersionLeadsSubsequentCalls(t *testing.T) {
	// Accept only 202410 at construction so the pin differs from the
	// natural first candidate, then verify the next call leads with it.
	var postVersions []string
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(versionHeader) != "202410" {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, "version not supported")
			return
		}
		okUserinfo(w, r)
	})
	mux.HandleFunc("/rest/posts", func(w http.ResponseWriter, r *http.Request) {
		postVersions = append(postVersions, r.Header.Get(versionHeader))
		w.Header().Set("x-restli-id", "urn:li:share:1")
		w.WriteHeader(http.StatusCreated)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := New(context.Background(), testConfig(srv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Post(context.Background(), "hello", PostOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postVersions) != 1 || postVersions[0] != "202410" {
		t.Errorf("expected single probe with pinned 202410, got %v", postVersions)
	}
}

func TestExecute_RepinsWhenPinnedVersionGoesStale(t *testing.T) {
	// Construction pins 202501; the posts endpoint then starts rejecting
	// it, simulating a mid-session deprecation.
	var postVersions []string
	posts := func(w http.ResponseWriter, r *http.Request) {
		ver := r.Header.Get(versionHeader)
		postVersions = append(postVersions, ver)
		if ver != "202411" {
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, "this version is no longer available")
			return
		}
		w.Header().Set("x-restli-id", "urn:li:share:2")
		w.WriteHeader(http.StatusCreated)
	}

	c, cfg := testClient(t, posts)

	id, err := c.Post(context.Background(), "still here", PostOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "urn:li:share:2" {
		t.Errorf("unexpected post id %q", id)
	}

	want := []string{"202501", "202412", "202411"}
	if !reflect.DeepEqual(postVersions, want) {
		t.Errorf("expected probe order %v, got %v", want, postVersions)
	}
	if c.Version() != "202411" {
		t.Errorf("expected re-pin to 202411, got %q", c.Version())
	}
	if cfg.Cache.Get() != "202411" {
		t.Errorf("expected cache updated, got %q", cfg.Cache.Get())
	}
}

func TestExecute_AppliesDefaultHeaders(t *testing.T) {
	var auth, proto string
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		proto = r.Header.Get(restliProtocolHeader)
		okUserinfo(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	if _, err := New(context.Background(), testConfig(srv)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if auth != "Bearer test-token" {
		t.Errorf("expected bearer authorization, got %q", auth)
	}
	if proto != restliProtocolVersion {
		t.Errorf("expected protocol header %q, got %q", restliProtocolVersion, proto)
	}
}

func TestIsVersionRejection(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   bool
	}{
		{400, `{"message":"Invalid LinkedIn-Version header"}`, true},
		{404, "Version 202301 not found", true},
		{426, "API VERSION upgrade required", true},
		{400, `{"message":"commentary is required"}`, false},
		{403, "version mismatch", false},
		{500, "version whatever", false},
		{200, "version", false},
	}

	for _, tt := range tests {
		if got := isVersionRejection(tt.status, []byte(tt.body)); got != tt.want {
			t.Errorf("isVersionRejection(%d, %q) = %v, want %v", tt.status, tt.body, got, tt.want)
		}
	}
}

func TestSnippet(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	if got := snippet(long); len(got) != bodySnippetLen+3 {
		t.Errorf("expected truncated snippet, got %d chars", len(got))
	}
	if got := snippet([]byte("  short \n")); got != "short" {
		t.Errorf("expected trimmed snippet, got %q", got)
	}
}
