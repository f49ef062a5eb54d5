package httpclient

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggingTransport_SetsUserAgentWhenUnset(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	lt := newLoggingTransport(http.DefaultTransport, "linkpost-test/1.0")
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	resp, err := lt.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if got != "linkpost-test/1.0" {
		t.Errorf("expected injected user agent, got %q", got)
	}
}

func TestLoggingTransport_PreservesExplicitUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	lt := newLoggingTransport(http.DefaultTransport, "linkpost-test/1.0")
	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	req.Header.Set("User-Agent", "caller/9.9")

	resp, err := lt.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if got != "caller/9.9" {
		t.Errorf("expected caller user agent preserved, got %q", got)
	}
}

func TestLoggingTransport_NilBaseDefaults(t *testing.T) {
	lt := newLoggingTransport(nil, "linkpost-test/1.0")
	if lt.base != http.DefaultTransport {
		t.Error("expected nil base to default to http.DefaultTransport")
	}
}

func TestLoggingTransport_RedactsTokenInLogs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// Capture slog output for the duration of this test
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	lt := newLoggingTransport(http.DefaultTransport, "linkpost-test/1.0")
	req, _ := http.NewRequest(http.MethodGet, server.URL+"/userinfo?oauth2_access_token=supersecret", nil)
	req = req.WithContext(WithRequestID(context.Background(), "req-42"))

	resp, err := lt.RoundTrip(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	logged := buf.String()
	if strings.Contains(logged, "supersecret") {
		t.Errorf("token leaked into logs: %s", logged)
	}
	if !strings.Contains(logged, "REDACTED") {
		t.Errorf("expected redaction marker in logs: %s", logged)
	}
	if !strings.Contains(logged, "req-42") {
		t.Errorf("expected request id in logs: %s", logged)
	}
}
