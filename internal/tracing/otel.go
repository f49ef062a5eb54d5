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

// Package tracing sets up OpenTelemetry for linkpost. Tracing is off by
// default; LINKPOST_TRACE=1 enables a stdout span exporter so a probe
// sequence can be inspected without any collector infrastructure.
package tracing

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// EnvTrace enables span export when set to "1" or "true".
const EnvTrace = "LINKPOST_TRACE"

// Provider wraps the OpenTelemetry SDK tracer provider. A nil Provider is
// valid and means tracing is disabled; all methods are no-ops on it.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// Enabled reports whether span export is requested via the environment.
func Enabled() bool {
	v := os.Getenv(EnvTrace)
	return v == "1" || v == "true"
}

// Setup installs a global tracer provider when tracing is enabled and
// returns it. When tracing is disabled it returns nil and the otel default
// no-op provider stays in place.
func Setup(serviceName, version string) (*Provider, error) {
	if !Enabled() {
		return nil, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
	if err != nil {
		return nil, fmt.Errorf("creating stdout trace exporter: %w", err)
	}

	// Empty schema URL avoids merge conflicts with the default resource.
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)

	// Global so libraries reaching for otel.Tracer pick this up.
	otel.SetTracerProvider(tp)

	return &Provider{tp: tp}, nil
}

// Shutdown flushes pending spans and releases resources.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}
