// Copyright 2025 The pgasync Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package client

import (
	"context"

	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/pgasync/pgasync/go/telemetry"
)

// queryTracingKey is the context key for query tracing configuration.
type queryTracingKey struct{}

// QueryTracingConfig holds optional configuration for query tracing.
// Spans are always created for queries; this config controls optional details.
type QueryTracingConfig struct {
	// OperationName is a semantic name for the operation (e.g., "fetch_user").
	// This should describe what the query does, not the SQL itself.
	// If empty, "QUERY" will be used.
	OperationName string

	// IncludeQueryText enables recording the SQL query text in the span.
	//
	// SECURITY WARNING: This should ONLY be enabled for internal system
	// queries where the SQL is hardcoded and no user-provided data or PII
	// appears in the query text.
	//
	// Default: false (SQL text is never included in spans)
	IncludeQueryText bool
}

// WithQueryTracing returns a context with query tracing configuration.
// Spans are created for all queries by default; this just adds configuration.
func WithQueryTracing(ctx context.Context, config QueryTracingConfig) context.Context {
	return context.WithValue(ctx, queryTracingKey{}, config)
}

// getQueryTracingConfig returns the tracing config from context.
// Returns an empty config if none is set (spans are still created).
func getQueryTracingConfig(ctx context.Context) QueryTracingConfig {
	config, _ := ctx.Value(queryTracingKey{}).(QueryTracingConfig)
	return config
}

// defaultOperationName returns a safe default operation name.
func defaultOperationName() string {
	return "QUERY"
}

// startQuerySpan creates the span for one query execution with database
// semantic conventions. queryText is recorded only when the context's
// tracing config opted in.
func startQuerySpan(ctx context.Context, queryText string) (context.Context, trace.Span) {
	config := getQueryTracingConfig(ctx)
	opName := config.OperationName
	if opName == "" {
		opName = defaultOperationName()
	}
	attrs := []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBSystemPostgreSQL,
			semconv.DBOperationName(opName),
		),
	}
	if config.IncludeQueryText && queryText != "" {
		attrs = append(attrs, trace.WithAttributes(semconv.DBQueryText(queryText)))
	}
	return telemetry.Tracer().Start(ctx, opName+" postgresql", attrs...)
}
