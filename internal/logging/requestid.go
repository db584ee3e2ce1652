// mapq - City Location Recommendation Engine
// Copyright 2026 mapq contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mapq-project/mapq

package logging

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const requestIDKey ctxKey = iota

// GenerateRequestID returns a new unique request identifier.
func GenerateRequestID() string {
	return uuid.NewString()
}

// ContextWithRequestID stores the request ID on the context for tracing.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID stored on the context, or ""
// when the request carries none.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
