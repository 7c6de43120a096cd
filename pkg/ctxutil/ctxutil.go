// Package ctxutil carries request-scoped caller identity through contexts.
// Every core function reads its caller from an explicit context argument;
// there is no ambient/thread-local state.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	userIDKey    ctxKey = "user_id"
	requestIDKey ctxKey = "request_id"
	sourceKey    ctxKey = "source"
	clientIPKey  ctxKey = "client_ip"
	userAgentKey ctxKey = "user_agent"
)

// WithUserID stores the authenticated user ID in the context.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromCtx extracts the user ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func UserIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithSource stores the originating surface (web/api/mobile) in the context.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// SourceFromCtx extracts the originating surface from the context.
// Returns an empty string if absent.
func SourceFromCtx(ctx context.Context) string {
	s, _ := ctx.Value(sourceKey).(string)
	return s
}

// WithClientInfo stores the client IP and user agent in the context.
// Used by security-sensitive auth event logging.
func WithClientInfo(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey, ip)
	return context.WithValue(ctx, userAgentKey, userAgent)
}

// ClientInfoFromCtx extracts the client IP and user agent from the context.
// Missing values come back as empty strings.
func ClientInfoFromCtx(ctx context.Context) (ip, userAgent string) {
	ip, _ = ctx.Value(clientIPKey).(string)
	userAgent, _ = ctx.Value(userAgentKey).(string)
	return ip, userAgent
}
