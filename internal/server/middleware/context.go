package middleware

import (
	"context"
)

type contextKey string

const (
	ContextKeyPrincipalID contextKey = "principal_id"
	ContextKeyRole        contextKey = "role"
	ContextKeySessionID   contextKey = "session_id"
	ContextKeyClientIP    contextKey = "client_ip"
)

func PrincipalIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyPrincipalID).(string)
	return v, ok
}

func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyRole).(string)
	return v, ok
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeySessionID).(string)
	return v, ok
}

// ClientIPFromContext returns the address captured by ClientIP.
func ClientIPFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyClientIP).(string)
	return v, ok
}
