package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/identity"
)

// SessionChecker resolves a session id to the active process session.
// *identity.Store and *workforce.Service satisfy it.
type SessionChecker interface {
	ActiveSession(sessionID string) (*domain.Session, bool)
}

// Auth accepts a bearer token (or a "token" query parameter, for WebSocket
// clients that cannot set headers) and rejects it unless its session is still
// the active one. A logout or a newer login invalidates older tokens.
//
// The role placed in the context is the session principal's current role,
// not the one frozen into the token at login.
func Auth(jwtSecret string, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractBearer(r)
			if tok == "" {
				tok = r.URL.Query().Get("token")
			}

			if tok != "" {
				ctx, ok := authenticateJWT(r.Context(), tok, jwtSecret, sessions)
				if ok {
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			http.Error(w, `{"title":"Unauthorized","status":401,"detail":"Not authenticated"}`, http.StatusUnauthorized)
		})
	}
}

func extractBearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return auth[7:]
	}
	return ""
}

func authenticateJWT(ctx context.Context, tokenStr, secret string, sessions SessionChecker) (context.Context, bool) {
	claims, err := identity.ValidateToken(secret, tokenStr)
	if err != nil {
		return ctx, false
	}

	sess, ok := sessions.ActiveSession(claims.SessionID)
	if !ok || sess.Principal.ID != claims.PrincipalID {
		log.Debug().Str("principal", claims.PrincipalID).Msg("auth: token for inactive session")
		return ctx, false
	}

	role := string(sess.Principal.Role)
	if role != claims.Role {
		log.Debug().
			Str("principal", claims.PrincipalID).
			Str("token_role", claims.Role).
			Str("role", role).
			Msg("auth: role changed since login")
	}

	ctx = context.WithValue(ctx, ContextKeyPrincipalID, claims.PrincipalID)
	ctx = context.WithValue(ctx, ContextKeyRole, role)
	ctx = context.WithValue(ctx, ContextKeySessionID, claims.SessionID)
	return ctx, true
}
