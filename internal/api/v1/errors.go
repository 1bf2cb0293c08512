package v1

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/server/middleware"
	"github.com/gosuda/attendance/internal/workforce"
)

// apiError converts an operation error into a huma status error whose detail
// is the operator-facing message. Internal causes are attached only to 500s.
func apiError(err error) error {
	msg := workforce.Message(err)
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrUnauthorized):
		return huma.Error401Unauthorized(msg)
	case errors.Is(err, domain.ErrForbidden):
		return huma.Error403Forbidden(msg)
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(msg)
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrConflict):
		return huma.Error409Conflict(msg)
	case errors.Is(err, domain.ErrValidation):
		return huma.Error422UnprocessableEntity(msg)
	default:
		return huma.Error500InternalServerError(msg, err)
	}
}

// caller returns the authenticated principal id and whether it holds the
// ADMIN role.
func caller(ctx context.Context) (string, bool, error) {
	id, ok := middleware.PrincipalIDFromContext(ctx)
	if !ok || id == "" {
		return "", false, huma.Error401Unauthorized(workforce.MsgNotAuthenticated)
	}
	role, _ := middleware.RoleFromContext(ctx)
	return id, role == middleware.RoleAdmin, nil
}

// callerSession returns the session id the request was authenticated with.
func callerSession(ctx context.Context) (string, error) {
	sid, ok := middleware.SessionIDFromContext(ctx)
	if !ok || sid == "" {
		return "", huma.Error401Unauthorized(workforce.MsgNotAuthenticated)
	}
	return sid, nil
}
