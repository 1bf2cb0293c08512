package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/identity"
	"github.com/gosuda/attendance/internal/workforce"
)

// TokenConfig signs the session tokens handed out at login.
type TokenConfig struct {
	Secret string //nolint:gosec // G117: JWT signing secret
	TTL    time.Duration
}

type RegisterInput struct {
	Body struct {
		ID         string `json:"id" minLength:"1" maxLength:"32" doc:"Proposed principal ID, e.g. E1234"`
		Name       string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Email      string `json:"email" minLength:"3" maxLength:"255" doc:"Email"`
		Password   string `json:"password" minLength:"1" maxLength:"128" doc:"Password"` //nolint:gosec // G117: registration credential DTO
		Department string `json:"department,omitempty" maxLength:"255" doc:"Department, defaults to the configured one"`
	}
}

type RegisterOutput struct {
	Body struct {
		Principal *domain.Principal `json:"principal"`
		Message   string            `json:"message"`
	}
}

type LoginInput struct {
	Body struct {
		Identifier string `json:"identifier" minLength:"1" maxLength:"255" doc:"Principal ID or email"`
		Password   string `json:"password" minLength:"1" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
		Role       string `json:"role,omitempty" enum:"ADMIN,EMPLOYEE" default:"EMPLOYEE" doc:"Role to log in as"`
	}
}

type LoginOutput struct {
	Body struct {
		Token     string            `json:"token"` //nolint:gosec // G117: auth response DTO
		ExpiresAt time.Time         `json:"expires_at"`
		Principal *domain.Principal `json:"principal"`
	}
}

type LogoutOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

type MeOutput struct {
	Body *domain.Principal
}

// RegisterAuthRoutes registers the unauthenticated register and login
// operations.
func RegisterAuthRoutes(api huma.API, sessions SessionService, tokens TokenConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Register an employee account",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
		p, err := sessions.Register(ctx, identity.RegisterInput{
			Name:       input.Body.Name,
			Email:      input.Body.Email,
			Secret:     input.Body.Password,
			ProposedID: input.Body.ID,
			Department: input.Body.Department,
		})
		if err != nil {
			return nil, apiError(err)
		}

		out := &RegisterOutput{}
		out.Body.Principal = p
		out.Body.Message = workforce.MsgRegistered
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with ID or email",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		role := domain.Role(input.Body.Role)
		if role == "" {
			role = domain.RoleEmployee
		}

		session, err := sessions.Login(ctx, input.Body.Identifier, input.Body.Password, role)
		if err != nil {
			return nil, apiError(err)
		}

		token, err := identity.IssueToken(tokens.Secret, session.ID, session.Principal.ID, string(session.Principal.Role), tokens.TTL)
		if err != nil {
			return nil, huma.Error500InternalServerError(workforce.MsgInternal, err)
		}

		out := &LoginOutput{}
		out.Body.Token = token
		out.Body.ExpiresAt = session.StartedAt.Add(tokens.TTL)
		out.Body.Principal = &session.Principal
		return out, nil
	})
}

// RegisterSessionRoutes registers the operations that need a live session.
func RegisterSessionRoutes(api huma.API, sessions SessionService) {
	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "End the active session",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
		sessions.Logout(ctx)

		out := &LogoutOutput{}
		out.Body.Message = workforce.MsgLoggedOut
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Get the authenticated principal",
		Tags:        []string{"Auth"},
	}, func(_ context.Context, _ *struct{}) (*MeOutput, error) {
		p := sessions.Current()
		if p == nil {
			return nil, huma.Error401Unauthorized(workforce.MsgNotAuthenticated)
		}
		return &MeOutput{Body: p}, nil
	})
}
