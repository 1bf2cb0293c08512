package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/identity"
)

type ListUsersInput struct {
	Department string `query:"department" doc:"Filter by department"`
	Search     string `query:"q" doc:"Case-insensitive match on name, email or ID"`
}

type ListUsersOutput struct {
	Body []domain.Principal
}

type GetUserInput struct {
	ID string `path:"id" doc:"Principal ID"`
}

type UserOutput struct {
	Body *domain.Principal
}

type UpdateUserInput struct {
	ID   string `path:"id" doc:"Principal ID"`
	Body struct {
		Name             *string            `json:"name,omitempty" minLength:"1" maxLength:"255" doc:"Display name"`
		Email            *string            `json:"email,omitempty" minLength:"3" maxLength:"255" doc:"Email"`
		Password         *string            `json:"password,omitempty" minLength:"1" maxLength:"128" doc:"New password"` //nolint:gosec // G117: admin override DTO
		Role             *string            `json:"role,omitempty" enum:"ADMIN,EMPLOYEE" doc:"Role"`
		Department       *string            `json:"department,omitempty" maxLength:"255" doc:"Department"`
		BaseCompensation *float64           `json:"base_compensation,omitempty" minimum:"0" doc:"Base compensation"`
		DeviceID         *string            `json:"device_id,omitempty" maxLength:"128" doc:"Bound device ID"`
		OfficeLocation   *domain.Coordinate `json:"office_location,omitempty" doc:"Assigned office location"`
	}
}

type ListAuditInput struct {
	Limit int `query:"limit" minimum:"0" doc:"Maximum entries to return, newest first (0 = all retained)"`
}

type ListAuditOutput struct {
	Body []domain.AuditEntry
}

// RegisterAdminRoutes registers directory and audit operations. Mount it
// behind RequireAdmin.
func RegisterAdminRoutes(api huma.API, svc DirectoryService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List principals",
		Tags:        []string{"Users"},
	}, func(_ context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
		users := svc.Users(identity.UserFilter{
			Department: input.Department,
			Search:     input.Search,
		})
		if users == nil {
			users = []domain.Principal{}
		}
		return &ListUsersOutput{Body: users}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/users/{id}",
		Summary:     "Get a principal",
		Tags:        []string{"Users"},
	}, func(_ context.Context, input *GetUserInput) (*UserOutput, error) {
		p, err := svc.User(input.ID)
		if err != nil {
			return nil, apiError(err)
		}
		return &UserOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-user",
		Method:      http.MethodPatch,
		Path:        "/users/{id}",
		Summary:     "Override principal fields",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
		patch := domain.PrincipalPatch{
			Name:             input.Body.Name,
			Email:            input.Body.Email,
			Secret:           input.Body.Password,
			Department:       input.Body.Department,
			BaseCompensation: input.Body.BaseCompensation,
			DeviceID:         input.Body.DeviceID,
			OfficeLocation:   input.Body.OfficeLocation,
		}
		if input.Body.Role != nil {
			role := domain.Role(*input.Body.Role)
			patch.Role = &role
		}

		p, err := svc.UpdateUser(ctx, input.ID, patch)
		if err != nil {
			return nil, apiError(err)
		}
		return &UserOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-audit",
		Method:      http.MethodGet,
		Path:        "/audit",
		Summary:     "List audit entries, newest first",
		Tags:        []string{"Audit"},
	}, func(_ context.Context, input *ListAuditInput) (*ListAuditOutput, error) {
		entries := svc.AuditLog()
		if input.Limit > 0 && len(entries) > input.Limit {
			entries = entries[:input.Limit]
		}
		if entries == nil {
			entries = []domain.AuditEntry{}
		}
		return &ListAuditOutput{Body: entries}, nil
	})
}
