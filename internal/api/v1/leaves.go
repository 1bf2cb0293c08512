package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/leave"
	"github.com/gosuda/attendance/internal/workforce"
)

type ApplyLeaveInput struct {
	Body struct {
		StartDate     string `json:"start_date" format:"date" doc:"First day off (YYYY-MM-DD)"`
		EndDate       string `json:"end_date" format:"date" doc:"Last day off (YYYY-MM-DD)"`
		Category      string `json:"category" enum:"Annual,Sick,Maternity/Paternity,Unpaid,Bereavement" doc:"Leave category"`
		Justification string `json:"justification,omitempty" maxLength:"2000" doc:"Free-text reason"`
	}
}

type ApplyLeaveOutput struct {
	Body struct {
		Request *domain.LeaveRequest `json:"request"`
		Message string               `json:"message"`
	}
}

type ListLeavesInput struct {
	PrincipalID string `query:"principal_id" doc:"Filter by principal (admin only)"`
}

type ListLeavesOutput struct {
	Body []domain.LeaveRequest
}

type GetLeaveInput struct {
	ID string `path:"id" doc:"Leave request ID"`
}

type LeaveOutput struct {
	Body *domain.LeaveRequest
}

type UpdateLeaveStatusInput struct {
	ID   string `path:"id" doc:"Leave request ID"`
	Body struct {
		Status string `json:"status" enum:"APPROVED,REJECTED" doc:"Decision"`
	}
}

// RegisterLeaveRoutes registers the operations open to every authenticated
// principal.
func RegisterLeaveRoutes(api huma.API, svc LeaveService) {
	huma.Register(api, huma.Operation{
		OperationID: "apply-leave",
		Method:      http.MethodPost,
		Path:        "/leaves",
		Summary:     "Apply for leave",
		Tags:        []string{"Leaves"},
	}, func(ctx context.Context, input *ApplyLeaveInput) (*ApplyLeaveOutput, error) {
		id, _, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		start, err := time.Parse(time.DateOnly, input.Body.StartDate)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(workforce.MsgInvalidRequest, err)
		}
		end, err := time.Parse(time.DateOnly, input.Body.EndDate)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(workforce.MsgInvalidRequest, err)
		}

		req, err := svc.ApplyLeave(ctx, leave.ApplyInput{
			PrincipalID:   id,
			Period:        domain.DateRange{Start: start, End: end},
			Category:      input.Body.Category,
			Justification: input.Body.Justification,
		})
		if err != nil {
			return nil, apiError(err)
		}

		out := &ApplyLeaveOutput{}
		out.Body.Request = req
		out.Body.Message = workforce.MsgLeaveApplied
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-leaves",
		Method:      http.MethodGet,
		Path:        "/leaves",
		Summary:     "List leave requests",
		Description: "Employees see their own requests. Administrators see every request, optionally filtered by principal.",
		Tags:        []string{"Leaves"},
	}, func(ctx context.Context, input *ListLeavesInput) (*ListLeavesOutput, error) {
		id, admin, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		scope := id
		if admin {
			scope = input.PrincipalID
		}

		reqs := svc.Leaves(scope)
		if reqs == nil {
			reqs = []domain.LeaveRequest{}
		}
		return &ListLeavesOutput{Body: reqs}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-leave",
		Method:      http.MethodGet,
		Path:        "/leaves/{id}",
		Summary:     "Get a leave request",
		Tags:        []string{"Leaves"},
	}, func(ctx context.Context, input *GetLeaveInput) (*LeaveOutput, error) {
		id, admin, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		req, err := svc.Leave(input.ID)
		if err != nil {
			return nil, apiError(err)
		}
		// Someone else's request is reported as missing.
		if !admin && req.PrincipalID != id {
			return nil, huma.Error404NotFound(workforce.MsgNotFound)
		}
		return &LeaveOutput{Body: req}, nil
	})
}

// RegisterLeaveAdminRoutes registers the decision operation. Mount it behind
// RequireAdmin.
func RegisterLeaveAdminRoutes(api huma.API, svc LeaveService) {
	huma.Register(api, huma.Operation{
		OperationID: "update-leave-status",
		Method:      http.MethodPatch,
		Path:        "/leaves/{id}/status",
		Summary:     "Approve or reject a leave request",
		Tags:        []string{"Leaves"},
	}, func(ctx context.Context, input *UpdateLeaveStatusInput) (*LeaveOutput, error) {
		req, err := svc.UpdateLeaveStatus(ctx, input.ID, domain.LeaveStatus(input.Body.Status))
		if err != nil {
			return nil, apiError(err)
		}
		return &LeaveOutput{Body: req}, nil
	})
}
