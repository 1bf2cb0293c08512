package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/payroll"
	"github.com/gosuda/attendance/internal/workforce"
)

type ListPayrollInput struct {
	PrincipalID string `query:"principal_id" doc:"Filter by principal (admin only)"`
}

type ListPayrollOutput struct {
	Body struct {
		Records []domain.SalaryRecord `json:"records"`
		Summary payroll.Summary       `json:"summary"`
	}
}

type GetPayrollInput struct {
	ID string `path:"id" doc:"Payroll slip ID"`
}

type PayrollOutput struct {
	Body *domain.SalaryRecord
}

type IssuePayrollInput struct {
	Body struct {
		PrincipalID string  `json:"principal_id" doc:"Principal to pay"`
		Year        int     `json:"year" minimum:"1" doc:"Pay year"`
		Month       int     `json:"month" minimum:"1" maximum:"12" doc:"Pay month (1-12)"`
		Bonus       float64 `json:"bonus,omitempty" minimum:"0" doc:"Bonus on top of base compensation"`
		Deductions  float64 `json:"deductions,omitempty" minimum:"0" doc:"Deductions from gross pay"`
	}
}

type IssuePayrollOutput struct {
	Body struct {
		Record  *domain.SalaryRecord `json:"record"`
		Message string               `json:"message"`
	}
}

type UpdatePayrollStatusInput struct {
	ID   string `path:"id" doc:"Payroll slip ID"`
	Body struct {
		Status string `json:"status" enum:"PAID" doc:"New payment status"`
	}
}

type DashboardOutput struct {
	Body workforce.Dashboard
}

// RegisterPayrollRoutes registers the slip views open to every authenticated
// principal. Employees only ever see their own slips.
func RegisterPayrollRoutes(api huma.API, svc PayrollService) {
	huma.Register(api, huma.Operation{
		OperationID: "list-payroll",
		Method:      http.MethodGet,
		Path:        "/payroll",
		Summary:     "List payroll slips with totals",
		Description: "Employees see their own slips. Administrators see every slip, optionally filtered by principal.",
		Tags:        []string{"Payroll"},
	}, func(ctx context.Context, input *ListPayrollInput) (*ListPayrollOutput, error) {
		id, admin, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		scope := id
		if admin {
			scope = input.PrincipalID
		}

		records := svc.Payroll(scope)
		if records == nil {
			records = []domain.SalaryRecord{}
		}
		out := &ListPayrollOutput{}
		out.Body.Records = records
		out.Body.Summary = payroll.Summarize(records)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-payroll",
		Method:      http.MethodGet,
		Path:        "/payroll/{id}",
		Summary:     "Get a payroll slip",
		Tags:        []string{"Payroll"},
	}, func(ctx context.Context, input *GetPayrollInput) (*PayrollOutput, error) {
		id, admin, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		rec, err := svc.PayrollRecord(input.ID)
		if err != nil {
			return nil, apiError(err)
		}
		if !admin && rec.PrincipalID != id {
			return nil, huma.Error404NotFound(workforce.MsgNotFound)
		}
		return &PayrollOutput{Body: rec}, nil
	})
}

// RegisterPayrollAdminRoutes registers issuing and settling slips. Mount it
// behind RequireAdmin.
func RegisterPayrollAdminRoutes(api huma.API, svc PayrollService) {
	huma.Register(api, huma.Operation{
		OperationID: "issue-payroll",
		Method:      http.MethodPost,
		Path:        "/payroll",
		Summary:     "Issue a monthly payroll slip",
		Tags:        []string{"Payroll"},
	}, func(ctx context.Context, input *IssuePayrollInput) (*IssuePayrollOutput, error) {
		rec, err := svc.IssuePayroll(ctx, payroll.IssueInput{
			PrincipalID: input.Body.PrincipalID,
			Year:        input.Body.Year,
			Month:       time.Month(input.Body.Month),
			Bonus:       input.Body.Bonus,
			Deductions:  input.Body.Deductions,
		})
		if err != nil {
			return nil, apiError(err)
		}

		out := &IssuePayrollOutput{}
		out.Body.Record = rec
		out.Body.Message = workforce.MsgPayrollIssued
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-payroll-status",
		Method:      http.MethodPatch,
		Path:        "/payroll/{id}/status",
		Summary:     "Mark a payroll slip paid",
		Tags:        []string{"Payroll"},
	}, func(ctx context.Context, input *UpdatePayrollStatusInput) (*PayrollOutput, error) {
		rec, err := svc.MarkPayrollPaid(ctx, input.ID)
		if err != nil {
			return nil, apiError(err)
		}
		return &PayrollOutput{Body: rec}, nil
	})
}

// RegisterDashboardRoutes registers the admin overview. Mount it behind
// RequireAdmin.
func RegisterDashboardRoutes(api huma.API, svc DashboardService) {
	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard",
		Summary:     "Workforce overview figures",
		Tags:        []string{"Dashboard"},
	}, func(_ context.Context, _ *struct{}) (*DashboardOutput, error) {
		return &DashboardOutput{Body: svc.Dashboard()}, nil
	})
}
