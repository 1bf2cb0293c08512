package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/attendance/internal/api/v1"
	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/payroll"
	"github.com/gosuda/attendance/internal/workforce"
)

func slip(id, owner string, net float64, status domain.PayStatus) domain.SalaryRecord {
	return domain.SalaryRecord{
		ID:          id,
		PrincipalID: owner,
		Year:        2026,
		Month:       time.September,
		Base:        net,
		Net:         net,
		Status:      status,
	}
}

// ---------------------------------------------------------------------------
// GET /payroll
// ---------------------------------------------------------------------------

func TestListPayroll(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ctx       context.Context
		query     string
		wantScope string
	}{
		{name: "employee_sees_own", ctx: employeeCtx("E1234"), wantScope: "E1234"},
		{name: "employee_filter_ignored", ctx: employeeCtx("E1234"), query: "?principal_id=E5678", wantScope: "E1234"},
		{name: "admin_sees_all", ctx: adminCtx("E0001"), wantScope: ""},
		{name: "admin_filters", ctx: adminCtx("E0001"), query: "?principal_id=E5678", wantScope: "E5678"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			var gotScope string
			svc := &mockPayrollService{
				listFunc: func(principalID string) []domain.SalaryRecord {
					gotScope = principalID
					return []domain.SalaryRecord{
						slip("p-1", "E1234", 5000, domain.PayStatusPaid),
						slip("p-2", "E1234", 4000, domain.PayStatusUnpaid),
					}
				},
			}
			v1.RegisterPayrollRoutes(api, svc)

			resp := api.GetCtx(tc.ctx, "/payroll"+tc.query)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
			assert.Equal(t, tc.wantScope, gotScope)

			var body struct {
				Records []domain.SalaryRecord `json:"records"`
				Summary payroll.Summary       `json:"summary"`
			}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.Len(t, body.Records, 2)
			assert.Equal(t, 2, body.Summary.Records)
			assert.InDelta(t, 9000, body.Summary.TotalNet, 0)
			assert.Equal(t, 1, body.Summary.Unpaid)
		})
	}

	t.Run("empty_is_array", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockPayrollService{listFunc: func(string) []domain.SalaryRecord { return nil }}
		v1.RegisterPayrollRoutes(api, svc)

		resp := api.GetCtx(employeeCtx("E1234"), "/payroll")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"records":[],"summary":{"records":0,"total_net":0,"unpaid":0}}`, resp.Body.String())
	})

	t.Run("missing_principal", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterPayrollRoutes(api, &mockPayrollService{})

		resp := api.GetCtx(context.Background(), "/payroll")
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /payroll/{id}
// ---------------------------------------------------------------------------

func TestGetPayroll(t *testing.T) {
	t.Parallel()

	svc := &mockPayrollService{
		getFunc: func(id string) (*domain.SalaryRecord, error) {
			if id != "p-1" {
				return nil, fmt.Errorf("payroll.Get: %s: %w", id, domain.ErrNotFound)
			}
			rec := slip("p-1", "E1234", 5000, domain.PayStatusUnpaid)
			return &rec, nil
		},
	}

	tests := []struct {
		name     string
		ctx      context.Context
		path     string
		wantCode int
	}{
		{name: "owner", ctx: employeeCtx("E1234"), path: "/payroll/p-1", wantCode: http.StatusOK},
		{name: "admin", ctx: adminCtx("E0001"), path: "/payroll/p-1", wantCode: http.StatusOK},
		{name: "other_employee_hidden", ctx: employeeCtx("E5678"), path: "/payroll/p-1", wantCode: http.StatusNotFound},
		{name: "missing", ctx: adminCtx("E0001"), path: "/payroll/nope", wantCode: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			v1.RegisterPayrollRoutes(api, svc)

			resp := api.GetCtx(tc.ctx, tc.path)
			assert.Equal(t, tc.wantCode, resp.Code, resp.Body.String())
		})
	}
}

// ---------------------------------------------------------------------------
// POST /payroll
// ---------------------------------------------------------------------------

func TestIssuePayroll(t *testing.T) {
	t.Parallel()

	t.Run("issued", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockPayrollService{
			issueFunc: func(_ context.Context, in payroll.IssueInput) (*domain.SalaryRecord, error) {
				assert.Equal(t, "E1234", in.PrincipalID)
				assert.Equal(t, 2026, in.Year)
				assert.Equal(t, time.September, in.Month)
				assert.InDelta(t, 500, in.Bonus, 0)
				assert.InDelta(t, 200, in.Deductions, 0)
				rec := slip("p-9", in.PrincipalID, 5300, domain.PayStatusUnpaid)
				return &rec, nil
			},
		}
		v1.RegisterPayrollAdminRoutes(api, svc)

		resp := api.PostCtx(adminCtx("E0001"), "/payroll", map[string]any{
			"principal_id": "E1234",
			"year":         2026,
			"month":        9,
			"bonus":        500,
			"deductions":   200,
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		var body struct {
			Record  domain.SalaryRecord `json:"record"`
			Message string              `json:"message"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "p-9", body.Record.ID)
		assert.Equal(t, workforce.MsgPayrollIssued, body.Message)
	})

	t.Run("month_out_of_range", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterPayrollAdminRoutes(api, &mockPayrollService{})

		resp := api.PostCtx(adminCtx("E0001"), "/payroll", map[string]any{
			"principal_id": "E1234",
			"year":         2026,
			"month":        13,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})

	t.Run("period_already_issued", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockPayrollService{
			issueFunc: func(context.Context, payroll.IssueInput) (*domain.SalaryRecord, error) {
				return nil, fmt.Errorf("workforce.IssuePayroll: %w", payroll.ErrPeriodIssued)
			},
		}
		v1.RegisterPayrollAdminRoutes(api, svc)

		resp := api.PostCtx(adminCtx("E0001"), "/payroll", map[string]any{
			"principal_id": "E1234",
			"year":         2026,
			"month":        9,
		})
		assert.Equal(t, http.StatusConflict, resp.Code)
		assert.Contains(t, resp.Body.String(), workforce.MsgPeriodIssued)
	})
}

// ---------------------------------------------------------------------------
// PATCH /payroll/{id}/status
// ---------------------------------------------------------------------------

func TestUpdatePayrollStatus(t *testing.T) {
	t.Parallel()

	t.Run("paid", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockPayrollService{
			markPaidFunc: func(_ context.Context, id string) (*domain.SalaryRecord, error) {
				assert.Equal(t, "p-1", id)
				rec := slip(id, "E1234", 5000, domain.PayStatusPaid)
				return &rec, nil
			},
		}
		v1.RegisterPayrollAdminRoutes(api, svc)

		resp := api.PatchCtx(adminCtx("E0001"), "/payroll/p-1/status", map[string]any{"status": "PAID"})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		var rec domain.SalaryRecord
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &rec))
		assert.Equal(t, domain.PayStatusPaid, rec.Status)
	})

	t.Run("already_paid", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		svc := &mockPayrollService{
			markPaidFunc: func(context.Context, string) (*domain.SalaryRecord, error) {
				return nil, fmt.Errorf("workforce.MarkPayrollPaid: %w", payroll.ErrAlreadyPaid)
			},
		}
		v1.RegisterPayrollAdminRoutes(api, svc)

		resp := api.PatchCtx(adminCtx("E0001"), "/payroll/p-1/status", map[string]any{"status": "PAID"})
		assert.Equal(t, http.StatusConflict, resp.Code)
		assert.Contains(t, resp.Body.String(), workforce.MsgAlreadyPaid)
	})

	t.Run("unknown_status", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterPayrollAdminRoutes(api, &mockPayrollService{})

		resp := api.PatchCtx(adminCtx("E0001"), "/payroll/p-1/status", map[string]any{"status": "UNPAID"})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /dashboard
// ---------------------------------------------------------------------------

func TestDashboard(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	svc := &mockDashboardService{
		dashboardFunc: func() workforce.Dashboard {
			return workforce.Dashboard{
				Headcount:          4,
				SuccessfulCheckIns: 3,
				CheckInRate:        75,
				Alerts:             1,
				PendingLeaves:      2,
				ActiveCollectors:   1,
				Payroll:            payroll.Summary{Records: 1, TotalNet: 5000, Unpaid: 1},
			}
		},
	}
	v1.RegisterDashboardRoutes(api, svc)

	resp := api.GetCtx(adminCtx("E0001"), "/dashboard")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body workforce.Dashboard
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Headcount)
	assert.InDelta(t, 75, body.CheckInRate, 0)
	assert.Equal(t, 1, body.Alerts)
	assert.Equal(t, 1, body.Payroll.Unpaid)
}
