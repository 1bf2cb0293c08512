package v1

import (
	"context"

	"github.com/gosuda/attendance/internal/attendance"
	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/gate"
	"github.com/gosuda/attendance/internal/identity"
	"github.com/gosuda/attendance/internal/leave"
	"github.com/gosuda/attendance/internal/payroll"
	"github.com/gosuda/attendance/internal/workforce"
)

// SessionService abstracts login, registration and logout for handler testing.
// *workforce.Service satisfies this interface.
type SessionService interface {
	Login(ctx context.Context, identifier, secret string, role domain.Role) (*domain.Session, error)
	Register(ctx context.Context, in identity.RegisterInput) (*domain.Principal, error)
	Logout(ctx context.Context) *domain.Principal
	Current() *domain.Principal
}

// AttendanceService abstracts the access gate and ledger. Check-in and
// check-out are bound to the caller's session id.
// *workforce.Service satisfies this interface.
type AttendanceService interface {
	CheckIn(ctx context.Context, sessionID string, ev attendance.Event) (*domain.AttendanceRecord, error)
	CheckOut(ctx context.Context, sessionID string, ev attendance.Event) (*domain.AttendanceRecord, error)
	Attendance(principalID string) []domain.AttendanceRecord
	Office() gate.Config
}

// LeaveService abstracts the leave workflow.
// *workforce.Service satisfies this interface.
type LeaveService interface {
	ApplyLeave(ctx context.Context, in leave.ApplyInput) (*domain.LeaveRequest, error)
	UpdateLeaveStatus(ctx context.Context, id string, status domain.LeaveStatus) (*domain.LeaveRequest, error)
	Leaves(principalID string) []domain.LeaveRequest
	Leave(id string) (*domain.LeaveRequest, error)
}

// DirectoryService abstracts the administrative directory and audit views.
// *workforce.Service satisfies this interface.
type DirectoryService interface {
	Users(filter identity.UserFilter) []domain.Principal
	User(id string) (*domain.Principal, error)
	UpdateUser(ctx context.Context, id string, patch domain.PrincipalPatch) (*domain.Principal, error)
	AuditLog() []domain.AuditEntry
}

// PositionService abstracts the live position feed.
// *workforce.Service satisfies this interface.
type PositionService interface {
	RecordPosition(ctx context.Context, sample domain.PositionSample) error
	CurrentPositions() []domain.PositionSample
}

// PositionHistoryService exposes the retained sample buffer.
// *workforce.Service satisfies this interface.
type PositionHistoryService interface {
	PositionHistory(principalID string) []domain.PositionSample
}

// PayrollService abstracts the salary ledger.
// *workforce.Service satisfies this interface.
type PayrollService interface {
	IssuePayroll(ctx context.Context, in payroll.IssueInput) (*domain.SalaryRecord, error)
	MarkPayrollPaid(ctx context.Context, id string) (*domain.SalaryRecord, error)
	Payroll(principalID string) []domain.SalaryRecord
	PayrollRecord(id string) (*domain.SalaryRecord, error)
}

// DashboardService aggregates the admin overview.
// *workforce.Service satisfies this interface.
type DashboardService interface {
	Dashboard() workforce.Dashboard
}
