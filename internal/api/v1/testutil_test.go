package v1_test

import (
	"context"

	"github.com/gosuda/attendance/internal/attendance"
	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/gate"
	"github.com/gosuda/attendance/internal/identity"
	"github.com/gosuda/attendance/internal/leave"
	"github.com/gosuda/attendance/internal/payroll"
	"github.com/gosuda/attendance/internal/server/middleware"
	"github.com/gosuda/attendance/internal/workforce"
)

// ---------------------------------------------------------------------------
// Context helpers: inject principal/role/client IP into context for DoCtx
// ---------------------------------------------------------------------------

func employeeCtx(principalID string) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyPrincipalID, principalID)
	ctx = context.WithValue(ctx, middleware.ContextKeyRole, middleware.RoleEmployee)
	return withSession(ctx, "sess-test")
}

func adminCtx(principalID string) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyPrincipalID, principalID)
	ctx = context.WithValue(ctx, middleware.ContextKeyRole, middleware.RoleAdmin)
	return withSession(ctx, "sess-test")
}

func withSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, middleware.ContextKeySessionID, sessionID)
}

func withClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, middleware.ContextKeyClientIP, ip)
}

// ---------------------------------------------------------------------------
// Mock SessionService
// ---------------------------------------------------------------------------

type mockSessionService struct {
	loginFunc    func(ctx context.Context, identifier, secret string, role domain.Role) (*domain.Session, error)
	registerFunc func(ctx context.Context, in identity.RegisterInput) (*domain.Principal, error)
	logoutFunc   func(ctx context.Context) *domain.Principal
	currentFunc  func() *domain.Principal
}

func (m *mockSessionService) Login(ctx context.Context, identifier, secret string, role domain.Role) (*domain.Session, error) {
	return m.loginFunc(ctx, identifier, secret, role)
}

func (m *mockSessionService) Register(ctx context.Context, in identity.RegisterInput) (*domain.Principal, error) {
	return m.registerFunc(ctx, in)
}

func (m *mockSessionService) Logout(ctx context.Context) *domain.Principal {
	return m.logoutFunc(ctx)
}

func (m *mockSessionService) Current() *domain.Principal {
	return m.currentFunc()
}

// ---------------------------------------------------------------------------
// Mock AttendanceService
// ---------------------------------------------------------------------------

type mockAttendanceService struct {
	checkInFunc    func(ctx context.Context, sessionID string, ev attendance.Event) (*domain.AttendanceRecord, error)
	checkOutFunc   func(ctx context.Context, sessionID string, ev attendance.Event) (*domain.AttendanceRecord, error)
	attendanceFunc func(principalID string) []domain.AttendanceRecord
	office         gate.Config
}

func (m *mockAttendanceService) CheckIn(ctx context.Context, sessionID string, ev attendance.Event) (*domain.AttendanceRecord, error) {
	return m.checkInFunc(ctx, sessionID, ev)
}

func (m *mockAttendanceService) CheckOut(ctx context.Context, sessionID string, ev attendance.Event) (*domain.AttendanceRecord, error) {
	return m.checkOutFunc(ctx, sessionID, ev)
}

func (m *mockAttendanceService) Attendance(principalID string) []domain.AttendanceRecord {
	return m.attendanceFunc(principalID)
}

func (m *mockAttendanceService) Office() gate.Config { return m.office }

// ---------------------------------------------------------------------------
// Mock LeaveService
// ---------------------------------------------------------------------------

type mockLeaveService struct {
	applyFunc  func(ctx context.Context, in leave.ApplyInput) (*domain.LeaveRequest, error)
	updateFunc func(ctx context.Context, id string, status domain.LeaveStatus) (*domain.LeaveRequest, error)
	listFunc   func(principalID string) []domain.LeaveRequest
	getFunc    func(id string) (*domain.LeaveRequest, error)
}

func (m *mockLeaveService) ApplyLeave(ctx context.Context, in leave.ApplyInput) (*domain.LeaveRequest, error) {
	return m.applyFunc(ctx, in)
}

func (m *mockLeaveService) UpdateLeaveStatus(ctx context.Context, id string, status domain.LeaveStatus) (*domain.LeaveRequest, error) {
	return m.updateFunc(ctx, id, status)
}

func (m *mockLeaveService) Leaves(principalID string) []domain.LeaveRequest {
	return m.listFunc(principalID)
}

func (m *mockLeaveService) Leave(id string) (*domain.LeaveRequest, error) {
	return m.getFunc(id)
}

// ---------------------------------------------------------------------------
// Mock DirectoryService
// ---------------------------------------------------------------------------

type mockDirectoryService struct {
	usersFunc  func(filter identity.UserFilter) []domain.Principal
	userFunc   func(id string) (*domain.Principal, error)
	updateFunc func(ctx context.Context, id string, patch domain.PrincipalPatch) (*domain.Principal, error)
	auditFunc  func() []domain.AuditEntry
}

func (m *mockDirectoryService) Users(filter identity.UserFilter) []domain.Principal {
	return m.usersFunc(filter)
}

func (m *mockDirectoryService) User(id string) (*domain.Principal, error) {
	return m.userFunc(id)
}

func (m *mockDirectoryService) UpdateUser(ctx context.Context, id string, patch domain.PrincipalPatch) (*domain.Principal, error) {
	return m.updateFunc(ctx, id, patch)
}

func (m *mockDirectoryService) AuditLog() []domain.AuditEntry {
	return m.auditFunc()
}

// ---------------------------------------------------------------------------
// Mock PositionService
// ---------------------------------------------------------------------------

type mockPositionService struct {
	recordFunc  func(ctx context.Context, s domain.PositionSample) error
	currentFunc func() []domain.PositionSample
}

func (m *mockPositionService) RecordPosition(ctx context.Context, s domain.PositionSample) error {
	return m.recordFunc(ctx, s)
}

func (m *mockPositionService) CurrentPositions() []domain.PositionSample {
	return m.currentFunc()
}

type mockPositionHistoryService struct {
	historyFunc func(principalID string) []domain.PositionSample
}

func (m *mockPositionHistoryService) PositionHistory(principalID string) []domain.PositionSample {
	return m.historyFunc(principalID)
}

// ---------------------------------------------------------------------------
// Mock PayrollService
// ---------------------------------------------------------------------------

type mockPayrollService struct {
	issueFunc    func(ctx context.Context, in payroll.IssueInput) (*domain.SalaryRecord, error)
	markPaidFunc func(ctx context.Context, id string) (*domain.SalaryRecord, error)
	listFunc     func(principalID string) []domain.SalaryRecord
	getFunc      func(id string) (*domain.SalaryRecord, error)
}

func (m *mockPayrollService) IssuePayroll(ctx context.Context, in payroll.IssueInput) (*domain.SalaryRecord, error) {
	return m.issueFunc(ctx, in)
}

func (m *mockPayrollService) MarkPayrollPaid(ctx context.Context, id string) (*domain.SalaryRecord, error) {
	return m.markPaidFunc(ctx, id)
}

func (m *mockPayrollService) Payroll(principalID string) []domain.SalaryRecord {
	return m.listFunc(principalID)
}

func (m *mockPayrollService) PayrollRecord(id string) (*domain.SalaryRecord, error) {
	return m.getFunc(id)
}

// ---------------------------------------------------------------------------
// Mock DashboardService
// ---------------------------------------------------------------------------

type mockDashboardService struct {
	dashboardFunc func() workforce.Dashboard
}

func (m *mockDashboardService) Dashboard() workforce.Dashboard {
	return m.dashboardFunc()
}
