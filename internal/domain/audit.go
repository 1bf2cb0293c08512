package domain

import "time"

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Audit action tags.
const (
	ActionUserLogin         = "USER_LOGIN"
	ActionFailedLogin       = "FAILED_LOGIN"
	ActionUserRegister      = "USER_REGISTER"
	ActionUserLogout        = "USER_LOGOUT"
	ActionAdminOverride     = "ADMIN_OVERRIDE"
	ActionAttendanceSuccess = "ATTENDANCE_SUCCESS"
	ActionAttendanceDenied  = "ATTENDANCE_DENIED"
	ActionLeaveApplied      = "LEAVE_APPLIED"
	ActionLeaveApproved     = "LEAVE_APPROVED"
	ActionLeaveRejected     = "LEAVE_REJECTED"
	ActionTrackingStopped   = "TRACKING_STOPPED"
	ActionPayrollIssued     = "PAYROLL_ISSUED"
	ActionPayrollPaid       = "PAYROLL_PAID"
)

// AuditEntry is one immutable line of the audit trail.
type AuditEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	Severity  Severity  `json:"severity"`
}

// Auditor records audit entries. *audit.Trail satisfies this interface.
type Auditor interface {
	Record(actor Actor, action, detail string, severity Severity) AuditEntry
}
