package domain

import (
	"slices"
	"time"
)

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "PENDING"
	LeaveStatusApproved LeaveStatus = "APPROVED"
	LeaveStatusRejected LeaveStatus = "REJECTED"
)

// ValidTransition checks if a leave status transition is allowed.
// Allowed: PENDING->APPROVED, PENDING->REJECTED. Terminal states never change.
func (s LeaveStatus) ValidTransition(to LeaveStatus) bool {
	switch s {
	case LeaveStatusPending:
		return to == LeaveStatusApproved || to == LeaveStatusRejected
	default:
		return false
	}
}

// LeaveCategories lists the accepted leave categories.
var LeaveCategories = []string{ //nolint:gochecknoglobals // fixed catalogue
	"Annual",
	"Sick",
	"Maternity/Paternity",
	"Unpaid",
	"Bereavement",
}

// ValidLeaveCategory reports whether c is a known leave category.
func ValidLeaveCategory(c string) bool {
	return slices.Contains(LeaveCategories, c)
}

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Ordered reports whether Start is not after End.
func (r DateRange) Ordered() bool {
	return !r.Start.After(r.End)
}

type LeaveRequest struct {
	ID            string      `json:"id"`
	PrincipalID   string      `json:"principal_id"`
	PrincipalName string      `json:"principal_name"`
	Period        DateRange   `json:"period"`
	Category      string      `json:"category"`
	Justification string      `json:"justification"`
	Status        LeaveStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	DecidedAt     *time.Time  `json:"decided_at,omitempty"`
}
