package workforce

import (
	"errors"

	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/gate"
	"github.com/gosuda/attendance/internal/identity"
	"github.com/gosuda/attendance/internal/leave"
	"github.com/gosuda/attendance/internal/payroll"
)

// Messages shown to the operator after a successful action.
const (
	MsgCheckedIn     = "Identity verified. Duty session started."
	MsgCheckedOut    = "Duty session ended successfully."
	MsgRegistered    = "Account registered successfully. Use your credentials to log in."
	MsgLeaveApplied  = "Leave request submitted for approval."
	MsgLoggedOut     = "Session terminated."
	MsgPayrollIssued = "Payroll slip issued."
)

// Messages shown to the operator on failure.
const (
	MsgNotAuthenticated  = "Not authenticated"
	MsgNetworkMismatch   = "Unauthorized Network. Access restricted to Exord Office WiFi."
	MsgOutsideGeofence   = "Verification failed. Device detected outside authorized perimeter."
	MsgInvalidLocation   = "Verification failed. Location report could not be validated."
	MsgInvalidLogin      = "Access Denied: Invalid credentials or unauthorized project node."
	MsgAlreadyRegistered = "User ID or Email already registered."
	MsgInvalidIDFormat   = "Invalid ID format. Use E followed by four digits (e.g. E1234)."
	MsgMissingField      = "Name, email and password are required."
	MsgInvalidDateRange  = "Leave start date must not be after the end date."
	MsgUnknownCategory   = "Unknown leave category."
	MsgAlreadyDecided    = "Leave request has already been decided."
	MsgNotCollecting     = "Live tracking is not active. Check in first."
	MsgInvalidPayPeriod  = "Pay period must be a valid month and year."
	MsgNegativeAmount    = "Bonus and deductions must not be negative."
	MsgNegativeNet       = "Deductions exceed gross pay."
	MsgPeriodIssued      = "Payroll for this period has already been issued."
	MsgAlreadyPaid       = "Payroll slip has already been paid."
	MsgNotFound          = "Record not found."
	MsgInvalidRequest    = "Request could not be validated."
	MsgInternal          = "Unexpected error. Please retry."
)

// Message maps an operation error to the text shown to the operator. It
// never exposes internal detail.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNotAuthenticated):
		return MsgNotAuthenticated
	case errors.Is(err, gate.ErrNetworkMismatch):
		return MsgNetworkMismatch
	case errors.Is(err, gate.ErrOutsideGeofence):
		return MsgOutsideGeofence
	case errors.Is(err, gate.ErrInvalidLocation):
		return MsgInvalidLocation
	case errors.Is(err, identity.ErrInvalidCredentials):
		return MsgInvalidLogin
	case errors.Is(err, identity.ErrAlreadyRegistered):
		return MsgAlreadyRegistered
	case errors.Is(err, identity.ErrInvalidIDFormat):
		return MsgInvalidIDFormat
	case errors.Is(err, identity.ErrMissingField):
		return MsgMissingField
	case errors.Is(err, leave.ErrInvalidDateRange):
		return MsgInvalidDateRange
	case errors.Is(err, leave.ErrUnknownCategory):
		return MsgUnknownCategory
	case errors.Is(err, payroll.ErrInvalidPeriod):
		return MsgInvalidPayPeriod
	case errors.Is(err, payroll.ErrNegativeAmount):
		return MsgNegativeAmount
	case errors.Is(err, payroll.ErrNegativeNet):
		return MsgNegativeNet
	case errors.Is(err, payroll.ErrPeriodIssued):
		return MsgPeriodIssued
	case errors.Is(err, payroll.ErrAlreadyPaid):
		return MsgAlreadyPaid
	case errors.Is(err, domain.ErrInvalidTransition):
		return MsgAlreadyDecided
	case errors.Is(err, ErrNotCollecting):
		return MsgNotCollecting
	case errors.Is(err, domain.ErrNotFound):
		return MsgNotFound
	case errors.Is(err, domain.ErrValidation):
		return MsgInvalidRequest
	default:
		return MsgInternal
	}
}
