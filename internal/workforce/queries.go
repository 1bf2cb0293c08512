package workforce

import (
	"math"

	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/gate"
	"github.com/gosuda/attendance/internal/identity"
	"github.com/gosuda/attendance/internal/payroll"
)

// Dashboard holds the headline figures of the admin overview.
type Dashboard struct {
	Headcount          int             `json:"headcount"`
	SuccessfulCheckIns int             `json:"successful_check_ins"`
	CheckInRate        float64         `json:"check_in_rate"`
	Alerts             int             `json:"alerts"`
	PendingLeaves      int             `json:"pending_leaves"`
	ActiveCollectors   int             `json:"active_collectors"`
	Payroll            payroll.Summary `json:"payroll"`
}

// Session returns a copy of the active session, or nil.
func (s *Service) Session() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Session()
}

// Current returns the authenticated principal, or nil.
func (s *Service) Current() *domain.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Current()
}

// ActiveSession returns the session when sessionID is the active one.
func (s *Service) ActiveSession(sessionID string) (*domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.ActiveSession(sessionID)
}

func (s *Service) User(id string) (*domain.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Lookup(id)
}

func (s *Service) Users(filter identity.UserFilter) []domain.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Users(filter)
}

// Attendance returns records in append order. An empty principalID returns
// every record.
func (s *Service) Attendance(principalID string) []domain.AttendanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if principalID == "" {
		return s.ledger.Records()
	}
	return s.ledger.RecordsFor(principalID)
}

// Leaves returns requests in creation order, optionally for one owner.
func (s *Service) Leaves(principalID string) []domain.LeaveRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leaves.List(principalID)
}

func (s *Service) Leave(id string) (*domain.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leaves.Get(id)
}

// AuditLog returns the retained audit entries, newest first.
func (s *Service) AuditLog() []domain.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trail.Query()
}

// CurrentPositions returns the latest retained sample per principal.
func (s *Service) CurrentPositions() []domain.PositionSample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feed.CurrentPositions()
}

// PositionHistory returns retained samples oldest first, optionally for one
// principal.
func (s *Service) PositionHistory(principalID string) []domain.PositionSample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.feed.Samples()
	if principalID == "" {
		return all
	}
	out := make([]domain.PositionSample, 0, len(all))
	for _, sample := range all {
		if sample.PrincipalID == principalID {
			out = append(out, sample)
		}
	}
	return out
}

// Payroll returns slips in issue order, optionally for one owner.
func (s *Service) Payroll(principalID string) []domain.SalaryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.payroll.List(principalID)
}

func (s *Service) PayrollRecord(id string) (*domain.SalaryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.payroll.Get(id)
}

// Dashboard aggregates the directory, ledger, trail, leave list, feed and
// payroll under one read lock. CheckInRate is successful check-ins per head,
// as a rounded percentage. Alerts counts retained HIGH and CRITICAL entries.
func (s *Service) Dashboard() Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := Dashboard{
		Headcount:        s.identity.Len(),
		ActiveCollectors: len(s.feed.Collectors()),
		Payroll:          payroll.Summarize(s.payroll.List("")),
	}
	for _, r := range s.ledger.Records() {
		if r.Direction == domain.DirectionCheckIn && r.Outcome == domain.OutcomeSuccess {
			d.SuccessfulCheckIns++
		}
	}
	d.CheckInRate = math.Round(float64(d.SuccessfulCheckIns) / float64(max(d.Headcount, 1)) * 100)

	for _, e := range s.trail.Query() {
		if e.Severity == domain.SeverityHigh || e.Severity == domain.SeverityCritical {
			d.Alerts++
		}
	}
	for _, r := range s.leaves.List("") {
		if r.Status == domain.LeaveStatusPending {
			d.PendingLeaves++
		}
	}
	return d
}

// Collecting reports whether principalID has live collection enabled.
func (s *Service) Collecting(principalID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feed.Collecting(principalID)
}

// Office returns the admission configuration for map rendering.
func (s *Service) Office() gate.Config {
	return s.gate.Config()
}
