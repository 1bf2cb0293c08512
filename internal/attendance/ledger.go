// Package attendance records check-in and check-out events for the
// authenticated principal.
package attendance

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/gate"
)

// Admitter decides whether a check-in is admissible. *gate.Gate satisfies
// this interface.
type Admitter interface {
	Check(origin string, at domain.Coordinate) (gate.Decision, error)
}

// SessionSource yields the authenticated principal. *identity.Store
// satisfies this interface.
type SessionSource interface {
	Current() *domain.Principal
}

// Event is a claimed attendance action as reported by the client.
type Event struct {
	Location      domain.Coordinate
	Accuracy      float64
	NetworkOrigin string
}

// Ledger is the append-only list of attendance records.
type Ledger struct {
	mu       sync.RWMutex
	records  []domain.AttendanceRecord
	gate     Admitter
	sessions SessionSource
	auditor  domain.Auditor

	keepRejected bool
	now          func() time.Time
	newID        func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithRejectedRecords makes CheckIn append a FAILED record for each
// rejected attempt in addition to the audit entry.
func WithRejectedRecords() Option {
	return func(l *Ledger) { l.keepRejected = true }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates an empty ledger. Check-ins are admitted by g and
// attributed to the principal sessions reports at call time.
func NewLedger(g Admitter, sessions SessionSource, auditor domain.Auditor, opts ...Option) *Ledger {
	l := &Ledger{
		gate:     g,
		sessions: sessions,
		auditor:  auditor,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// CheckIn admits ev through the gate and appends a SUCCESS record. A
// rejection returns a *gate.RejectionError and writes a MEDIUM audit entry.
func (l *Ledger) CheckIn(ev Event) (*domain.AttendanceRecord, error) {
	p := l.sessions.Current()
	if p == nil {
		return nil, fmt.Errorf("attendance.CheckIn: %w", domain.ErrNotAuthenticated)
	}
	actor := domain.ActorOf(p)

	decision, err := l.gate.Check(ev.NetworkOrigin, ev.Location)
	if err != nil {
		l.auditor.Record(actor, domain.ActionAttendanceDenied, denialDetail(decision, ev), domain.SeverityMedium)
		log.Info().
			Str("principal", p.ID).
			Str("origin", ev.NetworkOrigin).
			Str("reason", string(decision.Reason)).
			Msg("attendance: check-in rejected")

		if l.keepRejected {
			l.append(p.ID, domain.DirectionCheckIn, ev, domain.OutcomeFailed, string(decision.Reason))
		}
		return nil, fmt.Errorf("attendance.CheckIn: %w", err)
	}

	rec := l.append(p.ID, domain.DirectionCheckIn, ev, domain.OutcomeSuccess, "")
	l.auditor.Record(actor, domain.ActionAttendanceSuccess, "User verified and checked in. Live tracking active.", domain.SeverityLow)

	return &rec, nil
}

// CheckOut appends a SUCCESS record without consulting the gate. Exit is
// deliberately unchecked; only entry is admission-controlled.
func (l *Ledger) CheckOut(ev Event) (*domain.AttendanceRecord, error) {
	p := l.sessions.Current()
	if p == nil {
		return nil, fmt.Errorf("attendance.CheckOut: %w", domain.ErrNotAuthenticated)
	}

	rec := l.append(p.ID, domain.DirectionCheckOut, ev, domain.OutcomeSuccess, "")
	l.auditor.Record(domain.ActorOf(p), domain.ActionAttendanceSuccess, "User checked out", domain.SeverityLow)

	return &rec, nil
}

// Records returns a snapshot of every record in append order.
func (l *Ledger) Records() []domain.AttendanceRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.AttendanceRecord, len(l.records))
	copy(out, l.records)
	return out
}

// RecordsFor returns the records owned by principalID in append order.
func (l *Ledger) RecordsFor(principalID string) []domain.AttendanceRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.AttendanceRecord
	for _, r := range l.records {
		if r.PrincipalID == principalID {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.records)
}

func (l *Ledger) append(principalID string, dir domain.Direction, ev Event, outcome domain.Outcome, reason string) domain.AttendanceRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := domain.AttendanceRecord{
		ID:            l.newID(),
		PrincipalID:   principalID,
		Timestamp:     l.now(),
		Direction:     dir,
		Location:      ev.Location,
		Accuracy:      ev.Accuracy,
		NetworkOrigin: ev.NetworkOrigin,
		Outcome:       outcome,
		Reason:        reason,
	}
	l.records = append(l.records, rec)
	return rec
}

func denialDetail(d gate.Decision, ev Event) string {
	switch {
	case errors.Is(d.Err(), gate.ErrNetworkMismatch):
		return fmt.Sprintf("Check-in rejected: Outside network (%s)", ev.NetworkOrigin)
	case errors.Is(d.Err(), gate.ErrInvalidLocation):
		return "Check-in rejected: Invalid location report"
	default:
		return fmt.Sprintf("Check-in rejected: Outside geo-fence (%.0fm from office)", d.DistanceMeters)
	}
}
