// Package payroll keeps the monthly salary slips issued from each
// principal's base compensation.
//
// Issue and MarkPaid are privileged: the caller must authorize the acting
// principal.
package payroll

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/attendance/internal/domain"
)

// Sentinel errors for the payroll package.
var (
	ErrInvalidPeriod  = fmt.Errorf("payroll: invalid pay period: %w", domain.ErrValidation)
	ErrNegativeAmount = fmt.Errorf("payroll: negative amount: %w", domain.ErrValidation)
	ErrNegativeNet    = fmt.Errorf("payroll: deductions exceed gross pay: %w", domain.ErrValidation)
	ErrPeriodIssued   = fmt.Errorf("payroll: period already issued: %w", domain.ErrConflict)
	ErrAlreadyPaid    = fmt.Errorf("payroll: slip already paid: %w", domain.ErrInvalidTransition)
)

// Directory resolves principals by id. *identity.Store satisfies this interface.
type Directory interface {
	Lookup(id string) (*domain.Principal, error)
}

// SessionSource yields the authenticated principal used as audit actor.
type SessionSource interface {
	Current() *domain.Principal
}

// IssueInput carries a new slip. The base is taken from the principal's
// compensation at issue time.
type IssueInput struct {
	PrincipalID string
	Year        int
	Month       time.Month
	Bonus       float64
	Deductions  float64
}

// Summary totals a set of slips.
type Summary struct {
	Records  int     `json:"records"`
	TotalNet float64 `json:"total_net"`
	Unpaid   int     `json:"unpaid"`
}

// Ledger owns the list of salary slips.
type Ledger struct {
	mu        sync.RWMutex
	records   []*domain.SalaryRecord
	directory Directory
	sessions  SessionSource
	auditor   domain.Auditor
	now       func() time.Time
}

// NewLedger creates an empty payroll ledger that audits through auditor.
func NewLedger(directory Directory, sessions SessionSource, auditor domain.Auditor) *Ledger {
	return &Ledger{
		directory: directory,
		sessions:  sessions,
		auditor:   auditor,
		now:       time.Now,
	}
}

// Issue creates an UNPAID slip. A principal gets at most one slip per month.
func (l *Ledger) Issue(in IssueInput) (*domain.SalaryRecord, error) {
	if in.Year < 1 || in.Month < time.January || in.Month > time.December {
		return nil, fmt.Errorf("payroll.Issue: %d-%02d: %w", in.Year, int(in.Month), ErrInvalidPeriod)
	}
	if in.Bonus < 0 || in.Deductions < 0 {
		return nil, fmt.Errorf("payroll.Issue: %w", ErrNegativeAmount)
	}

	owner, err := l.directory.Lookup(in.PrincipalID)
	if err != nil {
		return nil, fmt.Errorf("payroll.Issue: %w", err)
	}

	net := owner.BaseCompensation + in.Bonus - in.Deductions
	if net < 0 {
		return nil, fmt.Errorf("payroll.Issue: net %.2f: %w", net, ErrNegativeNet)
	}

	rec := &domain.SalaryRecord{
		ID:            uuid.NewString(),
		PrincipalID:   owner.ID,
		PrincipalName: owner.Name,
		Year:          in.Year,
		Month:         in.Month,
		Base:          owner.BaseCompensation,
		Bonus:         in.Bonus,
		Deductions:    in.Deductions,
		Net:           net,
		Status:        domain.PayStatusUnpaid,
		IssuedAt:      l.now(),
	}

	l.mu.Lock()
	dup := slices.ContainsFunc(l.records, func(r *domain.SalaryRecord) bool {
		return r.PrincipalID == owner.ID && r.Year == in.Year && r.Month == in.Month
	})
	if dup {
		l.mu.Unlock()
		return nil, fmt.Errorf("payroll.Issue: %s %s %d: %w", owner.ID, in.Month, in.Year, ErrPeriodIssued)
	}
	l.records = append(l.records, rec)
	l.mu.Unlock()

	l.auditor.Record(l.actor(), domain.ActionPayrollIssued,
		fmt.Sprintf("Payroll issued for %s (%s %d): net %.2f", owner.Name, in.Month, in.Year, net),
		domain.SeverityLow)

	out := *rec
	return &out, nil
}

// MarkPaid moves an UNPAID slip to PAID.
func (l *Ledger) MarkPaid(id string) (*domain.SalaryRecord, error) {
	l.mu.Lock()
	idx := slices.IndexFunc(l.records, func(r *domain.SalaryRecord) bool { return r.ID == id })
	if idx < 0 {
		l.mu.Unlock()
		return nil, fmt.Errorf("payroll.MarkPaid: %s: %w", id, domain.ErrNotFound)
	}

	rec := l.records[idx]
	if !rec.Status.ValidTransition(domain.PayStatusPaid) {
		l.mu.Unlock()
		return nil, fmt.Errorf("payroll.MarkPaid: %s: %w", id, ErrAlreadyPaid)
	}

	paid := l.now()
	rec.Status = domain.PayStatusPaid
	rec.PaidAt = &paid
	out := *rec
	l.mu.Unlock()

	l.auditor.Record(l.actor(), domain.ActionPayrollPaid,
		fmt.Sprintf("Payroll for %s (%s %d) marked paid", out.PrincipalName, out.Month, out.Year),
		domain.SeverityLow)

	return &out, nil
}

// Get returns a copy of the slip with the given id.
func (l *Ledger) Get(id string) (*domain.SalaryRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, r := range l.records {
		if r.ID == id {
			out := *r
			return &out, nil
		}
	}
	return nil, fmt.Errorf("payroll.Get: %s: %w", id, domain.ErrNotFound)
}

// List returns slips in issue order. A non-empty principalID limits the
// result to that owner.
func (l *Ledger) List(principalID string) []domain.SalaryRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.SalaryRecord, 0, len(l.records))
	for _, r := range l.records {
		if principalID != "" && r.PrincipalID != principalID {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// Summarize totals records.
func Summarize(records []domain.SalaryRecord) Summary {
	s := Summary{Records: len(records)}
	for _, r := range records {
		s.TotalNet += r.Net
		if r.Status == domain.PayStatusUnpaid {
			s.Unpaid++
		}
	}
	return s
}

func (l *Ledger) actor() domain.Actor {
	return domain.ActorOf(l.sessions.Current())
}
