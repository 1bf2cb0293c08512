// Package workforce is the single state container behind every public
// attendance operation. Each operation runs to completion under one lock
// before the next is accepted, so readers never observe a partial update
// across the directory, ledger, trail, leave list and position feed.
package workforce

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/attendance/internal/attendance"
	"github.com/gosuda/attendance/internal/audit"
	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/gate"
	"github.com/gosuda/attendance/internal/identity"
	"github.com/gosuda/attendance/internal/leave"
	"github.com/gosuda/attendance/internal/metrics"
	"github.com/gosuda/attendance/internal/payroll"
	"github.com/gosuda/attendance/internal/tracking"
)

// ErrNotCollecting is returned when a position sample arrives for a principal
// whose live collection has not been started by a check-in.
var ErrNotCollecting = fmt.Errorf("workforce: position collection not active: %w", domain.ErrConflict)

// LeaveNotifier announces leave workflow events. *notify.Notifier satisfies it.
type LeaveNotifier interface {
	LeaveApplied(ctx context.Context, req domain.LeaveRequest) error
	LeaveDecided(ctx context.Context, req domain.LeaveRequest) error
}

// AlertNotifier relays security alerts to an operator channel.
// *notify.Notifier satisfies it.
type AlertNotifier interface {
	AttendanceDenied(ctx context.Context, entry domain.AuditEntry) error
}

// PositionPublisher fans accepted samples out to live subscribers.
// *ws.Hub satisfies it.
type PositionPublisher interface {
	PublishPosition(ctx context.Context, s domain.PositionSample) error
}

// Config sizes and parameterizes the components.
type Config struct {
	Gate              gate.Config
	Identity          identity.Config
	AuditRetention    int
	PositionRetention int
	RecordRejections  bool
}

// Service owns every component. Mutations take the write lock; reads take
// the read lock.
type Service struct {
	mu sync.RWMutex

	gate     *gate.Gate
	trail    *audit.Trail
	auditor  domain.Auditor
	identity *identity.Store
	ledger   *attendance.Ledger
	leaves   *leave.Workflow
	payroll  *payroll.Ledger
	feed     *tracking.Feed

	notifier  LeaveNotifier
	alerter   AlertNotifier
	publisher PositionPublisher
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier announces leave events after they commit.
func WithNotifier(n LeaveNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithAlerter relays rejected check-ins after they commit.
func WithAlerter(a AlertNotifier) Option {
	return func(s *Service) { s.alerter = a }
}

// WithPublisher forwards accepted position samples after they commit.
func WithPublisher(p PositionPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// New wires the components. Audit entries pass through the metrics counter
// on their way into the trail.
func New(cfg Config, opts ...Option) *Service {
	trail := audit.NewTrail(cfg.AuditRetention)
	auditor := metrics.NewAuditor(trail)

	g := gate.New(cfg.Gate)
	store := identity.NewStore(cfg.Identity, auditor)

	var ledgerOpts []attendance.Option
	if cfg.RecordRejections {
		ledgerOpts = append(ledgerOpts, attendance.WithRejectedRecords())
	}

	s := &Service{
		gate:     g,
		trail:    trail,
		auditor:  auditor,
		identity: store,
		ledger:   attendance.NewLedger(g, store, auditor, ledgerOpts...),
		leaves:   leave.NewWorkflow(store, store, auditor),
		payroll:  payroll.NewLedger(store, store, auditor),
		feed:     tracking.NewFeed(cfg.PositionRetention),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Provision seeds a principal outside self-registration (bootstrap admin).
func (s *Service) Provision(_ context.Context, p domain.Principal, secret string) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.identity.Provision(p, secret)
	if err != nil {
		return nil, fmt.Errorf("workforce.Provision: %w", err)
	}
	return out, nil
}

// Login opens the process session.
func (s *Service) Login(_ context.Context, identifier, secret string, role domain.Role) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.identity.Login(identifier, secret, role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("workforce.Login: %w", err)
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	log.Info().Str("principal", session.Principal.ID).Str("role", string(session.Principal.Role)).Msg("workforce: login")
	return session, nil
}

// Register creates an EMPLOYEE principal. The session is untouched.
func (s *Service) Register(_ context.Context, in identity.RegisterInput) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.identity.Register(in)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("workforce.Register: %w", err)
	}
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return p, nil
}

// Logout closes the session and stops position collection for the principal
// that held it. It returns that principal, or nil.
func (s *Service) Logout(_ context.Context) *domain.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.identity.Logout()
	if p != nil {
		s.stopCollection(p, "logout")
	}
	return p
}

// CheckIn runs the access gate for the holder of sessionID. An admitted
// check-in starts live position collection for the principal. Rejections are
// returned as errors wrapping *gate.RejectionError and relayed to the
// alerter, if any. A sessionID that is no longer the active session fails
// with domain.ErrNotAuthenticated before anything is recorded.
func (s *Service) CheckIn(ctx context.Context, sessionID string, ev attendance.Event) (*domain.AttendanceRecord, error) {
	s.mu.Lock()
	if !s.identity.SessionActive(sessionID) {
		s.mu.Unlock()
		return nil, fmt.Errorf("workforce.CheckIn: %w", domain.ErrNotAuthenticated)
	}

	rec, err := s.ledger.CheckIn(ev)
	if err != nil {
		var (
			rej    *gate.RejectionError
			denial domain.AuditEntry
		)
		rejected := errors.As(err, &rej)
		if rejected {
			metrics.AdmissionDecisionsTotal.WithLabelValues("rejected", string(rej.Decision.Reason)).Inc()
			denial = s.trail.Query()[0]
		}
		s.mu.Unlock()

		if rejected && s.alerter != nil {
			if aerr := s.alerter.AttendanceDenied(ctx, denial); aerr != nil {
				log.Warn().Err(aerr).Str("entry", denial.ID).Msg("workforce: denial alert failed")
			}
		}
		return nil, fmt.Errorf("workforce.CheckIn: %w", err)
	}
	metrics.AdmissionDecisionsTotal.WithLabelValues("admitted", "none").Inc()

	s.feed.Start(rec.PrincipalID)
	s.syncCollectors()
	s.mu.Unlock()
	return rec, nil
}

// CheckOut records a check-out for the holder of sessionID and stops
// position collection.
func (s *Service) CheckOut(_ context.Context, sessionID string, ev attendance.Event) (*domain.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.identity.SessionActive(sessionID) {
		return nil, fmt.Errorf("workforce.CheckOut: %w", domain.ErrNotAuthenticated)
	}

	rec, err := s.ledger.CheckOut(ev)
	if err != nil {
		return nil, fmt.Errorf("workforce.CheckOut: %w", err)
	}
	metrics.CheckOutsTotal.Inc()

	if p := s.identity.Current(); p != nil {
		s.stopCollection(p, "check-out")
	}
	return rec, nil
}

// ApplyLeave files a PENDING request.
func (s *Service) ApplyLeave(ctx context.Context, in leave.ApplyInput) (*domain.LeaveRequest, error) {
	s.mu.Lock()
	req, err := s.leaves.Apply(in)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("workforce.ApplyLeave: %w", err)
	}
	metrics.LeaveTransitionsTotal.WithLabelValues(string(req.Status)).Inc()

	if s.notifier != nil {
		if nerr := s.notifier.LeaveApplied(ctx, *req); nerr != nil {
			log.Warn().Err(nerr).Str("leave_id", req.ID).Msg("workforce: leave notification failed")
		}
	}
	return req, nil
}

// UpdateLeaveStatus decides a PENDING request. Privileged: the caller must
// authorize the acting principal.
func (s *Service) UpdateLeaveStatus(ctx context.Context, id string, status domain.LeaveStatus) (*domain.LeaveRequest, error) {
	s.mu.Lock()
	req, err := s.leaves.SetStatus(id, status)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("workforce.UpdateLeaveStatus: %w", err)
	}
	metrics.LeaveTransitionsTotal.WithLabelValues(string(req.Status)).Inc()

	if s.notifier != nil {
		if nerr := s.notifier.LeaveDecided(ctx, *req); nerr != nil {
			log.Warn().Err(nerr).Str("leave_id", req.ID).Msg("workforce: leave notification failed")
		}
	}
	return req, nil
}

// UpdateUser applies an administrative override. Privileged: the caller must
// authorize the acting principal.
func (s *Service) UpdateUser(_ context.Context, id string, patch domain.PrincipalPatch) (*domain.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.identity.UpdateUser(id, patch)
	if err != nil {
		return nil, fmt.Errorf("workforce.UpdateUser: %w", err)
	}
	return p, nil
}

// RecordPosition accepts a sample from a principal with active collection
// and forwards it to the publisher, if any.
func (s *Service) RecordPosition(ctx context.Context, sample domain.PositionSample) error {
	s.mu.Lock()
	if !s.feed.Collecting(sample.PrincipalID) {
		s.mu.Unlock()
		return fmt.Errorf("workforce.RecordPosition: %s: %w", sample.PrincipalID, ErrNotCollecting)
	}
	err := s.feed.Record(sample)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("workforce.RecordPosition: %w", err)
	}
	metrics.PositionSamplesTotal.Inc()

	if s.publisher != nil {
		if perr := s.publisher.PublishPosition(ctx, sample); perr != nil {
			log.Warn().Err(perr).Str("principal", sample.PrincipalID).Msg("workforce: position publish failed")
		}
	}
	return nil
}

// IssuePayroll creates an UNPAID slip. Privileged: the caller must
// authorize the acting principal.
func (s *Service) IssuePayroll(_ context.Context, in payroll.IssueInput) (*domain.SalaryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.payroll.Issue(in)
	if err != nil {
		return nil, fmt.Errorf("workforce.IssuePayroll: %w", err)
	}
	return rec, nil
}

// MarkPayrollPaid settles an UNPAID slip. Privileged: the caller must
// authorize the acting principal.
func (s *Service) MarkPayrollPaid(_ context.Context, id string) (*domain.SalaryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.payroll.MarkPaid(id)
	if err != nil {
		return nil, fmt.Errorf("workforce.MarkPayrollPaid: %w", err)
	}
	return rec, nil
}

// stopCollection ends live collection for p and audits the transition.
// It must be called with s.mu held.
func (s *Service) stopCollection(p *domain.Principal, cause string) {
	if !s.feed.Stop(p.ID) {
		return
	}
	s.syncCollectors()
	s.auditor.Record(domain.ActorOf(p), domain.ActionTrackingStopped,
		fmt.Sprintf("Live tracking stopped on %s", cause), domain.SeverityLow)
}

// syncCollectors must be called with s.mu held.
func (s *Service) syncCollectors() {
	metrics.ActiveCollectors.Set(float64(len(s.feed.Collectors())))
}
