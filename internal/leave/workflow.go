// Package leave implements the request/approve/reject workflow for time-off.
//
// SetStatus is privileged: only administrators may decide a request, and the
// caller is responsible for checking that.
package leave

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gosuda/attendance/internal/domain"
)

// Sentinel errors for the leave package.
var (
	ErrInvalidDateRange = fmt.Errorf("leave: start date after end date: %w", domain.ErrValidation)
	ErrUnknownCategory  = fmt.Errorf("leave: unknown category: %w", domain.ErrValidation)
)

// Directory resolves principals by id. *identity.Store satisfies this interface.
type Directory interface {
	Lookup(id string) (*domain.Principal, error)
}

// SessionSource yields the authenticated principal used as audit actor.
type SessionSource interface {
	Current() *domain.Principal
}

// ApplyInput carries a new leave request.
type ApplyInput struct {
	PrincipalID   string
	Period        domain.DateRange
	Category      string
	Justification string
}

// Workflow owns the list of leave requests.
type Workflow struct {
	mu        sync.RWMutex
	requests  []*domain.LeaveRequest
	directory Directory
	sessions  SessionSource
	auditor   domain.Auditor
	now       func() time.Time
}

// NewWorkflow creates an empty workflow. Owners are resolved through
// directory and audit entries are attributed to the session principal.
func NewWorkflow(directory Directory, sessions SessionSource, auditor domain.Auditor) *Workflow {
	return &Workflow{
		directory: directory,
		sessions:  sessions,
		auditor:   auditor,
		now:       time.Now,
	}
}

// Apply creates a PENDING request for in.PrincipalID.
func (w *Workflow) Apply(in ApplyInput) (*domain.LeaveRequest, error) {
	if !in.Period.Ordered() {
		return nil, fmt.Errorf("leave.Apply: %s..%s: %w",
			in.Period.Start.Format(time.DateOnly), in.Period.End.Format(time.DateOnly), ErrInvalidDateRange)
	}
	if !domain.ValidLeaveCategory(in.Category) {
		return nil, fmt.Errorf("leave.Apply: %q: %w", in.Category, ErrUnknownCategory)
	}

	owner, err := w.directory.Lookup(in.PrincipalID)
	if err != nil {
		return nil, fmt.Errorf("leave.Apply: %w", err)
	}

	req := &domain.LeaveRequest{
		ID:            uuid.NewString(),
		PrincipalID:   owner.ID,
		PrincipalName: owner.Name,
		Period:        in.Period,
		Category:      in.Category,
		Justification: strings.TrimSpace(in.Justification),
		Status:        domain.LeaveStatusPending,
		CreatedAt:     w.now(),
	}

	w.mu.Lock()
	w.requests = append(w.requests, req)
	w.mu.Unlock()

	w.auditor.Record(w.actor(), domain.ActionLeaveApplied,
		fmt.Sprintf("%s leave requested for %s (%s to %s)", req.Category, owner.Name,
			req.Period.Start.Format(time.DateOnly), req.Period.End.Format(time.DateOnly)),
		domain.SeverityLow)

	out := *req
	return &out, nil
}

// SetStatus moves a PENDING request to APPROVED or REJECTED. Any other
// transition fails with domain.ErrInvalidTransition and leaves the request
// unchanged.
func (w *Workflow) SetStatus(id string, to domain.LeaveStatus) (*domain.LeaveRequest, error) {
	w.mu.Lock()
	idx := slices.IndexFunc(w.requests, func(r *domain.LeaveRequest) bool { return r.ID == id })
	if idx < 0 {
		w.mu.Unlock()
		return nil, fmt.Errorf("leave.SetStatus: %s: %w", id, domain.ErrNotFound)
	}

	req := w.requests[idx]
	if !req.Status.ValidTransition(to) {
		from := req.Status
		w.mu.Unlock()
		return nil, fmt.Errorf("leave.SetStatus: %s -> %s: %w", from, to, domain.ErrInvalidTransition)
	}

	decided := w.now()
	req.Status = to
	req.DecidedAt = &decided
	out := *req
	w.mu.Unlock()

	action := domain.ActionLeaveApproved
	if to == domain.LeaveStatusRejected {
		action = domain.ActionLeaveRejected
	}
	w.auditor.Record(w.actor(), action,
		fmt.Sprintf("%s leave for %s %s", out.Category, out.PrincipalName, strings.ToLower(string(to))),
		domain.SeverityLow)

	return &out, nil
}

// Get returns a copy of the request with the given id.
func (w *Workflow) Get(id string) (*domain.LeaveRequest, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, r := range w.requests {
		if r.ID == id {
			out := *r
			return &out, nil
		}
	}
	return nil, fmt.Errorf("leave.Get: %s: %w", id, domain.ErrNotFound)
}

// List returns requests in creation order. A non-empty principalID limits the
// result to that owner.
func (w *Workflow) List(principalID string) []domain.LeaveRequest {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]domain.LeaveRequest, 0, len(w.requests))
	for _, r := range w.requests {
		if principalID != "" && r.PrincipalID != principalID {
			continue
		}
		out = append(out, *r)
	}
	return out
}

func (w *Workflow) actor() domain.Actor {
	return domain.ActorOf(w.sessions.Current())
}
