// Package audit keeps the append-only, retention-bounded trail of
// security-relevant events.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/ring"
)

// DefaultRetention is the number of entries kept when none is configured.
const DefaultRetention = 1000

// Trail is an in-memory audit log. Entries are never mutated once recorded;
// the oldest entry is dropped when the retention bound is exceeded.
type Trail struct {
	mu      sync.Mutex
	entries *ring.Buffer[domain.AuditEntry]
	now     func() time.Time
	newID   func() string
}

// Option configures a Trail.
type Option func(*Trail)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(t *Trail) { t.now = now }
}

// WithIDGenerator overrides the entry id source.
func WithIDGenerator(newID func() string) Option {
	return func(t *Trail) { t.newID = newID }
}

// NewTrail creates a trail retaining at most retention entries. A
// non-positive retention falls back to DefaultRetention.
func NewTrail(retention int, opts ...Option) *Trail {
	if retention <= 0 {
		retention = DefaultRetention
	}
	t := &Trail{
		entries: ring.New[domain.AuditEntry](retention),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Record appends a new entry and returns it. It never fails.
func (t *Trail) Record(actor domain.Actor, action, detail string, severity domain.Severity) domain.AuditEntry {
	if actor.ID == "" {
		actor = domain.SystemActor
	}

	t.mu.Lock()
	entry := domain.AuditEntry{
		ID:        t.newID(),
		Timestamp: t.now(),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Action:    action,
		Detail:    detail,
		Severity:  severity,
	}
	t.entries.Push(entry)
	t.mu.Unlock()

	log.Debug().
		Str("audit_id", entry.ID).
		Str("actor", entry.ActorID).
		Str("action", action).
		Str("severity", string(severity)).
		Msg("audit: recorded")

	return entry
}

// Query returns the retained entries, newest first.
func (t *Trail) Query() []domain.AuditEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.entries.Newest()
}

// Len returns the number of retained entries.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.entries.Len()
}

// Retention returns the configured bound.
func (t *Trail) Retention() int {
	return t.entries.Cap()
}
