package metrics

import "github.com/gosuda/attendance/internal/domain"

// Auditor counts every entry passing through to the wrapped auditor.
type Auditor struct {
	next domain.Auditor
}

var _ domain.Auditor = (*Auditor)(nil) //nolint:gochecknoglobals // compile-time check

// NewAuditor wraps next so that every recorded entry increments
// AuditEntriesTotal.
func NewAuditor(next domain.Auditor) *Auditor {
	return &Auditor{next: next}
}

// Record forwards to the wrapped auditor and counts the entry.
func (a *Auditor) Record(actor domain.Actor, action, detail string, severity domain.Severity) domain.AuditEntry {
	entry := a.next.Record(actor, action, detail, severity)
	AuditEntriesTotal.WithLabelValues(action, string(severity)).Inc()
	return entry
}
