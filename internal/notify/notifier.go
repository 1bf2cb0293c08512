// Package notify announces leave workflow events and denied admissions to
// HR chat channels.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/messenger"
)

// ErrPlatformNotFound is returned when a messenger platform is not registered.
var ErrPlatformNotFound = errors.New("notify: platform not found") //nolint:gochecknoglobals // sentinel error

// MessengerRegistry maps platform names to Messenger implementations.
type MessengerRegistry interface {
	Get(platform string) (messenger.Messenger, bool)
}

// Target is a channel on a specific platform.
type Target struct {
	Platform  string
	ChannelID string
}

// Notifier posts leave events to every configured target. Denied admissions
// go to the alert targets, or to the regular targets when none are set.
type Notifier struct {
	messengers MessengerRegistry
	targets    []Target
	alerts     []Target
}

// New creates a Notifier. With no targets, events are only logged.
func New(messengers MessengerRegistry, targets ...Target) *Notifier {
	return &Notifier{
		messengers: messengers,
		targets:    targets,
	}
}

// WithAlerts sets the channels that receive denied-admission alerts.
func (n *Notifier) WithAlerts(targets ...Target) *Notifier {
	n.alerts = targets
	return n
}

// AttendanceDenied posts a plain-text alert for a rejected check-in.
func (n *Notifier) AttendanceDenied(ctx context.Context, entry domain.AuditEntry) error {
	targets := n.alerts
	if len(targets) == 0 {
		targets = n.targets
	}
	if len(targets) == 0 {
		log.Info().Str("actor", entry.ActorID).Msg("notify: no alert targets configured")
		return nil
	}

	text := fmt.Sprintf("[%s] %s (%s): %s", entry.Severity, entry.ActorName, entry.ActorID, entry.Detail)

	var errs []error
	for _, t := range targets {
		if err := n.NotifyVia(ctx, t.Platform, t.ChannelID, text); err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", t.Platform, t.ChannelID, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("notify.Notifier.AttendanceDenied: %w", err)
	}
	return nil
}

// LeaveApplied announces a new PENDING request.
func (n *Notifier) LeaveApplied(ctx context.Context, req domain.LeaveRequest) error {
	headline := fmt.Sprintf("Leave requested by %s", req.PrincipalName)
	return n.broadcast(ctx, headline, leaveFields(req))
}

// LeaveDecided announces an approval or rejection.
func (n *Notifier) LeaveDecided(ctx context.Context, req domain.LeaveRequest) error {
	headline := fmt.Sprintf("Leave %s for %s", strings.ToLower(string(req.Status)), req.PrincipalName)
	return n.broadcast(ctx, headline, leaveFields(req))
}

// NotifyVia posts plain text to a single channel on a specific platform.
func (n *Notifier) NotifyVia(ctx context.Context, platform, channelID, text string) error {
	msg, ok := n.messengers.Get(platform)
	if !ok {
		return fmt.Errorf("notify.Notifier.NotifyVia: platform %q: %w", platform, ErrPlatformNotFound)
	}

	if _, err := msg.SendMessage(ctx, channelID, text); err != nil {
		return fmt.Errorf("notify.Notifier.NotifyVia: send: %w", err)
	}

	return nil
}

func (n *Notifier) broadcast(ctx context.Context, headline string, fields []messenger.Field) error {
	if len(n.targets) == 0 {
		log.Info().Str("event", headline).Msg("notify: no targets configured")
		return nil
	}

	var errs []error
	for _, t := range n.targets {
		msg, ok := n.messengers.Get(t.Platform)
		if !ok {
			errs = append(errs, fmt.Errorf("platform %q: %w", t.Platform, ErrPlatformNotFound))
			continue
		}
		if _, err := msg.SendBlocks(ctx, t.ChannelID, headline, fields); err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", t.Platform, t.ChannelID, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("notify.Notifier.broadcast: %w", err)
	}
	return nil
}

func leaveFields(req domain.LeaveRequest) []messenger.Field {
	fields := []messenger.Field{
		{Label: "Employee", Value: fmt.Sprintf("%s (%s)", req.PrincipalName, req.PrincipalID)},
		{Label: "Category", Value: req.Category},
		{Label: "Period", Value: req.Period.Start.Format(time.DateOnly) + " to " + req.Period.End.Format(time.DateOnly)},
		{Label: "Status", Value: string(req.Status)},
	}
	if req.Justification != "" {
		fields = append(fields, messenger.Field{Label: "Reason", Value: req.Justification})
	}
	return fields
}
