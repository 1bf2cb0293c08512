package slack

import (
	"context"
	"fmt"

	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/attendance/internal/messenger"
)

// SlackAPI abstracts the subset of the Slack client used by SlackMessenger.
// *slacklib.Client satisfies it.
type SlackAPI interface {
	PostMessage(channelID string, options ...slacklib.MsgOption) (string, string, error)
}

// SlackMessenger implements messenger.Messenger for Slack.
type SlackMessenger struct {
	api SlackAPI
}

var _ messenger.Messenger = (*SlackMessenger)(nil) //nolint:gochecknoglobals // compile-time check

// NewSlackMessenger creates a SlackMessenger with the given API client.
func NewSlackMessenger(api SlackAPI) *SlackMessenger {
	return &SlackMessenger{api: api}
}

// NewFromToken builds a messenger backed by a real Slack bot client.
func NewFromToken(token string) *SlackMessenger {
	return NewSlackMessenger(slacklib.New(token))
}

// SendMessage posts a text message to a Slack channel and returns the message timestamp as MessageID.
func (m *SlackMessenger) SendMessage(_ context.Context, channelID, text string) (messenger.MessageID, error) {
	_, ts, err := m.api.PostMessage(channelID, slacklib.MsgOptionText(text, false))
	if err != nil {
		return "", fmt.Errorf("slack.SlackMessenger.SendMessage: %w", err)
	}

	return messenger.MessageID(ts), nil
}

// SendBlocks posts fields as Block Kit sections with fallback as notification text.
func (m *SlackMessenger) SendBlocks(_ context.Context, channelID, fallback string, fields []messenger.Field) (messenger.MessageID, error) {
	_, ts, err := m.api.PostMessage(channelID,
		slacklib.MsgOptionText(fallback, false),
		slacklib.MsgOptionBlocks(BuildFieldBlocks(fallback, fields)...),
	)
	if err != nil {
		return "", fmt.Errorf("slack.SlackMessenger.SendBlocks: %w", err)
	}

	return messenger.MessageID(ts), nil
}

// Platform returns the messenger platform identifier.
func (m *SlackMessenger) Platform() string {
	return "slack"
}
