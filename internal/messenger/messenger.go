package messenger

import "context"

// MessageID uniquely identifies a message within a messenger platform.
type MessageID string

// Messenger abstracts posting to a chat platform channel.
type Messenger interface {
	// SendMessage posts a plain text message to a channel and returns its platform message ID.
	SendMessage(ctx context.Context, channelID, text string) (MessageID, error)

	// SendBlocks posts a formatted message. fallback is shown where rich
	// formatting is unavailable.
	SendBlocks(ctx context.Context, channelID, fallback string, fields []Field) (MessageID, error)

	// Platform returns the messenger platform identifier (e.g. "slack").
	Platform() string
}

// Field is one labelled line of a formatted message.
type Field struct {
	Label string
	Value string
}
