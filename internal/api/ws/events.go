package ws

import "github.com/gosuda/attendance/internal/domain"

// Event types sent over the position stream.
const (
	EventSnapshot = "snapshot"
	EventPosition = "position"
)

// PositionEvent is one frame on the position stream. A snapshot frame carries
// the current position of every principal and is sent once on connect.
type PositionEvent struct {
	Type      string                  `json:"type"`
	Sample    *domain.PositionSample  `json:"sample,omitempty"`
	Positions []domain.PositionSample `json:"positions,omitempty"`
}
