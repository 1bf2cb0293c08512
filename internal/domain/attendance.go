package domain

import "time"

type Direction string

const (
	DirectionCheckIn  Direction = "CHECK_IN"
	DirectionCheckOut Direction = "CHECK_OUT"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailed  Outcome = "FAILED"
)

// AttendanceRecord is an immutable check-in or check-out event.
type AttendanceRecord struct {
	ID            string     `json:"id"`
	PrincipalID   string     `json:"principal_id"`
	Timestamp     time.Time  `json:"timestamp"`
	Direction     Direction  `json:"direction"`
	Location      Coordinate `json:"location"`
	Accuracy      float64    `json:"accuracy"`
	NetworkOrigin string     `json:"network_origin"`
	Outcome       Outcome    `json:"outcome"`
	Reason        string     `json:"reason,omitempty"`
}
