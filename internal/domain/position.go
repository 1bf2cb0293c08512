package domain

import "time"

// PositionSample is one periodic location report from a principal's device.
type PositionSample struct {
	PrincipalID string     `json:"principal_id"`
	Location    Coordinate `json:"location"`
	Accuracy    float64    `json:"accuracy"`
	Timestamp   time.Time  `json:"timestamp"`
}
