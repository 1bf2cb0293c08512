// Package gate decides whether a claimed attendance event is admissible by
// combining a network-origin check with a geofence check.
package gate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosuda/attendance/internal/domain"
	"github.com/gosuda/attendance/internal/geo"
)

// DefaultRadiusMeters is the geofence radius used when none is configured.
const DefaultRadiusMeters = 100.0

// Reason names the check that rejected an event.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNetworkMismatch Reason = "NETWORK_MISMATCH"
	ReasonInvalidLocation Reason = "INVALID_LOCATION"
	ReasonOutsideGeofence Reason = "OUTSIDE_GEOFENCE"
)

// Sentinel errors, one per Reason.
var (
	ErrNetworkMismatch = errors.New("gate: network origin outside office subnet")
	ErrInvalidLocation = errors.New("gate: reported location is not a valid coordinate")
	ErrOutsideGeofence = errors.New("gate: reported location outside geofence")
)

// Config describes the office the gate admits events for.
type Config struct {
	NetworkPrefix string
	Office        domain.Coordinate
	RadiusMeters  float64
}

// Decision is the outcome of evaluating one claimed event.
type Decision struct {
	Admitted       bool    `json:"admitted"`
	Reason         Reason  `json:"reason,omitempty"`
	DistanceMeters float64 `json:"distance_meters"`
}

// Err returns the sentinel matching the decision's reason, or nil when the
// event was admitted.
func (d Decision) Err() error {
	switch d.Reason {
	case ReasonNetworkMismatch:
		return ErrNetworkMismatch
	case ReasonInvalidLocation:
		return ErrInvalidLocation
	case ReasonOutsideGeofence:
		return ErrOutsideGeofence
	default:
		return nil
	}
}

// RejectionError wraps a non-admitted decision so callers can recover it
// with errors.As while still matching the reason sentinel with errors.Is.
type RejectionError struct {
	Decision Decision
	Origin   string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s (origin %q, distance %.1fm)", e.Decision.Err(), e.Origin, e.Decision.DistanceMeters)
}

func (e *RejectionError) Unwrap() error {
	return e.Decision.Err()
}

// Gate evaluates admission. It holds no state beyond its configuration.
type Gate struct {
	cfg Config
}

// New creates a Gate. A non-positive radius falls back to DefaultRadiusMeters.
func New(cfg Config) *Gate {
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = DefaultRadiusMeters
	}
	return &Gate{cfg: cfg}
}

// Config returns the gate's effective configuration.
func (g *Gate) Config() Config {
	return g.cfg
}

// OnOfficeNetwork reports whether origin starts with the configured prefix.
// The comparison is a plain string prefix, not CIDR-aware.
func (g *Gate) OnOfficeNetwork(origin string) bool {
	return strings.HasPrefix(origin, g.cfg.NetworkPrefix)
}

// WithinGeofence returns the distance from the office and whether it is
// inside the configured radius.
func (g *Gate) WithinGeofence(at domain.Coordinate) (float64, bool) {
	d := geo.Distance(at, g.cfg.Office)
	return d, d <= g.cfg.RadiusMeters
}

// Evaluate runs the network check, then the location checks. Both must pass.
// Accuracy is carried by callers for the record and does not widen the fence.
func (g *Gate) Evaluate(origin string, at domain.Coordinate) Decision {
	if !g.OnOfficeNetwork(origin) {
		return Decision{Reason: ReasonNetworkMismatch}
	}

	if err := geo.Validate(at); err != nil {
		return Decision{Reason: ReasonInvalidLocation}
	}

	d, ok := g.WithinGeofence(at)
	if !ok {
		return Decision{Reason: ReasonOutsideGeofence, DistanceMeters: d}
	}

	return Decision{Admitted: true, DistanceMeters: d}
}

// Check is Evaluate returning a *RejectionError for non-admitted events.
func (g *Gate) Check(origin string, at domain.Coordinate) (Decision, error) {
	d := g.Evaluate(origin, at)
	if !d.Admitted {
		return d, &RejectionError{Decision: d, Origin: origin}
	}
	return d, nil
}
