// Package geo computes great-circle distances between WGS84 coordinates.
package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/gosuda/attendance/internal/domain"
)

// EarthRadiusMeters is the mean Earth radius used by Distance.
const EarthRadiusMeters = 6_371_000.0

// ErrOutOfRange is returned by Validate for coordinates outside the WGS84 domain.
var ErrOutOfRange = errors.New("geo: coordinate out of range")

// Distance returns the Haversine surface distance in meters between a and b.
// It is total: malformed inputs yield NaN rather than an error.
func Distance(a, b domain.Coordinate) float64 {
	phi1 := radians(a.Lat)
	phi2 := radians(b.Lat)
	dPhi := radians(b.Lat - a.Lat)
	dLambda := radians(b.Lng - a.Lng)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// Validate checks that c is finite with latitude in [-90, 90] and longitude
// in [-180, 180].
func Validate(c domain.Coordinate) error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return fmt.Errorf("geo.Validate: non-finite coordinate: %w", ErrOutOfRange)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("geo.Validate: latitude %.6f: %w", c.Lat, ErrOutOfRange)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("geo.Validate: longitude %.6f: %w", c.Lng, ErrOutOfRange)
	}
	return nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
