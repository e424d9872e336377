package geo

import (
	"errors"
	"fmt"
)

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// NewCoordinate builds a Coordinate from nullable latitude/longitude
// columns. Missing values are a data integrity error, not zero.
func NewCoordinate(lat, lng *float64) (Coordinate, error) {
	if lat == nil || lng == nil {
		return Coordinate{}, fmt.Errorf("%w: latitude or longitude is missing", ErrInvalidCoordinate)
	}
	if *lat < -90 || *lat > 90 {
		return Coordinate{}, fmt.Errorf("%w: latitude %f out of range", ErrInvalidCoordinate, *lat)
	}
	if *lng < -180 || *lng > 180 {
		return Coordinate{}, fmt.Errorf("%w: longitude %f out of range", ErrInvalidCoordinate, *lng)
	}
	return Coordinate{Lat: *lat, Lng: *lng}, nil
}
