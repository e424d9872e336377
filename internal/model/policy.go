package model

import (
	"time"

	"github.com/google/uuid"
)

// TravelPolicy maps a [MinKm, MaxKm) distance band to a flat daily
// fee. A nil MaxKm means the band is unbounded above. ValidFrom and
// ValidTo scope the policy to a date range when set.
type TravelPolicy struct {
	ID        uuid.UUID
	MinKm     float64
	MaxKm     *float64
	AmountKrw int64
	IsActive  bool
	ValidFrom *time.Time
	ValidTo   *time.Time
	CreatedAt time.Time
}

// Matches reports whether the policy covers the given distance on the
// given date.
func (p TravelPolicy) Matches(distanceKm float64, date time.Time) bool {
	if !p.IsActive {
		return false
	}
	if distanceKm < p.MinKm {
		return false
	}
	if p.MaxKm != nil && distanceKm >= *p.MaxKm {
		return false
	}
	if p.ValidFrom != nil && date.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidTo != nil && date.After(*p.ValidTo) {
		return false
	}
	return true
}
