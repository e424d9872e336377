package service

import (
	"time"

	"github.com/minsu-dev/eduops/internal/model"
)

// matchPolicy resolves the fee band for a distance on a date. When
// bands overlap the one with the greatest lower bound wins, so the
// most specific band takes precedence. A miss is a configuration gap
// surfaced as ErrPolicyNotFound; there is no fallback fee.
func matchPolicy(policies []model.TravelPolicy, distanceKm float64, date time.Time) (*model.TravelPolicy, error) {
	var best *model.TravelPolicy
	for i := range policies {
		p := &policies[i]
		if !p.Matches(distanceKm, date) {
			continue
		}
		if best == nil || p.MinKm > best.MinKm {
			best = p
		}
	}
	if best == nil {
		return nil, ErrPolicyNotFound
	}
	return best, nil
}
