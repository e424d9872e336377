package service

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/minsu-dev/eduops/internal/geo"
	"github.com/minsu-dev/eduops/internal/model"
)

const homeStopName = "자택"

// buildRoute assembles the day's stop list: home first, institutions
// in schedule order, home again to close the round trip. Institutions
// without coordinates are skipped with a warning, so the route may
// hold fewer stops than schedule entries. The closing home stop is
// appended only when at least one institution stop made it in.
func (s *TravelService) buildRoute(
	ctx context.Context,
	instructor *model.Instructor,
	home geo.Coordinate,
	entries []model.TrainingPeriod,
) ([]model.TravelWaypoint, error) {
	// Stable sort: entries sharing a start time keep their input order.
	sorted := make([]model.TrainingPeriod, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartAt.Before(sorted[j].StartAt)
	})

	stops := []model.TravelWaypoint{homeWaypoint(instructor, home)}

	for _, entry := range sorted {
		institution, err := s.institutions.GetByID(ctx, entry.InstitutionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.log.Warn().
					Str("institution_id", entry.InstitutionID.String()).
					Msg("schedule entry references unknown institution, skipping stop")
				continue
			}
			return nil, err
		}

		coord, err := geo.NewCoordinate(institution.Latitude, institution.Longitude)
		if err != nil {
			s.log.Warn().
				Str("institution_id", institution.ID.String()).
				Str("institution", institution.Name).
				Msg("institution has no coordinates, skipping stop")
			continue
		}

		institutionID := entry.InstitutionID
		trainingID := entry.TrainingID
		stops = append(stops, model.TravelWaypoint{
			Name:          institution.Name,
			Address:       institution.Address,
			Latitude:      coord.Lat,
			Longitude:     coord.Lng,
			InstitutionID: &institutionID,
			TrainingID:    &trainingID,
		})
	}

	if len(stops) > 1 {
		stops = append(stops, homeWaypoint(instructor, home))
	}

	for i := range stops {
		stops[i].Seq = i
	}
	return stops, nil
}

func homeWaypoint(instructor *model.Instructor, home geo.Coordinate) model.TravelWaypoint {
	return model.TravelWaypoint{
		Name:      homeStopName,
		Address:   instructor.HomeAddress,
		Latitude:  home.Lat,
		Longitude: home.Lng,
		IsHome:    true,
	}
}

func waypointCoordinates(stops []model.TravelWaypoint) []geo.Coordinate {
	coords := make([]geo.Coordinate, len(stops))
	for i, stop := range stops {
		coords[i] = geo.Coordinate{Lat: stop.Latitude, Lng: stop.Longitude}
	}
	return coords
}
