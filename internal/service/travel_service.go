package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/minsu-dev/eduops/internal/geo"
	"github.com/minsu-dev/eduops/internal/model"
)

// TravelService computes and serves daily travel allowances. A
// recompute builds the day's round trip, prices it against the policy
// bands and overwrites the (instructor, date) record wholesale.
type TravelService struct {
	instructors  InstructorLookup
	institutions InstitutionLookup
	schedules    ScheduleLookup
	policies     PolicyStore
	records      RecordStore
	snapshots    SnapshotGenerator
	log          zerolog.Logger
	recalcLocks  *keyedMutex
}

func NewTravelService(
	instructors InstructorLookup,
	institutions InstitutionLookup,
	schedules ScheduleLookup,
	policies PolicyStore,
	records RecordStore,
	snapshots SnapshotGenerator,
	log zerolog.Logger,
) *TravelService {
	return &TravelService{
		instructors:  instructors,
		institutions: institutions,
		schedules:    schedules,
		policies:     policies,
		records:      records,
		snapshots:    snapshots,
		log:          log,
		recalcLocks:  newKeyedMutex(),
	}
}

// Recalculate recomputes the travel allowance of one instructor for
// one date. The operation is idempotent by replacement: unchanged
// upstream data yields the same persisted record. A failed policy
// match aborts before any write, so the prior record survives.
// Snapshot failures are never fatal; the record stays DRAFT.
func (s *TravelService) Recalculate(ctx context.Context, instructorID uuid.UUID, date time.Time) (*model.DailyTravelRecord, error) {
	date = dateOnly(date)
	key := recalcKey(instructorID, date)
	s.recalcLocks.Lock(key)
	defer s.recalcLocks.Unlock(key)

	instructor, err := s.instructors.GetByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: instructor %s", ErrNotFound, instructorID)
		}
		return nil, err
	}

	if instructor.HomeAddress == nil || *instructor.HomeAddress == "" {
		return nil, fmt.Errorf("%w: instructor has no home address", ErrPreconditionFailed)
	}
	home, err := geo.NewCoordinate(instructor.HomeLatitude, instructor.HomeLongitude)
	if err != nil {
		return nil, fmt.Errorf("%w: instructor has no home coordinates", ErrPreconditionFailed)
	}

	entries, err := s.schedules.ListForInstructorAndDate(ctx, instructorID, date)
	if err != nil {
		return nil, err
	}

	// A day without schedule entries is a valid outcome: zero
	// distance, zero fee, no waypoints, DRAFT.
	if len(entries) == 0 {
		return s.records.Save(ctx, &model.DailyTravelRecord{
			InstructorID: instructorID,
			TravelDate:   date,
			WorkMonth:    model.WorkMonthOf(date),
			Status:       model.TravelStatusDraft,
		})
	}

	stops, err := s.buildRoute(ctx, instructor, home, entries)
	if err != nil {
		return nil, err
	}

	coords := waypointCoordinates(stops)
	distanceKm := geo.RouteDistance(coords)

	candidates, err := s.policies.ListActiveForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	policy, err := matchPolicy(candidates, distanceKm, date)
	if err != nil {
		return nil, fmt.Errorf("%w: distance %.2f km on %s", ErrPolicyNotFound, distanceKm, date.Format("2006-01-02"))
	}

	snapshotURL := s.generateSnapshot(ctx, instructor, home, stops)

	status := model.TravelStatusDraft
	var snapshotRef *string
	if snapshotURL != "" {
		status = model.TravelStatusFinal
		snapshotRef = &snapshotURL
	}

	return s.records.Save(ctx, &model.DailyTravelRecord{
		InstructorID:       instructorID,
		TravelDate:         date,
		WorkMonth:          model.WorkMonthOf(date),
		TotalDistanceKm:    distanceKm,
		TravelFeeAmountKrw: policy.AmountKrw,
		SnapshotURL:        snapshotRef,
		Status:             status,
		Waypoints:          stops,
	})
}

// generateSnapshot is best effort: any failure downgrades the record
// to DRAFT instead of aborting the recompute.
func (s *TravelService) generateSnapshot(ctx context.Context, instructor *model.Instructor, home geo.Coordinate, stops []model.TravelWaypoint) string {
	institutionStops := make([]geo.Coordinate, 0, len(stops))
	returnHome := false
	for i, stop := range stops {
		if stop.IsHome {
			if i > 0 {
				returnHome = true
			}
			continue
		}
		institutionStops = append(institutionStops, geo.Coordinate{Lat: stop.Latitude, Lng: stop.Longitude})
	}

	label := ""
	if instructor.HomeAddress != nil {
		label = *instructor.HomeAddress
	}

	url, err := s.snapshots.Generate(ctx, home, label, institutionStops, returnHome)
	if err != nil {
		s.log.Warn().Err(err).
			Str("instructor_id", instructor.ID.String()).
			Msg("map snapshot generation failed, keeping record in DRAFT")
		return ""
	}
	return url
}

// GetDailyRecords lists records in the inclusive date range. Read
// only; no recompute is triggered.
func (s *TravelService) GetDailyRecords(ctx context.Context, instructorID uuid.UUID, from, to time.Time) ([]model.DailyTravelRecord, error) {
	from = dateOnly(from)
	to = dateOnly(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}
	return s.records.ListByInstructorAndDateRange(ctx, instructorID, from, to)
}

// GetMonthlySummary lists a month's records and totals the payable
// expense. Only FINAL records count toward the total; DRAFT days are
// listed but contribute nothing until a snapshot confirms them.
func (s *TravelService) GetMonthlySummary(ctx context.Context, instructorID uuid.UUID, month string) (*model.MonthlyTravelSummary, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, fmt.Errorf("%w: month must be formatted YYYY-MM", ErrInvalidInput)
	}

	records, err := s.records.ListByInstructorAndMonth(ctx, instructorID, month)
	if err != nil {
		return nil, err
	}
	total, err := s.records.SumFinalFeesForMonth(ctx, instructorID, month)
	if err != nil {
		return nil, err
	}

	return &model.MonthlyTravelSummary{
		InstructorID:       instructorID,
		Month:              month,
		DailyRecords:       records,
		TotalTravelExpense: total,
	}, nil
}

func recalcKey(instructorID uuid.UUID, date time.Time) string {
	return instructorID.String() + "@" + date.Format("2006-01-02")
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
