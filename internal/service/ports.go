package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/minsu-dev/eduops/internal/geo"
	"github.com/minsu-dev/eduops/internal/model"
)

// Capability interfaces consumed by TravelService. Repository and
// snapshot implementations satisfy them in production; tests supply
// in-memory fakes. Lookups report a missing row with
// gorm.ErrRecordNotFound.

type InstructorLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Instructor, error)
}

type InstitutionLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Institution, error)
}

// ScheduleLookup returns the schedule blocks of one instructor on one
// date. Order is unspecified; the route builder sorts by start time.
type ScheduleLookup interface {
	ListForInstructorAndDate(ctx context.Context, instructorID uuid.UUID, date time.Time) ([]model.TrainingPeriod, error)
}

type PolicyStore interface {
	ListActiveForDate(ctx context.Context, date time.Time) ([]model.TravelPolicy, error)
}

type RecordStore interface {
	FindByInstructorAndDate(ctx context.Context, instructorID uuid.UUID, date time.Time) (*model.DailyTravelRecord, error)
	// Save upserts by (instructor_id, travel_date) and replaces the
	// waypoint list wholesale in the same transaction.
	Save(ctx context.Context, record *model.DailyTravelRecord) (*model.DailyTravelRecord, error)
	ListByInstructorAndDateRange(ctx context.Context, instructorID uuid.UUID, from, to time.Time) ([]model.DailyTravelRecord, error)
	ListByInstructorAndMonth(ctx context.Context, instructorID uuid.UUID, month string) ([]model.DailyTravelRecord, error)
	SumFinalFeesForMonth(ctx context.Context, instructorID uuid.UUID, month string) (int64, error)
}

// SnapshotGenerator renders the day's route as a static map image and
// returns its URL. Any error means "no snapshot" to the caller; it is
// never fatal for recomputation.
type SnapshotGenerator interface {
	Generate(ctx context.Context, home geo.Coordinate, addressLabel string, stops []geo.Coordinate, returnHome bool) (string, error)
}
