package model

import (
	"time"

	"github.com/google/uuid"
)

type TravelStatus string

const (
	// TravelStatusDraft marks a record whose map snapshot is missing.
	// Draft days are listed but excluded from payable totals.
	TravelStatusDraft TravelStatus = "DRAFT"
	TravelStatusFinal TravelStatus = "FINAL"
)

// DailyTravelRecord is the computed travel allowance for one
// instructor on one date. At most one record exists per
// (instructor_id, travel_date); recomputation overwrites it wholesale.
type DailyTravelRecord struct {
	ID                 uuid.UUID
	InstructorID       uuid.UUID
	TravelDate         time.Time
	WorkMonth          string // travel date truncated to "2006-01"
	TotalDistanceKm    float64
	TravelFeeAmountKrw int64
	SnapshotURL        *string
	Status             TravelStatus
	Waypoints          []TravelWaypoint `gorm:"-"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TravelWaypoint is one stop of a day's route, owned by its record
// and replaced as a whole on every recompute. Seq runs 0..N-1; the
// first and last stops of a non-empty round trip are home.
type TravelWaypoint struct {
	ID            uuid.UUID
	RecordID      uuid.UUID
	Seq           int
	Name          string
	Address       *string
	Latitude      float64
	Longitude     float64
	InstitutionID *uuid.UUID
	TrainingID    *uuid.UUID
	IsHome        bool
}

type MonthlyTravelSummary struct {
	InstructorID       uuid.UUID
	Month              string
	DailyRecords       []DailyTravelRecord
	TotalTravelExpense int64
}

// WorkMonthOf derives the aggregation month from a travel date.
func WorkMonthOf(date time.Time) string {
	return date.Format("2006-01")
}
