package model

import (
	"time"

	"github.com/google/uuid"
)

type Training struct {
	ID           uuid.UUID
	Name         string
	CategoryCode string // master code of the training category
	StartDate    time.Time
	EndDate      time.Time
	CreatedAt    time.Time
}

// TrainingPeriod is one schedule block: an instructor teaching at an
// institution on a given date. Period rows are the schedule source
// for travel recalculation.
type TrainingPeriod struct {
	ID            uuid.UUID
	TrainingID    uuid.UUID
	InstructorID  uuid.UUID
	InstitutionID uuid.UUID
	PeriodDate    time.Time
	StartAt       time.Time
	EndAt         time.Time
}
