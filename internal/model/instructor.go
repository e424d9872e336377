package model

import (
	"time"

	"github.com/google/uuid"
)

type Instructor struct {
	ID            uuid.UUID
	Name          string
	Phone         string
	Email         string
	HomeAddress   *string
	HomeLatitude  *float64
	HomeLongitude *float64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
