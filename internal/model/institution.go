package model

import (
	"time"

	"github.com/google/uuid"
)

type Institution struct {
	ID        uuid.UUID
	Name      string
	Address   *string
	Latitude  *float64
	Longitude *float64
	Phone     string
	ZoneID    *uuid.UUID
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Zone groups institutions into an administrative region.
type Zone struct {
	ID   uuid.UUID
	Code string
	Name string
}
