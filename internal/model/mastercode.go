package model

import (
	"time"

	"github.com/google/uuid"
)

// MasterCode is one node of the hierarchical lookup taxonomy
// (training categories, institution types and so on). Roots have a
// nil parent; Depth counts levels from the root starting at 0.
type MasterCode struct {
	ID        uuid.UUID
	Code      string
	Name      string
	ParentID  *uuid.UUID
	Depth     int
	SortOrder int
	IsActive  bool
	CreatedAt time.Time
}
