package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
	RoleInstructor Role = "INSTRUCTOR"
)

// Principal is the authenticated identity extracted from the access
// token. For instructor accounts UserID equals the instructor ID.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

func (p Principal) IsAdmin() bool      { return p.Role == RoleAdmin }
func (p Principal) IsStaff() bool      { return p.Role == RoleStaff }
func (p Principal) IsInstructor() bool { return p.Role == RoleInstructor }

// CanManage reports whether the principal may mutate catalog data and
// trigger recomputation.
func (p Principal) CanManage() bool { return p.IsAdmin() || p.IsStaff() }

// CanViewInstructor reports whether the principal may read travel data
// belonging to the given instructor.
func (p Principal) CanViewInstructor(instructorID uuid.UUID) bool {
	if p.CanManage() {
		return true
	}
	return p.IsInstructor() && p.UserID == instructorID
}
