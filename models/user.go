package models

import "time"

// Role defines the set of allowed roles for a User.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// IsValidRole reports whether s names a known role.
func IsValidRole(s string) (Role, bool) {
	r := Role(s)
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return r, true
	default:
		return "", false
	}
}

type User struct {
	Email           string    `json:"userEmail"`
	Name            string    `json:"userName"`
	Photo           string    `json:"userPhoto,omitempty"`
	Role            Role      `json:"role"`
	TotalStudents   int       `json:"totalStudents"`
	AvailableCourse int       `json:"availableCourse"`
	CreatedAt       time.Time `json:"createdAt"`
}
