package models

import "time"

// CourseStatus defines the set of allowed review states for a Course.
type CourseStatus string

const (
	CourseStatusPending  CourseStatus = "pending"
	CourseStatusApproved CourseStatus = "approved"
	CourseStatusDenied   CourseStatus = "denied"
)

// IsValidCourseStatus checks if the provided string is a valid CourseStatus.
func IsValidCourseStatus(s string) (CourseStatus, bool) {
	cs := CourseStatus(s)
	switch cs {
	case CourseStatusPending, CourseStatusApproved, CourseStatusDenied:
		return cs, true
	default:
		return "", false
	}
}

type Course struct {
	ID              string       `json:"_id"`
	Name            string       `json:"courseName"`
	Image           string       `json:"image"`
	InstructorName  string       `json:"instructorName"`
	InstructorEmail string       `json:"instructorEmail"`
	AvailableSeats  int          `json:"availableSeats"`
	Price           float64      `json:"price"`
	Students        int          `json:"students"`
	Status          CourseStatus `json:"status"`
	Feedback        string       `json:"feedback,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
}
