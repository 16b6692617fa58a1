package models

import "time"

// CartItem is a course a user has selected but not yet paid for.
type CartItem struct {
	ID              string    `json:"_id"`
	CourseID        string    `json:"courseId"`
	UserEmail       string    `json:"userEmail"`
	CourseName      string    `json:"courseName"`
	Image           string    `json:"image"`
	Price           float64   `json:"price"`
	InstructorEmail string    `json:"instructorEmail"`
	CreatedAt       time.Time `json:"createdAt"`
}
