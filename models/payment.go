package models

import "time"

type Payment struct {
	ID            string    `json:"_id"`
	UserEmail     string    `json:"userEmail"`
	TransactionID string    `json:"transactionId"`
	Price         float64   `json:"price"`
	CartItemID    string    `json:"cartItemId"`
	CourseID      string    `json:"courseId"`
	CourseName    string    `json:"courseName"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CheckoutResult reports which of the writes that follow a recorded
// payment succeeded. The payment itself is always persisted when a
// result is returned.
type CheckoutResult struct {
	Payment          Payment `json:"payment"`
	CartItemRemoved  bool    `json:"cartItemRemoved"`
	SeatReserved     bool    `json:"seatReserved"`
	InstructorCredit bool    `json:"instructorCredited"`
}
