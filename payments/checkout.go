package payments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coreybb/learnlanguage/models"
	"github.com/google/uuid"
)

type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
}

type CartStore interface {
	DeleteCartItem(ctx context.Context, id string, userEmail string) error
}

type CourseStore interface {
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	ReserveSeat(ctx context.Context, id string) error
}

type InstructorStore interface {
	IncrementTotalStudents(ctx context.Context, email string) error
}

// CheckoutService records a payment and the bookkeeping writes that follow
// it. The writes are independent statements: a failure after the payment
// is stored is logged and reported in the result, never rolled back.
type CheckoutService struct {
	payments    PaymentStore
	carts       CartStore
	courses     CourseStore
	instructors InstructorStore
	now         func() time.Time
}

func NewCheckoutService(payments PaymentStore, carts CartStore, courses CourseStore, instructors InstructorStore) *CheckoutService {
	return &CheckoutService{
		payments:    payments,
		carts:       carts,
		courses:     courses,
		instructors: instructors,
		now:         time.Now,
	}
}

// Record stores p for its UserEmail, then removes the paid cart item,
// reserves a course seat and credits the instructor. A price that cannot
// be charged fails with ErrInvalidAmount before anything is written.
func (s *CheckoutService) Record(ctx context.Context, p models.Payment) (*models.CheckoutResult, error) {
	if _, err := ToMinorUnits(p.Price); err != nil {
		return nil, err
	}
	course, err := s.courses.GetCourseByID(ctx, p.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course %s for payment: %w", p.CourseID, err)
	}

	p.ID = uuid.NewString()
	p.CreatedAt = s.now().UTC()
	if p.CourseName == "" {
		p.CourseName = course.Name
	}
	if err := s.payments.CreatePayment(ctx, &p); err != nil {
		return nil, fmt.Errorf("failed to record payment for %s: %w", p.UserEmail, err)
	}

	result := &models.CheckoutResult{Payment: p}
	log := slog.With("payment_id", p.ID, "user", p.UserEmail, "course_id", p.CourseID)

	if p.CartItemID != "" {
		if err := s.carts.DeleteCartItem(ctx, p.CartItemID, p.UserEmail); err != nil {
			log.WarnContext(ctx, "Failed to remove paid cart item", "cart_item_id", p.CartItemID, "error", err)
		} else {
			result.CartItemRemoved = true
		}
	}

	if err := s.courses.ReserveSeat(ctx, p.CourseID); err != nil {
		log.WarnContext(ctx, "Failed to reserve seat after payment", "error", err)
	} else {
		result.SeatReserved = true
	}

	if err := s.instructors.IncrementTotalStudents(ctx, course.InstructorEmail); err != nil {
		log.WarnContext(ctx, "Failed to credit instructor after payment", "instructor", course.InstructorEmail, "error", err)
	} else {
		result.InstructorCredit = true
	}

	log.InfoContext(ctx, "Payment recorded",
		"cart_item_removed", result.CartItemRemoved,
		"seat_reserved", result.SeatReserved,
		"instructor_credited", result.InstructorCredit,
	)
	return result, nil
}
