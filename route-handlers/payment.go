package routehandlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreybb/learnlanguage/datastore"
	"github.com/coreybb/learnlanguage/models"
	"github.com/coreybb/learnlanguage/payments"
	"github.com/coreybb/learnlanguage/webutil"
	"github.com/google/uuid"
)

// Checkout records a confirmed payment and its follow-up writes.
type Checkout interface {
	Record(ctx context.Context, p models.Payment) (*models.CheckoutResult, error)
}

type PaymentStore interface {
	GetPaymentsByUser(ctx context.Context, userEmail string) ([]models.Payment, error)
}

type EnrollmentStore interface {
	GetPaidCourses(ctx context.Context, userEmail string) ([]models.Course, error)
}

type PaymentHandler struct {
	Provider    payments.Provider
	Checkout    Checkout
	Payments    PaymentStore
	Enrollments EnrollmentStore
}

func NewPaymentHandler(provider payments.Provider, checkout Checkout, history PaymentStore, enrollments EnrollmentStore) *PaymentHandler {
	return &PaymentHandler{
		Provider:    provider,
		Checkout:    checkout,
		Payments:    history,
		Enrollments: enrollments,
	}
}

type createIntentRequest struct {
	Price float64 `json:"price"`
}

type recordPaymentRequest struct {
	TransactionID string  `json:"transactionId"`
	Price         float64 `json:"price"`
	CartItemID    string  `json:"cartItemId"`
	CourseID      string  `json:"courseId"`
	CourseName    string  `json:"courseName"`
}

// HandleCreatePaymentIntent asks the provider for a card payment intent
// covering the price in the body and returns its client secret.
func (h *PaymentHandler) HandleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) error {
	var req createIntentRequest
	if err := webutil.DecodeJSON(r, &req, false); err != nil {
		return err
	}
	amount, err := payments.ToMinorUnits(req.Price)
	if err != nil {
		return webutil.ErrBadRequestWrap("price must be a positive amount", err)
	}

	secret, err := h.Provider.CreateIntent(r.Context(), amount, "")
	if err != nil {
		return webutil.ErrBadGatewayWrap(fmt.Errorf("%s intent for %d: %w", h.Provider.Name(), amount, err))
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"clientSecret": secret})
	return nil
}

// HandleRecordPayment stores a payment confirmed by the client for the
// user named in the query string.
func (h *PaymentHandler) HandleRecordPayment(w http.ResponseWriter, r *http.Request) error {
	email := r.URL.Query().Get(ParamEmail)

	var req recordPaymentRequest
	if err := webutil.DecodeJSON(r, &req, false); err != nil {
		return err
	}
	if strings.TrimSpace(req.TransactionID) == "" {
		return webutil.ErrBadRequest("transactionId is required")
	}
	if _, err := uuid.Parse(req.CourseID); err != nil {
		return webutil.ErrBadRequest("Invalid courseId format")
	}
	if req.CartItemID != "" {
		if _, err := uuid.Parse(req.CartItemID); err != nil {
			return webutil.ErrBadRequest("Invalid cartItemId format")
		}
	}
	if _, err := payments.ToMinorUnits(req.Price); err != nil {
		return webutil.ErrBadRequestWrap("price must be a positive amount", err)
	}

	result, err := h.Checkout.Record(r.Context(), models.Payment{
		UserEmail:     email,
		TransactionID: strings.TrimSpace(req.TransactionID),
		Price:         req.Price,
		CartItemID:    req.CartItemID,
		CourseID:      req.CourseID,
		CourseName:    req.CourseName,
	})
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("Course not found")
		}
		return fmt.Errorf("failed to record payment for %s: %w", email, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, result)
	return nil
}

func (h *PaymentHandler) HandleGetPayments(w http.ResponseWriter, r *http.Request) error {
	email, err := emailParam(r)
	if err != nil {
		return err
	}
	list, err := h.Payments.GetPaymentsByUser(r.Context(), email)
	if err != nil {
		return fmt.Errorf("failed to retrieve payments of %s: %w", email, err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, list)
	return nil
}

// HandleGetAccessCourses lists the courses the user has paid for.
func (h *PaymentHandler) HandleGetAccessCourses(w http.ResponseWriter, r *http.Request) error {
	email, err := emailParam(r)
	if err != nil {
		return err
	}
	courses, err := h.Enrollments.GetPaidCourses(r.Context(), email)
	if err != nil {
		return fmt.Errorf("failed to retrieve enrolled courses of %s: %w", email, err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, courses)
	return nil
}
