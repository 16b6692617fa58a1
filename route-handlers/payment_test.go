package routehandlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreybb/learnlanguage/datastore/memory"
	"github.com/coreybb/learnlanguage/models"
	"github.com/coreybb/learnlanguage/payments"
)

type fakeProvider struct {
	amount int64
	err    error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) CreateIntent(_ context.Context, amount int64, _ string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.amount = amount
	return fmt.Sprintf("pi_%d_secret", amount), nil
}

func newPaymentFixture(t *testing.T, provider payments.Provider) (*PaymentHandler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	checkout := payments.NewCheckoutService(store, store, store, store)
	return NewPaymentHandler(provider, checkout, store, store), store
}

func TestPaymentHandler_HandleCreatePaymentIntent(t *testing.T) {
	provider := &fakeProvider{}
	h, _ := newPaymentFixture(t, provider)
	const pattern = "/create-payment-intent"
	target := pattern + "?email=a@x.com"

	rec := serve(t, http.MethodPost, pattern, target, `{"price":19.99}`, "a@x.com", h.HandleCreatePaymentIntent)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"clientSecret":"pi_1999_secret"}`, rec.Body.String())
	assert.Equal(t, int64(1999), provider.amount)

	rec = serve(t, http.MethodPost, pattern, target, `{"price":0}`, "a@x.com", h.HandleCreatePaymentIntent)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	provider.err = errors.New("card_declined")
	rec = serve(t, http.MethodPost, pattern, target, `{"price":5}`, "a@x.com", h.HandleCreatePaymentIntent)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestPaymentHandler_RecordAndHistory(t *testing.T) {
	h, store := newPaymentFixture(t, &fakeProvider{})
	seedUser(t, store, "teach@x.com", models.RoleInstructor)
	course := seedCourse(t, store, models.Course{
		ID: uuid.NewString(), Name: "Japanese", InstructorEmail: "teach@x.com",
		AvailableSeats: 2, Price: 40, Status: models.CourseStatusApproved,
	})
	cartItem := models.CartItem{ID: uuid.NewString(), CourseID: course.ID, UserEmail: "a@x.com", Price: 40}
	require.NoError(t, store.CreateCartItem(t.Context(), &cartItem))

	body := fmt.Sprintf(`{"transactionId":"pi_123","price":40,"cartItemId":%q,"courseId":%q}`, cartItem.ID, course.ID)
	rec := serve(t, http.MethodPost, "/payment", "/payment?email=a@x.com", body, "a@x.com", h.HandleRecordPayment)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result models.CheckoutResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, "a@x.com", result.Payment.UserEmail)
	assert.Equal(t, "Japanese", result.Payment.CourseName)
	assert.True(t, result.CartItemRemoved)
	assert.True(t, result.SeatReserved)
	assert.True(t, result.InstructorCredit)

	stored, err := store.GetCourseByID(t.Context(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.AvailableSeats)
	assert.Equal(t, 1, stored.Students)

	rec = serve(t, http.MethodGet, "/paymentData/{email}", "/paymentData/a@x.com", "", "a@x.com", h.HandleGetPayments)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []models.Payment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&history))
	require.Len(t, history, 1)
	assert.Equal(t, "pi_123", history[0].TransactionID)

	rec = serve(t, http.MethodGet, "/accessCourse/{email}", "/accessCourse/a@x.com", "", "a@x.com", h.HandleGetAccessCourses)
	require.Equal(t, http.StatusOK, rec.Code)
	var enrolled []models.Course
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&enrolled))
	require.Len(t, enrolled, 1)
	assert.Equal(t, course.ID, enrolled[0].ID)
}

func TestPaymentHandler_HandleRecordPayment_Invalid(t *testing.T) {
	h, _ := newPaymentFixture(t, &fakeProvider{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "missing transaction", body: fmt.Sprintf(`{"courseId":%q}`, uuid.NewString()), want: http.StatusBadRequest},
		{name: "bad course id", body: `{"transactionId":"pi_1","courseId":"x"}`, want: http.StatusBadRequest},
		{name: "bad cart item id", body: fmt.Sprintf(`{"transactionId":"pi_1","courseId":%q,"cartItemId":"x"}`, uuid.NewString()), want: http.StatusBadRequest},
		{name: "unknown course", body: fmt.Sprintf(`{"transactionId":"pi_1","price":10,"courseId":%q}`, uuid.NewString()), want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, http.MethodPost, "/payment", "/payment?email=a@x.com", tt.body, "a@x.com", h.HandleRecordPayment)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestPaymentHandler_HandleRecordPayment_RejectsUnchargeablePrice(t *testing.T) {
	h, store := newPaymentFixture(t, &fakeProvider{})
	seedUser(t, store, "teach@x.com", models.RoleInstructor)
	course := seedCourse(t, store, models.Course{
		ID: uuid.NewString(), Name: "Thai", InstructorEmail: "teach@x.com",
		AvailableSeats: 2, Price: 40, Status: models.CourseStatusApproved,
	})
	cartItem := models.CartItem{ID: uuid.NewString(), CourseID: course.ID, UserEmail: "a@x.com", Price: 40}
	require.NoError(t, store.CreateCartItem(t.Context(), &cartItem))

	for _, price := range []string{"-50", "0", "0.001"} {
		body := fmt.Sprintf(`{"transactionId":"pi_1","price":%s,"cartItemId":%q,"courseId":%q}`, price, cartItem.ID, course.ID)
		rec := serve(t, http.MethodPost, "/payment", "/payment?email=a@x.com", body, "a@x.com", h.HandleRecordPayment)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "price %s", price)
	}

	history, err := store.GetPaymentsByUser(t.Context(), "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, history)

	stored, err := store.GetCourseByID(t.Context(), course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.AvailableSeats)
	assert.Zero(t, stored.Students)

	items, err := store.GetCartItemsByUser(t.Context(), "a@x.com")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	instructor, err := store.GetUserByEmail(t.Context(), "teach@x.com")
	require.NoError(t, err)
	assert.Zero(t, instructor.TotalStudents)
}
