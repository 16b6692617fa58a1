package routehandlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coreybb/learnlanguage/auth"
	"github.com/coreybb/learnlanguage/datastore"
	"github.com/coreybb/learnlanguage/models"
	"github.com/coreybb/learnlanguage/webutil"
	"github.com/google/uuid"
)

type CartStore interface {
	CreateCartItem(ctx context.Context, item *models.CartItem) error
	GetCartItemsByUser(ctx context.Context, userEmail string) ([]models.CartItem, error)
	DeleteCartItem(ctx context.Context, id string, userEmail string) error
}

type CartHandler struct {
	Repo CartStore
}

func NewCartHandler(repo CartStore) *CartHandler {
	return &CartHandler{Repo: repo}
}

type addToCartRequest struct {
	CourseID        string  `json:"courseId"`
	UserEmail       string  `json:"userEmail"`
	CourseName      string  `json:"courseName"`
	Image           string  `json:"image"`
	Price           float64 `json:"price"`
	InstructorEmail string  `json:"instructorEmail"`
}

// HandleAddToCart stores a cart item for the authenticated caller. The
// owner guard has already matched the path or body email to the caller.
func (h *CartHandler) HandleAddToCart(w http.ResponseWriter, r *http.Request) error {
	var req addToCartRequest
	if err := webutil.DecodeJSON(r, &req, true); err != nil {
		return err
	}
	if _, err := uuid.Parse(req.CourseID); err != nil {
		return webutil.ErrBadRequest("Invalid courseId format")
	}
	if req.Price < 0 {
		return webutil.ErrBadRequest("price must not be negative")
	}

	item := models.CartItem{
		ID:              uuid.NewString(),
		CourseID:        req.CourseID,
		UserEmail:       auth.EmailFromContext(r.Context()),
		CourseName:      req.CourseName,
		Image:           req.Image,
		Price:           req.Price,
		InstructorEmail: req.InstructorEmail,
		CreatedAt:       time.Now().UTC(),
	}
	if err := h.Repo.CreateCartItem(r.Context(), &item); err != nil {
		return fmt.Errorf("failed to add course %s to cart of %s: %w", req.CourseID, item.UserEmail, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, item)
	return nil
}

func (h *CartHandler) HandleGetCart(w http.ResponseWriter, r *http.Request) error {
	email, err := emailParam(r)
	if err != nil {
		return err
	}
	items, err := h.Repo.GetCartItemsByUser(r.Context(), email)
	if err != nil {
		return fmt.Errorf("failed to retrieve cart of %s: %w", email, err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, items)
	return nil
}

// HandleDeleteFromCart removes one item from the caller's cart. The email
// and item id arrive as query parameters.
func (h *CartHandler) HandleDeleteFromCart(w http.ResponseWriter, r *http.Request) error {
	email := r.URL.Query().Get(ParamEmail)
	itemID := r.URL.Query().Get(ParamID)
	if _, err := uuid.Parse(itemID); err != nil {
		return webutil.ErrBadRequest("Invalid cart item ID format")
	}

	if err := h.Repo.DeleteCartItem(r.Context(), itemID, email); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("Cart item not found")
		}
		return fmt.Errorf("failed to delete cart item %s: %w", itemID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]int{"deletedCount": 1})
	return nil
}
