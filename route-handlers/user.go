package routehandlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coreybb/learnlanguage/datastore"
	"github.com/coreybb/learnlanguage/models"
	"github.com/coreybb/learnlanguage/webutil"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	GetInstructors(ctx context.Context) ([]models.User, error)
	GetTopInstructors(ctx context.Context) ([]models.User, error)
}

type UserHandler struct {
	Repo UserStore
}

func NewUserHandler(repo UserStore) *UserHandler {
	return &UserHandler{Repo: repo}
}

type addUserRequest struct {
	Email string `json:"userEmail"`
	Name  string `json:"userName"`
	Photo string `json:"userPhoto"`
}

// HandleAddUser registers a user as a student. Registering an email that
// already exists is not an error; the reply says the account is available.
func (h *UserHandler) HandleAddUser(w http.ResponseWriter, r *http.Request) error {
	var req addUserRequest
	if err := webutil.DecodeJSON(r, &req, false); err != nil {
		return err
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return webutil.ErrBadRequest("userEmail is required")
	}

	newUser := models.User{
		Email:     email,
		Name:      req.Name,
		Photo:     req.Photo,
		Role:      models.RoleStudent,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.Repo.CreateUser(r.Context(), &newUser); err != nil {
		if errors.Is(err, datastore.ErrDuplicate) {
			webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"available": "available"})
			return nil
		}
		return fmt.Errorf("failed to create user %s: %w", email, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, newUser)
	return nil
}

func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) error {
	email, err := emailParam(r)
	if err != nil {
		return err
	}

	user, err := h.Repo.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("User not found")
		}
		return fmt.Errorf("failed to retrieve user %s: %w", email, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, user)
	return nil
}

// HandleGetAllUsers lists every account; mounted behind the admin guard.
func (h *UserHandler) HandleGetAllUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.Repo.GetUsers(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve users: %w", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, users)
	return nil
}

func (h *UserHandler) HandleGetInstructors(w http.ResponseWriter, r *http.Request) error {
	users, err := h.Repo.GetInstructors(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve instructors: %w", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, users)
	return nil
}

func (h *UserHandler) HandleGetTopInstructors(w http.ResponseWriter, r *http.Request) error {
	users, err := h.Repo.GetTopInstructors(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve top instructors: %w", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, users)
	return nil
}
