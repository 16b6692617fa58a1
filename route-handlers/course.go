package routehandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coreybb/learnlanguage/auth"
	"github.com/coreybb/learnlanguage/datastore"
	"github.com/coreybb/learnlanguage/models"
	"github.com/coreybb/learnlanguage/webutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CourseStore interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	GetApprovedCourses(ctx context.Context) ([]models.Course, error)
	GetTopCourses(ctx context.Context) ([]models.Course, error)
	GetCourses(ctx context.Context) ([]models.Course, error)
	GetCoursesByInstructor(ctx context.Context, instructorEmail string) ([]models.Course, error)
	UpdateCourseInfo(ctx context.Context, id string, upd datastore.CourseUpdate) error
	UpdateCourseStatus(ctx context.Context, id string, status models.CourseStatus, feedback string) error
}

// CourseCounter keeps an instructor's offered-course counter in step.
type CourseCounter interface {
	IncrementAvailableCourse(ctx context.Context, email string) error
}

type CourseHandler struct {
	Repo        CourseStore
	Instructors CourseCounter
}

func NewCourseHandler(repo CourseStore, instructors CourseCounter) *CourseHandler {
	return &CourseHandler{Repo: repo, Instructors: instructors}
}

type addCourseRequest struct {
	Name           string  `json:"courseName"`
	Image          string  `json:"image"`
	InstructorName string  `json:"instructorName"`
	AvailableSeats int     `json:"availableSeats"`
	Price          float64 `json:"price"`
}

type updateCourseInfoRequest struct {
	Name           *string  `json:"courseName"`
	Image          *string  `json:"image"`
	Price          *float64 `json:"price"`
	AvailableSeats *int     `json:"availableSeats"`
}

type changeStatusRequest struct {
	Status   string `json:"status"`
	Feedback string `json:"feedback"`
}

// HandleGetCourses lists the approved catalogue.
func (h *CourseHandler) HandleGetCourses(w http.ResponseWriter, r *http.Request) error {
	courses, err := h.Repo.GetApprovedCourses(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve courses: %w", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, courses)
	return nil
}

func (h *CourseHandler) HandleGetTopCourses(w http.ResponseWriter, r *http.Request) error {
	courses, err := h.Repo.GetTopCourses(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve top courses: %w", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, courses)
	return nil
}

// HandleGetAllCourses lists courses in every review state; admin only.
func (h *CourseHandler) HandleGetAllCourses(w http.ResponseWriter, r *http.Request) error {
	courses, err := h.Repo.GetCourses(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve all courses: %w", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, courses)
	return nil
}

func (h *CourseHandler) HandleGetInstructorCourses(w http.ResponseWriter, r *http.Request) error {
	email, err := emailParam(r)
	if err != nil {
		return err
	}
	courses, err := h.Repo.GetCoursesByInstructor(r.Context(), email)
	if err != nil {
		return fmt.Errorf("failed to retrieve courses of %s: %w", email, err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, courses)
	return nil
}

// HandleAddCourse submits a new course for review on behalf of the
// instructor named in the path.
func (h *CourseHandler) HandleAddCourse(w http.ResponseWriter, r *http.Request) error {
	email, err := emailParam(r)
	if err != nil {
		return err
	}

	var req addCourseRequest
	if err := webutil.DecodeJSON(r, &req, true); err != nil {
		return err
	}
	if strings.TrimSpace(req.Name) == "" {
		return webutil.ErrBadRequest("courseName is required")
	}
	if req.Price < 0 || req.AvailableSeats < 0 {
		return webutil.ErrBadRequest("price and availableSeats must not be negative")
	}

	newCourse := models.Course{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		Image:           req.Image,
		InstructorName:  req.InstructorName,
		InstructorEmail: email,
		AvailableSeats:  req.AvailableSeats,
		Price:           req.Price,
		Status:          models.CourseStatusPending,
		CreatedAt:       time.Now().UTC(),
	}

	if err := h.Repo.CreateCourse(r.Context(), &newCourse); err != nil {
		return fmt.Errorf("failed to create course for %s: %w", email, err)
	}
	// The course is stored; a stale counter is tolerated.
	if err := h.Instructors.IncrementAvailableCourse(r.Context(), email); err != nil {
		slog.Warn("Failed to bump instructor course counter", "instructor", email, "course_id", newCourse.ID, "error", err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, newCourse)
	return nil
}

// HandleUpdateCourseInfo edits a course owned by the authenticated instructor.
func (h *CourseHandler) HandleUpdateCourseInfo(w http.ResponseWriter, r *http.Request) error {
	courseID := chi.URLParam(r, ParamID)
	if _, err := uuid.Parse(courseID); err != nil {
		return webutil.ErrBadRequest("Invalid course ID format")
	}

	course, err := h.Repo.GetCourseByID(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("Course not found")
		}
		return fmt.Errorf("failed to retrieve course %s: %w", courseID, err)
	}
	if course.InstructorEmail != auth.EmailFromContext(r.Context()) {
		return webutil.ErrForbidden("")
	}

	var req updateCourseInfoRequest
	if err := webutil.DecodeJSON(r, &req, true); err != nil {
		return err
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return webutil.ErrBadRequest("courseName must not be empty")
	}
	if (req.Price != nil && *req.Price < 0) || (req.AvailableSeats != nil && *req.AvailableSeats < 0) {
		return webutil.ErrBadRequest("price and availableSeats must not be negative")
	}

	upd := datastore.CourseUpdate{
		Name:           req.Name,
		Image:          req.Image,
		Price:          req.Price,
		AvailableSeats: req.AvailableSeats,
	}
	if err := h.Repo.UpdateCourseInfo(r.Context(), courseID, upd); err != nil {
		return fmt.Errorf("failed to update course %s: %w", courseID, err)
	}

	updated, err := h.Repo.GetCourseByID(r.Context(), courseID)
	if err != nil {
		return fmt.Errorf("failed to fetch course %s after update: %w", courseID, err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, updated)
	return nil
}

// HandleChangeStatus records an admin review decision for a course.
func (h *CourseHandler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) error {
	courseID := chi.URLParam(r, ParamID)
	if _, err := uuid.Parse(courseID); err != nil {
		return webutil.ErrBadRequest("Invalid course ID format")
	}

	var req changeStatusRequest
	if err := webutil.DecodeJSON(r, &req, true); err != nil {
		return err
	}
	status, ok := models.IsValidCourseStatus(strings.ToLower(req.Status))
	if !ok {
		return webutil.ErrBadRequest(fmt.Sprintf("Invalid status value. Must be one of: %s, %s, %s",
			models.CourseStatusPending, models.CourseStatusApproved, models.CourseStatusDenied))
	}

	if err := h.Repo.UpdateCourseStatus(r.Context(), courseID, status, req.Feedback); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFound("Course not found for status update")
		}
		return fmt.Errorf("failed to update status for course %s: %w", courseID, err)
	}

	updated, err := h.Repo.GetCourseByID(r.Context(), courseID)
	if err != nil {
		return fmt.Errorf("failed to fetch course %s after status update: %w", courseID, err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, updated)
	return nil
}
