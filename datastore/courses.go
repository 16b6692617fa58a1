package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coreybb/learnlanguage/models"
)

const courseColumns = `id, name, image, instructor_name, instructor_email,
		available_seats, price, students, status, feedback, created_at`

type CourseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// CourseUpdate holds the instructor-editable fields of a course.
// Nil fields are left unchanged.
type CourseUpdate struct {
	Name           *string
	Image          *string
	Price          *float64
	AvailableSeats *int
}

func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (
			id, name, image, instructor_name, instructor_email,
			available_seats, price, students, status, feedback, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		course.ID, course.Name, course.Image, course.InstructorName, course.InstructorEmail,
		course.AvailableSeats, course.Price, course.Students, string(course.Status),
		course.Feedback, course.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

func (r *CourseRepository) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	course, err := scanCourse(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("course %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get course by ID: %w", err)
	}
	return course, nil
}

// GetApprovedCourses lists the courses visible in the public catalogue.
func (r *CourseRepository) GetApprovedCourses(ctx context.Context) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE status = $1 ORDER BY created_at DESC`
	return r.queryCourses(ctx, query, string(models.CourseStatusApproved))
}

// GetTopCourses lists courses by enrolled students, most first.
func (r *CourseRepository) GetTopCourses(ctx context.Context) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY students DESC`
	return r.queryCourses(ctx, query)
}

// GetCourses lists every course regardless of review status.
func (r *CourseRepository) GetCourses(ctx context.Context) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at DESC`
	return r.queryCourses(ctx, query)
}

func (r *CourseRepository) GetCoursesByInstructor(ctx context.Context, instructorEmail string) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE instructor_email = $1 ORDER BY created_at DESC`
	return r.queryCourses(ctx, query, instructorEmail)
}

// GetPaidCourses lists the courses a user holds a payment for, most recent
// purchase first.
func (r *CourseRepository) GetPaidCourses(ctx context.Context, userEmail string) ([]models.Course, error) {
	query := `
		SELECT c.id, c.name, c.image, c.instructor_name, c.instructor_email,
		       c.available_seats, c.price, c.students, c.status, c.feedback, c.created_at
		FROM courses c
		JOIN payments p ON p.course_id = c.id
		WHERE p.user_email = $1
		ORDER BY p.created_at DESC
	`
	return r.queryCourses(ctx, query, userEmail)
}

// UpdateCourseInfo applies the non-nil fields of upd.
func (r *CourseRepository) UpdateCourseInfo(ctx context.Context, id string, upd CourseUpdate) error {
	query := `
		UPDATE courses SET
			name = COALESCE($2, name),
			image = COALESCE($3, image),
			price = COALESCE($4, price),
			available_seats = COALESCE($5, available_seats)
		WHERE id = $1
	`
	return r.execTargeted(ctx, query, id, upd.Name, upd.Image, upd.Price, upd.AvailableSeats)
}

func (r *CourseRepository) UpdateCourseStatus(ctx context.Context, id string, status models.CourseStatus, feedback string) error {
	query := `UPDATE courses SET status = $2, feedback = $3 WHERE id = $1`
	return r.execTargeted(ctx, query, id, string(status), feedback)
}

// ReserveSeat moves one seat of the course from available to enrolled.
// ErrNotFound is returned when the course is missing or already full.
func (r *CourseRepository) ReserveSeat(ctx context.Context, id string) error {
	query := `
		UPDATE courses
		SET available_seats = available_seats - 1, students = students + 1
		WHERE id = $1 AND available_seats > 0
	`
	return r.execTargeted(ctx, query, id)
}

func (r *CourseRepository) execTargeted(ctx context.Context, query string, id string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to update course %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for course %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *CourseRepository) queryCourses(ctx context.Context, query string, args ...any) ([]models.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, *course)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}

func scanCourse(s rowScanner) (*models.Course, error) {
	var course models.Course
	var status string
	err := s.Scan(
		&course.ID, &course.Name, &course.Image, &course.InstructorName, &course.InstructorEmail,
		&course.AvailableSeats, &course.Price, &course.Students, &status, &course.Feedback,
		&course.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	course.Status = models.CourseStatus(status)
	return &course, nil
}
