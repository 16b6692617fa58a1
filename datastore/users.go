package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coreybb/learnlanguage/models"
)

const userColumns = `email, name, photo, role, total_students, available_course, created_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user. ErrDuplicate is returned when the email
// is already registered.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, photo, role, total_students, available_course, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.Email, user.Name, user.Photo, string(user.Role),
		user.TotalStudents, user.AvailableCourse, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", user.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by their email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	return r.queryUsers(ctx, query)
}

// GetInstructors lists every user holding the instructor role.
func (r *UserRepository) GetInstructors(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY name`
	return r.queryUsers(ctx, query, string(models.RoleInstructor))
}

// GetTopInstructors lists instructors by total enrolled students, most first.
func (r *UserRepository) GetTopInstructors(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY total_students DESC`
	return r.queryUsers(ctx, query, string(models.RoleInstructor))
}

// LookupRole returns the stored role for email. found is false when no
// user exists; err is reserved for store failures.
func (r *UserRepository) LookupRole(ctx context.Context, email string) (models.Role, bool, error) {
	var role string
	err := r.db.QueryRowContext(ctx, `SELECT role FROM users WHERE email = $1`, email).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to look up role for %s: %w", email, err)
	}
	parsed, ok := models.IsValidRole(role)
	if !ok {
		return "", false, fmt.Errorf("unknown role %q stored for %s", role, email)
	}
	return parsed, true, nil
}

// IncrementTotalStudents adds one enrolled student to an instructor's counter.
func (r *UserRepository) IncrementTotalStudents(ctx context.Context, email string) error {
	query := `UPDATE users SET total_students = total_students + 1 WHERE email = $1`
	return r.execTargeted(ctx, query, email)
}

// IncrementAvailableCourse adds one offered course to an instructor's counter.
func (r *UserRepository) IncrementAvailableCourse(ctx context.Context, email string) error {
	query := `UPDATE users SET available_course = available_course + 1 WHERE email = $1`
	return r.execTargeted(ctx, query, email)
}

func (r *UserRepository) execTargeted(ctx context.Context, query string, email string) error {
	result, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", email, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for user %s: %w", email, err)
	}
	if rows == 0 {
		return fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	return nil
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*models.User, error) {
	var user models.User
	var role string
	err := s.Scan(&user.Email, &user.Name, &user.Photo, &role,
		&user.TotalStudents, &user.AvailableCourse, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	user.Role = models.Role(role)
	return &user, nil
}
