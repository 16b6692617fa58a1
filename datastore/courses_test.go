package datastore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreybb/learnlanguage/models"
)

var courseRowColumns = []string{
	"id", "name", "image", "instructor_name", "instructor_email",
	"available_seats", "price", "students", "status", "feedback", "created_at",
}

const courseID = "7d3f2a52-6c0e-4a51-9a8e-2d3b5a2b9f10"

func TestCourseRepository_GetApprovedCourses(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourseRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM courses WHERE status = \$1`).
		WithArgs("approved").
		WillReturnRows(sqlmock.NewRows(courseRowColumns).
			AddRow(courseID, "Spanish 101", "img", "T", "t@x.com", 10, 49.5, 3, "approved", "", now))

	got, err := repo.GetApprovedCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.CourseStatusApproved, got[0].Status)
	assert.Equal(t, 49.5, got[0].Price)
}

func TestCourseRepository_GetCourseByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourseRepository(db)

	mock.ExpectQuery(`FROM courses WHERE id = \$1`).
		WithArgs(courseID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetCourseByID(context.Background(), courseID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCourseRepository_GetPaidCourses(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourseRepository(db)

	mock.ExpectQuery(`(?s)JOIN payments p ON p.course_id = c.id\s+WHERE p.user_email = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(courseRowColumns).
			AddRow(courseID, "Spanish 101", "", "T", "t@x.com", 9, 10.0, 1, "approved", "", time.Now()))

	got, err := repo.GetPaidCourses(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, courseID, got[0].ID)
}

func TestCourseRepository_ReserveSeat(t *testing.T) {
	t.Run("reserved", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCourseRepository(db)
		mock.ExpectExec(`(?s)UPDATE courses\s+SET available_seats = available_seats - 1, students = students \+ 1\s+WHERE id = \$1 AND available_seats > 0`).
			WithArgs(courseID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.ReserveSeat(context.Background(), courseID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("full", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewCourseRepository(db)
		mock.ExpectExec(`UPDATE courses`).
			WithArgs(courseID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.ReserveSeat(context.Background(), courseID), ErrNotFound)
	})
}

func TestCourseRepository_UpdateCourseStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourseRepository(db)

	mock.ExpectExec(`UPDATE courses SET status = \$2, feedback = \$3 WHERE id = \$1`).
		WithArgs(courseID, "denied", "needs audio").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateCourseStatus(context.Background(), courseID, models.CourseStatusDenied, "needs audio")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_UpdateCourseInfo(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCourseRepository(db)
	name := "Spanish 102"

	mock.ExpectExec(`(?s)UPDATE courses SET.*COALESCE`).
		WithArgs(courseID, name, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateCourseInfo(context.Background(), courseID, CourseUpdate{Name: &name})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
