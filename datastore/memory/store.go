// Package memory is an in-process implementation of the datastore
// repositories, used for local runs without PostgreSQL and in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/coreybb/learnlanguage/datastore"
	"github.com/coreybb/learnlanguage/models"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]models.User
	courses  map[string]models.Course
	cart     map[string]models.CartItem
	payments []models.Payment
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]models.User),
		courses: make(map[string]models.Course),
		cart:    make(map[string]models.CartItem),
	}
}

// --- users ---

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return fmt.Errorf("user %s: %w", user.Email, datastore.ErrDuplicate)
	}
	s.users[user.Email] = *user
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, datastore.ErrNotFound)
	}
	return &user, nil
}

func (s *Store) GetUsers(_ context.Context) ([]models.User, error) {
	users := s.filterUsers(func(models.User) bool { return true })
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (s *Store) GetInstructors(_ context.Context) ([]models.User, error) {
	users := s.filterUsers(isInstructor)
	sort.SliceStable(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (s *Store) GetTopInstructors(_ context.Context) ([]models.User, error) {
	users := s.filterUsers(isInstructor)
	sort.SliceStable(users, func(i, j int) bool { return users[i].TotalStudents > users[j].TotalStudents })
	return users, nil
}

func (s *Store) LookupRole(_ context.Context, email string) (models.Role, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[email]
	if !ok {
		return "", false, nil
	}
	return user.Role, true, nil
}

func (s *Store) IncrementTotalStudents(_ context.Context, email string) error {
	return s.updateUser(email, func(u *models.User) { u.TotalStudents++ })
}

func (s *Store) IncrementAvailableCourse(_ context.Context, email string) error {
	return s.updateUser(email, func(u *models.User) { u.AvailableCourse++ })
}

func isInstructor(u models.User) bool { return u.Role == models.RoleInstructor }

func (s *Store) filterUsers(keep func(models.User) bool) []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := []models.User{}
	for _, u := range s.users {
		if keep(u) {
			users = append(users, u)
		}
	}
	return users
}

func (s *Store) updateUser(email string, apply func(*models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return fmt.Errorf("user %s: %w", email, datastore.ErrNotFound)
	}
	apply(&user)
	s.users[email] = user
	return nil
}

// --- courses ---

func (s *Store) CreateCourse(_ context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[course.ID] = *course
	return nil
}

func (s *Store) GetCourseByID(_ context.Context, id string) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[id]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", id, datastore.ErrNotFound)
	}
	return &course, nil
}

func (s *Store) GetApprovedCourses(_ context.Context) ([]models.Course, error) {
	courses := s.filterCourses(func(c models.Course) bool { return c.Status == models.CourseStatusApproved })
	sortNewestFirst(courses)
	return courses, nil
}

func (s *Store) GetTopCourses(_ context.Context) ([]models.Course, error) {
	courses := s.filterCourses(func(models.Course) bool { return true })
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].Students > courses[j].Students })
	return courses, nil
}

func (s *Store) GetCourses(_ context.Context) ([]models.Course, error) {
	courses := s.filterCourses(func(models.Course) bool { return true })
	sortNewestFirst(courses)
	return courses, nil
}

func (s *Store) GetCoursesByInstructor(_ context.Context, instructorEmail string) ([]models.Course, error) {
	courses := s.filterCourses(func(c models.Course) bool { return c.InstructorEmail == instructorEmail })
	sortNewestFirst(courses)
	return courses, nil
}

func (s *Store) GetPaidCourses(_ context.Context, userEmail string) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	courses := []models.Course{}
	for i := len(s.payments) - 1; i >= 0; i-- {
		p := s.payments[i]
		if p.UserEmail != userEmail {
			continue
		}
		if c, ok := s.courses[p.CourseID]; ok {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

func (s *Store) UpdateCourseInfo(_ context.Context, id string, upd datastore.CourseUpdate) error {
	return s.updateCourse(id, func(c *models.Course) bool {
		if upd.Name != nil {
			c.Name = *upd.Name
		}
		if upd.Image != nil {
			c.Image = *upd.Image
		}
		if upd.Price != nil {
			c.Price = *upd.Price
		}
		if upd.AvailableSeats != nil {
			c.AvailableSeats = *upd.AvailableSeats
		}
		return true
	})
}

func (s *Store) UpdateCourseStatus(_ context.Context, id string, status models.CourseStatus, feedback string) error {
	return s.updateCourse(id, func(c *models.Course) bool {
		c.Status = status
		c.Feedback = feedback
		return true
	})
}

func (s *Store) ReserveSeat(_ context.Context, id string) error {
	return s.updateCourse(id, func(c *models.Course) bool {
		if c.AvailableSeats <= 0 {
			return false
		}
		c.AvailableSeats--
		c.Students++
		return true
	})
}

func (s *Store) filterCourses(keep func(models.Course) bool) []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	courses := []models.Course{}
	for _, c := range s.courses {
		if keep(c) {
			courses = append(courses, c)
		}
	}
	return courses
}

// updateCourse applies fn under the write lock; fn returning false leaves
// the course untouched and reports it as not found, like a zero-row UPDATE.
func (s *Store) updateCourse(id string, fn func(*models.Course) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[id]
	if !ok || !fn(&course) {
		return fmt.Errorf("course %s: %w", id, datastore.ErrNotFound)
	}
	s.courses[id] = course
	return nil
}

func sortNewestFirst(courses []models.Course) {
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
}

// --- cart ---

func (s *Store) CreateCartItem(_ context.Context, item *models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart[item.ID] = *item
	return nil
}

func (s *Store) GetCartItemsByUser(_ context.Context, userEmail string) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := []models.CartItem{}
	for _, item := range s.cart {
		if item.UserEmail == userEmail {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (s *Store) DeleteCartItem(_ context.Context, id string, userEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.cart[id]
	if !ok || item.UserEmail != userEmail {
		return fmt.Errorf("cart item %s: %w", id, datastore.ErrNotFound)
	}
	delete(s.cart, id)
	return nil
}

// --- payments ---

func (s *Store) CreatePayment(_ context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, *payment)
	return nil
}

func (s *Store) GetPaymentsByUser(_ context.Context, userEmail string) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payments := []models.Payment{}
	for i := len(s.payments) - 1; i >= 0; i-- {
		if s.payments[i].UserEmail == userEmail {
			payments = append(payments, s.payments[i])
		}
	}
	return payments, nil
}
