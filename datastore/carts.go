package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coreybb/learnlanguage/models"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	query := `
		INSERT INTO cart_items (
			id, course_id, user_email, course_name, image, price, instructor_email, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.CourseID, item.UserEmail, item.CourseName,
		item.Image, item.Price, item.InstructorEmail, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) GetCartItemsByUser(ctx context.Context, userEmail string) ([]models.CartItem, error) {
	query := `
		SELECT id, course_id, user_email, course_name, image, price, instructor_email, created_at
		FROM cart_items
		WHERE user_email = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(
			&item.ID, &item.CourseID, &item.UserEmail, &item.CourseName,
			&item.Image, &item.Price, &item.InstructorEmail, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart item row: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart item rows: %w", err)
	}
	return items, nil
}

// DeleteCartItem removes a cart item only if it belongs to userEmail.
func (r *CartRepository) DeleteCartItem(ctx context.Context, id string, userEmail string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_email = $2`, id, userEmail)
	if err != nil {
		return fmt.Errorf("failed to delete cart item %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for cart item %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("cart item %s: %w", id, ErrNotFound)
	}
	return nil
}
