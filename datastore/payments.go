package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/coreybb/learnlanguage/models"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (
			id, user_email, transaction_id, price, cart_item_id, course_id, course_name, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		payment.ID, payment.UserEmail, payment.TransactionID, payment.Price,
		payment.CartItemID, payment.CourseID, payment.CourseName, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// GetPaymentsByUser lists a user's payments, newest first.
func (r *PaymentRepository) GetPaymentsByUser(ctx context.Context, userEmail string) ([]models.Payment, error) {
	query := `
		SELECT id, user_email, transaction_id, price, cart_item_id, course_id, course_name, created_at
		FROM payments
		WHERE user_email = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(
			&p.ID, &p.UserEmail, &p.TransactionID, &p.Price,
			&p.CartItemID, &p.CourseID, &p.CourseName, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}
