package postgres

import (
	"context"
	"database/sql"

	"agripay/internal/domain"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// NewOrderRepositoryWithTx creates an order repository using a transaction.
func NewOrderRepositoryWithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{q: tx}
}

// CreateCropOrder persists a marketplace crop order.
func (r *OrderRepository) CreateCropOrder(ctx context.Context, order *domain.CropOrder) error {
	query := `
		INSERT INTO crop_orders (id, customer_id, listing_id, amount, receipt_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		order.ID,
		order.CustomerID,
		order.ListingID,
		order.Amount,
		order.ReceiptNumber,
		order.CreatedAt,
	)

	return err
}

// CreateCourseEnrollment persists a course unlock.
func (r *OrderRepository) CreateCourseEnrollment(ctx context.Context, enrollment *domain.CourseEnrollment) error {
	query := `
		INSERT INTO course_enrollments (id, customer_id, course_id, amount, receipt_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		enrollment.ID,
		enrollment.CustomerID,
		enrollment.CourseID,
		enrollment.Amount,
		enrollment.ReceiptNumber,
		enrollment.CreatedAt,
	)

	return err
}

// CreateLoanApplication persists a paid loan application.
func (r *OrderRepository) CreateLoanApplication(ctx context.Context, application *domain.LoanApplication) error {
	query := `
		INSERT INTO loan_applications (id, customer_id, product_id, fee_amount, receipt_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		application.ID,
		application.CustomerID,
		application.ProductID,
		application.FeeAmount,
		application.ReceiptNumber,
		application.CreatedAt,
	)

	return err
}
