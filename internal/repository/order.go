package repository

import (
	"context"

	"agripay/internal/domain"
)

// OrderRepository defines the persistence operations for purchase records
// created after a confirmed payment.
type OrderRepository interface {
	// CreateCropOrder persists a marketplace crop order.
	CreateCropOrder(ctx context.Context, order *domain.CropOrder) error

	// CreateCourseEnrollment persists a course unlock.
	CreateCourseEnrollment(ctx context.Context, enrollment *domain.CourseEnrollment) error

	// CreateLoanApplication persists a paid loan application.
	CreateLoanApplication(ctx context.Context, application *domain.LoanApplication) error
}
