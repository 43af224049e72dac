package service

import "errors"

var (
	// ErrInvalidAmount is returned when the payment amount is not positive.
	ErrInvalidAmount = errors.New("invalid payment amount")

	// ErrInvalidAttemptID is returned when the attempt ID is empty.
	ErrInvalidAttemptID = errors.New("invalid attempt id")

	// ErrInvalidCustomerID is returned when the customer ID is empty.
	ErrInvalidCustomerID = errors.New("invalid customer id")

	// ErrInvalidAccountReference is returned when the account reference is empty.
	ErrInvalidAccountReference = errors.New("invalid account reference")

	// ErrInvalidTargetID is returned when a purchase kind requires a target
	// (course, crop listing, loan product) but none was given.
	ErrInvalidTargetID = errors.New("invalid purchase target id")

	// ErrPaymentInFlight is returned when another payment attempt already
	// holds the lock for the same account reference.
	ErrPaymentInFlight = errors.New("a payment for this reference is already in progress")

	// ErrInvalidCallback is returned when a result callback payload is
	// missing its checkout request id.
	ErrInvalidCallback = errors.New("invalid callback payload")
)

// ValidationError is a user-displayable input validation failure. It never
// reaches the network: the flow aborts before any initiation request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
