package mpesa

import (
	"context"

	"agripay/internal/domain"
)

// responseCodeAccepted is the Daraja sentinel for an accepted STK push.
const responseCodeAccepted = "0"

// InitiationError is returned when the provider rejects an STK push or the
// intermediary cannot be reached. Description carries the provider's
// human-readable reason when one was given.
type InitiationError struct {
	Description string
	Err         error
}

func (e *InitiationError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return "payment initiation failed"
}

func (e *InitiationError) Unwrap() error {
	return e.Err
}

// Gateway submits exactly one push-payment initiation per call. It never
// retries and writes no local state; retry policy belongs to the caller.
type Gateway struct {
	initiator Initiator
}

// NewGateway creates a new Gateway.
func NewGateway(initiator Initiator) *Gateway {
	return &Gateway{initiator: initiator}
}

// Initiate submits the STK push and returns the provider-issued
// CheckoutRequestID. The phone number must already be normalized and the
// amount positive; callers validate before reaching this layer.
func (g *Gateway) Initiate(ctx context.Context, req domain.PaymentRequest) (string, error) {
	resp, err := g.initiator.InitiatePush(ctx, InitiateRequest{
		PhoneNumber:      req.PhoneNumber,
		Amount:           req.Amount,
		AccountReference: req.AccountReference,
		TransactionDesc:  req.Description,
	})
	if err != nil {
		return "", &InitiationError{Err: err}
	}

	if resp.ResponseCode != responseCodeAccepted || resp.CheckoutRequestID == "" {
		return "", &InitiationError{Description: resp.ResponseDescription}
	}

	return resp.CheckoutRequestID, nil
}
