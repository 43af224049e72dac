package service

import (
	"context"

	"agripay/internal/domain"
	"agripay/internal/repository"
)

// StkResult is the flattened outcome of a Daraja STK result callback.
type StkResult struct {
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Amount            float64
	MpesaReceipt      string
	PhoneNumber       string
}

// CallbackService applies provider result callbacks to the durable
// transaction records the poller reads.
type CallbackService struct {
	transactionRepo repository.TransactionRepository
}

// NewCallbackService creates a new CallbackService.
func NewCallbackService(transactionRepo repository.TransactionRepository) *CallbackService {
	return &CallbackService{transactionRepo: transactionRepo}
}

// ApplyResult upserts the transaction record for a callback. ResultCode 0
// means the subscriber authorized the charge; anything else is a failure
// (declined, insufficient funds, PIN timeout). Re-delivered callbacks for a
// record already terminal are absorbed by the repository guard.
func (s *CallbackService) ApplyResult(ctx context.Context, result StkResult) error {
	if result.CheckoutRequestID == "" {
		return ErrInvalidCallback
	}

	status := domain.TransactionStatusFailed
	if result.ResultCode == 0 {
		status = domain.TransactionStatusCompleted
	}

	return s.transactionRepo.Upsert(ctx, &domain.TransactionRecord{
		TransactionID:      result.CheckoutRequestID,
		Status:             status,
		MpesaReceiptNumber: result.MpesaReceipt,
		Amount:             result.Amount,
		PhoneNumber:        result.PhoneNumber,
		ResultDesc:         result.ResultDesc,
	})
}
