package tests

import (
	"context"
	"errors"
	"testing"

	"agripay/internal/domain"
	"agripay/internal/service"
)

func TestCallback_SuccessfulResultCompletesRecord(t *testing.T) {
	t.Parallel()

	transactions := NewMockTransactionRepository()
	svc := service.NewCallbackService(transactions)

	err := svc.ApplyResult(context.Background(), service.StkResult{
		CheckoutRequestID: "ws_CO_123",
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
		Amount:            1500,
		MpesaReceipt:      "QJ7XXXX",
		PhoneNumber:       "254712345678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record := transactions.GetRecord("ws_CO_123")
	if record == nil {
		t.Fatal("record not written")
	}
	if record.Status != domain.TransactionStatusCompleted {
		t.Errorf("expected completed, got %s", record.Status)
	}
	if record.MpesaReceiptNumber != "QJ7XXXX" {
		t.Errorf("expected receipt QJ7XXXX, got %q", record.MpesaReceiptNumber)
	}
}

func TestCallback_NonZeroResultFailsRecord(t *testing.T) {
	t.Parallel()

	transactions := NewMockTransactionRepository()
	svc := service.NewCallbackService(transactions)

	err := svc.ApplyResult(context.Background(), service.StkResult{
		CheckoutRequestID: "ws_CO_456",
		ResultCode:        1032,
		ResultDesc:        "Request cancelled by user",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record := transactions.GetRecord("ws_CO_456")
	if record == nil {
		t.Fatal("record not written")
	}
	if record.Status != domain.TransactionStatusFailed {
		t.Errorf("expected failed, got %s", record.Status)
	}
	if record.ResultDesc != "Request cancelled by user" {
		t.Errorf("unexpected result desc %q", record.ResultDesc)
	}
}

func TestCallback_RedeliveryDoesNotRewriteTerminalRecord(t *testing.T) {
	t.Parallel()

	transactions := NewMockTransactionRepository()
	svc := service.NewCallbackService(transactions)

	first := service.StkResult{
		CheckoutRequestID: "ws_CO_789",
		ResultCode:        0,
		MpesaReceipt:      "QJ7XXXX",
	}
	if err := svc.ApplyResult(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A re-delivered callback with a contradictory outcome is absorbed.
	second := service.StkResult{
		CheckoutRequestID: "ws_CO_789",
		ResultCode:        1037,
		ResultDesc:        "DS timeout",
	}
	if err := svc.ApplyResult(context.Background(), second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record := transactions.GetRecord("ws_CO_789")
	if record.Status != domain.TransactionStatusCompleted {
		t.Errorf("terminal record was rewritten to %s", record.Status)
	}
}

func TestCallback_MissingCheckoutIDRejected(t *testing.T) {
	t.Parallel()

	svc := service.NewCallbackService(NewMockTransactionRepository())

	err := svc.ApplyResult(context.Background(), service.StkResult{ResultCode: 0})
	if !errors.Is(err, service.ErrInvalidCallback) {
		t.Fatalf("expected ErrInvalidCallback, got %v", err)
	}
}
