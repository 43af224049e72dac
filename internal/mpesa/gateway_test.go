package mpesa

import (
	"context"
	"errors"
	"testing"

	"agripay/internal/domain"
)

// fakeInitiator returns a scripted response and counts calls.
type fakeInitiator struct {
	resp      *InitiateResponse
	err       error
	callCount int
}

func (f *fakeInitiator) InitiatePush(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	f.callCount++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func paymentRequest() domain.PaymentRequest {
	return domain.PaymentRequest{
		PhoneNumber:      "254712345678",
		Amount:           1500,
		AccountReference: "ORDER-42",
		Description:      "Maize seed order",
	}
}

func TestGateway_Initiate_Accepted(t *testing.T) {
	t.Parallel()

	init := &fakeInitiator{resp: &InitiateResponse{
		ResponseCode:      "0",
		CheckoutRequestID: "ws_CO_123",
	}}
	gw := NewGateway(init)

	handle, err := gw.Initiate(context.Background(), paymentRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handle != "ws_CO_123" {
		t.Errorf("expected handle ws_CO_123, got %q", handle)
	}
	if init.callCount != 1 {
		t.Errorf("expected exactly one initiation, got %d", init.callCount)
	}
}

func TestGateway_Initiate_ProviderRejection(t *testing.T) {
	t.Parallel()

	init := &fakeInitiator{resp: &InitiateResponse{
		ResponseCode:        "1",
		ResponseDescription: "Insufficient balance",
	}}
	gw := NewGateway(init)

	_, err := gw.Initiate(context.Background(), paymentRequest())
	if err == nil {
		t.Fatal("expected error for rejected initiation")
	}

	var initErr *InitiationError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected *InitiationError, got %T", err)
	}
	if initErr.Error() != "Insufficient balance" {
		t.Errorf("expected provider description, got %q", initErr.Error())
	}
}

func TestGateway_Initiate_MissingCheckoutID(t *testing.T) {
	t.Parallel()

	init := &fakeInitiator{resp: &InitiateResponse{ResponseCode: "0"}}
	gw := NewGateway(init)

	_, err := gw.Initiate(context.Background(), paymentRequest())
	if err == nil {
		t.Fatal("expected error when checkout request id is absent")
	}
}

func TestGateway_Initiate_TransportError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	gw := NewGateway(&fakeInitiator{err: cause})

	_, err := gw.Initiate(context.Background(), paymentRequest())
	if err == nil {
		t.Fatal("expected error for transport failure")
	}

	var initErr *InitiationError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected *InitiationError, got %T", err)
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped transport error")
	}
	if initErr.Error() != "payment initiation failed" {
		t.Errorf("expected generic message, got %q", initErr.Error())
	}
}
