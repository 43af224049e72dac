package mpesa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// InitiateRequest is the body sent to the STK push intermediary.
type InitiateRequest struct {
	PhoneNumber      string  `json:"phone_number"`
	Amount           float64 `json:"amount"`
	AccountReference string  `json:"account_reference"`
	TransactionDesc  string  `json:"transaction_desc"`
}

// InitiateResponse is the intermediary's reply, mirroring the Daraja STK
// push response fields.
type InitiateResponse struct {
	ResponseCode        string `json:"ResponseCode"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseDescription string `json:"ResponseDescription"`
}

// Initiator submits an STK push request to the payment provider.
type Initiator interface {
	InitiatePush(ctx context.Context, req InitiateRequest) (*InitiateResponse, error)
}

// StkClient is an HTTP Initiator talking to the trusted server-side
// intermediary that holds the Daraja credentials.
type StkClient struct {
	initiateURL string
	apiKey      string
	httpClient  *http.Client
}

// NewStkClient creates a new StkClient.
func NewStkClient(initiateURL, apiKey string, timeout time.Duration) *StkClient {
	return &StkClient{
		initiateURL: initiateURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// InitiatePush posts the request to the intermediary and decodes its reply.
func (c *StkClient) InitiatePush(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode initiate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.initiateURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build initiate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("initiate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("initiate endpoint returned %d: %s", resp.StatusCode, payload)
	}

	var out InitiateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode initiate response: %w", err)
	}

	return &out, nil
}
