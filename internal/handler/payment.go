package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"agripay/internal/domain"
	"agripay/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	checkoutService *service.CheckoutService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(checkoutService *service.CheckoutService) *PaymentHandler {
	return &PaymentHandler{checkoutService: checkoutService}
}

// CheckoutRequest is the HTTP request body shared by the pay-for-X endpoints.
type CheckoutRequest struct {
	CustomerID  string  `json:"customer_id"`
	PhoneNumber string  `json:"phone_number"`
	Amount      float64 `json:"amount"`
	Reference   string  `json:"account_reference"`
	Description string  `json:"transaction_desc"`
	ListingID   string  `json:"listing_id"`
	ServiceName string  `json:"service_name"`
}

// AttemptResponse is the HTTP response for checkout and status operations.
type AttemptResponse struct {
	ID            string  `json:"id"`
	State         string  `json:"state"`
	Amount        float64 `json:"amount"`
	ReceiptNumber string  `json:"receipt_number,omitempty"`
	FailureReason string  `json:"failure_reason,omitempty"`
}

// Checkout handles POST /v1/payments — generic and service payments.
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	kind := domain.PurchaseKindGeneric
	reference := req.Reference
	description := req.Description
	if req.ServiceName != "" {
		kind = domain.PurchaseKindService
		if reference == "" {
			reference = req.ServiceName
		}
		if description == "" {
			description = "Payment for " + req.ServiceName
		}
	}

	h.checkout(c, service.CheckoutRequest{
		CustomerID:       req.CustomerID,
		Kind:             kind,
		PhoneNumber:      req.PhoneNumber,
		Amount:           req.Amount,
		AccountReference: reference,
		Description:      description,
	})
}

// PurchaseCourse handles POST /v1/courses/:id/purchase.
func (h *PaymentHandler) PurchaseCourse(c *gin.Context) {
	courseID := c.Param("id")

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.checkout(c, service.CheckoutRequest{
		CustomerID:       req.CustomerID,
		Kind:             domain.PurchaseKindCourse,
		TargetID:         courseID,
		PhoneNumber:      req.PhoneNumber,
		Amount:           req.Amount,
		AccountReference: "COURSE-" + courseID,
		Description:      "Course purchase",
	})
}

// OrderCrop handles POST /v1/crops/orders.
func (h *PaymentHandler) OrderCrop(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.ListingID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "listing_id is required"})
		return
	}

	h.checkout(c, service.CheckoutRequest{
		CustomerID:       req.CustomerID,
		Kind:             domain.PurchaseKindCrop,
		TargetID:         req.ListingID,
		PhoneNumber:      req.PhoneNumber,
		Amount:           req.Amount,
		AccountReference: "CROP-" + req.ListingID,
		Description:      "Crop order",
	})
}

// PayLoanFee handles POST /v1/loans/:id/fee.
func (h *PaymentHandler) PayLoanFee(c *gin.Context) {
	productID := c.Param("id")

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.checkout(c, service.CheckoutRequest{
		CustomerID:       req.CustomerID,
		Kind:             domain.PurchaseKindLoanFee,
		TargetID:         productID,
		PhoneNumber:      req.PhoneNumber,
		Amount:           req.Amount,
		AccountReference: "LOAN-" + productID,
		Description:      "Loan application fee",
	})
}

// GetAttempt handles GET /v1/payments/:id
func (h *PaymentHandler) GetAttempt(c *gin.Context) {
	attemptID := c.Param("id")

	status, err := h.checkoutService.GetAttemptStatus(c.Request.Context(), attemptID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, AttemptResponse{
		ID:            status.ID,
		State:         string(status.State),
		Amount:        status.Amount,
		ReceiptNumber: status.ReceiptNumber,
		FailureReason: status.FailureReason,
	})
}

// checkout runs the shared initiation path. The STK prompt is on its way
// when this returns, so the response is 202 and the client polls GetAttempt.
func (h *PaymentHandler) checkout(c *gin.Context, req service.CheckoutRequest) {
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be positive"})
		return
	}
	if req.CustomerID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "customer_id is required"})
		return
	}
	if req.AccountReference == "" {
		req.AccountReference = fmt.Sprintf("%s-%s", req.Kind, req.CustomerID)
	}

	attempt, err := h.checkoutService.Checkout(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusAccepted, AttemptResponse{
		ID:     attempt.ID,
		State:  string(attempt.State),
		Amount: attempt.Amount,
	})
}
