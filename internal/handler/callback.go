package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"agripay/internal/service"
)

// CallbackHandler receives Daraja STK result callbacks.
type CallbackHandler struct {
	callbackService *service.CallbackService
}

// NewCallbackHandler creates a new CallbackHandler.
func NewCallbackHandler(callbackService *service.CallbackService) *CallbackHandler {
	return &CallbackHandler{callbackService: callbackService}
}

// stkCallbackBody mirrors the Daraja STK result payload.
type stkCallbackBody struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string      `json:"Name"`
					Value interface{} `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// Receive handles POST /v1/mpesa/callback. Daraja expects a ResultCode 0
// acknowledgement regardless of the outcome, otherwise it retries delivery.
func (h *CallbackHandler) Receive(c *gin.Context) {
	var body stkCallbackBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid callback body"})
		return
	}

	cb := body.Body.StkCallback
	result := service.StkResult{
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
	}

	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case "Amount":
			if v, ok := item.Value.(float64); ok {
				result.Amount = v
			}
		case "MpesaReceiptNumber":
			if v, ok := item.Value.(string); ok {
				result.MpesaReceipt = v
			}
		case "PhoneNumber":
			switch v := item.Value.(type) {
			case float64:
				result.PhoneNumber = formatMsisdn(v)
			case string:
				result.PhoneNumber = v
			}
		}
	}

	if err := h.callbackService.ApplyResult(c.Request.Context(), result); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}

// formatMsisdn renders the numeric phone field Daraja sends as a digit string.
func formatMsisdn(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
