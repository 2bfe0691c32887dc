package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/server/http/dto"
)

// PaymentHandler manages payment endpoints.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Initiate handles POST /api/payments.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	buyerID := CurrentBuyerID(c)
	var req dto.PaymentInitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	payment, err := h.facade.InitiatePayment(c.Request.Context(), buyerID, req.OrderID, req.Amount, req.Provider)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrOrderAlreadyPaid):
			c.JSON(http.StatusConflict, gin.H{"error": "order already paid"})
		case errors.Is(err, domainErrors.ErrAmountMismatch):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "amount does not match order total"})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusCreated, toPaymentResponse(*payment))
}

// Complete handles POST /api/payments/:id/complete.
func (h *PaymentHandler) Complete(c *gin.Context) {
	paymentID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	payment, err := h.facade.CompletePayment(c.Request.Context(), paymentID)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(*payment))
}

// Fail handles POST /api/payments/:id/fail.
func (h *PaymentHandler) Fail(c *gin.Context) {
	paymentID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	payment, err := h.facade.FailPayment(c.Request.Context(), paymentID)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(*payment))
}

// ListForOrder handles GET /api/orders/:id/payments.
func (h *PaymentHandler) ListForOrder(c *gin.Context) {
	buyerID := CurrentBuyerID(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	payments, err := h.facade.OrderPayments(c.Request.Context(), buyerID, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		response = append(response, toPaymentResponse(p))
	}
	c.JSON(http.StatusOK, response)
}

func (h *PaymentHandler) writeTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "payment already finalized"})
	case errors.Is(err, domainErrors.ErrOrderAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"error": "order already paid"})
	default:
		c.Status(http.StatusInternalServerError)
	}
}

func toPaymentResponse(payment model.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:        payment.ID,
		OrderID:   payment.OrderID,
		Amount:    payment.Amount,
		Provider:  payment.Provider,
		Status:    string(payment.Status),
		CreatedAt: payment.CreatedAt,
	}
}
