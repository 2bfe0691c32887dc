package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/server/http/dto"
)

// IdempotencyKeyHeader carries the client-chosen checkout key so a
// retried request does not create a second order.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderHandler manages checkout and order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/orders.
func (h *OrderHandler) Checkout(c *gin.Context) {
	buyerID := CurrentBuyerID(c)

	key := uuid.Nil
	if raw := c.GetHeader(IdempotencyKeyHeader); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		key = parsed
	}

	order, err := h.facade.Checkout(c.Request.Context(), buyerID, key)
	if err != nil {
		var unavailable domainErrors.ItemUnavailableError
		switch {
		case errors.Is(err, domainErrors.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		case errors.As(err, &unavailable):
			c.JSON(http.StatusConflict, gin.H{"error": "item no longer available", "item_id": unavailable.ItemID})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(*order, nil))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	buyerID := CurrentBuyerID(c)
	orders, err := h.facade.Orders(c.Request.Context(), buyerID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o, nil))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	buyerID := CurrentBuyerID(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	order, lines, err := h.facade.Order(c.Request.Context(), orderID, buyerID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order, lines))
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	buyerID := CurrentBuyerID(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.CancelOrder(c.Request.Context(), orderID, buyerID); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInvalidTransition):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.Status(http.StatusOK)
}

func toOrderResponse(order model.Order, lines []model.OrderLine) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:        order.ID,
		Status:    string(order.Status),
		Total:     order.Total,
		Paid:      order.Paid,
		CreatedAt: order.CreatedAt,
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, dto.OrderLineResponse{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}
	return resp
}
