package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/server/http/dto"
)

// CartHandler manages cart endpoints.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// List handles GET /api/cart.
func (h *CartHandler) List(c *gin.Context) {
	buyerID := CurrentBuyerID(c)
	lines, err := h.facade.CartLines(c.Request.Context(), buyerID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.CartLineResponse, 0, len(lines))
	for _, line := range lines {
		response = append(response, toCartLineResponse(line))
	}
	c.JSON(http.StatusOK, response)
}

// Add handles POST /api/cart.
func (h *CartHandler) Add(c *gin.Context) {
	buyerID := CurrentBuyerID(c)
	var req dto.CartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	line, err := h.facade.AddToCart(c.Request.Context(), buyerID, req.ItemID, req.Quantity)
	if err != nil {
		var unavailable domainErrors.ItemUnavailableError
		switch {
		case errors.Is(err, domainErrors.ErrInvalidQuantity):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.As(err, &unavailable):
			c.JSON(http.StatusConflict, gin.H{"error": "item no longer available", "item_id": unavailable.ItemID})
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusCreated, toCartLineResponse(*line))
}

// Update handles PATCH /api/cart/:id.
func (h *CartHandler) Update(c *gin.Context) {
	buyerID := CurrentBuyerID(c)
	lineID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.CartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	line, err := h.facade.UpdateCartLine(c.Request.Context(), buyerID, lineID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidQuantity):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, toCartLineResponse(*line))
}

// Remove handles DELETE /api/cart/:id.
func (h *CartHandler) Remove(c *gin.Context) {
	buyerID := CurrentBuyerID(c)
	lineID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.RemoveCartLine(c.Request.Context(), buyerID, lineID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

func toCartLineResponse(line model.CartLine) dto.CartLineResponse {
	return dto.CartLineResponse{
		ID:        line.ID,
		ItemID:    line.ItemID,
		Quantity:  line.Quantity,
		Price:     line.Price,
		CreatedAt: line.CreatedAt,
	}
}
