package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mkulima/shambamart/internal/domain/errors"
	"github.com/mkulima/shambamart/internal/domain/model"
	"github.com/mkulima/shambamart/internal/server/http/dto"
	"github.com/mkulima/shambamart/internal/usecase"
)

// ItemHandler manages catalog endpoints.
type ItemHandler struct {
	facade CatalogFacade
}

// NewItemHandler constructs ItemHandler.
func NewItemHandler(facade CatalogFacade) *ItemHandler {
	return &ItemHandler{facade: facade}
}

// Create handles POST /api/items.
func (h *ItemHandler) Create(c *gin.Context) {
	sellerID := CurrentBuyerID(c)
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	item, err := h.facade.CreateItem(c.Request.Context(), sellerID, toItemInput(req))
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidItem) {
			c.Status(http.StatusUnprocessableEntity)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, toItemResponse(*item))
}

// List handles GET /api/items.
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.facade.Items(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		response = append(response, toItemResponse(it))
	}
	c.JSON(http.StatusOK, response)
}

// Mine handles GET /api/seller/items.
func (h *ItemHandler) Mine(c *gin.Context) {
	sellerID := CurrentBuyerID(c)
	items, err := h.facade.SellerItems(c.Request.Context(), sellerID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		response = append(response, toItemResponse(it))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	item, err := h.facade.Item(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(*item))
}

// Update handles PATCH /api/items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
	sellerID := CurrentBuyerID(c)
	id, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	item, err := h.facade.UpdateItem(c.Request.Context(), sellerID, id, toItemInput(req))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrNotOwner):
			c.Status(http.StatusForbidden)
		case errors.Is(err, domainErrors.ErrInvalidItem):
			c.Status(http.StatusUnprocessableEntity)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, toItemResponse(*item))
}

// Remove handles DELETE /api/items/:id.
func (h *ItemHandler) Remove(c *gin.Context) {
	sellerID := CurrentBuyerID(c)
	id, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.facade.RemoveItem(c.Request.Context(), sellerID, id)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrNotOwner):
			c.Status(http.StatusForbidden)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func toItemInput(req dto.ItemRequest) usecase.ItemInput {
	return usecase.ItemInput{
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		AgeMonths: req.AgeMonths,
		Price:     req.Price,
	}
}

func toItemResponse(item model.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:        item.ID,
		SellerID:  item.SellerID,
		Name:      item.Name,
		Species:   item.Species,
		Breed:     item.Breed,
		AgeMonths: item.AgeMonths,
		Price:     item.Price,
		Available: item.Available,
		CreatedAt: item.CreatedAt,
	}
}
