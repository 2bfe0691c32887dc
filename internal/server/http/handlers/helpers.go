package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mkulima/shambamart/internal/server/http/middleware"
)

// CurrentBuyerID extracts the authenticated buyer identifier from context.
func CurrentBuyerID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.BuyerIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// pathID parses a numeric path parameter; ok is false for garbage.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
