package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swaplens/backend/internal/domain"
	"github.com/swaplens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	swapService *usecase.SwapService
}

// NewHandler creates a new HTTP handler
func NewHandler(swapService *usecase.SwapService) *Handler {
	return &Handler{swapService: swapService}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "swaplens-backend",
		"version": "1.0.0",
	})
}

// GetSwaps resolves swap alternatives for a product identifier.
func (h *Handler) GetSwaps(c *gin.Context) {
	if h.swapService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Swap service not available",
		})
		return
	}

	productID := c.Param("id")
	result, err := h.swapService.GetSwaps(c.Request.Context(), productID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid product identifier",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to resolve swaps",
			})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
