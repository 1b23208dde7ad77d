package handlers

import (
	"errors"
	"log"
	"net/http"

	"proprental/internal/common"
	"proprental/internal/models"
	"proprental/internal/services"

	"github.com/labstack/echo/v4"
)

// QuoteHandlers handles storefront quote request submissions
type QuoteHandlers struct {
	quoteService services.QuoteService
}

func NewQuoteHandlers(quoteService services.QuoteService) *QuoteHandlers {
	return &QuoteHandlers{quoteService: quoteService}
}

// SubmitQuoteRequest forwards a wishlist quote request to the rental desk
func (h *QuoteHandlers) SubmitQuoteRequest(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.quoteService.Submit(ctx, &req); err != nil {
		if errors.Is(err, services.ErrMailDelivery) {
			log.Printf("WARN: quote request from %s could not be delivered: %v", req.Email, err)
			return c.JSON(http.StatusBadGateway, &common.ErrorResponse{Error: "Failed to send quote request"})
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Quote request sent"})
}
