package common

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, &ErrorResponse{Error: message})
}

// SendClientErrorDetails sends a client error response with a details string
func SendClientErrorDetails(c echo.Context, message, details string) error {
	return c.JSON(http.StatusBadRequest, &ErrorResponse{Error: message, Details: details})
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, &ErrorResponse{Error: message})
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, &ErrorResponse{Error: fmt.Sprintf("%s not found", resource)})
}

// SendConflictError sends a conflict error response
func SendConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, &ErrorResponse{Error: message})
}
