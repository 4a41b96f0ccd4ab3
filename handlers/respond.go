package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the uniform JSON response wrapper
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Stats   interface{} `json:"stats,omitempty"`
	Grouped interface{} `json:"grouped,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

func respondData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

func respondList(c echo.Context, status int, data interface{}, stats interface{}, grouped interface{}, count int) error {
	return c.JSON(status, Envelope{
		Success: true,
		Data:    data,
		Stats:   stats,
		Grouped: grouped,
		Count:   &count,
	})
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Error: message})
}

// respondServerError logs the underlying error and returns a generic message.
// Raw database errors are never echoed to the caller.
func respondServerError(c echo.Context, message string, err error) error {
	log.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	return respondError(c, http.StatusInternalServerError, message)
}
