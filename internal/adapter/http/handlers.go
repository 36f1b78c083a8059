package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const routeSignup = "/signup"

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Home sends the root and unknown screens to signup.
func (h *Handler) Home(c echo.Context) error {
	return c.Redirect(http.StatusFound, routeSignup)
}
