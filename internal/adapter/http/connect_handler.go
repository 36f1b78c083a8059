package http

import (
	"net/http"
	"strconv"

	"altrion-client/internal/domain/apperr"
	"altrion-client/internal/domain/platform"
	"altrion-client/internal/usecase/dashboard"
	"altrion-client/internal/usecase/linking"

	"github.com/labstack/echo/v4"
)

type ConnectHandler struct {
	dash *dashboard.Usecase
	flow *linking.Flow
}

func NewConnectHandler(dash *dashboard.Usecase, flow *linking.Flow) *ConnectHandler {
	return &ConnectHandler{dash: dash, flow: flow}
}

type pickerScreen struct {
	Catalog   *platform.Catalog   `json:"catalog"`
	Connected []platform.Platform `json:"connected"`
}

// Picker is the platform selection screen. The built-in catalog stands in when
// the backend list is unavailable.
func (h *ConnectHandler) Picker(c echo.Context) error {
	ctx := c.Request().Context()
	cat, err := h.dash.Catalog(ctx)
	if err != nil {
		c.Logger().Warnf("platform catalog: %v", err)
		def := platform.DefaultCatalog
		cat = &def
	}
	connected, err := h.dash.Connected(ctx)
	if err != nil {
		c.Logger().Warnf("connected platforms: %v", err)
		connected = []platform.Platform{}
	}
	return c.JSON(http.StatusOK, pickerScreen{Catalog: cat, Connected: connected})
}

// Start links the chosen platforms one after another and returns the final progress.
func (h *ConnectHandler) Start(c echo.Context) error {
	var req linking.StartRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.NewValidationError("_", "invalid body"))
	}
	snap, err := h.flow.Start(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *ConnectHandler) Status(c echo.Context) error {
	snap, err := h.flow.Status()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *ConnectHandler) Retry(c echo.Context) error {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return writeError(c, apperr.NewValidationError("index", "must be a number"))
	}
	snap, err := h.flow.Retry(c.Request().Context(), i)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *ConnectHandler) Disconnect(c echo.Context) error {
	if err := h.dash.Disconnect(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ConnectHandler) Verify(c echo.Context) error {
	res, err := h.dash.Verify(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ConnectHandler) Sync(c echo.Context) error {
	res, err := h.dash.Sync(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
