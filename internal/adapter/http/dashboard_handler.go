package http

import (
	"net/http"

	"altrion-client/internal/domain/portfolio"
	"altrion-client/internal/store"
	"altrion-client/internal/usecase/dashboard"

	"github.com/labstack/echo/v4"
)

type DashboardHandler struct{ uc *dashboard.Usecase }

func NewDashboardHandler(uc *dashboard.Usecase) *DashboardHandler { return &DashboardHandler{uc: uc} }

func (h *DashboardHandler) Overview(c echo.Context) error {
	ov, err := h.uc.Overview(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ov)
}

type filterReq struct {
	Type string `json:"type" query:"type"`
}

func (h *DashboardHandler) Filter(c echo.Context) error {
	var req filterReq
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	ov, err := h.uc.SetFilter(c.Request().Context(), store.AssetFilter(req.Type))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ov)
}

func (h *DashboardHandler) History(c echo.Context) error {
	period := portfolio.Period(c.QueryParam("period"))
	if period == "" {
		period = h.uc.ChartPeriod()
	}
	pts, err := h.uc.History(c.Request().Context(), period)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"period": period, "points": pts})
}

func (h *DashboardHandler) Eligibility(c echo.Context) error {
	el, err := h.uc.Eligibility(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, el)
}

func (h *DashboardHandler) Asset(c echo.Context) error {
	a, err := h.uc.Asset(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *DashboardHandler) Refresh(c echo.Context) error {
	p, err := h.uc.Refresh(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Focus revalidates the focus-sensitive queries, as when the user comes back to the app.
func (h *DashboardHandler) Focus(c echo.Context) error {
	h.uc.Focus(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}
