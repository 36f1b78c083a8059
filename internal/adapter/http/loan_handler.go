package http

import (
	"net/http"

	"altrion-client/internal/usecase/dashboard"
	"altrion-client/internal/usecase/loan"
	"altrion-client/internal/usecase/loanflow"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct {
	flow  *loanflow.Machine
	dash  *dashboard.Usecase
	loans *loan.Usecase
}

func NewLoanHandler(flow *loanflow.Machine, dash *dashboard.Usecase, loans *loan.Usecase) *LoanHandler {
	return &LoanHandler{flow: flow, dash: dash, loans: loans}
}

// Application opens the collateral selection screen with fresh holdings.
func (h *LoanHandler) Application(c echo.Context) error {
	holdings, err := h.dash.Holdings(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	view := h.flow.Begin(holdings)
	if tab := loanflow.Tab(c.QueryParam("tab")); tab != "" && tab != view.Tab {
		if view, err = h.flow.Selection(tab); err != nil {
			return writeError(c, err)
		}
	}
	return c.JSON(http.StatusOK, view)
}

type assetReq struct {
	AssetID string `json:"assetId" validate:"required"`
}

type amountReq struct {
	AssetID string  `json:"assetId" validate:"required"`
	Amount  float64 `json:"amount" validate:"gte=0"`
}

type percentageReq struct {
	AssetID    string  `json:"assetId" validate:"required"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
}

type tabReq struct {
	Tab loanflow.Tab `json:"tab" validate:"omitempty,oneof=all crypto stocks cash"`
}

// edit binds the request into req and applies fn to the selection.
func edit[T any](h *LoanHandler, c echo.Context, req *T, fn func(*loanflow.Selection) error) error {
	if err := bind(c, req); err != nil {
		return writeError(c, err)
	}
	view, err := h.flow.Edit(fn)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *LoanHandler) Toggle(c echo.Context) error {
	var req assetReq
	return edit(h, c, &req, func(s *loanflow.Selection) error { return s.Toggle(req.AssetID) })
}

func (h *LoanHandler) SelectAll(c echo.Context) error {
	var req tabReq
	return edit(h, c, &req, func(s *loanflow.Selection) error {
		if req.Tab == "" {
			return s.SelectAll(loanflow.TabAll)
		}
		return s.SelectAll(req.Tab)
	})
}

func (h *LoanHandler) Amount(c echo.Context) error {
	var req amountReq
	return edit(h, c, &req, func(s *loanflow.Selection) error { return s.SetAmount(req.AssetID, req.Amount) })
}

func (h *LoanHandler) Percentage(c echo.Context) error {
	var req percentageReq
	return edit(h, c, &req, func(s *loanflow.Selection) error { return s.SetPercentage(req.AssetID, req.Percentage) })
}

func (h *LoanHandler) Terms(c echo.Context) error {
	var req loanflow.Terms
	return edit(h, c, &req, func(s *loanflow.Selection) error { return s.SetTerms(req) })
}

func (h *LoanHandler) Continue(c echo.Context) error {
	r, err := h.flow.Continue()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *LoanHandler) Review(c echo.Context) error {
	r, err := h.flow.Review()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Confirm prices the reviewed request and moves to the summary screen.
func (h *LoanHandler) Confirm(c echo.Context) error {
	s, err := h.flow.Confirm(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *LoanHandler) Summary(c echo.Context) error {
	s, err := h.flow.Summary()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *LoanHandler) Submit(c echo.Context) error {
	conf, err := h.flow.Submit(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, conf)
}

func (h *LoanHandler) Confirmation(c echo.Context) error {
	conf, err := h.flow.Confirmation()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, conf)
}

type backResp struct {
	Redirect string `json:"redirect"`
}

func (h *LoanHandler) Back(c echo.Context) error {
	to, err := h.flow.Back()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, backResp{Redirect: to})
}

func (h *LoanHandler) Reset(c echo.Context) error {
	h.flow.Reset()
	return c.NoContent(http.StatusNoContent)
}

func (h *LoanHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.flow.Status())
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	ov, err := h.loans.Overview(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ov)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.loans.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) UpdateLoanStatus(c echo.Context) error {
	var req loan.UpdateStatusInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	dto, err := h.loans.UpdateStatus(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
