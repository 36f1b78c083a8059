package http

import (
	"net/http"
	"strings"

	"altrion-client/internal/domain/form"
	"altrion-client/internal/usecase/session"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct{ uc *session.Usecase }

func NewAuthHandler(uc *session.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

type screen struct {
	Screen string `json:"screen"`
	From   string `json:"from,omitempty"`
}

func (h *AuthHandler) LoginScreen(c echo.Context) error {
	return c.JSON(http.StatusOK, screen{Screen: "login", From: c.QueryParam("from")})
}

func (h *AuthHandler) SignupScreen(c echo.Context) error {
	return c.JSON(http.StatusOK, screen{Screen: "signup"})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req form.Login
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	if from := c.QueryParam("from"); localPath(from) && res.Redirect == session.RouteDashboard {
		res.Redirect = from
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req form.Signup
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.Signup(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	res, err := h.uc.Logout(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// OAuth redirects to the backend URL that starts the provider flow.
func (h *AuthHandler) OAuth(c echo.Context) error {
	u, err := h.uc.OAuthURL(c.Param("provider"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Redirect(http.StatusFound, u)
}

func (h *AuthHandler) Me(c echo.Context) error {
	u, err := h.uc.Me(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req form.ForgotPassword
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.ForgotPassword(c.Request().Context(), req); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusAccepted)
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req form.ResetPassword
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.ResetPassword(c.Request().Context(), req); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type onboardingScreen struct {
	Screen      string `json:"screen"`
	DisplayName string `json:"displayName"`
}

func (h *AuthHandler) OnboardingScreen(c echo.Context) error {
	name, err := h.uc.DisplayName(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if name == "" {
		if u := h.uc.Session().User; u != nil {
			name = u.DisplayName
		}
	}
	return c.JSON(http.StatusOK, onboardingScreen{Screen: "onboarding", DisplayName: name})
}

func (h *AuthHandler) Onboard(c echo.Context) error {
	var req form.Onboarding
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.Onboard(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func localPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//")
}
