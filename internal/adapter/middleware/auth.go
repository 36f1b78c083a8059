package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	routeLogin      = "/login"
	routeOnboarding = "/onboarding"
	routeDashboard  = "/dashboard"
)

type SessionReader interface {
	IsAuthenticated() bool
}

type DisplayNames interface {
	DisplayName(ctx context.Context) (string, error)
}

// RequireAuth sends signed-out visitors to the login screen, remembering where
// they were headed in ?from=.
func RequireAuth(s SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s.IsAuthenticated() {
				return next(c)
			}
			from := c.Request().URL.Path
			return c.Redirect(http.StatusFound, routeLogin+"?from="+url.QueryEscape(from))
		}
	}
}

// PublicOnly keeps signed-in users off the login and signup screens: to
// onboarding when no display name was chosen, otherwise to ?from= or the dashboard.
func PublicOnly(s SessionReader, names DisplayNames) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !s.IsAuthenticated() {
				return next(c)
			}
			name, err := names.DisplayName(c.Request().Context())
			if err != nil || name == "" {
				return c.Redirect(http.StatusFound, routeOnboarding)
			}
			return c.Redirect(http.StatusFound, safeFrom(c.QueryParam("from")))
		}
	}
}

// safeFrom only follows local paths.
func safeFrom(from string) string {
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return routeDashboard
	}
	return from
}
