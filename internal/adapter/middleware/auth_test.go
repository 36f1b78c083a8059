package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type fakeSession struct {
	authed bool
	name   string
}

func (f fakeSession) IsAuthenticated() bool { return f.authed }

func (f fakeSession) DisplayName(context.Context) (string, error) { return f.name, nil }

func serve(t *testing.T, mw echo.MiddlewareFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "screen") }
	e.GET("/*", ok, mw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRequireAuth(t *testing.T) {
	rec := serve(t, RequireAuth(fakeSession{}), "/dashboard/loan")
	if rec.Code != http.StatusFound {
		t.Fatalf("want 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?from=%2Fdashboard%2Floan" {
		t.Fatalf("Location = %q", loc)
	}

	rec = serve(t, RequireAuth(fakeSession{authed: true}), "/dashboard/loan")
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated => want 200, got %d", rec.Code)
	}
}

func TestPublicOnly(t *testing.T) {
	cases := []struct {
		name    string
		session fakeSession
		target  string
		code    int
		loc     string
	}{
		{"signed out sees screen", fakeSession{}, "/login", http.StatusOK, ""},
		{"no display name", fakeSession{authed: true}, "/login", http.StatusFound, "/onboarding"},
		{"back to from", fakeSession{authed: true, name: "Ada"}, "/login?from=/dashboard/loan", http.StatusFound, "/dashboard/loan"},
		{"default dashboard", fakeSession{authed: true, name: "Ada"}, "/signup", http.StatusFound, "/dashboard"},
		{"external from ignored", fakeSession{authed: true, name: "Ada"}, "/login?from=//evil.example", http.StatusFound, "/dashboard"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, PublicOnly(tc.session, tc.session), tc.target)
			if rec.Code != tc.code {
				t.Fatalf("code = %d, want %d", rec.Code, tc.code)
			}
			if got := rec.Header().Get("Location"); got != tc.loc {
				t.Fatalf("Location = %q, want %q", got, tc.loc)
			}
		})
	}
}
