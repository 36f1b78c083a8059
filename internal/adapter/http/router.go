package http

import (
	mw "altrion-client/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

// Router groups the handlers and the guards mounted in front of them.
type Router struct {
	Base      *Handler
	Auth      *AuthHandler
	Connect   *ConnectHandler
	Dashboard *DashboardHandler
	Loan      *LoanHandler

	Session mw.SessionReader
	Names   mw.DisplayNames
	// Actions guards mutating loan and connect requests against duplicate
	// submission. Nil disables it.
	Actions echo.MiddlewareFunc
}

func (r *Router) Register(e *echo.Echo) {
	e.GET("/health", r.Base.Health)
	e.GET("/", r.Base.Home)

	publicOnly := mw.PublicOnly(r.Session, r.Names)
	e.GET("/login", r.Auth.LoginScreen, publicOnly)
	e.GET("/signup", r.Auth.SignupScreen, publicOnly)

	e.POST("/auth/login", r.Auth.Login)
	e.POST("/auth/signup", r.Auth.Signup)
	e.POST("/auth/logout", r.Auth.Logout)
	e.POST("/logout", r.Auth.Logout)
	e.GET("/auth/oauth/:provider", r.Auth.OAuth)
	e.POST("/auth/forgot-password", r.Auth.ForgotPassword)
	e.POST("/auth/reset-password", r.Auth.ResetPassword)

	requireAuth := mw.RequireAuth(r.Session)
	e.GET("/auth/me", r.Auth.Me, requireAuth)
	e.GET("/onboarding", r.Auth.OnboardingScreen, requireAuth)
	e.POST("/onboarding", r.Auth.Onboard, requireAuth)

	guarded := []echo.MiddlewareFunc{}
	if r.Actions != nil {
		guarded = append(guarded, r.Actions)
	}

	connect := e.Group("/connect", requireAuth)
	connect.GET("", r.Connect.Picker)
	connect.POST("/start", r.Connect.Start, guarded...)
	connect.GET("/status", r.Connect.Status)
	connect.POST("/retry/:index", r.Connect.Retry, guarded...)
	connect.DELETE("/:id", r.Connect.Disconnect)
	connect.GET("/:id/verify", r.Connect.Verify)
	connect.POST("/:id/sync", r.Connect.Sync)

	dash := e.Group("/dashboard", requireAuth)
	dash.GET("", r.Dashboard.Overview)
	dash.POST("/filter", r.Dashboard.Filter)
	dash.GET("/history", r.Dashboard.History)
	dash.GET("/eligibility", r.Dashboard.Eligibility)
	dash.GET("/assets/:id", r.Dashboard.Asset)
	dash.POST("/refresh", r.Dashboard.Refresh)
	dash.POST("/focus", r.Dashboard.Focus)

	dash.GET("/loans", r.Loan.ListLoans)
	dash.GET("/loans/:id", r.Loan.GetLoan)
	dash.PATCH("/loans/:id/status", r.Loan.UpdateLoanStatus)

	flow := dash.Group("/loan")
	flow.GET("", r.Loan.Application)
	flow.GET("/status", r.Loan.Status)
	flow.POST("/toggle", r.Loan.Toggle)
	flow.POST("/select-all", r.Loan.SelectAll)
	flow.POST("/amount", r.Loan.Amount)
	flow.POST("/percentage", r.Loan.Percentage)
	flow.POST("/terms", r.Loan.Terms)
	flow.POST("/continue", r.Loan.Continue)
	flow.GET("/review", r.Loan.Review)
	flow.POST("/confirm", r.Loan.Confirm, guarded...)
	flow.GET("/summary", r.Loan.Summary)
	flow.POST("/submit", r.Loan.Submit, guarded...)
	flow.GET("/confirmation", r.Loan.Confirmation)
	flow.POST("/back", r.Loan.Back)
	flow.POST("/reset", r.Loan.Reset)

	e.RouteNotFound("/*", r.Base.Home)
}
