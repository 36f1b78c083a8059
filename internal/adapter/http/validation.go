package http

import (
	"errors"
	"net/http"
	"strconv"

	"altrion-client/internal/domain/apperr"
	"altrion-client/internal/domain/loan"
	"altrion-client/internal/metrics"
	"altrion-client/internal/usecase/linking"
	"altrion-client/internal/usecase/loanflow"

	"github.com/labstack/echo/v4"
)

// Reusable error payload
type ErrorResponse struct {
	Error   string              `json:"error"`
	Kind    apperr.Kind         `json:"kind,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// bind decodes the request into dst and validates it with the echo validator.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperr.NewValidationError("_", "invalid body")
	}
	return c.Validate(dst)
}

// statusFor maps an error to the response status and payload.
func statusFor(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Error: err.Error(), Kind: apperr.KindOf(err)}

	var (
		valErr    *apperr.ValidationError
		apiErr    *apperr.APIError
		netErr    *apperr.NetworkError
		schemaErr *apperr.SchemaError
	)
	switch {
	case errors.As(err, &valErr):
		resp.Error = "validation failed"
		resp.Details = valErr.Fields
		return http.StatusUnprocessableEntity, resp
	case errors.Is(err, loanflow.ErrCalculationPending),
		errors.Is(err, loanflow.ErrSubmissionPending),
		errors.Is(err, loanflow.ErrSuperseded),
		errors.Is(err, linking.ErrNotRetryable):
		return http.StatusConflict, resp
	case errors.Is(err, loan.ErrNotFound),
		errors.Is(err, loanflow.ErrUnknownAsset),
		errors.Is(err, linking.ErrOutOfRange):
		return http.StatusNotFound, resp
	case errors.Is(err, loan.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, resp
	case errors.As(err, &apiErr):
		if m := apiErr.Message(); m != "" {
			resp.Error = m
		}
		if apiErr.Status >= 500 {
			return http.StatusBadGateway, resp
		}
		return apiErr.Status, resp
	case errors.As(err, &netErr):
		if netErr.Timeout {
			return http.StatusGatewayTimeout, resp
		}
		return http.StatusBadGateway, resp
	case errors.As(err, &schemaErr):
		return http.StatusBadGateway, resp
	default:
		resp.Error = "internal error"
		return http.StatusInternalServerError, resp
	}
}

// writeError renders err. Missing screen state becomes a redirect.
func writeError(c echo.Context, err error) error {
	var missing *apperr.StateMissingError
	if errors.As(err, &missing) {
		return c.Redirect(http.StatusFound, missing.RedirectTo)
	}
	code, resp := statusFor(err)
	if code >= 500 {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(code, resp)
}

// ErrorHandler renders errors that reach echo: routing errors and anything a
// handler or middleware returned instead of writing.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, _ := he.Message.(string)
		if msg == "" {
			msg = http.StatusText(he.Code)
		}
		_ = c.JSON(he.Code, ErrorResponse{Error: msg})
		return
	}
	_ = writeError(c, err)
}

// CountRequests records each served screen by route pattern and status.
func CountRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		status := c.Response().Status
		if err != nil {
			status, _ = statusFor(err)
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			}
		}
		metrics.HTTPRequests.WithLabelValues(c.Path(), strconv.Itoa(status)).Inc()
		return err
	}
}
