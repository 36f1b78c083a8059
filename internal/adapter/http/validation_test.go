package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"altrion-client/internal/domain/apperr"
	"altrion-client/internal/domain/form"
	"altrion-client/internal/domain/loan"
	"altrion-client/internal/usecase/linking"
	"altrion-client/internal/usecase/loanflow"

	"github.com/labstack/echo/v4"
)

func containsFieldMsg(list []apperr.FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", apperr.NewValidationError("email", "is required"), http.StatusUnprocessableEntity, "validation failed"},
		{"calculation pending", loanflow.ErrCalculationPending, http.StatusConflict, ""},
		{"superseded wrapped", fmt.Errorf("confirm: %w", loanflow.ErrSuperseded), http.StatusConflict, ""},
		{"not retryable", linking.ErrNotRetryable, http.StatusConflict, ""},
		{"loan not found", loan.ErrNotFound, http.StatusNotFound, ""},
		{"unknown asset", loanflow.ErrUnknownAsset, http.StatusNotFound, ""},
		{"api 401", apperr.NewAPIError(401, "", map[string]any{"message": "Invalid credentials"}), http.StatusUnauthorized, "Invalid credentials"},
		{"api 503", apperr.NewAPIError(503, "", nil), http.StatusBadGateway, ""},
		{"timeout", &apperr.NetworkError{Op: "GET /portfolio", Timeout: true}, http.StatusGatewayTimeout, ""},
		{"refused", &apperr.NetworkError{Op: "GET /portfolio", Err: errors.New("refused")}, http.StatusBadGateway, ""},
		{"schema", &apperr.SchemaError{Source: "pricing", Problems: []string{"summary is required"}}, http.StatusBadGateway, ""},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := statusFor(tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			if tc.msg != "" && resp.Error != tc.msg {
				t.Fatalf("expected message %q, got %q", tc.msg, resp.Error)
			}
		})
	}
}

func TestStatusFor_ValidationDetails(t *testing.T) {
	_, resp := statusFor(apperr.NewValidationError("password", "must be at least 8 characters"))
	if resp.Kind != apperr.KindValidation {
		t.Fatalf("expected validation kind, got %q", resp.Kind)
	}
	if !containsFieldMsg(resp.Details, "password", "at least 8") {
		t.Fatalf("missing field detail: %+v", resp.Details)
	}
}

func TestWriteError_StateMissingRedirects(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/dashboard/loan/summary", nil), rec)

	err := writeError(c, &apperr.StateMissingError{Screen: "loan summary", RedirectTo: "/dashboard/loan"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/dashboard/loan" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestBind_InvalidBodyAndTags(t *testing.T) {
	e := echo.New()
	e.Validator = form.NewValidator()

	type payload struct {
		AssetID string `json:"assetId" validate:"required"`
	}
	for _, tc := range []struct {
		body  string
		field string
	}{
		{`{"assetId":`, "_"},
		{`{}`, "assetId"},
	} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c := e.NewContext(req, httptest.NewRecorder())

		var p payload
		err := bind(c, &p)
		var verr *apperr.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("body %s: expected validation error, got %v", tc.body, err)
		}
		if verr.Fields[0].Field != tc.field {
			t.Fatalf("body %s: expected field %q, got %+v", tc.body, tc.field, verr.Fields)
		}
	}
}

func TestErrorHandler_HTTPError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/nope", nil), rec)

	ErrorHandler(echo.ErrMethodNotAllowed, c)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Error == "" {
		t.Fatalf("expected error message")
	}
}
