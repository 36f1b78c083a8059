package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"altrion-client/internal/domain/apperr"
)

func TestDo_SetsHeadersAndDecodes(t *testing.T) {
	var gotAuth, gotReqID, gotCT, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		gotCT = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalValue":1234.5}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second, TokenFunc(func() string { return "tok-1" }))
	var out struct {
		TotalValue float64 `json:"totalValue"`
	}
	if err := c.Get(context.Background(), "portfolio/history", url.Values{"period": {"24H"}}, &out); err != nil {
		t.Fatalf("Get err: %v", err)
	}

	if out.TotalValue != 1234.5 {
		t.Fatalf("totalValue = %v", out.TotalValue)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotReqID == "" {
		t.Fatalf("request id header missing")
	}
	if gotCT != "application/json" {
		t.Fatalf("content type = %q", gotCT)
	}
	if gotQuery != "period=24H" {
		t.Fatalf("query = %q", gotQuery)
	}
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, TokenFunc(func() string { return "" }))
	if err := c.Post(context.Background(), "/auth/logout", nil, nil); err != nil {
		t.Fatalf("Post err: %v", err)
	}
	if hadAuth {
		t.Fatalf("authorization header sent without a token")
	}
}

func TestDo_NonSuccessIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid email or password"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, nil)
	err := c.Post(context.Background(), "/auth/signin", map[string]string{"email": "a@b.co"}, nil)

	var apiErr *apperr.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %T", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.StatusText != "Unauthorized" {
		t.Fatalf("status = %d %q", apiErr.Status, apiErr.StatusText)
	}
	if got := apiErr.Message(); got != "Invalid email or password" {
		t.Fatalf("message = %q", got)
	}
	if !apperr.IsClientError(err) {
		t.Fatalf("401 should be a client error")
	}
}

func TestDo_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL, time.Second, nil).Get(context.Background(), "/portfolio", nil, nil)
	var apiErr *apperr.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want APIError, got %T", err)
	}
	if apiErr.Body != nil {
		t.Fatalf("body = %#v, want nil", apiErr.Body)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Fatalf("status = %d", apiErr.Status)
	}
}

func TestDo_TimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, 50*time.Millisecond, nil)
	err := c.Get(context.Background(), "/portfolio", nil, nil)

	var netErr *apperr.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("want NetworkError, got %T: %v", err, err)
	}
	if !netErr.Timeout {
		t.Fatalf("timeout not flagged")
	}
	if k := apperr.KindOf(err); k != apperr.KindNetwork {
		t.Fatalf("kind = %s", k)
	}
}

func TestDo_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	err := New(addr, time.Second, nil).Get(context.Background(), "/portfolio", nil, nil)
	var netErr *apperr.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("want NetworkError, got %T", err)
	}
	if netErr.Timeout {
		t.Fatalf("refused connection flagged as timeout")
	}
}
