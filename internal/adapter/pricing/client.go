// Package pricing calls the external loan pricing service.
package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"altrion-client/internal/adapter/apiclient"
	"altrion-client/internal/domain/apperr"
	"altrion-client/internal/domain/form"
	"altrion-client/internal/domain/loan"
	"altrion-client/internal/logger"
	"altrion-client/internal/metrics"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:5002"
	calculatePath  = "/loan/calculate"
	source         = "pricing"
)

// Calculator prices a loan request. One call per request, no retries.
type Calculator interface {
	Calculate(ctx context.Context, req loan.Request) (*loan.Response, error)
}

type Client struct {
	api    *apiclient.Client
	schema *gojsonschema.Schema
	log    *zap.Logger
}

var _ Calculator = (*Client)(nil)

// New returns a pricing client. The service is unauthenticated, so no token
// source is attached.
func New(baseURL string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	if err != nil {
		return nil, fmt.Errorf("compile pricing schema: %w", err)
	}
	log = logger.OrNop(log)
	return &Client{
		api:    apiclient.New(baseURL, timeout, nil, apiclient.WithName(source), apiclient.WithLogger(log)),
		schema: schema,
		log:    log,
	}, nil
}

func (c *Client) Calculate(ctx context.Context, req loan.Request) (*loan.Response, error) {
	if err := form.Check(req); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := c.api.Post(ctx, calculatePath, req, &raw); err != nil {
		metrics.LoanCalculations.WithLabelValues(outcome(err)).Inc()
		return nil, normalizeError(err)
	}

	resp, err := c.decode(raw)
	if err != nil {
		metrics.LoanCalculations.WithLabelValues("schema").Inc()
		c.log.Warn("pricing response rejected", zap.Error(err))
		return nil, err
	}
	metrics.LoanCalculations.WithLabelValues("ok").Inc()
	return resp, nil
}

func (c *Client) decode(raw json.RawMessage) (*loan.Response, error) {
	if len(raw) == 0 {
		return nil, &apperr.SchemaError{Source: source, Problems: []string{"empty body"}}
	}
	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &apperr.SchemaError{Source: source, Problems: []string{err.Error()}}
	}
	if !result.Valid() {
		problems := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			problems[i] = desc.String()
		}
		return nil, &apperr.SchemaError{Source: source, Problems: problems}
	}

	var out loan.Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &apperr.SchemaError{Source: source, Problems: []string{err.Error()}}
	}
	if problems := out.Schedule.Check(); len(problems) > 0 {
		return nil, &apperr.SchemaError{Source: source, Problems: problems}
	}
	return &out, nil
}

// normalizeError makes sure an upstream failure carries a message: the
// service's {"error": ...} field, "API Error: <status>" for a JSON body without
// one, or "Unknown error" when the body is not JSON.
func normalizeError(err error) error {
	var apiErr *apperr.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.Message() == "" {
		msg := "Unknown error"
		if apiErr.Body != nil {
			msg = fmt.Sprintf("API Error: %d", apiErr.Status)
		}
		body, _ := apiErr.Body.(map[string]any)
		if body == nil {
			body = map[string]any{}
		}
		body["error"] = msg
		apiErr.Body = body
	}
	return apiErr
}

func outcome(err error) string {
	var apiErr *apperr.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests:
		return "rate_limited"
	case errors.As(err, &apiErr):
		return "status"
	default:
		return "network"
	}
}
