package apimock

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
)

func TestAPI_ReplyDecodesIntoOut(t *testing.T) {
	m := New().Reply(http.MethodGet, "/portfolio", map[string]any{"totalValue": 10.5})

	var out struct {
		TotalValue float64 `json:"totalValue"`
	}
	if err := m.Get(context.Background(), "/portfolio", nil, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.TotalValue != 10.5 {
		t.Fatalf("decode mismatch: %+v", out)
	}
	if m.Count(http.MethodGet, "/portfolio") != 1 {
		t.Fatalf("call not recorded")
	}
}

func TestAPI_FailAndUnstubbed(t *testing.T) {
	boom := errors.New("boom")
	m := New().Fail(http.MethodPost, "/auth/logout", boom)

	if err := m.Post(context.Background(), "/auth/logout", nil, nil); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if err := m.Delete(context.Background(), "/platforms/x/connection", nil); !errors.Is(err, errUnimplemented) {
		t.Fatalf("want errUnimplemented, got %v", err)
	}
}

func TestAPI_OnSeesParamsAndBody(t *testing.T) {
	m := New().On(http.MethodGet, "/portfolio/history", func(_ context.Context, p url.Values, _ any) (any, error) {
		if p.Get("period") != "7D" {
			t.Fatalf("period mismatch: %v", p)
		}
		return []any{}, nil
	})
	var out []map[string]any
	if err := m.Get(context.Background(), "/portfolio/history", url.Values{"period": {"7D"}}, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calls := m.Calls(); len(calls) != 1 || calls[0].Params.Get("period") != "7D" {
		t.Fatalf("unexpected calls: %+v", calls)
	}
}
