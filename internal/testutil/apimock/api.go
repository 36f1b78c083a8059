package apimock

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
)

var errUnimplemented = errors.New("apimock: route not stubbed")

// Call records one request seen by the mock.
type Call struct {
	Method string
	Path   string
	Params url.Values
	Body   any
}

// Handler answers one stubbed route. The returned value is JSON round-tripped into
// the caller's out argument.
type Handler func(ctx context.Context, params url.Values, body any) (any, error)

// API is a route-table mock of the backend client. Unstubbed routes fail.
type API struct {
	mu     sync.Mutex
	routes map[string]Handler
	calls  []Call
}

func New() *API { return &API{routes: map[string]Handler{}} }

// On stubs method+path. It replaces any earlier stub for the same route.
func (m *API) On(method, path string, h Handler) *API {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[method+" "+path] = h
	return m
}

// Reply stubs a route with a fixed response.
func (m *API) Reply(method, path string, v any) *API {
	return m.On(method, path, func(context.Context, url.Values, any) (any, error) { return v, nil })
}

// Fail stubs a route with a fixed error.
func (m *API) Fail(method, path string, err error) *API {
	return m.On(method, path, func(context.Context, url.Values, any) (any, error) { return nil, err })
}

func (m *API) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Count returns how many times method+path was called.
func (m *API) Count(method, path string) int {
	n := 0
	for _, c := range m.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (m *API) Get(ctx context.Context, path string, params url.Values, out any) error {
	return m.do(ctx, http.MethodGet, path, params, nil, out)
}

func (m *API) Post(ctx context.Context, path string, body, out any) error {
	return m.do(ctx, http.MethodPost, path, nil, body, out)
}

func (m *API) Put(ctx context.Context, path string, body, out any) error {
	return m.do(ctx, http.MethodPut, path, nil, body, out)
}

func (m *API) Patch(ctx context.Context, path string, body, out any) error {
	return m.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (m *API) Delete(ctx context.Context, path string, out any) error {
	return m.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (m *API) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Method: method, Path: path, Params: params, Body: body})
	h, ok := m.routes[method+" "+path]
	m.mu.Unlock()
	if !ok {
		return errUnimplemented
	}

	v, err := h(ctx, params, body)
	if err != nil {
		return err
	}
	if out == nil || v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
