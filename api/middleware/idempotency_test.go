package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func requestWithPattern(method, url, pattern string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		pattern string
		want    time.Duration
		ok      bool
	}{
		{"checkout", http.MethodPost, "/api/v1/checkout", criticalIdempotencyTTL, true},
		{"checkout confirm", http.MethodPost, "/api/v1/checkout/confirm", criticalIdempotencyTTL, true},
		{"register", http.MethodPost, "/api/v1/auth/register", defaultIdempotencyTTL, true},
		{"order status", http.MethodPost, "/api/admin/v1/orders/{orderId}/status", defaultIdempotencyTTL, true},
		{"product create", http.MethodPost, "/api/admin/v1/products", defaultIdempotencyTTL, true},
		{"non idempotent", http.MethodPost, "/api/v1/auth/login", 0, false},
		{"read only", http.MethodGet, "/api/v1/checkout", 0, false},
	}

	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.pattern)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && ttl != tt.want {
			t.Fatalf("%s: expected ttl=%v got %v", tt.name, tt.want, ttl)
		}
	}
}

func TestRoutePatternNormalizesTrailingSlash(t *testing.T) {
	req := requestWithPattern(http.MethodPost, "/api/v1/checkout/", "/api/v1/checkout/", nil)
	if got := routePattern(req); got != "/api/v1/checkout" {
		t.Fatalf("expected normalized pattern, got %q", got)
	}
}

func TestIdempotencyMiddlewareRequiresHeader(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusCreated)
	})

	req := requestWithPattern(http.MethodPost, "/api/v1/auth/register", "/api/v1/auth/register", strings.NewReader(`{"foo":"bar"}`))
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if handlerCalled {
		t.Fatalf("handler should not run without idempotency key")
	}
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	req := requestWithPattern(http.MethodPost, "/api/v1/checkout", "/api/v1/checkout", strings.NewReader(`{"foo":"bar"}`))
	req.Header.Set("Idempotency-Key", "abc")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected first response 202 got %d", resp.Code)
	}

	replay := requestWithPattern(http.MethodPost, "/api/v1/checkout", "/api/v1/checkout", strings.NewReader(`{"foo":"bar"}`))
	replay.Header.Set("Idempotency-Key", "abc")
	replayResp := httptest.NewRecorder()
	mw(handler).ServeHTTP(replayResp, replay)

	if calls != 1 {
		t.Fatalf("expected handler invoked once, got %d", calls)
	}
	if replayResp.Code != http.StatusAccepted {
		t.Fatalf("expected replayed 202 got %d", replayResp.Code)
	}
	if replayResp.Body.String() != `{"ok":true}` {
		t.Fatalf("expected replayed body, got %s", replayResp.Body.String())
	}
	if ct := replayResp.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected replayed content type, got %q", ct)
	}
}

func TestIdempotencyMiddlewareRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	first := requestWithPattern(http.MethodPost, "/api/v1/checkout", "/api/v1/checkout", strings.NewReader(`{"a":1}`))
	first.Header.Set("Idempotency-Key", "abc")
	mw(handler).ServeHTTP(httptest.NewRecorder(), first)

	second := requestWithPattern(http.MethodPost, "/api/v1/checkout", "/api/v1/checkout", strings.NewReader(`{"a":2}`))
	second.Header.Set("Idempotency-Key", "abc")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, second)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestIdempotencyMiddlewareScopesKeysBySession(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusAccepted)
	})

	userReq := requestWithPattern(http.MethodPost, "/api/v1/checkout", "/api/v1/checkout", strings.NewReader(`{"a":1}`))
	userReq = userReq.WithContext(WithUserID(userReq.Context(), "user-1"))
	userReq.Header.Set("Idempotency-Key", "abc")
	mw(handler).ServeHTTP(httptest.NewRecorder(), userReq)

	guestReq := requestWithPattern(http.MethodPost, "/api/v1/checkout", "/api/v1/checkout", strings.NewReader(`{"a":1}`))
	guestReq = guestReq.WithContext(WithGuestSession(guestReq.Context(), "guest-1"))
	guestReq.Header.Set("Idempotency-Key", "abc")
	mw(handler).ServeHTTP(httptest.NewRecorder(), guestReq)

	if calls != 2 {
		t.Fatalf("expected separate idempotency scopes, handler ran %d times", calls)
	}
}
