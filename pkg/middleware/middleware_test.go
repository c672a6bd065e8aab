package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/pharmacy-backend/pkg/auth"
	"github.com/tair/pharmacy-backend/pkg/logger"
)

func newRouter(t *testing.T, tokens *auth.TokenManager, reg prometheus.Registerer) *mux.Router {
	t.Helper()
	router := mux.NewRouter()
	cfg := DefaultConfig(tokens, NewMetrics(reg), nil)
	cfg.EnableTracing = false
	Register(router, cfg)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	router.HandleFunc("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.UserID != 7 {
			t.Errorf("claims not propagated: %+v", claims)
		}
		if logger.RequestIDFromContext(r.Context()) == "" {
			t.Errorf("request id missing from context")
		}
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
	router.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}).Methods("GET")
	return router
}

func TestAuthAllowlistAndBearer(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := newRouter(t, tokens, prometheus.NewRegistry())

	token, err := tokens.GenerateToken(7, 1)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"public path", "/health", "", http.StatusOK},
		{"missing token", "/items/1", "", http.StatusUnauthorized},
		{"wrong scheme", "/items/1", "Basic abc", http.StatusUnauthorized},
		{"bad token", "/items/1", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "/items/1", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if rec.Header().Get(RequestIDHeader) == "" {
				t.Fatalf("missing %s header", RequestIDHeader)
			}
		})
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	router := newRouter(t, nil, prometheus.NewRegistry())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q, want abc-123", got)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("security headers not set")
	}
}

func TestRecoveryReturnsJSON500(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	router := newRouter(t, tokens, prometheus.NewRegistry())
	token, _ := tokens.GenerateToken(7, 1)

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Fatalf("body = %s, want error json", rec.Body.String())
	}
}

func TestMetricsUseRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	router := mux.NewRouter()
	router.Use(metrics.Middleware)
	router.HandleFunc("/sales/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/sales/1", "/sales/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		if len(mf.GetMetric()) != 1 {
			t.Fatalf("series = %d, want 1", len(mf.GetMetric()))
		}
		m := mf.GetMetric()[0]
		labels := map[string]string{}
		for _, lp := range m.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		if labels["route"] != "/sales/{id}" || labels["status"] != "404" || m.GetCounter().GetValue() != 2 {
			t.Fatalf("metric = %v value %v", labels, m.GetCounter().GetValue())
		}
		return
	}
	t.Fatalf("http_requests_total not gathered")
}
