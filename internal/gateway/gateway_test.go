package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/pharmacy-backend/internal/config"
)

func TestRoundRobin(t *testing.T) {
	rr := NewRoundRobin([]string{"http://a/", "", "http://b"})
	got := []string{rr.Next(), rr.Next(), rr.Next()}
	want := []string{"http://a", "http://b", "http://a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Next sequence = %v, want %v", got, want)
		}
	}

	if servers := NewRoundRobin(nil).Servers(); len(servers) != 1 || servers[0] != defaultUpstream {
		t.Errorf("empty pool = %v, want default upstream", servers)
	}
}

func TestProxyForwardsRequest(t *testing.T) {
	var gotMethod, gotURI, gotAuth, gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotURI = r.URL.RequestURI()
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Upstream", "api")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sale_id":5}`))
	}))
	defer upstream.Close()

	app := New(config.GatewayConfig{UpstreamURLs: []string{upstream.URL}}, Options{})

	req := httptest.NewRequest(http.MethodPost, "/sales?dry=1", strings.NewReader(`{"lines":[]}`))
	req.Header.Set("Authorization", "Bearer t")
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}
	if resp.Header.Get("X-Upstream") != "api" {
		t.Errorf("upstream header not copied")
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"sale_id":5}` {
		t.Errorf("body = %s", body)
	}
	if gotMethod != http.MethodPost || gotURI != "/sales?dry=1" || gotAuth != "Bearer t" || gotBody != `{"lines":[]}` {
		t.Errorf("forwarded %s %s auth=%q body=%q", gotMethod, gotURI, gotAuth, gotBody)
	}
}

func TestProxyUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	app := New(config.GatewayConfig{UpstreamURLs: []string{url}}, Options{})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items", nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

type fakeCounter struct {
	hits int64
	err  error
}

func (f *fakeCounter) Hit(context.Context, string, time.Time, time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	prior := f.hits
	f.hits++
	return prior, nil
}

func limitedApp(counter WindowCounter) *fiber.App {
	app := fiber.New()
	app.Use(NewRateLimiter(counter, 2, time.Minute).Middleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestRateLimiter(t *testing.T) {
	app := limitedApp(&fakeCounter{})

	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if resp.StatusCode != want {
			t.Errorf("request %d status = %d, want %d", i, resp.StatusCode, want)
		}
		if resp.Header.Get("X-RateLimit-Limit") != "2" {
			t.Errorf("request %d limit header = %q", i, resp.Header.Get("X-RateLimit-Limit"))
		}
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	app := limitedApp(&fakeCounter{err: errors.New("redis down")})
	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200 while the counter fails", i, resp.StatusCode)
		}
	}
}

func TestGatewayHealth(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer up.Close()
	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	cases := []struct {
		name       string
		upstreams  []string
		wantStatus string
		wantCode   int
	}{
		{"all up", []string{up.URL}, "healthy", http.StatusOK},
		{"partial", []string{up.URL, downURL}, "degraded", http.StatusOK},
		{"all down", []string{downURL}, "unhealthy", http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := New(config.GatewayConfig{UpstreamURLs: tc.upstreams}, Options{})
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/gateway/health", nil), -1)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			var health GatewayHealth
			if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.StatusCode != tc.wantCode || health.Status != tc.wantStatus {
				t.Errorf("got %d %q, want %d %q", resp.StatusCode, health.Status, tc.wantCode, tc.wantStatus)
			}
			if len(health.Upstreams) != len(tc.upstreams) {
				t.Errorf("upstreams = %+v", health.Upstreams)
			}
		})
	}
}
