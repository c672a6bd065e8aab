package gateway

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/pharmacy-backend/pkg/logger"
)

// hop-by-hop headers are not forwarded in either direction
var hopHeaders = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailer":             true,
	"transfer-encoding":   true,
	"upgrade":             true,
}

// ReverseProxy forwards requests to the API upstreams
type ReverseProxy struct {
	balancer *RoundRobin
	client   *http.Client
}

// NewReverseProxy creates a new reverse proxy
func NewReverseProxy(balancer *RoundRobin) *ReverseProxy {
	return &ReverseProxy{
		balancer: balancer,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Handler forwards the request unchanged and copies the upstream reply
func (p *ReverseProxy) Handler(c *fiber.Ctx) error {
	serverURL := p.balancer.Next()
	targetURL := buildTargetURL(c, serverURL)

	req, err := http.NewRequestWithContext(c.UserContext(), c.Method(), targetURL, bytes.NewReader(c.Body()))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create request"})
	}
	copyHeaders(c, req)

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Error(c.UserContext()).
			Err(err).
			Str("target_url", serverURL).
			Str("path", c.Path()).
			Msg("Upstream unreachable")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to reach backend service"})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to read response"})
	}

	for key, values := range resp.Header {
		lower := strings.ToLower(key)
		if lower == "content-length" || hopHeaders[lower] {
			continue
		}
		for _, value := range values {
			c.Response().Header.Add(key, value)
		}
	}
	c.Status(resp.StatusCode)
	return c.Send(body)
}

func buildTargetURL(c *fiber.Ctx, serverURL string) string {
	target := serverURL + string(c.Request().URI().Path())
	if query := string(c.Request().URI().QueryString()); query != "" {
		target += "?" + query
	}
	return target
}

func copyHeaders(c *fiber.Ctx, req *http.Request) {
	c.Request().Header.VisitAll(func(key, value []byte) {
		k := strings.ToLower(string(key))
		if k == "host" || k == "content-length" || hopHeaders[k] {
			return
		}
		req.Header.Add(string(key), string(value))
	})

	req.Header.Set("X-Forwarded-For", c.IP())
	req.Header.Set("X-Forwarded-Proto", c.Protocol())
	req.Header.Set("X-Forwarded-Host", c.Hostname())
}
