package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// UpstreamHealth is the probe result of one upstream
type UpstreamHealth struct {
	URL       string `json:"url"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// GatewayHealth is the /gateway/health body
type GatewayHealth struct {
	Gateway   string           `json:"gateway"`
	Status    string           `json:"status"`
	Upstreams []UpstreamHealth `json:"upstreams"`
	Uptime    float64          `json:"uptime_seconds"`
}

// HealthChecker probes every upstream's /health endpoint
type HealthChecker struct {
	balancer  *RoundRobin
	client    *http.Client
	startTime time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(balancer *RoundRobin) *HealthChecker {
	return &HealthChecker{
		balancer:  balancer,
		client:    &http.Client{Timeout: 5 * time.Second},
		startTime: time.Now(),
	}
}

func (h *HealthChecker) checkUpstream(ctx context.Context, baseURL string) UpstreamHealth {
	start := time.Now()
	result := UpstreamHealth{URL: baseURL, Status: "unhealthy"}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		result.Error = fmt.Sprintf("Failed to create request: %v", err)
		return result
	}
	resp, err := h.client.Do(req)
	result.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		result.Error = fmt.Sprintf("Failed to reach upstream: %v", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		result.Status = "healthy"
	} else {
		result.Error = fmt.Sprintf("Unexpected status code: %d", resp.StatusCode)
	}
	return result
}

// Check probes upstreams in pool order. The gateway is healthy when all
// are, degraded when some are and unhealthy when none are.
func (h *HealthChecker) Check(ctx context.Context) GatewayHealth {
	servers := h.balancer.Servers()
	results := make([]UpstreamHealth, len(servers))
	healthy := 0
	for i, s := range servers {
		results[i] = h.checkUpstream(ctx, s)
		if results[i].Status == "healthy" {
			healthy++
		}
	}

	status := "unhealthy"
	switch {
	case healthy == len(servers):
		status = "healthy"
	case healthy > 0:
		status = "degraded"
	}

	return GatewayHealth{
		Gateway:   "pharmacy-gateway",
		Status:    status,
		Upstreams: results,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
}
