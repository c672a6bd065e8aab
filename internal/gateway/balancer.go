package gateway

import (
	"strings"
	"sync"

	"github.com/tair/pharmacy-backend/pkg/logger"
)

const defaultUpstream = "http://localhost:4000"

// RoundRobin hands out upstream base URLs in turn
type RoundRobin struct {
	servers []string
	current int
	mu      sync.Mutex
}

// NewRoundRobin creates a balancer; trailing slashes are dropped
func NewRoundRobin(servers []string) *RoundRobin {
	cleaned := make([]string, 0, len(servers))
	for _, s := range servers {
		if s = strings.TrimRight(s, "/"); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		cleaned = []string{defaultUpstream}
	}

	logger.Logger.Info().
		Int("server_count", len(cleaned)).
		Strs("servers", cleaned).
		Msg("Round-robin load balancer initialized")

	return &RoundRobin{servers: cleaned}
}

// Next returns the next server in round-robin order
func (rr *RoundRobin) Next() string {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	server := rr.servers[rr.current]
	rr.current = (rr.current + 1) % len(rr.servers)
	return server
}

// Servers returns a copy of the pool
func (rr *RoundRobin) Servers() []string {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return append([]string{}, rr.servers...)
}
