package provider

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tair/pharmacy-backend/internal/notification/domain"
	"github.com/tair/pharmacy-backend/pkg/logger"
)

// State represents the state of a circuit breaker
type State string

const (
	StateClosed   State = "closed"    // Normal operation
	StateOpen     State = "open"      // Rejecting sends
	StateHalfOpen State = "half-open" // Probing the provider
)

// ErrCircuitOpen is returned while the breaker rejects sends
var ErrCircuitOpen = errors.New("sms provider circuit is open")

// Breaker wraps a Provider and stops calling it after consecutive failures
type Breaker struct {
	next         domain.Provider
	maxFailures  int
	openFor      time.Duration
	probeSuccess int

	mu              sync.Mutex
	state           State
	failures        int
	successes       int
	lastStateChange time.Time
	now             func() time.Time
}

// NewBreaker opens after maxFailures consecutive failures and probes again
// after openFor. Three successful probes close it.
func NewBreaker(next domain.Provider, maxFailures int, openFor time.Duration) *Breaker {
	return &Breaker{
		next:            next,
		maxFailures:     maxFailures,
		openFor:         openFor,
		probeSuccess:    3,
		state:           StateClosed,
		lastStateChange: time.Now(),
		now:             time.Now,
	}
}

func (b *Breaker) Name() string { return b.next.Name() }

// State returns the current state
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) Send(ctx context.Context, to, body string) (string, error) {
	b.mu.Lock()
	if b.state == StateOpen && b.now().Sub(b.lastStateChange) > b.openFor {
		b.transition(ctx, StateHalfOpen)
	}
	if b.state == StateOpen {
		b.mu.Unlock()
		return "", ErrCircuitOpen
	}
	b.mu.Unlock()

	id, err := b.next.Send(ctx, to, body)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.onFailure(ctx)
	} else {
		b.onSuccess(ctx)
	}
	return id, err
}

func (b *Breaker) onFailure(ctx context.Context) {
	b.failures++
	switch {
	case b.state == StateHalfOpen:
		b.transition(ctx, StateOpen)
	case b.failures >= b.maxFailures:
		logger.Error(ctx).
			Str("provider", b.next.Name()).
			Int("failures", b.failures).
			Msg("SMS circuit breaker opened")
		b.transition(ctx, StateOpen)
	}
}

func (b *Breaker) onSuccess(ctx context.Context) {
	switch b.state {
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.probeSuccess {
			b.transition(ctx, StateClosed)
		}
	case StateClosed:
		b.failures = 0
	}
}

func (b *Breaker) transition(ctx context.Context, to State) {
	b.state = to
	b.lastStateChange = b.now()
	b.successes = 0
	if to == StateClosed {
		b.failures = 0
	}
	logger.Info(ctx).Str("provider", b.next.Name()).Str("state", string(to)).Msg("SMS circuit breaker state changed")
}
