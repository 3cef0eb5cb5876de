// Package ratelimit provides request pacing on top of golang.org/x/time/rate.
// Exchanges publish per-endpoint budgets; aggregators mostly want a minimum
// gap between calls. Both map onto Limiter.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with convenience methods.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter from a requests-per-minute budget.
func New(requestsPerMinute int) *Limiter {
	rps := float64(requestsPerMinute) / 60.0
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// NewInterval creates a limiter enforcing a minimum gap between calls,
// with no burst. A zero or negative gap means no pacing.
func NewInterval(gap time.Duration) *Limiter {
	if gap <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(gap), 1)}
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether an event may happen now.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Tokens returns the current number of available tokens.
func (l *Limiter) Tokens() float64 {
	return l.limiter.Tokens()
}

// SetLimit updates the rate limit from a requests-per-minute budget.
func (l *Limiter) SetLimit(requestsPerMinute int) {
	l.limiter.SetLimit(rate.Limit(float64(requestsPerMinute) / 60.0))
}

// Pacer keeps one interval limiter per named upstream. Unknown names get
// the pacer's default gap on first use.
type Pacer struct {
	mu         sync.Mutex
	defaultGap time.Duration
	limiters   map[string]*Limiter
}

// NewPacer creates a pacer whose unconfigured upstreams use defaultGap.
func NewPacer(defaultGap time.Duration) *Pacer {
	return &Pacer{
		defaultGap: defaultGap,
		limiters:   make(map[string]*Limiter),
	}
}

// Configure sets the gap for one upstream, replacing any existing limiter.
func (p *Pacer) Configure(name string, gap time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.limiters[name] = NewInterval(gap)
}

// Wait blocks until the named upstream's limiter allows a request.
func (p *Pacer) Wait(ctx context.Context, name string) error {
	p.mu.Lock()
	l, ok := p.limiters[name]
	if !ok {
		l = NewInterval(p.defaultGap)
		p.limiters[name] = l
	}
	p.mu.Unlock()
	return l.Wait(ctx)
}
