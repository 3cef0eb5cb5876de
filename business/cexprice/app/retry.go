package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/ardika/scanarb/business/cexprice/domain"
	"github.com/ardika/scanarb/internal/batcher"
	"github.com/ardika/scanarb/internal/cache"
	"github.com/ardika/scanarb/internal/circuitbreaker"
	"github.com/ardika/scanarb/internal/logger"
)

const maxBackoff = 2 * time.Second

// Result is the settled outcome of a retried fetch. It is always returned,
// never an error: callers branch on OK.
type Result struct {
	OK   bool
	Data *domain.CexQuoteResult
	Err  error
}

// RetryFetcher wraps PriceService with response caching, request
// coalescing, per-exchange circuit breaking and jittered backoff.
type RetryFetcher struct {
	svc      *PriceService
	cache    *cache.Cache[string, *domain.CexQuoteResult]
	batch    *batcher.Batcher[*domain.CexQuoteResult]
	attempts int
	base     time.Duration
	log      logger.LoggerInterface

	mu       sync.Mutex
	breakers map[string]*circuitbreaker.CircuitBreaker[*domain.CexQuoteResult]

	jitter func() float64
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewRetryFetcher creates a fetcher doing at most attempts tries with the
// given backoff base, caching results for ttl.
func NewRetryFetcher(svc *PriceService, attempts int, base time.Duration, ttl time.Duration, maxConcurrent int64, log logger.LoggerInterface) *RetryFetcher {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryFetcher{
		svc:      svc,
		cache:    cache.New[string, *domain.CexQuoteResult](ttl),
		batch:    batcher.New[*domain.CexQuoteResult](maxConcurrent),
		attempts: attempts,
		base:     base,
		log:      log,
		breakers: make(map[string]*circuitbreaker.CircuitBreaker[*domain.CexQuoteResult]),
		jitter:   func() float64 { return 0.75 + rand.Float64()*0.5 },
		sleep:    sleepCtx,
	}
}

// FetchCEXWithRetry resolves one quote, retrying transient failures.
// Identical in-flight requests are coalesced and fresh results are served
// from cache without touching the exchange.
func (f *RetryFetcher) FetchCEXWithRetry(ctx context.Context, req domain.PairRequest) Result {
	key := cacheKey(req)

	if data, ok := f.cache.Get(ctx, key); ok {
		return Result{OK: true, Data: data}
	}

	data, err := f.batch.Do(ctx, key, func() (*domain.CexQuoteResult, error) {
		return f.fetchWithBackoff(ctx, req)
	})
	if err != nil {
		return Result{OK: false, Err: err}
	}

	f.cache.Set(ctx, key, data)
	return Result{OK: true, Data: data}
}

func (f *RetryFetcher) fetchWithBackoff(ctx context.Context, req domain.PairRequest) (*domain.CexQuoteResult, error) {
	breaker := f.breakerFor(req.Exchange)

	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		if attempt > 1 {
			if err := f.sleep(ctx, f.backoff(attempt)); err != nil {
				return nil, err
			}
		}

		data, err := breaker.Execute(func() (*domain.CexQuoteResult, error) {
			return f.svc.GetPriceCEX(ctx, req)
		})
		if err == nil {
			return data, nil
		}

		lastErr = err
		f.log.Warn(ctx, "cex fetch attempt failed",
			"exchange", req.Exchange,
			"token", req.Token,
			"attempt", attempt,
			"error", err,
		)
	}
	return nil, lastErr
}

// backoff returns the jittered delay before the given attempt (attempt 2
// waits roughly one base interval, doubling from there).
func (f *RetryFetcher) backoff(attempt int) time.Duration {
	d := f.base * time.Duration(1<<(attempt-2))
	d = time.Duration(float64(d) * f.jitter())
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

func (f *RetryFetcher) breakerFor(exchange string) *circuitbreaker.CircuitBreaker[*domain.CexQuoteResult] {
	f.mu.Lock()
	defer f.mu.Unlock()

	cb, ok := f.breakers[exchange]
	if !ok {
		cb = circuitbreaker.New[*domain.CexQuoteResult](circuitbreaker.DefaultConfig("cex-" + strings.ToLower(exchange)))
		f.breakers[exchange] = cb
	}
	return cb
}

func cacheKey(req domain.PairRequest) string {
	return strings.ToLower(fmt.Sprintf("%s:%s:%s", req.Exchange, req.Token, req.Pair))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
