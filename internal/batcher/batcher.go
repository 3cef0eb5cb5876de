// Package batcher bounds concurrent calls to an upstream and coalesces
// duplicate in-flight requests for the same key into one call.
package batcher

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// Batcher runs functions keyed by request identity. Calls sharing a key
// while one is in flight get that call's result. At most maxConcurrent
// functions run at once; the rest wait.
type Batcher[T any] struct {
	group *singleflight.Group
	sem   *semaphore.Weighted
}

// New creates a batcher allowing maxConcurrent simultaneous calls.
// Values below 1 are treated as 1.
func New[T any](maxConcurrent int64) *Batcher[T] {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Batcher[T]{
		group: &singleflight.Group{},
		sem:   semaphore.NewWeighted(maxConcurrent),
	}
}

// Do executes fn for key, or joins an identical in-flight call. It blocks
// until a concurrency slot is free or ctx is done.
func (b *Batcher[T]) Do(ctx context.Context, key string, fn func() (T, error)) (T, error) {
	v, err, _ := b.group.Do(key, func() (any, error) {
		if err := b.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer b.sem.Release(1)
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	result, ok := v.(T)
	if !ok {
		var zero T
		return zero, nil
	}
	return result, nil
}

// Forget drops the in-flight record for key so the next Do runs fresh.
func (b *Batcher[T]) Forget(key string) {
	b.group.Forget(key)
}
