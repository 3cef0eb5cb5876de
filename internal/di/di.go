// Package di provides a small service container with typed tokens.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	// Get returns the service registered under key, panicking if absent.
	Get(key string) any
	// Lookup returns the service registered under key.
	Lookup(key string) (any, bool)
}

// Container registers and resolves services. Factories are resolved lazily
// and memoized on first use.
type Container interface {
	ServiceRegistry
	// Register stores a ready value under key.
	Register(key string, value any)
	// RegisterFactory stores a constructor invoked on first Get.
	RegisterFactory(key string, factory func(ServiceRegistry) any)
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		values:    make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
	}
}

type container struct {
	mu        sync.RWMutex
	values    map[string]any
	factories map[string]func(ServiceRegistry) any
}

func (c *container) Register(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

func (c *container) RegisterFactory(key string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[key] = factory
}

func (c *container) Lookup(key string) (any, bool) {
	c.mu.RLock()
	if v, ok := c.values[key]; ok {
		c.mu.RUnlock()
		return v, true
	}
	factory, ok := c.factories[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	// Resolve outside the lock; factories may resolve other services.
	v := factory(c)

	c.mu.Lock()
	c.values[key] = v
	delete(c.factories, key)
	c.mu.Unlock()

	return v, true
}

func (c *container) Get(key string) any {
	v, ok := c.Lookup(key)
	if !ok {
		panic(fmt.Sprintf("di: service %q not registered", key))
	}
	return v
}

// Token is a typed handle for a registered service.
type Token[T any] struct {
	name string
}

// NewToken creates a token with a unique name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's registry key.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a factory under the token's key.
func RegisterToken[T any](c Container, t Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(t.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves the token to its typed service.
func GetToken[T any](sr ServiceRegistry, t Token[T]) T {
	return sr.Get(t.name).(T)
}
