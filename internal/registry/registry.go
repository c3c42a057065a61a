package registry

import (
	"fmt"
	"strings"
	"sync"
)

// Registry maps discriminators to handlers. Registration overwrites by key
// and keeps the position of the first registration.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register panics on an empty discriminator or one containing a hyphen,
// since ParseID splits ids on the first hyphen.
func (r *Registry) Register(discriminator string, h Handler) {
	if discriminator == "" || strings.Contains(discriminator, "-") {
		panic(fmt.Sprintf("registry: invalid discriminator %q", discriminator))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[discriminator]; !exists {
		r.order = append(r.order, discriminator)
	}
	r.handlers[discriminator] = h
}

// GetHandler returns the handler for discriminator, or false if none is registered.
func (r *Registry) GetHandler(discriminator string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[discriminator]
	return h, ok
}

func (r *Registry) HasHandler(discriminator string) bool {
	_, ok := r.GetHandler(discriminator)
	return ok
}

func (r *Registry) IsSupportedType(discriminator string) bool {
	return r.HasHandler(discriminator)
}

// GetRegisteredTypes returns the discriminators in registration order.
func (r *Registry) GetRegisteredTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, len(r.order))
	copy(types, r.order)
	return types
}
