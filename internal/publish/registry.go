package publish

import (
	"fmt"

	"github.com/solsticedigital/backoffice/pkg/enums"
)

// Registry maps platforms to their adapters. Adding a platform means
// registering an adapter, not editing dispatch code.
type Registry struct {
	adapters map[enums.Platform]Adapter
}

// NewRegistry builds a registry from the provided adapters.
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[enums.Platform]Adapter, len(adapters))}
	for _, adapter := range adapters {
		if err := r.Register(adapter); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an adapter, rejecting nils and duplicates.
func (r *Registry) Register(adapter Adapter) error {
	if adapter == nil {
		return fmt.Errorf("adapter is required")
	}
	platform := adapter.Platform()
	if !platform.IsValid() {
		return fmt.Errorf("adapter platform %q is not valid", platform)
	}
	if _, exists := r.adapters[platform]; exists {
		return fmt.Errorf("adapter for platform %q already registered", platform)
	}
	r.adapters[platform] = adapter
	return nil
}

// Adapter returns the adapter for the platform, if one is registered.
func (r *Registry) Adapter(platform enums.Platform) (Adapter, bool) {
	adapter, ok := r.adapters[platform]
	return adapter, ok
}

// Platforms lists the registered platforms.
func (r *Registry) Platforms() []enums.Platform {
	out := make([]enums.Platform, 0, len(r.adapters))
	for platform := range r.adapters {
		out = append(out, platform)
	}
	return out
}
