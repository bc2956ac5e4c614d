package landing

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrRegistrySealed is returned when registering after Seal.
	ErrRegistrySealed = errors.New("landing: widget registry is sealed")
	// ErrDuplicateWidgetType is returned when a tag is registered twice.
	ErrDuplicateWidgetType = errors.New("landing: widget type already registered")
)

// WidgetHook lets packages register widget types during init().
type WidgetHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []WidgetHook
)

// RegisterWidgetHook registers a hook executed against new registries.
func RegisterWidgetHook(h WidgetHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry maps widget type tags to their display/editor pair. It is filled
// at startup and sealed before the first page session opens.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]WidgetType
	sealed bool
}

var _ TypeRegistry = (*Registry)(nil)

// NewRegistry builds an empty registry and applies global hooks.
func NewRegistry() (*Registry, error) {
	reg := &Registry{types: map[string]WidgetType{}}
	if err := reg.ApplyHooks(); err != nil {
		return nil, err
	}
	return reg, nil
}

// ApplyHooks executes registered widget hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	hooks := append([]WidgetHook(nil), globalHooks...)
	globalHookMu.Unlock()
	for _, hook := range hooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// Register adds a widget type.
func (r *Registry) Register(wt WidgetType) error {
	if wt.Name == "" {
		return fmt.Errorf("landing: widget type name is required")
	}
	if wt.Display == nil {
		return fmt.Errorf("landing: widget type %s requires a display", wt.Name)
	}
	if wt.Editor == nil {
		return fmt.Errorf("landing: widget type %s requires an editor", wt.Name)
	}
	if wt.Label == "" {
		wt.Label = wt.Name
	}
	wt.Defaults = wt.Defaults.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("%w: cannot register %s", ErrRegistrySealed, wt.Name)
	}
	if _, exists := r.types[wt.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateWidgetType, wt.Name)
	}
	r.types[wt.Name] = wt
	return nil
}

// Seal freezes the registry. Later Register calls fail.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup fetches a widget type by tag.
func (r *Registry) Lookup(name string) (WidgetType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wt, ok := r.types[name]
	return wt, ok
}

// Types returns all registered types ordered by name.
func (r *Registry) Types() []WidgetType {
	r.mu.RLock()
	out := make([]WidgetType, 0, len(r.types))
	for _, wt := range r.types {
		out = append(out, wt)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
