package landing

import (
	core "github.com/goliatone/go-landing/components/landing"
	"github.com/goliatone/go-landing/components/landing/widgets"
)

// Registry exposes the underlying components/landing.Registry type.
type Registry = core.Registry

// Sessions exposes the per-page session manager.
type Sessions = core.Sessions

// SessionOptions re-export for convenience.
type SessionOptions = core.SessionOptions

// WidgetConfig re-export for convenience.
type WidgetConfig = core.WidgetConfig

// WidgetType re-export for convenience.
type WidgetType = core.WidgetType

// Dependencies re-exports the built-in widget collaborators.
type Dependencies = widgets.Dependencies

// NewRegistry returns a sealed registry holding the built-in widget types.
func NewRegistry(deps Dependencies) (*Registry, error) {
	reg, err := core.NewRegistry()
	if err != nil {
		return nil, err
	}
	if err := widgets.RegisterDefaults(reg, deps); err != nil {
		return nil, err
	}
	reg.Seal()
	return reg, nil
}

// NewSessions proxies to the internal constructor.
func NewSessions(opts SessionOptions) (*Sessions, error) {
	return core.NewSessions(opts)
}
