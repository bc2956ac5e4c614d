package landing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	// ErrUnknownWidgetType is returned when a type tag is not registered.
	ErrUnknownWidgetType = errors.New("landing: unknown widget type")
	// ErrWidgetNotFound is returned when an operation needs an existing widget.
	ErrWidgetNotFound = errors.New("landing: widget not found")
	// ErrInvalidSettings wraps schema validation failures.
	ErrInvalidSettings = errors.New("landing: invalid widget settings")
	// ErrSaveFailed wraps persistence failures from SaveWidgets.
	ErrSaveFailed = errors.New("landing: save layout failed")
	// ErrTypeMismatch is returned when an update tries to change a widget's type.
	ErrTypeMismatch = errors.New("landing: widget type cannot change")

	errMissingRegistry    = errors.New("landing: widget registry not configured")
	errMissingLayoutStore = errors.New("landing: layout store not configured")
)

// StoreOptions configures a Store. Registry is required; everything else
// has a default.
type StoreOptions struct {
	PageID      string
	Registry    TypeRegistry
	Layouts     LayoutStore
	Validator   SettingsValidator
	Telemetry   Telemetry
	IDGenerator func() string
}

// Store owns the ordered widget sequence of one page-editing session and
// publishes every change to its observers.
//
// Observers run synchronously on the mutating goroutine after the sequence
// lock is released. They must not call mutating Store methods.
type Store struct {
	opts StoreOptions

	mu      sync.Mutex
	widgets []WidgetConfig

	pubMu     sync.Mutex
	obsMu     sync.RWMutex
	observers []observerEntry
	nextObs   int
}

type observerEntry struct {
	id  int
	obs Observer
}

// NewStore builds an empty store.
func NewStore(opts StoreOptions) (*Store, error) {
	if opts.Registry == nil {
		return nil, errMissingRegistry
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = uuid.NewString
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Store{opts: opts}, nil
}

// PageID returns the page this store edits.
func (s *Store) PageID() string {
	return s.opts.PageID
}

// Observe registers an observer and returns a func that removes it.
func (s *Store) Observe(o Observer) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers = append(s.observers, observerEntry{id: id, obs: o})
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		for i, entry := range s.observers {
			if entry.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// Widgets returns a deep copy of the current sequence.
func (s *Store) Widgets() []WidgetConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneWidgets(s.widgets)
}

// Widget returns the widget with the given id.
func (s *Store) Widget(id string) (WidgetConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.widgets[idx].Clone(), true
	}
	return WidgetConfig{}, false
}

// AddWidget appends a new widget of the given type seeded with the type's
// default settings.
func (s *Store) AddWidget(ctx context.Context, widgetType string) (WidgetConfig, error) {
	wt, ok := s.opts.Registry.Lookup(widgetType)
	if !ok {
		return WidgetConfig{}, fmt.Errorf("%w: %q", ErrUnknownWidgetType, widgetType)
	}
	cfg := WidgetConfig{
		ID:       s.opts.IDGenerator(),
		Type:     wt.Name,
		Settings: wt.Defaults.Clone(),
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.mu.Lock()
	s.widgets = append(s.widgets, cfg.Clone())
	snapshot := cloneWidgets(s.widgets)
	s.mu.Unlock()

	s.publish(ctx, ChangeAdd, cfg.ID, snapshot, nil)
	s.recordTelemetry(ctx, "landing.widget.add", map[string]any{
		"widget_id": cfg.ID,
		"type":      cfg.Type,
	})
	return cfg, nil
}

// UpdateWidget replaces the settings of the widget matching cfg.ID. An
// unknown id is a no-op.
func (s *Store) UpdateWidget(ctx context.Context, cfg WidgetConfig) error {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.mu.Lock()
	idx := s.indexOf(cfg.ID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	current := s.widgets[idx]
	if cfg.Type != "" && cfg.Type != current.Type {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s is %s, not %s", ErrTypeMismatch, cfg.ID, current.Type, cfg.Type)
	}
	settings := cfg.Settings.Clone()
	if wt, ok := s.opts.Registry.Lookup(current.Type); ok {
		if err := s.opts.Validator.Validate(wt, settings); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.widgets[idx] = WidgetConfig{ID: current.ID, Type: current.Type, Settings: settings}
	snapshot := cloneWidgets(s.widgets)
	s.mu.Unlock()

	s.publish(ctx, ChangeUpdate, cfg.ID, snapshot, nil)
	s.recordTelemetry(ctx, "landing.widget.update", map[string]any{"widget_id": cfg.ID})
	return nil
}

// RemoveWidget deletes the widget with the given id. An unknown id is a no-op.
func (s *Store) RemoveWidget(ctx context.Context, id string) error {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.widgets = append(s.widgets[:idx], s.widgets[idx+1:]...)
	snapshot := cloneWidgets(s.widgets)
	s.mu.Unlock()

	s.publish(ctx, ChangeRemove, id, snapshot, nil)
	s.recordTelemetry(ctx, "landing.widget.remove", map[string]any{"widget_id": id})
	return nil
}

// Reorder moves the widget at from to position to, keeping the relative
// order of the others. Out-of-range indices are a no-op.
func (s *Store) Reorder(ctx context.Context, from, to int) error {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.mu.Lock()
	n := len(s.widgets)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		s.mu.Unlock()
		return nil
	}
	s.widgets = moveWidget(s.widgets, from, to)
	moved := s.widgets[to].ID
	snapshot := cloneWidgets(s.widgets)
	s.mu.Unlock()

	s.publish(ctx, ChangeReorder, moved, snapshot, nil)
	s.recordTelemetry(ctx, "landing.widget.reorder", map[string]any{
		"widget_id": moved,
		"from":      from,
		"to":        to,
	})
	return nil
}

// SaveWidgets persists the given sequence. The in-memory sequence is never
// touched; a failure publishes a single save_failed change.
func (s *Store) SaveWidgets(ctx context.Context, widgets []WidgetConfig) error {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	var err error
	if s.opts.Layouts == nil {
		err = errMissingLayoutStore
	} else {
		err = s.opts.Layouts.SaveLayout(ctx, s.opts.PageID, cloneWidgets(widgets))
	}
	current := s.Widgets()
	if err != nil {
		s.publish(ctx, ChangeSaveFailed, "", current, err)
		s.recordTelemetry(ctx, "landing.layout.save_failed", map[string]any{
			"page_id": s.opts.PageID,
			"error":   err.Error(),
		})
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	s.publish(ctx, ChangeSave, "", current, nil)
	s.recordTelemetry(ctx, "landing.layout.save", map[string]any{
		"page_id": s.opts.PageID,
		"count":   len(widgets),
	})
	return nil
}

// Load replaces the sequence with the persisted layout of the page.
func (s *Store) Load(ctx context.Context) error {
	if s.opts.Layouts == nil {
		return errMissingLayoutStore
	}
	widgets, err := s.opts.Layouts.LoadLayout(ctx, s.opts.PageID)
	if err != nil {
		return fmt.Errorf("landing: load layout %s: %w", s.opts.PageID, err)
	}
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	s.mu.Lock()
	s.widgets = cloneWidgets(widgets)
	snapshot := cloneWidgets(s.widgets)
	s.mu.Unlock()

	s.publish(ctx, ChangeLoad, "", snapshot, nil)
	s.recordTelemetry(ctx, "landing.layout.load", map[string]any{
		"page_id": s.opts.PageID,
		"count":   len(snapshot),
	})
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, w := range s.widgets {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) publish(ctx context.Context, kind ChangeKind, widgetID string, widgets []WidgetConfig, err error) {
	s.obsMu.RLock()
	observers := make([]Observer, len(s.observers))
	for i, entry := range s.observers {
		observers[i] = entry.obs
	}
	s.obsMu.RUnlock()

	change := Change{
		ID:       ulid.Make().String(),
		PageID:   s.opts.PageID,
		Kind:     kind,
		WidgetID: widgetID,
		At:       time.Now().UTC(),
	}
	if err != nil {
		change.Err = err.Error()
	}
	for _, o := range observers {
		c := change
		c.Widgets = cloneWidgets(widgets)
		o.WidgetsChanged(ctx, c)
	}
}

func (s *Store) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

// moveWidget relocates widgets[from] to index to in place.
func moveWidget(widgets []WidgetConfig, from, to int) []WidgetConfig {
	moved := widgets[from]
	if from < to {
		copy(widgets[from:to], widgets[from+1:to+1])
	} else {
		copy(widgets[to+1:from+1], widgets[to:from])
	}
	widgets[to] = moved
	return widgets
}
