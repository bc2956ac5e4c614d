package landing

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ManifestDocument models a YAML manifest declaring widget types.
type ManifestDocument struct {
	Version string           `json:"version" yaml:"version"`
	Name    string           `json:"name,omitempty" yaml:"name,omitempty"`
	Widgets []ManifestWidget `json:"widgets" yaml:"widgets"`
	Source  string           `json:"-" yaml:"-"`
}

// ManifestWidget declares one widget type. Kind selects the display/editor
// implementation through a KindFactory.
type ManifestWidget struct {
	Name        string         `json:"name" yaml:"name"`
	Label       string         `json:"label,omitempty" yaml:"label,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string         `json:"category,omitempty" yaml:"category,omitempty"`
	Kind        string         `json:"kind" yaml:"kind"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
	Defaults    map[string]any `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Tags        []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// KindFactory builds the display/editor pair for a manifest entry.
type KindFactory interface {
	Build(entry ManifestWidget) (Display, Editor, error)
}

// KindFactoryFunc adapts a function to KindFactory.
type KindFactoryFunc func(entry ManifestWidget) (Display, Editor, error)

// Build calls f(entry).
func (f KindFactoryFunc) Build(entry ManifestWidget) (Display, Editor, error) {
	return f(entry)
}

// LoadManifestFile reads a manifest from disk and registers its widget types.
func (r *Registry) LoadManifestFile(path string, factory KindFactory) (*ManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc, factory); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers widget types from a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *ManifestDocument, factory KindFactory) error {
	if doc == nil {
		return errors.New("landing: manifest document is nil")
	}
	if factory == nil {
		return errors.New("landing: manifest kind factory is required")
	}
	for _, entry := range doc.Widgets {
		display, editor, err := factory.Build(entry)
		if err != nil {
			return fmt.Errorf("landing: build widget %s from %s: %w", entry.Name, doc.Source, err)
		}
		if err := r.Register(WidgetType{
			Name:        entry.Name,
			Label:       entry.Label,
			Description: entry.Description,
			Category:    entry.Category,
			Schema:      entry.Schema,
			Defaults:    Settings(entry.Defaults),
			Display:     display,
			Editor:      editor,
		}); err != nil {
			return fmt.Errorf("landing: register widget %s from %s: %w", entry.Name, doc.Source, err)
		}
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*ManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("landing: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("landing: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*ManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("landing: manifest is empty")
		}
		return nil, fmt.Errorf("landing: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *ManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("landing: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Widgets))
	for idx, widget := range doc.Widgets {
		if widget.Name == "" {
			return fmt.Errorf("landing: manifest widget at index %d is missing name", idx)
		}
		if widget.Kind == "" {
			return fmt.Errorf("landing: manifest widget %s is missing kind", widget.Name)
		}
		if _, exists := seen[widget.Name]; exists {
			return fmt.Errorf("landing: manifest duplicates widget %s", widget.Name)
		}
		seen[widget.Name] = struct{}{}
	}
	return nil
}
