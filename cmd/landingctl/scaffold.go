package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-landing/components/landing"
)

var scaffoldKinds = map[string]struct{}{
	"hero":          {},
	"cta":           {},
	"booking":       {},
	"impact-report": {},
	"feed":          {},
}

type scaffoldCmd struct {
	Name         string   `required:"" help:"Widget type name; normalized to kebab-case."`
	Label        string   `help:"Display label (defaults to the title-cased name)."`
	Description  string   `help:"One-line description shown in the type catalog."`
	Category     string   `default:"content" help:"Widget category (layout, content, ...)."`
	Kind         string   `required:"" enum:"hero,cta,booking,impact-report,feed" help:"Built-in display kind."`
	Endpoint     string   `help:"Remote endpoint for feed kinds."`
	ManifestPath string   `required:"" name:"manifest" type:"path" help:"Manifest YAML file to update."`
	SchemaPath   string   `type:"path" help:"Optional JSON schema file for the widget settings."`
	Tag          []string `help:"Tags to record (repeatable)."`
	Overwrite    bool     `help:"Replace an existing entry with the same name."`
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	entry, err := cmd.entry()
	if err != nil {
		return err
	}
	path, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("landingctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(path)
	if err != nil {
		return err
	}
	if err := upsertEntry(doc, entry, cmd.Overwrite); err != nil {
		return err
	}
	if err := writeManifest(path, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s (%s) to %s\n", entry.Name, entry.Kind, path)
	return nil
}

func (cmd *scaffoldCmd) entry() (landing.ManifestWidget, error) {
	name := strcase.ToKebab(cmd.Name)
	if name == "" {
		return landing.ManifestWidget{}, errors.New("landingctl: widget name is required")
	}
	if _, ok := scaffoldKinds[cmd.Kind]; !ok {
		return landing.ManifestWidget{}, fmt.Errorf("landingctl: unknown kind %q", cmd.Kind)
	}
	label := cmd.Label
	if label == "" {
		label = strcase.ToCase(cmd.Name, strcase.TitleCase, ' ')
	}
	entry := landing.ManifestWidget{
		Name:        name,
		Label:       label,
		Description: cmd.Description,
		Category:    cmd.Category,
		Kind:        cmd.Kind,
		Tags:        cmd.Tag,
	}
	if cmd.Kind == "feed" {
		if cmd.Endpoint == "" {
			return landing.ManifestWidget{}, errors.New("landingctl: --endpoint is required for feed widgets")
		}
		entry.Defaults = map[string]any{"endpoint": cmd.Endpoint, "title": label}
	}
	if cmd.SchemaPath != "" {
		schema, err := loadSchema(cmd.SchemaPath)
		if err != nil {
			return landing.ManifestWidget{}, err
		}
		entry.Schema = schema
	}
	return entry, nil
}

func upsertEntry(doc *landing.ManifestDocument, entry landing.ManifestWidget, overwrite bool) error {
	replaced := false
	for idx := range doc.Widgets {
		if doc.Widgets[idx].Name != entry.Name {
			continue
		}
		if !overwrite {
			return fmt.Errorf("landingctl: manifest already defines %s (use --overwrite to replace)", entry.Name)
		}
		doc.Widgets[idx] = entry
		replaced = true
	}
	if !replaced {
		doc.Widgets = append(doc.Widgets, entry)
	}
	sort.Slice(doc.Widgets, func(i, j int) bool {
		return doc.Widgets[i].Name < doc.Widgets[j].Name
	})
	return doc.Validate()
}

func loadSchema(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("landingctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("landingctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*landing.ManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &landing.ManifestDocument{
				Version: landing.ManifestVersion,
				Widgets: []landing.ManifestWidget{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("landingctl: stat manifest: %w", err)
	}
	return landing.ReadManifest(path)
}

func writeManifest(path string, doc *landing.ManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("landingctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("landingctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("landingctl: write manifest: %w", err)
	}
	return nil
}
