package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-landing/components/landing"
)

func TestScaffoldEntryNormalizesName(t *testing.T) {
	cmd := scaffoldCmd{Name: "VolunteerShifts", Kind: "feed", Endpoint: "/shifts", Category: "content"}

	entry, err := cmd.entry()
	require.NoError(t, err)

	assert.Equal(t, "volunteer-shifts", entry.Name)
	assert.Equal(t, "Volunteer Shifts", entry.Label)
	assert.Equal(t, "/shifts", entry.Defaults["endpoint"])
}

func TestScaffoldEntryFeedNeedsEndpoint(t *testing.T) {
	cmd := scaffoldCmd{Name: "press", Kind: "feed"}

	_, err := cmd.entry()

	require.Error(t, err)
}

func TestScaffoldEntryRejectsUnknownKind(t *testing.T) {
	cmd := scaffoldCmd{Name: "slider", Kind: "carousel"}

	_, err := cmd.entry()

	require.Error(t, err)
}

func TestScaffoldWritesManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifests", "widgets.yaml")
	schemaPath := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type":"object","properties":{"label":{"type":"string"}}}`), 0o600))

	cmd := scaffoldCmd{Name: "donate-now", Kind: "cta", Category: "layout", ManifestPath: path, SchemaPath: schemaPath}
	require.NoError(t, cmd.Run(context.Background()))
	second := scaffoldCmd{Name: "annual-report", Kind: "impact-report", Category: "content", ManifestPath: path}
	require.NoError(t, second.Run(context.Background()))

	doc, err := landing.ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 2)
	assert.Equal(t, "annual-report", doc.Widgets[0].Name)
	assert.Equal(t, "donate-now", doc.Widgets[1].Name)
	assert.Equal(t, "cta", doc.Widgets[1].Kind)
	assert.Equal(t, "object", doc.Widgets[1].Schema["type"])

	require.Error(t, cmd.Run(context.Background()))
	cmd.Overwrite = true
	cmd.Label = "Donate today"
	require.NoError(t, cmd.Run(context.Background()))
	doc, err = landing.ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 2)
	assert.Equal(t, "Donate today", doc.Widgets[1].Label)
}

func TestPrintTypes(t *testing.T) {
	var buf bytes.Buffer
	types := []landing.WidgetType{
		{Name: "hero", Label: "Hero banner", Category: "layout"},
		{Name: "blog", Label: "Blog", Category: "content"},
	}

	require.NoError(t, printTypes(&buf, types, "content"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.True(t, strings.HasPrefix(lines[1], "blog"))
}
