package widgets

import (
	"embed"

	template "github.com/goliatone/go-template"

	"github.com/goliatone/go-landing/components/landing"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// NewTemplateRenderer creates a go-template renderer backed by the embedded
// widget fragments.
func NewTemplateRenderer() (landing.Renderer, error) {
	return template.NewRenderer(
		template.WithFS(embeddedTemplates),
		template.WithBaseDir("templates"),
		template.WithExtension(".html"),
	)
}
