package landing

import (
	"embed"
	"io"

	template "github.com/goliatone/go-template"
)

// Renderer describes the template renderer contract needed by the composer.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

//go:embed templates/*.html
var embeddedTemplates embed.FS

// NewTemplateRenderer creates a go-template renderer backed by the embedded
// page templates.
func NewTemplateRenderer() (Renderer, error) {
	return template.NewRenderer(
		template.WithFS(embeddedTemplates),
		template.WithBaseDir("templates"),
		template.WithExtension(".html"),
	)
}
