package style

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown for the terminal with glamour.
type MarkdownRenderer struct {
	Style string // "auto", "dark", "light", "notty" or a path to a style file
	Width int    // wrap width, 0 keeps glamour's default
}

// NewMarkdownRenderer picks the notty style when color is off.
func NewMarkdownRenderer(color bool) *MarkdownRenderer {
	r := &MarkdownRenderer{Style: "auto"}
	if !color {
		r.Style = "notty"
	}
	return r
}

// Render converts markdown to terminal output, falling back to the raw
// content if glamour fails.
func (r *MarkdownRenderer) Render(content string) string {
	var options []glamour.TermRendererOption

	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}

	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
