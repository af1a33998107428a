// Package markdown provides styled markdown rendering for the TUI.
package markdown

import (
	"github.com/charmbracelet/glamour"
)

// noMarginStyle is a JSON style that removes document margins.
// It inherits from auto (dark/light detection) but overrides margin to 0.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with tiddly-specific configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a markdown renderer with the given width.
func New(width int) (*Renderer, error) {
	r, err := newTermRenderer(width)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

func newTermRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// SetWidth rebuilds the underlying renderer for a new wrap width.
// No-op when the width is unchanged.
func (r *Renderer) SetWidth(width int) error {
	if width == r.width {
		return nil
	}
	renderer, err := newTermRenderer(width)
	if err != nil {
		return err
	}
	r.renderer = renderer
	r.width = width
	return nil
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
