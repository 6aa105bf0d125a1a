package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/dshills/servicereport/internal/layout"
)

// termRenderer styles the markdown rendering for a terminal preview.
type termRenderer struct {
	style    string
	wordWrap int
}

func (r *termRenderer) Extension() string { return ".txt" }

func (r *termRenderer) Render(doc *layout.Document) ([]byte, error) {
	md, err := (&markdownRenderer{}).Render(doc)
	if err != nil {
		return nil, err
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStylePath(r.style),
		glamour.WithWordWrap(r.wordWrap),
	)
	if err != nil {
		return nil, fmt.Errorf("creating terminal renderer: %w", err)
	}
	out, err := tr.RenderBytes(md)
	if err != nil {
		return nil, fmt.Errorf("rendering terminal preview: %w", err)
	}
	return out, nil
}
