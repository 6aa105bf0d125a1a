package render

import (
	"fmt"
	"strings"

	"github.com/dshills/servicereport/internal/layout"
)

// Renderer formats a layout Document into bytes for output.
type Renderer interface {
	Render(doc *layout.Document) ([]byte, error)
	// Extension is the file extension for output, including the dot.
	Extension() string
}

// Formats lists the supported format names.
var Formats = []string{"pdf", "xlsx", "md", "json", "term"}

// Option configures a Renderer.
type Option func(*options)

type options struct {
	termStyle string
	wordWrap  int
}

// WithTermStyle selects the glamour style used by the term renderer.
func WithTermStyle(style string) Option {
	return func(o *options) {
		if style != "" {
			o.termStyle = style
		}
	}
}

// WithWordWrap sets the wrap width of the term renderer.
func WithWordWrap(width int) Option {
	return func(o *options) {
		if width > 0 {
			o.wordWrap = width
		}
	}
}

// NewRenderer returns a Renderer for the given format string.
// Supported formats: "pdf" (default), "xlsx", "md", "json", "term".
func NewRenderer(format string, opts ...Option) (Renderer, error) {
	o := options{termStyle: "dark", wordWrap: 80}
	for _, opt := range opts {
		opt(&o)
	}
	switch format {
	case "pdf", "":
		return &pdfRenderer{}, nil
	case "xlsx":
		return &xlsxRenderer{}, nil
	case "md":
		return &markdownRenderer{}, nil
	case "json":
		return &jsonRenderer{}, nil
	case "term":
		return &termRenderer{style: o.termStyle, wordWrap: o.wordWrap}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are %s", format, strings.Join(Formats, ", "))
	}
}

// FileName returns the derived output name of doc for r.
func FileName(doc *layout.Document, r Renderer) string {
	return doc.FileName + r.Extension()
}
