package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/dshills/servicereport/internal/layout"
)

type markdownRenderer struct{}

var mdFuncs = template.FuncMap{
	"kind": func(n layout.Node) string { return string(n.Kind()) },
	"cell": func(s string) string {
		return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
	},
	"join": strings.Join,
	"rule": func(cols []layout.Column) string {
		parts := make([]string, len(cols))
		for i, c := range cols {
			switch c.Align {
			case layout.AlignRight:
				parts[i] = "---:"
			case layout.AlignCenter:
				parts[i] = ":---:"
			default:
				parts[i] = "---"
			}
		}
		return "| " + strings.Join(parts, " | ") + " |"
	},
}

// Every block ends with a blank line except fields and table rows, which
// end a single line inside their section.
var mdTemplate = template.Must(template.New("document").Funcs(mdFuncs).Parse(`{{ define "node" }}{{ $k := kind . }}{{ if eq $k "heading" }}# {{ .Text }}

{{ else if eq $k "section" }}## {{ .Title }}

{{ range .Children }}{{ template "node" . }}{{ end }}
{{ else if eq $k "field" }}- **{{ .Label }}** {{ cell .Value }}
{{ else if eq $k "table" }}| {{ range $i, $c := .Columns }}{{ if $i }} | {{ end }}{{ $c.Header }}{{ end }} |
{{ rule .Columns }}
{{ range .Rows }}| {{ range $i, $v := . }}{{ if $i }} | {{ end }}{{ cell $v }}{{ end }} |
{{ end }}{{ else if eq $k "summary" }}## {{ .Title }}

{{ range .Lines }}- {{ if .Emphasis }}**{{ .Label }}: {{ .Value }}**{{ else }}{{ .Label }}: {{ .Value }}{{ end }}
{{ end }}
{{ else if eq $k "notice" }}> {{ if .Bold }}**{{ join .Lines " " }}**{{ else }}{{ join .Lines " " }}{{ end }}

{{ else if eq $k "footer" }}---

{{ join .Lines "  \n" }}
{{ end }}{{ end }}{{ range .Nodes }}{{ template "node" . }}{{ end }}`))

func (r *markdownRenderer) Extension() string { return ".md" }

func (r *markdownRenderer) Render(doc *layout.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
