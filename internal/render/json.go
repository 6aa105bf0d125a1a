package render

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/servicereport/internal/layout"
)

type jsonRenderer struct{}

// jsonDocument is the wire shape of a layout Document. Nodes carry their
// kind explicitly since the tree is heterogeneous.
type jsonDocument struct {
	Title    string     `json:"title"`
	FileName string     `json:"file_name"`
	Nodes    []jsonNode `json:"nodes"`
}

type jsonNode struct {
	Kind     layout.Kind          `json:"kind"`
	Text     string               `json:"text,omitempty"`
	Title    string               `json:"title,omitempty"`
	Label    string               `json:"label,omitempty"`
	Value    *string              `json:"value,omitempty"`
	Bold     bool                 `json:"bold,omitempty"`
	Columns  []layout.Column      `json:"columns,omitempty"`
	Rows     [][]string           `json:"rows,omitempty"`
	Lines    []string             `json:"lines,omitempty"`
	Amounts  []layout.SummaryLine `json:"amounts,omitempty"`
	Children []jsonNode           `json:"children,omitempty"`
}

func (r *jsonRenderer) Extension() string { return ".json" }

func (r *jsonRenderer) Render(doc *layout.Document) ([]byte, error) {
	out := jsonDocument{
		Title:    doc.Title,
		FileName: doc.FileName,
		Nodes:    toJSONNodes(doc.Nodes),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rendering json: %w", err)
	}
	return data, nil
}

func toJSONNodes(nodes []layout.Node) []jsonNode {
	out := make([]jsonNode, 0, len(nodes))
	for _, n := range nodes {
		jn := jsonNode{Kind: n.Kind()}
		switch v := n.(type) {
		case layout.Heading:
			jn.Text = v.Text
		case layout.Section:
			jn.Title = v.Title
			jn.Children = toJSONNodes(v.Children)
		case layout.Field:
			value := v.Value
			jn.Label = v.Label
			jn.Value = &value
		case layout.Table:
			jn.Columns = v.Columns
			jn.Rows = v.Rows
		case layout.Summary:
			jn.Title = v.Title
			jn.Amounts = v.Lines
		case layout.Notice:
			jn.Lines = v.Lines
			jn.Bold = v.Bold
		case layout.Footer:
			jn.Lines = v.Lines
		}
		out = append(out, jn)
	}
	return out
}
