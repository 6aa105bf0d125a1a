// Package layout turns a service record into a target-independent tree of
// typed layout nodes. Renderers in internal/render consume the tree.
package layout

// Kind identifies a node type.
type Kind string

const (
	KindHeading Kind = "heading"
	KindSection Kind = "section"
	KindField   Kind = "field"
	KindTable   Kind = "table"
	KindSummary Kind = "summary"
	KindNotice  Kind = "notice"
	KindFooter  Kind = "footer"
)

// Node is one element of a Document.
type Node interface {
	Kind() Kind
}

// Align is the horizontal alignment of a table column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Heading is the document title block.
type Heading struct {
	Text string
}

// Section is a titled group of child nodes.
type Section struct {
	Title    string
	Children []Node
}

// Field is a label/value row.
type Field struct {
	Label string
	Value string
}

// Column describes a table column. Weight is the relative width.
type Column struct {
	Header string `json:"header"`
	Align  Align  `json:"align"`
	Weight int    `json:"weight"`
}

// Table is a grid of pre-formatted cells. Every row has len(Columns) cells.
type Table struct {
	Columns []Column
	Rows    [][]string
}

// SummaryLine is one amount line of a Summary. Emphasis marks the line that
// must stand out visually.
type SummaryLine struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Emphasis bool   `json:"emphasis,omitempty"`
}

// Summary is the block of totals.
type Summary struct {
	Title string
	Lines []SummaryLine
}

// Notice is a centered boxed paragraph; its lines are read as one text.
type Notice struct {
	Lines []string
	Bold  bool
}

// Footer is static text pinned to the bottom of the page.
type Footer struct {
	Lines []string
}

func (Heading) Kind() Kind { return KindHeading }
func (Section) Kind() Kind { return KindSection }
func (Field) Kind() Kind   { return KindField }
func (Table) Kind() Kind   { return KindTable }
func (Summary) Kind() Kind { return KindSummary }
func (Notice) Kind() Kind  { return KindNotice }
func (Footer) Kind() Kind  { return KindFooter }

// Document is the complete layout of one printable page. FileName is the
// derived output name without extension.
type Document struct {
	Title    string
	FileName string
	Nodes    []Node
}

// Footer returns the document footer, if any.
func (d *Document) Footer() (Footer, bool) {
	for _, n := range d.Nodes {
		if f, ok := n.(Footer); ok {
			return f, true
		}
	}
	return Footer{}, false
}
