package layout

// Builder assembles a node list. Methods chain; If and Section take a
// callback that appends into a nested builder.
type Builder struct {
	nodes []Node
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends n.
func (b *Builder) Add(n Node) *Builder {
	b.nodes = append(b.nodes, n)
	return b
}

// Heading appends a title block.
func (b *Builder) Heading(text string) *Builder {
	return b.Add(Heading{Text: text})
}

// Field appends a label/value row.
func (b *Builder) Field(label, value string) *Builder {
	return b.Add(Field{Label: label, Value: value})
}

// Section appends a titled section whose children are added by fill.
// A section left without children is dropped.
func (b *Builder) Section(title string, fill func(*Builder)) *Builder {
	inner := NewBuilder()
	fill(inner)
	if len(inner.nodes) == 0 {
		return b
	}
	return b.Add(Section{Title: title, Children: inner.nodes})
}

// If runs fill against b only when cond holds. Nothing is appended otherwise.
func (b *Builder) If(cond bool, fill func(*Builder)) *Builder {
	if cond {
		fill(b)
	}
	return b
}

// Nodes returns the nodes appended so far.
func (b *Builder) Nodes() []Node {
	return b.nodes
}
