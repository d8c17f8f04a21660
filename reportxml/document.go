package reportxml

// DefaultStylesheet is the stylesheet reference written into every report
// unless the caller overrides it.
const DefaultStylesheet = "variation_report.xsl"

// Document wires a report tree to its backing file and stylesheet. The
// embedded node is the unnamed container above the top-level elements, so
// queries and reordering work the same at every level of the tree.
type Document struct {
	Node

	Path       string
	Stylesheet string
}

// New returns an empty document that will save to the given path.
func New(path string) *Document {
	return &Document{
		Node:       Node{Attributes: Attributes{}},
		Path:       path,
		Stylesheet: DefaultStylesheet,
	}
}
