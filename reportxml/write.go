package reportxml

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	declaration      = `<?xml version="1.0" encoding="UTF-8"?>`
	stylesheetFormat = `<?xml-stylesheet type="text/xsl" href="%s"?>`
)

// Save writes the document to its backing path.
func (d *Document) Save() error {
	file, err := os.Create(d.Path)
	if err != nil {
		return errors.Wrapf(err, "failed to create report %s", d.Path)
	}
	defer file.Close()

	return d.Write(file)
}

// Write serializes the document: the XML declaration, the stylesheet
// processing instruction, then the tree in document order. Attributes are
// written in sorted order so output is deterministic.
func (d *Document) Write(w io.Writer) error {
	buffered := bufio.NewWriter(w)
	fmt.Fprintln(buffered, declaration)
	fmt.Fprintf(buffered, stylesheetFormat+"\n", d.Stylesheet)
	for _, child := range d.Children {
		child.write(buffered, 0)
	}
	return errors.Wrap(buffered.Flush(), "failed to write report")
}

// String returns the serialized document.
func (d *Document) String() string {
	var builder strings.Builder
	d.Write(&builder)
	return builder.String()
}

func (n *Node) write(w *bufio.Writer, depth int) {
	indent := strings.Repeat("  ", depth)
	w.WriteString(indent)
	w.WriteByte('<')
	w.WriteString(n.Name)
	for _, key := range sortedAttrKeys(n.Attributes) {
		fmt.Fprintf(w, ` %s="%s"`, key, n.Attributes[key])
	}
	if n.SelfClosed {
		w.WriteString(" />\n")
		return
	}
	w.WriteByte('>')
	w.WriteString(n.Content)
	if len(n.Children) == 0 {
		fmt.Fprintf(w, "</%s>\n", n.Name)
		return
	}
	w.WriteByte('\n')
	for _, child := range n.Children {
		child.write(w, depth+1)
	}
	fmt.Fprintf(w, "%s</%s>\n", indent, n.Name)
}

func sortedAttrKeys(attrs Attributes) []string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
