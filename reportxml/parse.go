package reportxml

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformed reports report markup whose tags do not balance.
var ErrMalformed = errors.New("malformed report markup")

// ParseFile reads and parses the report at the given path. The returned
// document saves back to the same path.
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open report %s", path)
	}
	defer file.Close()

	doc, err := Parse(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse report %s", path)
	}
	doc.Path = path
	return doc, nil
}

// Parse reads a report tree from r. Processing instructions are dropped
// and regenerated on the next write.
func Parse(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read report")
	}
	doc := New("")
	if err := parseTree(&doc.Node, flatten(string(raw))); err != nil {
		return nil, err
	}
	return doc, nil
}

// flatten collapses the report into a single line: every line is trimmed,
// processing instruction lines are dropped and the remainder concatenated.
// Newlines inside element content do not survive this, which is fine for
// the reports because their content never spans lines.
func flatten(raw string) string {
	var flat strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "<?") {
			continue
		}
		flat.WriteString(line)
	}
	return flat.String()
}

type parseState int

const (
	inText parseState = iota
	inTag
)

// parseTree scans the flattened markup with an explicit element stack: the
// node on top of the stack owns new elements and text runs, opening tags
// push and closing tags pop. Tags that never balance surface as
// ErrMalformed.
func parseTree(root *Node, flat string) error {
	var (
		state parseState
		start int
		stack = []*Node{root}
	)
	for i := 0; i < len(flat); i++ {
		switch state {
		case inText:
			if flat[i] != '<' {
				continue
			}
			if text := strings.TrimSpace(flat[start:i]); text != "" {
				stack[len(stack)-1].appendContent(text)
			}
			state = inTag
			start = i + 1
		case inTag:
			if flat[i] != '>' {
				continue
			}
			next, err := processTag(stack, flat[start:i])
			if err != nil {
				return err
			}
			stack = next
			state = inText
			start = i + 1
		}
	}
	if state == inTag {
		return errors.Wrap(ErrMalformed, "unterminated tag at end of input")
	}
	if text := strings.TrimSpace(flat[start:]); text != "" {
		stack[len(stack)-1].appendContent(text)
	}
	if len(stack) > 1 {
		return errors.Wrapf(ErrMalformed, "element <%s> is never closed", stack[len(stack)-1].Name)
	}
	return nil
}

// processTag interprets one tag body (the text between < and >) and returns
// the updated element stack.
func processTag(stack []*Node, body string) ([]*Node, error) {
	body = strings.TrimSpace(body)
	switch {
	case body == "":
		return nil, errors.Wrap(ErrMalformed, "empty tag")
	case body[0] == '?' || body[0] == '!':
		// Inline processing instructions and comments carry no structure.
		return stack, nil
	case body[0] == '/':
		name := strings.TrimSpace(body[1:])
		if len(stack) == 1 {
			return nil, errors.Wrapf(ErrMalformed, "closing tag </%s> has no matching open element", name)
		}
		if open := stack[len(stack)-1]; open.Name != name {
			return nil, errors.Wrapf(ErrMalformed, "closing tag </%s> does not match open element <%s>", name, open.Name)
		}
		return stack[:len(stack)-1], nil
	}

	selfClosed := strings.HasSuffix(body, "/")
	if selfClosed {
		body = strings.TrimSpace(body[:len(body)-1])
	}
	name, attrs, err := parseTagBody(body)
	if err != nil {
		return nil, err
	}
	child := stack[len(stack)-1].AddNode(name, attrs)
	if selfClosed {
		child.SelfClosed = true
		return stack, nil
	}
	return append(stack, child), nil
}

// parseTagBody splits an opening tag into its element name and attribute
// map. Values may be double or single quoted and quoted values keep
// embedded spaces; unquoted values end at the next space.
func parseTagBody(body string) (string, Attributes, error) {
	i := 0
	for i < len(body) && !isSpace(body[i]) {
		i++
	}
	name := body[:i]
	attrs := Attributes{}
	for i < len(body) {
		for i < len(body) && isSpace(body[i]) {
			i++
		}
		if i == len(body) {
			break
		}
		keyStart := i
		for i < len(body) && body[i] != '=' && !isSpace(body[i]) {
			i++
		}
		key := body[keyStart:i]
		if key == "" {
			return "", nil, errors.Wrapf(ErrMalformed, "attribute of <%s> has no name", name)
		}
		for i < len(body) && isSpace(body[i]) {
			i++
		}
		if i == len(body) || body[i] != '=' {
			// A bare attribute without a value.
			attrs[key] = ""
			continue
		}
		i++
		for i < len(body) && isSpace(body[i]) {
			i++
		}
		if i < len(body) && (body[i] == '"' || body[i] == '\'') {
			quote := body[i]
			i++
			valueStart := i
			for i < len(body) && body[i] != quote {
				i++
			}
			if i == len(body) {
				return "", nil, errors.Wrapf(ErrMalformed, "attribute %s of <%s> has an unterminated quote", key, name)
			}
			attrs[key] = body[valueStart:i]
			i++
			continue
		}
		valueStart := i
		for i < len(body) && !isSpace(body[i]) {
			i++
		}
		attrs[key] = body[valueStart:i]
	}
	return name, attrs, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
