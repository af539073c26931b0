package hypr

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Variable definition: $name = value
	variableRe = regexp.MustCompile(`^\$(\w+)$`)

	// Keybind keywords: bind, binde, bindm, bindel, ...
	keybindRe = regexp.MustCompile(`^bind([a-z]*)$`)

	// Block opener: name { (name may contain ':' and '-', e.g. device:epic-mouse)
	blockOpenRe = regexp.MustCompile(`^([^\s={}#][^={}#]*?)\s*\{$`)
)

// ParseOptions controls how Parse treats lines it cannot classify.
type ParseOptions struct {
	// Strict makes Parse fail on the first structurally invalid line instead
	// of keeping it as a RawLine.
	Strict bool
}

// ParseError describes a structurally invalid line.
type ParseError struct {
	Line   int // 1-based
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// parserState tracks the block nesting while scanning.
type parserState struct {
	doc   *Document
	opts  ParseOptions
	stack []openBlock
}

type openBlock struct {
	block *Block
	line  int
}

// Parse builds a Document from config text.
func Parse(text string, opts ParseOptions) (*Document, error) {
	doc := NewDocument()
	doc.trailingNewline = text == "" || strings.HasSuffix(text, "\n")

	st := &parserState{doc: doc, opts: opts}

	lines := strings.Split(text, "\n")
	if strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	if text == "" {
		lines = nil
	}

	for i, line := range lines {
		if err := st.parseLine(i+1, line); err != nil {
			return nil, err
		}
	}

	// Close whatever is still open, innermost first.
	for len(st.stack) > 0 {
		top := st.stack[len(st.stack)-1]
		perr := &ParseError{Line: top.line, Text: top.block.Name, Reason: fmt.Sprintf("block %q is never closed", top.block.Name)}
		if opts.Strict {
			return nil, perr
		}
		doc.diagnostics = append(doc.diagnostics, perr)
		st.stack = st.stack[:len(st.stack)-1]
	}

	return doc, nil
}

func (st *parserState) add(e Entry) {
	st.doc.assignIDs(e)
	if n := len(st.stack); n > 0 {
		b := st.stack[n-1].block
		b.Entries = append(b.Entries, e)
		return
	}
	st.doc.entries = append(st.doc.entries, e)
}

// reject records a structural problem: fatal in strict mode, a diagnostic plus
// a verbatim RawLine otherwise.
func (st *parserState) reject(lineNum int, line, reason string) error {
	perr := &ParseError{Line: lineNum, Text: line, Reason: reason}
	if st.opts.Strict {
		return perr
	}
	st.doc.diagnostics = append(st.doc.diagnostics, perr)
	st.add(&RawLine{Text: line})
	return nil
}

func (st *parserState) parseLine(lineNum int, line string) error {
	trimmed := strings.TrimSpace(line)

	// Blank lines and full-line comments keep their exact layout
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		st.add(&RawLine{Text: line})
		return nil
	}

	body, comment := splitComment(trimmed)

	// Block close
	if body == "}" {
		n := len(st.stack)
		if n == 0 {
			return st.reject(lineNum, line, "closing brace without an open block")
		}
		b := st.stack[n-1].block
		b.EndComment = comment
		b.endSrc, b.endKey = line, comment
		st.stack = st.stack[:n-1]
		return nil
	}

	// Block open
	if matches := blockOpenRe.FindStringSubmatch(body); matches != nil {
		b := &Block{Name: strings.TrimSpace(matches[1])}
		b.Comment = comment
		remember(b, line)
		st.add(b)
		st.stack = append(st.stack, openBlock{block: b, line: lineNum})
		return nil
	}

	key, value, ok := strings.Cut(body, "=")
	if !ok {
		return st.reject(lineNum, line, "expected `key = value`, `name {` or `}`")
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return st.reject(lineNum, line, "assignment without a key")
	}

	if len(st.stack) > 0 {
		s := &Setting{Key: key, Value: value}
		s.Comment = comment
		remember(s, line)
		st.add(s)
		return nil
	}

	e := classifyTopLevel(key, value)
	if e == nil {
		// Unknown directive: keep the line exactly as written
		st.add(&RawLine{Text: line})
		return nil
	}
	e.header().Comment = comment
	remember(e, line)
	st.add(e)
	return nil
}

// remember keeps the line e was parsed from so an untouched entry is written
// back exactly as it was.
func remember(e Entry, line string) {
	m := e.header()
	m.src, m.srcKey = line, sourceKey(e)
}

// classifyTopLevel maps a top-level assignment to a known entry, or nil.
func classifyTopLevel(key, value string) Entry {
	if matches := variableRe.FindStringSubmatch(key); matches != nil {
		return &Variable{Name: matches[1], Value: value}
	}
	if matches := keybindRe.FindStringSubmatch(key); matches != nil {
		parts := splitFields(value, 4)
		return &Keybind{
			Flags:      matches[1],
			Mods:       field(parts, 0),
			Key:        field(parts, 1),
			Dispatcher: field(parts, 2),
			Params:     field(parts, 3),
		}
	}
	switch key {
	case "exec-once":
		return &ExecOnce{Command: value}
	case "monitor":
		parts := splitFields(value, -1)
		for len(parts) > 4 && parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
		m := &Monitor{
			Name:       field(parts, 0),
			Resolution: field(parts, 1),
			Position:   field(parts, 2),
			Scale:      field(parts, 3),
		}
		if len(parts) > 4 {
			m.Extra = append([]string(nil), parts[4:]...)
		}
		return m
	case "gesture":
		parts := splitFields(value, 4)
		return &Gesture{
			Fingers:   field(parts, 0),
			Direction: field(parts, 1),
			Action:    field(parts, 2),
			Params:    field(parts, 3),
		}
	}
	return nil
}

// splitComment separates a trailing inline comment. A '#' starts a comment
// unless it is doubled ("##" is an escaped literal hash).
func splitComment(s string) (body, comment string) {
	for i := 0; i < len(s); i++ {
		if s[i] != '#' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '#' {
			i++
			continue
		}
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i:])
	}
	return s, ""
}

// splitFields splits a comma list into at most n trimmed parts (n < 0: all).
func splitFields(s string, n int) []string {
	if s == "" {
		return nil
	}
	parts := strings.SplitN(s, ",", n)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func field(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}
