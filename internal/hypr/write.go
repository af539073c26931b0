package hypr

import (
	"strings"
)

// indentUnit is the indentation written per block level.
const indentUnit = "    "

// Serialize renders the document as config text. It has no side effects and
// always produces the same text for the same document. Entries whose content
// is unchanged since they were parsed keep their original line; new and
// edited entries are written in canonical form.
func Serialize(d *Document) string {
	return render(d, false)
}

// Format renders the document with every known entry in canonical form:
// `key = value`, comma lists joined by ", " and four spaces of indentation
// per block level. Raw lines are still written verbatim.
func Format(d *Document) string {
	return render(d, true)
}

// SerializeEntry renders one entry, including a block's children, in
// canonical form at the top indentation level.
func SerializeEntry(e Entry) string {
	w := &writer{canonical: true}
	w.entry(e, 0)
	return w.String()
}

func render(d *Document, canonical bool) string {
	w := &writer{canonical: canonical}
	w.entries(d.entries, 0)

	out := w.String()
	if !d.trailingNewline {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}

type writer struct {
	strings.Builder
	canonical bool
}

func (w *writer) entries(entries []Entry, depth int) {
	for _, e := range entries {
		w.entry(e, depth)
	}
}

func (w *writer) entry(e Entry, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	switch v := e.(type) {
	case *RawLine:
		w.WriteString(v.Text)
		w.WriteString("\n")
		return
	case *Block:
		if !w.source(v) {
			w.line(indent, v.Name+" {", v.Comment)
		}
		w.entries(v.Entries, depth+1)
		if !w.canonical && v.endSrc != "" && v.EndComment == v.endKey {
			w.WriteString(v.endSrc)
			w.WriteString("\n")
		} else {
			w.line(indent, "}", v.EndComment)
		}
		return
	}

	if !w.source(e) {
		w.line(indent, Line(e), e.header().Comment)
	}
}

// source writes the entry's original line if it still describes the entry.
func (w *writer) source(e Entry) bool {
	m := e.header()
	if w.canonical || m.src == "" || m.srcKey != sourceKey(e) {
		return false
	}
	w.WriteString(m.src)
	w.WriteString("\n")
	return true
}

// sourceKey identifies what an entry's line says, independent of layout.
func sourceKey(e Entry) string {
	return Line(e) + "\x00" + e.header().Comment
}

func (w *writer) line(indent, body, comment string) {
	w.WriteString(indent)
	w.WriteString(body)
	if comment != "" {
		w.WriteString(" ")
		w.WriteString(comment)
	}
	w.WriteString("\n")
}

// Line returns the canonical single-line form of an entry without
// indentation or comment. Blocks render as their opening line.
func Line(e Entry) string {
	switch v := e.(type) {
	case *RawLine:
		return v.Text
	case *Variable:
		return assignment("$"+v.Name, v.Value)
	case *ExecOnce:
		return assignment("exec-once", v.Command)
	case *Monitor:
		parts := append([]string{v.Name, v.Resolution, v.Position, v.Scale}, v.Extra...)
		return assignment("monitor", joinFields(parts, 1))
	case *Keybind:
		parts := []string{v.Mods, v.Key, v.Dispatcher}
		if v.Params != "" {
			parts = append(parts, v.Params)
		}
		return assignment(v.Directive(), joinFields(parts, len(parts)))
	case *Gesture:
		parts := []string{v.Fingers, v.Direction, v.Action}
		if v.Params != "" {
			parts = append(parts, v.Params)
		}
		return assignment("gesture", joinFields(parts, len(parts)))
	case *Setting:
		return assignment(v.Key, v.Value)
	case *Block:
		return v.Name + " {"
	}
	return ""
}

func assignment(key, value string) string {
	return strings.TrimRight(key+" = "+value, " ")
}

// joinFields joins a comma list, dropping trailing empty fields beyond the
// first keep entries.
func joinFields(parts []string, keep int) string {
	end := len(parts)
	for end > keep && parts[end-1] == "" {
		end--
	}
	return strings.Join(parts[:end], ", ")
}
