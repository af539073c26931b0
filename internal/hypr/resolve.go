package hypr

import (
	"regexp"
	"sort"
	"strings"
)

// referenceRe matches a $name token.
var referenceRe = regexp.MustCompile(`\$(\w+)`)

// UndefinedMarker is the text shown in place of a reference to a variable that
// is never defined.
func UndefinedMarker(name string) string {
	return "<undefined:$" + name + ">"
}

// Resolution maps variable names (without '$') to their effective values.
// Names that are referenced but never defined map to UndefinedMarker.
type Resolution map[string]string

// ResolveVariables performs one substitution pass over the variable
// definitions. A definition that references another variable gets that
// variable's raw value; the result is not expanded again.
func ResolveVariables(d *Document) Resolution {
	raw := make(map[string]string)
	for _, v := range d.Variables() {
		raw[v.Name] = v.Value
	}

	res := make(Resolution, len(raw))
	for name, value := range raw {
		res[name] = substitute(value, raw)
	}

	// Record every referenced-but-undefined name so front ends can flag it.
	var visit func(entries []Entry)
	visit = func(entries []Entry) {
		for _, e := range entries {
			if r, ok := e.(*RawLine); ok && strings.HasPrefix(strings.TrimSpace(r.Text), "#") {
				continue
			}
			for _, f := range Fields(e.Kind()) {
				if f == FieldComment || f == FieldEndComment {
					continue
				}
				value, _ := Get(e, f)
				for _, name := range References(value) {
					if _, ok := longestPrefix(name, raw); !ok {
						res[name] = UndefinedMarker(name)
					}
				}
			}
			if b, ok := e.(*Block); ok {
				visit(b.Entries)
			}
		}
	}
	visit(d.entries)

	return res
}

// Expand substitutes every $name token in text with its effective value.
func (r Resolution) Expand(text string) string {
	defined := make(map[string]string, len(r))
	for name, value := range r {
		if value != UndefinedMarker(name) {
			defined[name] = value
		}
	}
	return substitute(text, defined)
}

// Undefined returns the referenced names that have no definition, sorted.
func (r Resolution) Undefined() []string {
	var names []string
	for name, value := range r {
		if value == UndefinedMarker(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// References returns the variable names referenced in text, in order of
// appearance, without the '$'.
func References(text string) []string {
	var names []string
	for _, m := range referenceRe.FindAllStringSubmatch(text, -1) {
		names = append(names, m[1])
	}
	return names
}

// substitute replaces each $token with the value of the longest defined
// variable name that prefixes the token; the rest of the token is kept.
func substitute(text string, values map[string]string) string {
	if !strings.Contains(text, "$") {
		return text
	}
	return referenceRe.ReplaceAllStringFunc(text, func(token string) string {
		word := token[1:]
		name, ok := longestPrefix(word, values)
		if !ok {
			return UndefinedMarker(word)
		}
		return values[name] + word[len(name):]
	})
}

func longestPrefix(word string, values map[string]string) (string, bool) {
	for n := len(word); n > 0; n-- {
		if _, ok := values[word[:n]]; ok {
			return word[:n], true
		}
	}
	return "", false
}
