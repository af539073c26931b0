package template

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hyprconf/hyprconf/internal/hypr"
)

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	titleCaser := cases.Title(language.English)
	return template.FuncMap{
		// String functions
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"title":     titleCaser.String,
		"trimSpace": strings.TrimSpace,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"replace":   strings.ReplaceAll,
		"join":      func(elems []string, sep string) string { return strings.Join(elems, sep) },
		"split":     strings.Split,

		// Formatting functions
		"indent":   indent,
		"padRight": padRight,
		"plural":   plural,

		// Config functions
		"line":  func(e hypr.Entry) string { return hypr.Line(e) },
		"combo": combo,
	}
}

// indent adds n spaces of indentation to each line.
func indent(n int, s string) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// padRight pads s with spaces to width terminal columns.
func padRight(width int, s string) string {
	n := runewidth.StringWidth(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// plural formats a count with its noun, e.g. "1 setting", "3 settings".
func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// combo renders a keybind's modifiers and key as "SUPER + Q".
func combo(k hypr.Keybind) string {
	parts := strings.Fields(k.Mods)
	if k.Key != "" {
		parts = append(parts, k.Key)
	}
	s := strings.Join(parts, " + ")
	if k.Flags != "" {
		s += " [" + k.Flags + "]"
	}
	return s
}
