package template

import (
	"github.com/hyprconf/hyprconf/internal/hypr"
)

// SummaryData is the data passed to the summary and variables templates.
type SummaryData struct {
	Path        string
	Variables   []VariableData
	Undefined   []string
	Monitors    []hypr.Monitor
	ExecOnce    []hypr.ExecOnce
	Keybinds    []hypr.Keybind
	Gestures    []hypr.Gesture
	Beziers     []hypr.Bezier
	Animations  []hypr.Animation
	Sections    []SectionData
	Diagnostics []string
}

// VariableData pairs a variable's stored value with its resolved value.
type VariableData struct {
	Name     string
	Value    string
	Resolved string
}

// SectionData describes one block, nested blocks included.
type SectionData struct {
	Path     string // dot-separated, e.g. "decoration.blur"
	Settings int
}

// BuildSummary collects the display data for a document.
func BuildSummary(path string, doc *hypr.Document) *SummaryData {
	res := hypr.ResolveVariables(doc)

	data := &SummaryData{
		Path:       path,
		Undefined:  res.Undefined(),
		Monitors:   doc.Monitors(),
		ExecOnce:   doc.ExecOnce(),
		Keybinds:   doc.Keybinds(),
		Gestures:   doc.Gestures(),
		Beziers:    doc.Beziers(),
		Animations: doc.Animations(),
	}

	// Keybinds are shown with variables expanded.
	for i := range data.Keybinds {
		k := &data.Keybinds[i]
		k.Mods = res.Expand(k.Mods)
		k.Key = res.Expand(k.Key)
		k.Params = res.Expand(k.Params)
	}

	// Later definitions win; list each name once, at its last definition.
	vars := doc.Variables()
	seen := make(map[string]bool, len(vars))
	for i := len(vars) - 1; i >= 0; i-- {
		v := vars[i]
		if seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		data.Variables = append([]VariableData{{Name: v.Name, Value: v.Value, Resolved: res[v.Name]}}, data.Variables...)
	}

	for _, e := range doc.Entries() {
		if b, ok := e.(*hypr.Block); ok {
			data.Sections = append(data.Sections, collectSections(b, "")...)
		}
	}

	for _, d := range doc.Diagnostics() {
		data.Diagnostics = append(data.Diagnostics, d.Error())
	}

	return data
}

func collectSections(b *hypr.Block, prefix string) []SectionData {
	path := b.Name
	if prefix != "" {
		path = prefix + "." + b.Name
	}

	section := SectionData{Path: path}
	var nested []SectionData
	for _, e := range b.Entries {
		switch v := e.(type) {
		case *hypr.Setting:
			section.Settings++
		case *hypr.Block:
			nested = append(nested, collectSections(v, path)...)
		}
	}
	return append([]SectionData{section}, nested...)
}
