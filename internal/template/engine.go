package template

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
)

// Built-in template names.
const (
	Summary   = "summary"
	Variables = "variables"
)

// Engine handles template loading and rendering.
type Engine struct {
	templates map[string]*template.Template
}

// New creates a new template engine with the built-in templates loaded.
func New() *Engine {
	e := &Engine{
		templates: make(map[string]*template.Template),
	}
	for name, content := range builtins {
		if err := e.LoadString(name, content); err != nil {
			panic(fmt.Sprintf("built-in template %s: %v", name, err))
		}
	}
	return e
}

// LoadFile loads a template from a file path.
func (e *Engine) LoadFile(name, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading template file: %w", err)
	}

	return e.LoadString(name, string(content))
}

// LoadString loads a template from a string.
func (e *Engine) LoadString(name, content string) error {
	tmpl, err := template.New(name).Funcs(FuncMap()).Parse(content)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	e.templates[name] = tmpl
	return nil
}

// Render renders a template with the given data.
func (e *Engine) Render(name string, data any) (string, error) {
	tmpl, ok := e.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return buf.String(), nil
}

var builtins = map[string]string{
	Summary: `{{ .Path }}
{{- if .Variables }}

Variables:
{{- range .Variables }}
  ${{ padRight 16 .Name }} {{ .Value }}{{ if ne .Value .Resolved }}  -> {{ .Resolved }}{{ end }}
{{- end }}
{{- end }}
{{- if .Monitors }}

Monitors:
{{- range .Monitors }}
  {{ padRight 12 (or .Name "(any)") }} {{ .Resolution }}{{ if .Position }} at {{ .Position }}{{ end }}{{ if .Scale }} scale {{ .Scale }}{{ end }}{{ if .Extra }} ({{ join .Extra ", " }}){{ end }}
{{- end }}
{{- end }}
{{- if .ExecOnce }}

Autostart:
{{- range .ExecOnce }}
  {{ .Command }}
{{- end }}
{{- end }}
{{- if .Keybinds }}

Keybinds:
{{- range .Keybinds }}
  {{ padRight 24 (combo .) }} {{ .Dispatcher }}{{ if .Params }} {{ .Params }}{{ end }}
{{- end }}
{{- end }}
{{- if .Gestures }}

Gestures:
{{- range .Gestures }}
  {{ .Fingers }} fingers {{ .Direction }}: {{ .Action }}{{ if .Params }} {{ .Params }}{{ end }}
{{- end }}
{{- end }}
{{- if or .Beziers .Animations }}

Animations:
{{- range .Beziers }}
  bezier {{ padRight 14 .Name }} {{ .X0 }}, {{ .Y0 }}, {{ .X1 }}, {{ .Y1 }}
{{- end }}
{{- range .Animations }}
  {{ padRight 21 .Name }} {{ if eq .Enabled "0" }}off{{ else }}{{ .Speed }} {{ .Curve }}{{ if .Style }} {{ .Style }}{{ end }}{{ end }}
{{- end }}
{{- end }}
{{- if .Sections }}

Sections:
{{- range .Sections }}
  {{ padRight 16 .Path }} {{ plural .Settings "setting" }}
{{- end }}
{{- end }}
{{- if .Diagnostics }}

Problems:
{{- range .Diagnostics }}
  {{ . }}
{{- end }}
{{- end }}
`,
	Variables: `{{- range .Variables }}
${{ .Name }} = {{ .Resolved }}
{{- end }}
{{- range .Undefined }}
${{ . }} is referenced but never defined
{{- end }}
`,
}
