package hypr

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// exportAll lets cmp look inside the unexported entry metadata.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

const sampleConfig = `# Hyprland config
$terminal = kitty
$mainMod = SUPER

exec-once = waybar
monitor=DP-1,2560x1440@144,0x0,1.0
monitor = ,preferred,auto,1,transform,1
foo_setting = 1
source = ~/.config/hypr/extra.conf

general {
    gaps_in = 5 # inner gaps
    col.active_border = rgba(33ccffee) rgba(00ff99ee) 45deg
}

decoration {
    rounding = 10

    blur {
        enabled = true
        size = 3
    }
}

animations {
    enabled = true
    bezier = myBezier, 0.05, 0.9, 0.1, 1.05
    animation = windows, 1, 7, myBezier
    animation = windowsOut, 1, 7, default, popin 80%
}

gesture = 3, horizontal, workspace
bind = $mainMod, Return, exec, $terminal
bindm = SUPER, mouse:272, movewindow
bindel = , XF86AudioRaiseVolume, exec, wpctl set-volume -l 1 @DEFAULT_AUDIO_SINK@ 5%+
`

func mustParse(t *testing.T, text string) *Document {
	t.Helper()
	doc, err := Parse(text, ParseOptions{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

func TestParseClassifiesLines(t *testing.T) {
	doc := mustParse(t, sampleConfig)

	vars := doc.Variables()
	if len(vars) != 2 || vars[0].Name != "terminal" || vars[0].Value != "kitty" {
		t.Errorf("Expected $terminal = kitty first, got %+v", vars)
	}

	execs := doc.ExecOnce()
	if len(execs) != 1 || execs[0].Command != "waybar" {
		t.Errorf("Expected one exec-once waybar, got %+v", execs)
	}

	monitors := doc.Monitors()
	if len(monitors) != 2 {
		t.Fatalf("Expected 2 monitors, got %d", len(monitors))
	}
	if monitors[0].Name != "DP-1" || monitors[0].Resolution != "2560x1440@144" || monitors[0].Scale != "1.0" {
		t.Errorf("Unexpected first monitor: %+v", monitors[0])
	}
	if monitors[1].Name != "" || !reflect.DeepEqual(monitors[1].Extra, []string{"transform", "1"}) {
		t.Errorf("Unexpected second monitor: %+v", monitors[1])
	}

	binds := doc.Keybinds()
	if len(binds) != 3 {
		t.Fatalf("Expected 3 keybinds, got %d", len(binds))
	}
	if binds[1].Directive() != "bindm" || binds[1].Dispatcher != "movewindow" {
		t.Errorf("Unexpected bindm: %+v", binds[1])
	}
	if binds[2].Params != "wpctl set-volume -l 1 @DEFAULT_AUDIO_SINK@ 5%+" {
		t.Errorf("Expected params to keep everything after the third comma, got %q", binds[2].Params)
	}

	if g := doc.Gestures(); len(g) != 1 || g[0].Action != "workspace" {
		t.Errorf("Unexpected gestures: %+v", g)
	}

	if v, ok := doc.Value("decoration.blur", "size"); !ok || v != "3" {
		t.Errorf("Expected decoration.blur size 3, got %q (%v)", v, ok)
	}
	if v, _ := doc.Value("general", "gaps_in"); v != "5" {
		t.Errorf("Expected inline comment to be split off, got %q", v)
	}

	if len(doc.Diagnostics()) != 0 {
		t.Errorf("Expected no diagnostics, got %v", doc.Diagnostics())
	}
}

func TestUnknownDirectivePreservedVerbatim(t *testing.T) {
	input := "foo_setting = 1\n  weird_thing=2   # keep me\n"
	doc := mustParse(t, input)

	for _, e := range doc.Entries() {
		if e.Kind() != KindRaw {
			t.Errorf("Expected raw line, got %s", e.Kind())
		}
	}

	if got := Serialize(doc); got != input {
		t.Errorf("Expected verbatim output %q, got %q", input, got)
	}
}

func TestCanonicalTextIsByteStable(t *testing.T) {
	input := `# comment kept as is
$terminal = kitty
exec-once = waybar # bar
monitor = DP-1, 1920x1080, 0x0, 1
bind = SUPER, Q, killactive

input {
    kb_layout = us
    touchpad {
        natural_scroll = false
    } # end touchpad
}
`
	if got := Serialize(mustParse(t, input)); got != input {
		t.Errorf("Round trip changed canonical text:\n%s", cmp.Diff(input, got))
	}
}

func TestRoundTripStructuralEquality(t *testing.T) {
	for name, text := range map[string]string{
		"sample":  sampleConfig,
		"default": DefaultConfig,
		"messy":   "bind=SUPER,Q,killactive,\nmonitor=DP-2,disable,,\n$x=\ngeneral{\n  gaps_in=1#c\n}\n",
		"no-eol":  "$a = b",
	} {
		t.Run(name, func(t *testing.T) {
			first := mustParse(t, text)
			second := mustParse(t, Serialize(first))
			if diff := cmp.Diff(first.entries, second.entries, exportAll); diff != "" {
				t.Errorf("load(serialize(load)) differs (-first +second):\n%s", diff)
			}
		})
	}
}

func TestSerializeIdempotent(t *testing.T) {
	doc := NewDocument()
	h := NewHistory(doc)
	mustDo(t, h, &InsertEntry{Entry: &Variable{Name: "term", Value: "foot"}})
	mustDo(t, h, &InsertEntry{Entry: &Monitor{Name: "HDMI-A-1", Resolution: "preferred"}})
	mustDo(t, h, &InsertEntry{Entry: &Keybind{Mods: "SUPER", Key: "T", Dispatcher: "exec", Params: "$term"}})
	mustDo(t, h, &InsertEntry{Entry: &Gesture{Fingers: "3", Direction: "vertical", Action: "fullscreen"}})
	mustDo(t, h, &InsertEntry{Entry: &Block{Name: "misc", Entries: []Entry{&Setting{Key: "vfr", Value: "true"}}}})

	once := Serialize(doc)
	twice := Serialize(mustParse(t, once))
	if once != twice {
		t.Errorf("Serialize not idempotent:\n%s", cmp.Diff(once, twice))
	}
}

func TestEscapedHashIsNotAComment(t *testing.T) {
	doc := mustParse(t, "misc {\n    col = ##ffffff # white\n}\n")
	v, _ := doc.Value("misc", "col")
	if v != "##ffffff" {
		t.Errorf("Expected escaped hash to stay in value, got %q", v)
	}
}

func TestTrailingNewlinePreserved(t *testing.T) {
	for _, input := range []string{"", "\n", "$a = b", "$a = b\n", "\n\n# x"} {
		if got := Serialize(mustParse(t, input)); got != input {
			t.Errorf("Expected %q, got %q", input, got)
		}
	}
}

func TestStrictParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		reason string
	}{
		{"unmatched close", "$a = b\n}\n", 2, "closing brace"},
		{"unclosed block", "general {\n    gaps_in = 5\n", 1, "never closed"},
		{"garbage in block", "general {\n    not an assignment\n}\n", 2, "expected"},
		{"bare word", "hello\n", 1, "expected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, ParseOptions{Strict: true})
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Expected ParseError, got %v", err)
			}
			if perr.Line != tt.line {
				t.Errorf("Expected line %d, got %d", tt.line, perr.Line)
			}
			if !strings.Contains(perr.Reason, tt.reason) {
				t.Errorf("Expected reason containing %q, got %q", tt.reason, perr.Reason)
			}

			// Permissive mode accepts the same input and reports it instead.
			doc, err := Parse(tt.input, ParseOptions{})
			if err != nil {
				t.Fatalf("Permissive parse failed: %v", err)
			}
			if len(doc.Diagnostics()) != 1 {
				t.Errorf("Expected 1 diagnostic, got %d", len(doc.Diagnostics()))
			}
		})
	}
}

func TestPermissiveKeepsUnparseableLines(t *testing.T) {
	input := "hello world\n}\n"
	if got := Serialize(mustParse(t, input)); got != input {
		t.Errorf("Expected %q, got %q", input, got)
	}
}

func TestUnclosedBlockIsClosedOnWrite(t *testing.T) {
	doc := mustParse(t, "general {\n    gaps_in = 5\n")
	want := "general {\n    gaps_in = 5\n}\n"
	if got := Serialize(doc); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestAnimationsDecode(t *testing.T) {
	doc := mustParse(t, sampleConfig)

	anims := doc.Animations()
	if len(anims) != 2 {
		t.Fatalf("Expected 2 animations, got %d", len(anims))
	}
	if anims[1].Style != "popin 80%" || anims[1].Curve != "default" {
		t.Errorf("Unexpected animation: %+v", anims[1])
	}
	if anims[0].Value() != "windows, 1, 7, myBezier" {
		t.Errorf("Unexpected re-encoded value %q", anims[0].Value())
	}

	beziers := doc.Beziers()
	if len(beziers) != 1 || beziers[0].Y1 != "1.05" {
		t.Errorf("Unexpected beziers: %+v", beziers)
	}
}

func TestDefaultParsesStrictly(t *testing.T) {
	doc := Default()
	if len(doc.Keybinds()) == 0 {
		t.Error("Expected default config to carry keybinds")
	}
	if _, ok := doc.Block("decoration.blur"); !ok {
		t.Error("Expected default config to have decoration.blur")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	doc := mustParse(t, sampleConfig)

	vars := doc.Variables()
	vars[0].Value = "changed"
	if v, _ := doc.Variable("terminal"); v.Value != "kitty" {
		t.Errorf("Mutating an accessor result leaked into the document: %q", v.Value)
	}

	b, _ := doc.Block("decoration")
	b.Entries = nil
	if b2, _ := doc.Block("decoration"); len(b2.Entries) == 0 {
		t.Error("Mutating a block copy leaked into the document")
	}
}

func TestUntouchedLinesKeepTheirLayout(t *testing.T) {
	input := "$a = 1\nmonitor=DP-1,1920x1080,0x0,1\nbind=SUPER,Q,killactive\ngeneral {\n\tgaps_in=5\n}   # end\n"
	doc := mustParse(t, input)
	h := NewHistory(doc)
	a, _ := doc.Variable("a")

	if err := h.SetField(a.ID(), FieldValue, "2"); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	want := "$a = 2" + strings.TrimPrefix(input, "$a = 1")
	if got := Serialize(doc); got != want {
		t.Errorf("Expected only the edited line to change:\n%s", cmp.Diff(want, got))
	}

	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := Serialize(doc); got != input {
		t.Errorf("Expected undo to restore the original text:\n%s", cmp.Diff(input, got))
	}

	if _, err := h.SetValue("general", "gaps_in", "8"); err != nil {
		t.Fatal(err)
	}
	want = strings.Replace(input, "\tgaps_in=5", "    gaps_in = 8", 1)
	if got := Serialize(doc); got != want {
		t.Errorf("Expected only the setting line to change:\n%s", cmp.Diff(want, got))
	}
}

func TestFormatIsCanonical(t *testing.T) {
	doc := mustParse(t, "monitor=DP-1,1920x1080,0x0,1\ngeneral{\n\tgaps_in=5#inner\n}#end\n# kept\n")
	want := "monitor = DP-1, 1920x1080, 0x0, 1\ngeneral {\n    gaps_in = 5 #inner\n} #end\n# kept\n"
	if got := Format(doc); got != want {
		t.Errorf("Unexpected canonical text:\n%s", cmp.Diff(want, got))
	}
	if got := Serialize(doc); got == want {
		t.Error("Expected Serialize to keep the original layout")
	}
}
