package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hyprconf/hyprconf/internal/hypr"
	"github.com/hyprconf/hyprconf/internal/reload"
	"github.com/hyprconf/hyprconf/internal/session"
	"github.com/hyprconf/hyprconf/internal/template"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the config interactively with undo/redo",
	Long: `Read edit commands from standard input, one per line.

Changes stay in memory until "save" or "apply". Type "help" for the command
list.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(true)
		if err != nil {
			return err
		}
		if s.Created() {
			fmt.Fprintf(cmd.OutOrStdout(), "Created default config at %s\n", s.Path())
		}

		ed := newEditor(cmd.Context(), s, cmd.InOrStdin(), cmd.OutOrStdout())
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			ed.prompt = "hyprconf> "
		}
		return ed.run()
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}

const editHelp = `Commands:
  ls [section]                 list entries with their IDs
  show [section]               summary, or one section as text
  set <section.key> <value>    set a setting (missing sections are created)
  var <name> <value>           define or change $name
  bind <mods>, <key>, <dispatcher>[, <params>]
  exec <command>               add exec-once
  monitor <name>, <res>, <pos>, <scale>
  gesture <fingers>, <direction>, <action>
  add <line>                   add any top-level line, e.g. "bindl = , XF86AudioMute, exec, ..."
  field <id> <field> <value>   change one field of an entry
  rm <id>                      remove an entry
  mv <id> <index>              move an entry within its section
  undo | redo
  save | apply | revert
  quit                         leave (refuses with unsaved changes; quit! discards)`

// lineDirectives maps edit shorthands to the directive they add.
var lineDirectives = map[string]string{
	"bind":    "bind",
	"exec":    "exec-once",
	"monitor": "monitor",
	"gesture": "gesture",
}

// errQuit ends the edit loop.
var errQuit = errors.New("quit")

type editor struct {
	ctx    context.Context
	s      *session.Session
	in     *bufio.Scanner
	out    io.Writer
	prompt string
}

func newEditor(ctx context.Context, s *session.Session, in io.Reader, out io.Writer) *editor {
	ed := &editor{ctx: ctx, s: s, in: bufio.NewScanner(in), out: out}
	ed.watchHistory()
	return ed
}

// watchHistory logs every history change. Revert replaces the history, so it
// is called again afterwards.
func (e *editor) watchHistory() {
	h := e.s.History()
	h.OnChange(func() {
		undo, redo := h.Depth()
		logger.Debug("History changed.", "undo", undo, "redo", redo, "modified", e.s.Modified())
	})
}

func (e *editor) run() error {
	for {
		if e.prompt != "" {
			marker := ""
			if e.s.Modified() {
				marker = "*"
			}
			fmt.Fprint(e.out, marker+e.prompt)
		}
		if !e.in.Scan() {
			break
		}
		line := strings.TrimSpace(e.in.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		err := e.exec(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(e.out, "error: %v\n", err)
		}
	}
	if err := e.in.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}
	if e.s.Modified() {
		fmt.Fprintln(e.out, "⚠️  Input ended with unsaved changes; they were discarded")
	}
	return nil
}

func (e *editor) exec(line string) error {
	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	h := e.s.History()

	switch word {
	case "help", "?":
		fmt.Fprintln(e.out, editHelp)

	case "ls":
		return e.list(rest)

	case "show":
		return e.show(rest)

	case "set":
		target, value, ok := strings.Cut(rest, " ")
		if !ok {
			return fmt.Errorf("usage: set <section.key> <value>")
		}
		return e.record(func() error { return setTarget(h, target, strings.TrimSpace(value)) })

	case "var":
		name, value, ok := strings.Cut(rest, " ")
		if !ok {
			return fmt.Errorf("usage: var <name> <value>")
		}
		return e.record(func() error {
			return setTarget(h, "$"+strings.TrimPrefix(name, "$"), strings.TrimSpace(value))
		})

	case "bind", "exec", "monitor", "gesture":
		if rest == "" {
			return fmt.Errorf("usage: %s <fields>", word)
		}
		return e.add(lineDirectives[word] + " = " + rest)

	case "add":
		return e.add(rest)

	case "field":
		parts := strings.SplitN(rest, " ", 3)
		if len(parts) < 2 {
			return fmt.Errorf("usage: field <id> <field> <value>")
		}
		id, err := parseID(parts[0])
		if err != nil {
			return err
		}
		value := ""
		if len(parts) == 3 {
			value = parts[2]
		}
		return e.record(func() error { return h.SetField(id, hypr.Field(parts[1]), value) })

	case "rm":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		return e.record(func() error { return h.Remove(id) })

	case "mv":
		idText, indexText, _ := strings.Cut(rest, " ")
		id, err := parseID(idText)
		if err != nil {
			return err
		}
		index, err := strconv.Atoi(strings.TrimSpace(indexText))
		if err != nil {
			return fmt.Errorf("usage: mv <id> <index>")
		}
		return e.record(func() error { return h.Move(id, index) })

	case "undo":
		label := h.UndoLabel()
		if _, err := h.Undo(); err != nil {
			return err
		}
		fmt.Fprintf(e.out, "Undid: %s\n", label)

	case "redo":
		label := h.RedoLabel()
		if _, err := h.Redo(); err != nil {
			return err
		}
		fmt.Fprintf(e.out, "Redid: %s\n", label)

	case "save":
		return e.save()

	case "apply":
		out, err := e.s.Apply(e.ctx)
		var rerr *reload.ReloadError
		if errors.As(err, &rerr) {
			return fmt.Errorf("saved, but reload failed: %w", err)
		}
		if err != nil {
			return err
		}
		if out != "" {
			fmt.Fprintln(e.out, out)
		}
		fmt.Fprintln(e.out, "✅ Saved and reloaded")

	case "revert":
		if err := e.s.Revert(); err != nil {
			return err
		}
		e.watchHistory()
		fmt.Fprintln(e.out, "Reverted to file on disk")

	case "quit", "exit", "q":
		if e.s.Modified() {
			return fmt.Errorf("unsaved changes; save first or use quit! to discard")
		}
		return errQuit

	case "quit!", "q!":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q (try help)", word)
	}
	return nil
}

// record runs one edit and prints its undo label, or notes that nothing
// changed.
func (e *editor) record(edit func() error) error {
	before := e.s.Text()
	if err := edit(); err != nil {
		return err
	}
	if e.s.Text() == before {
		fmt.Fprintln(e.out, "No change")
		return nil
	}
	fmt.Fprintf(e.out, "✅ %s\n", e.s.History().UndoLabel())
	return nil
}

// add parses line as a single top-level directive and appends it.
func (e *editor) add(line string) error {
	doc, err := hypr.Parse(line, hypr.ParseOptions{Strict: true})
	if err != nil {
		return err
	}
	entries := doc.Entries()
	if len(entries) != 1 || entries[0].Kind() == hypr.KindRaw {
		return fmt.Errorf("%q is not a directive hyprconf understands; edit the file for raw lines", line)
	}
	id, err := e.s.History().Append(hypr.Root, entries[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "✅ Added #%d\n", id)
	return nil
}

func (e *editor) list(section string) error {
	doc := e.s.Document()
	entries := doc.Entries()
	if section != "" {
		b, ok := doc.Block(section)
		if !ok {
			return fmt.Errorf("section %q not found", section)
		}
		entries = b.Entries
	}
	for _, entry := range entries {
		if entry.Kind() == hypr.KindRaw {
			continue
		}
		fmt.Fprintf(e.out, "%5d  %-10s %s\n", entry.ID(), entry.Kind(), hypr.Line(entry))
	}
	return nil
}

func (e *editor) show(section string) error {
	doc := e.s.Document()
	if section != "" {
		b, ok := doc.Block(section)
		if !ok {
			return fmt.Errorf("section %q not found", section)
		}
		fmt.Fprint(e.out, hypr.SerializeEntry(&b))
		return nil
	}
	out, err := template.New().Render(template.Summary, template.BuildSummary(e.s.Path(), doc))
	if err != nil {
		return err
	}
	fmt.Fprint(e.out, out)
	return nil
}

func (e *editor) save() error {
	if !e.s.Modified() {
		fmt.Fprintln(e.out, "No changes to save")
		return nil
	}
	backup, err := e.s.Save()
	if err != nil {
		return err
	}
	if backup != "" {
		fmt.Fprintf(e.out, "✅ Saved (backup: %s)\n", backup)
	} else {
		fmt.Fprintln(e.out, "✅ Saved")
	}
	return nil
}

func parseID(s string) (hypr.EntryID, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry ID %q", s)
	}
	return hypr.EntryID(n), nil
}
