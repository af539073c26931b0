package hypr

import (
	"fmt"
	"strings"
)

// History owns a Document's mutation path: every change runs as a Command
// and lands on the undo stack. A new change after an undo drops the redo
// stack.
type History struct {
	doc       *Document
	undo      []Command
	redo      []Command
	limit     int
	listeners []func()
}

// NewHistory wraps doc. Depth is unbounded until SetLimit is called.
func NewHistory(doc *Document) *History {
	return &History{doc: doc}
}

// Document returns the document this history edits. Its exported API is
// read-only.
func (h *History) Document() *Document {
	return h.doc
}

// SetLimit bounds the undo depth; the oldest commands are dropped first.
// Zero or less means unbounded.
func (h *History) SetLimit(n int) {
	h.limit = n
	h.trim()
}

// OnChange registers fn to run after every Do, Undo, Redo or Clear.
func (h *History) OnChange(fn func()) {
	h.listeners = append(h.listeners, fn)
}

// Do runs cmd and records it. Commands that would not change the document are
// skipped and leave both stacks untouched.
func (h *History) Do(cmd Command) error {
	if cmd.noop(h.doc) {
		return nil
	}
	if _, err := cmd.apply(h.doc); err != nil {
		return err
	}
	h.undo = append(h.undo, cmd)
	h.redo = nil
	h.trim()
	h.notify()
	return nil
}

// Undo reverts the most recent command and returns what it touched.
func (h *History) Undo() (Target, error) {
	n := len(h.undo)
	if n == 0 {
		return Target{}, &EmptyStackError{Op: "undo"}
	}
	cmd := h.undo[n-1]
	t, err := cmd.revert(h.doc)
	if err != nil {
		return Target{}, fmt.Errorf("undo %s: %w", cmd.Label(), err)
	}
	h.undo = h.undo[:n-1]
	h.redo = append(h.redo, cmd)
	h.notify()
	return t, nil
}

// Redo re-applies the most recently undone command.
func (h *History) Redo() (Target, error) {
	n := len(h.redo)
	if n == 0 {
		return Target{}, &EmptyStackError{Op: "redo"}
	}
	cmd := h.redo[n-1]
	t, err := cmd.apply(h.doc)
	if err != nil {
		return Target{}, fmt.Errorf("redo %s: %w", cmd.Label(), err)
	}
	h.redo = h.redo[:n-1]
	h.undo = append(h.undo, cmd)
	h.notify()
	return t, nil
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoLabel describes the command Undo would revert, or "".
func (h *History) UndoLabel() string {
	if n := len(h.undo); n > 0 {
		return h.undo[n-1].Label()
	}
	return ""
}

// RedoLabel describes the command Redo would re-apply, or "".
func (h *History) RedoLabel() string {
	if n := len(h.redo); n > 0 {
		return h.redo[n-1].Label()
	}
	return ""
}

// Depth returns the sizes of the undo and redo stacks.
func (h *History) Depth() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

// Clear forgets all history without touching the document.
func (h *History) Clear() {
	h.undo, h.redo = nil, nil
	h.notify()
}

// SetField changes one field of an entry, capturing its current value for
// undo.
func (h *History) SetField(id EntryID, f Field, value string) error {
	_, _, e := h.doc.locate(id)
	if e == nil {
		return fmt.Errorf("%w: %d", ErrNoEntry, id)
	}
	old, err := Get(e, f)
	if err != nil {
		return err
	}
	return h.Do(&SetField{Entry: id, Field: f, Old: old, New: value})
}

// SetValue sets key inside the block at the dot-separated section path. An
// existing setting is updated in place; otherwise the setting is appended to
// the block, and missing blocks along the path are created at the end of the
// document. It returns the setting's ID.
func (h *History) SetValue(section, key, value string) (EntryID, error) {
	path := splitPath(section)
	if len(path) == 0 {
		return 0, fmt.Errorf("%w: empty section path", ErrPlacement)
	}
	if id, ok := h.doc.SettingID(section, key); ok {
		return id, h.SetField(id, FieldValue, value)
	}

	// Walk down to the deepest block that already exists.
	parent := Root
	depth := 0
	for depth < len(path) {
		id, ok := h.doc.BlockID(strings.Join(path[:depth+1], "."))
		if !ok {
			break
		}
		parent = id
		depth++
	}

	setting := &Setting{Key: key, Value: value}
	var entry Entry = setting
	for i := len(path) - 1; i >= depth; i-- {
		entry = &Block{Name: path[i], Entries: []Entry{entry}}
	}

	if err := h.Do(&InsertEntry{Parent: parent, Index: -1, Entry: entry}); err != nil {
		return 0, err
	}
	id, _ := h.doc.SettingID(section, key)
	return id, nil
}

// Append adds e at the end of parent (Root for top level) and returns its ID.
// New top-level directives are placed after the last entry of the same kind
// when one exists, so related lines stay together.
func (h *History) Append(parent EntryID, e Entry) (EntryID, error) {
	index := -1
	if parent == Root {
		for i, cur := range h.doc.entries {
			if cur.Kind() == e.Kind() && e.Kind() != KindRaw && e.Kind() != KindBlock {
				index = i + 1
			}
		}
	}
	return h.Insert(parent, index, e)
}

// Insert adds e at index inside parent and returns its ID.
func (h *History) Insert(parent EntryID, index int, e Entry) (EntryID, error) {
	cmd := &InsertEntry{Parent: parent, Index: index, Entry: e}
	if err := h.Do(cmd); err != nil {
		return 0, err
	}
	return cmd.ID(), nil
}

// Remove deletes the entry with the given ID.
func (h *History) Remove(id EntryID) error {
	return h.Do(&RemoveEntry{Entry: id})
}

// Move moves an entry to a new index within its parent.
func (h *History) Move(id EntryID, to int) error {
	return h.Do(&MoveEntry{Entry: id, To: to})
}

func (h *History) trim() {
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = append([]Command(nil), h.undo[len(h.undo)-h.limit:]...)
	}
}

func (h *History) notify() {
	for _, fn := range h.listeners {
		fn()
	}
}
