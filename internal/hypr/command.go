package hypr

import (
	"errors"
	"fmt"
)

// Target identifies what a command touched so a front end can refresh only
// the affected widget. Field is empty when a whole entry was inserted,
// removed or moved.
type Target struct {
	Entry  EntryID
	Parent EntryID
	Field  Field
}

// Command is one reversible edit. Commands carry everything they need to undo
// themselves and address entries by ID. They can only be run through a
// History.
type Command interface {
	// Label is a short human-readable description, e.g. for an undo menu.
	Label() string

	apply(d *Document) (Target, error)
	revert(d *Document) (Target, error)
	noop(d *Document) bool
}

// SetField changes one field of an entry from Old to New.
type SetField struct {
	Entry EntryID
	Field Field
	Old   string
	New   string
}

func (c *SetField) Label() string {
	return fmt.Sprintf("Change %s", c.Field)
}

func (c *SetField) noop(d *Document) bool {
	if c.Old == c.New {
		return true
	}
	_, _, e := d.locate(c.Entry)
	if e == nil {
		return false
	}
	cur, err := Get(e, c.Field)
	return err == nil && cur == normalize(e, c.Field, c.New)
}

func (c *SetField) apply(d *Document) (Target, error) {
	if c.Field == FieldText {
		parent, _, e := d.locate(c.Entry)
		if _, raw := e.(*RawLine); raw {
			if err := checkRawText(c.New, parent != nil); err != nil {
				return Target{}, err
			}
		}
	}
	return c.write(d, c.Old, c.New)
}

func (c *SetField) revert(d *Document) (Target, error) {
	return c.write(d, c.New, c.Old)
}

func (c *SetField) write(d *Document, from, to string) (Target, error) {
	parent, _, e := d.locate(c.Entry)
	if e == nil {
		return Target{}, fmt.Errorf("%w: %d", ErrNoEntry, c.Entry)
	}
	cur, err := Get(e, c.Field)
	if err != nil {
		return Target{}, err
	}
	if cur != normalize(e, c.Field, from) {
		return Target{}, fmt.Errorf("%w: %s is %q, expected %q", ErrConflict, c.Field, cur, from)
	}
	if err := set(e, c.Field, to); err != nil {
		return Target{}, err
	}
	return Target{Entry: c.Entry, Parent: parentID(parent), Field: c.Field}, nil
}

// InsertEntry places Entry at Index inside Parent (Root for top level). An
// Index outside the parent's range appends. IDs are assigned on first apply;
// read them back with ID.
type InsertEntry struct {
	Parent EntryID
	Index  int
	Entry  Entry

	prepared Entry
	at       int
}

func (c *InsertEntry) Label() string {
	if c.Entry == nil {
		return "Add entry"
	}
	return "Add " + c.Entry.Kind().String()
}

// ID returns the ID the inserted entry received, or 0 before the first apply.
func (c *InsertEntry) ID() EntryID {
	if c.prepared == nil {
		return 0
	}
	return c.prepared.ID()
}

func (c *InsertEntry) noop(*Document) bool { return false }

func (c *InsertEntry) apply(d *Document) (Target, error) {
	if c.prepared == nil {
		if c.Entry == nil {
			return Target{}, errors.New("insert: no entry")
		}
		if err := checkPlacement(c.Parent, c.Entry); err != nil {
			return Target{}, err
		}
		if err := validate(c.Entry, c.Parent != Root); err != nil {
			return Target{}, err
		}
		list, err := d.children(c.Parent)
		if err != nil {
			return Target{}, fmt.Errorf("%w: parent %d", err, c.Parent)
		}
		c.at = c.Index
		if c.at < 0 || c.at > len(*list) {
			c.at = len(*list)
		}
		c.prepared = Clone(c.Entry)
		d.assignIDs(c.prepared)
	}
	if err := d.insert(c.Parent, c.at, Clone(c.prepared)); err != nil {
		return Target{}, err
	}
	return Target{Entry: c.prepared.ID(), Parent: c.Parent}, nil
}

func (c *InsertEntry) revert(d *Document) (Target, error) {
	if _, _, _, err := d.remove(c.prepared.ID()); err != nil {
		return Target{}, err
	}
	return Target{Entry: c.prepared.ID(), Parent: c.Parent}, nil
}

// checkPlacement keeps the document round-trippable: settings only inside
// blocks, top-level directives only at the top level.
func checkPlacement(parent EntryID, e Entry) error {
	switch e.Kind() {
	case KindSetting:
		if parent == Root {
			return fmt.Errorf("%w: settings belong inside a block", ErrPlacement)
		}
	case KindVariable, KindExecOnce, KindMonitor, KindKeybind, KindGesture:
		if parent != Root {
			return fmt.Errorf("%w: %s entries belong at the top level", ErrPlacement, e.Kind())
		}
	}
	return nil
}

// RemoveEntry deletes an entry (with its children, for blocks).
type RemoveEntry struct {
	Entry EntryID

	removed Entry
	parent  EntryID
	index   int
}

func (c *RemoveEntry) Label() string {
	if c.removed != nil {
		return "Remove " + c.removed.Kind().String()
	}
	return "Remove entry"
}

func (c *RemoveEntry) noop(*Document) bool { return false }

func (c *RemoveEntry) apply(d *Document) (Target, error) {
	removed, parent, index, err := d.remove(c.Entry)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %d", err, c.Entry)
	}
	c.removed, c.parent, c.index = Clone(removed), parent, index
	return Target{Entry: c.Entry, Parent: parent}, nil
}

func (c *RemoveEntry) revert(d *Document) (Target, error) {
	if err := d.insert(c.parent, c.index, Clone(c.removed)); err != nil {
		return Target{}, err
	}
	return Target{Entry: c.Entry, Parent: c.parent}, nil
}

// MoveEntry moves an entry to index To within its current parent.
type MoveEntry struct {
	Entry EntryID
	To    int

	from   int
	parent EntryID
}

func (c *MoveEntry) Label() string { return "Move entry" }

func (c *MoveEntry) noop(d *Document) bool {
	owner, idx, e := d.locate(c.Entry)
	if e == nil {
		return false
	}
	n := len(d.entries)
	if owner != nil {
		n = len(owner.Entries)
	}
	return clampIndex(c.To, n-1) == idx
}

func (c *MoveEntry) apply(d *Document) (Target, error) {
	e, parent, from, err := d.remove(c.Entry)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %d", err, c.Entry)
	}
	list, err := d.children(parent)
	if err != nil {
		return Target{}, err
	}
	c.from, c.parent = from, parent
	if err := d.insert(parent, clampIndex(c.To, len(*list)), e); err != nil {
		return Target{}, err
	}
	return Target{Entry: c.Entry, Parent: parent}, nil
}

func (c *MoveEntry) revert(d *Document) (Target, error) {
	e, _, _, err := d.remove(c.Entry)
	if err != nil {
		return Target{}, err
	}
	if err := d.insert(c.parent, c.from, e); err != nil {
		return Target{}, err
	}
	return Target{Entry: c.Entry, Parent: c.parent}, nil
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

// Batch groups commands into a single undo unit.
type Batch struct {
	Name     string
	Commands []Command
}

func (c *Batch) Label() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Label()
	}
	return fmt.Sprintf("%d changes", len(c.Commands))
}

func (c *Batch) noop(d *Document) bool {
	for _, cmd := range c.Commands {
		if !cmd.noop(d) {
			return false
		}
	}
	return true
}

func (c *Batch) apply(d *Document) (Target, error) {
	var last Target
	for i, cmd := range c.Commands {
		t, err := cmd.apply(d)
		if err != nil {
			// Roll back what already ran so the batch is all-or-nothing.
			errs := []error{err}
			for j := i - 1; j >= 0; j-- {
				if _, rerr := c.Commands[j].revert(d); rerr != nil {
					errs = append(errs, fmt.Errorf("rolling back %s: %w", c.Commands[j].Label(), rerr))
				}
			}
			return Target{}, errors.Join(errs...)
		}
		last = t
	}
	return last, nil
}

func (c *Batch) revert(d *Document) (Target, error) {
	var last Target
	for i := len(c.Commands) - 1; i >= 0; i-- {
		t, err := c.Commands[i].revert(d)
		if err != nil {
			return Target{}, err
		}
		last = t
	}
	return last, nil
}

func parentID(b *Block) EntryID {
	if b == nil {
		return Root
	}
	return b.id
}
