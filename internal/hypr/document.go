package hypr

import (
	"strings"
)

// Document is a parsed config file. Its exported API is read-only: accessors
// return copies, and the only way to change a Document is to run a Command
// through a History.
type Document struct {
	entries         []Entry
	nextID          EntryID
	trailingNewline bool
	diagnostics     []*ParseError
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{trailingNewline: true}
}

// Len returns the number of top-level entries.
func (d *Document) Len() int {
	return len(d.entries)
}

// Entries returns a deep copy of the top-level entries.
func (d *Document) Entries() []Entry {
	return cloneEntries(d.entries)
}

// Entry returns a copy of the entry with the given ID.
func (d *Document) Entry(id EntryID) (Entry, bool) {
	_, _, e := d.locate(id)
	if e == nil {
		return nil, false
	}
	return Clone(e), true
}

// Parent returns the ID of the block containing id (Root for top-level
// entries) and the entry's index within it.
func (d *Document) Parent(id EntryID) (EntryID, int, bool) {
	parent, idx, e := d.locate(id)
	if e == nil {
		return Root, 0, false
	}
	if parent == nil {
		return Root, idx, true
	}
	return parent.id, idx, true
}

// Diagnostics returns the problems a strict parse would have rejected.
func (d *Document) Diagnostics() []*ParseError {
	return append([]*ParseError(nil), d.diagnostics...)
}

// Variables returns the top-level variable definitions in file order.
func (d *Document) Variables() []Variable {
	var out []Variable
	for _, e := range d.entries {
		if v, ok := e.(*Variable); ok {
			out = append(out, *v)
		}
	}
	return out
}

// Variable returns the last definition of $name, mirroring how later
// assignments override earlier ones.
func (d *Document) Variable(name string) (Variable, bool) {
	name = strings.TrimPrefix(name, "$")
	var (
		found Variable
		ok    bool
	)
	for _, e := range d.entries {
		if v, isVar := e.(*Variable); isVar && v.Name == name {
			found, ok = *v, true
		}
	}
	return found, ok
}

// ExecOnce returns the autostart directives in file order.
func (d *Document) ExecOnce() []ExecOnce {
	var out []ExecOnce
	for _, e := range d.entries {
		if v, ok := e.(*ExecOnce); ok {
			out = append(out, *v)
		}
	}
	return out
}

// Monitors returns the monitor rules in file order.
func (d *Document) Monitors() []Monitor {
	var out []Monitor
	for _, e := range d.entries {
		if v, ok := e.(*Monitor); ok {
			out = append(out, *Clone(v).(*Monitor))
		}
	}
	return out
}

// Keybinds returns all bind* lines in file order.
func (d *Document) Keybinds() []Keybind {
	var out []Keybind
	for _, e := range d.entries {
		if v, ok := e.(*Keybind); ok {
			out = append(out, *v)
		}
	}
	return out
}

// Gestures returns the gesture lines in file order.
func (d *Document) Gestures() []Gesture {
	var out []Gesture
	for _, e := range d.entries {
		if v, ok := e.(*Gesture); ok {
			out = append(out, *v)
		}
	}
	return out
}

// Block returns a copy of the block at a dot-separated path such as
// "decoration.blur".
func (d *Document) Block(path string) (Block, bool) {
	b := d.findBlock(splitPath(path))
	if b == nil {
		return Block{}, false
	}
	return *Clone(b).(*Block), true
}

// Value returns the raw value of key inside the block at path.
func (d *Document) Value(path, key string) (string, bool) {
	b := d.findBlock(splitPath(path))
	if b == nil {
		return "", false
	}
	s, ok := b.Setting(key)
	if !ok {
		return "", false
	}
	return s.Value, true
}

// SettingID returns the ID of key inside the block at path.
func (d *Document) SettingID(path, key string) (EntryID, bool) {
	b := d.findBlock(splitPath(path))
	if b == nil {
		return 0, false
	}
	s, ok := b.Setting(key)
	if !ok {
		return 0, false
	}
	return s.id, true
}

// BlockID returns the ID of the block at path.
func (d *Document) BlockID(path string) (EntryID, bool) {
	b := d.findBlock(splitPath(path))
	if b == nil {
		return 0, false
	}
	return b.id, true
}

func splitPath(path string) []string {
	path = strings.Trim(path, ".")
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func (d *Document) findBlock(path []string) *Block {
	if len(path) == 0 {
		return nil
	}
	var cur *Block
	for _, e := range d.entries {
		if b, ok := e.(*Block); ok && b.Name == path[0] {
			cur = b
			break
		}
	}
	for _, name := range path[1:] {
		if cur == nil {
			return nil
		}
		cur, _ = cur.Child(name)
	}
	return cur
}

// locate finds id anywhere in the tree. parent is nil for top-level entries.
func (d *Document) locate(id EntryID) (parent *Block, idx int, e Entry) {
	if id == Root {
		return nil, 0, nil
	}
	var search func(owner *Block, entries []Entry) bool
	search = func(owner *Block, entries []Entry) bool {
		for i, cur := range entries {
			if cur.ID() == id {
				parent, idx, e = owner, i, cur
				return true
			}
			if b, ok := cur.(*Block); ok && search(b, b.Entries) {
				return true
			}
		}
		return false
	}
	search(nil, d.entries)
	return parent, idx, e
}

// children returns the entry list owned by parent.
func (d *Document) children(parent EntryID) (*[]Entry, error) {
	if parent == Root {
		return &d.entries, nil
	}
	_, _, e := d.locate(parent)
	b, ok := e.(*Block)
	if !ok {
		return nil, ErrNoEntry
	}
	return &b.Entries, nil
}

// assignIDs gives e and all of its children fresh IDs.
func (d *Document) assignIDs(e Entry) {
	d.nextID++
	e.header().id = d.nextID
	if b, ok := e.(*Block); ok {
		for _, c := range b.Entries {
			d.assignIDs(c)
		}
	}
}

func (d *Document) insert(parent EntryID, index int, e Entry) error {
	list, err := d.children(parent)
	if err != nil {
		return err
	}
	if index < 0 || index > len(*list) {
		index = len(*list)
	}
	*list = append(*list, nil)
	copy((*list)[index+1:], (*list)[index:])
	(*list)[index] = e
	return nil
}

func (d *Document) remove(id EntryID) (removed Entry, parent EntryID, index int, err error) {
	owner, idx, e := d.locate(id)
	if e == nil {
		return nil, Root, 0, ErrNoEntry
	}
	list := &d.entries
	parent = Root
	if owner != nil {
		list = &owner.Entries
		parent = owner.id
	}
	*list = append((*list)[:idx], (*list)[idx+1:]...)
	return e, parent, idx, nil
}
