package hypr

// EntryID identifies an entry for the lifetime of a Document. IDs are assigned
// in parse order and never reused, so commands can address an entry even after
// unrelated entries were inserted or removed around it.
type EntryID uint64

// Root is the parent ID of top-level entries.
const Root EntryID = 0

// Kind is the tag of an Entry.
type Kind int

const (
	KindRaw Kind = iota
	KindVariable
	KindExecOnce
	KindMonitor
	KindKeybind
	KindGesture
	KindBlock
	KindSetting
)

var kindNames = map[Kind]string{
	KindRaw:      "raw",
	KindVariable: "variable",
	KindExecOnce: "exec-once",
	KindMonitor:  "monitor",
	KindKeybind:  "keybind",
	KindGesture:  "gesture",
	KindBlock:    "block",
	KindSetting:  "setting",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Entry is one line (or one block) of a config document. The set of
// implementations is closed: *RawLine, *Variable, *ExecOnce, *Monitor,
// *Keybind, *Gesture, *Block and *Setting.
type Entry interface {
	ID() EntryID
	Kind() Kind
	header() *meta
}

// meta holds the fields every entry shares.
type meta struct {
	id EntryID
	// Comment is the trailing inline comment including its leading '#'.
	Comment string

	// src is the line as it was read; srcKey is the entry's canonical form at
	// that time. The writer reuses src while the canonical form still matches.
	src    string
	srcKey string
}

func (m *meta) ID() EntryID   { return m.id }
func (m *meta) header() *meta { return m }

// RawLine is a line kept verbatim: blank lines, comments, and any directive the
// model does not know about.
type RawLine struct {
	meta
	Text string
}

// Variable is a `$name = value` definition. Name excludes the '$'.
type Variable struct {
	meta
	Name  string
	Value string
}

// ExecOnce is an `exec-once = command` autostart directive.
type ExecOnce struct {
	meta
	Command string
}

// Monitor is a `monitor = name, resolution, position, scale[, extra...]` rule.
type Monitor struct {
	meta
	Name       string
	Resolution string
	Position   string
	Scale      string
	Extra      []string
}

// Keybind is a `bind[flags] = mods, key, dispatcher[, params]` line.
type Keybind struct {
	meta
	Flags      string // suffix after "bind", e.g. "m" for bindm
	Mods       string
	Key        string
	Dispatcher string
	Params     string
}

// Gesture is a `gesture = fingers, direction, action[, params]` line.
type Gesture struct {
	meta
	Fingers   string
	Direction string
	Action    string
	Params    string
}

// Block is a `name { ... }` section.
type Block struct {
	meta
	Name    string
	Entries []Entry
	// EndComment is the inline comment on the closing brace line.
	EndComment string

	endSrc string
	endKey string
}

// Setting is a `key = value` line inside a block.
type Setting struct {
	meta
	Key   string
	Value string
}

func (*RawLine) Kind() Kind  { return KindRaw }
func (*Variable) Kind() Kind { return KindVariable }
func (*ExecOnce) Kind() Kind { return KindExecOnce }
func (*Monitor) Kind() Kind  { return KindMonitor }
func (*Keybind) Kind() Kind  { return KindKeybind }
func (*Gesture) Kind() Kind  { return KindGesture }
func (*Block) Kind() Kind    { return KindBlock }
func (*Setting) Kind() Kind  { return KindSetting }

// Directive returns the left-hand keyword of the keybind, e.g. "bindm".
func (k *Keybind) Directive() string {
	return "bind" + k.Flags
}

// Setting returns the first setting named key directly inside the block.
func (b *Block) Setting(key string) (*Setting, bool) {
	for _, e := range b.Entries {
		if s, ok := e.(*Setting); ok && s.Key == key {
			return s, true
		}
	}
	return nil, false
}

// Child returns the first nested block with the given name.
func (b *Block) Child(name string) (*Block, bool) {
	for _, e := range b.Entries {
		if c, ok := e.(*Block); ok && c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of e, IDs included.
func Clone(e Entry) Entry {
	switch v := e.(type) {
	case *RawLine:
		c := *v
		return &c
	case *Variable:
		c := *v
		return &c
	case *ExecOnce:
		c := *v
		return &c
	case *Monitor:
		c := *v
		c.Extra = append([]string(nil), v.Extra...)
		return &c
	case *Keybind:
		c := *v
		return &c
	case *Gesture:
		c := *v
		return &c
	case *Setting:
		c := *v
		return &c
	case *Block:
		c := *v
		c.Entries = cloneEntries(v.Entries)
		return &c
	}
	return nil
}

func cloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Clone(e)
	}
	return out
}
