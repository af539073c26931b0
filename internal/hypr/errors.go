package hypr

import "errors"

var (
	// ErrNoEntry is returned when a command addresses an entry that is not in
	// the document.
	ErrNoEntry = errors.New("entry not found")

	// ErrConflict is returned when a SetField command's Old value does not
	// match the document.
	ErrConflict = errors.New("field changed since the command was created")

	// ErrPlacement is returned when an entry kind cannot live at the requested
	// nesting level.
	ErrPlacement = errors.New("entry cannot be placed here")
)

// EmptyStackError is returned by Undo and Redo when there is nothing to act on.
type EmptyStackError struct {
	Op string // "undo" or "redo"
}

func (e *EmptyStackError) Error() string {
	return "nothing to " + e.Op
}
