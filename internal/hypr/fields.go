package hypr

import (
	"errors"
	"fmt"
	"strings"
)

// Field names an editable string field of an entry.
type Field string

const (
	FieldText       Field = "text"
	FieldName       Field = "name"
	FieldValue      Field = "value"
	FieldCommand    Field = "command"
	FieldResolution Field = "resolution"
	FieldPosition   Field = "position"
	FieldScale      Field = "scale"
	FieldExtra      Field = "extra"
	FieldFlags      Field = "flags"
	FieldMods       Field = "mods"
	FieldKey        Field = "key"
	FieldDispatcher Field = "dispatcher"
	FieldParams     Field = "params"
	FieldFingers    Field = "fingers"
	FieldDirection  Field = "direction"
	FieldAction     Field = "action"
	FieldComment    Field = "comment"
	FieldEndComment Field = "end_comment"
)

// ErrInvalidValue is returned when a field value cannot be written as a
// single config line.
var ErrInvalidValue = errors.New("invalid field value")

// Fields lists the editable fields of an entry kind, in display order.
func Fields(k Kind) []Field {
	switch k {
	case KindRaw:
		return []Field{FieldText}
	case KindVariable:
		return []Field{FieldName, FieldValue, FieldComment}
	case KindExecOnce:
		return []Field{FieldCommand, FieldComment}
	case KindMonitor:
		return []Field{FieldName, FieldResolution, FieldPosition, FieldScale, FieldExtra, FieldComment}
	case KindKeybind:
		return []Field{FieldFlags, FieldMods, FieldKey, FieldDispatcher, FieldParams, FieldComment}
	case KindGesture:
		return []Field{FieldFingers, FieldDirection, FieldAction, FieldParams, FieldComment}
	case KindBlock:
		return []Field{FieldName, FieldComment, FieldEndComment}
	case KindSetting:
		return []Field{FieldKey, FieldValue, FieldComment}
	}
	return nil
}

// Get reads a field of an entry. The monitor's extra fields are returned
// joined with ", ".
func Get(e Entry, f Field) (string, error) {
	if m, ok := e.(*Monitor); ok && f == FieldExtra {
		return strings.Join(m.Extra, ", "), nil
	}
	p, err := fieldPtr(e, f)
	if err != nil {
		return "", err
	}
	return *p, nil
}

// set writes a field of an entry in place.
func set(e Entry, f Field, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: %s must be a single line", ErrInvalidValue, f)
	}
	value = normalize(e, f, value)
	if f != FieldText && f != FieldComment && f != FieldEndComment {
		if _, comment := splitComment(value); comment != "" {
			return fmt.Errorf("%w: %s contains an unescaped '#' (write ## for a literal hash)", ErrInvalidValue, f)
		}
	}
	if positional(e.Kind(), f) && strings.Contains(value, ",") {
		return fmt.Errorf("%w: %s must not contain a comma", ErrInvalidValue, f)
	}
	if v, ok := e.(*Variable); ok && f == FieldName {
		if !variableRe.MatchString("$" + value) {
			return fmt.Errorf("%w: %q is not a variable name", ErrInvalidValue, value)
		}
		v.Name = value
		return nil
	}
	if m, ok := e.(*Monitor); ok && f == FieldExtra {
		m.Extra = splitFields(value, -1)
		return nil
	}
	switch {
	case e.Kind() == KindKeybind && f == FieldFlags && !keybindRe.MatchString("bind"+value):
		return fmt.Errorf("%w: %q is not a bind flag set", ErrInvalidValue, value)
	case (e.Kind() == KindSetting && f == FieldKey) || (e.Kind() == KindBlock && f == FieldName):
		if strings.TrimSpace(value) == "" || strings.ContainsAny(value, "={}#") {
			return fmt.Errorf("%w: %q", ErrInvalidValue, value)
		}
	}
	p, err := fieldPtr(e, f)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

// validate applies the rules of set to every field of e and, for blocks, its
// children. nested reports whether e goes inside a block.
func validate(e Entry, nested bool) error {
	candidate := Clone(e)
	for _, f := range Fields(e.Kind()) {
		v, err := Get(candidate, f)
		if err != nil {
			return err
		}
		if err := set(candidate, f, v); err != nil {
			return fmt.Errorf("%s: %w", e.Kind(), err)
		}
	}
	switch v := e.(type) {
	case *RawLine:
		return checkRawText(v.Text, nested)
	case *Block:
		for _, child := range v.Entries {
			if child.Kind() != KindSetting && child.Kind() != KindBlock && child.Kind() != KindRaw {
				return fmt.Errorf("%w: %s entries belong at the top level", ErrPlacement, child.Kind())
			}
			if err := validate(child, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkRawText reports whether text reads back as a single raw line. Inside a
// block only comments and blank lines do; at the top level an unrecognized
// directive does too.
func checkRawText(text string, nested bool) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}
	if nested {
		return fmt.Errorf("%w: only comments and blank lines are kept as raw lines inside a block", ErrInvalidValue)
	}
	doc, err := Parse(text, ParseOptions{Strict: true})
	if err != nil || len(doc.entries) != 1 || doc.entries[0].Kind() != KindRaw {
		return fmt.Errorf("%w: %q would not read back as an unrecognized line", ErrInvalidValue, text)
	}
	return nil
}

// normalize returns value in the form set stores it, so callers can compare
// a requested value against what Get reports.
func normalize(e Entry, f Field, value string) string {
	if f != FieldText {
		value = strings.TrimSpace(value)
	}
	switch {
	case f == FieldComment || f == FieldEndComment:
		// "##" is an escaped hash, so such a comment needs a real '#' in front.
		if value != "" && (!strings.HasPrefix(value, "#") || strings.HasPrefix(value, "##")) {
			value = "# " + value
		}
	case f == FieldName && e.Kind() == KindVariable:
		value = strings.TrimPrefix(strings.TrimSpace(value), "$")
	case f == FieldExtra && e.Kind() == KindMonitor:
		value = strings.Join(splitFields(value, -1), ", ")
	}
	return value
}

// positional reports whether f is a comma-separated field followed by others
// on the same line.
func positional(k Kind, f Field) bool {
	switch k {
	case KindMonitor:
		return f == FieldName || f == FieldResolution || f == FieldPosition || f == FieldScale
	case KindKeybind:
		return f == FieldMods || f == FieldKey || f == FieldDispatcher
	case KindGesture:
		return f == FieldFingers || f == FieldDirection || f == FieldAction
	}
	return false
}

func fieldPtr(e Entry, f Field) (*string, error) {
	if f == FieldComment {
		if _, raw := e.(*RawLine); !raw {
			return &e.header().Comment, nil
		}
	}
	switch v := e.(type) {
	case *RawLine:
		if f == FieldText {
			return &v.Text, nil
		}
	case *Variable:
		switch f {
		case FieldName:
			return &v.Name, nil
		case FieldValue:
			return &v.Value, nil
		}
	case *ExecOnce:
		if f == FieldCommand {
			return &v.Command, nil
		}
	case *Monitor:
		switch f {
		case FieldName:
			return &v.Name, nil
		case FieldResolution:
			return &v.Resolution, nil
		case FieldPosition:
			return &v.Position, nil
		case FieldScale:
			return &v.Scale, nil
		}
	case *Keybind:
		switch f {
		case FieldFlags:
			return &v.Flags, nil
		case FieldMods:
			return &v.Mods, nil
		case FieldKey:
			return &v.Key, nil
		case FieldDispatcher:
			return &v.Dispatcher, nil
		case FieldParams:
			return &v.Params, nil
		}
	case *Gesture:
		switch f {
		case FieldFingers:
			return &v.Fingers, nil
		case FieldDirection:
			return &v.Direction, nil
		case FieldAction:
			return &v.Action, nil
		case FieldParams:
			return &v.Params, nil
		}
	case *Block:
		switch f {
		case FieldName:
			return &v.Name, nil
		case FieldEndComment:
			return &v.EndComment, nil
		}
	case *Setting:
		switch f {
		case FieldKey:
			return &v.Key, nil
		case FieldValue:
			return &v.Value, nil
		}
	}
	return nil, fmt.Errorf("%s entries have no field %q", e.Kind(), f)
}
