package hypr

// Animation is a decoded `animation = name, onoff, speed, curve[, style]`
// setting from the animations block.
type Animation struct {
	ID      EntryID
	Name    string
	Enabled string
	Speed   string
	Curve   string
	Style   string
}

// Bezier is a decoded `bezier = name, x0, y0, x1, y1` setting.
type Bezier struct {
	ID     EntryID
	Name   string
	X0, Y0 string
	X1, Y1 string
}

// Animations decodes the animation settings. Missing fields get Hyprland's
// defaults (enabled, speed 1, default curve).
func (d *Document) Animations() []Animation {
	var out []Animation
	for _, s := range d.animationSettings("animation") {
		parts := splitFields(s.Value, 5)
		out = append(out, Animation{
			ID:      s.id,
			Name:    field(parts, 0),
			Enabled: fieldOr(parts, 1, "1"),
			Speed:   fieldOr(parts, 2, "1"),
			Curve:   fieldOr(parts, 3, "default"),
			Style:   field(parts, 4),
		})
	}
	return out
}

// Beziers decodes the bezier curve settings.
func (d *Document) Beziers() []Bezier {
	var out []Bezier
	for _, s := range d.animationSettings("bezier") {
		parts := splitFields(s.Value, 5)
		out = append(out, Bezier{
			ID:   s.id,
			Name: field(parts, 0),
			X0:   fieldOr(parts, 1, "0"),
			Y0:   fieldOr(parts, 2, "0"),
			X1:   fieldOr(parts, 3, "1"),
			Y1:   fieldOr(parts, 4, "1"),
		})
	}
	return out
}

// Value renders the animation back into its setting value.
func (a Animation) Value() string {
	parts := []string{a.Name, a.Enabled, a.Speed, a.Curve}
	if a.Style != "" {
		parts = append(parts, a.Style)
	}
	return joinFields(parts, len(parts))
}

// Value renders the curve back into its setting value.
func (b Bezier) Value() string {
	return joinFields([]string{b.Name, b.X0, b.Y0, b.X1, b.Y1}, 5)
}

func (d *Document) animationSettings(key string) []*Setting {
	b := d.findBlock([]string{"animations"})
	if b == nil {
		return nil
	}
	var out []*Setting
	for _, e := range b.Entries {
		if s, ok := e.(*Setting); ok && s.Key == key {
			out = append(out, s)
		}
	}
	return out
}

func fieldOr(parts []string, i int, def string) string {
	if v := field(parts, i); v != "" {
		return v
	}
	return def
}
