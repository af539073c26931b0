package hypr

// DefaultConfig is the document written by `hyprconf init` when no config
// file exists yet.
const DefaultConfig = `# Hyprland config, created by hyprconf

# Variables
$terminal = kitty
$browser = firefox
$filemanager = nautilus

# Autostart
exec-once = waybar
exec-once = hyprpaper

# Monitor (auto-detect)
monitor = ,preferred,auto,1

general {
    gaps_in = 5
    gaps_out = 20
    border_size = 2
    layout = dwindle
}

decoration {
    rounding = 10
    active_opacity = 1.0
    inactive_opacity = 1.0

    shadow {
        enabled = true
        range = 4
        render_power = 3
    }

    blur {
        enabled = true
        size = 3
        passes = 1
    }
}

animations {
    enabled = true
    bezier = myBezier, 0.05, 0.9, 0.1, 1.05
    animation = windows, 1, 7, myBezier
    animation = windowsOut, 1, 7, default, popin 80%
    animation = fade, 1, 7, default
    animation = workspaces, 1, 6, default
}

dwindle {
    pseudotile = false
    preserve_split = true
}

input {
    kb_layout = us
    sensitivity = 0
    follow_mouse = 1

    touchpad {
        natural_scroll = false
    }
}

# Keybindings
bind = SUPER, Return, exec, $terminal
bind = SUPER, Q, killactive
bind = SUPER, M, exit
bind = SUPER, E, exec, $filemanager
bind = SUPER, V, togglefloating
bind = SUPER, R, exec, wofi --show drun
bind = SUPER, P, pseudo
bind = SUPER, J, togglesplit
bind = SUPER, left, movefocus, l
bind = SUPER, right, movefocus, r
bind = SUPER, up, movefocus, u
bind = SUPER, down, movefocus, d
bind = SUPER, 1, workspace, 1
bind = SUPER, 2, workspace, 2
bind = SUPER, 3, workspace, 3
bind = SUPER, 4, workspace, 4
bind = SUPER, 5, workspace, 5
bind = SUPER SHIFT, 1, movetoworkspace, 1
bind = SUPER SHIFT, 2, movetoworkspace, 2
bind = SUPER SHIFT, 3, movetoworkspace, 3
bind = SUPER SHIFT, 4, movetoworkspace, 4
bind = SUPER SHIFT, 5, movetoworkspace, 5
bindm = SUPER, mouse:272, movewindow
bindm = SUPER, mouse:273, resizewindow
`

// Default parses DefaultConfig.
func Default() *Document {
	doc, err := Parse(DefaultConfig, ParseOptions{Strict: true})
	if err != nil {
		panic("hypr: default config does not parse: " + err.Error())
	}
	return doc
}
