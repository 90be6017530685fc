package term

import (
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Keybind is a set of key chords bound to one action, with an optional help
// entry. Chord strings are normalized, so "Ctrl+C", "ctrl-c" and "CTRL + c"
// all name the same chord.
type Keybind struct {
	keys []string
	help Help
}

// Help describes a keybind for a help listing.
type Help struct {
	Key  string
	Desc string
}

// Option configures a Keybind on construction.
type Option func(*Keybind)

func NewKeybind(options ...Option) Keybind {
	k := &Keybind{}
	for _, option := range options {
		option(k)
	}
	return *k
}

func WithKeys(keys ...string) Option {
	return func(k *Keybind) {
		k.keys = normalizeKeys(keys...)
	}
}

func WithHelp(key, desc string) Option {
	return func(k *Keybind) {
		k.help = Help{Key: key, Desc: desc}
	}
}

func (k Keybind) Keys() []string {
	return k.keys
}

func (k *Keybind) SetKeys(keys ...string) {
	k.keys = normalizeKeys(keys...)
}

func (k Keybind) Help() Help {
	return k.help
}

// Matches reports whether the key event hits any of the given keybinds.
func Matches(event *tcell.EventKey, keybinds ...Keybind) bool {
	if event == nil {
		return false
	}

	key := eventKeyString(event)
	for _, keybind := range keybinds {
		if slices.Contains(keybind.keys, key) {
			return true
		}
	}
	return false
}

func normalizeKeys(keys ...string) []string {
	normalized := make([]string, 0, len(keys))
	for _, key := range keys {
		key = normalizeKey(key)
		if key == "" {
			continue
		}
		normalized = append(normalized, key)
	}
	return normalized
}

func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}

	var ctrl, alt, shift, meta bool
	primary := ""
	for _, part := range strings.Split(key, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		switch strings.ToLower(part) {
		case "ctrl", "control":
			ctrl = true
		case "alt":
			alt = true
		case "shift":
			shift = true
		case "meta":
			meta = true
		default:
			primary = normalizePrimaryKey(part)
		}
	}

	if primary == "" {
		return ""
	}

	if primary == "backtab" {
		shift = true
		primary = "tab"
	}

	// Modifiers come out in a fixed order so equivalent chords compare
	// equal no matter how they were written.
	mods := make([]string, 0, 4)
	if ctrl {
		mods = append(mods, "ctrl")
	}
	if alt {
		mods = append(mods, "alt")
	}
	if shift {
		mods = append(mods, "shift")
	}
	if meta {
		mods = append(mods, "meta")
	}
	if len(mods) == 0 {
		return primary
	}
	if len([]rune(primary)) == 1 {
		primary = strings.ToLower(primary)
	}
	return strings.Join(append(mods, primary), "+")
}

func normalizePrimaryKey(key string) string {
	if strings.HasPrefix(key, "Rune[") && strings.HasSuffix(key, "]") && len(key) >= 7 {
		return key[5 : len(key)-1]
	}

	switch strings.ToLower(key) {
	case "esc", "escape":
		return "esc"
	case "return":
		return "enter"
	case "pageup":
		return "pgup"
	case "pagedown":
		return "pgdn"
	case "ctrl-c":
		return "ctrl+c"
	}

	if strings.HasPrefix(strings.ToLower(key), "ctrl-") && len(key) > len("ctrl-") {
		return "ctrl+" + strings.ToLower(key[len("ctrl-"):])
	}

	if len([]rune(key)) == 1 {
		return key
	}

	return strings.ToLower(key)
}

func eventKeyString(event *tcell.EventKey) string {
	if event == nil {
		return ""
	}

	key := event.Key()
	primary := keyName(key)
	// Tab, enter and backspace share codes with ctrl+i, ctrl+m and
	// ctrl+h; the named form wins for those.
	if primary == "" && key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+(key-tcell.KeyCtrlA)))
	}
	if primary == "" && key == tcell.KeyRune {
		primary = string(event.Rune())
	}
	if primary == "" {
		return normalizeKey(event.Name())
	}

	mods := make([]string, 0, 4)
	if event.Modifiers()&tcell.ModCtrl != 0 {
		mods = append(mods, "ctrl")
	}
	if event.Modifiers()&tcell.ModAlt != 0 {
		mods = append(mods, "alt")
	}
	if event.Modifiers()&tcell.ModShift != 0 {
		mods = append(mods, "shift")
	}
	if event.Modifiers()&tcell.ModMeta != 0 {
		mods = append(mods, "meta")
	}
	if len(mods) == 0 {
		return primary
	}
	return normalizeKey(strings.Join(append(mods, primary), "+"))
}

func keyName(key tcell.Key) string {
	switch key {
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyDelete:
		return "delete"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyInsert:
		return "insert"
	default:
		return ""
	}
}

// Keymap binds the host's actions to keys.
type Keymap struct {
	Quit        Keybind
	ScrollUp    Keybind
	ScrollDown  Keybind
	HalfPageUp  Keybind
	HalfPageDn  Keybind
	Top         Keybind
	Bottom      Keybind
	PageBack    Keybind
	PageForward Keybind
	Errors      Keybind
	Redraw      Keybind
}

// DefaultKeymap returns the stock bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Quit:        NewKeybind(WithKeys("q", "esc", "ctrl+c"), WithHelp("q", "quit")),
		ScrollUp:    NewKeybind(WithKeys("up", "k"), WithHelp("↑/k", "scroll up")),
		ScrollDown:  NewKeybind(WithKeys("down", "j"), WithHelp("↓/j", "scroll down")),
		HalfPageUp:  NewKeybind(WithKeys("pgup", "ctrl+u"), WithHelp("pgup", "half page up")),
		HalfPageDn:  NewKeybind(WithKeys("pgdn", "ctrl+d"), WithHelp("pgdn", "half page down")),
		Top:         NewKeybind(WithKeys("home", "g"), WithHelp("g", "go to top")),
		Bottom:      NewKeybind(WithKeys("end", "G"), WithHelp("G", "go to bottom")),
		PageBack:    NewKeybind(WithKeys("left", "h"), WithHelp("←/h", "previous page")),
		PageForward: NewKeybind(WithKeys("right", "l"), WithHelp("→/l", "next page")),
		Errors:      NewKeybind(WithKeys("e"), WithHelp("e", "toggle error list")),
		Redraw:      NewKeybind(WithKeys("ctrl+l"), WithHelp("ctrl+l", "redraw")),
	}
}
