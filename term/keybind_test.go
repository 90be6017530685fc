package term_test

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/ayn2op/vellum/term"
)

func TestKeybindNormalizesKeys(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"lowercases modifier chords", []string{"Ctrl+C"}, []string{"ctrl+c"}},
		{"strips spacing", []string{" shift + TAB "}, []string{"shift+tab"}},
		{"orders modifiers", []string{"shift+ctrl+P"}, []string{"ctrl+shift+p"}},
		{"backtab is shift tab", []string{"backtab"}, []string{"shift+tab"}},
		{"tcell aliases", []string{"Escape", "Return", "PageUp", "PageDown"}, []string{"esc", "enter", "pgup", "pgdn"}},
		{"tcell rune names", []string{"Rune[q]"}, []string{"q"}},
		{"tcell ctrl names", []string{"Ctrl-X"}, []string{"ctrl+x"}},
		{"bare runes keep case", []string{"G"}, []string{"G"}},
		{"empty entries dropped", []string{"", "q"}, []string{"q"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := term.NewKeybind(term.WithKeys(tt.in...)).Keys()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeybindMatches(t *testing.T) {
	quit := term.NewKeybind(term.WithKeys("q", "esc", "ctrl+c"))

	tests := []struct {
		name  string
		event *tcell.EventKey
		binds []term.Keybind
		want  bool
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), []term.Keybind{quit}, true},
		{"ctrl key", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), []term.Keybind{quit}, true},
		{"named key", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), []term.Keybind{quit}, true},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), []term.Keybind{quit}, false},
		{
			"runes are case sensitive",
			tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone),
			[]term.Keybind{term.NewKeybind(term.WithKeys("G"))},
			false,
		},
		{
			"upper rune",
			tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModNone),
			[]term.Keybind{term.NewKeybind(term.WithKeys("G"))},
			true,
		},
		{
			"modified rune",
			tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModAlt),
			[]term.Keybind{term.NewKeybind(term.WithKeys("alt+a"))},
			true,
		},
		{
			"shifted arrow",
			tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift),
			[]term.Keybind{term.NewKeybind(term.WithKeys("shift+up"))},
			true,
		},
		{
			"backtab",
			tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone),
			[]term.Keybind{term.NewKeybind(term.WithKeys("backtab"))},
			true,
		},
		{
			"tab is tab, not ctrl+i",
			tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone),
			[]term.Keybind{term.NewKeybind(term.WithKeys("tab"))},
			true,
		},
		{
			"page keys",
			tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModNone),
			[]term.Keybind{term.NewKeybind(term.WithKeys("PageUp"))},
			true,
		},
		{"nil event", nil, []term.Keybind{quit}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := term.Matches(tt.event, tt.binds...); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeymapHitsStockBindings(t *testing.T) {
	keymap := term.DefaultKeymap()

	if !term.Matches(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), keymap.Quit) {
		t.Error("q should quit")
	}
	if !term.Matches(tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone), keymap.ScrollDown) {
		t.Error("j should scroll down")
	}
	if !term.Matches(tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModNone), keymap.Bottom) {
		t.Error("G should jump to the bottom")
	}
	if term.Matches(tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone), keymap.Bottom) {
		t.Error("g should not jump to the bottom")
	}
	if got := keymap.Quit.Help().Key; got != "q" {
		t.Errorf("quit help key = %q, want %q", got, "q")
	}
}
