package term

import "github.com/gdamore/tcell/v2"

// Theme bundles the styles the renderer uses. Hosts start from DefaultTheme
// and override what they need; a named preset can be looked up with
// ThemeByName for configuration files.
type Theme struct {
	// Background fills component rectangles before content is drawn.
	Background tcell.Style
	// Text draws Text content.
	Text tcell.Style
	// Pressed is merged over a subtree while its touch wrapper is held.
	Pressed tcell.Style
	// ScrollThumb and ScrollTrack draw the sequence scroll bar.
	ScrollThumb tcell.Style
	ScrollTrack tcell.Style
	// Border frames touch cards and the error overlay box.
	Border tcell.Style
	// Title draws the overlay box heading.
	Title tcell.Style
	// Overlay dims the document behind the error box.
	Overlay tcell.Style
	// ErrorText draws the queued error lines.
	ErrorText tcell.Style

	// BorderSet supplies the frame glyphs.
	BorderSet BorderSet
}

// DefaultTheme returns the stock theme: default terminal colors with a dimmed
// backdrop for overlays.
func DefaultTheme() Theme {
	return Theme{
		Background:  tcell.StyleDefault,
		Text:        tcell.StyleDefault,
		Pressed:     tcell.StyleDefault.Reverse(true),
		ScrollThumb: tcell.StyleDefault,
		ScrollTrack: tcell.StyleDefault.Dim(true),
		Border:      tcell.StyleDefault.Foreground(tcell.ColorWhite),
		Title:       tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true),
		Overlay:     tcell.StyleDefault.Dim(true),
		ErrorText:   tcell.StyleDefault.Foreground(tcell.ColorRed),
		BorderSet:   BorderSetRound(),
	}
}

// MonoTheme returns a theme that never sets a color, for terminals where the
// palette should stay untouched.
func MonoTheme() Theme {
	t := DefaultTheme()
	t.Border = tcell.StyleDefault
	t.Title = tcell.StyleDefault.Bold(true)
	t.ErrorText = tcell.StyleDefault.Bold(true)
	t.BorderSet = BorderSetPlain()
	return t
}

// ThemeByName resolves a configuration value to a theme.
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "", "default":
		return DefaultTheme(), true
	case "mono":
		return MonoTheme(), true
	}
	return Theme{}, false
}
