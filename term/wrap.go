package term

import (
	"strings"

	"github.com/rivo/uniseg"
)

// StringWidth returns the number of cells the string occupies on screen.
func StringWidth(text string) int {
	return uniseg.StringWidth(text)
}

// WordWrap splits a text into lines of at most width cells, breaking at word
// boundaries where possible and mid-word otherwise. Mandatory breaks in the
// text are honored and stripped; a break taken at a word boundary keeps its
// trailing space, so the widths add back up to the original text.
func WordWrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}

	var (
		lines     []string
		start     int // byte offset where the current line begins
		lineWidth int // cells accumulated on the current line
		opt       int // byte offset of the line's last break opportunity
		optWidth  int // cells accumulated up to opt
	)
	pos, rest, state := 0, text, -1
	for len(rest) > 0 {
		var cluster string
		var bounds int
		cluster, rest, bounds, state = uniseg.StepString(rest, state)
		w := bounds >> uniseg.ShiftWidth

		if lineWidth+w > width {
			if opt > start {
				lines = append(lines, text[start:opt])
				lineWidth -= optWidth
				start = opt
			} else {
				// No break opportunity on this line; chop mid-word.
				lines = append(lines, text[start:pos])
				lineWidth = 0
				start = pos
			}
			opt, optWidth = 0, 0
		}
		pos += len(cluster)
		lineWidth += w

		if rest == "" && !uniseg.HasTrailingLineBreakInString(cluster) {
			// End of text is not a break of its own.
			break
		}
		switch bounds & uniseg.MaskLine {
		case uniseg.LineCanBreak:
			opt, optWidth = pos, lineWidth
		case uniseg.LineMustBreak:
			lines = append(lines, strings.TrimRight(text[start:pos], "\r\n"))
			start = pos
			lineWidth = 0
			opt, optWidth = 0, 0
		}
	}
	return append(lines, text[start:])
}
