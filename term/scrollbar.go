package term

import "github.com/gdamore/tcell/v2"

// subcell is the number of vertical steps per cell available to the thumb.
const subcell = 8

// scrollGlyphs defines track and fractional thumb glyphs. The two thumb
// arrays anchor a partial fill to the lower or upper edge of its cell.
type scrollGlyphs struct {
	Track      string
	ThumbLower [8]string
	ThumbUpper [8]string
}

func defaultScrollGlyphs() scrollGlyphs {
	return scrollGlyphs{
		Track:      "│",
		ThumbLower: [8]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"},
		ThumbUpper: [8]string{"▔", "▔", "▀", "▀", "▀", "▀", "█", "█"},
	}
}

type scrollMetrics struct {
	trackCells int
	trackLen   int
	thumbLen   int
	thumbStart int
}

// computeScrollMetrics sizes and places the thumb in subcell units so it can
// move in 1/8-cell steps while staying proportional to viewport and content.
func computeScrollMetrics(trackCells, contentLen, viewportLen, offset int) scrollMetrics {
	trackLen := trackCells * subcell
	if trackLen == 0 {
		return scrollMetrics{}
	}

	contentLen = max(contentLen, 1)
	viewportLen = min(max(viewportLen, 1), contentLen)
	maxOffset := max(contentLen-viewportLen, 0)
	offset = min(max(offset, 0), maxOffset)

	if maxOffset == 0 {
		return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: trackLen}
	}

	thumbLen := min(max((trackLen*viewportLen)/contentLen, subcell), trackLen)
	thumbTravel := max(trackLen-thumbLen, 0)
	thumbStart := (thumbTravel * offset) / maxOffset
	return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: thumbLen, thumbStart: thumbStart}
}

// cellFill converts the thumb's absolute subcell coverage into the covered
// [start, start+fillLen) span local to one track cell.
func cellFill(m scrollMetrics, cellIndex int) (start, fillLen int) {
	if m.thumbLen == 0 {
		return 0, 0
	}
	cellStart := cellIndex * subcell
	cellEnd := cellStart + subcell
	thumbEnd := m.thumbStart + m.thumbLen
	start = max(m.thumbStart, cellStart)
	end := min(thumbEnd, cellEnd)
	if end <= start {
		return 0, 0
	}
	fillLen = min(end-start, subcell)
	start = min(max(start-cellStart, 0), subcell)
	return start, fillLen
}

type scrollBar struct {
	glyphs     scrollGlyphs
	trackStyle tcell.Style
	thumbStyle tcell.Style
}

func newScrollBar(theme Theme) scrollBar {
	return scrollBar{
		glyphs:     defaultScrollGlyphs(),
		trackStyle: theme.ScrollTrack,
		thumbStyle: theme.ScrollThumb,
	}
}

func (s scrollBar) glyphFor(start, fillLen int) (string, tcell.Style) {
	if fillLen <= 0 {
		return s.glyphs.Track, s.trackStyle
	}
	if fillLen >= subcell {
		return s.glyphs.ThumbLower[7], s.thumbStyle
	}
	ix := fillLen - 1
	if start == 0 {
		return s.glyphs.ThumbUpper[ix], s.thumbStyle
	}
	return s.glyphs.ThumbLower[ix], s.thumbStyle
}

// draw renders a vertical bar in the given column. Content, viewport and
// offset are in logical rows; nothing is drawn when the content fits.
func (s scrollBar) draw(screen tcell.Screen, x, y, height, contentLen, viewportLen, offset int) {
	if height <= 0 || contentLen <= viewportLen {
		return
	}
	m := computeScrollMetrics(height, contentLen, viewportLen, offset)
	if m.trackLen == 0 {
		return
	}
	for cell := 0; cell < m.trackCells; cell++ {
		start, fillLen := cellFill(m, cell)
		glyph, style := s.glyphFor(start, fillLen)
		putCluster(screen, x, y+cell, glyph, style)
	}
}
