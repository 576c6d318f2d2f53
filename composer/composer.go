// This file is part of Subwaysign.
//
// Subwaysign is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Subwaysign is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Subwaysign.  If not, see <https://www.gnu.org/licenses/>.

package composer

import (
	"strconv"
	"time"

	"github.com/subwaysign/subwaysign/alerts"
	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/glyphs"
	"github.com/subwaysign/subwaysign/transit"
)

// Layout constants.
const (
	RowHeight = 16

	// spacing between characters. glyphs in the sign font have one blank
	// column on the left so a negative spacing keeps text tight
	CharSpacing = -1

	// the position number is drawn slightly off the left edge
	numberX = -2

	iconWidth = 14
	iconGap   = 3

	// minimum gap between the destination and the countdown
	destinationMargin = 5

	// the ticker is one pixel taller than a row so that diamond icons fit.
	// it is aligned with the bottom of the sign
	TickerHeight = 17

	// gaps between parts of a ticker
	textToIconGap = 5
	iconToTextGap = 2
	iconIconGap   = 1

	// distance past the end of the ticker before a scroll is complete
	ScrollMargin = 10
)

// Timing constants.
const (
	CycleInterval = 3 * time.Second
	FlashInterval = 500 * time.Millisecond
	MaxAlertCycle = 90 * time.Second
)

// rowLayout is the placement of everything in one arrival row.
type rowLayout struct {
	valid   bool
	arrival transit.Arrival
	number  int

	numText   string
	icon      *glyphs.Glyph
	iconX     int
	dest      string
	destX     int
	countdown string
	timeX     int
}

// tickerStrip is a pre-rendered alert.
type tickerStrip struct {
	key  string
	text string
	buf  *framebuffer.Buffer
}

// Composer draws frames. The glyph store is only ever read.
type Composer struct {
	glyphs   *glyphs.Store
	geometry transit.Geometry

	// one layout per sign row
	rows []rowLayout

	ticker tickerStrip
}

// New creates a Composer for a sign of the given geometry.
func New(str *glyphs.Store, geometry transit.Geometry) *Composer {
	return &Composer{
		glyphs:   str,
		geometry: geometry,
		rows:     make([]rowLayout, max(geometry.Height()/RowHeight, 1)),
	}
}

// Width of the sign in pixels.
func (c *Composer) Width() int {
	return c.geometry.Width()
}

// Rows is the number of text rows on the sign.
func (c *Composer) Rows() int {
	return len(c.rows)
}

// icon returns the route icon to use. The express form falls back to the
// local form if there is no express icon.
func (c *Composer) icon(route string, express bool) *glyphs.Glyph {
	if express {
		if g, ok := c.glyphs.Icon(route, true); ok {
			return g
		}
	}
	if g, ok := c.glyphs.Icon(route, false); ok {
		return g
	}
	return nil
}

// truncate removes characters from the end of text until it fits in width.
func (c *Composer) truncate(text string, width int) string {
	for text != "" && c.glyphs.Measure(text, glyphs.Regular, CharSpacing) > width {
		r := []rune(text)
		text = string(r[:len(r)-1])
	}
	return text
}

// layout returns the cached layout for the row, rebuilding it if the arrival
// or position number has changed.
func (c *Composer) layout(row int, a transit.Arrival, number int) *rowLayout {
	l := &c.rows[row]
	if l.valid && l.arrival == a && l.number == number {
		return l
	}

	*l = rowLayout{
		valid:   true,
		arrival: a,
		number:  number,
	}

	l.numText = strconv.Itoa(number) + "."
	l.iconX = c.glyphs.Measure(l.numText, glyphs.Regular, CharSpacing) + CharSpacing
	l.icon = c.icon(a.Route, a.Express)
	l.destX = l.iconX + iconWidth + iconGap

	l.countdown = a.Countdown()
	l.timeX = c.Width() - c.glyphs.Measure(l.countdown, glyphs.Regular, CharSpacing)

	available := max(l.timeX-l.destX-destinationMargin, 0)
	l.dest = c.truncate(a.Destination, available)

	return l
}

// drawRow draws an arrival in a sign row. Arriving trains are red and, if
// flash is true, the countdown is hidden.
func (c *Composer) drawRow(buf *framebuffer.Buffer, row int, a transit.Arrival, number int, flash bool) {
	l := c.layout(row, a, number)
	y := row * RowHeight

	text := transit.Green
	countdown := transit.Green
	if a.Arriving() {
		text = transit.Red
		countdown = transit.Red
		if flash {
			countdown = transit.Black
		}
	}

	buf.DrawText(c.glyphs, l.numText, numberX, y, glyphs.Regular, CharSpacing, text)
	buf.DrawIcon(l.icon, l.iconX, y)
	buf.DrawText(c.glyphs, l.dest, l.destX, y, glyphs.Regular, CharSpacing, text)
	if countdown != transit.Black {
		buf.DrawText(c.glyphs, l.countdown, l.timeX, y, glyphs.Regular, CharSpacing, countdown)
	}
}

// tickerPart is an alerts.Part with its measured width.
type tickerPart struct {
	alerts.Part
	icon  *glyphs.Glyph
	width int
}

func partGap(prev, cur *tickerPart) int {
	if prev == nil {
		return 0
	}
	switch {
	case prev.Icon() && !cur.Icon():
		return iconToTextGap
	case prev.Icon() && cur.Icon():
		return iconIconGap
	case !prev.Icon() && cur.Icon():
		return textToIconGap
	}
	return 0
}

// strip returns the pre-rendered ticker for the alert.
func (c *Composer) strip(a transit.Alert) *framebuffer.Buffer {
	if c.ticker.buf != nil && c.ticker.key == a.Key() && c.ticker.text == a.Text {
		return c.ticker.buf
	}

	var parts []tickerPart
	for _, p := range alerts.Parts(a.Text) {
		tp := tickerPart{Part: p}
		if p.Icon() {
			// route icons with no glyph are dropped from the ticker
			tp.icon = c.icon(p.Route, p.Express)
			if tp.icon == nil {
				continue
			}
			tp.width = tp.icon.Width
		} else {
			tp.width = c.glyphs.Measure(p.Text, glyphs.Italic, CharSpacing)
		}
		parts = append(parts, tp)
	}

	width := 0
	for i := range parts {
		if i > 0 {
			width += partGap(&parts[i-1], &parts[i])
		}
		width += parts[i].width
	}

	buf := framebuffer.New(max(width, 1), TickerHeight)
	x := 0
	for i := range parts {
		if i > 0 {
			x += partGap(&parts[i-1], &parts[i])
		}
		if parts[i].Icon() {
			buf.DrawIcon(parts[i].icon, x, 1)
		} else {
			buf.DrawText(c.glyphs, parts[i].Text, x, 1, glyphs.Italic, CharSpacing, transit.Orange)
		}
		x += parts[i].width
	}

	c.ticker = tickerStrip{
		key:  a.Key(),
		text: a.Text,
		buf:  buf,
	}

	return buf
}

// TickerWidth returns the width of the pre-rendered ticker for the alert.
func (c *Composer) TickerWidth(a transit.Alert) int {
	return c.strip(a).Width()
}

// ScrollDistance is the scroll offset at which the alert has completely
// crossed the sign.
func (c *Composer) ScrollDistance(a transit.Alert) int {
	return c.Width() + c.TickerWidth(a) + ScrollMargin
}

func (c *Composer) drawTicker(buf *framebuffer.Buffer, a transit.Alert, offset int) {
	strip := c.strip(a)
	x := buf.Width() - offset
	if x > -strip.Width() {
		buf.Blit(strip, x, buf.Height()-TickerHeight)
	}
}

// idle draws the frame shown when there are no trains to show.
func (c *Composer) idle(buf *framebuffer.Buffer, disp *transit.DisplaySnapshot) {
	label := "No trains"
	if disp == nil || disp.FetchedAt.IsZero() {
		label = "Waiting"
	}

	w := c.glyphs.Measure(label, glyphs.Regular, CharSpacing)
	buf.DrawText(c.glyphs, label, (buf.Width()-w)/2, 0, glyphs.Regular, CharSpacing, transit.Green)

	if buf.Height() >= RowHeight*2 {
		const dashes = "- - - -"
		w = c.glyphs.Measure(dashes, glyphs.Regular, CharSpacing)
		buf.DrawText(c.glyphs, dashes, (buf.Width()-w)/2, RowHeight, glyphs.Regular, CharSpacing, transit.Dim)
	}
}

// Compose draws a complete frame into buf. The buffer is cleared first. A
// nil configuration or display snapshot is allowed and draws the idle frame.
func (c *Composer) Compose(buf *framebuffer.Buffer, cfg *transit.ConfigSnapshot, disp *transit.DisplaySnapshot, st *State) {
	buf.Clear()

	arrivals := st.Arrivals()
	if len(arrivals) == 0 {
		c.idle(buf, disp)
		return
	}

	rows := min(max(buf.Height()/RowHeight, 1), len(c.rows))
	ticker := st.AlertActive() && cfg != nil && cfg.ShowAlerts && rows > 1

	c.drawRow(buf, 0, arrivals[0], 1, st.Flash())

	last := rows
	if ticker {
		last = rows - 1
	}

	cycling := arrivals[1:]
	for r := 1; r < last; r++ {
		i, ok := st.slot(r-1, rows-1, len(cycling))
		if !ok {
			continue
		}
		c.drawRow(buf, r, cycling[i], i+2, false)
	}

	if ticker {
		c.drawTicker(buf, st.alert, st.scroll)
	}
}
