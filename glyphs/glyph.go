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

package glyphs

import (
	"math/bits"

	"github.com/subwaysign/subwaysign/transit"
)

// SpaceWidth is the width of the space character. The space bitmap is empty
// so the width cannot be derived from it.
const SpaceWidth = 4

// Style of a character glyph.
type Style int

// List of valid Style values.
const (
	Regular Style = iota
	Italic
)

func (s Style) String() string {
	if s == Italic {
		return "italic"
	}
	return "regular"
}

// Shape of a route icon.
type IconShape int

// List of valid IconShape values.
const (
	Circle IconShape = iota
	Diamond
)

func (s IconShape) String() string {
	if s == Diamond {
		return "diamond"
	}
	return "circle"
}

// Glyph is a decoded character or route icon. Glyphs are immutable once the
// Store has been loaded.
type Glyph struct {
	// Rows of the bitmap. Bit x of a row is column x with column zero being
	// the leftmost.
	Rows []uint64

	// Width is the advance width in pixels and is always at least one.
	Width int

	// Height is the number of rows.
	Height int

	// LeftPad is the column of the leftmost lit pixel across all rows.
	LeftPad int

	// route icons only
	Shape    IconShape
	Baseline int
	Color    transit.RGB
}

// Lit returns true if the pixel at column x, row y is on. Coordinates outside
// the bitmap are never lit.
func (g *Glyph) Lit(x, y int) bool {
	if x < 0 || x >= 64 || y < 0 || y >= len(g.Rows) {
		return false
	}
	return g.Rows[y]&(1<<uint(x)) != 0
}

// Blank is true if no pixel in the glyph is lit.
func (g *Glyph) Blank() bool {
	for _, r := range g.Rows {
		if r != 0 {
			return false
		}
	}
	return true
}

// DecodeLSB decodes a row least-significant-bit first. Column zero is bit
// zero.
func DecodeLSB(row uint64, width int) []bool {
	p := make([]bool, width)
	for x := 0; x < width && x < 64; x++ {
		p[x] = row&(1<<uint(x)) != 0
	}
	return p
}

// DecodeMSB decodes a row most-significant-bit first. Column zero is bit
// width-1.
func DecodeMSB(row uint64, width int) []bool {
	p := make([]bool, width)
	for x := 0; x < width && x < 64; x++ {
		p[x] = row&(1<<uint(width-1-x)) != 0
	}
	return p
}

// msbToColumns converts an MSB-first row of the given width to the common
// column form.
func msbToColumns(row uint64, width int) uint64 {
	// reversing all 64 bits puts bit width-1 at bit 64-width. shifting down
	// by 64-width puts it at bit zero
	row &= (1 << uint(width)) - 1
	return bits.Reverse64(row) >> uint(64-width)
}

// newCharGlyph builds a glyph from LSB-first rows. Rows are already in
// column form.
func newCharGlyph(ch rune, rows []uint64) *Glyph {
	g := &Glyph{
		Rows:   rows,
		Height: len(rows),
	}

	rightmost := -1
	leftmost := -1
	for _, r := range rows {
		if r == 0 {
			continue
		}
		if l := 63 - bits.LeadingZeros64(r); l > rightmost {
			rightmost = l
		}
		if t := bits.TrailingZeros64(r); leftmost == -1 || t < leftmost {
			leftmost = t
		}
	}

	switch {
	case ch == ' ':
		g.Width = SpaceWidth
	case rightmost < 0:
		g.Width = 1
	default:
		g.Width = rightmost + 1
	}

	if leftmost > 0 {
		g.LeftPad = leftmost
	}

	return g
}

// newIconGlyph builds a glyph from MSB-first rows of the given width.
func newIconGlyph(rows []uint64, width int) *Glyph {
	g := &Glyph{
		Rows:    make([]uint64, len(rows)),
		Width:   max(width, 1),
		Height:  len(rows),
		LeftPad: -1,
	}
	for i, r := range rows {
		g.Rows[i] = msbToColumns(r, width)
		if g.Rows[i] != 0 {
			if t := bits.TrailingZeros64(g.Rows[i]); g.LeftPad == -1 || t < g.LeftPad {
				g.LeftPad = t
			}
		}
	}
	g.LeftPad = max(g.LeftPad, 0)
	return g
}

// italicise returns the slanted form of a character's rows. Rows in the top
// half are shifted right two columns and rows in the bottom half one column.
func italicise(rows []uint64, height int) []uint64 {
	mid := height / 2
	ital := make([]uint64, len(rows))
	for y, r := range rows {
		if y < mid {
			ital[y] = r << 2
		} else {
			ital[y] = r << 1
		}
	}
	return ital
}
