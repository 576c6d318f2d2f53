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

// Package framebuffer is the pixel buffer handed to a panel once per tick.
// The buffer is a fixed size RGB grid with three bytes per pixel, laid out
// row by row from the top left.
//
// Drawing is clipped to the buffer so callers can position glyphs partially
// off screen, which is how the alert ticker scrolls in from the right.
package framebuffer

import (
	"github.com/subwaysign/subwaysign/glyphs"
	"github.com/subwaysign/subwaysign/transit"
)

// BytesPerPixel in the buffer.
const BytesPerPixel = 3

// Buffer is a fixed size RGB24 image.
type Buffer struct {
	width  int
	height int
	pix    []byte
}

// New allocates a buffer of the given dimensions. Negative dimensions are
// treated as zero.
func New(width, height int) *Buffer {
	width = max(width, 0)
	height = max(height, 0)
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*BytesPerPixel),
	}
}

// Width of the buffer in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height of the buffer in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Pitch is the number of bytes in one row.
func (b *Buffer) Pitch() int {
	return b.width * BytesPerPixel
}

// Bytes returns the underlying pixel data. The slice is only valid until the
// next change to the buffer.
func (b *Buffer) Bytes() []byte {
	return b.pix
}

// Clear sets every pixel to black.
func (b *Buffer) Clear() {
	clear(b.pix)
}

func (b *Buffer) offset(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, false
	}
	return (y*b.width + x) * BytesPerPixel, true
}

// Set the pixel at x, y. Out of range coordinates are ignored.
func (b *Buffer) Set(x, y int, c transit.RGB) {
	if o, ok := b.offset(x, y); ok {
		b.pix[o] = c.R
		b.pix[o+1] = c.G
		b.pix[o+2] = c.B
	}
}

// At returns the pixel at x, y. Out of range coordinates are black.
func (b *Buffer) At(x, y int) transit.RGB {
	if o, ok := b.offset(x, y); ok {
		return transit.RGB{R: b.pix[o], G: b.pix[o+1], B: b.pix[o+2]}
	}
	return transit.Black
}

// Fill the rectangle with the top left corner at x, y.
func (b *Buffer) Fill(x, y, w, h int, c transit.RGB) {
	for yy := max(y, 0); yy < min(y+h, b.height); yy++ {
		for xx := max(x, 0); xx < min(x+w, b.width); xx++ {
			b.Set(xx, yy, c)
		}
	}
}

// DrawGlyph draws the lit pixels of the glyph with its top left corner at
// x, y in colour c. Unlit pixels are left untouched.
func (b *Buffer) DrawGlyph(g *glyphs.Glyph, x, y int, c transit.RGB) {
	if g == nil {
		return
	}
	for gy, row := range g.Rows {
		if row == 0 {
			continue
		}
		yy := y + gy
		if yy < 0 || yy >= b.height {
			continue
		}
		for gx := 0; gx < 64 && row != 0; gx++ {
			if row&1 == 1 {
				b.Set(x+gx, yy, c)
			}
			row >>= 1
		}
	}
}

// DrawIcon draws a route icon in its own colour. The icon is positioned
// with its baseline offset applied.
func (b *Buffer) DrawIcon(g *glyphs.Glyph, x, y int) {
	if g == nil {
		return
	}
	b.DrawGlyph(g, x, y-g.Baseline, g.Color)
}

// DrawText draws text starting at x, y and returns the advance in pixels.
// Characters without a glyph advance by the width of a space.
func (b *Buffer) DrawText(str *glyphs.Store, text string, x, y int, style glyphs.Style, spacing int, c transit.RGB) int {
	start := x
	first := true
	for _, ch := range text {
		if !first {
			x += spacing
		}
		first = false
		g, ok := str.Glyph(ch, style)
		if !ok {
			x += glyphs.SpaceWidth
			continue
		}
		b.DrawGlyph(g, x, y, c)
		x += g.Width
	}
	return x - start
}

// Blit copies every non-black pixel of src into the buffer with the top
// left of src at x, y.
func (b *Buffer) Blit(src *Buffer, x, y int) {
	for sy := 0; sy < src.height; sy++ {
		dy := y + sy
		if dy < 0 || dy >= b.height {
			continue
		}
		for sx := max(0, -x); sx < src.width && x+sx < b.width; sx++ {
			so := (sy*src.width + sx) * BytesPerPixel
			if src.pix[so] == 0 && src.pix[so+1] == 0 && src.pix[so+2] == 0 {
				continue
			}
			do := (dy*b.width + x + sx) * BytesPerPixel
			copy(b.pix[do:do+BytesPerPixel], src.pix[so:so+BytesPerPixel])
		}
	}
}

// CopyFrom replaces the contents of the buffer with the contents of src.
// The buffers must be the same size otherwise the function returns false.
func (b *Buffer) CopyFrom(src *Buffer) bool {
	if b.width != src.width || b.height != src.height {
		return false
	}
	copy(b.pix, src.pix)
	return true
}

// Clone returns a copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	c := New(b.width, b.height)
	copy(c.pix, b.pix)
	return c
}

// Lit counts the number of pixels that are not black.
func (b *Buffer) Lit() int {
	n := 0
	for o := 0; o < len(b.pix); o += BytesPerPixel {
		if b.pix[o] != 0 || b.pix[o+1] != 0 || b.pix[o+2] != 0 {
			n++
		}
	}
	return n
}

// LitIn counts the number of pixels that are not black in the rectangle with
// the top left corner at x, y.
func (b *Buffer) LitIn(x, y, w, h int) int {
	n := 0
	for yy := max(y, 0); yy < min(y+h, b.height); yy++ {
		for xx := max(x, 0); xx < min(x+w, b.width); xx++ {
			if b.At(xx, yy) != transit.Black {
				n++
			}
		}
	}
	return n
}
