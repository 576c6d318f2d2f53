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

package preview

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/framebuffer"
)

// Image converts the frame to an image. Each pixel of the frame becomes a
// scale x scale block. A scale of less than one is treated as one.
func Image(buf *framebuffer.Buffer, scale int) *image.RGBA {
	scale = max(1, scale)
	img := image.NewRGBA(image.Rect(0, 0, buf.Width()*scale, buf.Height()*scale))
	for y := range buf.Height() {
		for x := range buf.Width() {
			c := buf.At(x, y)
			col := color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
			for sy := range scale {
				for sx := range scale {
					img.SetRGBA(x*scale+sx, y*scale+sy, col)
				}
			}
		}
	}
	return img
}

// WritePNG writes the frame as a PNG image.
func WritePNG(w io.Writer, buf *framebuffer.Buffer, scale int) error {
	if err := png.Encode(w, Image(buf, scale)); err != nil {
		return curated.Errorf(PreviewError, err)
	}
	return nil
}
