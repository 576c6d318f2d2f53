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

package framebuffer_test

import (
	"strings"
	"testing"

	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/glyphs"
	"github.com/subwaysign/subwaysign/test"
	"github.com/subwaysign/subwaysign/transit"
)

func TestSetAndAt(t *testing.T) {
	b := framebuffer.New(4, 2)
	test.ExpectEquality(t, len(b.Bytes()), 24)
	test.ExpectEquality(t, b.Pitch(), 12)

	b.Set(1, 1, transit.Red)
	test.ExpectEquality(t, b.At(1, 1), transit.Red)
	test.ExpectEquality(t, b.At(0, 0), transit.Black)
	test.ExpectEquality(t, b.Bytes()[15], transit.Red.R)

	// out of range is ignored
	b.Set(-1, 0, transit.Red)
	b.Set(4, 0, transit.Red)
	b.Set(0, 2, transit.Red)
	test.ExpectEquality(t, b.Lit(), 1)
	test.ExpectEquality(t, b.At(10, 10), transit.Black)

	b.Clear()
	test.ExpectEquality(t, b.Lit(), 0)
}

func TestFill(t *testing.T) {
	b := framebuffer.New(8, 8)
	b.Fill(-2, -2, 4, 4, transit.Green)
	test.ExpectEquality(t, b.Lit(), 4)
	b.Fill(6, 6, 10, 10, transit.Green)
	test.ExpectEquality(t, b.Lit(), 8)
	test.ExpectEquality(t, b.LitIn(0, 0, 2, 2), 4)
}

func TestBlit(t *testing.T) {
	src := framebuffer.New(3, 1)
	src.Set(0, 0, transit.Orange)
	src.Set(2, 0, transit.Orange)

	dst := framebuffer.New(4, 1)
	dst.Fill(0, 0, 4, 1, transit.Green)
	dst.Blit(src, 1, 0)

	// black pixels in the source do not overwrite
	test.ExpectEquality(t, dst.At(0, 0), transit.Green)
	test.ExpectEquality(t, dst.At(1, 0), transit.Orange)
	test.ExpectEquality(t, dst.At(2, 0), transit.Green)
	test.ExpectEquality(t, dst.At(3, 0), transit.Orange)

	// clipped at both edges
	dst.Clear()
	dst.Blit(src, -2, 0)
	test.ExpectEquality(t, dst.Lit(), 1)
	test.ExpectEquality(t, dst.At(0, 0), transit.Orange)
	dst.Clear()
	dst.Blit(src, 3, 0)
	test.ExpectEquality(t, dst.Lit(), 1)
	test.ExpectEquality(t, dst.At(3, 0), transit.Orange)
}

func TestDrawText(t *testing.T) {
	str, err := glyphs.Load(strings.NewReader(`
height: 2
chars:
  "A": [0b11, 0b01]
  "B": [0b1, 0b1]
`))
	test.DemandSuccess(t, err)

	b := framebuffer.New(10, 2)
	w := b.DrawText(str, "AB?A", 0, 0, glyphs.Regular, 1, transit.Green)

	// A(2) +1 B(1) +1 ?(4) +1 A(2)
	test.ExpectEquality(t, w, 12)
	test.ExpectEquality(t, b.At(0, 0), transit.Green)
	test.ExpectEquality(t, b.At(1, 0), transit.Green)
	test.ExpectEquality(t, b.At(1, 1), transit.Black)
	test.ExpectEquality(t, b.At(3, 1), transit.Green)
	test.ExpectEquality(t, b.At(4, 0), transit.Black)
	test.ExpectEquality(t, b.Lit(), 5)
}

func TestClone(t *testing.T) {
	b := framebuffer.New(2, 2)
	b.Set(0, 0, transit.Red)
	c := b.Clone()
	b.Clear()
	test.ExpectEquality(t, c.At(0, 0), transit.Red)
	test.ExpectEquality(t, b.CopyFrom(c), true)
	test.ExpectEquality(t, b.At(0, 0), transit.Red)
	test.ExpectEquality(t, b.CopyFrom(framebuffer.New(1, 1)), false)
}
