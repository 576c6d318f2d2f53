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

package panel

import (
	"time"

	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/statecell"
	"github.com/subwaysign/subwaysign/transit"
)

// Frame is a copy of a presented frame.
type Frame struct {
	Seq    uint64
	Width  int
	Height int
	Pix    []byte
	Time   time.Time
}

// Tap wraps a Panel and publishes a copy of every Nth presented frame to a
// statecell. Observers such as the status server read the cell and never
// hold up the render loop.
type Tap struct {
	Panel

	every  int
	seq    uint64
	frames *statecell.Cell[Frame]
}

// NewTap wraps the panel. A copy of every nth frame is published. Values of n
// less than one publish every frame.
func NewTap(p Panel, n int) *Tap {
	return &Tap{
		Panel:  p,
		every:  max(n, 1),
		frames: statecell.New[Frame](nil),
	}
}

// Frames is the cell holding the most recent copied frame.
func (t *Tap) Frames() *statecell.Cell[Frame] {
	return t.frames
}

func (t *Tap) Open(g transit.Geometry) error {
	t.seq = 0
	return t.Panel.Open(g)
}

func (t *Tap) Present(buf *framebuffer.Buffer) error {
	t.seq++
	if (t.seq-1)%uint64(t.every) == 0 {
		pix := make([]byte, len(buf.Bytes()))
		copy(pix, buf.Bytes())
		t.frames.Publish(&Frame{
			Seq:    t.seq,
			Width:  buf.Width(),
			Height: buf.Height(),
			Pix:    pix,
			Time:   time.Now(),
		})
	}
	return t.Panel.Present(buf)
}
