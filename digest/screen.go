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

package digest

import (
	"crypto/sha1"
	"fmt"

	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/panel"
	"github.com/subwaysign/subwaysign/transit"
)

// Frame returns the fingerprint of a single frame.
func Frame(buf *framebuffer.Buffer) string {
	return fmt.Sprintf("%x", sha1.Sum(buf.Bytes()))
}

// Screen wraps a Panel and chains the fingerprint of every presented frame.
type Screen struct {
	panel.Panel
	digest [sha1.Size]byte
	pixels []byte
	frames int
}

// NewScreen is the preferred method of initialisation for the Screen type.
func NewScreen(p panel.Panel) *Screen {
	return &Screen{Panel: p}
}

// Hash implements the Digest interface.
func (dig *Screen) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *Screen) ResetDigest() {
	clear(dig.digest[:])
	dig.frames = 0
}

// Frames returns the number of frames in the digest.
func (dig *Screen) Frames() int {
	return dig.frames
}

// Open implements the panel.Panel interface.
func (dig *Screen) Open(g transit.Geometry) error {
	if err := g.Valid(); err != nil {
		return curated.Errorf(panel.OpenError, err)
	}

	// room for the previous digest followed by the frame
	dig.pixels = make([]byte, len(dig.digest)+g.Width()*g.Height()*3)
	return dig.Panel.Open(g)
}

// Present implements the panel.Panel interface.
func (dig *Screen) Present(buf *framebuffer.Buffer) error {
	if dig.pixels == nil {
		return curated.Errorf(panel.NotOpen)
	}

	// chain fingerprints by copying the value of the last fingerprint to the
	// head of the frame data
	n := copy(dig.pixels, dig.digest[:])
	copy(dig.pixels[n:], buf.Bytes())
	dig.digest = sha1.Sum(dig.pixels)
	dig.frames++

	return dig.Panel.Present(buf)
}
