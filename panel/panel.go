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
	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/transit"
)

// Error patterns for panel implementations.
const (
	OpenError    = "panel: open: %v"
	PresentError = "panel: present: %v"
	NotOpen      = "panel: not open"
)

// Panel is the display hardware.
type Panel interface {
	// Open prepares the panel for frames of the given geometry. Failure is
	// fatal to the render loop.
	Open(g transit.Geometry) error

	// Present shows a complete frame. The buffer must not be retained.
	Present(buf *framebuffer.Buffer) error

	// SetBrightness changes brightness. The percentage is in the range 1 to
	// 100.
	SetBrightness(pct int)

	// Close releases the panel. Close is called exactly once by the render
	// loop.
	Close() error
}

// Null is a Panel that discards everything.
type Null struct{}

func (Null) Open(g transit.Geometry) error {
	return g.Valid()
}

func (Null) Present(buf *framebuffer.Buffer) error {
	return nil
}

func (Null) SetBrightness(pct int) {}

func (Null) Close() error {
	return nil
}
