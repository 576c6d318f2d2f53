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

// Package panel is the boundary between the render loop and the display
// hardware. A Panel accepts one complete frame per tick in a single call to
// Present().
//
// Present() is called from the render loop's goroutine only and must not
// retain the framebuffer after returning. The render loop reuses the buffer
// for the next tick. Implementations that need the frame later must copy it.
//
// Implementations in this package:
//
//	Null	discards every frame
//	Capture	keeps a copy of the most recent frame
//	Tap	wraps another Panel and publishes every Nth frame for observers
//
// The termpanel, sdlpanel and recorder sub-packages provide real outputs.
package panel
