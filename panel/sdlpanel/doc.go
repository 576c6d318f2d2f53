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

// Package sdlpanel implements a panel.Panel that shows frames in an SDL
// window. Each LED is drawn as a square block of pixels with a dark border
// so the window looks like the matrix panels it simulates.
//
// The package is only built when the sdl build constraint is present. Without
// it Available() returns false and New() returns an error.
//
// SDL requires that a window is only used by the thread that created it. The
// render loop calls every method of the Panel on its own locked OS thread so
// the panel is created, driven and destroyed on that thread.
package sdlpanel

// Error patterns for the sdlpanel package.
const (
	NotAvailable = "sdlpanel: not available in this build (use -tags sdl)"
	SDLError     = "sdlpanel: %v"
)

// DefaultScale is the size of each LED in window pixels.
const DefaultScale = 5
