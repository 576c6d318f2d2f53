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

// Package composer draws the sign. Compose() is a function of the current
// configuration, the current display snapshot and the animation State, and
// draws a complete frame into a framebuffer.Buffer.
//
// The sign is divided into rows of RowHeight pixels. The top row always shows
// the next train. The remaining rows cycle through the following trains,
// advancing every CycleInterval. When the next train is arriving and there
// are service alerts, the bottom row is replaced by a ticker which scrolls
// the alert text across the sign one pixel per tick.
//
// Row layout and the pre-rendered ticker strip are cached by the Composer and
// only rebuilt when the arrival or alert they show changes. Drawing a frame
// from the cache does not allocate.
//
// The State is owned by the render loop. Neither the Composer nor the State
// are safe for concurrent use.
package composer
