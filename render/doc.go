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

// Package render runs the sign's render loop. The loop runs perpetually on
// its own OS thread, drawing one frame per tick and handing it to the panel
// in a single call.
//
// The loop never blocks on the producers of configuration or display data.
// Every tick it loads the latest snapshot from each statecell and draws from
// those. A tick that takes longer than its budget is counted as missed and
// the next tick starts immediately. There is no catch-up.
//
// The loop moves through four states:
//
//	Starting	fonts are loaded and the panel opened. any failure is fatal
//	Running		ticking
//	Draining	cancellation has been seen. the panel is closed
//	Stopped		the loop has ended and can be joined
//
// Cancellation is checked between ticks. A tick in progress always
// completes.
package render
