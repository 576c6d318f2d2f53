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

// Package alerts decides which service alerts the sign shows and in what
// order.
//
// Selection happens in two places. The feed producer calls Prioritise() when
// it fetches alerts, so the DisplaySnapshot only ever carries a short sorted
// queue of relevant alerts. The render loop owns a Cycle which tracks which
// of those alerts have been shown during the current cycle and which are
// cooling down after being shown. The Cycle is not safe for concurrent use
// and does not need to be because only the render loop touches it.
//
// Parts() splits alert text into plain text and inline route icons. Route
// references are written in square brackets, eg. "[A]", with an optional x
// suffix for the express form, eg. "[6x]".
package alerts
