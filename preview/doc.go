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

// Package preview composes frames for a short period of simulated time
// without starting the render loop. It is used to gather information that
// would otherwise take real time to acquire.
//
// For example, the PREVIEW mode uses it to show what the sign will look like
// thirty seconds after a new display snapshot arrives, or to write a still
// image of the sign for documentation.
//
// The simulated clock advances by exactly one tick budget per frame so the
// result is deterministic for a given snapshot.
package preview
