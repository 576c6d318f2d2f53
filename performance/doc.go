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

// Package performance contains helper functions relating to performance.
//
// Check() runs the render loop against a null panel and a synthetic feed for
// a fixed duration and reports the achieved tick rate. It will optionally
// generate profiling information.
//
// RunProfiler() can be used to generate the various profile types around any
// function. On its own it will not limit the amount of time the program runs
// for so it is useful for real-world situations, such as profiling the RUN
// mode.
//
// CalcFPS() calculates ticks-per-second in aggregate along with an accuracy
// value compared to the target rate. It is not suitable for live monitoring.
// The render loop's own statistics are better for that.
package performance
