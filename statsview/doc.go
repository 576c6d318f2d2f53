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

// Package statsview serves live charts of the Go runtime statistics. It is
// only built when the statsview build constraint is present. Without it
// Available() returns false and Launch() returns an error.
//
// The charts are provided by "github.com/go-echarts/statsview". After launch
// they are viewable at:
//
//	localhost:12600/debug/statsview
//
// And the standard Go pprof pages are available at:
//
//	localhost:12600/debug/pprof/
//
// The runtime statistics are useful when checking that the render loop does
// not allocate. A steady heap with no GC activity is expected while the sign
// is running.
package statsview

// Address of the statistics server.
const Address = "localhost:12600"

// NotAvailable is returned by Launch() in builds without the statsview
// constraint.
const NotAvailable = "statsview: not available in this build (use -tags statsview)"

const url = "/debug/statsview"
