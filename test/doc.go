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

// Package test contains helper functions to remove common boilerplate to make
// testing easier. The functions are intended to be used with the standard go
// test harness.
//
// The Expect*() functions report a test error but allow the test to
// continue. The Demand*() functions are used when subsequent tests depend on
// the value being correct, in which case a failure is fatal for the test.
//
// It is worth describing how ExpectSuccess() and ExpectFailure() handle the
// nil type because it is not obvious. The nil type is considered a success
// and consequently will cause ExpectFailure() to fail and ExpectSuccess() to
// succeed. This is because of how errors usually work (nil to indicate no
// error).
//
// Every function accepts an optional list of tags. The tags are prepended to
// any failure message and are useful for identifying which iteration of a
// loop failed.
//
// The CompareWriter, CappedWriter and RingWriter types implement the
// io.Writer interface and are used to capture output for comparison.
package test
