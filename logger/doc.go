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

// Package logger is the central logging facility for the sign. There is one
// central log for the entire process, accessed through the package level
// functions, but separate logs can be created with NewLogger() for testing or
// for components that want a private record.
//
// Entries are made up of a tag and a detail. The tag should be the name of
// the component making the log entry:
//
//	logger.Logf(logger.Allow, "feed", "fetched %d arrivals", n)
//
// Consecutive entries with the same tag and detail are collapsed into a
// single entry and printed with a repeat count.
//
// The Permission argument controls whether the entry is made at all. Use
// logger.Allow for entries that should always be made.
package logger
