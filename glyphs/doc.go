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

// Package glyphs is the glyph store. A font description is loaded once at
// startup and every character and route icon is decoded into a Glyph: a
// bitmap plus its width and left padding. After Load() the Store is never
// modified and can be shared by any number of readers without locking.
//
// The font description is a YAML document. Characters are keyed by the
// character itself, or by the decimal code point for keys longer than one
// character (so "32" is the space character). Route icons are a list with
// their metadata alongside the rows:
//
//	height: 16
//	space_width: 4
//	synthesize_italic: true
//	chars:
//	  "A": [0, 28, 28, 34, 34, ...]
//	icons:
//	  - route: "1"
//	    shape: circle
//	    width: 14
//	    height: 13
//	    color: "#FF6644"
//	    rows:
//	      - 0b00000111100000
//
// Character rows and icon rows use different bit orderings. Character rows
// are least-significant-bit first (bit 0 is the leftmost column). Icon rows
// are most-significant-bit first (bit width-1 is the leftmost column). Row
// values can be written in decimal, hex (0x) or binary (0b).
//
// Every decoded Glyph is stored in a common form with bit x of each row
// representing column x, so drawing code does not need to know which family
// a glyph came from.
//
// Lookups return a borrowed pointer and a found flag. The caller must handle
// a missing glyph by skipping it. An italic lookup for a character with no
// italic form returns the regular glyph. Icon lookups have no fallback.
package glyphs
