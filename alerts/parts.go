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

package alerts

import (
	"regexp"
	"strings"
)

var routeToken = regexp.MustCompile(`\[(\d+|[A-Z]+)([xX])?\]`)

// Part is a section of alert text. A Part is either plain text or a route
// icon.
type Part struct {
	Text string

	// route icons only
	Route   string
	Express bool
}

// Icon is true if the part is a route icon.
func (p Part) Icon() bool {
	return p.Route != ""
}

func (p Part) String() string {
	if p.Icon() {
		if p.Express {
			return "[" + p.Route + "x]"
		}
		return "[" + p.Route + "]"
	}
	return p.Text
}

// Parts splits alert text into text and route icon parts in the order they
// appear. Text with no route tokens is returned as a single text part. Empty
// text returns no parts.
func Parts(text string) []Part {
	if text == "" {
		return nil
	}

	matches := routeToken.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return []Part{{Text: text}}
	}

	parts := make([]Part, 0, len(matches)*2+1)
	last := 0
	for _, m := range matches {
		if m[0] > last {
			parts = append(parts, Part{Text: text[last:m[0]]})
		}
		parts = append(parts, Part{
			Route:   text[m[2]:m[3]],
			Express: m[4] >= 0,
		})
		last = m[1]
	}
	if last < len(text) {
		parts = append(parts, Part{Text: text[last:]})
	}

	return parts
}

// Plain returns the alert text with route tokens replaced by the route name.
// Used where icons cannot be shown, eg. the log.
func Plain(text string) string {
	var s strings.Builder
	for _, p := range Parts(text) {
		if p.Icon() {
			s.WriteString(p.Route)
		} else {
			s.WriteString(p.Text)
		}
	}
	return s.String()
}
