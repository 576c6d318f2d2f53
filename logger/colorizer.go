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

package logger

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Colorizer applies basic coloring rules to logging output. Entries from the
// tags listed in Alarm are written in red. All other entries are written
// with the tag dimmed.
//
// Colour is only applied if the underlying writer is a terminal that
// supports it. termenv decides that from the writer and the environment.
type Colorizer struct {
	out     *termenv.Output
	Alarm   []string
	noColor bool
}

// NewColorizer is the preferred method if initialisation for the Colorizer
// type.
func NewColorizer(out io.Writer) *Colorizer {
	o := termenv.NewOutput(out)
	return &Colorizer{
		out:     o,
		Alarm:   []string{"error", "panic"},
		noColor: o.Profile == termenv.Ascii,
	}
}

// Write implements the io.Writer interface.
func (c *Colorizer) Write(p []byte) (n int, err error) {
	if c.noColor {
		return c.out.Write(p)
	}

	for _, l := range strings.SplitAfter(string(p), "\n") {
		if l == "" {
			continue
		}

		tag, detail, ok := strings.Cut(l, ": ")
		if !ok {
			m, err := c.out.WriteString(l)
			n += m
			if err != nil {
				return n, err
			}
			continue
		}

		var s string
		if c.alarmed(tag, detail) {
			s = c.out.String(strings.TrimSuffix(l, "\n")).Foreground(c.out.Color("9")).String() + "\n"
		} else {
			s = c.out.String(tag+":").Faint().String() + " " + detail
		}

		m, err := c.out.WriteString(s)
		n += m
		if err != nil {
			return n, err
		}
	}

	// report the length of the input as written. the escape sequences are not
	// the caller's concern
	return len(p), nil
}

func (c *Colorizer) alarmed(tag, detail string) bool {
	for _, a := range c.Alarm {
		if tag == a || strings.Contains(detail, a) {
			return true
		}
	}
	return false
}
