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

package modalflag

import (
	"fmt"
	"io"
	"strings"
)

// helpWriter collects the usage output of the flag package so that it can be
// printed with the mode information.
type helpWriter struct {
	buf strings.Builder
}

func (hw *helpWriter) Write(p []byte) (int, error) {
	return hw.buf.Write(p)
}

// usage is the output of the flag package with the mode banner and sub-mode
// list added.
func (hw *helpWriter) usage(out io.Writer, path string, subModes []string, additional string) {
	if out == nil {
		return
	}

	first, flags, _ := strings.Cut(hw.buf.String(), "\n")

	if flags == "" && len(subModes) == 0 {
		if path == "" {
			fmt.Fprintln(out, "No help available")
		} else {
			fmt.Fprintf(out, "No help available for %s\n", path)
		}
		return
	}

	if path == "" {
		fmt.Fprintln(out, first)
	} else {
		fmt.Fprintf(out, "%s for %s mode\n", first, path)
	}

	io.WriteString(out, flags)

	if len(subModes) > 0 {
		if flags != "" {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "  available sub-modes: %s\n", strings.Join(subModes, ", "))
		fmt.Fprintf(out, "    default: %s\n", subModes[0])
	}

	if additional != "" {
		fmt.Fprintf(out, "\n%s\n", additional)
	}
}
