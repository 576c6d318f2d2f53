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

package transit

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB colour.
type RGB struct {
	R, G, B uint8
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHex converts a colour string of the form "#RRGGBB" to RGB.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("colour must be six hex digits: %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("colour must be six hex digits: %q", s)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Standard display colours.
var (
	Black  = RGB{}
	Green  = RGB{0x00, 0xff, 0x00}
	Red    = RGB{0xff, 0x66, 0x44}
	Orange = RGB{0xff, 0x63, 0x19}
	Dim    = RGB{0x30, 0x30, 0x30}
)

// route colours by line
var (
	color123  = RGB{0xff, 0x66, 0x44}
	color456  = RGB{0x00, 0xff, 0x00}
	color7    = RGB{0xcc, 0x55, 0x88}
	colorGS   = RGB{0x99, 0x88, 0x88}
	colorACE  = RGB{0x28, 0x50, 0xad}
	colorBDFM = RGB{0xff, 0x63, 0x19}
	colorG    = RGB{0x6c, 0xbe, 0x45}
	colorL    = RGB{0xa7, 0xa9, 0xac}
	colorJZ   = RGB{0x99, 0x66, 0x33}
	colorNQRW = RGB{0xfc, 0xcc, 0x0a}
)

// RouteColor returns the colour for a route. Unknown routes are green.
func RouteColor(route string) RGB {
	switch route {
	case "1", "2", "3":
		return color123
	case "4", "5", "6":
		return color456
	case "7":
		return color7
	case "GS", "S":
		return colorGS
	case "A", "C", "E":
		return colorACE
	case "B", "D", "F", "M":
		return colorBDFM
	case "G":
		return colorG
	case "L":
		return colorL
	case "J", "Z":
		return colorJZ
	case "N", "Q", "R", "W":
		return colorNQRW
	}
	return Green
}

// ExpressCapable is true for routes that run express service.
func ExpressCapable(route string) bool {
	switch route {
	case "2", "3", "4", "5", "6", "7", "A", "D", "E":
		return true
	}
	return false
}
