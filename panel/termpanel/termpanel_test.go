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

package termpanel_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/panel"
	"github.com/subwaysign/subwaysign/panel/termpanel"
	"github.com/subwaysign/subwaysign/test"
	"github.com/subwaysign/subwaysign/transit"
)

var small = transit.Geometry{ChainLength: 1, PanelWidth: 4, PanelHeight: 4}

func TestImplementsPanel(t *testing.T) {
	var p panel.Panel
	test.DemandImplements(t, termpanel.New(&bytes.Buffer{}), p)
}

func TestAscii(t *testing.T) {
	var out bytes.Buffer
	p := termpanel.New(&out)
	p.SetProfile(termenv.Ascii)

	test.DemandSuccess(t, p.Open(small))
	out.Reset()

	buf := framebuffer.New(4, 4)
	buf.Set(0, 0, transit.Green)
	buf.Set(0, 1, transit.Green)
	buf.Set(1, 0, transit.Red)
	buf.Set(2, 1, transit.Orange)

	test.DemandSuccess(t, p.Present(buf))
	s := out.String()

	// two rows of four cells
	rows := strings.Split(s, "\r\n")
	test.DemandEquality(t, len(rows), 2)
	test.ExpectSuccess(t, strings.Contains(rows[0], "█▀▄ "), rows[0])
	test.ExpectSuccess(t, strings.Contains(rows[1], "    "), rows[1])

	test.ExpectSuccess(t, p.Close())
}

func TestTrueColor(t *testing.T) {
	var out bytes.Buffer
	p := termpanel.New(&out)
	p.SetProfile(termenv.TrueColor)
	test.DemandSuccess(t, p.Open(small))

	buf := framebuffer.New(4, 4)
	buf.Set(0, 0, transit.RGB{R: 0xff})

	out.Reset()
	test.DemandSuccess(t, p.Present(buf))
	test.ExpectSuccess(t, strings.Contains(out.String(), "38;2;255;0;0"))

	p.SetBrightness(50)
	out.Reset()
	test.DemandSuccess(t, p.Present(buf))
	test.ExpectSuccess(t, strings.Contains(out.String(), "38;2;127;0;0"))
	test.ExpectSuccess(t, !strings.Contains(out.String(), "38;2;255;0;0"))

	test.ExpectSuccess(t, p.Close())
}

func TestNotOpen(t *testing.T) {
	p := termpanel.New(&bytes.Buffer{})
	err := p.Present(framebuffer.New(4, 4))
	test.ExpectSuccess(t, curated.Is(err, panel.NotOpen))

	err = p.Open(transit.Geometry{})
	test.ExpectSuccess(t, curated.Is(err, panel.OpenError))

	// closing a panel that isn't open is not an error
	test.ExpectSuccess(t, p.Close())
}
