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

package digest_test

import (
	"testing"

	"github.com/subwaysign/subwaysign/digest"
	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/panel"
	"github.com/subwaysign/subwaysign/test"
	"github.com/subwaysign/subwaysign/transit"
)

func TestFrame(t *testing.T) {
	a := framebuffer.New(8, 4)
	b := framebuffer.New(8, 4)
	test.ExpectEquality(t, digest.Frame(a), digest.Frame(b))

	b.Set(3, 2, transit.Red)
	test.ExpectInequality(t, digest.Frame(a), digest.Frame(b))
}

func TestScreen(t *testing.T) {
	var p panel.Panel
	var d digest.Digest
	test.DemandImplements(t, digest.NewScreen(panel.Null{}), p)
	test.DemandImplements(t, digest.NewScreen(panel.Null{}), d)

	g := transit.Geometry{ChainLength: 1, PanelWidth: 8, PanelHeight: 4}
	buf := framebuffer.New(g.Width(), g.Height())

	scr := digest.NewScreen(&panel.Capture{})
	test.ExpectFailure(t, scr.Present(buf))
	test.DemandSuccess(t, scr.Open(g))

	zero := scr.Hash()
	test.DemandSuccess(t, scr.Present(buf))
	first := scr.Hash()
	test.ExpectInequality(t, first, zero)

	// the same frame twice does not produce the same hash because the
	// fingerprints are chained
	test.DemandSuccess(t, scr.Present(buf))
	test.ExpectInequality(t, scr.Hash(), first)
	test.ExpectEquality(t, scr.Frames(), 2)

	// a second screen presented with the same frames has the same digest
	other := digest.NewScreen(panel.Null{})
	test.DemandSuccess(t, other.Open(g))
	test.DemandSuccess(t, other.Present(buf))
	test.DemandSuccess(t, other.Present(buf))
	test.ExpectEquality(t, other.Hash(), scr.Hash())

	scr.ResetDigest()
	test.ExpectEquality(t, scr.Hash(), zero)
	test.ExpectEquality(t, scr.Frames(), 0)
}
