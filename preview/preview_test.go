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

package preview_test

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/subwaysign/subwaysign/glyphs"
	"github.com/subwaysign/subwaysign/preview"
	"github.com/subwaysign/subwaysign/test"
	"github.com/subwaysign/subwaysign/transit"
)

func snapshots() (*transit.ConfigSnapshot, *transit.DisplaySnapshot) {
	cfg := &transit.ConfigSnapshot{
		Routes:     []string{"1", "2"},
		Brightness: 0.5,
		MaxTrains:  6,
		ShowAlerts: true,
		Geometry:   transit.DefaultGeometry,
		Refresh:    transit.DefaultRefresh,
	}
	disp := &transit.DisplaySnapshot{
		Arrivals: []transit.Arrival{
			{Route: "1", Destination: "South Ferry", Minutes: 2},
			{Route: "2", Destination: "Flatbush Av", Minutes: 5},
		},
		FetchedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	return cfg, disp
}

func TestEmulation(t *testing.T) {
	str, err := glyphs.LoadDefault()
	test.DemandSuccess(t, err)

	cfg, disp := snapshots()
	em, err := preview.NewEmulation(str, cfg, disp, 60)
	test.DemandSuccess(t, err)

	em.Run(time.Second)
	res := em.Results()
	test.ExpectEquality(t, res.Ticks, 60)
	test.ExpectEquality(t, res.Elapsed, 60*(time.Second/60))
	test.ExpectSuccess(t, res.Lit > 0)
	test.ExpectEquality(t, res.Lit, em.Frame().Lit())

	// results frame is a copy
	em.Frame().Clear()
	test.ExpectSuccess(t, res.Frame.Lit() > 0)

	// at least one frame is composed
	em, err = preview.NewEmulation(str, cfg, disp, 60)
	test.DemandSuccess(t, err)
	em.Run(0)
	test.ExpectEquality(t, em.Results().Ticks, 1)
}

func TestEmulationDeterministic(t *testing.T) {
	str, err := glyphs.LoadDefault()
	test.DemandSuccess(t, err)

	cfg, disp := snapshots()
	a, err := preview.NewEmulation(str, cfg, disp, 60)
	test.DemandSuccess(t, err)
	b, err := preview.NewEmulation(str, cfg, disp, 60)
	test.DemandSuccess(t, err)

	a.Run(5 * time.Second)
	b.Run(5 * time.Second)
	test.ExpectEquality(t, a.Results().Digest, b.Results().Digest)
}

func TestEmulationErrors(t *testing.T) {
	str, err := glyphs.LoadDefault()
	test.DemandSuccess(t, err)

	_, err = preview.NewEmulation(str, nil, nil, 60)
	test.ExpectFailure(t, err)

	cfg, disp := snapshots()
	cfg.Geometry = transit.Geometry{}
	_, err = preview.NewEmulation(str, cfg, disp, 60)
	test.ExpectFailure(t, err)
}

func TestWritePNG(t *testing.T) {
	str, err := glyphs.LoadDefault()
	test.DemandSuccess(t, err)

	cfg, disp := snapshots()
	em, err := preview.NewEmulation(str, cfg, disp, 60)
	test.DemandSuccess(t, err)
	em.Tick()

	var b bytes.Buffer
	test.DemandSuccess(t, preview.WritePNG(&b, em.Frame(), 3))

	img, err := png.Decode(&b)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, img.Bounds().Dx(), cfg.Geometry.Width()*3)
	test.ExpectEquality(t, img.Bounds().Dy(), cfg.Geometry.Height()*3)

	// scaled pixels are blocks of the same colour
	src := em.Frame()
	for y := range src.Height() {
		for x := range src.Width() {
			c := src.At(x, y)
			r, g, bl, _ := img.At(x*3+2, y*3+2).RGBA()
			if uint8(r>>8) != c.R || uint8(g>>8) != c.G || uint8(bl>>8) != c.B {
				t.Fatalf("pixel %d,%d: want %s", x, y, c)
			}
		}
	}
}
