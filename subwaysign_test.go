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

package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/subwaysign/subwaysign/test"
	"github.com/subwaysign/subwaysign/transit"
)

const signYAML = `
station:
  name: Times Sq-42 St
  routes: ["1", "2", "3"]
  uptown_stop_id: 127N
  downtown_stop_id: 127S
display:
  brightness: 0.5
  max_trains: 4
  show_alerts: true
`

func TestLaunchVersion(t *testing.T) {
	var out bytes.Buffer
	test.ExpectEquality(t, launch([]string{"version"}, &out), exitSuccess)
	test.ExpectSuccess(t, out.Len() > 0)
}

func TestLaunchBadMode(t *testing.T) {
	var out bytes.Buffer
	test.ExpectEquality(t, launch([]string{"fonts", "-nosuchflag"}, &out), exitModeFail)
	test.ExpectSuccess(t, strings.HasPrefix(out.String(), "* error in FONTS mode:"))
}

func TestLaunchHelp(t *testing.T) {
	var out bytes.Buffer
	test.ExpectEquality(t, launch([]string{"-help"}, &out), exitSuccess)
	test.ExpectSuccess(t, strings.Contains(out.String(), "PREVIEW"))
}

func TestLaunchFonts(t *testing.T) {
	var out bytes.Buffer
	test.ExpectEquality(t, launch([]string{"fonts", "-measure", "Times Sq"}, &out), exitSuccess)
	test.ExpectSuccess(t, strings.Contains(out.String(), "characters"))
	test.ExpectSuccess(t, strings.Contains(out.String(), "icons"))
	test.ExpectSuccess(t, strings.Contains(out.String(), "pixels"))
}

func TestLaunchPreviewPNG(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "sign.yaml")
	test.DemandSuccess(t, os.WriteFile(cfg, []byte(signYAML), 0o600))
	img := filepath.Join(dir, "sign.png")

	var out bytes.Buffer
	r := launch([]string{"preview", "-config", cfg, "-png", img, "-scale", "2", "-after", "3s"}, &out)
	test.DemandEquality(t, r, exitSuccess)

	f, err := os.Open(img)
	test.DemandSuccess(t, err)
	defer f.Close()

	decoded, err := png.Decode(f)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, decoded.Bounds().Dx(), transit.DefaultGeometry.Width()*2)
	test.ExpectEquality(t, decoded.Bounds().Dy(), transit.DefaultGeometry.Height()*2)
}

func TestLaunchPreviewMissingConfig(t *testing.T) {
	var out bytes.Buffer
	r := launch([]string{"preview", "-config", filepath.Join(t.TempDir(), "missing.yaml")}, &out)
	test.ExpectEquality(t, r, exitModeFail)
}

func TestPanelKinds(t *testing.T) {
	ep := &enginePrefs{}
	test.DemandSuccess(t, ep.setDefaults())

	pnl, err := newPanel("NULL", ep, "", nil)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, pnl != nil)

	_, err = newPanel("hologram", ep, "", nil)
	test.ExpectFailure(t, err)
}

func TestFeedSource(t *testing.T) {
	_, err := feedSource("mock", "normal", 1)
	test.ExpectSuccess(t, err)
	_, err = feedSource("mock", "gridlock", 1)
	test.ExpectFailure(t, err)
	_, err = feedSource("http://localhost:9999", "", 0)
	test.ExpectSuccess(t, err)
	_, err = feedSource("ftp://localhost", "", 0)
	test.ExpectFailure(t, err)
}
