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
	"fmt"
	"strings"
	"time"

	"github.com/subwaysign/subwaysign/paths"
	"github.com/subwaysign/subwaysign/prefs"
	"github.com/subwaysign/subwaysign/render"
	"github.com/subwaysign/subwaysign/status"
)

// list of valid values for the panel.kind preference.
const (
	panelNull   = "null"
	panelTerm   = "term"
	panelSDL    = "sdl"
	panelRecord = "record"
)

// enginePrefs are the preferences that describe how the engine runs. What the
// sign shows is in the sign configuration.
type enginePrefs struct {
	dsk *prefs.Disk

	fps            prefs.Int
	reportInterval prefs.Duration
	niceness       prefs.Int

	statusAddress prefs.String

	// one of the panel* constants
	panelKind prefs.String
	sdlScale  prefs.Int

	// every nth frame is published to the status frame stream
	tapEvery prefs.Int
}

func newEnginePrefs() (*enginePrefs, error) {
	p := &enginePrefs{}
	if err := p.setDefaults(); err != nil {
		return nil, err
	}

	p.fps.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 1 || v.(int) > 1000 {
			return fmt.Errorf("render.fps must be between 1 and 1000")
		}
		return nil
	})
	p.panelKind.SetHookPre(func(v prefs.Value) error {
		switch strings.ToLower(v.(string)) {
		case panelNull, panelTerm, panelSDL, panelRecord:
			return nil
		}
		return fmt.Errorf("panel.kind must be one of %s, %s, %s or %s", panelNull, panelTerm, panelSDL, panelRecord)
	})

	pth, err := paths.EnsureResourcePath("preferences")
	if err != nil {
		return nil, err
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("render.fps", &p.fps)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("render.reportInterval", &p.reportInterval)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("render.niceness", &p.niceness)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("status.address", &p.statusAddress)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("status.tapEvery", &p.tapEvery)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("panel.kind", &p.panelKind)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("panel.sdlScale", &p.sdlScale)
	if err != nil {
		return nil, err
	}

	if err := p.dsk.Load(true); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *enginePrefs) setDefaults() error {
	for _, err := range []error{
		p.fps.Set(render.DefaultFPS),
		p.reportInterval.Set(render.DefaultReportInterval),
		p.niceness.Set(0),
		p.statusAddress.Set(status.DefaultAddress),
		p.panelKind.Set(panelTerm),
		p.sdlScale.Set(5),
		p.tapEvery.Set(6),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *enginePrefs) renderConfig() render.Config {
	return render.Config{
		FPS:            p.fps.Get().(int),
		ReportInterval: p.reportInterval.Get().(time.Duration),
		Niceness:       p.niceness.Get().(int),
	}
}

func (p *enginePrefs) String() string {
	s := strings.Builder{}
	for _, k := range p.dsk.Keys() {
		v, _ := p.dsk.Lookup(k)
		s.WriteString(fmt.Sprintf("%s :: %s\n", k, v))
	}
	return s.String()
}
