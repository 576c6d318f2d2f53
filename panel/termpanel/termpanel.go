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

// Package termpanel implements a panel.Panel that draws frames to a terminal
// using half-block characters. Each character cell shows two pixels, one
// above the other.
//
// Colour is chosen according to the terminal's colour profile, as detected
// by termenv. A terminal with no colour support shows lit pixels only.
//
// When the output is an interactive terminal the controlling tty is put into
// cbreak mode while the panel is open, so that key presses are not echoed
// over the frame. The original mode is restored by Close().
package termpanel

import (
	"io"
	"os"
	"strconv"

	"github.com/muesli/termenv"
	"github.com/pkg/term"
	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/logger"
	"github.com/subwaysign/subwaysign/panel"
	"github.com/subwaysign/subwaysign/transit"
	xterm "golang.org/x/term"
)

// the controlling terminal device
const tty = "/dev/tty"

// Panel draws frames to a terminal.
type Panel struct {
	out     io.Writer
	profile termenv.Profile

	// interactive is true if out is a terminal. cbreak mode and terminal
	// size checks only happen if it is
	interactive bool
	fd          int
	ctrl        *term.Term

	geometry   transit.Geometry
	brightness int
	open       bool

	// the output for a frame is built in buf, which is reused
	buf []byte

	// escape sequences for each colour seen so far
	fg map[transit.RGB]string
	bg map[transit.RGB]string
}

// New creates a terminal panel writing to out. The colour profile is
// detected from out and the environment.
func New(out io.Writer) *Panel {
	p := &Panel{
		out:        out,
		profile:    termenv.NewOutput(out).Profile,
		brightness: 100,
		fg:         make(map[transit.RGB]string),
		bg:         make(map[transit.RGB]string),
	}
	if f, ok := out.(*os.File); ok && xterm.IsTerminal(int(f.Fd())) {
		p.interactive = true
		p.fd = int(f.Fd())
	}
	return p
}

// SetProfile overrides the detected colour profile.
func (p *Panel) SetProfile(profile termenv.Profile) {
	p.profile = profile
	clear(p.fg)
	clear(p.bg)
}

// Open implements the panel.Panel interface. A terminal that is too small for
// the frame is not an error, the frame is clipped by the terminal.
func (p *Panel) Open(g transit.Geometry) error {
	if err := g.Valid(); err != nil {
		return curated.Errorf(panel.OpenError, err)
	}
	p.geometry = g

	if p.interactive {
		if w, h, err := xterm.GetSize(p.fd); err == nil {
			if w < g.Width() || h < (g.Height()+1)/2 {
				logger.Logf(logger.Allow, "panel", "terminal is %dx%d. frame needs %dx%d", w, h, g.Width(), (g.Height()+1)/2)
			}
		}

		ctrl, err := term.Open(tty, term.CBreakMode)
		if err != nil {
			return curated.Errorf(panel.OpenError, err)
		}
		p.ctrl = ctrl
	}

	// clear screen and hide cursor
	if _, err := io.WriteString(p.out, "\x1b[2J\x1b[?25l"); err != nil {
		p.restore()
		return curated.Errorf(panel.OpenError, err)
	}

	p.open = true
	return nil
}

func (p *Panel) restore() {
	if p.ctrl != nil {
		_ = p.ctrl.Restore()
		_ = p.ctrl.Close()
		p.ctrl = nil
	}
}

// SetBrightness implements the panel.Panel interface. Colours are scaled by
// the brightness percentage.
func (p *Panel) SetBrightness(pct int) {
	p.brightness = min(max(pct, 1), 100)
	clear(p.fg)
	clear(p.bg)
}

func (p *Panel) scale(c transit.RGB) transit.RGB {
	return transit.RGB{
		R: uint8(int(c.R) * p.brightness / 100),
		G: uint8(int(c.G) * p.brightness / 100),
		B: uint8(int(c.B) * p.brightness / 100),
	}
}

func (p *Panel) sequence(c transit.RGB, background bool) string {
	cache := p.fg
	if background {
		cache = p.bg
	}
	if s, ok := cache[c]; ok {
		return s
	}

	col := p.profile.Convert(termenv.RGBColor(p.scale(c).String()))
	s := termenv.CSI + col.Sequence(background) + "m"
	cache[c] = s
	return s
}

// Present implements the panel.Panel interface.
func (p *Panel) Present(buf *framebuffer.Buffer) error {
	if !p.open {
		return curated.Errorf(panel.NotOpen)
	}

	p.buf = append(p.buf[:0], "\x1b[H"...)

	for y := 0; y < buf.Height(); y += 2 {
		if y > 0 {
			p.buf = append(p.buf, termenv.CSI+termenv.ResetSeq+"m\r\n"...)
		}
		if p.profile == termenv.Ascii {
			p.asciiRow(buf, y)
		} else {
			p.colourRow(buf, y)
		}
	}
	p.buf = append(p.buf, termenv.CSI+termenv.ResetSeq+"m"...)

	if _, err := p.out.Write(p.buf); err != nil {
		return curated.Errorf(panel.PresentError, err)
	}
	return nil
}

func (p *Panel) colourRow(buf *framebuffer.Buffer, y int) {
	var lastTop, lastBottom transit.RGB
	first := true

	for x := 0; x < buf.Width(); x++ {
		top := buf.At(x, y)
		bottom := buf.At(x, y+1)

		if first || top != lastTop {
			p.buf = append(p.buf, p.sequence(top, false)...)
		}
		if first || bottom != lastBottom {
			p.buf = append(p.buf, p.sequence(bottom, true)...)
		}
		first = false
		lastTop = top
		lastBottom = bottom

		p.buf = append(p.buf, "▀"...)
	}
}

func (p *Panel) asciiRow(buf *framebuffer.Buffer, y int) {
	for x := 0; x < buf.Width(); x++ {
		top := buf.At(x, y) != transit.Black
		bottom := buf.At(x, y+1) != transit.Black
		switch {
		case top && bottom:
			p.buf = append(p.buf, "█"...)
		case top:
			p.buf = append(p.buf, "▀"...)
		case bottom:
			p.buf = append(p.buf, "▄"...)
		default:
			p.buf = append(p.buf, ' ')
		}
	}
}

// Close implements the panel.Panel interface. The cursor is shown again and
// the terminal mode is restored.
func (p *Panel) Close() error {
	if !p.open {
		return nil
	}
	p.open = false
	p.restore()

	// move below the frame
	rows := (p.geometry.Height() + 1) / 2
	_, err := io.WriteString(p.out, termenv.CSI+termenv.ResetSeq+"m\x1b["+strconv.Itoa(rows+1)+";1H\x1b[?25h\n")
	return err
}
