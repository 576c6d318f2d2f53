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

//go:build sdl

package sdlpanel

import (
	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/logger"
	"github.com/subwaysign/subwaysign/panel"
	"github.com/subwaysign/subwaysign/transit"
	"github.com/veandco/go-sdl2/sdl"
)

const windowTitle = "Subwaysign"

// Available returns true if the SDL panel is available in this build.
func Available() bool {
	return true
}

type sdlPanel struct {
	scale  int
	onQuit func()

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	width  int
	height int
	open   bool
	quit   bool
}

// New creates an SDL panel. Nothing is created until Open() is called. The
// onQuit function is called once if the window is closed by the user and
// may be nil.
func New(scale int, onQuit func()) (panel.Panel, error) {
	if scale < 1 {
		scale = DefaultScale
	}
	return &sdlPanel{
		scale:  scale,
		onQuit: onQuit,
	}, nil
}

func (p *sdlPanel) Open(g transit.Geometry) error {
	if err := g.Valid(); err != nil {
		return curated.Errorf(panel.OpenError, err)
	}

	var err error

	if err = sdl.Init(sdl.INIT_VIDEO); err != nil {
		return curated.Errorf(panel.OpenError, curated.Errorf(SDLError, err))
	}

	p.width = g.Width()
	p.height = g.Height()

	p.window, err = sdl.CreateWindow(windowTitle,
		int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		int32(p.width*p.scale), int32(p.height*p.scale),
		uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		sdl.Quit()
		return curated.Errorf(panel.OpenError, curated.Errorf(SDLError, err))
	}

	// no vsync. the render loop does its own pacing
	p.renderer, err = sdl.CreateRenderer(p.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		p.destroy()
		return curated.Errorf(panel.OpenError, curated.Errorf(SDLError, err))
	}

	// the texture has one texel per window pixel so that the LED border can
	// be drawn into it
	p.texture, err = p.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGB24), int(sdl.TEXTUREACCESS_STREAMING),
		int32(p.width*p.scale), int32(p.height*p.scale))
	if err != nil {
		p.destroy()
		return curated.Errorf(panel.OpenError, curated.Errorf(SDLError, err))
	}

	p.open = true
	logger.Logf(logger.Allow, "panel", "sdl window %dx%d (scale %d)", p.width, p.height, p.scale)
	return nil
}

func (p *sdlPanel) Present(buf *framebuffer.Buffer) error {
	if !p.open {
		return curated.Errorf(panel.NotOpen)
	}

	p.service()

	pixels, pitch, err := p.texture.Lock(nil)
	if err != nil {
		return curated.Errorf(panel.PresentError, curated.Errorf(SDLError, err))
	}

	src := buf.Bytes()
	srcPitch := buf.Pitch()
	border := p.scale > 2

	for y := 0; y < p.height && y < buf.Height(); y++ {
		for sy := 0; sy < p.scale; sy++ {
			row := pixels[(y*p.scale+sy)*pitch:]
			for x := 0; x < p.width && x < buf.Width(); x++ {
				s := src[y*srcPitch+x*3:]
				for sx := 0; sx < p.scale; sx++ {
					d := row[(x*p.scale+sx)*3:]
					if border && (sx == p.scale-1 || sy == p.scale-1) {
						d[0], d[1], d[2] = 0, 0, 0
					} else {
						d[0], d[1], d[2] = s[0], s[1], s[2]
					}
				}
			}
		}
	}

	p.texture.Unlock()

	if err := p.renderer.Clear(); err != nil {
		return curated.Errorf(panel.PresentError, curated.Errorf(SDLError, err))
	}
	if err := p.renderer.Copy(p.texture, nil, nil); err != nil {
		return curated.Errorf(panel.PresentError, curated.Errorf(SDLError, err))
	}
	p.renderer.Present()

	return nil
}

// service drains the SDL event queue. SDL windows stop responding if events
// are not serviced.
func (p *sdlPanel) service() {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			p.quitRequest()
		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN && ev.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				p.quitRequest()
			}
		}
	}
}

func (p *sdlPanel) quitRequest() {
	if p.quit {
		return
	}
	p.quit = true
	logger.Log(logger.Allow, "panel", "sdl window closed")
	if p.onQuit != nil {
		p.onQuit()
	}
}

// SetBrightness is simulated by modulating the texture colour.
func (p *sdlPanel) SetBrightness(pct int) {
	if p.texture == nil {
		return
	}
	v := uint8(min(max(pct, 1), 100) * 255 / 100)
	if err := p.texture.SetColorMod(v, v, v); err != nil {
		logger.Logf(logger.Allow, "panel", "sdl brightness: %v", err)
	}
}

func (p *sdlPanel) destroy() {
	if p.texture != nil {
		_ = p.texture.Destroy()
		p.texture = nil
	}
	if p.renderer != nil {
		_ = p.renderer.Destroy()
		p.renderer = nil
	}
	if p.window != nil {
		_ = p.window.Destroy()
		p.window = nil
	}
	sdl.Quit()
}

func (p *sdlPanel) Close() error {
	if !p.open {
		return nil
	}
	p.open = false
	p.destroy()
	return nil
}
