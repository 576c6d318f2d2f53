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

package panel

import (
	"sync"
	"time"

	"github.com/subwaysign/subwaysign/assert"
	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/transit"
)

// Capture is a Panel that keeps a copy of the most recent frame along with
// counts of every call made to it. It is safe to inspect a Capture from
// another goroutine while the render loop is using it.
type Capture struct {
	// OpenErr is returned by Open() if it is not nil
	OpenErr error

	// PresentDelay is slept at the start of every call to Present(). It
	// simulates slow hardware
	PresentDelay time.Duration

	crit       sync.Mutex
	geometry   transit.Geometry
	open       bool
	last       *framebuffer.Buffer
	presents   int
	closes     int
	brightness int

	// every call to the panel should be made by the same goroutine
	owner assert.Owner
}

func (c *Capture) Open(g transit.Geometry) error {
	c.owner.Check()
	if c.OpenErr != nil {
		return curated.Errorf(OpenError, c.OpenErr)
	}
	if err := g.Valid(); err != nil {
		return curated.Errorf(OpenError, err)
	}

	c.crit.Lock()
	defer c.crit.Unlock()
	c.geometry = g
	c.open = true
	c.last = framebuffer.New(g.Width(), g.Height())
	return nil
}

func (c *Capture) Present(buf *framebuffer.Buffer) error {
	c.owner.Check()
	if c.PresentDelay > 0 {
		time.Sleep(c.PresentDelay)
	}

	c.crit.Lock()
	defer c.crit.Unlock()
	if !c.open {
		return curated.Errorf(NotOpen)
	}
	if !c.last.CopyFrom(buf) {
		c.last = buf.Clone()
	}
	c.presents++
	return nil
}

func (c *Capture) SetBrightness(pct int) {
	c.owner.Check()
	c.crit.Lock()
	defer c.crit.Unlock()
	c.brightness = pct
}

func (c *Capture) Close() error {
	c.owner.Check()
	c.crit.Lock()
	defer c.crit.Unlock()
	c.open = false
	c.closes++
	return nil
}

// Last returns a copy of the most recent frame. Returns nil if no frame has
// been presented.
func (c *Capture) Last() *framebuffer.Buffer {
	c.crit.Lock()
	defer c.crit.Unlock()
	if c.presents == 0 {
		return nil
	}
	return c.last.Clone()
}

// Presents is the number of frames presented.
func (c *Capture) Presents() int {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.presents
}

// Closes is the number of times Close() has been called.
func (c *Capture) Closes() int {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.closes
}

// Brightness is the most recent brightness value.
func (c *Capture) Brightness() int {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.brightness
}

// Geometry given to Open().
func (c *Capture) Geometry() transit.Geometry {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.geometry
}

// OneGoroutine returns true if every call to Open(), Present(),
// SetBrightness() and Close() has been made by the same goroutine.
func (c *Capture) OneGoroutine() bool {
	return !c.owner.Violated()
}
