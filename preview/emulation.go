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

package preview

import (
	"time"

	"github.com/subwaysign/subwaysign/composer"
	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/digest"
	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/glyphs"
	"github.com/subwaysign/subwaysign/render"
	"github.com/subwaysign/subwaysign/transit"
)

// PreviewError is the error pattern for the preview package.
const PreviewError = "preview: %v"

// Emulation of the render loop's tick without the loop or a panel.
type Emulation struct {
	cmp  *composer.Composer
	st   *composer.State
	buf  *framebuffer.Buffer
	cfg  *transit.ConfigSnapshot
	disp *transit.DisplaySnapshot

	budget time.Duration
	now    time.Time
	ticks  int
}

// NewEmulation is the preferred method of initialisation for the Emulation
// type. The simulated clock starts at the FetchedAt time of the display
// snapshot, or at the current time if it is zero.
func NewEmulation(str *glyphs.Store, cfg *transit.ConfigSnapshot, disp *transit.DisplaySnapshot, fps int) (*Emulation, error) {
	if cfg == nil {
		return nil, curated.Errorf(PreviewError, "no configuration")
	}
	if err := cfg.Geometry.Valid(); err != nil {
		return nil, curated.Errorf(PreviewError, err)
	}
	if fps <= 0 {
		fps = render.DefaultFPS
	}

	cmp := composer.New(str, cfg.Geometry)
	em := &Emulation{
		cmp:    cmp,
		st:     composer.NewState(cmp),
		buf:    framebuffer.New(cfg.Geometry.Width(), cfg.Geometry.Height()),
		cfg:    cfg,
		disp:   disp,
		budget: time.Second / time.Duration(fps),
		now:    time.Now(),
	}
	if disp != nil && !disp.FetchedAt.IsZero() {
		em.now = disp.FetchedAt
	}
	return em, nil
}

// Tick composes a single frame and advances the simulated clock.
func (em *Emulation) Tick() {
	em.st.Update(em.now, em.cfg, em.disp, 1)
	em.cmp.Compose(em.buf, em.cfg, em.disp, em.st)
	em.ticks++
	em.now = em.now.Add(em.budget)
}

// Run ticks until d of simulated time has passed. At least one frame is
// always composed.
func (em *Emulation) Run(d time.Duration) {
	n := max(1, int(d/em.budget))
	for range n {
		em.Tick()
	}
}

// Frame returns the most recently composed frame. The buffer is reused by
// the next Tick().
func (em *Emulation) Frame() *framebuffer.Buffer {
	return em.buf
}

// Results of an emulation.
type Results struct {
	Frame       *framebuffer.Buffer
	Ticks       int
	Elapsed     time.Duration
	CycleIndex  int
	AlertActive bool
	Lit         int

	// fingerprint of the frame
	Digest string
}

// Results returns a summary of the emulation so far. The frame is a copy.
func (em *Emulation) Results() *Results {
	return &Results{
		Frame:       em.buf.Clone(),
		Ticks:       em.ticks,
		Elapsed:     time.Duration(em.ticks) * em.budget,
		CycleIndex:  em.st.CycleIndex(),
		AlertActive: em.st.AlertActive(),
		Lit:         em.buf.Lit(),
		Digest:      digest.Frame(em.buf),
	}
}
