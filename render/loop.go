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

package render

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/subwaysign/subwaysign/composer"
	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/glyphs"
	"github.com/subwaysign/subwaysign/logger"
	"github.com/subwaysign/subwaysign/notifications"
	"github.com/subwaysign/subwaysign/panel"
	"github.com/subwaysign/subwaysign/render/limiter"
	"github.com/subwaysign/subwaysign/statecell"
	"github.com/subwaysign/subwaysign/transit"
)

// Error patterns returned by the render loop.
const (
	FontError      = "render: fonts: %v"
	PanelError     = "render: %v"
	AlreadyStarted = "render: loop already started"
)

// Defaults for Config fields left at zero.
const (
	DefaultFPS            = 60
	DefaultReportInterval = 300 * time.Second

	// number of ticks between brightness checks
	brightnessPoll = 60
)

// Config for the render loop. The geometry must match the geometry of the
// panel.
type Config struct {
	// ticks per second. TickBudget takes priority if it is set
	FPS        int
	TickBudget time.Duration

	// wall-clock time between statistics reports
	ReportInterval time.Duration

	Geometry transit.Geometry

	// scheduling priority for the render thread. zero leaves the priority
	// unchanged. negative values raise the priority and need privileges
	Niceness int
}

// FontLoader returns the glyph store. It is called once by the loop during
// Starting.
type FontLoader func() (*glyphs.Store, error)

// Loop is the render loop.
type Loop struct {
	cfg   Config
	fonts FontLoader
	panel panel.Panel

	config  *statecell.Cell[transit.ConfigSnapshot]
	display *statecell.Cell[transit.DisplaySnapshot]

	notify notifications.Notify

	state   atomic.Int32
	started atomic.Bool

	// the last complete reporting window and the current window
	stats *statecell.Cell[Stats]
	live  *statecell.Cell[Stats]

	done chan struct{}
	err  error
}

// NewLoop creates a render loop. The loop does not start until Run() or
// Start() is called.
func NewLoop(cfg Config, fonts FontLoader, pnl panel.Panel,
	config *statecell.Cell[transit.ConfigSnapshot],
	display *statecell.Cell[transit.DisplaySnapshot]) *Loop {

	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	if cfg.ReportInterval <= 0 {
		cfg.ReportInterval = DefaultReportInterval
	}

	return &Loop{
		cfg:     cfg,
		fonts:   fonts,
		panel:   pnl,
		config:  config,
		display: display,
		stats:   statecell.New(&Stats{}),
		live:    statecell.New(&Stats{}),
		done:    make(chan struct{}),
	}
}

// SetNotify sets the recipient of loop notifications. Must be called before
// the loop is started.
func (l *Loop) SetNotify(n notifications.Notify) {
	l.notify = n
}

// State returns the current state of the loop.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Stats returns the statistics of the last complete reporting window.
func (l *Loop) Stats() Stats {
	return *l.stats.Current()
}

// Live returns the statistics for the current reporting window. The value is
// refreshed about once a second.
func (l *Loop) Live() Stats {
	return *l.live.Current()
}

func (l *Loop) setState(s State) {
	l.state.Store(int32(s))
	switch s {
	case Running:
		l.notice(notifications.NotifyRunning)
	case Stopped:
		l.notice(notifications.NotifyStopped)
	}
}

func (l *Loop) notice(n notifications.Notice) {
	if l.notify == nil {
		return
	}
	if err := l.notify.Notify(n); err != nil {
		logger.Logf(logger.Allow, "render", "notification %s: %v", n, err)
	}
}

// Run the loop on the calling goroutine. The goroutine is locked to its OS
// thread for the lifetime of the loop. Returns when the context is cancelled
// and the loop has stopped, or immediately if Starting fails.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return curated.Errorf(AlreadyStarted)
	}
	l.err = l.run(ctx, nil)
	close(l.done)
	return l.err
}

// Start the loop on a new goroutine locked to its own OS thread. Start
// returns once the loop has finished Starting. If Starting failed the error
// is returned and the loop is already Stopped.
func (l *Loop) Start(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return curated.Errorf(AlreadyStarted)
	}

	ready := make(chan struct{})
	go func() {
		l.err = l.run(ctx, ready)
		close(l.done)
	}()

	select {
	case <-ready:
		return nil
	case <-l.done:
		return l.err
	}
}

// Wait for the loop to stop and return the error that stopped it.
func (l *Loop) Wait() error {
	<-l.done
	return l.err
}

// Done is closed when the loop has stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run(ctx context.Context, ready chan struct{}) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	l.setState(Starting)

	lim := limiter.NewLimiter(l.cfg.FPS)
	if l.cfg.TickBudget > 0 {
		lim.SetBudget(l.cfg.TickBudget)
	}

	if l.cfg.Niceness != 0 {
		if err := setPriority(l.cfg.Niceness); err != nil {
			logger.Logf(logger.Allow, "render", "thread priority: %v", err)
		}
	}

	str, err := l.fonts()
	if err != nil {
		l.setState(Stopped)
		return curated.Errorf(FontError, err)
	}

	geometry := l.cfg.Geometry
	if err := geometry.Valid(); err != nil {
		l.setState(Stopped)
		return curated.Errorf(PanelError, err)
	}

	if err := l.panel.Open(geometry); err != nil {
		l.setState(Stopped)
		return curated.Errorf(PanelError, err)
	}

	buf := framebuffer.New(geometry.Width(), geometry.Height())
	cmp := composer.New(str, geometry)
	st := composer.NewState(cmp)

	brightness := 0
	if cfg := l.config.Current(); cfg != nil {
		brightness = cfg.BrightnessPercent()
		l.panel.SetBrightness(brightness)
	}

	logger.Logf(logger.Allow, "render", "running at %d ticks per second on %s", lim.Limit(), geometry)

	win := window{lim: lim}
	win.reset(time.Now())

	l.setState(Running)
	if ready != nil {
		close(ready)
	}

	var disp *transit.DisplaySnapshot

	for ctx.Err() == nil {
		start := lim.Begin()

		cfg := l.config.Current()
		var version uint64
		disp, version = l.display.Load()

		st.Update(start, cfg, disp, version)
		cmp.Compose(buf, cfg, disp, st)

		if err := l.panel.Present(buf); err != nil {
			if win.PresentErrors == 0 {
				logger.Log(logger.Allow, "render", err)
			}
			win.PresentErrors++
		}

		elapsed, missed := lim.End(start)
		win.tick(elapsed, missed)

		if win.Frames%brightnessPoll == 0 {
			if cfg != nil {
				if b := cfg.BrightnessPercent(); b != brightness {
					brightness = b
					l.panel.SetBrightness(b)
					logger.Logf(logger.Allow, "render", "brightness set to %d%%", b)
					l.notice(notifications.NotifyBrightness)
				}
			}
			l.live.Publish(ptr(win.snapshot(time.Now(), disp)))
		}

		if now := time.Now(); lim.Window(now) >= l.cfg.ReportInterval {
			l.report(win.snapshot(now, disp))
			win.reset(now)
		}
	}

	l.setState(Draining)

	err = l.panel.Close()
	if err != nil {
		err = curated.Errorf(PanelError, err)
	}

	l.report(win.snapshot(time.Now(), disp))
	l.setState(Stopped)
	logger.Log(logger.Allow, "render", "stopped")

	return err
}

// report logs the statistics and publishes them.
func (l *Loop) report(s Stats) {
	l.stats.Publish(&s)
	l.live.Publish(&Stats{End: s.End})
	logger.Log(logger.Allow, "render", s)
	l.notice(notifications.NotifyStatsReport)
}

func ptr[T any](v T) *T {
	return &v
}
