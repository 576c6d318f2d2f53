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

package render_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/glyphs"
	"github.com/subwaysign/subwaysign/notifications"
	"github.com/subwaysign/subwaysign/panel"
	"github.com/subwaysign/subwaysign/render"
	"github.com/subwaysign/subwaysign/statecell"
	"github.com/subwaysign/subwaysign/test"
	"github.com/subwaysign/subwaysign/transit"
)

// slowPanel is a Capture that takes longer than the tick budget to present
// chosen frames. The time of every present is recorded.
type slowPanel struct {
	*panel.Capture
	slow  map[int]time.Duration
	crit  sync.Mutex
	times []time.Time
}

func (p *slowPanel) Present(buf *framebuffer.Buffer) error {
	p.crit.Lock()
	n := len(p.times) + 1
	p.crit.Unlock()

	if d, ok := p.slow[n]; ok {
		time.Sleep(d)
	}
	err := p.Capture.Present(buf)

	p.crit.Lock()
	p.times = append(p.times, time.Now())
	p.crit.Unlock()
	return err
}

func (p *slowPanel) presentedAt() []time.Time {
	p.crit.Lock()
	defer p.crit.Unlock()
	return append([]time.Time{}, p.times...)
}

func cells() (*statecell.Cell[transit.ConfigSnapshot], *statecell.Cell[transit.DisplaySnapshot]) {
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
			{Route: "1", Destination: "South Ferry", Minutes: 0},
			{Route: "2", Destination: "Flatbush Av", Minutes: 3},
		},
		Alerts:    []transit.Alert{{ID: "a", Text: "Delays on [2]", Routes: []string{"2"}}},
		FetchedAt: time.Now(),
	}
	return statecell.New(cfg), statecell.New(disp)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStateString(t *testing.T) {
	test.ExpectEquality(t, render.Starting.String(), "starting")
	test.ExpectEquality(t, render.Running.String(), "running")
	test.ExpectEquality(t, render.Draining.String(), "draining")
	test.ExpectEquality(t, render.Stopped.String(), "stopped")
}

func TestStats(t *testing.T) {
	var s render.Stats
	test.ExpectEquality(t, s.Average(), time.Duration(0))
	test.ExpectEquality(t, s.MissedPercent(), 0.0)

	s = render.Stats{Frames: 4, Missed: 1, Sum: 8 * time.Millisecond, Max: 5 * time.Millisecond}
	test.ExpectEquality(t, s.Average(), 2*time.Millisecond)
	test.ExpectEquality(t, s.MissedPercent(), 25.0)
}

func TestMissedTick(t *testing.T) {
	const budget = 20 * time.Millisecond

	cfg, disp := cells()
	p := &slowPanel{
		Capture: &panel.Capture{},
		slow:    map[int]time.Duration{3: budget * 3},
	}

	loop := render.NewLoop(render.Config{
		TickBudget:     budget,
		ReportInterval: time.Hour,
		Geometry:       transit.DefaultGeometry,
	}, glyphs.LoadDefault, p, cfg, disp)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	test.DemandSuccess(t, loop.Start(ctx))
	test.ExpectEquality(t, loop.State(), render.Running)

	waitFor(t, "frames", func() bool { return p.Presents() >= 8 })
	cancel()
	test.DemandSuccess(t, loop.Wait())

	stats := loop.Stats()
	test.ExpectEquality(t, stats.Missed, 1)
	test.ExpectEquality(t, stats.Frames, p.Presents())

	// the tick after the slow tick is not followed by a burst of ticks to
	// make up for lost time
	times := p.presentedAt()
	for i := 4; i < len(times)-1; i++ {
		gap := times[i].Sub(times[i-1])
		test.ExpectEquality(t, gap > budget/2, true, i)
	}
}

func TestCancellation(t *testing.T) {
	cfg, disp := cells()
	c := &panel.Capture{}

	var crit sync.Mutex
	var notices []notifications.Notice

	loop := render.NewLoop(render.Config{
		FPS:      100,
		Geometry: transit.DefaultGeometry,
	}, glyphs.LoadDefault, c, cfg, disp)
	loop.SetNotify(notifications.NotifyFunc(func(n notifications.Notice) error {
		crit.Lock()
		defer crit.Unlock()
		notices = append(notices, n)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	test.DemandSuccess(t, loop.Start(ctx))
	waitFor(t, "frames", func() bool { return c.Presents() >= 3 })

	n := c.Presents()
	cancel()
	test.ExpectSuccess(t, loop.Wait())

	test.ExpectEquality(t, loop.State(), render.Stopped)
	test.ExpectEquality(t, c.Presents() <= n+1, true)
	test.ExpectEquality(t, c.Closes(), 1)

	// the panel is only ever driven by the render goroutine
	test.ExpectSuccess(t, c.OneGoroutine())

	// waiting again is fine
	test.ExpectSuccess(t, loop.Wait())
	test.ExpectEquality(t, c.Closes(), 1)

	crit.Lock()
	defer crit.Unlock()
	test.DemandEquality(t, len(notices) >= 2, true)
	test.ExpectEquality(t, notices[0], notifications.NotifyRunning)
	test.ExpectEquality(t, notices[len(notices)-1], notifications.NotifyStopped)
}

func TestFontFailure(t *testing.T) {
	cfg, disp := cells()
	c := &panel.Capture{}

	loop := render.NewLoop(render.Config{Geometry: transit.DefaultGeometry},
		func() (*glyphs.Store, error) {
			return nil, curated.Errorf(glyphs.LoadError, "corrupt font")
		}, c, cfg, disp)

	err := loop.Start(context.Background())
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, render.FontError), true)
	test.ExpectEquality(t, curated.Has(err, glyphs.LoadError), true)
	test.ExpectEquality(t, loop.State(), render.Stopped)

	// the panel was never touched
	test.ExpectEquality(t, c.Presents(), 0)
	test.ExpectEquality(t, c.Closes(), 0)

	test.ExpectEquality(t, loop.Wait().Error(), err.Error())
}

func TestPanelFailure(t *testing.T) {
	cfg, disp := cells()
	c := &panel.Capture{OpenErr: errors.New("no matrix")}

	loop := render.NewLoop(render.Config{Geometry: transit.DefaultGeometry}, glyphs.LoadDefault, c, cfg, disp)
	err := loop.Run(context.Background())
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, render.PanelError), true)
	test.ExpectEquality(t, curated.Has(err, panel.OpenError), true)
	test.ExpectEquality(t, c.Closes(), 0)

	// a loop only runs once
	err = loop.Run(context.Background())
	test.ExpectEquality(t, curated.Is(err, render.AlreadyStarted), true)
}

func TestBrightness(t *testing.T) {
	cfg, disp := cells()
	c := &panel.Capture{}

	loop := render.NewLoop(render.Config{
		TickBudget: time.Millisecond,
		Geometry:   transit.DefaultGeometry,
	}, glyphs.LoadDefault, c, cfg, disp)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	test.DemandSuccess(t, loop.Start(ctx))
	test.ExpectEquality(t, c.Brightness(), 50)

	next := *cfg.Current()
	next.Brightness = 0.8
	cfg.Publish(&next)
	waitFor(t, "brightness", func() bool { return c.Brightness() == 80 })

	// brightness is never zero
	next.Brightness = 0
	cfg.Publish(&next)
	waitFor(t, "brightness", func() bool { return c.Brightness() == 1 })

	cancel()
	test.ExpectSuccess(t, loop.Wait())
}

func TestReport(t *testing.T) {
	cfg, disp := cells()
	c := &panel.Capture{}

	loop := render.NewLoop(render.Config{
		TickBudget:     2 * time.Millisecond,
		ReportInterval: 50 * time.Millisecond,
		Geometry:       transit.DefaultGeometry,
	}, glyphs.LoadDefault, c, cfg, disp)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	test.DemandSuccess(t, loop.Start(ctx))

	waitFor(t, "report", func() bool { return loop.Stats().Frames > 0 })
	s := loop.Stats()
	test.ExpectEquality(t, s.Window >= 50*time.Millisecond, true)
	test.ExpectEquality(t, s.Rate > 0, true)

	// the rate measured by the limiter agrees with the frames counted
	test.ExpectApproximate(t, s.Rate, float64(s.Frames)/s.Window.Seconds(), 0.001)
	test.ExpectEquality(t, s.Arrivals, 2)
	test.ExpectEquality(t, s.Alerts, 1)

	cancel()
	test.ExpectSuccess(t, loop.Wait())
}
