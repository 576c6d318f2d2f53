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

package performance

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/feed"
	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/glyphs"
	"github.com/subwaysign/subwaysign/panel"
	"github.com/subwaysign/subwaysign/render"
	"github.com/subwaysign/subwaysign/statecell"
	"github.com/subwaysign/subwaysign/transit"
	"golang.org/x/sync/errgroup"
)

// CheckError is the error pattern for failures during Check().
const CheckError = "performance: %v"

// leadTime allows the tick rate to settle before measuring.
const leadTime = 2 * time.Second

// counter is a null panel that counts the frames presented to it.
type counter struct {
	panel.Null
	frames atomic.Int64
}

func (c *counter) Present(buf *framebuffer.Buffer) error {
	c.frames.Add(1)
	return nil
}

// CheckConfig for the Check() function.
type CheckConfig struct {
	// target tick rate
	FPS int

	// mock feed scenario. see feed.Scenarios
	Scenario string

	Geometry transit.Geometry

	// profiles to generate and the filename prefix for them
	Profile Profile
	Prefix  string
}

// Check is a very rough and ready calculation of the render loop's
// performance. The loop runs headless with a mock feed for the duration,
// after a short lead time, and the result is written to output.
func Check(output io.Writer, cfg CheckConfig, duration time.Duration) error {
	if duration <= 0 {
		return curated.Errorf(CheckError, "duration must be positive")
	}
	if cfg.FPS <= 0 {
		cfg.FPS = render.DefaultFPS
	}
	if cfg.Scenario == "" {
		cfg.Scenario = "normal"
	}
	if cfg.Geometry == (transit.Geometry{}) {
		cfg.Geometry = transit.DefaultGeometry
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "performance"
	}
	if _, ok := feed.Scenarios[cfg.Scenario]; !ok {
		return curated.Errorf(CheckError, fmt.Sprintf("unknown scenario %q", cfg.Scenario))
	}

	config := statecell.New(&transit.ConfigSnapshot{
		Routes:     []string{"1", "2", "3", "A", "C", "E"},
		Brightness: 1.0,
		MaxTrains:  6,
		ShowAlerts: true,
		Geometry:   cfg.Geometry,
		Refresh:    transit.Refresh{Trains: time.Second, Alerts: 2 * time.Second},
	})
	display := statecell.New(&transit.DisplaySnapshot{})

	pnl := &counter{}
	loop := render.NewLoop(render.Config{
		FPS:            cfg.FPS,
		Geometry:       cfg.Geometry,
		ReportInterval: leadTime + duration + time.Minute,
	}, glyphs.LoadDefault, pnl, config, display)

	poller := feed.NewPoller(feed.NewMock(cfg.Scenario, uint64(time.Now().UnixNano())), config, display)

	var frames int64
	var elapsed time.Duration

	err := RunProfiler(cfg.Profile, cfg.Prefix, func() error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return poller.Run(gctx)
		})

		if err := loop.Start(gctx); err != nil {
			cancel()
			_ = g.Wait()
			return err
		}

		// measure after the lead time has elapsed
		select {
		case <-time.After(leadTime):
		case <-loop.Done():
		}
		startFrames := pnl.frames.Load()
		startTime := time.Now()

		select {
		case <-time.After(duration):
		case <-loop.Done():
		}
		frames = pnl.frames.Load() - startFrames
		elapsed = time.Since(startTime)

		cancel()
		err := loop.Wait()
		if gerr := g.Wait(); err == nil {
			err = gerr
		}
		return err
	})
	if err != nil {
		return curated.Errorf(CheckError, err)
	}

	fps, accuracy := CalcFPS(int(frames), elapsed.Seconds(), cfg.FPS)
	stats := loop.Stats()
	fmt.Fprintf(output, "%.2f fps (%d frames in %.2f seconds) %.1f%%\n", fps, frames, elapsed.Seconds(), accuracy)
	fmt.Fprintf(output, "missed ticks: %d/%d (%.1f%%) | tick: avg %.2fms, max %.2fms\n",
		stats.Missed, stats.Frames, stats.MissedPercent(),
		float64(stats.Average().Microseconds())/1000, float64(stats.Max.Microseconds())/1000)

	return nil
}
