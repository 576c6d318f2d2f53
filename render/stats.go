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
	"fmt"
	"time"

	"github.com/subwaysign/subwaysign/render/limiter"
	"github.com/subwaysign/subwaysign/transit"
)

// State of the render loop.
type State int32

// List of valid State values.
const (
	Starting State = iota
	Running
	Draining
	Stopped
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("unknown state (%d)", int32(s))
}

// Stats for a window of ticks.
type Stats struct {
	// number of ticks and the number that went over budget
	Frames int `json:"frames"`
	Missed int `json:"missed"`

	// total and maximum time spent on ticks, not including sleep
	Sum time.Duration `json:"sum"`
	Max time.Duration `json:"max"`

	// length of the window in wall-clock time and the achieved tick rate
	// over that window
	Window time.Duration `json:"window"`
	Rate   float64       `json:"rate"`

	// contents of the display snapshot at the end of the window
	Arrivals int `json:"arrivals"`
	Alerts   int `json:"alerts"`

	// number of frames the panel failed to present
	PresentErrors int `json:"present_errors"`

	End time.Time `json:"end"`
}

// Average time spent on a tick.
func (s Stats) Average() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.Sum / time.Duration(s.Frames)
}

// MissedPercent is the percentage of ticks that were over budget.
func (s Stats) MissedPercent() float64 {
	if s.Frames == 0 {
		return 0
	}
	return float64(s.Missed) / float64(s.Frames) * 100
}

func (s Stats) String() string {
	return fmt.Sprintf("rate: %.1f | missed: %d/%d (%.1f%%) | tick: avg %.2fms, max %.2fms | arrivals: %d | alerts: %d",
		s.Rate, s.Missed, s.Frames, s.MissedPercent(),
		float64(s.Average().Microseconds())/1000, float64(s.Max.Microseconds())/1000,
		s.Arrivals, s.Alerts)
}

// window accumulates Stats during a reporting window. The limiter measures
// the length of the window and the achieved rate.
type window struct {
	Stats
	lim *limiter.Limiter
}

func (w *window) reset(now time.Time) {
	w.Stats = Stats{}
	w.lim.Reset(now)
}

func (w *window) tick(elapsed time.Duration, missed bool) {
	w.Frames++
	w.Sum += elapsed
	w.Max = max(w.Max, elapsed)
	if missed {
		w.Missed++
	}
}

// snapshot completes the stats as of now.
func (w *window) snapshot(now time.Time, disp *transit.DisplaySnapshot) Stats {
	s := w.Stats
	s.Window = w.lim.Window(now)
	s.Rate = w.lim.Measured(now)
	if disp != nil {
		s.Arrivals = len(disp.Arrivals)
		s.Alerts = len(disp.Alerts)
	}
	s.End = now
	return s
}
