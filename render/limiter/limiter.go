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

// Package limiter enforces a fixed tick rate. Unlike a ticker, the limiter
// never tries to catch up on a late tick. A tick that takes longer than its
// budget is reported as missed and the next tick starts immediately.
//
//	lim := limiter.NewLimiter(60)
//	for {
//		start := lim.Begin()
//		renderImage()
//		elapsed, missed := lim.End(start)
//	}
//
// Achieved rate is measured over a window that the caller resets.
package limiter

import (
	"time"
)

// Limiter paces a loop to a fixed number of ticks per second.
type Limiter struct {
	ticksPerSecond int
	budget         time.Duration

	// the sleep function. replaced in tests
	sleep func(time.Duration)

	// achieved rate measurement
	windowStart time.Time
	ticks       int
}

// NewLimiter is the preferred method of initialisation for the Limiter type.
func NewLimiter(ticksPerSecond int) *Limiter {
	lim := &Limiter{
		sleep: time.Sleep,
	}
	lim.SetLimit(ticksPerSecond)
	lim.Reset(time.Now())
	return lim
}

// SetLimit changes the number of ticks per second. Values less than one are
// treated as one.
func (lim *Limiter) SetLimit(ticksPerSecond int) {
	lim.ticksPerSecond = max(ticksPerSecond, 1)
	lim.budget = time.Second / time.Duration(lim.ticksPerSecond)
}

// SetBudget changes the time allowed for each tick directly.
func (lim *Limiter) SetBudget(budget time.Duration) {
	lim.budget = max(budget, time.Nanosecond)
	lim.ticksPerSecond = max(int(time.Second/lim.budget), 1)
}

// Limit returns the number of ticks per second.
func (lim *Limiter) Limit() int {
	return lim.ticksPerSecond
}

// Budget returns the time allowed for each tick.
func (lim *Limiter) Budget() time.Duration {
	return lim.budget
}

// Begin marks the start of a tick.
func (lim *Limiter) Begin() time.Time {
	return time.Now()
}

// End marks the end of the tick that began at start. If the tick finished
// within budget the remaining budget is slept. The elapsed time is the time
// spent on the tick not including the sleep. Missed is true if the tick was
// over budget.
func (lim *Limiter) End(start time.Time) (elapsed time.Duration, missed bool) {
	elapsed = time.Since(start)
	lim.ticks++
	if elapsed > lim.budget {
		return elapsed, true
	}
	lim.sleep(lim.budget - elapsed)
	return elapsed, false
}

// Measured returns the achieved ticks per second since the last Reset(), as
// of now.
func (lim *Limiter) Measured(now time.Time) float64 {
	d := now.Sub(lim.windowStart)
	if d <= 0 {
		return 0
	}
	return float64(lim.ticks) / d.Seconds()
}

// Window returns the time since the last Reset().
func (lim *Limiter) Window(now time.Time) time.Duration {
	return now.Sub(lim.windowStart)
}

// Reset starts a new measurement window.
func (lim *Limiter) Reset(now time.Time) {
	lim.windowStart = now
	lim.ticks = 0
}
