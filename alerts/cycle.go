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

package alerts

import (
	"time"

	"github.com/subwaysign/subwaysign/transit"
)

// Cooldown is the default time an alert stays hidden after being shown.
const Cooldown = 300 * time.Second

// cleanupInterval is the minimum time between sweeps of expired cooldowns.
const cleanupInterval = 60 * time.Second

// Cycle tracks the alerts shown while a ticker cycle is running. An alert
// that has been shown is not shown again in the same cycle and not shown in
// any cycle until its cooldown has passed.
//
// A Cycle must only be used by one goroutine.
type Cycle struct {
	cooldown time.Duration

	queue []transit.Alert
	index int

	// key of alert to the time it was last shown
	shown map[string]time.Time

	// keys of alerts shown in the current cycle
	thisCycle map[string]bool

	lastCleanup time.Time
}

// NewCycle creates a Cycle with the given cooldown. A cooldown of zero or less
// uses the default.
func NewCycle(cooldown time.Duration) *Cycle {
	if cooldown <= 0 {
		cooldown = Cooldown
	}
	return &Cycle{
		cooldown:  cooldown,
		shown:     make(map[string]time.Time),
		thisCycle: make(map[string]bool),
	}
}

// Sync replaces the queue with the alerts from a new snapshot. The queue
// should already be prioritised. Cooldowns and the shown-this-cycle record
// survive the change.
func (c *Cycle) Sync(queue []transit.Alert) {
	c.queue = queue
	if c.index >= len(c.queue) {
		c.index = 0
	}
}

// Len returns the number of alerts in the queue.
func (c *Cycle) Len() int {
	return len(c.queue)
}

func (c *Cycle) cooling(a transit.Alert, now time.Time) bool {
	t, ok := c.shown[a.Key()]
	return ok && now.Sub(t) < c.cooldown
}

// Has returns true if any queued alert is not cooling down.
func (c *Cycle) Has(now time.Time) bool {
	for _, a := range c.queue {
		if !c.cooling(a, now) {
			return true
		}
	}
	return false
}

// HasFor is like Has() but only considers alerts affecting the route.
func (c *Cycle) HasFor(route string, now time.Time) bool {
	for _, a := range c.queue {
		if a.Affects(route) && !c.cooling(a, now) {
			return true
		}
	}
	return false
}

// Reset starts a new cycle.
func (c *Cycle) Reset() {
	clear(c.thisCycle)
	c.index = 0
}

// Next returns the next alert that has not been shown in this cycle and is
// not cooling down. Returns false if there is no such alert.
func (c *Cycle) Next(now time.Time) (transit.Alert, bool) {
	for range c.queue {
		a := c.queue[c.index]
		if !c.thisCycle[a.Key()] && !c.cooling(a, now) {
			return a, true
		}
		c.index = (c.index + 1) % len(c.queue)
	}
	return transit.Alert{}, false
}

// NextFor is like Next() but only considers alerts affecting the route. The
// cycle continues from the returned alert.
func (c *Cycle) NextFor(route string, now time.Time) (transit.Alert, bool) {
	for i, a := range c.queue {
		if a.Affects(route) && !c.thisCycle[a.Key()] && !c.cooling(a, now) {
			c.index = i
			return a, true
		}
	}
	return transit.Alert{}, false
}

// MarkDisplayed records that the alert has scrolled across the sign. The
// cooldown for the alert starts now.
func (c *Cycle) MarkDisplayed(a transit.Alert, now time.Time) {
	k := a.Key()
	c.shown[k] = now
	c.thisCycle[k] = true
	if len(c.queue) > 0 {
		c.index = (c.index + 1) % len(c.queue)
	}
}

// AllShown is true if every queued alert has been shown in this cycle. An
// empty queue counts as all shown.
func (c *Cycle) AllShown() bool {
	for _, a := range c.queue {
		if !c.thisCycle[a.Key()] {
			return false
		}
	}
	return true
}

// Cleanup forgets cooldowns older than twice the cooldown period. The sweep
// only happens if enough time has passed since the previous one so it is
// cheap to call every tick.
func (c *Cycle) Cleanup(now time.Time) {
	if now.Sub(c.lastCleanup) < cleanupInterval {
		return
	}
	c.lastCleanup = now
	for k, t := range c.shown {
		if now.Sub(t) >= c.cooldown*2 {
			delete(c.shown, k)
		}
	}
}

// Remembered returns the number of alerts with a cooldown record.
func (c *Cycle) Remembered() int {
	return len(c.shown)
}
