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

package composer

import (
	"slices"
	"time"

	"github.com/subwaysign/subwaysign/alerts"
	"github.com/subwaysign/subwaysign/transit"
)

// Ticker is the part of the Composer the State needs to know when an alert
// has finished scrolling.
type Ticker interface {
	ScrollDistance(a transit.Alert) int
}

// State is the animation state of the sign. It is advanced once per tick by
// Update() and read by Compose().
type State struct {
	ticker Ticker

	started bool

	// the snapshots the state was last updated with
	cfg     *transit.ConfigSnapshot
	version uint64

	// arrivals after route filtering. replaced only when the snapshot or
	// configuration changes
	arrivals []transit.Arrival

	// row cycling
	cycleIndex int
	lastCycle  time.Time

	// countdown flashing for arriving trains
	flash     bool
	lastFlash time.Time

	// alert ticker
	cycle       *alerts.Cycle
	active      bool
	alert       transit.Alert
	scroll      int
	triggeredBy transit.Arrival
	cycleStart  time.Time
}

// NewState creates the animation state. The ticker is used to find the
// scroll distance of an alert and is normally the Composer.
func NewState(ticker Ticker) *State {
	return &State{
		ticker: ticker,
		cycle:  alerts.NewCycle(alerts.Cooldown),
	}
}

// Arrivals returns the filtered arrivals being shown. The slice must not be
// modified.
func (st *State) Arrivals() []transit.Arrival {
	return st.arrivals
}

// Flash is true when the countdown of arriving trains is hidden.
func (st *State) Flash() bool {
	return st.flash
}

// CycleIndex is the position of the row cycle.
func (st *State) CycleIndex() int {
	return st.cycleIndex
}

// ScrollOffset is the number of pixels the ticker has scrolled.
func (st *State) ScrollOffset() int {
	return st.scroll
}

// AlertActive is true while the ticker is showing.
func (st *State) AlertActive() bool {
	return st.active
}

// CurrentAlert is the alert being shown by the ticker.
func (st *State) CurrentAlert() (transit.Alert, bool) {
	return st.alert, st.active
}

// slot returns the index into the cycling arrivals for a lower row. Returns
// false if the row should be blank.
func (st *State) slot(row int, rows int, n int) (int, bool) {
	if n <= 0 {
		return 0, false
	}
	if n <= rows {
		return row, row < n
	}
	return (st.cycleIndex + row) % n, true
}

// Update advances the animation to now. The version is the version of the
// display snapshot in its statecell and is used to detect new data.
func (st *State) Update(now time.Time, cfg *transit.ConfigSnapshot, disp *transit.DisplaySnapshot, version uint64) {
	if !st.started {
		st.started = true
		st.lastCycle = now
		st.lastFlash = now
		st.cycleStart = now
		st.version = version + 1
	}

	if cfg != st.cfg || version != st.version {
		st.sync(now, cfg, disp)
		st.cfg = cfg
		st.version = version
	}

	if now.Sub(st.lastCycle) >= CycleInterval {
		st.lastCycle = now
		if n := len(st.arrivals) - 1; n > 0 {
			st.cycleIndex = (st.cycleIndex + 1) % n
		} else {
			st.cycleIndex = 0
		}
	}

	if now.Sub(st.lastFlash) >= FlashInterval {
		st.lastFlash = now
		st.flash = !st.flash
	}

	st.updateAlert(now, cfg)
	st.cycle.Cleanup(now)
}

// sync brings the state up to date with new snapshots.
func (st *State) sync(now time.Time, cfg *transit.ConfigSnapshot, disp *transit.DisplaySnapshot) {
	var arrivals []transit.Arrival
	if cfg != nil {
		arrivals = disp.Filter(cfg.Routes, cfg.MaxTrains)
	} else {
		arrivals = disp.Filter(nil, 0)
	}

	if !slices.Equal(arrivals, st.arrivals) {
		st.cycleIndex = 0
		st.lastCycle = now
	}
	st.arrivals = arrivals

	var queue []transit.Alert
	if disp != nil {
		queue = disp.Alerts
	}
	st.cycle.Sync(queue)

	if !st.active {
		return
	}

	// the alert being shown has been updated or withdrawn
	for _, a := range queue {
		if a.Key() == st.alert.Key() {
			if a.Text != st.alert.Text {
				st.alert = a
				st.scroll = 0
			}
			return
		}
	}

	if a, ok := st.cycle.Next(now); ok {
		st.alert = a
		st.scroll = 0
		return
	}
	st.clearAlert()
}

func (st *State) clearAlert() {
	st.active = false
	st.alert = transit.Alert{}
	st.scroll = 0
	st.triggeredBy = transit.Arrival{}
}

// arrivingNow returns the first arrival if it is arriving.
func (st *State) arrivingNow() (transit.Arrival, bool) {
	if len(st.arrivals) == 0 || !st.arrivals[0].Arriving() {
		return transit.Arrival{}, false
	}
	return st.arrivals[0], true
}

// departed is true if the train that started the ticker is no longer
// arriving.
func (st *State) departed() bool {
	for _, a := range st.arrivals {
		if a.Arriving() && a.Route == st.triggeredBy.Route && a.Destination == st.triggeredBy.Destination {
			return false
		}
	}
	return true
}

func (st *State) updateAlert(now time.Time, cfg *transit.ConfigSnapshot) {
	if cfg == nil || !cfg.ShowAlerts {
		if st.active {
			st.clearAlert()
		}
		return
	}

	first, arriving := st.arrivingNow()
	if !arriving && !st.active {
		return
	}

	departed := st.active && st.departed()

	// the ticker only starts when a train arrives
	if arriving && !st.active && st.cycle.HasFor(first.Route, now) {
		st.cycle.Reset()
		if a, ok := st.cycle.NextFor(first.Route, now); ok {
			st.active = true
			st.alert = a
			st.scroll = 0
			st.triggeredBy = first
			st.cycleStart = now
		}
	}

	if !st.active {
		return
	}

	if now.Sub(st.cycleStart) > MaxAlertCycle {
		st.clearAlert()
		return
	}

	st.scroll++
	if st.ticker == nil || st.scroll < st.ticker.ScrollDistance(st.alert) {
		return
	}

	st.cycle.MarkDisplayed(st.alert, now)

	var next transit.Alert
	var ok bool
	switch {
	case departed && arriving && st.cycle.HasFor(first.Route, now):
		// a different train has arrived. start a new cycle for it
		st.cycle.Reset()
		next, ok = st.cycle.NextFor(first.Route, now)
	case !departed && !st.cycle.AllShown():
		next, ok = st.cycle.Next(now)
	}

	if !ok {
		st.clearAlert()
		return
	}

	st.alert = next
	st.scroll = 0
	if departed {
		st.triggeredBy = first
		st.cycleStart = now
	}
}
