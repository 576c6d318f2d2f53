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

package transit

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Direction of travel for an arrival.
type Direction int

// List of valid Direction values.
const (
	Uptown Direction = iota
	Downtown
)

func (d Direction) String() string {
	switch d {
	case Uptown:
		return "Uptown"
	case Downtown:
		return "Downtown"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// DirectionFromStop returns the direction for a stop ID. Stop IDs end with N
// for northbound (uptown) platforms and S for southbound (downtown)
// platforms.
func DirectionFromStop(stopID string) (Direction, bool) {
	switch {
	case strings.HasSuffix(stopID, "N"):
		return Uptown, true
	case strings.HasSuffix(stopID, "S"):
		return Downtown, true
	}
	return Uptown, false
}

// MarshalText implements the encoding.TextMarshaler interface.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface. Accepts
// "Uptown", "Downtown", "N" and "S" in any case.
func (d *Direction) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "uptown", "n", "north", "northbound":
		*d = Uptown
	case "downtown", "s", "south", "southbound":
		*d = Downtown
	default:
		return fmt.Errorf("unrecognised direction: %q", string(b))
	}
	return nil
}

// Arrival is a single train arriving at the configured station.
type Arrival struct {
	Route       string    `json:"route"`
	Destination string    `json:"destination"`
	Minutes     int       `json:"minutes"`
	Direction   Direction `json:"direction"`
	Express     bool      `json:"express"`
	StopID      string    `json:"stop_id"`
}

// Arriving is true if the train is arriving now.
func (a Arrival) Arriving() bool {
	return a.Minutes == 0
}

// Countdown returns the text to show for the minutes until arrival.
func (a Arrival) Countdown() string {
	switch {
	case a.Minutes <= 0:
		return "Now"
	case a.Minutes >= 999:
		return "---min"
	}
	return fmt.Sprintf("%dmin", a.Minutes)
}

func (a Arrival) String() string {
	return fmt.Sprintf("%s to %s (%s) in %s", a.Route, a.Destination, a.Direction, a.Countdown())
}

// Alert is a service alert message.
type Alert struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Routes   []string `json:"routes"`
	Priority int      `json:"priority"`
}

// number of characters of alert text used as a key when there is no ID
const keyLength = 100

// Key identifies the alert for cooldown tracking. The ID is used if there is
// one, otherwise the first 100 characters of the text. The key is a slice
// of the ID or text and never allocates.
func (a Alert) Key() string {
	if a.ID != "" {
		return a.ID
	}
	n := 0
	for i := range a.Text {
		if n == keyLength {
			return a.Text[:i]
		}
		n++
	}
	return a.Text
}

// Affects is true if the alert affects the route. An alert with no routes
// affects every route.
func (a Alert) Affects(route string) bool {
	return len(a.Routes) == 0 || slices.Contains(a.Routes, route)
}

// DisplaySnapshot is everything the sign needs to know about the trains and
// alerts at a point in time.
type DisplaySnapshot struct {
	Arrivals  []Arrival `json:"arrivals"`
	Alerts    []Alert   `json:"alerts"`
	FetchedAt time.Time `json:"fetched_at"`
	FetchID   uuid.UUID `json:"fetch_id"`
}

// Empty is true if there are no arrivals and no alerts.
func (d *DisplaySnapshot) Empty() bool {
	return d == nil || (len(d.Arrivals) == 0 && len(d.Alerts) == 0)
}

// First returns the next arriving train in any direction.
func (d *DisplaySnapshot) First() (Arrival, bool) {
	if d == nil || len(d.Arrivals) == 0 {
		return Arrival{}, false
	}
	return d.Arrivals[0], true
}

// Filter returns up to max arrivals whose route is in the routes list. An
// empty routes list matches everything. A max of zero or less means no limit.
// The returned slice is newly allocated.
func (d *DisplaySnapshot) Filter(routes []string, max int) []Arrival {
	if d == nil {
		return nil
	}
	var f []Arrival
	for _, a := range d.Arrivals {
		if len(routes) > 0 && !slices.Contains(routes, a.Route) {
			continue
		}
		f = append(f, a)
		if max > 0 && len(f) >= max {
			break
		}
	}
	return f
}
