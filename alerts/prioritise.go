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
	"slices"

	"github.com/subwaysign/subwaysign/transit"
)

// MaxQueue is the maximum number of alerts kept after prioritisation.
const MaxQueue = 10

// LowestPriority is given to alerts with an unrecognised effect.
const LowestPriority = 10

// EffectPriority converts a GTFS-realtime alert effect to a priority. Lower
// values are more important. NO_SERVICE (1) is the most important and
// STOP_MOVED (9) the least of the known effects.
func EffectPriority(effect int) int {
	if effect >= 1 && effect <= 9 {
		return effect
	}
	return LowestPriority
}

// Prioritise returns the alerts that affect any of the routes, sorted by
// priority and capped at MaxQueue. An alert with no routes affects every
// route and an empty routes list keeps every alert. The sort is stable so
// alerts of equal priority stay in feed order. The input is not modified.
func Prioritise(in []transit.Alert, routes []string) []transit.Alert {
	out := make([]transit.Alert, 0, min(len(in), MaxQueue))
	for _, a := range in {
		if relevant(a, routes) {
			out = append(out, a)
		}
	}

	slices.SortStableFunc(out, func(a, b transit.Alert) int {
		return a.Priority - b.Priority
	})

	if len(out) > MaxQueue {
		out = out[:MaxQueue]
	}
	return out
}

func relevant(a transit.Alert, routes []string) bool {
	if len(routes) == 0 || len(a.Routes) == 0 {
		return true
	}
	for _, r := range routes {
		if a.Affects(r) {
			return true
		}
	}
	return false
}
