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

package feed

import (
	"context"

	"github.com/subwaysign/subwaysign/transit"
)

// Error patterns for feed sources.
const (
	FetchError  = "feed: %s: %v"
	InBackoff   = "feed: %s: backing off until %s"
	BadDocument = "feed: %s: bad document: %v"
)

// Source of arrival and alert data. Implementations must be safe to call from
// more than one goroutine.
type Source interface {
	// Arrivals returns trains arriving at the configured station.
	Arrivals(ctx context.Context, cfg *transit.ConfigSnapshot) ([]transit.Arrival, error)

	// Alerts returns service alerts for the configured routes. The alerts
	// are not prioritised.
	Alerts(ctx context.Context, cfg *transit.ConfigSnapshot) ([]transit.Alert, error)
}

// dedupe removes arrivals with the same route, destination and minutes as an
// earlier arrival. Feeds often report the same train from more than one
// platform.
func dedupe(in []transit.Arrival) []transit.Arrival {
	type key struct {
		route, dest string
		minutes     int
	}
	seen := make(map[key]bool, len(in))
	out := in[:0]
	for _, a := range in {
		k := key{a.Route, a.Destination, a.Minutes}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}
