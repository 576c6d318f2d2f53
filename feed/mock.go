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
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/subwaysign/subwaysign/transit"
)

// Scenario controls the data generated by the Mock source.
type Scenario struct {
	Name string

	// number of trains kept in the schedule
	Trains int

	// range of minutes for new trains. the first train is always at MinMinutes
	MinMinutes int
	MaxMinutes int

	// number of trains arriving at the same time at the front of the schedule
	Concurrent int

	// probability that a call to Alerts() generates a new set of alerts and
	// the number of alerts generated
	AlertProbability float64
	MaxAlerts        int
}

// Scenarios available to the Mock source.
var Scenarios = map[string]Scenario{
	"normal":              {Name: "normal", Trains: 6, MinMinutes: 1, MaxMinutes: 20, AlertProbability: 0.3, MaxAlerts: 2},
	"rush_hour":           {Name: "rush_hour", Trains: 12, MinMinutes: 0, MaxMinutes: 15, Concurrent: 2, AlertProbability: 0.5, MaxAlerts: 4},
	"concurrent_arrivals": {Name: "concurrent_arrivals", Trains: 8, MinMinutes: 0, MaxMinutes: 10, Concurrent: 4, AlertProbability: 0.2, MaxAlerts: 2},
	"alert_storm":         {Name: "alert_storm", Trains: 6, MinMinutes: 0, MaxMinutes: 12, AlertProbability: 1.0, MaxAlerts: 8},
	"rapid_state_change":  {Name: "rapid_state_change", Trains: 10, MinMinutes: 0, MaxMinutes: 5, AlertProbability: 0.3, MaxAlerts: 2},
}

var destinations = map[string][2]string{
	"1": {"Van Cortlandt Park-242 St", "South Ferry"},
	"2": {"Wakefield-241 St", "Flatbush Av-Brooklyn College"},
	"3": {"Harlem-148 St", "New Lots Av"},
	"4": {"Woodlawn", "Crown Hts-Utica Av"},
	"5": {"Eastchester-Dyre Av", "Flatbush Av-Brooklyn College"},
	"6": {"Pelham Bay Park", "Brooklyn Bridge-City Hall"},
	"7": {"Flushing-Main St", "34 St-Hudson Yards"},
	"A": {"Inwood-207 St", "Far Rockaway"},
	"C": {"168 St", "Euclid Av"},
	"E": {"Jamaica Center", "World Trade Center"},
	"B": {"Bedford Park Blvd", "Brighton Beach"},
	"D": {"Norwood-205 St", "Coney Island-Stillwell Av"},
	"F": {"Jamaica-179 St", "Coney Island-Stillwell Av"},
	"M": {"Forest Hills-71 Av", "Middle Village-Metropolitan Av"},
	"G": {"Court Sq", "Church Av"},
	"J": {"Jamaica Center", "Broad St"},
	"Z": {"Jamaica Center", "Broad St"},
	"L": {"8 Av", "Canarsie-Rockaway Pkwy"},
	"N": {"Astoria-Ditmars Blvd", "Coney Island-Stillwell Av"},
	"Q": {"96 St", "Coney Island-Stillwell Av"},
	"R": {"Forest Hills-71 Av", "Bay Ridge-95 St"},
	"W": {"Astoria-Ditmars Blvd", "Whitehall St-South Ferry"},
	"S": {"Times Sq-42 St", "Grand Central-42 St"},
}

var alertTemplates = []struct {
	text     string
	priority int
}{
	{"[%[1]s] Delays: Signal problems at %[2]s", 1},
	{"[%[1]s] Service change: No [%[1]s] trains between %[2]s and %[3]s", 2},
	{"[%[1]s] Local service only in both directions", 2},
	{"[%[1]s] Expect 15-20 minute delays due to an earlier incident", 1},
	{"[%[1]s] Planned work: Service suspended %[2]s to %[3]s", 1},
	{"Good service on the [%[1]s]", 3},
	{"[%[1]s] Trains running every 10 minutes", 2},
	{"[%[1]s] Some trains are running express", 2},
}

var stations = []string{
	"Times Sq-42 St", "34 St-Herald Sq", "14 St-Union Sq", "Grand Central",
	"Penn Station", "Chambers St", "Fulton St", "Brooklyn Bridge",
	"Atlantic Av-Barclays Ctr", "Jay St-MetroTech", "Court Sq", "125 St",
}

type mockTrain struct {
	arrival transit.Arrival
	at      time.Time
}

// Mock is a Source of synthetic data. Trains count down in real time, as
// measured by the Mock's clock, and departed trains are replaced. The output
// is deterministic for a given seed and clock.
type Mock struct {
	scenario Scenario

	crit   sync.Mutex
	rng    *rand.Rand
	now    func() time.Time
	trains []mockTrain
	alerts []transit.Alert
	nextID int
}

// NewMock creates a Mock source. An unknown scenario name uses the normal
// scenario.
func NewMock(scenario string, seed uint64) *Mock {
	s, ok := Scenarios[scenario]
	if !ok {
		s = Scenarios["normal"]
	}
	return &Mock{
		scenario: s,
		rng:      rand.New(rand.NewPCG(seed, seed^0x5eed)),
		now:      time.Now,
	}
}

// Scenario in use.
func (m *Mock) Scenario() Scenario {
	return m.scenario
}

// SetClock replaces the clock used to count trains down.
func (m *Mock) SetClock(now func() time.Time) {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.now = now
}

func mockRoutes(cfg *transit.ConfigSnapshot) []string {
	if cfg == nil || len(cfg.Routes) == 0 {
		return []string{"1"}
	}
	return cfg.Routes
}

func (m *Mock) newTrain(routes []string, stops []string, at time.Time) mockTrain {
	route := routes[m.rng.IntN(len(routes))]

	dir := transit.Uptown
	if m.rng.IntN(2) == 1 {
		dir = transit.Downtown
	}

	dest := "Unknown"
	if d, ok := destinations[route]; ok {
		dest = d[0]
		if dir == transit.Downtown {
			dest = d[1]
		}
	}

	stop := ""
	for _, s := range stops {
		if d, ok := transit.DirectionFromStop(s); ok && d == dir {
			stop = s
			break
		}
	}

	return mockTrain{
		arrival: transit.Arrival{
			Route:       route,
			Destination: dest,
			Direction:   dir,
			Express:     transit.ExpressCapable(route) && m.rng.Float64() < 0.3,
			StopID:      stop,
		},
		at: at,
	}
}

func (m *Mock) Arrivals(ctx context.Context, cfg *transit.ConfigSnapshot) ([]transit.Arrival, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	now := m.now()
	routes := mockRoutes(cfg)
	var stops []string
	if cfg != nil {
		stops = cfg.StopIDs()
	}

	// trains that have left or whose route is no longer configured are
	// removed from the schedule
	m.trains = slices.DeleteFunc(m.trains, func(t mockTrain) bool {
		return now.Sub(t.at) >= time.Minute || !slices.Contains(routes, t.arrival.Route)
	})

	if len(m.trains) == 0 {
		first := now.Add(time.Duration(m.scenario.MinMinutes) * time.Minute)
		for range max(m.scenario.Concurrent, 1) {
			m.trains = append(m.trains, m.newTrain(routes, stops, first))
		}
	}

	for len(m.trains) < m.scenario.Trains {
		last := m.trains[len(m.trains)-1].at
		gap := m.rng.IntN(max(m.scenario.MaxMinutes-m.scenario.MinMinutes, 1)) + 1
		at := last.Add(time.Duration(gap) * time.Minute)
		if at.Sub(now) > time.Duration(m.scenario.MaxMinutes)*time.Minute {
			at = now.Add(time.Duration(m.scenario.MaxMinutes) * time.Minute)
		}
		m.trains = append(m.trains, m.newTrain(routes, stops, at))
	}

	slices.SortStableFunc(m.trains, func(a, b mockTrain) int {
		return a.at.Compare(b.at)
	})

	out := make([]transit.Arrival, 0, len(m.trains))
	for _, t := range m.trains {
		a := t.arrival
		a.Minutes = max(int(t.at.Sub(now)/time.Minute), 0)
		out = append(out, a)
	}

	return dedupe(out), nil
}

func (m *Mock) Alerts(ctx context.Context, cfg *transit.ConfigSnapshot) ([]transit.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.crit.Lock()
	defer m.crit.Unlock()

	if m.alerts != nil && m.rng.Float64() >= m.scenario.AlertProbability {
		return slices.Clone(m.alerts), nil
	}

	routes := mockRoutes(cfg)
	n := m.rng.IntN(m.scenario.MaxAlerts + 1)
	m.alerts = make([]transit.Alert, 0, n)

	seen := make(map[string]bool)
	for range n {
		tmpl := alertTemplates[m.rng.IntN(len(alertTemplates))]
		route := routes[m.rng.IntN(len(routes))]
		s1 := stations[m.rng.IntN(len(stations))]
		s2 := stations[m.rng.IntN(len(stations))]

		text := fmt.Sprintf(tmpl.text, route, s1, s2)
		if seen[text] {
			continue
		}
		seen[text] = true

		affected := []string{route}
		if !strings.HasPrefix(text, "Good service") && m.rng.Float64() < 0.3 {
			affected = slices.Clone(routes[:min(3, len(routes))])
		}

		m.nextID++
		m.alerts = append(m.alerts, transit.Alert{
			ID:       fmt.Sprintf("mock:%d", m.nextID),
			Text:     text,
			Routes:   affected,
			Priority: tmpl.priority,
		})
	}

	return slices.Clone(m.alerts), nil
}
