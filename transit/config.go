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
	"sort"
	"strings"
	"time"
)

// Geometry of the chained panel array. Panels are chained horizontally.
type Geometry struct {
	ChainLength int `json:"chain_length" yaml:"chain_length" toml:"chain_length"`
	PanelWidth  int `json:"panel_width" yaml:"panel_width" toml:"panel_width"`
	PanelHeight int `json:"panel_height" yaml:"panel_height" toml:"panel_height"`
}

// DefaultGeometry is three 64x32 panels making a 192x32 display.
var DefaultGeometry = Geometry{ChainLength: 3, PanelWidth: 64, PanelHeight: 32}

// Width of the whole display in pixels.
func (g Geometry) Width() int {
	return g.ChainLength * g.PanelWidth
}

// Height of the whole display in pixels.
func (g Geometry) Height() int {
	return g.PanelHeight
}

// Valid returns an error if any dimension is not positive.
func (g Geometry) Valid() error {
	if g.ChainLength < 1 || g.PanelWidth < 1 || g.PanelHeight < 1 {
		return fmt.Errorf("invalid panel geometry %s", g)
	}
	return nil
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%dx%d", g.ChainLength, g.PanelWidth, g.PanelHeight)
}

// StopPair is an uptown and downtown platform at the same station.
type StopPair struct {
	Uptown   string `json:"uptown" yaml:"uptown" toml:"uptown"`
	Downtown string `json:"downtown" yaml:"downtown" toml:"downtown"`
}

// StopsToPairs groups stop IDs by their base ID and pairs the N and S
// platforms. Stops without a partner are ignored. The result is sorted by
// uptown stop ID.
func StopsToPairs(stopIDs []string) []StopPair {
	platforms := make(map[string]*StopPair)
	for _, id := range stopIDs {
		if len(id) < 2 {
			continue
		}
		base := id[:len(id)-1]
		p, ok := platforms[base]
		if !ok {
			p = &StopPair{}
			platforms[base] = p
		}
		switch id[len(id)-1] {
		case 'N':
			p.Uptown = id
		case 'S':
			p.Downtown = id
		}
	}

	var pairs []StopPair
	for _, p := range platforms {
		if p.Uptown != "" && p.Downtown != "" {
			pairs = append(pairs, *p)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Uptown < pairs[j].Uptown
	})
	return pairs
}

// StationSelection is the station the sign shows arrivals for.
type StationSelection struct {
	Name  string     `json:"name,omitempty"`
	Stops []StopPair `json:"stops"`
}

// Refresh intervals for the feed producers.
type Refresh struct {
	Trains time.Duration `json:"trains"`
	Alerts time.Duration `json:"alerts"`
}

// DefaultRefresh intervals.
var DefaultRefresh = Refresh{Trains: 20 * time.Second, Alerts: 60 * time.Second}

// ConfigSnapshot is a complete, validated sign configuration.
type ConfigSnapshot struct {
	Station    StationSelection `json:"station"`
	Routes     []string         `json:"routes"`
	Brightness float64          `json:"brightness"`
	MaxTrains  int              `json:"max_trains"`
	ShowAlerts bool             `json:"show_alerts"`
	Geometry   Geometry         `json:"geometry"`
	Refresh    Refresh          `json:"refresh"`
}

// BrightnessPercent returns the brightness as a percentage clamped to 1-100.
// A panel is never fully dark while the sign is running.
func (c *ConfigSnapshot) BrightnessPercent() int {
	p := int(c.Brightness*100 + 0.5)
	return min(max(p, 1), 100)
}

// StopIDs returns every stop ID in the station selection.
func (c *ConfigSnapshot) StopIDs() []string {
	ids := make([]string, 0, len(c.Station.Stops)*2)
	for _, s := range c.Station.Stops {
		ids = append(ids, s.Uptown, s.Downtown)
	}
	return ids
}

func (c *ConfigSnapshot) String() string {
	return fmt.Sprintf("station=%q stops=%d routes=%s brightness=%.2f max_trains=%d alerts=%v geometry=%s",
		c.Station.Name, len(c.Station.Stops), strings.Join(c.Routes, ","),
		c.Brightness, c.MaxTrains, c.ShowAlerts, c.Geometry)
}
