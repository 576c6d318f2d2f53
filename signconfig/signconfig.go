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

package signconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/transit"
	"gopkg.in/yaml.v3"
)

// Error patterns for the signconfig package.
const (
	ReadError       = "config: %v"
	ParseError      = "config: parse: %v"
	ValidationError = "config: invalid: %v"
	UnknownFormat   = "config: unrecognised file format: %s"
)

// Validation limits.
const (
	MinTrains = 1
	MaxTrains = 20
)

// Format of a configuration document.
type Format int

// List of valid Format values.
const (
	YAML Format = iota
	TOML
	JSON
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	case JSON:
		return "json"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromPath returns the Format for the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".json":
		return JSON, nil
	}
	return YAML, curated.Errorf(UnknownFormat, path)
}

// Document is the configuration file as written by the user.
type Document struct {
	Station StationSection `json:"station" yaml:"station" toml:"station"`
	Display DisplaySection `json:"display" yaml:"display" toml:"display"`
	Refresh RefreshSection `json:"refresh" yaml:"refresh,omitempty" toml:"refresh,omitempty"`
}

// StationSection describes the station and the routes to show.
type StationSection struct {
	Name     string             `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Routes   []string           `json:"routes" yaml:"routes" toml:"routes"`
	Stations []transit.StopPair `json:"stations,omitempty" yaml:"stations,omitempty" toml:"stations,omitempty"`
	Uptown   string             `json:"uptown_stop_id,omitempty" yaml:"uptown_stop_id,omitempty" toml:"uptown_stop_id,omitempty"`
	Downtown string             `json:"downtown_stop_id,omitempty" yaml:"downtown_stop_id,omitempty" toml:"downtown_stop_id,omitempty"`
	StopIDs  []string           `json:"stop_ids,omitempty" yaml:"stop_ids,omitempty" toml:"stop_ids,omitempty"`
}

// DisplaySection holds the display settings.
type DisplaySection struct {
	Brightness float64           `json:"brightness" yaml:"brightness" toml:"brightness"`
	MaxTrains  int               `json:"max_trains" yaml:"max_trains" toml:"max_trains"`
	ShowAlerts bool              `json:"show_alerts" yaml:"show_alerts" toml:"show_alerts"`
	Geometry   *transit.Geometry `json:"geometry,omitempty" yaml:"geometry,omitempty" toml:"geometry,omitempty"`
}

// RefreshSection holds the fetch intervals in seconds. A zero value means the
// default interval.
type RefreshSection struct {
	Trains int `json:"trains_interval,omitempty" yaml:"trains_interval,omitempty" toml:"trains_interval,omitempty"`
	Alerts int `json:"alerts_interval,omitempty" yaml:"alerts_interval,omitempty" toml:"alerts_interval,omitempty"`
}

// Parse decodes a document in the given format. Unknown fields are an error.
// The document is not validated.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document

	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, curated.Errorf(ParseError, err)
		}
	case TOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, curated.Errorf(ParseError, err)
		}
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, curated.Errorf(ParseError, err)
		}
	default:
		return nil, curated.Errorf(UnknownFormat, format)
	}

	return &doc, nil
}

// Snapshot validates the document and converts it to a ConfigSnapshot.
func (doc *Document) Snapshot() (*transit.ConfigSnapshot, error) {
	stops, err := doc.Station.stops()
	if err != nil {
		return nil, err
	}

	cfg := &transit.ConfigSnapshot{
		Station: transit.StationSelection{
			Name:  doc.Station.Name,
			Stops: stops,
		},
		Routes:     normaliseRoutes(doc.Station.Routes),
		Brightness: doc.Display.Brightness,
		MaxTrains:  doc.Display.MaxTrains,
		ShowAlerts: doc.Display.ShowAlerts,
		Geometry:   transit.DefaultGeometry,
		Refresh:    transit.DefaultRefresh,
	}

	if doc.Display.Geometry != nil {
		cfg.Geometry = *doc.Display.Geometry
	}
	if doc.Refresh.Trains > 0 {
		cfg.Refresh.Trains = time.Duration(doc.Refresh.Trains) * time.Second
	}
	if doc.Refresh.Alerts > 0 {
		cfg.Refresh.Alerts = time.Duration(doc.Refresh.Alerts) * time.Second
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// stops resolves the station section to a list of platform pairs. Explicit
// pairs take precedence over a single pair which takes precedence over a list
// of stop IDs.
func (s StationSection) stops() ([]transit.StopPair, error) {
	switch {
	case len(s.Stations) > 0:
		for _, p := range s.Stations {
			if p.Uptown == "" || p.Downtown == "" {
				return nil, curated.Errorf(ValidationError, "station pair is missing a platform")
			}
		}
		return slices.Clone(s.Stations), nil

	case s.Uptown != "" || s.Downtown != "":
		if s.Uptown == "" || s.Downtown == "" {
			return nil, curated.Errorf(ValidationError, "uptown_stop_id and downtown_stop_id must be given together")
		}
		return []transit.StopPair{{Uptown: s.Uptown, Downtown: s.Downtown}}, nil

	case len(s.StopIDs) > 0:
		pairs := transit.StopsToPairs(s.StopIDs)
		if len(pairs) == 0 {
			return nil, curated.Errorf(ValidationError, "stop_ids contain no uptown/downtown pairs")
		}
		return pairs, nil
	}

	return nil, curated.Errorf(ValidationError, "missing station configuration (stations, uptown_stop_id/downtown_stop_id or stop_ids)")
}

// normaliseRoutes trims and upper-cases route names and removes duplicates.
// Order is preserved.
func normaliseRoutes(routes []string) []string {
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Validate checks that the snapshot is within bounds.
func Validate(cfg *transit.ConfigSnapshot) error {
	if cfg.Brightness < 0.0 || cfg.Brightness > 1.0 {
		return curated.Errorf(ValidationError, fmt.Sprintf("brightness must be 0.0-1.0, got %v", cfg.Brightness))
	}
	if cfg.MaxTrains < MinTrains || cfg.MaxTrains > MaxTrains {
		return curated.Errorf(ValidationError, fmt.Sprintf("max_trains must be %d-%d, got %d", MinTrains, MaxTrains, cfg.MaxTrains))
	}
	if len(cfg.Routes) == 0 {
		return curated.Errorf(ValidationError, "routes cannot be empty")
	}
	if len(cfg.Station.Stops) == 0 {
		return curated.Errorf(ValidationError, "station stops cannot be empty")
	}
	if err := cfg.Geometry.Valid(); err != nil {
		return curated.Errorf(ValidationError, err)
	}
	return nil
}

// Decode parses and validates a document.
func Decode(data []byte, format Format) (*transit.ConfigSnapshot, error) {
	doc, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	return doc.Snapshot()
}

// Load reads and validates the configuration file. The format is chosen by
// the file extension.
func Load(path string) (*transit.ConfigSnapshot, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, curated.Errorf(ReadError, err)
	}
	return Decode(data, format)
}

// FromSnapshot converts a snapshot back to a document. Stops are written as
// explicit pairs.
func FromSnapshot(cfg *transit.ConfigSnapshot) *Document {
	geom := cfg.Geometry
	return &Document{
		Station: StationSection{
			Name:     cfg.Station.Name,
			Routes:   slices.Clone(cfg.Routes),
			Stations: slices.Clone(cfg.Station.Stops),
		},
		Display: DisplaySection{
			Brightness: cfg.Brightness,
			MaxTrains:  cfg.MaxTrains,
			ShowAlerts: cfg.ShowAlerts,
			Geometry:   &geom,
		},
		Refresh: RefreshSection{
			Trains: int(cfg.Refresh.Trains / time.Second),
			Alerts: int(cfg.Refresh.Alerts / time.Second),
		},
	}
}

// Encode the document in the given format.
func (doc *Document) Encode(format Format) ([]byte, error) {
	switch format {
	case YAML:
		return yaml.Marshal(doc)
	case TOML:
		return toml.Marshal(doc)
	case JSON:
		return json.MarshalIndent(doc, "", "  ")
	}
	return nil, curated.Errorf(UnknownFormat, format)
}
