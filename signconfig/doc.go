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

// Package signconfig reads, validates, watches and saves the sign
// configuration file.
//
// The file is YAML or TOML, chosen by the file extension. JSON is accepted
// for documents received by the status server. A document has three
// sections:
//
//	station:
//	  name: Times Sq-42 St
//	  routes: ["1", "2", "3"]
//	  stations:
//	    - {uptown: 127N, downtown: 127S}
//	display:
//	  brightness: 0.5
//	  max_trains: 7
//	  show_alerts: true
//	refresh:
//	  trains_interval: 20
//	  alerts_interval: 60
//
// The platforms of the station can be given in one of three ways: a list of
// uptown/downtown pairs (stations), a single pair (uptown_stop_id and
// downtown_stop_id) or a list of stop IDs (stop_ids) which are paired by
// their N and S suffixes.
//
// A validated document becomes a transit.ConfigSnapshot. The Watcher type
// publishes a new snapshot whenever the file changes and passes validation.
package signconfig
