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

// Package status is an HTTP server that reports on the running sign and
// accepts configuration changes.
//
// The server is a collaborator like the feed. It only reads the shared state
// cells and the render loop's statistics, so nothing it does can slow the
// render loop. Configuration changes received with PUT /api/config are
// validated and written to the configuration file. The file watcher then
// publishes the new configuration in the usual way.
//
// Endpoints:
//
//	GET  /api/status          loop state, statistics and version
//	GET  /api/config          the current configuration
//	PUT  /api/config          validate and save a new configuration
//	GET  /api/display         the current display snapshot
//	GET  /api/log?n=50        recent log entries
//	GET  /api/frames          websocket stream of presented frames
//	GET  /debug/snapshot.dot  graphviz description of the current snapshots
package status
