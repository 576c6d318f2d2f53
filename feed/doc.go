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

// Package feed fetches arrivals and service alerts and publishes them as
// DisplaySnapshots for the render loop.
//
// A Source provides the raw data. The Mock source generates synthetic trains
// that count down in real time and is used for testing and demonstration.
// The HTTP source reads JSON documents from a feed service and backs off
// after failures.
//
// The Poller runs as a producer under the lifecycle Coordinator. It fetches
// trains and alerts on their own intervals and publishes a complete new
// snapshot after every successful fetch. A failed fetch is logged and the
// previous snapshot stays in place. Nothing that happens in this package can
// stop or slow the render loop.
package feed
