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

// Package lifecycle coordinates the start and orderly shutdown of the sign.
//
// A Coordinator owns a single cancellation signal. Producers are launched with
// Go() and receive the Coordinator's context. The render loop is registered
// with Attach(). Shutdown() raises the signal exactly once, however many
// times and from however many goroutines it is called. Wait() returns only
// when every producer has returned and the render loop has stopped.
//
// If the render loop stops on its own, for example because the panel failed,
// shutdown is raised so that the producers stop too.
package lifecycle
