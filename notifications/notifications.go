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

package notifications

// Notice describes events that change the state of the sign.
type Notice string

// List of defined notifications.
const (
	// the render loop has finished starting and is ticking
	NotifyRunning Notice = "NotifyRunning"

	// the render loop has stopped
	NotifyStopped Notice = "NotifyStopped"

	// the panel brightness was changed after a configuration change
	NotifyBrightness Notice = "NotifyBrightness"

	// the render loop published a statistics report
	NotifyStatsReport Notice = "NotifyStatsReport"

	// a new configuration has been published
	NotifyConfigReloaded Notice = "NotifyConfigReloaded"

	// a configuration file changed but failed validation
	NotifyConfigRejected Notice = "NotifyConfigRejected"

	// a feed fetch failed. the sign keeps showing the previous snapshot
	NotifyFeedError Notice = "NotifyFeedError"

	// shutdown has been requested
	NotifyShutdown Notice = "NotifyShutdown"
)

// Notify is implemented by anything that wants to be told about notices.
type Notify interface {
	Notify(notice Notice) error
}

// NotifyFunc adapts a function to the Notify interface.
type NotifyFunc func(notice Notice) error

func (f NotifyFunc) Notify(notice Notice) error {
	return f(notice)
}
