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

//go:build linux

package render

import (
	"golang.org/x/sys/unix"
)

// setPriority changes the scheduling priority of the calling thread. On
// linux a thread ID is a valid target for PRIO_PROCESS.
func setPriority(niceness int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), niceness)
}
