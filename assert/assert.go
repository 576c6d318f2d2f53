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

// Package assert contains helpers for checking assumptions about which
// goroutine code is running on. They are intended for debugging and testing
// only.
package assert

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
)

// GetGoRoutineID returns the runtime's number for the calling goroutine. The
// number is parsed from the stack trace header so it is slow.
func GetGoRoutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// Owner records the first goroutine to call Check(). The zero value is ready
// to use.
type Owner struct {
	id       atomic.Uint64
	violated atomic.Bool
}

// Check returns false if the calling goroutine is not the owner. The first
// goroutine to call Check() becomes the owner.
func (o *Owner) Check() bool {
	id := GetGoRoutineID()
	if o.id.CompareAndSwap(0, id) {
		return true
	}
	if o.id.Load() != id {
		o.violated.Store(true)
		return false
	}
	return true
}

// Violated returns true if Check() has ever returned false.
func (o *Owner) Violated() bool {
	return o.violated.Load()
}
