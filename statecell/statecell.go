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

// Package statecell implements a lock-free publish cell for immutable
// snapshots. One logical writer replaces the snapshot wholesale with
// Publish() and any number of readers obtain the current snapshot with
// Current() or Load(). Neither side ever waits for the other.
//
// The cell stores a pointer to an immutable box holding the snapshot pointer
// and its version. Replacing the box is a single atomic store so a reader
// always sees a snapshot and version that were published together.
//
// Published values must be treated as immutable. Mutating a value after it
// has been published is a data race with every reader.
package statecell

import (
	"sync/atomic"
)

type box[T any] struct {
	value   *T
	version uint64
}

// Cell holds the current snapshot of type T.
type Cell[T any] struct {
	current atomic.Pointer[box[T]]

	// guards against versions going backwards if more than one goroutine
	// calls Publish()
	next atomic.Uint64
}

// New is the preferred method of initialisation for the Cell type. The
// initial value is published as version zero and may be nil.
func New[T any](initial *T) *Cell[T] {
	c := &Cell[T]{}
	c.current.Store(&box[T]{value: initial})
	return c
}

// Publish atomically installs v as the current snapshot and returns the
// version number assigned to it. Versions start at one and increase by one
// with every publish.
func (c *Cell[T]) Publish(v *T) uint64 {
	n := c.next.Add(1)
	b := &box[T]{value: v, version: n}

	// with more than one writer a publish can race another publish with a
	// higher version. only install if this is still the newest
	for {
		old := c.current.Load()
		if old.version > n {
			return n
		}
		if c.current.CompareAndSwap(old, b) {
			return n
		}
	}
}

// Current returns the snapshot valid at the time of the call.
func (c *Cell[T]) Current() *T {
	return c.current.Load().value
}

// Load returns the current snapshot and its version. The pair is read
// atomically.
func (c *Cell[T]) Load() (*T, uint64) {
	b := c.current.Load()
	return b.value, b.version
}

// Version returns the version of the current snapshot.
func (c *Cell[T]) Version() uint64 {
	return c.current.Load().version
}
