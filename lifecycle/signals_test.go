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

//go:build unix

package lifecycle_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/subwaysign/subwaysign/lifecycle"
	"github.com/subwaysign/subwaysign/test"
)

func TestSignals(t *testing.T) {
	c := lifecycle.New(context.Background())
	c.NotifySignals(syscall.SIGUSR1)

	test.DemandSuccess(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown not raised by signal")
	}
	test.ExpectEquality(t, c.Reason(), "signal: user defined signal 1")
}
