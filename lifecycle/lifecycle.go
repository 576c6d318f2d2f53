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

package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"slices"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/logger"
	"github.com/subwaysign/subwaysign/notifications"
	"golang.org/x/sync/errgroup"
)

// ProducerError wraps an error returned by a producer.
const ProducerError = "lifecycle: %s: %v"

// Joinable is something the Coordinator waits for. The render loop is
// Joinable.
type Joinable interface {
	Done() <-chan struct{}
	Wait() error
}

// Coordinator for the lifetime of the sign.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	group errgroup.Group

	once   sync.Once
	reason atomic.Pointer[string]

	crit  sync.Mutex
	loops []Joinable

	notify notifications.Notify
}

// New creates a Coordinator. Cancelling the parent context is the same as
// calling Shutdown().
func New(parent context.Context) *Coordinator {
	c := &Coordinator{}
	c.ctx, c.cancel = context.WithCancel(parent)
	return c
}

// SetNotify sets the recipient of the shutdown notice.
func (c *Coordinator) SetNotify(n notifications.Notify) {
	c.notify = n
}

// Context is cancelled when shutdown is raised.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// Done is closed when shutdown is raised.
func (c *Coordinator) Done() <-chan struct{} {
	return c.ctx.Done()
}

// ShuttingDown is true once shutdown has been raised. Once true it is always
// true.
func (c *Coordinator) ShuttingDown() bool {
	return c.ctx.Err() != nil
}

// Reason given to the first call to Shutdown(). Empty if shutdown was raised
// by the parent context or has not been raised.
func (c *Coordinator) Reason() string {
	if r := c.reason.Load(); r != nil {
		return *r
	}
	return ""
}

// Shutdown raises the shutdown signal. Only the first call has any effect.
func (c *Coordinator) Shutdown(reason string) {
	c.once.Do(func() {
		c.reason.Store(&reason)
		logger.Logf(logger.Allow, "lifecycle", "shutdown: %s", reason)
		if c.notify != nil {
			_ = c.notify.Notify(notifications.NotifyShutdown)
		}
		c.cancel()
	})
}

// Go runs a producer. The producer should return when the context is
// cancelled. An error returned by a producer is logged and reported by
// Wait() but does not raise shutdown.
func (c *Coordinator) Go(name string, f func(ctx context.Context) error) {
	c.group.Go(func() error {
		err := f(c.ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			return nil
		}
		logger.Logf(logger.Allow, "lifecycle", "%s: %v", name, err)
		return curated.Errorf(ProducerError, name, err)
	})
}

// Attach registers the render loop. Shutdown is raised when the loop stops.
func (c *Coordinator) Attach(loop Joinable) {
	c.crit.Lock()
	c.loops = append(c.loops, loop)
	c.crit.Unlock()

	go func() {
		select {
		case <-loop.Done():
			c.Shutdown("render loop stopped")
		case <-c.ctx.Done():
		}
	}()
}

// Wait for every producer and the render loop to finish. Wait does not
// raise shutdown itself. The returned error joins the errors of the
// producers and of the render loop.
func (c *Coordinator) Wait() error {
	errs := []error{c.group.Wait()}

	c.crit.Lock()
	loops := append([]Joinable(nil), c.loops...)
	c.crit.Unlock()

	for _, l := range loops {
		errs = append(errs, l.Wait())
	}

	errs = slices.DeleteFunc(errs, func(err error) bool { return err == nil })
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return errors.Join(errs...)
}

// NotifySignals raises shutdown when one of the signals is received. With
// no signals given, SIGINT and SIGTERM are used.
func (c *Coordinator) NotifySignals(sig ...os.Signal) {
	if len(sig) == 0 {
		sig = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sig...)

	go func() {
		defer signal.Stop(ch)
		select {
		case s := <-ch:
			c.Shutdown("signal: " + s.String())
		case <-c.ctx.Done():
		}
	}()
}
