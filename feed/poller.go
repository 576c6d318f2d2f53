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

package feed

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/subwaysign/subwaysign/alerts"
	"github.com/subwaysign/subwaysign/logger"
	"github.com/subwaysign/subwaysign/notifications"
	"github.com/subwaysign/subwaysign/statecell"
	"github.com/subwaysign/subwaysign/transit"
)

// the shortest fetch interval. a configuration with a shorter interval is
// clamped to this value
const minInterval = time.Second

// how often the poller checks for a new configuration
const configCheck = time.Second

// Poller fetches data from a Source and publishes DisplaySnapshots. It is
// meant to be run with lifecycle.Coordinator.Go().
type Poller struct {
	source  Source
	config  *statecell.Cell[transit.ConfigSnapshot]
	display *statecell.Cell[transit.DisplaySnapshot]
	notify  notifications.Notify
	now     func() time.Time

	// the most recent data. only accessed by the goroutine calling Run() or
	// the Fetch functions
	arrivals []transit.Arrival
	alerts   []transit.Alert
	fetched  time.Time

	published atomic.Int64
	failures  atomic.Int64
}

// NewPoller creates a Poller that reads its configuration from the config
// cell and publishes to the display cell.
func NewPoller(source Source, config *statecell.Cell[transit.ConfigSnapshot],
	display *statecell.Cell[transit.DisplaySnapshot]) *Poller {
	return &Poller{
		source:  source,
		config:  config,
		display: display,
		now:     time.Now,
	}
}

// SetNotify sets the recipient of NotifyFeedError notices.
func (p *Poller) SetNotify(n notifications.Notify) {
	p.notify = n
}

// Published returns the number of snapshots published and the number of
// failed fetches.
func (p *Poller) Published() (published int64, failures int64) {
	return p.published.Load(), p.failures.Load()
}

func interval(d time.Duration, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return max(d, minInterval)
}

func (p *Poller) failed(what string, err error) {
	p.failures.Add(1)
	logger.Logf(logger.Allow, "feed", "%s: %v", what, err)
	if p.notify != nil {
		_ = p.notify.Notify(notifications.NotifyFeedError)
	}
}

func (p *Poller) publish() {
	p.display.Publish(&transit.DisplaySnapshot{
		Arrivals:  slices.Clone(p.arrivals),
		Alerts:    slices.Clone(p.alerts),
		FetchedAt: p.fetched,
		FetchID:   uuid.New(),
	})
	p.published.Add(1)
}

// FetchTrains fetches arrivals and publishes a new snapshot. On error the
// current snapshot is left in place.
func (p *Poller) FetchTrains(ctx context.Context) error {
	cfg := p.config.Current()
	if cfg == nil {
		return nil
	}

	arr, err := p.source.Arrivals(ctx, cfg)
	if err != nil {
		if ctx.Err() == nil {
			p.failed("arrivals", err)
		}
		return err
	}

	p.arrivals = arr
	p.fetched = p.now()
	p.publish()
	return nil
}

// FetchAlerts fetches and prioritises alerts and publishes a new snapshot.
// On error the current snapshot is left in place. If alerts are turned off
// in the configuration the source is not contacted and the alerts are
// cleared.
func (p *Poller) FetchAlerts(ctx context.Context) error {
	cfg := p.config.Current()
	if cfg == nil {
		return nil
	}

	if !cfg.ShowAlerts {
		if len(p.alerts) > 0 {
			p.alerts = nil
			p.publish()
		}
		return nil
	}

	raw, err := p.source.Alerts(ctx, cfg)
	if err != nil {
		if ctx.Err() == nil {
			p.failed("alerts", err)
		}
		return err
	}

	p.alerts = alerts.Prioritise(raw, cfg.Routes)
	p.publish()
	return nil
}

// Run fetches trains and alerts on the intervals given by the current
// configuration until the context is cancelled. Both are fetched immediately
// when the configuration changes. Fetch errors are logged and do not stop
// the poller.
func (p *Poller) Run(ctx context.Context) error {
	logger.Log(logger.Allow, "feed", "poller started")
	defer logger.Log(logger.Allow, "feed", "poller stopped")

	cfg, version := p.config.Load()
	refresh := transit.DefaultRefresh
	if cfg != nil {
		refresh = cfg.Refresh
	}

	_ = p.FetchTrains(ctx)
	_ = p.FetchAlerts(ctx)

	trains := time.NewTimer(interval(refresh.Trains, transit.DefaultRefresh.Trains))
	defer trains.Stop()
	alertsTimer := time.NewTimer(interval(refresh.Alerts, transit.DefaultRefresh.Alerts))
	defer alertsTimer.Stop()
	check := time.NewTicker(configCheck)
	defer check.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-trains.C:
			_ = p.FetchTrains(ctx)
			trains.Reset(interval(refresh.Trains, transit.DefaultRefresh.Trains))

		case <-alertsTimer.C:
			_ = p.FetchAlerts(ctx)
			alertsTimer.Reset(interval(refresh.Alerts, transit.DefaultRefresh.Alerts))

		case <-check.C:
			cfg, v := p.config.Load()
			if v == version || cfg == nil {
				continue
			}
			version = v
			refresh = cfg.Refresh
			logger.Log(logger.Allow, "feed", "configuration changed")

			_ = p.FetchTrains(ctx)
			_ = p.FetchAlerts(ctx)
			trains.Reset(interval(refresh.Trains, transit.DefaultRefresh.Trains))
			alertsTimer.Reset(interval(refresh.Alerts, transit.DefaultRefresh.Alerts))
		}
	}
}
