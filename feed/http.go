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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/subwaysign/subwaysign/alerts"
	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/logger"
	"github.com/subwaysign/subwaysign/transit"
)

// Backoff limits for the HTTP source. The delay doubles after every
// consecutive failure and is cleared by a success.
const (
	MinBackoff = time.Second
	MaxBackoff = 60 * time.Second
)

// the largest document the HTTP source will read
const maxDocument = 4 << 20

// the document returned by the arrivals endpoint
type arrivalsDocument struct {
	Arrivals []struct {
		transit.Arrival
		TripID string `json:"trip_id"`
	} `json:"arrivals"`
}

// the document returned by the alerts endpoint
type alertsDocument struct {
	Alerts []struct {
		transit.Alert
		Effect int `json:"effect"`
	} `json:"alerts"`
}

// backoff tracks consecutive failures for one endpoint.
type backoff struct {
	delay time.Duration
	until time.Time
}

func (b *backoff) fail(now time.Time) {
	if b.delay == 0 {
		b.delay = MinBackoff
	} else {
		b.delay = min(b.delay*2, MaxBackoff)
	}
	b.until = now.Add(b.delay)
}

func (b *backoff) succeed() {
	b.delay = 0
	b.until = time.Time{}
}

// HTTP is a Source that reads JSON documents from a feed service. The
// service provides two endpoints below the base URL:
//
//	GET <base>/arrivals?stops=127N,127S&routes=1,2,3
//	GET <base>/alerts?routes=1,2,3
//
// After a failure the endpoint is not contacted again until the backoff
// period has passed. Calls made during the backoff fail immediately.
type HTTP struct {
	base   *url.URL
	client *http.Client
	now    func() time.Time

	crit     sync.Mutex
	arrivals backoff
	alerts   backoff
}

// NewHTTP creates an HTTP source for the base URL. A nil client uses a client
// with a ten second timeout.
func NewHTTP(base string, client *http.Client) (*HTTP, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, curated.Errorf(FetchError, "http", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, curated.Errorf(FetchError, "http", fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTP{
		base:   u,
		client: client,
		now:    time.Now,
	}, nil
}

// Backoff returns the current backoff delay for the arrivals and alerts
// endpoints. A delay of zero means the endpoint is healthy.
func (h *HTTP) Backoff() (arrivals time.Duration, alerts time.Duration) {
	h.crit.Lock()
	defer h.crit.Unlock()
	return h.arrivals.delay, h.alerts.delay
}

func (h *HTTP) endpoint(name string, query url.Values) string {
	u := *h.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + name
	u.RawQuery = query.Encode()
	return u.String()
}

// get fetches the named endpoint and decodes the JSON response into doc. The
// backoff for the endpoint is updated with the result.
func (h *HTTP) get(ctx context.Context, name string, query url.Values, b *backoff, doc any) error {
	h.crit.Lock()
	now := h.now()
	if now.Before(b.until) {
		until := b.until
		h.crit.Unlock()
		return curated.Errorf(InBackoff, name, until.Format(time.TimeOnly))
	}
	h.crit.Unlock()

	err := h.fetch(ctx, name, query, doc)

	h.crit.Lock()
	defer h.crit.Unlock()
	if err != nil {
		// cancellation is not the fault of the feed service
		if ctx.Err() == nil {
			b.fail(h.now())
			logger.Logf(logger.Allow, "feed", "%s: backing off for %s", name, b.delay)
		}
		return err
	}
	b.succeed()
	return nil
}

func (h *HTTP) fetch(ctx context.Context, name string, query url.Values, doc any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint(name, query), nil)
	if err != nil {
		return curated.Errorf(FetchError, name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return curated.Errorf(FetchError, name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return curated.Errorf(FetchError, name, resp.Status)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxDocument))
	if err := dec.Decode(doc); err != nil {
		return curated.Errorf(BadDocument, name, err)
	}
	return nil
}

func routeQuery(cfg *transit.ConfigSnapshot) url.Values {
	q := url.Values{}
	if cfg != nil && len(cfg.Routes) > 0 {
		q.Set("routes", strings.Join(cfg.Routes, ","))
	}
	return q
}

func (h *HTTP) Arrivals(ctx context.Context, cfg *transit.ConfigSnapshot) ([]transit.Arrival, error) {
	q := routeQuery(cfg)
	if cfg != nil {
		q.Set("stops", strings.Join(cfg.StopIDs(), ","))
	}

	var doc arrivalsDocument
	if err := h.get(ctx, "arrivals", q, &h.arrivals, &doc); err != nil {
		return nil, err
	}

	out := make([]transit.Arrival, 0, len(doc.Arrivals))
	for _, d := range doc.Arrivals {
		a := d.Arrival
		if a.Route == "" {
			continue
		}
		a.Minutes = max(a.Minutes, 0)
		if !a.Express {
			a.Express = expressTrip(a.Route, d.TripID)
		}
		if dir, ok := transit.DirectionFromStop(a.StopID); ok {
			a.Direction = dir
		}
		out = append(out, a)
	}

	slices.SortStableFunc(out, func(a, b transit.Arrival) int {
		return a.Minutes - b.Minutes
	})

	return dedupe(out), nil
}

func (h *HTTP) Alerts(ctx context.Context, cfg *transit.ConfigSnapshot) ([]transit.Alert, error) {
	var doc alertsDocument
	if err := h.get(ctx, "alerts", routeQuery(cfg), &h.alerts, &doc); err != nil {
		return nil, err
	}

	out := make([]transit.Alert, 0, len(doc.Alerts))
	for _, d := range doc.Alerts {
		a := d.Alert
		if strings.TrimSpace(a.Text) == "" {
			continue
		}
		if a.Priority <= 0 {
			a.Priority = alerts.EffectPriority(d.Effect)
		}
		out = append(out, a)
	}
	return out, nil
}

// expressTrip is true if the trip ID marks an express run of a route that
// has express service. Express trip IDs end with X.
func expressTrip(route, tripID string) bool {
	return transit.ExpressCapable(route) && strings.HasSuffix(strings.ToUpper(tripID), "X")
}
