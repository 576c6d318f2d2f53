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

package status_test

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/subwaysign/subwaysign/logger"
	"github.com/subwaysign/subwaysign/notifications"
	"github.com/subwaysign/subwaysign/panel"
	"github.com/subwaysign/subwaysign/render"
	"github.com/subwaysign/subwaysign/signconfig"
	"github.com/subwaysign/subwaysign/statecell"
	"github.com/subwaysign/subwaysign/status"
	"github.com/subwaysign/subwaysign/test"
	"github.com/subwaysign/subwaysign/transit"
)

type stubLoop struct {
	stats render.Stats
}

func (l stubLoop) State() render.State {
	return render.Running
}

func (l stubLoop) Stats() render.Stats {
	return l.stats
}

func (l stubLoop) Live() render.Stats {
	return l.stats
}

func testConfig() *transit.ConfigSnapshot {
	return &transit.ConfigSnapshot{
		Station: transit.StationSelection{
			Name:  "Times Sq-42 St",
			Stops: []transit.StopPair{{Uptown: "127N", Downtown: "127S"}},
		},
		Routes:     []string{"1", "2", "3"},
		Brightness: 0.5,
		MaxTrains:  7,
		ShowAlerts: true,
		Geometry:   transit.DefaultGeometry,
		Refresh:    transit.DefaultRefresh,
	}
}

func testSources(t *testing.T) status.Sources {
	t.Helper()
	return status.Sources{
		Loop: stubLoop{stats: render.Stats{
			Frames: 600,
			Missed: 3,
			Sum:    600 * time.Millisecond,
			Max:    20 * time.Millisecond,
			Window: 10 * time.Second,
			Rate:   60,
		}},
		Config: statecell.New(testConfig()),
		Display: statecell.New(&transit.DisplaySnapshot{
			Arrivals: []transit.Arrival{
				{Route: "1", Destination: "South Ferry", Minutes: 2},
			},
			FetchedAt: time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC),
		}),
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestImplementsNotify(t *testing.T) {
	var n notifications.Notify
	test.DemandImplements(t, status.NewServer(status.DefaultAddress, testSources(t)), n)
}

func TestStatus(t *testing.T) {
	srv := status.NewServer(status.DefaultAddress, testSources(t))
	_ = srv.Notify(notifications.NotifyFeedError)
	_ = srv.Notify(notifications.NotifyFeedError)

	rec := get(t, srv.Handler(), "/api/status")
	test.DemandEquality(t, rec.Code, http.StatusOK)

	var rep status.StatusReport
	test.DemandSuccess(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	test.ExpectEquality(t, rep.State, "Running")
	test.ExpectEquality(t, rep.Station, "Times Sq-42 St")
	test.ExpectEquality(t, rep.Trains, 1)
	test.DemandSuccess(t, rep.Stats != nil)
	test.ExpectEquality(t, rep.Stats.Frames, 600)
	test.ExpectEquality(t, rep.Stats.Missed, 3)
	test.ExpectEquality(t, rep.Stats.Average, "1ms")
	test.ExpectEquality(t, rep.Notices[string(notifications.NotifyFeedError)], 2)
	test.ExpectSuccess(t, strings.HasPrefix(rep.Last, string(notifications.NotifyFeedError)))
}

func TestGetConfig(t *testing.T) {
	srv := status.NewServer(status.DefaultAddress, testSources(t))
	rec := get(t, srv.Handler(), "/api/config")
	test.DemandEquality(t, rec.Code, http.StatusOK)

	var resp struct {
		Success bool                `json:"success"`
		Config  signconfig.Document `json:"config"`
	}
	test.DemandSuccess(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	test.ExpectSuccess(t, resp.Success)
	test.ExpectEquality(t, resp.Config.Display.MaxTrains, 7)
	test.ExpectEquality(t, strings.Join(resp.Config.Station.Routes, ","), "1,2,3")
}

func TestPutConfig(t *testing.T) {
	src := testSources(t)
	src.ConfigPath = filepath.Join(t.TempDir(), "sign.yaml")
	srv := status.NewServer(status.DefaultAddress, src)

	put := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/config", strings.NewReader(body)))
		return rec
	}

	// invalid configuration is rejected and nothing is written
	rec := put(`{"station": {"routes": ["1"], "stop_ids": ["127N", "127S"]}, "display": {"brightness": 2, "max_trains": 7}}`)
	test.ExpectEquality(t, rec.Code, http.StatusBadRequest)
	test.ExpectSuccess(t, strings.Contains(rec.Body.String(), "brightness"))
	_, err := os.Stat(src.ConfigPath)
	test.ExpectSuccess(t, os.IsNotExist(err))

	rec = put(`not json`)
	test.ExpectEquality(t, rec.Code, http.StatusBadRequest)

	// valid configuration is saved to disk but not published. publishing is
	// the job of the file watcher
	rec = put(`{"station": {"routes": ["1"], "stop_ids": ["127N", "127S"]}, "display": {"brightness": 0.2, "max_trains": 4, "show_alerts": false}}`)
	test.ExpectEquality(t, rec.Code, http.StatusOK)

	cfg, err := signconfig.Load(src.ConfigPath)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.MaxTrains, 4)
	test.ExpectEquality(t, src.Config.Version(), uint64(0))
}

func TestPutConfigReadOnly(t *testing.T) {
	srv := status.NewServer(status.DefaultAddress, testSources(t))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/config", strings.NewReader("{}")))
	test.ExpectEquality(t, rec.Code, http.StatusMethodNotAllowed)
}

func TestDisplay(t *testing.T) {
	srv := status.NewServer(status.DefaultAddress, testSources(t))
	rec := get(t, srv.Handler(), "/api/display")
	test.DemandEquality(t, rec.Code, http.StatusOK)

	var resp struct {
		Display transit.DisplaySnapshot `json:"display"`
	}
	test.DemandSuccess(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	test.DemandEquality(t, len(resp.Display.Arrivals), 1)
	test.ExpectEquality(t, resp.Display.Arrivals[0].Destination, "South Ferry")
}

func TestLog(t *testing.T) {
	logger.Log(logger.Allow, "status test", "hello from the test")

	srv := status.NewServer(status.DefaultAddress, testSources(t))
	rec := get(t, srv.Handler(), "/api/log?n=5")
	test.DemandEquality(t, rec.Code, http.StatusOK)
	test.ExpectSuccess(t, strings.Contains(rec.Body.String(), "hello from the test"))

	rec = get(t, srv.Handler(), "/api/log?n=minus")
	test.ExpectEquality(t, rec.Code, http.StatusBadRequest)
}

func TestSnapshotDot(t *testing.T) {
	srv := status.NewServer(status.DefaultAddress, testSources(t))
	rec := get(t, srv.Handler(), "/debug/snapshot.dot")
	test.DemandEquality(t, rec.Code, http.StatusOK)
	test.ExpectSuccess(t, strings.Contains(rec.Body.String(), "digraph"))
	test.ExpectSuccess(t, strings.Contains(rec.Body.String(), "South Ferry"))
}

func TestFrames(t *testing.T) {
	src := testSources(t)
	tap := panel.NewTap(&panel.Capture{}, 1)
	src.Frames = tap.Frames()

	srv := httptest.NewServer(status.NewServer(status.DefaultAddress, src).Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/frames"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	test.DemandSuccess(t, err)
	defer conn.Close()

	tap.Frames().Publish(&panel.Frame{Seq: 7, Width: 2, Height: 1, Pix: []byte{1, 2, 3, 4, 5, 6}})

	test.DemandSuccess(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	typ, msg, err := conn.ReadMessage()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, typ, websocket.TextMessage)
	test.ExpectEquality(t, strings.TrimSpace(string(msg)), `{"width":2,"height":1}`)

	typ, msg, err = conn.ReadMessage()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, typ, websocket.BinaryMessage)
	test.DemandEquality(t, len(msg), 14)
	test.ExpectEquality(t, binary.LittleEndian.Uint64(msg), uint64(7))
	test.ExpectEquality(t, msg[8], byte(1))
}

func TestFramesUnavailable(t *testing.T) {
	srv := status.NewServer(status.DefaultAddress, testSources(t))
	rec := get(t, srv.Handler(), "/api/frames")
	test.ExpectEquality(t, rec.Code, http.StatusNotFound)
}

func TestServe(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	test.DemandSuccess(t, err)

	srv := status.NewServer(l.Addr().String(), testSources(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- srv.ServeListener(ctx, l)
	}()

	resp, err := http.Get("http://" + l.Addr().String() + "/api/status")
	test.DemandSuccess(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	test.ExpectEquality(t, resp.StatusCode, http.StatusOK)

	cancel()
	select {
	case err := <-done:
		test.ExpectSuccess(t, err)
	case <-time.After(10 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
