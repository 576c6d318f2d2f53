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

package status

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bradleyjkemp/memviz"
	"github.com/gorilla/websocket"
	"github.com/subwaysign/subwaysign/logger"
	"github.com/subwaysign/subwaysign/render"
	"github.com/subwaysign/subwaysign/signconfig"
	"github.com/subwaysign/subwaysign/transit"
	"github.com/subwaysign/subwaysign/version"
)

// the largest configuration document accepted by PUT /api/config
const maxConfigDocument = 64 << 10

// the default and largest number of log entries returned by /api/log
const (
	defaultLogTail = 50
	maxLogTail     = 1000
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.Logf(logger.Allow, "status", "response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"success": code < 400,
		"message": msg,
	})
}

// StatusReport is the response to GET /api/status.
type StatusReport struct {
	Version   string         `json:"version"`
	Uptime    string         `json:"uptime"`
	State     string         `json:"state"`
	Stats     *LoopReport    `json:"stats,omitempty"`
	Live      *LoopReport    `json:"live,omitempty"`
	Station   string         `json:"station"`
	Routes    []string       `json:"routes"`
	Config    uint64         `json:"config_version"`
	Display   uint64         `json:"display_version"`
	FetchedAt time.Time      `json:"fetched_at"`
	Trains    int            `json:"trains"`
	Alerts    int            `json:"alerts"`
	Notices   map[string]int `json:"notices"`
	Last      string         `json:"last_notice,omitempty"`
}

// LoopReport is a summary of render loop statistics.
type LoopReport struct {
	Frames        int     `json:"frames"`
	Missed        int     `json:"missed"`
	MissedPercent float64 `json:"missed_percent"`
	Rate          float64 `json:"rate"`
	Average       string  `json:"average"`
	Max           string  `json:"max"`
	Window        string  `json:"window"`
	PresentErrors int     `json:"present_errors"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	rep := StatusReport{
		Version: version.String(),
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		State:   "unknown",
		Notices: make(map[string]int),
	}

	if s.src.Loop != nil {
		rep.State = s.src.Loop.State().String()
		if st := s.src.Loop.Stats(); st.Frames > 0 {
			rep.Stats = loopReport(st)
		}
		if st := s.src.Loop.Live(); st.Frames > 0 {
			rep.Live = loopReport(st)
		}
	}

	if cfg, v := s.src.Config.Load(); cfg != nil {
		rep.Station = cfg.Station.Name
		rep.Routes = cfg.Routes
		rep.Config = v
	}

	if disp, v := s.src.Display.Load(); disp != nil {
		rep.Display = v
		rep.FetchedAt = disp.FetchedAt
		rep.Trains = len(disp.Arrivals)
		rep.Alerts = len(disp.Alerts)
	}

	s.crit.Lock()
	for n, c := range s.notices {
		rep.Notices[string(n)] = c
	}
	if s.lastNotice != "" {
		rep.Last = fmt.Sprintf("%s at %s", s.lastNotice, s.lastTime.Format(time.TimeOnly))
	}
	s.crit.Unlock()

	writeJSON(w, http.StatusOK, rep)
}

func loopReport(st render.Stats) *LoopReport {
	return &LoopReport{
		Frames:        st.Frames,
		Missed:        st.Missed,
		MissedPercent: st.MissedPercent(),
		Rate:          st.Rate,
		Average:       st.Average().String(),
		Max:           st.Max.String(),
		Window:        st.Window.Round(time.Millisecond).String(),
		PresentErrors: st.PresentErrors,
	}
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, v := s.src.Config.Load()
	if cfg == nil {
		writeMessage(w, http.StatusServiceUnavailable, "no configuration")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"version": v,
		"config":  signconfig.FromSnapshot(cfg),
	})
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	if s.src.ConfigPath == "" {
		writeMessage(w, http.StatusMethodNotAllowed, "configuration is read-only")
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxConfigDocument))
	if err != nil {
		writeMessage(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	cfg, err := signconfig.Decode(data, signconfig.JSON)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid config: %v", err))
		return
	}

	if err := signconfig.Save(s.src.ConfigPath, cfg); err != nil {
		logger.Logf(logger.Allow, "status", "%v", err)
		writeMessage(w, http.StatusInternalServerError, fmt.Sprintf("failed to save config: %v", err))
		return
	}

	logger.Logf(logger.Allow, "status", "configuration saved: %s", cfg)
	writeMessage(w, http.StatusOK, "configuration saved")
}

func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	disp, v := s.src.Display.Load()
	if disp == nil {
		disp = &transit.DisplaySnapshot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"version": v,
		"display": disp,
	})
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	n := defaultLogTail
	if q := r.URL.Query().Get("n"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 1 {
			writeMessage(w, http.StatusBadRequest, "n must be a positive number")
			return
		}
		n = min(v, maxLogTail)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	logger.Tail(w, n)
}

func (s *Server) handleSnapshotDot(w http.ResponseWriter, r *http.Request) {
	type snapshots struct {
		Config  *transit.ConfigSnapshot
		Display *transit.DisplaySnapshot
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	memviz.Map(w, &snapshots{
		Config:  s.src.Config.Current(),
		Display: s.src.Display.Current(),
	})
}

// frameHeader is sent as a text message at the start of the frame stream and
// whenever the frame size changes. Every following binary message is a frame
// of RGB24 pixels prefixed with the frame sequence number as a little-endian
// uint64.
type frameHeader struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	if s.src.Frames == nil {
		writeMessage(w, http.StatusNotFound, "frame stream not available")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied to the client
		logger.Logf(logger.Allow, "status", "frames: %v", err)
		return
	}
	defer conn.Close()

	logger.Logf(logger.Allow, "status", "frame stream opened by %s", r.RemoteAddr)
	defer logger.Logf(logger.Allow, "status", "frame stream closed by %s", r.RemoteAddr)

	// the client never sends anything of interest but the connection must be
	// read so that control messages and closure are seen
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	poll := time.NewTicker(s.framePoll)
	defer poll.Stop()

	var seen uint64
	var hdr frameHeader
	var msg []byte

	for {
		select {
		case <-r.Context().Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(time.Second))
			return
		case <-closed:
			return
		case <-poll.C:
		}

		f, v := s.src.Frames.Load()
		if f == nil || v == seen {
			continue
		}
		seen = v

		if f.Width != hdr.Width || f.Height != hdr.Height {
			hdr = frameHeader{Width: f.Width, Height: f.Height}
			if err := conn.WriteJSON(hdr); err != nil {
				return
			}
		}

		msg = binary.LittleEndian.AppendUint64(msg[:0], f.Seq)
		msg = append(msg, f.Pix...)
		if err := conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			return
		}
	}
}
