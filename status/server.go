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
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/logger"
	"github.com/subwaysign/subwaysign/notifications"
	"github.com/subwaysign/subwaysign/panel"
	"github.com/subwaysign/subwaysign/render"
	"github.com/subwaysign/subwaysign/statecell"
	"github.com/subwaysign/subwaysign/transit"
)

// ServeError is returned by Serve() if the server cannot listen.
const ServeError = "status: %v"

// DefaultAddress of the status server.
const DefaultAddress = "localhost:8080"

// how long Serve() waits for open requests to finish during shutdown
const shutdownGrace = 5 * time.Second

// Loop is the part of the render loop the server reports on.
type Loop interface {
	State() render.State
	Stats() render.Stats
	Live() render.Stats
}

// Sources of the information served. Only Config and Display are required.
type Sources struct {
	Loop    Loop
	Config  *statecell.Cell[transit.ConfigSnapshot]
	Display *statecell.Cell[transit.DisplaySnapshot]

	// frames published by a panel.Tap. if nil then /api/frames is not
	// available
	Frames *statecell.Cell[panel.Frame]

	// path of the configuration file. if empty then PUT /api/config is not
	// available
	ConfigPath string
}

// Server is the status HTTP server. It implements the notifications.Notify
// interface so that notices can be reported by /api/status.
type Server struct {
	addr    string
	src     Sources
	mux     *http.ServeMux
	started time.Time

	upgrader websocket.Upgrader

	// how often the frame stream checks for a new frame
	framePoll time.Duration

	crit       sync.Mutex
	notices    map[notifications.Notice]int
	lastNotice notifications.Notice
	lastTime   time.Time
}

// NewServer is the preferred method of initialisation for the Server type.
func NewServer(addr string, src Sources) *Server {
	s := &Server{
		addr:      addr,
		src:       src,
		mux:       http.NewServeMux(),
		started:   time.Now(),
		framePoll: 50 * time.Millisecond,
		notices:   make(map[notifications.Notice]int),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16384,
		},
	}

	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("GET /api/config", s.handleGetConfig)
	s.mux.HandleFunc("PUT /api/config", s.handlePutConfig)
	s.mux.HandleFunc("POST /api/config", s.handlePutConfig)
	s.mux.HandleFunc("GET /api/display", s.handleDisplay)
	s.mux.HandleFunc("GET /api/log", s.handleLog)
	s.mux.HandleFunc("GET /api/frames", s.handleFrames)
	s.mux.HandleFunc("GET /debug/snapshot.dot", s.handleSnapshotDot)

	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Notify implements the notifications.Notify interface.
func (s *Server) Notify(notice notifications.Notice) error {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.notices[notice]++
	s.lastNotice = notice
	s.lastTime = time.Now()
	return nil
}

// Serve listens on the server's address and serves requests until the
// context is cancelled. Open requests are given a short time to finish.
func (s *Server) Serve(ctx context.Context) error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return curated.Errorf(ServeError, err)
	}
	return s.ServeListener(ctx, l)
}

// ServeListener is the same as Serve() but with an existing listener.
func (s *Server) ServeListener(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Logf(logger.Allow, "status", "shutdown: %v", err)
		}
	}()

	logger.Logf(logger.Allow, "status", "listening on %s", l.Addr())

	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return curated.Errorf(ServeError, err)
}
