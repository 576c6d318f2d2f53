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

package recorder

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/panel"
	"github.com/subwaysign/subwaysign/test"
	"github.com/subwaysign/subwaysign/transit"
)

var small = transit.Geometry{ChainLength: 2, PanelWidth: 8, PanelHeight: 4}

func frame(n int) *framebuffer.Buffer {
	buf := framebuffer.New(small.Width(), small.Height())
	buf.Set(n%small.Width(), n%small.Height(), transit.RGB{R: uint8(n + 1), G: 0x80})
	return buf
}

// logFile counts calls to Close()
type logFile struct {
	bytes.Buffer
	closed int
}

func (f *logFile) Close() error {
	f.closed++
	return nil
}

func TestOpenFailure(t *testing.T) {
	capture := &panel.Capture{OpenErr: errors.New("no such device")}
	f := &logFile{}

	rec := NewRecorder(capture, f, 1)
	err := rec.Open(small)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, panel.OpenError))

	// the frame log is closed straight away and the encoder released
	test.ExpectEquality(t, f.closed, 1)
	test.ExpectEquality(t, rec.enc == nil, true)

	// the render loop never calls Close() after a failed Open() but doing so
	// does not close the log a second time
	_ = rec.Close()
	test.ExpectEquality(t, f.closed, 1)

	// a recorder cannot be reopened once its log is closed
	capture.OpenErr = nil
	test.ExpectFailure(t, rec.Open(small))
}

func TestRoundTrip(t *testing.T) {
	var log bytes.Buffer
	capture := &panel.Capture{}

	clk := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	rec := NewRecorder(capture, &log, 2)
	rec.now = func() time.Time {
		clk = clk.Add(10 * time.Millisecond)
		return clk
	}

	test.DemandSuccess(t, rec.Open(small))
	for i := range 5 {
		test.DemandSuccess(t, rec.Present(frame(i)))
	}
	test.DemandSuccess(t, rec.Close())

	// every frame reaches the wrapped panel
	test.ExpectEquality(t, capture.Presents(), 5)
	test.ExpectEquality(t, capture.Closes(), 1)

	p, err := NewPlayer(&log)
	test.DemandSuccess(t, err)
	defer p.Close()
	test.ExpectEquality(t, p.Width(), 16)
	test.ExpectEquality(t, p.Height(), 4)

	buf := framebuffer.New(16, 4)

	// every second frame was recorded
	for i, expected := range []int{0, 2, 4} {
		at, err := p.Next(buf)
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, at, time.Duration(i)*10*time.Millisecond)
		test.ExpectSuccess(t, bytes.Equal(buf.Bytes(), frame(expected).Bytes()), expected)
	}

	_, err = p.Next(buf)
	test.ExpectSuccess(t, err == io.EOF)
}

func TestPlay(t *testing.T) {
	var log bytes.Buffer
	rec := NewRecorder(panel.Null{}, &log, 1)
	test.DemandSuccess(t, rec.Open(small))
	for i := range 3 {
		test.DemandSuccess(t, rec.Present(frame(i)))
	}
	test.DemandSuccess(t, rec.Close())

	p, err := NewPlayer(&log)
	test.DemandSuccess(t, err)
	defer p.Close()

	capture := &panel.Capture{}
	test.DemandSuccess(t, capture.Open(small))
	test.DemandSuccess(t, p.Play(capture, nil))
	test.ExpectEquality(t, capture.Presents(), 3)
	test.ExpectSuccess(t, bytes.Equal(capture.Last().Bytes(), frame(2).Bytes()))
}

func TestBadLog(t *testing.T) {
	_, err := NewPlayer(bytes.NewReader([]byte("not a frame log at all")))
	test.ExpectSuccess(t, curated.Is(err, PlaybackError))

	// a log with no frames read into a buffer of the wrong size
	var log bytes.Buffer
	rec := NewRecorder(panel.Null{}, &log, 1)
	test.DemandSuccess(t, rec.Open(small))
	test.DemandSuccess(t, rec.Close())
	b := log.Bytes()

	p, err := NewPlayer(bytes.NewReader(b))
	test.DemandSuccess(t, err)
	_, err = p.Next(framebuffer.New(3, 3))
	test.ExpectSuccess(t, curated.Is(err, PlaybackError))
	p.Close()
}
