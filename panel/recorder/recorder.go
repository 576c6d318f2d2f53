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

// Package recorder saves presented frames to a compressed frame log and
// plays them back.
//
// The log is a zstd stream. It starts with a header:
//
//	magic   [4]byte  "SSR1"
//	width   uint16
//	height  uint16
//
// followed by any number of frames:
//
//	offset  int64    nanoseconds since the first frame
//	pixels  [width*height*3]byte
//
// All integers are little-endian. Pixels are in the RGB24 layout of the
// framebuffer package.
package recorder

import (
	"encoding/binary"
	"errors"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/framebuffer"
	"github.com/subwaysign/subwaysign/panel"
	"github.com/subwaysign/subwaysign/transit"
)

// Error patterns for the recorder package.
const (
	RecordingError = "recorder: %v"
	PlaybackError  = "recorder: playback: %v"
)

var magic = [4]byte{'S', 'S', 'R', '1'}

type header struct {
	Magic  [4]byte
	Width  uint16
	Height uint16
}

// Recorder wraps a Panel and writes a copy of every Nth presented frame to
// the frame log. Recording errors do not stop frames reaching the wrapped
// panel. The first error is kept and returned by Close().
type Recorder struct {
	panel.Panel

	out   io.Writer
	enc   *zstd.Encoder
	every int
	seq   int
	start time.Time
	err   error

	// frame header scratch space
	offset [8]byte

	// clock is replaceable for testing
	now func() time.Time
}

// NewRecorder wraps the panel. Frames are written to out, which is closed by
// Close() if it implements io.Closer. A copy of every nth frame is written.
// Values of n less than one write every frame.
func NewRecorder(p panel.Panel, out io.Writer, n int) *Recorder {
	return &Recorder{
		Panel: p,
		out:   out,
		every: max(n, 1),
		now:   time.Now,
	}
}

// Open implements the panel.Panel interface. The frame log header is written
// before the wrapped panel is opened.
func (r *Recorder) Open(g transit.Geometry) error {
	if err := g.Valid(); err != nil {
		return curated.Errorf(panel.OpenError, err)
	}
	if g.Width() > 0xffff || g.Height() > 0xffff {
		return curated.Errorf(panel.OpenError, "geometry too large to record")
	}

	if r.out == nil {
		return curated.Errorf(panel.OpenError, curated.Errorf(RecordingError, "frame log is closed"))
	}

	enc, err := zstd.NewWriter(r.out, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
	if err != nil {
		r.closeLog()
		return curated.Errorf(panel.OpenError, curated.Errorf(RecordingError, err))
	}
	r.enc = enc

	hdr := header{Magic: magic, Width: uint16(g.Width()), Height: uint16(g.Height())}
	if err := binary.Write(r.enc, binary.LittleEndian, hdr); err != nil {
		r.closeLog()
		return curated.Errorf(panel.OpenError, curated.Errorf(RecordingError, err))
	}

	r.seq = 0
	if err := r.Panel.Open(g); err != nil {
		r.closeLog()
		return err
	}
	return nil
}

// Present implements the panel.Panel interface.
func (r *Recorder) Present(buf *framebuffer.Buffer) error {
	r.seq++
	if r.err == nil && r.enc != nil && (r.seq-1)%r.every == 0 {
		r.record(buf)
	}
	return r.Panel.Present(buf)
}

func (r *Recorder) record(buf *framebuffer.Buffer) {
	now := r.now()
	if r.start.IsZero() {
		r.start = now
	}

	binary.LittleEndian.PutUint64(r.offset[:], uint64(now.Sub(r.start)))
	if _, err := r.enc.Write(r.offset[:]); err != nil {
		r.err = curated.Errorf(RecordingError, err)
		return
	}
	if _, err := r.enc.Write(buf.Bytes()); err != nil {
		r.err = curated.Errorf(RecordingError, err)
	}
}

// Close implements the panel.Panel interface. The frame log is flushed and
// closed before the wrapped panel is closed.
func (r *Recorder) Close() error {
	var errs []error
	r.closeLog()
	if r.err != nil {
		errs = append(errs, r.err)
	}
	if err := r.Panel.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// closeLog flushes and closes the encoder and the output. The first error is
// kept in r.err. The output is only ever closed once.
func (r *Recorder) closeLog() {
	if r.enc != nil {
		if err := r.enc.Close(); err != nil && r.err == nil {
			r.err = curated.Errorf(RecordingError, err)
		}
		r.enc = nil
	}
	if c, ok := r.out.(io.Closer); ok {
		if err := c.Close(); err != nil && r.err == nil {
			r.err = curated.Errorf(RecordingError, err)
		}
	}
	r.out = nil
}

// Player reads frames from a frame log.
type Player struct {
	dec    *zstd.Decoder
	width  int
	height int
	offset [8]byte
}

// NewPlayer reads the frame log header from in.
func NewPlayer(in io.Reader) (*Player, error) {
	dec, err := zstd.NewReader(in)
	if err != nil {
		return nil, curated.Errorf(PlaybackError, err)
	}

	var hdr header
	if err := binary.Read(dec, binary.LittleEndian, &hdr); err != nil {
		dec.Close()
		return nil, curated.Errorf(PlaybackError, err)
	}
	if hdr.Magic != magic {
		dec.Close()
		return nil, curated.Errorf(PlaybackError, "not a frame log")
	}
	if hdr.Width == 0 || hdr.Height == 0 {
		dec.Close()
		return nil, curated.Errorf(PlaybackError, "empty frame size")
	}

	return &Player{
		dec:    dec,
		width:  int(hdr.Width),
		height: int(hdr.Height),
	}, nil
}

// Width of recorded frames.
func (p *Player) Width() int {
	return p.width
}

// Height of recorded frames.
func (p *Player) Height() int {
	return p.height
}

// Next reads the next frame into buf, which must be the size of the recorded
// frames. The returned duration is the time of the frame relative to the
// first frame. At the end of the log io.EOF is returned.
func (p *Player) Next(buf *framebuffer.Buffer) (time.Duration, error) {
	if buf.Width() != p.width || buf.Height() != p.height {
		return 0, curated.Errorf(PlaybackError, "buffer size does not match recording")
	}

	if _, err := io.ReadFull(p.dec, p.offset[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		}
		return 0, curated.Errorf(PlaybackError, err)
	}
	if _, err := io.ReadFull(p.dec, buf.Bytes()); err != nil {
		return 0, curated.Errorf(PlaybackError, "truncated frame")
	}

	return time.Duration(binary.LittleEndian.Uint64(p.offset[:])), nil
}

// Play presents every remaining frame to the panel, waiting between frames
// to keep the recorded timing. The panel must already be open. Play returns
// when the log ends or the stop channel is closed.
func (p *Player) Play(pnl panel.Panel, stop <-chan struct{}) error {
	buf := framebuffer.New(p.width, p.height)
	start := time.Now()

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		at, err := p.Next(buf)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if d := time.Until(start.Add(at)); d > 0 {
			select {
			case <-stop:
				return nil
			case <-time.After(d):
			}
		}

		if err := pnl.Present(buf); err != nil {
			return err
		}
	}
}

// Close releases the decoder.
func (p *Player) Close() {
	p.dec.Close()
}
