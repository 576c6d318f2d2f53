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

package logger_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/logger"
	"github.com/subwaysign/subwaysign/test"
)

// test logger and the use of the Tail() function
func TestLogger(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "test", "this is a test")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test\n")

	// clear the buffer before continuing, makes comparisons easier to manage
	w.Reset()

	log.Log(logger.Allow, "test2", "this is another test")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for too many entries in a Tail() should be okay
	w.Reset()
	log.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for fewer entries is okay too
	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "test2: this is another test\n")

	// and no entries
	w.Reset()
	log.Tail(w, 0)
	test.ExpectEquality(t, w.String(), "")
}

func TestRepeats(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "feed", "fetch failed")
	log.Log(logger.Allow, "feed", "fetch failed")
	log.Log(logger.Allow, "feed", "fetch failed")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "feed: fetch failed (repeat x3)\n")

	// a different tag is a different entry
	w.Reset()
	log.Log(logger.Allow, "config", "fetch failed")
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "config: fetch failed\n")
}

func TestMaxEntries(t *testing.T) {
	log := logger.NewLogger(3)
	for i := range 10 {
		log.Logf(logger.Allow, "tag", "entry %d", i)
	}

	w := &strings.Builder{}
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: entry 7\ntag: entry 8\ntag: entry 9\n")

	var n int
	log.BorrowLog(func(e []logger.Entry) {
		n = len(e)
	})
	test.ExpectEquality(t, n, 3)
}

func TestEcho(t *testing.T) {
	log := logger.NewLogger(100)
	log.Log(logger.Allow, "render", "before echo")

	w := &test.CompareWriter{}
	log.SetEcho(w, true)
	test.ExpectSuccess(t, w.Compare("render: before echo\n"))

	w.Clear()
	log.Log(logger.Allow, "render", "after echo")
	test.ExpectSuccess(t, w.Compare("render: after echo\n"))

	// nothing new has been added since the last echo
	r := &strings.Builder{}
	log.WriteRecent(r)
	test.ExpectEquality(t, r.String(), "")

	log.SetEcho(nil, false)
	w.Clear()
	log.Log(logger.Allow, "render", "no echo")
	test.ExpectEquality(t, w.Len(), 0)
}

// a sign echoes its log for weeks at a time. the ring keeps only the most
// recent output
func TestEchoRing(t *testing.T) {
	log := logger.NewLogger(10)

	// room for exactly two entries
	w, err := test.NewRingWriter(len("feed: fetch 998\nfeed: fetch 999\n"))
	test.DemandSuccess(t, err)
	log.SetEcho(w, false)

	for i := range 1000 {
		log.Logf(logger.Allow, "feed", "fetch %03d", i)
	}
	test.ExpectEquality(t, w.String(), "feed: fetch 998\nfeed: fetch 999\n")

	w.Reset()
	log.Log(logger.Allow, "feed", "fetch done")
	test.ExpectEquality(t, w.String(), "feed: fetch done\n")
}

// a writer that stops accepting output part way through does not stop the
// logger from writing or trimming entries
func TestTailShortWrite(t *testing.T) {
	log := logger.NewLogger(5)
	for i := range 20 {
		log.Logf(logger.Allow, "render", "frame %d late", i)
	}

	w, err := test.NewCappedWriter(len("render: frame 15 late\nrender"))
	test.DemandSuccess(t, err)
	log.Tail(w, 10)
	test.ExpectEquality(t, w.String(), "render: frame 15 late\nrender")

	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "render: frame 19 late\n")

	var n int
	log.BorrowLog(func(e []logger.Entry) {
		n = len(e)
	})
	test.ExpectEquality(t, n, 5)
}

// test permissions by randomising whether logging is allowed or not
type prohibitLogging struct {
	allow int
}

func (p prohibitLogging) AllowLogging() bool {
	return p.allow > 50
}

func TestPermissions(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	var p prohibitLogging

	for range 100 {
		p.allow = rand.IntN(100)
		log.Clear()
		w.Reset()
		log.Log(p, "tag", "detail")
		log.Write(w)
		if p.AllowLogging() {
			test.ExpectEquality(t, w.String(), "tag: detail\n")
		} else {
			test.ExpectEquality(t, w.String(), "")
		}
	}
}

// the Log() function explicitly handles error types by using the Error() result
func TestErrorLogging(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	err := errors.New("test error")

	log.Log(logger.Allow, "tag", err)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: test error\n")

	log.Clear()
	w.Reset()

	log.Logf(logger.Allow, "tag", "wrapped: %v", err)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: wrapped: test error\n")

	log.Clear()
	w.Reset()

	log.Log(logger.Allow, "tag", curated.Errorf("glyphs: %v", fmt.Errorf("bad row")))
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: glyphs: bad row\n")
}

type stringerTest struct{}

func (_ stringerTest) String() string {
	return "stringer test"
}

func TestStringerLogging(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", stringerTest{})
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: stringer test\n")

	w.Reset()
	log.Clear()
	log.Log(logger.Allow, "tag", 100)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: 100\n")
}

func TestColorizerPlain(t *testing.T) {
	// a strings.Builder is not a terminal so no colour is applied
	w := &strings.Builder{}
	c := logger.NewColorizer(w)
	c.Write([]byte("render: started\n"))
	test.ExpectEquality(t, w.String(), "render: started\n")
}
