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

package prefs_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/subwaysign/subwaysign/prefs"
	"github.com/subwaysign/subwaysign/test"
)

func cmpTmpFile(t *testing.T, fn string, expected string) {
	t.Helper()

	data, err := os.ReadFile(fn)
	if err != nil {
		t.Errorf("error reading tmp file: %v", err)
		return
	}

	expected = fmt.Sprintf("%s\n%s", prefs.WarningBoilerPlate, expected)
	test.ExpectEquality(t, string(data), expected)
}

func TestBool(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "preferences")

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Bool
	var w prefs.Bool
	var x prefs.Bool
	test.ExpectSuccess(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, dsk.Add("testB", &w))
	test.ExpectSuccess(t, dsk.Add("testC", &x))

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, w.Set("foo"))
	test.ExpectSuccess(t, x.Set("TRUE"))

	test.DemandSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "test :: true\ntestB :: false\ntestC :: true\n")

	test.ExpectFailure(t, v.Set(10))
}

func TestString(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "preferences")

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.String
	test.ExpectSuccess(t, dsk.Add("status.address", &v))
	test.ExpectSuccess(t, v.Set("localhost:8080"))
	test.DemandSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "status.address :: localhost:8080\n")

	v.SetMaxLen(9)
	test.ExpectEquality(t, v.String(), "localhost")
	test.ExpectSuccess(t, v.Set("0123456789"))
	test.ExpectEquality(t, v.String(), "012345678")
}

func TestInt(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "preferences")

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Int
	var w prefs.Int
	test.ExpectSuccess(t, dsk.Add("number", &v))
	test.ExpectSuccess(t, dsk.Add("numberB", &w))

	test.ExpectSuccess(t, v.Set(10))

	// string conversion to int
	test.ExpectSuccess(t, w.Set("99"))

	test.DemandSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "number :: 10\nnumberB :: 99\n")

	test.ExpectFailure(t, v.Set("---"))
	test.ExpectFailure(t, v.Set(1.0))
	test.ExpectEquality(t, v.Get().(int), 10)
}

func TestFloatAndDuration(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "preferences")

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var f prefs.Float
	var d prefs.Duration
	test.ExpectSuccess(t, dsk.Add("panel.gamma", &f))
	test.ExpectSuccess(t, dsk.Add("render.reportInterval", &d))

	test.ExpectSuccess(t, f.Set("1.5"))
	test.ExpectSuccess(t, d.Set(5*time.Minute))
	test.DemandSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "panel.gamma :: 1.500\nrender.reportInterval :: 5m0s\n")

	test.ExpectSuccess(t, d.Set("90s"))
	test.ExpectEquality(t, d.Get().(time.Duration), 90*time.Second)
	test.ExpectFailure(t, d.Set("ninety"))
}

func TestLoad(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "preferences")

	// a file with an entry not registered with the Disk instance
	err := os.WriteFile(fn, []byte(prefs.WarningBoilerPlate+"\nother :: keep\nrender.fps :: 30\n"), 0o600)
	test.DemandSuccess(t, err)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var fps prefs.Int
	test.ExpectSuccess(t, fps.Set(60))
	test.ExpectSuccess(t, dsk.Add("render.fps", &fps))
	test.DemandSuccess(t, dsk.Load(false))
	test.ExpectEquality(t, fps.Get().(int), 30)

	// unregistered entries are preserved
	test.ExpectSuccess(t, fps.Set(50))
	test.DemandSuccess(t, dsk.Save())
	cmpTmpFile(t, fn, "other :: keep\nrender.fps :: 50\n")

	// command line overrides the file
	prefs.PushCommandLineStack("render.fps::25")
	defer prefs.PopCommandLineStack()
	test.DemandSuccess(t, dsk.Load(false))
	test.ExpectEquality(t, fps.Get().(int), 25)
}

func TestLoadMissingAndInvalid(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sub", "preferences")

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var fps prefs.Int
	test.ExpectSuccess(t, fps.Set(60))
	test.ExpectSuccess(t, dsk.Add("render.fps", &fps))

	// missing file is not an error
	test.ExpectSuccess(t, dsk.Load(false))
	test.ExpectEquality(t, fps.Get().(int), 60)

	// file without boilerplate fails unless saveOnFail is set
	test.DemandSuccess(t, os.MkdirAll(filepath.Dir(fn), 0o700))
	test.DemandSuccess(t, os.WriteFile(fn, []byte("render.fps :: 30\n"), 0o600))
	test.ExpectFailure(t, dsk.Load(false))
	test.ExpectSuccess(t, dsk.Load(true))
	cmpTmpFile(t, fn, "render.fps :: 60\n")

	test.ExpectFailure(t, dsk.Add("bad :: key", &fps))
}

func TestHooks(t *testing.T) {
	var v prefs.Int
	var post int
	v.SetHookPre(func(value prefs.Value) error {
		if value.(int) < 0 {
			return errors.New("negative")
		}
		return nil
	})
	v.SetHookPost(func(value prefs.Value) error {
		post = value.(int)
		return nil
	})

	test.ExpectSuccess(t, v.Set(10))
	test.ExpectEquality(t, post, 10)
	test.ExpectFailure(t, v.Set(-1))
	test.ExpectEquality(t, v.Get().(int), 10)
}

func TestGeneric(t *testing.T) {
	var a, b int
	g := prefs.NewGeneric(
		func(s string) error {
			_, err := fmt.Sscanf(s, "%d,%d", &a, &b)
			return err
		},
		func() prefs.Value {
			return fmt.Sprintf("%d,%d", a, b)
		},
	)
	test.ExpectSuccess(t, g.Set("3,64"))
	test.ExpectEquality(t, a, 3)
	test.ExpectEquality(t, b, 64)
	test.ExpectEquality(t, g.String(), "3,64")
}
