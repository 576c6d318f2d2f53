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

// Package prefs holds the engine preferences. Preferences are typed values
// that can be saved to and loaded from disk. Unlike the sign configuration,
// which describes what the sign shows, preferences describe how the engine
// runs: frame rate, reporting interval, which panel to drive and so on.
//
// Preference values are registered with a Disk instance with Add(). The key
// is used to identify the value in the preferences file. Keys are
// conventionally namespaced by component:
//
//	var fps prefs.Int
//	dsk, _ := prefs.NewDisk(paths.ResourcePath("preferences"))
//	dsk.Add("render.fps", &fps)
//	dsk.Load(true)
//
// The file format is one preference per line, "key :: value", sorted by key
// and preceded by WarningBoilerPlate. Entries in the file that are not
// registered with the Disk instance are preserved when the file is saved.
// This allows more than one Disk instance to share the same file.
//
// Values can be overridden from the command line with PushCommandLineStack().
// The string is a list of "key::value" pairs separated by semicolons. An
// overridden value is applied on the next call to Load() and then forgotten.
//
// All types are safe to read from any goroutine. The Set() functions can
// optionally call hook functions before and after the value is updated.
package prefs
