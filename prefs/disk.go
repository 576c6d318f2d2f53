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

package prefs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/subwaysign/subwaysign/curated"
)

// WarningBoilerPlate is the first line of every preferences file.
const WarningBoilerPlate = "*** do not edit this file by hand while subwaysign is running ***"

// separator between key and value on each line of the preferences file.
const separator = " :: "

// error patterns.
const (
	DiskError    = "prefs: %v"
	UnknownValue = "prefs: unknown value: %s"
)

// Disk represents preference values as stored on disk.
type Disk struct {
	crit    sync.Mutex
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Path returns the filename of the preferences file.
func (dsk *Disk) Path() string {
	return dsk.path
}

// Add preference value to list of values to store/load from Disk. The key
// argument is used to identify the value in the file.
func (dsk *Disk) Add(key string, p pref) error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	if strings.Contains(key, separator) || strings.ContainsAny(key, "\n;") {
		return curated.Errorf(DiskError, fmt.Errorf("illegal key: %q", key))
	}
	dsk.entries[key] = p

	return nil
}

// Keys returns the sorted list of keys registered with the Disk.
func (dsk *Disk) Keys() []string {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the string representation of the value registered with key.
func (dsk *Disk) Lookup(key string) (string, bool) {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	p, ok := dsk.entries[key]
	if !ok {
		return "", false
	}
	return p.String(), true
}

// Set the value registered with key. The value is converted by the
// preference's Set() function.
func (dsk *Disk) Set(key string, v Value) error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	p, ok := dsk.entries[key]
	if !ok {
		return curated.Errorf(UnknownValue, key)
	}
	return p.Set(v)
}

// Reset all registered values to their zero value.
func (dsk *Disk) Reset() error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	for _, p := range dsk.entries {
		if err := p.Reset(); err != nil {
			return curated.Errorf(DiskError, err)
		}
	}
	return nil
}

// readFile returns the key/value pairs in the preferences file. A missing file
// is not an error.
func (dsk *Disk) readFile() (map[string]string, error) {
	entries := make(map[string]string)

	f, err := os.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// the first line must be the boilerplate
	if scanner.Scan() && scanner.Text() != WarningBoilerPlate {
		return nil, fmt.Errorf("not a valid preferences file (%s)", dsk.path)
	}

	for scanner.Scan() {
		k, v, ok := strings.Cut(scanner.Text(), separator)
		if !ok {
			continue
		}
		entries[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	return entries, scanner.Err()
}

// Save current preference values to disk. Entries in the file that are not
// registered with this Disk instance are preserved.
func (dsk *Disk) Save() error {
	return dsk.save(true)
}

// save writes the preferences file. if preserve is false then the existing
// file is replaced entirely.
func (dsk *Disk) save(preserve bool) error {
	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	entries := make(map[string]string)
	if preserve {
		var err error
		entries, err = dsk.readFile()
		if err != nil {
			return curated.Errorf(DiskError, err)
		}
	}

	for k, p := range dsk.entries {
		entries[k] = p.String()
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if err := os.MkdirAll(filepath.Dir(dsk.path), 0o700); err != nil {
		return curated.Errorf(DiskError, err)
	}

	s := strings.Builder{}
	s.WriteString(WarningBoilerPlate)
	s.WriteString("\n")
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, separator, entries[k]))
	}

	// write to a temporary file and rename so a partial write never replaces
	// a good file
	tmp := dsk.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(s.String()), 0o600); err != nil {
		return curated.Errorf(DiskError, err)
	}
	if err := os.Rename(tmp, dsk.path); err != nil {
		return curated.Errorf(DiskError, err)
	}

	return nil
}

// Load preference values from disk. Values on the command line stack override
// the values on disk. If saveOnFail is true and the file cannot be read then
// the current values are saved, creating a fresh file.
func (dsk *Disk) Load(saveOnFail bool) error {
	entries, err := dsk.readFile()
	if err != nil {
		if saveOnFail {
			return dsk.save(false)
		}
		return curated.Errorf(DiskError, err)
	}

	dsk.crit.Lock()
	defer dsk.crit.Unlock()

	for k, p := range dsk.entries {
		if v, ok := entries[k]; ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf(DiskError, fmt.Errorf("%s: %w", k, err))
			}
		}
		if ok, v := GetCommandLinePref(k); ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf(DiskError, fmt.Errorf("%s: %w", k, err))
			}
		}
	}

	return nil
}
