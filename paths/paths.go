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

package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// the base path for all resources. use getBasePath() rather than this value
// directly.
const baseResourcePath = ".subwaysign"

// ResourcePath returns the resource string (representing the resource to be
// loaded) prepended with operating system specific details. Empty elements
// are ignored.
func ResourcePath(resource ...string) string {
	p := make([]string, 0, len(resource)+1)
	p = append(p, getBasePath())
	p = append(p, resource...)
	return filepath.Join(p...)
}

// EnsureResourcePath is like ResourcePath() but creates the directory part of
// the path if it does not exist.
func EnsureResourcePath(resource ...string) (string, error) {
	pth := ResourcePath(resource...)
	if err := os.MkdirAll(filepath.Dir(pth), 0o700); err != nil {
		return "", err
	}
	return pth, nil
}

// getBasePath returns baseResourcePath with the user's config directory
// prepended if the unadorned baseResourcePath cannot be found in the current
// directory.
func getBasePath() string {
	if _, err := os.Stat(baseResourcePath); err == nil {
		return baseResourcePath
	}

	cnf, err := os.UserConfigDir()
	if err != nil {
		return baseResourcePath
	}
	return filepath.Join(cnf, baseResourcePath[1:])
}

// UniqueFilename creates a filename that (assuming a functioning clock) should
// not collide with any existing file. Used to name frame recordings.
//
// Format of returned string is:
//
//	prepend_YYYYMMDD_HHMMSS.ext
func UniqueFilename(prepend string, ext string) string {
	n := time.Now()
	return fmt.Sprintf("%s_%04d%02d%02d_%02d%02d%02d%s", prepend,
		n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), n.Second(), ext)
}
