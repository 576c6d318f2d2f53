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

package signconfig

import (
	"os"
	"path/filepath"

	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/transit"
)

// SaveError is returned by Save().
const SaveError = "config: save: %v"

// Save validates the snapshot and writes it to path in the format chosen by
// the file extension. The file is written to a temporary file in the same
// directory and renamed into place so a reader never sees a partial file.
func Save(path string, cfg *transit.ConfigSnapshot) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := FromSnapshot(cfg).Encode(format)
	if err != nil {
		return curated.Errorf(SaveError, err)
	}

	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return curated.Errorf(SaveError, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return curated.Errorf(SaveError, err)
	}

	// the temporary file is removed unless it is successfully renamed
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return curated.Errorf(SaveError, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return curated.Errorf(SaveError, err)
	}
	if err := tmp.Close(); err != nil {
		return curated.Errorf(SaveError, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return curated.Errorf(SaveError, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return curated.Errorf(SaveError, err)
	}
	renamed = true

	return nil
}
