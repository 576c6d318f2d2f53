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

// Package digest creates fingerprints of frames. A fingerprint is the SHA-1
// hash of the frame's pixels. The Screen type chains fingerprints so that the
// digest identifies an entire sequence of frames, not just the most recent.
//
// Digests are useful for checking that composition is deterministic: the
// same snapshots and the same simulated clock always produce the same digest.
package digest

// Digest implementations keep a running hash of their input.
type Digest interface {
	Hash() string
	ResetDigest()
}
