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

//go:build !sdl

package sdlpanel_test

import (
	"testing"

	"github.com/subwaysign/subwaysign/curated"
	"github.com/subwaysign/subwaysign/panel/sdlpanel"
	"github.com/subwaysign/subwaysign/test"
)

func TestNotAvailable(t *testing.T) {
	test.ExpectEquality(t, sdlpanel.Available(), false)
	p, err := sdlpanel.New(sdlpanel.DefaultScale, nil)
	test.ExpectSuccess(t, p == nil)
	test.ExpectSuccess(t, curated.Is(err, sdlpanel.NotAvailable))
}
